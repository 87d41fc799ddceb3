package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pharmabill/internal/draft"
	"pharmabill/internal/service"
)

// MockDraftService is a mock implementation of service.DraftService.
type MockDraftService struct {
	mock.Mock
}

func (m *MockDraftService) view(args mock.Arguments) (*service.DraftView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DraftView), args.Error(1)
}

func (m *MockDraftService) Create(ctx context.Context, input service.CreateDraftInput) (*service.DraftView, error) {
	return m.view(m.Called(ctx, input))
}

func (m *MockDraftService) GetByID(ctx context.Context, id uuid.UUID) (*service.DraftView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockDraftService) List(ctx context.Context, offset, limit int) ([]service.DraftView, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]service.DraftView), args.Int(1), args.Error(2)
}

func (m *MockDraftService) UpdateHeader(ctx context.Context, id uuid.UUID, input service.UpdateDraftHeaderInput) (*service.DraftView, error) {
	return m.view(m.Called(ctx, id, input))
}

func (m *MockDraftService) SetMode(ctx context.Context, id uuid.UUID, mode string) (*service.DraftView, error) {
	return m.view(m.Called(ctx, id, mode))
}

func (m *MockDraftService) AddLine(ctx context.Context, id uuid.UUID, input draft.LineInput) (*service.DraftView, error) {
	return m.view(m.Called(ctx, id, input))
}

func (m *MockDraftService) UpdateLine(ctx context.Context, id, lineID uuid.UUID, input draft.LineInput) (*service.DraftView, error) {
	return m.view(m.Called(ctx, id, lineID, input))
}

func (m *MockDraftService) RemoveLine(ctx context.Context, id, lineID uuid.UUID) (*service.DraftView, error) {
	return m.view(m.Called(ctx, id, lineID))
}

func (m *MockDraftService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDraftService) Finalize(ctx context.Context, id uuid.UUID) (*draft.InvoicePayload, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*draft.InvoicePayload), args.Error(1)
}

func (m *MockDraftService) Export(ctx context.Context, id uuid.UUID, format string) (*service.ExportFile, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockDraftService) Publish(ctx context.Context, id uuid.UUID) (*service.PublishedExport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishedExport), args.Error(1)
}
