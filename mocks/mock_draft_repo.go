package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pharmabill/internal/domain"
)

// MockDraftRepo is a mock implementation of port.DraftRepository.
type MockDraftRepo struct {
	mock.Mock
}

func (m *MockDraftRepo) Create(ctx context.Context, d *domain.PurchaseDraft) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDraftRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseDraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseDraft), args.Error(1)
}

func (m *MockDraftRepo) List(ctx context.Context, offset, limit int) ([]domain.PurchaseDraft, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseDraft), args.Int(1), args.Error(2)
}

func (m *MockDraftRepo) Update(ctx context.Context, d *domain.PurchaseDraft, expectedVersion int) error {
	args := m.Called(ctx, d, expectedVersion)
	return args.Error(0)
}

func (m *MockDraftRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDraftRepo) DeleteVersion(ctx context.Context, id uuid.UUID, expectedVersion int) error {
	args := m.Called(ctx, id, expectedVersion)
	return args.Error(0)
}
