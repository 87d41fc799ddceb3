package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pharmabill/internal/service"
)

// MockPricingService is a mock implementation of service.PricingService.
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) Quote(ctx context.Context, input service.QuoteInput) (*service.QuoteResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QuoteResult), args.Error(1)
}
