package port

import (
	"context"

	"github.com/google/uuid"

	"pharmabill/internal/domain"
)

// DraftRepository defines the contract for purchase draft persistence.
// Update and DeleteVersion compare the stored version against
// expectedVersion and return domain.ErrDraftConflict when another writer
// got there first.
type DraftRepository interface {
	Create(ctx context.Context, draft *domain.PurchaseDraft) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseDraft, error)
	List(ctx context.Context, offset, limit int) ([]domain.PurchaseDraft, int, error)
	Update(ctx context.Context, draft *domain.PurchaseDraft, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteVersion(ctx context.Context, id uuid.UUID, expectedVersion int) error
}
