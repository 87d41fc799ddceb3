package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pharmabill/internal/domain"
	"pharmabill/internal/port"
)

type draftRepo struct {
	db *sqlx.DB
}

// NewDraftRepo creates a new PostgreSQL-backed DraftRepository.
func NewDraftRepo(db *sqlx.DB) port.DraftRepository {
	return &draftRepo{db: db}
}

func (r *draftRepo) Create(ctx context.Context, d *domain.PurchaseDraft) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	d.Version = 1

	query := `INSERT INTO purchase_drafts (
		id, distributor_name, invoice_number, invoice_date,
		pricing_mode, lines, version, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.DistributorName, d.InvoiceNumber, d.InvoiceDate,
		d.PricingMode, d.Lines, d.Version, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("draftRepo.Create: %w", err)
	}
	return nil
}

func (r *draftRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseDraft, error) {
	var d domain.PurchaseDraft
	err := r.db.GetContext(ctx, &d, "SELECT * FROM purchase_drafts WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("draftRepo.GetByID: %w", err)
	}
	return &d, nil
}

func (r *draftRepo) List(ctx context.Context, offset, limit int) ([]domain.PurchaseDraft, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM purchase_drafts"); err != nil {
		return nil, 0, fmt.Errorf("draftRepo.List count: %w", err)
	}

	var drafts []domain.PurchaseDraft
	err := r.db.SelectContext(ctx, &drafts,
		"SELECT * FROM purchase_drafts ORDER BY updated_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("draftRepo.List: %w", err)
	}
	return drafts, total, nil
}

func (r *draftRepo) Update(ctx context.Context, d *domain.PurchaseDraft, expectedVersion int) error {
	d.UpdatedAt = time.Now().UTC()
	query := `UPDATE purchase_drafts
		SET distributor_name = $1, invoice_number = $2, invoice_date = $3,
			pricing_mode = $4, lines = $5, version = version + 1, updated_at = $6
		WHERE id = $7 AND version = $8`

	result, err := r.db.ExecContext(ctx, query,
		d.DistributorName, d.InvoiceNumber, d.InvoiceDate,
		d.PricingMode, d.Lines, d.UpdatedAt, d.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("draftRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return r.missOrConflict(ctx, "draftRepo.Update", d.ID)
	}
	d.Version = expectedVersion + 1
	return nil
}

func (r *draftRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM purchase_drafts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("draftRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}

func (r *draftRepo) DeleteVersion(ctx context.Context, id uuid.UUID, expectedVersion int) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM purchase_drafts WHERE id = $1 AND version = $2", id, expectedVersion)
	if err != nil {
		return fmt.Errorf("draftRepo.DeleteVersion: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return r.missOrConflict(ctx, "draftRepo.DeleteVersion", id)
	}
	return nil
}

// missOrConflict tells a vanished draft apart from a stale version after a
// versioned write matched no row.
func (r *draftRepo) missOrConflict(ctx context.Context, op string, id uuid.UUID) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM purchase_drafts WHERE id = $1)", id); err != nil {
		return fmt.Errorf("%s exists: %w", op, err)
	}
	if !exists {
		return domain.ErrDraftNotFound
	}
	return domain.ErrDraftConflict
}
