package draft

import (
	"encoding/json"
	"fmt"

	"pharmabill/internal/domain"
)

// FromRecord rebuilds a draft from its stored form. Derived fields are
// recomputed rather than trusted.
func FromRecord(rec *domain.PurchaseDraft) (*Draft, error) {
	mode, err := domain.ParsePricingMode(string(rec.PricingMode))
	if err != nil {
		return nil, err
	}
	d := &Draft{
		ID:              rec.ID,
		DistributorName: rec.DistributorName,
		InvoiceNumber:   rec.InvoiceNumber,
		InvoiceDate:     rec.InvoiceDate,
		Mode:            mode,
		Version:         rec.Version,
	}
	if len(rec.Lines) > 0 {
		if err := json.Unmarshal(rec.Lines, &d.lines); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidStructuredData, err)
		}
	}
	d.recomputeAll()
	return d, nil
}

// Record returns the storable form of the draft.
func (d *Draft) Record() (*domain.PurchaseDraft, error) {
	lines := d.lines
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encoding draft lines: %w", err)
	}
	return &domain.PurchaseDraft{
		ID:              d.ID,
		DistributorName: d.DistributorName,
		InvoiceNumber:   d.InvoiceNumber,
		InvoiceDate:     d.InvoiceDate,
		PricingMode:     d.Mode,
		Lines:           data,
		Version:         d.Version,
	}, nil
}
