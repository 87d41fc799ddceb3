package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PurchaseDraft is the persisted working copy of a purchase invoice being
// entered. Lines holds the JSON-encoded line items of the draft aggregate.
type PurchaseDraft struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	DistributorName string          `db:"distributor_name" json:"distributor_name"`
	InvoiceNumber   string          `db:"invoice_number" json:"invoice_number"`
	InvoiceDate     string          `db:"invoice_date" json:"invoice_date"`
	PricingMode     PricingMode     `db:"pricing_mode" json:"pricing_mode"`
	Lines           json.RawMessage `db:"lines" json:"lines"`
	Version         int             `db:"version" json:"version"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}
