// Package draft holds the purchase-invoice draft aggregate. All edits go
// through Draft methods, which keep every derived figure in step with the
// raw inputs.
package draft

import (
	"github.com/google/uuid"

	"pharmabill/internal/domain"
	"pharmabill/internal/pricing"
)

// Line is one product row of a draft. Amount and SchemePercent are derived
// and are overwritten on every edit.
type Line struct {
	ID          uuid.UUID `json:"id"`
	ProductName string    `json:"product_name"`
	Batch       string    `json:"batch"`
	Expiry      string    `json:"expiry"`
	HSN         string    `json:"hsn"`
	pricing.LineItem

	Amount        float64  `json:"amount"`
	SchemePercent *float64 `json:"scheme_percent"`
}

// LineInput carries a row edit as it arrives from the form. Numeric fields
// may be JSON numbers or strings. A nil field means "not supplied".
type LineInput struct {
	ProductName *string `json:"product_name"`
	Batch       *string `json:"batch"`
	Expiry      *string `json:"expiry"`
	HSN         *string `json:"hsn"`

	Quantity        any `json:"quantity"`
	FreeQuantity    any `json:"free_quantity"`
	PurchaseRate    any `json:"purchase_rate"`
	DiscountPercent any `json:"discount_percent"`
	GSTPercent      any `json:"gst_percent"`
	SchemeInput1    any `json:"scheme_input1"`
	SchemeInput2    any `json:"scheme_input2"`
}

// Draft is an invoice being entered. The zero value is not usable; call New.
type Draft struct {
	ID              uuid.UUID
	DistributorName string
	InvoiceNumber   string
	InvoiceDate     string
	Mode            domain.PricingMode
	Version         int

	lines []Line
}

// New returns an empty draft displayed in mode.
func New(mode domain.PricingMode) (*Draft, error) {
	if _, err := domain.ParsePricingMode(string(mode)); err != nil {
		return nil, err
	}
	return &Draft{ID: uuid.New(), Mode: mode}, nil
}

// Lines returns a copy of the draft's lines in entry order.
func (d *Draft) Lines() []Line {
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// Items returns the pricing view of every line.
func (d *Draft) Items() []pricing.LineItem {
	items := make([]pricing.LineItem, len(d.lines))
	for i := range d.lines {
		items[i] = d.lines[i].LineItem
	}
	return items
}

// Totals recomputes the bill totals from the current lines.
func (d *Draft) Totals() pricing.BillTotals {
	return pricing.CalculateTotals(d.Items())
}

// AddLine appends a row built from in. Missing numbers are zero.
func (d *Draft) AddLine(in LineInput) Line {
	l := Line{ID: uuid.New()}
	apply(&l, in, true)
	l.recompute(d.Mode)
	d.lines = append(d.lines, l)
	return l
}

// UpdateLine applies the supplied fields of in to the line with id.
func (d *Draft) UpdateLine(id uuid.UUID, in LineInput) (Line, error) {
	i := d.indexOf(id)
	if i < 0 {
		return Line{}, domain.ErrLineNotFound
	}
	apply(&d.lines[i], in, false)
	d.lines[i].recompute(d.Mode)
	return d.lines[i], nil
}

// RemoveLine deletes the line with id, keeping the order of the rest.
func (d *Draft) RemoveLine(id uuid.UUID) error {
	i := d.indexOf(id)
	if i < 0 {
		return domain.ErrLineNotFound
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	return nil
}

// SetMode switches the display mode and reprices every line.
func (d *Draft) SetMode(mode domain.PricingMode) error {
	if _, err := domain.ParsePricingMode(string(mode)); err != nil {
		return err
	}
	d.Mode = mode
	d.recomputeAll()
	return nil
}

func (d *Draft) recomputeAll() {
	for i := range d.lines {
		d.lines[i].recompute(d.Mode)
	}
}

func (d *Draft) indexOf(id uuid.UUID) int {
	for i := range d.lines {
		if d.lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *Line) recompute(mode domain.PricingMode) {
	l.Amount = pricing.CalculateLineAmount(l.LineItem, mode)
	l.SchemePercent = nil
	if pct, ok := pricing.SchemePercent(l.SchemeInput1, l.SchemeInput2); ok {
		l.SchemePercent = &pct
	}
}

func apply(l *Line, in LineInput, fill bool) {
	setString(&l.ProductName, in.ProductName)
	setString(&l.Batch, in.Batch)
	setString(&l.Expiry, in.Expiry)
	setString(&l.HSN, in.HSN)

	setNumber(&l.Quantity, in.Quantity, fill)
	setNumber(&l.FreeQuantity, in.FreeQuantity, fill)
	setNumber(&l.PurchaseRate, in.PurchaseRate, fill)
	setNumber(&l.DiscountPercent, in.DiscountPercent, fill)
	setNumber(&l.GSTPercent, in.GSTPercent, fill)
	setNumber(&l.SchemeInput1, in.SchemeInput1, fill)
	setNumber(&l.SchemeInput2, in.SchemeInput2, fill)
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setNumber(dst *float64, src any, fill bool) {
	if src == nil && !fill {
		return
	}
	*dst = pricing.ToNumber(src)
}
