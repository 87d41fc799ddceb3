package draft

import (
	"pharmabill/internal/domain"
	"pharmabill/internal/pricing"
)

// InvoicePayload is the body sent to the invoice-creation endpoint when a
// draft is submitted. Computed money fields are fixed two-decimal strings;
// the purchase rate keeps the precision it was entered with.
type InvoicePayload struct {
	DistributorName string             `json:"distributor_name"`
	InvoiceNumber   string             `json:"invoice_number"`
	InvoiceDate     string             `json:"invoice_date"`
	PricingMode     domain.PricingMode `json:"pricing_mode"`
	Items           []PayloadItem      `json:"items"`
	Totals          PayloadTotals      `json:"totals"`
}

// PayloadItem is one submitted line.
type PayloadItem struct {
	ProductName     string  `json:"product_name"`
	Batch           string  `json:"batch,omitempty"`
	Expiry          string  `json:"expiry,omitempty"`
	HSN             string  `json:"hsn,omitempty"`
	Quantity        float64 `json:"quantity"`
	FreeQuantity    float64 `json:"free_quantity"`
	PurchaseRate    string  `json:"purchase_rate"`
	DiscountPercent float64 `json:"discount_percent"`
	GSTPercent      float64 `json:"gst_percent"`
	SchemeInput1    float64 `json:"scheme_input1"`
	SchemeInput2    float64 `json:"scheme_input2"`
	Amount          string  `json:"amount"`
}

// PayloadTotals is the serialized form of pricing.BillTotals.
type PayloadTotals struct {
	Subtotal       string  `json:"subtotal"`
	Taxable        string  `json:"taxable"`
	GSTAmount      string  `json:"gst_amount"`
	DiscountAmount string  `json:"discount_amount"`
	GrandTotal     string  `json:"grand_total"`
	Adjustment     string  `json:"adjustment"`
	ProductCount   int     `json:"product_count"`
	TotalQuantity  float64 `json:"total_quantity"`
}

// Payload builds the submission body. It does not validate; call Validate
// first.
func (d *Draft) Payload() InvoicePayload {
	items := make([]PayloadItem, len(d.lines))
	for i := range d.lines {
		l := &d.lines[i]
		items[i] = PayloadItem{
			ProductName:     l.ProductName,
			Batch:           l.Batch,
			Expiry:          l.Expiry,
			HSN:             l.HSN,
			Quantity:        l.Quantity,
			FreeQuantity:    l.FreeQuantity,
			PurchaseRate:    pricing.FormatRate(l.PurchaseRate),
			DiscountPercent: l.DiscountPercent,
			GSTPercent:      l.GSTPercent,
			SchemeInput1:    l.SchemeInput1,
			SchemeInput2:    l.SchemeInput2,
			Amount:          pricing.FormatAmount(l.Amount),
		}
	}
	return InvoicePayload{
		DistributorName: d.DistributorName,
		InvoiceNumber:   d.InvoiceNumber,
		InvoiceDate:     d.InvoiceDate,
		PricingMode:     d.Mode,
		Items:           items,
		Totals:          FormatTotals(d.Totals()),
	}
}

// FormatTotals renders totals for serialization.
func FormatTotals(t pricing.BillTotals) PayloadTotals {
	return PayloadTotals{
		Subtotal:       pricing.FormatAmount(t.Subtotal),
		Taxable:        pricing.FormatAmount(t.Taxable),
		GSTAmount:      pricing.FormatAmount(t.GSTAmount),
		DiscountAmount: pricing.FormatAmount(t.DiscountAmount),
		GrandTotal:     pricing.FormatAmount(t.GrandTotal),
		Adjustment:     pricing.FormatAmount(t.Adjustment),
		ProductCount:   t.ProductCount,
		TotalQuantity:  t.TotalQuantity,
	}
}
