package pricing

// BillTotals are the derived figures of a whole bill.
type BillTotals struct {
	Subtotal       float64 `json:"subtotal"`
	Taxable        float64 `json:"taxable"`
	GSTAmount      float64 `json:"gst_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	GrandTotal     float64 `json:"grand_total"`
	Adjustment     float64 `json:"adjustment"`
	ProductCount   int     `json:"product_count"`
	TotalQuantity  float64 `json:"total_quantity"`
}

// CalculateTotals aggregates items into bill totals.
//
// Taxable value and GST always follow the discounted-rate convention,
// whatever mode the lines are displayed in, and GST is summed per line at
// each line's own rate. GrandTotal is a whole amount and Adjustment records
// the rounding so that GrandTotal - Adjustment == Taxable + GSTAmount.
func CalculateTotals(items []LineItem) BillTotals {
	var t BillTotals
	if len(items) == 0 {
		return t
	}

	var subtotal, taxable, gst float64
	for _, item := range items {
		lineTaxable := DiscountedRate(item) * BillableQuantity(item)
		subtotal += item.Quantity * item.PurchaseRate
		taxable += lineTaxable
		gst += lineTaxable * item.GSTPercent / 100
		t.TotalQuantity += item.Quantity + item.FreeQuantity
		t.ProductCount++
	}

	t.Subtotal = Round2(subtotal)
	t.Taxable = Round2(taxable)
	t.GSTAmount = Round2(gst)
	t.DiscountAmount = Round2(t.Subtotal - t.Taxable)

	raw := t.Taxable + t.GSTAmount
	t.GrandTotal = RoundWhole(raw)
	t.Adjustment = Round2(t.GrandTotal - raw)
	return t
}
