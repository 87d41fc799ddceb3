package pricing

import "pharmabill/internal/domain"

// LineItem is one product row of a purchase invoice.
type LineItem struct {
	Quantity        float64 `json:"quantity"`
	FreeQuantity    float64 `json:"free_quantity"`
	PurchaseRate    float64 `json:"purchase_rate"`
	DiscountPercent float64 `json:"discount_percent"`
	GSTPercent      float64 `json:"gst_percent"`
	SchemeInput1    float64 `json:"scheme_input1"`
	SchemeInput2    float64 `json:"scheme_input2"`
}

// BillableQuantity returns the charged share of the quantity. A scheme such
// as "8+2" bills 8/10 of the received quantity.
func BillableQuantity(item LineItem) float64 {
	s1, s2 := item.SchemeInput1, item.SchemeInput2
	if s1 > 0 && s1+s2 > 0 {
		return item.Quantity * s1 / (s1 + s2)
	}
	return item.Quantity
}

// DiscountedRate applies the explicit discount percent to the purchase rate.
func DiscountedRate(item LineItem) float64 {
	return item.PurchaseRate * (1 - item.DiscountPercent/100)
}

// CalculateLineAmount returns the displayed amount of a line under mode,
// rounded to two decimals. Unrecognised modes price as RATE_ONLY.
func CalculateLineAmount(item LineItem, mode domain.PricingMode) float64 {
	qty := BillableQuantity(item)
	rate := DiscountedRate(item)

	var amount float64
	switch mode {
	case domain.PricingModeDiscountedRate:
		amount = rate * qty
	case domain.PricingModeDiscountedRatePlusGST:
		amount = (rate + rate*item.GSTPercent/100) * qty
	default:
		amount = item.PurchaseRate * qty
	}
	return Round2(amount)
}

// SchemePercent is the free share of a scheme, as a percentage. ok is false
// when either input is not positive, meaning the field is shown blank.
func SchemePercent(s1, s2 float64) (pct float64, ok bool) {
	if s1 <= 0 || s2 <= 0 {
		return 0, false
	}
	return Round2(s2 / (s1 + s2) * 100), true
}
