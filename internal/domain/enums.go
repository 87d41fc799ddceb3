package domain

import "strings"

// PricingMode selects how a line amount is displayed on the purchase form.
// It never affects bill totals.
type PricingMode string

const (
	PricingModeRateOnly              PricingMode = "RATE_ONLY"
	PricingModeDiscountedRate        PricingMode = "DISCOUNTED_RATE"
	PricingModeDiscountedRatePlusGST PricingMode = "DISCOUNTED_RATE_PLUS_GST"
)

// ValidPricingModes lists every accepted pricing mode.
var ValidPricingModes = []PricingMode{
	PricingModeRateOnly,
	PricingModeDiscountedRate,
	PricingModeDiscountedRatePlusGST,
}

// ParsePricingMode resolves a mode name case-insensitively.
func ParsePricingMode(s string) (PricingMode, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, m := range ValidPricingModes {
		if string(m) == want {
			return m, nil
		}
	}
	return "", ErrInvalidPricingMode
}

// ExportFormat is the file format of a draft export.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ExportContentTypes maps ExportFormat to its MIME content type.
var ExportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv; charset=utf-8",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}
