package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pharmabill/internal/draft"
	"pharmabill/internal/pricing"
)

// BOM is the UTF-8 byte order mark Excel on Windows needs to detect UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns is the header row shared by the CSV and XLSX exports.
var Columns = []string{
	"Product",
	"Batch",
	"Expiry",
	"HSN",
	"Quantity",
	"Free Quantity",
	"Purchase Rate",
	"Discount %",
	"Scheme",
	"Scheme %",
	"GST %",
	"Amount",
}

// Writer wraps csv.Writer for exporting a purchase draft.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteLines writes one row per draft line.
func (w *Writer) WriteLines(lines []draft.Line) error {
	for i := range lines {
		if err := w.csv.Write(LineRow(&lines[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteTotals writes a blank separator row followed by the bill summary.
func (w *Writer) WriteTotals(t pricing.BillTotals) error {
	if err := w.csv.Write(nil); err != nil {
		return err
	}
	return w.csv.WriteAll(TotalsRows(t))
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// LineRow converts a draft line to a row matching Columns.
func LineRow(l *draft.Line) []string {
	row := make([]string, len(Columns))
	row[0] = l.ProductName
	row[1] = l.Batch
	row[2] = l.Expiry
	row[3] = l.HSN
	row[4] = formatQty(l.Quantity)
	row[5] = formatQty(l.FreeQuantity)
	row[6] = pricing.FormatRate(l.PurchaseRate)
	row[7] = formatQty(l.DiscountPercent)
	if l.SchemeInput1 > 0 || l.SchemeInput2 > 0 {
		row[8] = formatQty(l.SchemeInput1) + "+" + formatQty(l.SchemeInput2)
	}
	if l.SchemePercent != nil {
		row[9] = pricing.FormatAmount(*l.SchemePercent)
	}
	row[10] = formatQty(l.GSTPercent)
	row[11] = pricing.FormatAmount(l.Amount)
	return row
}

// TotalsRows renders bill totals as label/value pairs.
func TotalsRows(t pricing.BillTotals) [][]string {
	return [][]string{
		{"Products", strconv.Itoa(t.ProductCount)},
		{"Total Quantity", formatQty(t.TotalQuantity)},
		{"Subtotal", pricing.FormatAmount(t.Subtotal)},
		{"Discount", pricing.FormatAmount(t.DiscountAmount)},
		{"Taxable", pricing.FormatAmount(t.Taxable)},
		{"GST", pricing.FormatAmount(t.GSTAmount)},
		{"Adjustment", pricing.FormatAmount(t.Adjustment)},
		{"Grand Total", pricing.FormatAmount(t.GrandTotal)},
	}
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{ext}, falling back
// to "purchase" when the name sanitizes to nothing.
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "purchase"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
