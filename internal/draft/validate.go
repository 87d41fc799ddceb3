package draft

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"pharmabill/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// submission mirrors the fields the invoice-creation endpoint requires.
type submission struct {
	DistributorName string           `json:"distributor_name" validate:"required"`
	InvoiceNumber   string           `json:"invoice_number" validate:"required"`
	InvoiceDate     string           `json:"invoice_date" validate:"required,datetime=2006-01-02"`
	Lines           []submissionLine `json:"lines" validate:"required,min=1,dive"`
}

type submissionLine struct {
	ProductName     string  `json:"product_name" validate:"required"`
	Quantity        float64 `json:"quantity" validate:"gt=0"`
	FreeQuantity    float64 `json:"free_quantity" validate:"gte=0"`
	PurchaseRate    float64 `json:"purchase_rate" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	GSTPercent      float64 `json:"gst_percent" validate:"gte=0,lte=100"`
	SchemeInput1    float64 `json:"scheme_input1" validate:"gte=0"`
	SchemeInput2    float64 `json:"scheme_input2" validate:"gte=0"`
}

// FieldError names a field that blocks submission.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists every field that blocks submission. It unwraps to
// domain.ErrDraftIncomplete.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s (%s)", f.Field, f.Rule)
	}
	return fmt.Sprintf("%s: %s", domain.ErrDraftIncomplete, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrDraftIncomplete
}

// Validate checks the draft is complete enough to submit. Pricing never
// depends on it: a draft that fails validation still has valid totals.
func (d *Draft) Validate() error {
	s := submission{
		DistributorName: strings.TrimSpace(d.DistributorName),
		InvoiceNumber:   strings.TrimSpace(d.InvoiceNumber),
		InvoiceDate:     strings.TrimSpace(d.InvoiceDate),
		Lines:           make([]submissionLine, len(d.lines)),
	}
	for i := range d.lines {
		l := &d.lines[i]
		s.Lines[i] = submissionLine{
			ProductName:     strings.TrimSpace(l.ProductName),
			Quantity:        l.Quantity,
			FreeQuantity:    l.FreeQuantity,
			PurchaseRate:    l.PurchaseRate,
			DiscountPercent: l.DiscountPercent,
			GSTPercent:      l.GSTPercent,
			SchemeInput1:    l.SchemeInput1,
			SchemeInput2:    l.SchemeInput2,
		}
	}

	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating draft: %w", err)
	}
	out := &ValidationError{Fields: make([]FieldError, len(verrs))}
	for i, fe := range verrs {
		out.Fields[i] = FieldError{
			Field: strings.TrimPrefix(fe.Namespace(), "submission."),
			Rule:  fe.Tag(),
		}
	}
	return out
}
