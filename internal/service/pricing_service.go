package service

import (
	"context"
	"strings"

	"pharmabill/internal/domain"
	"pharmabill/internal/draft"
	"pharmabill/internal/metrics"
	"pharmabill/internal/pricing"
)

// QuoteInput is the DTO for pricing a set of rows without storing them.
type QuoteInput struct {
	PricingMode string            `json:"pricing_mode"`
	Lines       []draft.LineInput `json:"lines"`
}

// QuoteResult carries every priced row and the bill totals.
type QuoteResult struct {
	PricingMode domain.PricingMode `json:"pricing_mode"`
	Lines       []draft.Line       `json:"lines"`
	Totals      pricing.BillTotals `json:"totals"`
}

// PricingService defines the stateless pricing contract.
type PricingService interface {
	Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error)
}

type pricingService struct {
	defaultMode domain.PricingMode
}

// NewPricingService creates a new PricingService. defaultMode applies when
// a quote names no mode.
func NewPricingService(defaultMode domain.PricingMode) PricingService {
	return &pricingService{defaultMode: defaultMode}
}

func (s *pricingService) Quote(_ context.Context, input QuoteInput) (*QuoteResult, error) {
	mode, err := resolveMode(input.PricingMode, s.defaultMode)
	if err != nil {
		return nil, err
	}
	d, err := draft.New(mode)
	if err != nil {
		return nil, err
	}
	for _, in := range input.Lines {
		d.AddLine(in)
	}
	metrics.RecordQuote(string(mode))
	return &QuoteResult{
		PricingMode: mode,
		Lines:       d.Lines(),
		Totals:      d.Totals(),
	}, nil
}

func resolveMode(raw string, fallback domain.PricingMode) (domain.PricingMode, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return domain.ParsePricingMode(raw)
}
