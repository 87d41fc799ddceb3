package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pharmabill/internal/config"
	"pharmabill/internal/csvexport"
	"pharmabill/internal/domain"
	"pharmabill/internal/draft"
	"pharmabill/internal/metrics"
	"pharmabill/internal/port"
	"pharmabill/internal/pricing"
	"pharmabill/internal/xlsxexport"
)

// CreateDraftInput is the DTO for starting a purchase draft.
type CreateDraftInput struct {
	DistributorName string            `json:"distributor_name"`
	InvoiceNumber   string            `json:"invoice_number"`
	InvoiceDate     string            `json:"invoice_date"`
	PricingMode     string            `json:"pricing_mode"`
	Lines           []draft.LineInput `json:"lines"`
}

// UpdateDraftHeaderInput is the DTO for editing draft header fields.
type UpdateDraftHeaderInput struct {
	DistributorName *string `json:"distributor_name"`
	InvoiceNumber   *string `json:"invoice_number"`
	InvoiceDate     *string `json:"invoice_date"`
}

// DraftView is a draft as returned to clients, with fresh totals.
type DraftView struct {
	ID              uuid.UUID          `json:"id"`
	DistributorName string             `json:"distributor_name"`
	InvoiceNumber   string             `json:"invoice_number"`
	InvoiceDate     string             `json:"invoice_date"`
	PricingMode     domain.PricingMode `json:"pricing_mode"`
	Version         int                `json:"version"`
	Lines           []draft.Line       `json:"lines"`
	Totals          pricing.BillTotals `json:"totals"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ExportFile is a rendered draft export.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PublishedExport points at an export uploaded to object storage.
type PublishedExport struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}

// DraftService defines the purchase draft contract.
type DraftService interface {
	Create(ctx context.Context, input CreateDraftInput) (*DraftView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DraftView, error)
	List(ctx context.Context, offset, limit int) ([]DraftView, int, error)
	UpdateHeader(ctx context.Context, id uuid.UUID, input UpdateDraftHeaderInput) (*DraftView, error)
	SetMode(ctx context.Context, id uuid.UUID, mode string) (*DraftView, error)
	AddLine(ctx context.Context, id uuid.UUID, input draft.LineInput) (*DraftView, error)
	UpdateLine(ctx context.Context, id, lineID uuid.UUID, input draft.LineInput) (*DraftView, error)
	RemoveLine(ctx context.Context, id, lineID uuid.UUID) (*DraftView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Finalize(ctx context.Context, id uuid.UUID) (*draft.InvoicePayload, error)
	Export(ctx context.Context, id uuid.UUID, format string) (*ExportFile, error)
	Publish(ctx context.Context, id uuid.UUID) (*PublishedExport, error)
}

type draftService struct {
	repo    port.DraftRepository
	storage port.ObjectStorage
	cfg     *config.Config
}

// NewDraftService creates a new DraftService implementation.
func NewDraftService(repo port.DraftRepository, storage port.ObjectStorage, cfg *config.Config) DraftService {
	return &draftService{repo: repo, storage: storage, cfg: cfg}
}

func (s *draftService) Create(ctx context.Context, input CreateDraftInput) (*DraftView, error) {
	mode, err := resolveMode(input.PricingMode, s.cfg.Pricing.DefaultMode)
	if err != nil {
		return nil, err
	}
	d, err := draft.New(mode)
	if err != nil {
		return nil, err
	}
	d.DistributorName = strings.TrimSpace(input.DistributorName)
	d.InvoiceNumber = strings.TrimSpace(input.InvoiceNumber)
	d.InvoiceDate = strings.TrimSpace(input.InvoiceDate)
	for _, in := range input.Lines {
		d.AddLine(in)
	}

	rec, err := d.Record()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	d.Version = rec.Version
	metrics.RecordDraftEvent("created")

	log.Info().Str("draft_id", rec.ID.String()).Str("pricing_mode", string(mode)).
		Int("lines", len(input.Lines)).Msg("purchase draft created")
	return newDraftView(d, rec), nil
}

func (s *draftService) GetByID(ctx context.Context, id uuid.UUID) (*DraftView, error) {
	d, rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return newDraftView(d, rec), nil
}

func (s *draftService) List(ctx context.Context, offset, limit int) ([]DraftView, int, error) {
	recs, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	views := make([]DraftView, 0, len(recs))
	for i := range recs {
		d, err := draft.FromRecord(&recs[i])
		if err != nil {
			return nil, 0, fmt.Errorf("draft %s: %w", recs[i].ID, err)
		}
		views = append(views, *newDraftView(d, &recs[i]))
	}
	return views, total, nil
}

func (s *draftService) UpdateHeader(ctx context.Context, id uuid.UUID, input UpdateDraftHeaderInput) (*DraftView, error) {
	return s.mutate(ctx, id, func(d *draft.Draft) error {
		if input.DistributorName != nil {
			d.DistributorName = strings.TrimSpace(*input.DistributorName)
		}
		if input.InvoiceNumber != nil {
			d.InvoiceNumber = strings.TrimSpace(*input.InvoiceNumber)
		}
		if input.InvoiceDate != nil {
			d.InvoiceDate = strings.TrimSpace(*input.InvoiceDate)
		}
		return nil
	})
}

func (s *draftService) SetMode(ctx context.Context, id uuid.UUID, mode string) (*DraftView, error) {
	m, err := domain.ParsePricingMode(mode)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(d *draft.Draft) error {
		return d.SetMode(m)
	})
}

func (s *draftService) AddLine(ctx context.Context, id uuid.UUID, input draft.LineInput) (*DraftView, error) {
	return s.mutate(ctx, id, func(d *draft.Draft) error {
		d.AddLine(input)
		return nil
	})
}

func (s *draftService) UpdateLine(ctx context.Context, id, lineID uuid.UUID, input draft.LineInput) (*DraftView, error) {
	return s.mutate(ctx, id, func(d *draft.Draft) error {
		_, err := d.UpdateLine(lineID, input)
		return err
	})
}

func (s *draftService) RemoveLine(ctx context.Context, id, lineID uuid.UUID) (*DraftView, error) {
	return s.mutate(ctx, id, func(d *draft.Draft) error {
		return d.RemoveLine(lineID)
	})
}

func (s *draftService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RecordDraftEvent("deleted")
	log.Info().Str("draft_id", id.String()).Msg("purchase draft deleted")
	return nil
}

// Finalize validates the draft, builds the submission payload and discards
// the draft. The discard only succeeds against the version the payload was
// built from.
func (s *draftService) Finalize(ctx context.Context, id uuid.UUID) (*draft.InvoicePayload, error) {
	d, rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	payload := d.Payload()
	if err := s.repo.DeleteVersion(ctx, id, rec.Version); err != nil {
		if errors.Is(err, domain.ErrDraftConflict) {
			metrics.RecordDraftEvent("conflict")
			log.Warn().Str("draft_id", id.String()).Int("version", rec.Version).Msg("draft finalize conflict")
		}
		return nil, err
	}
	metrics.RecordDraftEvent("finalized")

	log.Info().Str("draft_id", id.String()).Str("invoice_number", payload.InvoiceNumber).
		Str("grand_total", payload.Totals.GrandTotal).Msg("purchase draft finalized")
	return &payload, nil
}

func (s *draftService) Export(ctx context.Context, id uuid.UUID, format string) (*ExportFile, error) {
	f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(format)))
	if f == "" {
		f = domain.ExportFormatCSV
	}
	if _, ok := domain.ExportContentTypes[f]; !ok {
		return nil, domain.ErrUnsupportedExport
	}
	d, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	file, err := render(d, f)
	if err != nil {
		metrics.RecordExport(string(f), "error")
		return nil, err
	}
	metrics.RecordExport(string(f), "ok")
	return file, nil
}

func (s *draftService) Publish(ctx context.Context, id uuid.UUID) (*PublishedExport, error) {
	d, _, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	file, err := render(d, domain.ExportFormatXLSX)
	if err != nil {
		return nil, err
	}

	key := path.Join(s.cfg.Export.KeyPrefix, id.String(), file.Filename)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.S3.Bucket,
		Key:         key,
		Body:        bytes.NewReader(file.Data),
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
	})
	if err != nil {
		metrics.RecordExport(string(domain.ExportFormatXLSX), "upload_failed")
		log.Error().Err(err).Str("draft_id", id.String()).Str("key", key).Msg("export upload failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.cfg.S3.Bucket, key, s.cfg.Export.PresignExpiry)
	if err != nil {
		return nil, err
	}
	metrics.RecordExport(string(domain.ExportFormatXLSX), "published")
	log.Info().Str("draft_id", id.String()).Str("key", key).Msg("purchase draft published")
	return &PublishedExport{Key: key, URL: url, ExpiresIn: s.cfg.Export.PresignExpiry}, nil
}

func (s *draftService) load(ctx context.Context, id uuid.UUID) (*draft.Draft, *domain.PurchaseDraft, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	d, err := draft.FromRecord(rec)
	if err != nil {
		return nil, nil, err
	}
	return d, rec, nil
}

// mutate loads a draft, applies fn and saves the result against the
// version that was loaded.
func (s *draftService) mutate(ctx context.Context, id uuid.UUID, fn func(*draft.Draft) error) (*DraftView, error) {
	d, rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	out, err := d.Record()
	if err != nil {
		return nil, err
	}
	out.CreatedAt = rec.CreatedAt
	if err := s.repo.Update(ctx, out, rec.Version); err != nil {
		if errors.Is(err, domain.ErrDraftConflict) {
			metrics.RecordDraftEvent("conflict")
			log.Warn().Str("draft_id", id.String()).Int("version", rec.Version).Msg("draft update conflict")
		}
		return nil, err
	}
	d.Version = out.Version
	return newDraftView(d, out), nil
}

func render(d *draft.Draft, f domain.ExportFormat) (*ExportFile, error) {
	name := d.InvoiceNumber
	if name == "" {
		name = d.DistributorName
	}

	var data []byte
	switch f {
	case domain.ExportFormatCSV:
		var buf bytes.Buffer
		buf.Write(csvexport.BOM)
		w := csvexport.NewWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			return nil, err
		}
		if err := w.WriteLines(d.Lines()); err != nil {
			return nil, err
		}
		if err := w.WriteTotals(d.Totals()); err != nil {
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("writing csv: %w", err)
		}
		data = buf.Bytes()
	case domain.ExportFormatXLSX:
		var err error
		if data, err = xlsxexport.Write(d); err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrUnsupportedExport
	}

	return &ExportFile{
		Filename:    csvexport.BuildFilename(name, string(f)),
		ContentType: domain.ExportContentTypes[f],
		Data:        data,
	}, nil
}

func newDraftView(d *draft.Draft, rec *domain.PurchaseDraft) *DraftView {
	return &DraftView{
		ID:              d.ID,
		DistributorName: d.DistributorName,
		InvoiceNumber:   d.InvoiceNumber,
		InvoiceDate:     d.InvoiceDate,
		PricingMode:     d.Mode,
		Version:         rec.Version,
		Lines:           d.Lines(),
		Totals:          d.Totals(),
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}
