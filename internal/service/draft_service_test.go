package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pharmabill/internal/config"
	"pharmabill/internal/domain"
	"pharmabill/internal/draft"
	"pharmabill/internal/port"
	"pharmabill/internal/service"
	"pharmabill/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		S3:      config.S3Config{Bucket: "pharmabill-exports"},
		Pricing: config.PricingConfig{DefaultMode: domain.PricingModeDiscountedRate},
		Export:  config.ExportConfig{KeyPrefix: "exports", PresignExpiry: 900},
	}
}

func newDraftService() (service.DraftService, *mocks.MockDraftRepo, *mocks.MockObjectStorage) {
	repo := new(mocks.MockDraftRepo)
	storage := new(mocks.MockObjectStorage)
	return service.NewDraftService(repo, storage, testConfig()), repo, storage
}

// storedDraft returns the stored form of a one-line draft at version 3.
func storedDraft(t *testing.T, complete bool) *domain.PurchaseDraft {
	t.Helper()
	d, err := draft.New(domain.PricingModeDiscountedRate)
	require.NoError(t, err)
	if complete {
		d.DistributorName = "Sun Pharma Distributors"
		d.InvoiceNumber = "SP/2024/118"
		d.InvoiceDate = "2024-03-14"
	}
	d.AddLine(paracetamolInput())
	d.Version = 3

	rec, err := d.Record()
	require.NoError(t, err)
	rec.CreatedAt = time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	rec.UpdatedAt = rec.CreatedAt
	return rec
}

func linesOf(t *testing.T, rec *domain.PurchaseDraft) []draft.Line {
	t.Helper()
	d, err := draft.FromRecord(rec)
	require.NoError(t, err)
	return d.Lines()
}

// --- Create ---

func TestDraftService_Create_Success(t *testing.T) {
	svc, repo, _ := newDraftService()

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.PurchaseDraft")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.PurchaseDraft).Version = 1
		}).Return(nil)

	view, err := svc.Create(context.Background(), service.CreateDraftInput{
		DistributorName: "  Sun Pharma Distributors ",
		Lines:           []draft.LineInput{paracetamolInput()},
	})

	require.NoError(t, err)
	assert.Equal(t, "Sun Pharma Distributors", view.DistributorName)
	assert.Equal(t, domain.PricingModeDiscountedRate, view.PricingMode)
	assert.Equal(t, 1, view.Version)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 720.0, view.Lines[0].Amount)
	assert.Equal(t, 756.0, view.Totals.GrandTotal)
	repo.AssertExpectations(t)
}

func TestDraftService_Create_InvalidMode(t *testing.T) {
	svc, repo, _ := newDraftService()

	view, err := svc.Create(context.Background(), service.CreateDraftInput{PricingMode: "GROSS"})

	assert.Nil(t, view)
	assert.ErrorIs(t, err, domain.ErrInvalidPricingMode)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- GetByID / List ---

func TestDraftService_GetByID_RecomputesTotals(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, true)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)

	view, err := svc.GetByID(context.Background(), rec.ID)

	require.NoError(t, err)
	assert.Equal(t, rec.ID, view.ID)
	assert.Equal(t, 3, view.Version)
	assert.Equal(t, 1000.0, view.Totals.Subtotal)
	assert.Equal(t, 280.0, view.Totals.DiscountAmount)
	assert.Equal(t, rec.CreatedAt, view.CreatedAt)
}

func TestDraftService_GetByID_NotFound(t *testing.T) {
	svc, repo, _ := newDraftService()
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrDraftNotFound)

	view, err := svc.GetByID(context.Background(), id)

	assert.Nil(t, view)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestDraftService_List_Success(t *testing.T) {
	svc, repo, _ := newDraftService()
	recs := []domain.PurchaseDraft{*storedDraft(t, true), *storedDraft(t, false)}
	repo.On("List", mock.Anything, 0, 20).Return(recs, 7, nil)

	views, total, err := svc.List(context.Background(), 0, 20)

	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, 7, total)
	assert.Equal(t, 756.0, views[1].Totals.GrandTotal)
}

func TestDraftService_List_CorruptLines(t *testing.T) {
	svc, repo, _ := newDraftService()
	bad := *storedDraft(t, true)
	bad.Lines = []byte(`{"not":"an array"}`)
	repo.On("List", mock.Anything, 0, 20).Return([]domain.PurchaseDraft{bad}, 1, nil)

	views, _, err := svc.List(context.Background(), 0, 20)

	assert.Nil(t, views)
	assert.ErrorIs(t, err, domain.ErrInvalidStructuredData)
}

// --- Mutations ---

func TestDraftService_AddLine_SavesAgainstLoadedVersion(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, true)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(d *domain.PurchaseDraft) bool {
		return d.ID == rec.ID && strings.Contains(string(d.Lines), "Cetirizine")
	}), 3).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.PurchaseDraft).Version = 4
	}).Return(nil)

	view, err := svc.AddLine(context.Background(), rec.ID, draft.LineInput{
		ProductName:  strPtr("Cetirizine 10"),
		Quantity:     5,
		PurchaseRate: "20",
		GSTPercent:   12,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, view.Version)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, 100.0, view.Lines[1].Amount)
	assert.Equal(t, 2, view.Totals.ProductCount)
	repo.AssertExpectations(t)
}

func TestDraftService_UpdateLine_Conflict(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, true)
	lineID := linesOf(t, rec)[0].ID
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Update", mock.Anything, mock.Anything, 3).Return(domain.ErrDraftConflict)

	view, err := svc.UpdateLine(context.Background(), rec.ID, lineID, draft.LineInput{Quantity: 12})

	assert.Nil(t, view)
	assert.ErrorIs(t, err, domain.ErrDraftConflict)
}

func TestDraftService_UpdateLine_UnknownLine(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, true)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)

	view, err := svc.UpdateLine(context.Background(), rec.ID, uuid.New(), draft.LineInput{Quantity: 12})

	assert.Nil(t, view)
	assert.ErrorIs(t, err, domain.ErrLineNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDraftService_RemoveLine_Success(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, true)
	lineID := linesOf(t, rec)[0].ID
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Update", mock.Anything, mock.Anything, 3).Return(nil)

	view, err := svc.RemoveLine(context.Background(), rec.ID, lineID)

	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.Totals.GrandTotal)
}

func TestDraftService_SetMode_RepricesLines(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, true)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(d *domain.PurchaseDraft) bool {
		return d.PricingMode == domain.PricingModeDiscountedRatePlusGST
	}), 3).Return(nil)

	view, err := svc.SetMode(context.Background(), rec.ID, "DISCOUNTED_RATE_PLUS_GST")

	require.NoError(t, err)
	assert.Equal(t, 756.0, view.Lines[0].Amount)
	assert.Equal(t, 756.0, view.Totals.GrandTotal)
	repo.AssertExpectations(t)
}

func TestDraftService_SetMode_Invalid(t *testing.T) {
	svc, repo, _ := newDraftService()

	view, err := svc.SetMode(context.Background(), uuid.New(), "WHOLESALE")

	assert.Nil(t, view)
	assert.ErrorIs(t, err, domain.ErrInvalidPricingMode)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestDraftService_UpdateHeader_OnlySuppliedFields(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, true)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Update", mock.Anything, mock.Anything, 3).Return(nil)

	view, err := svc.UpdateHeader(context.Background(), rec.ID, service.UpdateDraftHeaderInput{
		InvoiceNumber: strPtr(" SP/2024/119 "),
	})

	require.NoError(t, err)
	assert.Equal(t, "SP/2024/119", view.InvoiceNumber)
	assert.Equal(t, "Sun Pharma Distributors", view.DistributorName)
}

// --- Delete / Finalize ---

func TestDraftService_Delete_NotFound(t *testing.T) {
	svc, repo, _ := newDraftService()
	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(domain.ErrDraftNotFound)

	err := svc.Delete(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestDraftService_Finalize_Success(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, true)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("DeleteVersion", mock.Anything, rec.ID, 3).Return(nil)

	payload, err := svc.Finalize(context.Background(), rec.ID)

	require.NoError(t, err)
	assert.Equal(t, "SP/2024/118", payload.InvoiceNumber)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "720.00", payload.Items[0].Amount)
	assert.Equal(t, "756.00", payload.Totals.GrandTotal)
	repo.AssertExpectations(t)
}

func TestDraftService_Finalize_IncompleteKeepsDraft(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, false)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)

	payload, err := svc.Finalize(context.Background(), rec.ID)

	assert.Nil(t, payload)
	assert.ErrorIs(t, err, domain.ErrDraftIncomplete)
	var verr *draft.ValidationError
	assert.True(t, errors.As(err, &verr))
	repo.AssertNotCalled(t, "DeleteVersion", mock.Anything, mock.Anything, mock.Anything)
}

func TestDraftService_Finalize_ConcurrentEditConflicts(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, true)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("DeleteVersion", mock.Anything, rec.ID, 3).Return(domain.ErrDraftConflict)

	payload, err := svc.Finalize(context.Background(), rec.ID)

	assert.Nil(t, payload)
	assert.ErrorIs(t, err, domain.ErrDraftConflict)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// --- Export / Publish ---

func TestDraftService_Export_CSV(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, true)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)

	file, err := svc.Export(context.Background(), rec.ID, "")

	require.NoError(t, err)
	assert.Equal(t, domain.ExportContentTypes[domain.ExportFormatCSV], file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "SP_2024_118_"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
	assert.Contains(t, string(file.Data), "Paracetamol 500")
	assert.Contains(t, string(file.Data), "Product,Batch,Expiry")
}

func TestDraftService_Export_XLSX(t *testing.T) {
	svc, repo, _ := newDraftService()
	rec := storedDraft(t, true)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)

	file, err := svc.Export(context.Background(), rec.ID, "XLSX")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))
	assert.Equal(t, []byte("PK"), file.Data[:2])
}

func TestDraftService_Export_UnsupportedFormat(t *testing.T) {
	svc, repo, _ := newDraftService()

	file, err := svc.Export(context.Background(), uuid.New(), "pdf")

	assert.Nil(t, file)
	assert.ErrorIs(t, err, domain.ErrUnsupportedExport)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestDraftService_Publish_Success(t *testing.T) {
	svc, repo, storage := newDraftService()
	rec := storedDraft(t, true)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)

	prefix := "exports/" + rec.ID.String() + "/SP_2024_118_"
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "pharmabill-exports" &&
			strings.HasPrefix(in.Key, prefix) &&
			in.ContentType == domain.ExportContentTypes[domain.ExportFormatXLSX] &&
			in.Size > 0
	})).Return(&port.UploadOutput{}, nil)
	storage.On("GetPresignedURL", mock.Anything, "pharmabill-exports", mock.AnythingOfType("string"), int64(900)).
		Return("https://s3.example.com/signed", nil)

	out, err := svc.Publish(context.Background(), rec.ID)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Key, prefix))
	assert.Equal(t, "https://s3.example.com/signed", out.URL)
	assert.Equal(t, int64(900), out.ExpiresIn)
	storage.AssertExpectations(t)
}

func TestDraftService_Publish_UploadFails(t *testing.T) {
	svc, repo, storage := newDraftService()
	rec := storedDraft(t, true)
	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	out, err := svc.Publish(context.Background(), rec.ID)

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
