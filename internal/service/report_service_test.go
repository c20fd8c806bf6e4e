package service

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/models"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
	"github.com/kiosklab/visita-gateway/pkg/storage"
)

type fakeReportVisits struct {
	res   dto.GroupedVisitsResponse
	err   error
	calls int
}

func (f *fakeReportVisits) List(context.Context, dto.VisitFilter) (dto.GroupedVisitsResponse, error) {
	f.calls++
	return f.res, f.err
}

type fakeReportRows struct {
	visitors []models.Visitor
	logs     []models.VisitorLogEntry
	calls    int
}

func (f *fakeReportRows) ListVisitors(context.Context, url.Values) ([]models.Visitor, error) {
	f.calls++
	return f.visitors, nil
}

func (f *fakeReportRows) ListVisitorLogs(context.Context) ([]models.VisitorLogEntry, error) {
	f.calls++
	return f.logs, nil
}

func newReportService(t *testing.T, visits *fakeReportVisits, rows *fakeReportRows) *ReportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewReportService(visits, rows, store, signer, nil, nil)
}

func TestGenerateCSVAndDownloadRoundTrip(t *testing.T) {
	visits := &fakeReportVisits{res: dto.GroupedVisitsResponse{
		Visits: []models.GroupedVisit{
			{
				VisitorsID: "A",
				Date:       "2025-03-10",
				Visitor:    "Juan Cruz",
				Offices:    []models.VisitDetail{{Office: "Registrar", Purpose: "transcript"}},
				Tagged:     true,
				TimeInISO:  "2025-03-10T08:50:00+08:00",
			},
		},
		Total: 1,
	}}
	svc := newReportService(t, visits, &fakeReportRows{})

	res, err := svc.Generate(context.Background(), dto.ReportRequest{Dataset: "visits", Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)
	assert.NotEmpty(t, res.JobID)
	require.Contains(t, res.DownloadURL, "/api/v1/reports/download/")

	token := strings.TrimPrefix(res.DownloadURL, "/api/v1/reports/download/")
	token, err = url.PathUnescape(token)
	require.NoError(t, err)

	file, contentType, err := svc.Download(token)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	assert.Equal(t, "text/csv", contentType)
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Juan Cruz")
	assert.Contains(t, string(body), "Registrar")
	assert.Contains(t, string(body), "Yes")
}

func TestGeneratePDF(t *testing.T) {
	visits := &fakeReportVisits{res: dto.GroupedVisitsResponse{
		Visits: []models.GroupedVisit{{VisitorsID: "A", Date: "2025-03-10", Visitor: "Juan Cruz"}},
	}}
	svc := newReportService(t, visits, &fakeReportRows{})

	res, err := svc.Generate(context.Background(), dto.ReportRequest{Dataset: "visits", Format: "pdf"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.FileName, ".pdf"))

	token, err := url.PathUnescape(strings.TrimPrefix(res.DownloadURL, "/api/v1/reports/download/"))
	require.NoError(t, err)
	file, contentType, err := svc.Download(token)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck
	assert.Equal(t, "application/pdf", contentType)

	header := make([]byte, 4)
	_, err = io.ReadFull(file, header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestGenerateRejectsInvertedRangeWithoutFetching(t *testing.T) {
	visits := &fakeReportVisits{}
	rows := &fakeReportRows{}
	svc := newReportService(t, visits, rows)

	_, err := svc.Generate(context.Background(), dto.ReportRequest{
		Dataset: "visits",
		Format:  "csv",
		From:    "2025-03-10",
		To:      "2025-03-01",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Zero(t, visits.calls)
	assert.Zero(t, rows.calls)
}

func TestGenerateLogsDatasetFiltersByDate(t *testing.T) {
	in := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	out := time.Date(2025, 2, 1, 1, 0, 0, 0, time.UTC)
	rows := &fakeReportRows{logs: []models.VisitorLogEntry{
		{VisitorsID: "A", CreatedAt: &in, TimeIn: "09:00"},
		{VisitorsID: "B", CreatedAt: &out, TimeIn: "10:00"},
	}}
	svc := newReportService(t, &fakeReportVisits{}, rows)

	res, err := svc.Generate(context.Background(), dto.ReportRequest{
		Dataset: "logs",
		Format:  "csv",
		From:    "2025-03-01",
		To:      "2025-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)
}

func TestDownloadRejectsForgedToken(t *testing.T) {
	svc := newReportService(t, &fakeReportVisits{}, &fakeReportRows{})

	_, _, err := svc.Download("job.9999999999.cGF0aA.deadbeef")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}
