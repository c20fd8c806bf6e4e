package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/models"
	"github.com/kiosklab/visita-gateway/internal/service"
	"github.com/kiosklab/visita-gateway/pkg/storage"
)

type fakeReportData struct {
	visits dto.GroupedVisitsResponse
}

func (f *fakeReportData) List(context.Context, dto.VisitFilter) (dto.GroupedVisitsResponse, error) {
	return f.visits, nil
}

func (f *fakeReportData) ListVisitors(context.Context, url.Values) ([]models.Visitor, error) {
	return nil, nil
}

func (f *fakeReportData) ListVisitorLogs(context.Context) ([]models.VisitorLogEntry, error) {
	return nil, nil
}

func newReportHandler(t *testing.T, data *fakeReportData) *ReportHandler {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("handler-test-secret", time.Hour)
	svc := service.NewReportService(data, data, store, signer, nil, nil)
	return NewReportHandler(svc)
}

func TestReportHandlerGenerateAndDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler(t, &fakeReportData{
		visits: dto.GroupedVisitsResponse{
			Visits: []models.GroupedVisit{
				{VisitorsID: "20250310001", Date: "2025-03-10", Visitor: "Juan Dela Cruz"},
			},
			Total: 1,
		},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports?dataset=visits&format=csv", nil)

	handler.Generate(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	downloadURL, ok := envelope.Data["download_url"].(string)
	require.True(t, ok)
	token := strings.TrimPrefix(downloadURL, "/api/v1/reports/download/")
	token, err := url.PathUnescape(token)
	require.NoError(t, err)

	downloadRec := httptest.NewRecorder()
	dc, _ := gin.CreateTestContext(downloadRec)
	dc.Request = httptest.NewRequest(http.MethodGet, "/reports/download/"+token, nil)
	dc.Params = gin.Params{{Key: "token", Value: token}}

	handler.Download(dc)

	require.Equal(t, http.StatusOK, downloadRec.Code)
	body := downloadRec.Body.String()
	assert.Contains(t, body, "Juan Dela Cruz")
	assert.Contains(t, downloadRec.Header().Get("Content-Disposition"), "attachment")
}

func TestReportHandlerGenerateRejectsUnknownDataset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler(t, &fakeReportData{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports?dataset=everything&format=csv", nil)

	handler.Generate(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandlerDownloadRejectsForgedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler(t, &fakeReportData{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/download/forged", nil)
	c.Params = gin.Params{{Key: "token", Value: "forged"}}

	handler.Download(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
