package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosklab/visita-gateway/internal/manila"
	"github.com/kiosklab/visita-gateway/internal/middleware"
	"github.com/kiosklab/visita-gateway/internal/models"
	"github.com/kiosklab/visita-gateway/internal/service"
	"github.com/kiosklab/visita-gateway/internal/upstream"
)

type fakeVisitBackend struct {
	visits  []models.OfficeVisit
	logs    []models.VisitorLogEntry
	created []upstream.CreateOfficeVisitRequest
}

func (f *fakeVisitBackend) ListOfficeVisits(context.Context) ([]models.OfficeVisit, error) {
	return f.visits, nil
}

func (f *fakeVisitBackend) ListOfficeVisitsByVisitor(context.Context, string) ([]models.OfficeVisit, error) {
	return f.visits, nil
}

func (f *fakeVisitBackend) CreateOfficeVisit(_ context.Context, req upstream.CreateOfficeVisitRequest) error {
	f.created = append(f.created, req)
	return nil
}

func (f *fakeVisitBackend) ListVisitorLogs(context.Context) ([]models.VisitorLogEntry, error) {
	return f.logs, nil
}

func (f *fakeVisitBackend) GetVisitor(_ context.Context, visitorsID string) (models.Visitor, error) {
	return models.Visitor{VisitorsID: visitorsID, FullName: "Juan Dela Cruz"}, nil
}

type fakeNames struct{}

func (fakeNames) OfficeNames(context.Context) (map[string]string, error) {
	return map[string]string{"5": "Registrar"}, nil
}

func (fakeNames) ProfessorNames(context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}

func newVisitHandler(backend *fakeVisitBackend) *VisitHandler {
	svc := service.NewVisitService(backend, backend, fakeNames{}, nil, nil)
	return NewVisitHandler(svc)
}

func TestVisitHandlerListGroupsRows(t *testing.T) {
	gin.SetMode(gin.TestMode)
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, manila.Zone)
	backend := &fakeVisitBackend{visits: []models.OfficeVisit{
		{ID: "v1", VisitorsID: "20250310001", DeptID: "5", CreatedAt: &created},
	}}
	handler := newVisitHandler(backend)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/visits?from=2025-03-01&to=2025-03-31", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, float64(1), envelope.Data["total"])
	visits, ok := envelope.Data["visits"].([]interface{})
	require.True(t, ok)
	require.Len(t, visits, 1)
	first, ok := visits[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2025-03-10", first["date"])
	assert.Equal(t, "Juan Dela Cruz", first["visitor"])
}

func TestVisitHandlerListRejectsInvertedRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newVisitHandler(&fakeVisitBackend{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/visits?from=2025-03-31&to=2025-03-01", nil)

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVisitHandlerTodayPinsDepartmentSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	today := manila.Today(time.Now())
	createdOwn, err := manila.CombineDateTime(today, "09:00")
	require.NoError(t, err)
	createdOther, err := manila.CombineDateTime(today, "10:00")
	require.NoError(t, err)
	backend := &fakeVisitBackend{visits: []models.OfficeVisit{
		{ID: "v1", VisitorsID: "a-1", DeptID: "5", CreatedAt: &createdOwn},
		{ID: "v2", VisitorsID: "b-2", DeptID: "9", CreatedAt: &createdOther},
	}}
	handler := newVisitHandler(backend)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	// The query asks for office 9 but the session is pinned to office 5.
	c.Request = httptest.NewRequest(http.MethodGet, "/visits/today?dept_id=9", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		Username: "frontdesk",
		Role:     models.RoleDepartment,
		DeptID:   "5",
	})

	handler.Today(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, float64(1), envelope.Data["total"])
}

func TestVisitHandlerCreateRecordsStops(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend := &fakeVisitBackend{}
	handler := newVisitHandler(backend)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/visits",
		`{"visitorsID":"20250310001","offices":[{"dept_id":"5","purpose":"records"},{"dept_id":"9"}]}`)

	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, backend.created, 2)
	assert.Equal(t, "5", backend.created[0].DeptID)
	assert.Equal(t, "9", backend.created[1].DeptID)
}
