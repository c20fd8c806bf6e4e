package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosklab/visita-gateway/pkg/config"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := New(config.UpstreamConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil, nil)
	return client, srv
}

func TestListOfficeVisits(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/office_visits", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"_id":"v1","visitorsID":"2025031012345678","dept_id":"10","qr_tagged":1,"createdAt":"2025-03-10T01:00:00Z"},
			{"_id":"v2","visitors_id":"2025031087654321","deptId":7,"qr_tagged":null}
		]`))
	}))

	visits, err := client.ListOfficeVisits(context.Background())
	require.NoError(t, err)
	require.Len(t, visits, 2)

	assert.Equal(t, "2025031012345678", visits[0].VisitorsID)
	assert.Equal(t, "10", visits[0].DeptID)
	assert.True(t, visits[0].Tagged)
	require.NotNil(t, visits[0].CreatedAt)

	assert.Equal(t, "2025031087654321", visits[1].VisitorsID)
	assert.Equal(t, "7", visits[1].DeptID)
	assert.False(t, visits[1].Tagged)
}

func TestListOfficeVisitsSingleObjectBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_id":"v1","visitorsID":"2025031012345678"}`))
	}))

	visits, err := client.ListOfficeVisits(context.Background())
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "v1", visits[0].ID)
}

func TestHTMLBodyWithOKStatusIsAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<!DOCTYPE html><html><body>tunnel offline</body></html>"))
	}))

	_, err := client.ListOfficeVisits(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUpstreamDecode)
}

func TestNonSuccessStatusIsAnUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.ListOfficeVisits(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
	assert.Equal(t, http.StatusBadGateway, appErrors.FromError(err).Status)
}

func TestNotFoundStatusMapsToNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such visitor", http.StatusNotFound)
	}))

	_, err := client.GetVisitor(context.Background(), "2025031012345678")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestListOfficeVisitsByVisitorFallsBackToFullFetch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("visitorsID") != "" {
			http.Error(w, "unknown query parameter", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`[
			{"_id":"v1","visitorsID":"A"},
			{"_id":"v2","visitorsID":"B"},
			{"_id":"v3","visitorsID":"A"}
		]`))
	}))

	visits, err := client.ListOfficeVisitsByVisitor(context.Background(), "  A ")
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, "v1", visits[0].ID)
	assert.Equal(t, "v3", visits[1].ID)
}

func TestLoginMapsUnauthorizedToInvalidCredentials(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))

	_, err := client.Login(context.Background(), "guard1", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginReadsNestedUserObject(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"username":"dept_head","role":"DEPARTMENT","dept_id":"10"}}`))
	}))

	account, err := client.Login(context.Background(), "dept_head", "secret")
	require.NoError(t, err)
	assert.Equal(t, "dept_head", account.Username)
	assert.Equal(t, "DEPARTMENT", account.Role)
	assert.Equal(t, "10", account.DeptID)
}

func TestScanVisitorLogReturnsBackendMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/visitorslog/scan", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"Time out recorded"}`))
	}))

	msg, err := client.ScanVisitorLog(context.Background(), "2025031012345678")
	require.NoError(t, err)
	assert.Equal(t, "Time out recorded", msg)
}
