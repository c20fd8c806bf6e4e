package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/models"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
)

type fakeScanSource struct {
	visits  []models.OfficeVisit
	listErr error
	bulkErr error

	bulkTagged   []string
	singleTagged []string
	scanMsg      string
	scanErr      error
}

func (f *fakeScanSource) ListOfficeVisitsByVisitor(_ context.Context, visitorsID string) ([]models.OfficeVisit, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	kept := make([]models.OfficeVisit, 0, len(f.visits))
	for _, visit := range f.visits {
		if visit.VisitorsID == visitorsID {
			kept = append(kept, visit)
		}
	}
	return kept, nil
}

func (f *fakeScanSource) TagVisitsByVisitor(_ context.Context, visitorsID, deptID string) error {
	if f.bulkErr != nil {
		return f.bulkErr
	}
	f.bulkTagged = append(f.bulkTagged, visitorsID+":"+deptID)
	return nil
}

func (f *fakeScanSource) TagVisit(_ context.Context, id string) error {
	f.singleTagged = append(f.singleTagged, id)
	return nil
}

func (f *fakeScanSource) ScanVisitorLog(context.Context, string) (string, error) {
	return f.scanMsg, f.scanErr
}

func newScanService(source *fakeScanSource) *ScanService {
	return NewScanService(source, &fakeVisitorLookup{}, &fakeDirectory{}, nil, nil, nil, nil, time.Second)
}

func TestScanTagsOnlyTheScanningDepartment(t *testing.T) {
	source := &fakeScanSource{visits: []models.OfficeVisit{
		{ID: "v1", VisitorsID: "A", DeptID: "5", Tagged: false},
		{ID: "v2", VisitorsID: "A", DeptID: "7", Tagged: false},
	}}
	svc := newScanService(source)

	res, err := svc.Scan(context.Background(), dto.ScanRequest{VisitorsID: "A", DeptID: "5"})
	require.NoError(t, err)
	assert.Equal(t, dto.ScanStatusTagged, res.Status)
	require.NotNil(t, res.Visit)
	assert.Equal(t, "5", res.Visit.DeptID)
	assert.Equal(t, []string{"A:5"}, source.bulkTagged)
	assert.Empty(t, source.singleTagged)
}

func TestScanNoMatchReportsNotFoundAndMutatesNothing(t *testing.T) {
	source := &fakeScanSource{visits: []models.OfficeVisit{
		{ID: "v1", VisitorsID: "A", DeptID: "7"},
	}}
	svc := newScanService(source)

	res, err := svc.Scan(context.Background(), dto.ScanRequest{VisitorsID: "A", DeptID: "5"})
	require.NoError(t, err)
	assert.Equal(t, dto.ScanStatusNotFound, res.Status)
	assert.Contains(t, res.Message, "no appointment found")
	assert.Empty(t, source.bulkTagged)
	assert.Empty(t, source.singleTagged)
}

func TestScanPrefersFirstUntaggedRow(t *testing.T) {
	source := &fakeScanSource{visits: []models.OfficeVisit{
		{ID: "v1", VisitorsID: "A", DeptID: "5", Tagged: true},
		{ID: "v2", VisitorsID: "A", DeptID: "5", Tagged: false},
		{ID: "v3", VisitorsID: "A", DeptID: "5", Tagged: false},
	}}
	svc := newScanService(source)

	res, err := svc.Scan(context.Background(), dto.ScanRequest{VisitorsID: "A", DeptID: "5"})
	require.NoError(t, err)
	assert.Equal(t, dto.ScanStatusTagged, res.Status)
	assert.Equal(t, "v2", res.Visit.ID)
}

func TestScanAlreadyTaggedIsReportedNotRetagged(t *testing.T) {
	source := &fakeScanSource{visits: []models.OfficeVisit{
		{ID: "v1", VisitorsID: "A", DeptID: "5", Tagged: true},
	}}
	svc := newScanService(source)

	res, err := svc.Scan(context.Background(), dto.ScanRequest{VisitorsID: "A", DeptID: "5"})
	require.NoError(t, err)
	assert.Equal(t, dto.ScanStatusRepeat, res.Status)
	assert.Empty(t, source.bulkTagged)
	assert.Empty(t, source.singleTagged)
}

func TestScanTrimsScannedID(t *testing.T) {
	source := &fakeScanSource{visits: []models.OfficeVisit{
		{ID: "v1", VisitorsID: "A", DeptID: "5"},
	}}
	svc := newScanService(source)

	res, err := svc.Scan(context.Background(), dto.ScanRequest{VisitorsID: "  A\n", DeptID: "5"})
	require.NoError(t, err)
	assert.Equal(t, dto.ScanStatusTagged, res.Status)
	assert.Equal(t, "A", res.VisitorsID)
}

func TestScanFallsBackToSingleRowTag(t *testing.T) {
	source := &fakeScanSource{
		visits: []models.OfficeVisit{
			{ID: "v1", VisitorsID: "A", DeptID: "5"},
		},
		bulkErr: errors.New("route missing"),
	}
	svc := newScanService(source)

	res, err := svc.Scan(context.Background(), dto.ScanRequest{VisitorsID: "A", DeptID: "5"})
	require.NoError(t, err)
	assert.Equal(t, dto.ScanStatusTagged, res.Status)
	assert.Equal(t, []string{"v1"}, source.singleTagged)
}

func TestScanSecondScanForSameVisitorIsRejectedWhileInFlight(t *testing.T) {
	source := &fakeScanSource{visits: []models.OfficeVisit{
		{ID: "v1", VisitorsID: "A", DeptID: "5"},
	}}
	svc := NewScanService(source, &fakeVisitorLookup{}, &fakeDirectory{}, nil, nil, nil, nil, time.Minute)

	release, err := svc.acquire(context.Background(), "A")
	require.NoError(t, err)

	_, err = svc.Scan(context.Background(), dto.ScanRequest{VisitorsID: "A", DeptID: "5"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrScanBusy)

	release()
	_, err = svc.Scan(context.Background(), dto.ScanRequest{VisitorsID: "A", DeptID: "5"})
	require.NoError(t, err)
}

func TestScanLockExpiresAfterTTL(t *testing.T) {
	source := &fakeScanSource{visits: []models.OfficeVisit{
		{ID: "v1", VisitorsID: "A", DeptID: "5"},
	}}
	svc := NewScanService(source, &fakeVisitorLookup{}, &fakeDirectory{}, nil, nil, nil, nil, time.Minute)

	_, err := svc.acquire(context.Background(), "A")
	require.NoError(t, err)

	// Simulate a station that died holding the lock.
	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.Scan(context.Background(), dto.ScanRequest{VisitorsID: "A", DeptID: "5"})
	require.NoError(t, err)
}

func TestScanListFailureSurfacesError(t *testing.T) {
	source := &fakeScanSource{listErr: appErrors.ErrUpstream}
	svc := newScanService(source)

	_, err := svc.Scan(context.Background(), dto.ScanRequest{VisitorsID: "A", DeptID: "5"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUpstream)

	// The guard must re-arm after a failure.
	source.listErr = nil
	source.visits = []models.OfficeVisit{{ID: "v1", VisitorsID: "A", DeptID: "5"}}
	_, err = svc.Scan(context.Background(), dto.ScanRequest{VisitorsID: "A", DeptID: "5"})
	require.NoError(t, err)
}

func TestGateScanPassesThroughBackendMessage(t *testing.T) {
	source := &fakeScanSource{scanMsg: "Time in recorded"}
	svc := newScanService(source)

	res, err := svc.GateScan(context.Background(), dto.GateScanRequest{VisitorsID: "A"})
	require.NoError(t, err)
	assert.Equal(t, "Time in recorded", res.Message)
	assert.Equal(t, "A", res.VisitorsID)
}
