package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosklab/visita-gateway/internal/models"
	"github.com/kiosklab/visita-gateway/internal/upstream"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
)

type memoryCacheBackend struct {
	entries map[string][]byte
}

func newMemoryCacheBackend() *memoryCacheBackend {
	return &memoryCacheBackend{entries: make(map[string][]byte)}
}

func (m *memoryCacheBackend) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheBackend) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheBackend) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

type fakeDirectorySource struct {
	offices    []models.Office
	professors []models.Professor
	services   []models.Service

	officeCalls int
	profCalls   int
}

func (f *fakeDirectorySource) ListOffices(context.Context) ([]models.Office, error) {
	f.officeCalls++
	return f.offices, nil
}

func (f *fakeDirectorySource) CreateOffice(context.Context, upstream.OfficeRequest) error { return nil }
func (f *fakeDirectorySource) UpdateOffice(context.Context, string, upstream.OfficeRequest) error {
	return nil
}
func (f *fakeDirectorySource) DeleteOffice(context.Context, string) error { return nil }

func (f *fakeDirectorySource) ListProfessors(_ context.Context, deptID string) ([]models.Professor, error) {
	f.profCalls++
	if deptID == "" {
		return f.professors, nil
	}
	kept := make([]models.Professor, 0, len(f.professors))
	for _, prof := range f.professors {
		if prof.DeptID == deptID {
			kept = append(kept, prof)
		}
	}
	return kept, nil
}

func (f *fakeDirectorySource) CreateProfessor(context.Context, upstream.ProfessorRequest) error {
	return nil
}
func (f *fakeDirectorySource) UpdateProfessor(context.Context, string, upstream.ProfessorRequest) error {
	return nil
}
func (f *fakeDirectorySource) DeleteProfessor(context.Context, string) error { return nil }

func (f *fakeDirectorySource) ListServices(context.Context) ([]models.Service, error) {
	return f.services, nil
}

func (f *fakeDirectorySource) CreateService(context.Context, upstream.ServiceRequest) error {
	return nil
}
func (f *fakeDirectorySource) UpdateService(context.Context, string, upstream.ServiceRequest) error {
	return nil
}
func (f *fakeDirectorySource) DeleteService(context.Context, string) error { return nil }

func TestOfficesServedFromCacheOnSecondRead(t *testing.T) {
	source := &fakeDirectorySource{offices: []models.Office{{ID: "10", Name: "Registrar"}}}
	cache := NewCacheService(newMemoryCacheBackend(), nil, time.Minute, nil, true)
	svc := NewDirectoryService(source, cache, time.Minute, nil)

	first, err := svc.Offices(context.Background())
	require.NoError(t, err)
	second, err := svc.Offices(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.officeCalls)
}

func TestCreateOfficeInvalidatesCache(t *testing.T) {
	source := &fakeDirectorySource{offices: []models.Office{{ID: "10", Name: "Registrar"}}}
	cache := NewCacheService(newMemoryCacheBackend(), nil, time.Minute, nil, true)
	svc := NewDirectoryService(source, cache, time.Minute, nil)

	_, err := svc.Offices(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.CreateOffice(context.Background(), "Cashier"))

	_, err = svc.Offices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.officeCalls)
}

func TestOfficeNamesSkipsUnnamedEntries(t *testing.T) {
	source := &fakeDirectorySource{offices: []models.Office{
		{ID: "10", Name: "Registrar"},
		{ID: "11"},
		{Name: "Orphan"},
	}}
	svc := NewDirectoryService(source, nil, time.Minute, nil)

	names, err := svc.OfficeNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"10": "Registrar"}, names)
}

func TestFilteredProfessorListBypassesCache(t *testing.T) {
	source := &fakeDirectorySource{professors: []models.Professor{
		{ID: "p1", DeptID: "10", FullName: "Prof A"},
		{ID: "p2", DeptID: "11", FullName: "Prof B"},
	}}
	cache := NewCacheService(newMemoryCacheBackend(), nil, time.Minute, nil, true)
	svc := NewDirectoryService(source, cache, time.Minute, nil)

	filtered, err := svc.Professors(context.Background(), "10")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "p1", filtered[0].ID)

	filtered, err = svc.Professors(context.Background(), "10")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 2, source.profCalls)
}
