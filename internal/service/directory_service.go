package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kiosklab/visita-gateway/internal/models"
	"github.com/kiosklab/visita-gateway/internal/upstream"
)

const (
	cacheKeyOffices    = "directory:offices"
	cacheKeyProfessors = "directory:professors"
	cacheKeyServices   = "directory:services"
)

type directorySource interface {
	ListOffices(ctx context.Context) ([]models.Office, error)
	CreateOffice(ctx context.Context, req upstream.OfficeRequest) error
	UpdateOffice(ctx context.Context, id string, req upstream.OfficeRequest) error
	DeleteOffice(ctx context.Context, id string) error
	ListProfessors(ctx context.Context, deptID string) ([]models.Professor, error)
	CreateProfessor(ctx context.Context, req upstream.ProfessorRequest) error
	UpdateProfessor(ctx context.Context, id string, req upstream.ProfessorRequest) error
	DeleteProfessor(ctx context.Context, id string) error
	ListServices(ctx context.Context) ([]models.Service, error)
	CreateService(ctx context.Context, req upstream.ServiceRequest) error
	UpdateService(ctx context.Context, id string, req upstream.ServiceRequest) error
	DeleteService(ctx context.Context, id string) error
}

// DirectoryService serves the office, professor and service lookup tables.
// Lists are cache-aside with a short TTL since the directory changes rarely
// but is read on nearly every view.
type DirectoryService struct {
	source directorySource
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewDirectoryService constructs the directory service.
func NewDirectoryService(source directorySource, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{source: source, cache: cache, ttl: ttl, logger: logger}
}

// Offices lists every office.
func (s *DirectoryService) Offices(ctx context.Context) ([]models.Office, error) {
	var offices []models.Office
	if hit, _ := s.cache.Get(ctx, cacheKeyOffices, &offices); hit {
		return offices, nil
	}
	offices, err := s.source.ListOffices(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, cacheKeyOffices, offices, s.ttl)
	return offices, nil
}

// OfficeNames returns the id-to-name lookup used for display resolution.
func (s *DirectoryService) OfficeNames(ctx context.Context) (map[string]string, error) {
	offices, err := s.Offices(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(offices))
	for _, office := range offices {
		if office.ID != "" && office.Name != "" {
			names[office.ID] = office.Name
		}
	}
	return names, nil
}

// Professors lists professors, optionally narrowed to one department.
// Only the unfiltered list is cached.
func (s *DirectoryService) Professors(ctx context.Context, deptID string) ([]models.Professor, error) {
	if deptID != "" {
		return s.source.ListProfessors(ctx, deptID)
	}
	var professors []models.Professor
	if hit, _ := s.cache.Get(ctx, cacheKeyProfessors, &professors); hit {
		return professors, nil
	}
	professors, err := s.source.ListProfessors(ctx, "")
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, cacheKeyProfessors, professors, s.ttl)
	return professors, nil
}

// ProfessorNames returns the id-to-display-name lookup.
func (s *DirectoryService) ProfessorNames(ctx context.Context) (map[string]string, error) {
	professors, err := s.Professors(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(professors))
	for _, prof := range professors {
		if prof.ID != "" && prof.FullName != "" {
			names[prof.ID] = prof.FullName
		}
	}
	return names, nil
}

// Services lists the campus services directory.
func (s *DirectoryService) Services(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if hit, _ := s.cache.Get(ctx, cacheKeyServices, &services); hit {
		return services, nil
	}
	services, err := s.source.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, cacheKeyServices, services, s.ttl)
	return services, nil
}

// CreateOffice adds an office and drops the cached list.
func (s *DirectoryService) CreateOffice(ctx context.Context, name string) error {
	if err := s.source.CreateOffice(ctx, upstream.OfficeRequest{Name: name}); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, cacheKeyOffices)
}

// UpdateOffice renames an office and drops the cached list.
func (s *DirectoryService) UpdateOffice(ctx context.Context, id, name string) error {
	if err := s.source.UpdateOffice(ctx, id, upstream.OfficeRequest{Name: name}); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, cacheKeyOffices)
}

// DeleteOffice removes an office and drops the cached list.
func (s *DirectoryService) DeleteOffice(ctx context.Context, id string) error {
	if err := s.source.DeleteOffice(ctx, id); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, cacheKeyOffices)
}

// CreateProfessor adds a professor and drops the cached list.
func (s *DirectoryService) CreateProfessor(ctx context.Context, req upstream.ProfessorRequest) error {
	if err := s.source.CreateProfessor(ctx, req); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, cacheKeyProfessors)
}

// UpdateProfessor edits a professor and drops the cached list.
func (s *DirectoryService) UpdateProfessor(ctx context.Context, id string, req upstream.ProfessorRequest) error {
	if err := s.source.UpdateProfessor(ctx, id, req); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, cacheKeyProfessors)
}

// DeleteProfessor removes a professor and drops the cached list.
func (s *DirectoryService) DeleteProfessor(ctx context.Context, id string) error {
	if err := s.source.DeleteProfessor(ctx, id); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, cacheKeyProfessors)
}

// CreateService adds a campus service and drops the cached list.
func (s *DirectoryService) CreateService(ctx context.Context, req upstream.ServiceRequest) error {
	if err := s.source.CreateService(ctx, req); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, cacheKeyServices)
}

// UpdateService edits a campus service and drops the cached list.
func (s *DirectoryService) UpdateService(ctx context.Context, id string, req upstream.ServiceRequest) error {
	if err := s.source.UpdateService(ctx, id, req); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, cacheKeyServices)
}

// DeleteService removes a campus service and drops the cached list.
func (s *DirectoryService) DeleteService(ctx context.Context, id string) error {
	if err := s.source.DeleteService(ctx, id); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, cacheKeyServices)
}
