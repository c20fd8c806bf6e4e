package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/models"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
)

type scanVisitSource interface {
	ListOfficeVisitsByVisitor(ctx context.Context, visitorsID string) ([]models.OfficeVisit, error)
	TagVisitsByVisitor(ctx context.Context, visitorsID, deptID string) error
	TagVisit(ctx context.Context, id string) error
	ScanVisitorLog(ctx context.Context, visitorsID string) (string, error)
}

type scanLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// ScanService reconciles QR scans against pending office visits. Only one
// scan per visitor may be in flight at a time; the guard is time-boxed so a
// crashed station cannot wedge a visitor forever.
type ScanService struct {
	visits    scanVisitSource
	visitors  visitorLookup
	directory nameDirectory
	locks     scanLocker
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	lockTTL   time.Duration

	mu       sync.Mutex
	inFlight map[string]time.Time
	now      func() time.Time
}

// NewScanService constructs the scan service. locks may be nil, in which
// case single-flight is enforced per process only.
func NewScanService(visits scanVisitSource, visitors visitorLookup, directory nameDirectory, locks scanLocker, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, lockTTL time.Duration) *ScanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &ScanService{
		visits:    visits,
		visitors:  visitors,
		directory: directory,
		locks:     locks,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		lockTTL:   lockTTL,
		inFlight:  make(map[string]time.Time),
		now:       time.Now,
	}
}

// Scan tags the visitor's pending visit for the scanning department.
// A visitor with no matching appointment is a normal outcome, reported as
// such rather than as an error.
func (s *ScanService) Scan(ctx context.Context, req dto.ScanRequest) (dto.ScanResult, error) {
	req.VisitorsID = strings.TrimSpace(req.VisitorsID)
	req.DeptID = strings.TrimSpace(req.DeptID)
	if err := s.validator.Struct(req); err != nil {
		return dto.ScanResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scan request")
	}

	release, err := s.acquire(ctx, req.VisitorsID)
	if err != nil {
		return dto.ScanResult{}, err
	}
	defer release()

	rows, err := s.visits.ListOfficeVisitsByVisitor(ctx, req.VisitorsID)
	if err != nil {
		return dto.ScanResult{}, err
	}

	candidate, found := pickCandidate(rows, req.DeptID)
	if !found {
		s.metrics.RecordScanOutcome(dto.ScanStatusNotFound)
		return dto.ScanResult{
			Status:     dto.ScanStatusNotFound,
			VisitorsID: req.VisitorsID,
			Message:    notFoundMessage(req.DeptID),
		}, nil
	}

	result := dto.ScanResult{
		VisitorsID: req.VisitorsID,
		Visitor:    s.visitorName(ctx, req.VisitorsID),
		Visit: &dto.ScanVisit{
			ID:      candidate.ID,
			DeptID:  candidate.DeptID,
			Office:  s.officeName(ctx, candidate.DeptID),
			Purpose: candidate.Purpose,
			Tagged:  true,
		},
	}

	if candidate.Tagged {
		s.metrics.RecordScanOutcome(dto.ScanStatusRepeat)
		result.Status = dto.ScanStatusRepeat
		result.Message = "visitor already tagged for this office"
		return result, nil
	}

	if err := s.tag(ctx, req.VisitorsID, candidate); err != nil {
		return dto.ScanResult{}, err
	}

	s.metrics.RecordScanOutcome(dto.ScanStatusTagged)
	result.Status = dto.ScanStatusTagged
	result.Message = "visit tagged"
	return result, nil
}

// GateScan forwards a gate time-in/time-out scan to the backend.
func (s *ScanService) GateScan(ctx context.Context, req dto.GateScanRequest) (dto.GateScanResult, error) {
	req.VisitorsID = strings.TrimSpace(req.VisitorsID)
	if err := s.validator.Struct(req); err != nil {
		return dto.GateScanResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scan request")
	}

	release, err := s.acquire(ctx, req.VisitorsID)
	if err != nil {
		return dto.GateScanResult{}, err
	}
	defer release()

	message, err := s.visits.ScanVisitorLog(ctx, req.VisitorsID)
	if err != nil {
		return dto.GateScanResult{}, err
	}
	return dto.GateScanResult{VisitorsID: req.VisitorsID, Message: message}, nil
}

// acquire takes the per-visitor single-flight guard, first in process and
// then across instances when a distributed lock is configured.
func (s *ScanService) acquire(ctx context.Context, visitorsID string) (func(), error) {
	key := "scan:lock:" + visitorsID
	now := s.now()

	s.mu.Lock()
	if deadline, ok := s.inFlight[visitorsID]; ok && now.Before(deadline) {
		s.mu.Unlock()
		return nil, appErrors.ErrScanBusy
	}
	s.inFlight[visitorsID] = now.Add(s.lockTTL)
	s.mu.Unlock()

	releaseLocal := func() {
		s.mu.Lock()
		delete(s.inFlight, visitorsID)
		s.mu.Unlock()
	}

	if s.locks == nil {
		return releaseLocal, nil
	}
	ok, err := s.locks.AcquireLock(ctx, key, s.lockTTL)
	if err != nil {
		s.logger.Warn("distributed scan lock unavailable", zap.Error(err))
		return releaseLocal, nil
	}
	if !ok {
		releaseLocal()
		return nil, appErrors.ErrScanBusy
	}
	return func() {
		if err := s.locks.ReleaseLock(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("scan lock release failed", zap.String("key", key), zap.Error(err))
		}
		releaseLocal()
	}, nil
}

// pickCandidate keeps the visitor's rows for the department (all rows when
// no department is known) and prefers the first untagged row, falling back
// to the first row. Insertion order is the tie-break.
func pickCandidate(rows []models.OfficeVisit, deptID string) (models.OfficeVisit, bool) {
	matching := make([]models.OfficeVisit, 0, len(rows))
	for _, row := range rows {
		if deptID != "" && row.DeptID != deptID {
			continue
		}
		matching = append(matching, row)
	}
	if len(matching) == 0 {
		return models.OfficeVisit{}, false
	}
	for _, row := range matching {
		if !row.Tagged {
			return row, true
		}
	}
	return matching[0], true
}

func (s *ScanService) tag(ctx context.Context, visitorsID string, candidate models.OfficeVisit) error {
	if candidate.DeptID != "" {
		err := s.visits.TagVisitsByVisitor(ctx, visitorsID, candidate.DeptID)
		if err == nil {
			return nil
		}
		s.logger.Debug("bulk tag failed, tagging single row",
			zap.String("visitorsID", visitorsID), zap.Error(err))
	}
	if candidate.ID == "" {
		return appErrors.Clone(appErrors.ErrUpstream, "visit row has no id to tag")
	}
	return s.visits.TagVisit(ctx, candidate.ID)
}

func (s *ScanService) visitorName(ctx context.Context, visitorsID string) string {
	if s.visitors == nil {
		return ""
	}
	visitor, err := s.visitors.GetVisitor(ctx, visitorsID)
	if err != nil {
		return ""
	}
	return visitor.FullName
}

func (s *ScanService) officeName(ctx context.Context, deptID string) string {
	if s.directory == nil || deptID == "" {
		return ""
	}
	names, err := s.directory.OfficeNames(ctx)
	if err != nil {
		return ""
	}
	return names[deptID]
}

func notFoundMessage(deptID string) string {
	if deptID != "" {
		return "no appointment found for this visitor in this department"
	}
	return "no appointment found for this visitor"
}
