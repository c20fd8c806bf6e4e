package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/manila"
	"github.com/kiosklab/visita-gateway/internal/models"
)

const cacheKeyDashboard = "dashboard:summary"

type dashboardSource interface {
	ListOfficeVisits(ctx context.Context) ([]models.OfficeVisit, error)
	ListVisitorLogs(ctx context.Context) ([]models.VisitorLogEntry, error)
}

// DashboardService computes the landing-page counters from the raw visit and
// log rows. The summary is cached briefly; the dashboard polls and the
// numbers do not need to be second-exact.
type DashboardService struct {
	source dashboardSource
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(source dashboardSource, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{source: source, cache: cache, ttl: ttl, logger: logger, now: time.Now}
}

// Summary returns today's and this month's visit counters.
func (s *DashboardService) Summary(ctx context.Context) (dto.DashboardResponse, error) {
	var cached dto.DashboardResponse
	if hit, _ := s.cache.Get(ctx, cacheKeyDashboard, &cached); hit {
		return cached, nil
	}

	visits, err := s.source.ListOfficeVisits(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	logs, err := s.source.ListVisitorLogs(ctx)
	if err != nil {
		s.logger.Warn("visitor log fetch failed, presence counter unavailable", zap.Error(err))
		logs = nil
	}

	now := s.now()
	today := manila.Today(now)
	monthStart, monthEnd := manila.MonthRange(now)
	monthFrom := manila.Date(monthStart)
	monthTo := manila.Date(monthEnd)

	res := dto.DashboardResponse{Date: today}
	visitorsToday := make(map[string]struct{})
	visitorsMonth := make(map[string]struct{})

	for _, visit := range visits {
		if visit.CreatedAt == nil {
			continue
		}
		date := manila.Date(*visit.CreatedAt)
		if date == today {
			res.VisitsToday++
			visitorsToday[visit.VisitorsID] = struct{}{}
		}
		if date >= monthFrom && date <= monthTo {
			res.VisitsMonth++
			visitorsMonth[visit.VisitorsID] = struct{}{}
		}
	}
	res.VisitorsToday = len(visitorsToday)
	res.VisitorsMonth = len(visitorsMonth)

	for _, entry := range logs {
		if entry.CreatedAt == nil || manila.Date(*entry.CreatedAt) != today {
			continue
		}
		if entry.TimeIn != "" && entry.TimeOut == "" {
			res.CurrentlyIn++
		}
	}

	_ = s.cache.Set(ctx, cacheKeyDashboard, res, s.ttl)
	return res, nil
}
