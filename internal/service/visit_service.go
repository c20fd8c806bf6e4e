package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/manila"
	"github.com/kiosklab/visita-gateway/internal/models"
	"github.com/kiosklab/visita-gateway/internal/upstream"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
)

type visitSource interface {
	ListOfficeVisits(ctx context.Context) ([]models.OfficeVisit, error)
	ListOfficeVisitsByVisitor(ctx context.Context, visitorsID string) ([]models.OfficeVisit, error)
	CreateOfficeVisit(ctx context.Context, req upstream.CreateOfficeVisitRequest) error
	ListVisitorLogs(ctx context.Context) ([]models.VisitorLogEntry, error)
}

type visitorLookup interface {
	GetVisitor(ctx context.Context, visitorsID string) (models.Visitor, error)
}

type nameDirectory interface {
	OfficeNames(ctx context.Context) (map[string]string, error)
	ProfessorNames(ctx context.Context) (map[string]string, error)
}

// VisitService turns raw office-visit rows into per-visitor-per-day grouped
// visits with display names and reduced time-in/time-out stamps.
type VisitService struct {
	visits    visitSource
	visitors  visitorLookup
	directory nameDirectory
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewVisitService constructs the visit service.
func NewVisitService(visits visitSource, visitors visitorLookup, directory nameDirectory, validate *validator.Validate, logger *zap.Logger) *VisitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisitService{
		visits:    visits,
		visitors:  visitors,
		directory: directory,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns grouped visits matching the filter, most recent day first.
// Validation failures are rejected before anything is fetched.
func (s *VisitService) List(ctx context.Context, filter dto.VisitFilter) (dto.GroupedVisitsResponse, error) {
	if err := s.validateFilter(filter); err != nil {
		return dto.GroupedVisitsResponse{}, err
	}

	rows, logs, offices, profs, err := s.fetchInputs(ctx)
	if err != nil {
		return dto.GroupedVisitsResponse{}, err
	}

	rows = filterRows(rows, filter)
	groups := groupVisits(rows, offices, profs)
	reduceTimes(groups, logs)
	s.resolveVisitorNames(ctx, groups)

	if search := strings.TrimSpace(filter.Search); search != "" {
		groups = filterGroupsBySearch(groups, search)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date > groups[j].Date
	})

	visits := make([]models.GroupedVisit, len(groups))
	for i, group := range groups {
		visits[i] = *group
	}
	return dto.GroupedVisitsResponse{Visits: visits, Total: len(visits)}, nil
}

// Today returns the grouped visits for the current Manila day.
func (s *VisitService) Today(ctx context.Context, deptID string) (dto.GroupedVisitsResponse, error) {
	today := manila.Today(s.now())
	return s.List(ctx, dto.VisitFilter{From: today, To: today, DeptID: deptID})
}

// Month returns the grouped visits for the current Manila month.
func (s *VisitService) Month(ctx context.Context, deptID string) (dto.GroupedVisitsResponse, error) {
	first, last := manila.MonthRange(s.now())
	return s.List(ctx, dto.VisitFilter{
		From:   manila.Date(first),
		To:     manila.Date(last.Add(-time.Second)),
		DeptID: deptID,
	})
}

// Create adds one office-visit row per requested stop.
func (s *VisitService) Create(ctx context.Context, req dto.CreateVisitRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid visit request")
	}
	for _, stop := range req.Offices {
		create := upstream.CreateOfficeVisitRequest{
			VisitorsID: strings.TrimSpace(req.VisitorsID),
			DeptID:     stop.DeptID,
			ProfID:     stop.ProfID,
			Purpose:    stop.Purpose,
		}
		if err := s.visits.CreateOfficeVisit(ctx, create); err != nil {
			return err
		}
	}
	return nil
}

func (s *VisitService) validateFilter(filter dto.VisitFilter) error {
	if err := s.validator.Struct(filter); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid visit filter")
	}
	if filter.From != "" && filter.To != "" && filter.From > filter.To {
		return appErrors.Clone(appErrors.ErrValidation, "start date must not be after end date")
	}
	return nil
}

// fetchInputs loads visits, logs and the directory lookups concurrently.
// Directory and log failures degrade to empty lookups; only the visit fetch
// itself is fatal to the view.
func (s *VisitService) fetchInputs(ctx context.Context) ([]models.OfficeVisit, []models.VisitorLogEntry, map[string]string, map[string]string, error) {
	var (
		wg      sync.WaitGroup
		rows    []models.OfficeVisit
		logs    []models.VisitorLogEntry
		offices map[string]string
		profs   map[string]string
		rowsErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		rows, rowsErr = s.visits.ListOfficeVisits(ctx)
	}()
	go func() {
		defer wg.Done()
		var err error
		if logs, err = s.visits.ListVisitorLogs(ctx); err != nil {
			s.logger.Warn("visitor log fetch failed, times unavailable", zap.Error(err))
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if offices, err = s.directory.OfficeNames(ctx); err != nil {
			s.logger.Warn("office lookup failed, falling back to raw ids", zap.Error(err))
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if profs, err = s.directory.ProfessorNames(ctx); err != nil {
			s.logger.Warn("professor lookup failed, falling back to raw ids", zap.Error(err))
		}
	}()
	wg.Wait()

	if rowsErr != nil {
		return nil, nil, nil, nil, rowsErr
	}
	return rows, logs, offices, profs, nil
}

func filterRows(rows []models.OfficeVisit, filter dto.VisitFilter) []models.OfficeVisit {
	deptID := strings.TrimSpace(filter.DeptID)
	if filter.From == "" && filter.To == "" && deptID == "" {
		return rows
	}
	kept := make([]models.OfficeVisit, 0, len(rows))
	for _, row := range rows {
		if deptID != "" && row.DeptID != deptID {
			continue
		}
		if filter.From != "" || filter.To != "" {
			if row.CreatedAt == nil {
				continue
			}
			date := manila.Date(*row.CreatedAt)
			if filter.From != "" && date < filter.From {
				continue
			}
			if filter.To != "" && date > filter.To {
				continue
			}
		}
		kept = append(kept, row)
	}
	return kept
}

// groupVisits folds rows into one group per (visitorsID, Manila date),
// preserving insertion order. Rows without a parseable createdAt are dropped
// since no grouping key can be derived for them.
func groupVisits(rows []models.OfficeVisit, officeNames, profNames map[string]string) []*models.GroupedVisit {
	index := make(map[string]*models.GroupedVisit)
	groups := make([]*models.GroupedVisit, 0, len(rows))

	for _, row := range rows {
		if row.CreatedAt == nil || row.VisitorsID == "" {
			continue
		}
		date := manila.Date(*row.CreatedAt)
		key := row.VisitorsID + "__" + date

		group, ok := index[key]
		if !ok {
			group = &models.GroupedVisit{
				VisitorsID: row.VisitorsID,
				Date:       date,
				Visitor:    row.VisitorsID,
			}
			index[key] = group
			groups = append(groups, group)
		}

		office := officeNames[row.DeptID]
		if office == "" {
			office = row.DeptID
		}
		group.Offices = append(group.Offices, models.VisitDetail{
			DeptID:    row.DeptID,
			Office:    office,
			ProfID:    row.ProfID,
			Professor: profNames[row.ProfID],
			Purpose:   row.Purpose,
			CreatedAt: row.CreatedAt,
			Tagged:    row.Tagged,
		})
		if row.Tagged {
			group.Tagged = true
		}
	}
	return groups
}

// reduceTimes collapses every log observation for a group's visitor and day
// into the earliest time-in and latest time-out, anchored to +08:00.
// Unparseable values are discarded.
func reduceTimes(groups []*models.GroupedVisit, logs []models.VisitorLogEntry) {
	if len(groups) == 0 || len(logs) == 0 {
		return
	}
	byGroup := make(map[string]*models.GroupedVisit, len(groups))
	for _, group := range groups {
		byGroup[group.VisitorsID+"__"+group.Date] = group
	}

	earliest := make(map[string]time.Time)
	latest := make(map[string]time.Time)

	for _, entry := range logs {
		date := ""
		if entry.CreatedAt != nil {
			date = manila.Date(*entry.CreatedAt)
		}
		key := entry.VisitorsID + "__" + date
		group, ok := byGroup[key]
		if !ok {
			continue
		}
		if in, err := manila.CombineDateTime(group.Date, entry.TimeIn); entry.TimeIn != "" && err == nil {
			if cur, ok := earliest[key]; !ok || in.Before(cur) {
				earliest[key] = in
			}
		}
		if out, err := manila.CombineDateTime(group.Date, entry.TimeOut); entry.TimeOut != "" && err == nil {
			if cur, ok := latest[key]; !ok || out.After(cur) {
				latest[key] = out
			}
		}
	}

	for key, group := range byGroup {
		if in, ok := earliest[key]; ok {
			group.TimeInISO = manila.FormatISO(in)
		}
		if out, ok := latest[key]; ok {
			group.TimeOutISO = manila.FormatISO(out)
		}
	}
}

// resolveVisitorNames looks up a display name per distinct visitor. Lookups
// run concurrently and a failed lookup leaves the visitorsID as the display
// value rather than failing the view.
func (s *VisitService) resolveVisitorNames(ctx context.Context, groups []*models.GroupedVisit) {
	if s.visitors == nil || len(groups) == 0 {
		return
	}
	distinct := make(map[string]struct{})
	for _, group := range groups {
		distinct[group.VisitorsID] = struct{}{}
	}

	var mu sync.Mutex
	names := make(map[string]string, len(distinct))
	var wg sync.WaitGroup
	for visitorsID := range distinct {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			visitor, err := s.visitors.GetVisitor(ctx, id)
			if err != nil {
				s.logger.Debug("visitor name lookup failed", zap.String("visitorsID", id), zap.Error(err))
				return
			}
			if visitor.FullName != "" {
				mu.Lock()
				names[id] = visitor.FullName
				mu.Unlock()
			}
		}(visitorsID)
	}
	wg.Wait()

	for _, group := range groups {
		if name := names[group.VisitorsID]; name != "" {
			group.Visitor = name
		}
	}
}

func filterGroupsBySearch(groups []*models.GroupedVisit, search string) []*models.GroupedVisit {
	needle := strings.ToLower(search)
	kept := make([]*models.GroupedVisit, 0, len(groups))
	for _, group := range groups {
		if strings.Contains(strings.ToLower(group.Visitor), needle) ||
			strings.Contains(strings.ToLower(group.VisitorsID), needle) {
			kept = append(kept, group)
		}
	}
	return kept
}
