package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/manila"
	"github.com/kiosklab/visita-gateway/internal/models"
	"github.com/kiosklab/visita-gateway/internal/upstream"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
	"github.com/kiosklab/visita-gateway/pkg/jobs"
)

type registrationSource interface {
	CreateVisitor(ctx context.Context, req upstream.CreateVisitorRequest) error
	GetVisitor(ctx context.Context, visitorsID string) (models.Visitor, error)
	CreateOfficeVisit(ctx context.Context, req upstream.CreateOfficeVisitRequest) error
	RecordVisitorLog(ctx context.Context, visitorsID string) error
}

type logRetryQueue interface {
	Enqueue(task jobs.Task) error
}

// RegistrationService handles walk-in visitor registration: it issues a
// visitor id, creates the visitor record, one office-visit row per requested
// stop, and the initial time-in log entry.
type RegistrationService struct {
	source    registrationSource
	retry     logRetryQueue
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	randInt   func(n int) int
}

// NewRegistrationService constructs the registration service. retry may be
// nil, in which case failed log writes are reported but not re-attempted.
func NewRegistrationService(source registrationSource, retry logRetryQueue, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		source:    source,
		retry:     retry,
		validator: validate,
		logger:    logger,
		now:       time.Now,
		randInt:   rand.Intn,
	}
}

// Register creates a visitor and their planned office stops. The visitor
// record and the visit rows must succeed; a failed log entry only degrades
// the response with a warning since the guard station can re-scan at the
// gate.
func (s *RegistrationService) Register(ctx context.Context, req dto.RegisterVisitorRequest) (dto.RegisterVisitorResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RegisterVisitorResponse{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration form")
	}

	visitorsID := s.newVisitorsID()
	create := upstream.CreateVisitorRequest{
		VisitorsID: visitorsID,
		FirstName:  strings.TrimSpace(req.FirstName),
		MiddleName: strings.TrimSpace(req.MiddleName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Gender:     req.Gender,
		BirthDate:  req.BirthDate,
		Purpose:    req.Purpose,
	}
	if err := s.source.CreateVisitor(ctx, create); err != nil {
		return dto.RegisterVisitorResponse{}, err
	}

	for _, stop := range req.Offices {
		visit := upstream.CreateOfficeVisitRequest{
			VisitorsID: visitorsID,
			DeptID:     stop.DeptID,
			ProfID:     stop.ProfID,
			Purpose:    stop.Purpose,
		}
		if err := s.source.CreateOfficeVisit(ctx, visit); err != nil {
			return dto.RegisterVisitorResponse{}, err
		}
	}

	res := dto.RegisterVisitorResponse{
		VisitorsID: visitorsID,
		Visitor:    joinName(create.FirstName, create.MiddleName, create.LastName),
	}
	if err := s.source.RecordVisitorLog(ctx, visitorsID); err != nil {
		s.logger.Warn("initial visitor log entry failed", zap.String("visitorsID", visitorsID), zap.Error(err))
		res.Warnings = append(res.Warnings, "time-in log entry could not be recorded")
		s.queueLogRetry(visitorsID)
	}
	return res, nil
}

func (s *RegistrationService) queueLogRetry(visitorsID string) {
	if s.retry == nil {
		return
	}
	task := jobs.Task{ID: visitorsID, Type: "visitor-log", Payload: visitorsID}
	if err := s.retry.Enqueue(task); err != nil {
		s.logger.Warn("could not queue visitor log retry", zap.String("visitorsID", visitorsID), zap.Error(err))
	}
}

// Visitor fetches a registered visitor, for kiosk confirmation and badge
// reprints.
func (s *RegistrationService) Visitor(ctx context.Context, visitorsID string) (models.Visitor, error) {
	visitorsID = strings.TrimSpace(visitorsID)
	if visitorsID == "" {
		return models.Visitor{}, appErrors.Clone(appErrors.ErrValidation, "visitorsID is required")
	}
	return s.source.GetVisitor(ctx, visitorsID)
}

// newVisitorsID issues an opaque visitor id: the Manila date of issue plus
// eight random digits.
func (s *RegistrationService) newVisitorsID() string {
	day := s.now().In(manila.Zone).Format("20060102")
	return fmt.Sprintf("%s%08d", day, s.randInt(100000000))
}

func joinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}
