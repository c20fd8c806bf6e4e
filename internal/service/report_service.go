package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/manila"
	"github.com/kiosklab/visita-gateway/internal/models"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
	"github.com/kiosklab/visita-gateway/pkg/export"
)

type reportVisitLister interface {
	List(ctx context.Context, filter dto.VisitFilter) (dto.GroupedVisitsResponse, error)
}

type reportRowSource interface {
	ListVisitors(ctx context.Context, query url.Values) ([]models.Visitor, error)
	ListVisitorLogs(ctx context.Context) ([]models.VisitorLogEntry, error)
}

type exportStore interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type downloadSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error)
}

// ReportService flattens gateway data into CSV or PDF files and hands out
// signed, expiring download links. Date-range validation happens before any
// backend call.
type ReportService struct {
	visits    reportVisitLister
	rows      reportRowSource
	store     exportStore
	signer    downloadSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(visits reportVisitLister, rows reportRowSource, store exportStore, signer downloadSigner, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		visits:    visits,
		rows:      rows,
		store:     store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate builds the requested export and returns its download link.
func (s *ReportService) Generate(ctx context.Context, req dto.ReportRequest) (dto.ReportResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ReportResponse{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report request")
	}
	if req.From != "" && req.To != "" && req.From > req.To {
		return dto.ReportResponse{}, appErrors.Clone(appErrors.ErrValidation, "start date must not be after end date")
	}

	dataset, err := s.buildDataset(ctx, req)
	if err != nil {
		return dto.ReportResponse{}, err
	}

	var payload []byte
	switch req.Format {
	case "csv":
		payload, err = s.csv.Render(dataset)
	case "pdf":
		payload, err = s.pdf.Render(dataset, reportTitle(req))
	default:
		return dto.ReportResponse{}, appErrors.Clone(appErrors.ErrValidation, "unsupported format")
	}
	if err != nil {
		return dto.ReportResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render export")
	}

	jobID := uuid.NewString()
	fileName := fmt.Sprintf("%s-%s-%s.%s", req.Dataset, s.now().In(manila.Zone).Format("20060102-150405"), jobID[:8], req.Format)
	relPath, err := s.store.Save(fileName, payload)
	if err != nil {
		return dto.ReportResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store export")
	}

	token, expiresAt, err := s.signer.Generate(jobID, relPath)
	if err != nil {
		return dto.ReportResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign download link")
	}

	s.logger.Info("export generated",
		zap.String("dataset", req.Dataset),
		zap.String("format", req.Format),
		zap.String("job_id", jobID),
		zap.Int("rows", len(dataset.Rows)))

	return dto.ReportResponse{
		JobID:       jobID,
		FileName:    fileName,
		Format:      req.Format,
		Rows:        len(dataset.Rows),
		DownloadURL: "/api/v1/reports/download/" + url.PathEscape(token),
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// Download resolves a signed token back to the stored file.
func (s *ReportService) Download(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download link")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export no longer available")
	}
	contentType := "text/csv"
	if strings.HasSuffix(relPath, ".pdf") {
		contentType = "application/pdf"
	}
	return file, contentType, nil
}

func (s *ReportService) buildDataset(ctx context.Context, req dto.ReportRequest) (export.Dataset, error) {
	switch req.Dataset {
	case "visits":
		res, err := s.visits.List(ctx, dto.VisitFilter{From: req.From, To: req.To, DeptID: req.DeptID})
		if err != nil {
			return export.Dataset{}, err
		}
		return visitsDataset(res.Visits), nil
	case "visitors":
		query := url.Values{}
		if req.From != "" {
			query.Set("startDate", req.From)
		}
		if req.To != "" {
			query.Set("endDate", req.To)
		}
		visitors, err := s.rows.ListVisitors(ctx, query)
		if err != nil {
			return export.Dataset{}, err
		}
		return visitorsDataset(visitors), nil
	case "logs":
		logs, err := s.rows.ListVisitorLogs(ctx)
		if err != nil {
			return export.Dataset{}, err
		}
		return logsDataset(logs, req.From, req.To), nil
	}
	return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, "unknown dataset")
}

func visitsDataset(visits []models.GroupedVisit) export.Dataset {
	headers := []string{"Date", "Visitor", "Visitor ID", "Offices", "Purpose", "Time In", "Time Out", "Tagged"}
	rows := make([]map[string]string, 0, len(visits))
	for _, visit := range visits {
		offices := make([]string, 0, len(visit.Offices))
		purposes := make([]string, 0, len(visit.Offices))
		for _, stop := range visit.Offices {
			offices = append(offices, stop.Office)
			if stop.Purpose != "" {
				purposes = append(purposes, stop.Purpose)
			}
		}
		tagged := "No"
		if visit.Tagged {
			tagged = "Yes"
		}
		rows = append(rows, map[string]string{
			"Date":       visit.Date,
			"Visitor":    visit.Visitor,
			"Visitor ID": visit.VisitorsID,
			"Offices":    strings.Join(offices, "; "),
			"Purpose":    strings.Join(purposes, "; "),
			"Time In":    visit.TimeInISO,
			"Time Out":   visit.TimeOutISO,
			"Tagged":     tagged,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func visitorsDataset(visitors []models.Visitor) export.Dataset {
	headers := []string{"Visitor ID", "Name", "Email", "Phone", "Gender", "Birth Date", "Purpose"}
	rows := make([]map[string]string, 0, len(visitors))
	for _, visitor := range visitors {
		rows = append(rows, map[string]string{
			"Visitor ID": visitor.VisitorsID,
			"Name":       visitor.FullName,
			"Email":      visitor.Email,
			"Phone":      visitor.Phone,
			"Gender":     visitor.Gender,
			"Birth Date": visitor.BirthDate,
			"Purpose":    visitor.Purpose,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func logsDataset(logs []models.VisitorLogEntry, from, to string) export.Dataset {
	headers := []string{"Date", "Visitor ID", "Time In", "Time Out"}
	rows := make([]map[string]string, 0, len(logs))
	for _, entry := range logs {
		date := ""
		if entry.CreatedAt != nil {
			date = manila.Date(*entry.CreatedAt)
		}
		if from != "" && (date == "" || date < from) {
			continue
		}
		if to != "" && (date == "" || date > to) {
			continue
		}
		rows = append(rows, map[string]string{
			"Date":       date,
			"Visitor ID": entry.VisitorsID,
			"Time In":    entry.TimeIn,
			"Time Out":   entry.TimeOut,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func reportTitle(req dto.ReportRequest) string {
	title := "Visitor " + req.Dataset + " report"
	if req.From != "" || req.To != "" {
		title = fmt.Sprintf("%s (%s to %s)", title, orAny(req.From), orAny(req.To))
	}
	return title
}

func orAny(date string) string {
	if date == "" {
		return "any"
	}
	return date
}
