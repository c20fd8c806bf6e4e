package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/middleware"
	"github.com/kiosklab/visita-gateway/internal/service"
	"github.com/kiosklab/visita-gateway/pkg/response"
)

// ReportHandler exposes export generation and download.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Generate godoc
// @Summary Generate a CSV or PDF export
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param dataset query string true "visits, visitors or logs"
// @Param format query string true "csv or pdf"
// @Param from query string false "Start date (YYYY-MM-DD, Manila)"
// @Param to query string false "End date (YYYY-MM-DD, Manila)"
// @Param dept_id query string false "Department filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) Generate(c *gin.Context) {
	req := dto.ReportRequest{
		Dataset: strings.TrimSpace(c.Query("dataset")),
		Format:  strings.TrimSpace(c.Query("format")),
		From:    strings.TrimSpace(c.Query("from")),
		To:      strings.TrimSpace(c.Query("to")),
		DeptID:  middleware.SessionDeptID(c, c.Query("dept_id")),
	}
	res, err := h.reports.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Download godoc
// @Summary Download a previously generated export
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200
// @Failure 403 {object} response.Envelope
// @Router /reports/download/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	file, contentType, err := h.reports.Download(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+info.Name()+`"`)
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}
