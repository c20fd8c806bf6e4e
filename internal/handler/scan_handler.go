package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/middleware"
	"github.com/kiosklab/visita-gateway/internal/service"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
	"github.com/kiosklab/visita-gateway/pkg/response"
)

// ScanHandler exposes the QR scan endpoints used by guard stations.
type ScanHandler struct {
	scans *service.ScanService
}

// NewScanHandler constructs ScanHandler.
func NewScanHandler(scans *service.ScanService) *ScanHandler {
	return &ScanHandler{scans: scans}
}

// Scan godoc
// @Summary Tag a visitor's pending office visit
// @Tags Scan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ScanRequest true "Scanned QR payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scan [post]
func (h *ScanHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scan payload"))
		return
	}
	req.DeptID = middleware.SessionDeptID(c, req.DeptID)

	res, err := h.scans.Scan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Gate godoc
// @Summary Record a gate time-in/time-out scan
// @Tags Scan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.GateScanRequest true "Scanned QR payload"
// @Success 200 {object} response.Envelope
// @Router /scan/gate [post]
func (h *ScanHandler) Gate(c *gin.Context) {
	var req dto.GateScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scan payload"))
		return
	}
	res, err := h.scans.GateScan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
