package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/middleware"
	"github.com/kiosklab/visita-gateway/internal/service"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
	"github.com/kiosklab/visita-gateway/pkg/response"
)

// VisitHandler exposes the grouped visit views.
type VisitHandler struct {
	visits *service.VisitService
}

// NewVisitHandler constructs VisitHandler.
func NewVisitHandler(visits *service.VisitService) *VisitHandler {
	return &VisitHandler{visits: visits}
}

// List godoc
// @Summary List grouped visits
// @Tags Visits
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD, Manila)"
// @Param to query string false "End date (YYYY-MM-DD, Manila)"
// @Param dept_id query string false "Department filter"
// @Param search query string false "Visitor name or id search"
// @Success 200 {object} response.Envelope
// @Router /visits [get]
func (h *VisitHandler) List(c *gin.Context) {
	filter := dto.VisitFilter{
		From:   strings.TrimSpace(c.Query("from")),
		To:     strings.TrimSpace(c.Query("to")),
		DeptID: middleware.SessionDeptID(c, c.Query("dept_id")),
		Search: c.Query("search"),
	}
	res, err := h.visits.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Today godoc
// @Summary List today's grouped visits
// @Tags Visits
// @Produce json
// @Security BearerAuth
// @Param dept_id query string false "Department filter"
// @Success 200 {object} response.Envelope
// @Router /visits/today [get]
func (h *VisitHandler) Today(c *gin.Context) {
	res, err := h.visits.Today(c.Request.Context(), middleware.SessionDeptID(c, c.Query("dept_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Month godoc
// @Summary List this month's grouped visits
// @Tags Visits
// @Produce json
// @Security BearerAuth
// @Param dept_id query string false "Department filter"
// @Success 200 {object} response.Envelope
// @Router /visits/month [get]
func (h *VisitHandler) Month(c *gin.Context) {
	res, err := h.visits.Month(c.Request.Context(), middleware.SessionDeptID(c, c.Query("dept_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Create godoc
// @Summary Add office stops for an existing visitor
// @Tags Visits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateVisitRequest true "Visit stops"
// @Success 201 {object} response.Envelope
// @Router /visits [post]
func (h *VisitHandler) Create(c *gin.Context) {
	var req dto.CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid visit payload"))
		return
	}
	if err := h.visits.Create(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"visitorsID": req.VisitorsID, "stops": len(req.Offices)})
}
