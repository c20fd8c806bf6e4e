package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiosklab/visita-gateway/internal/dto"
	"github.com/kiosklab/visita-gateway/internal/service"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
	"github.com/kiosklab/visita-gateway/pkg/response"
)

// RegistrationHandler exposes the walk-in registration endpoint used by the
// kiosk.
type RegistrationHandler struct {
	registrations *service.RegistrationService
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registrations *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

// Register godoc
// @Summary Register a walk-in visitor and their office stops
// @Tags Registration
// @Accept json
// @Produce json
// @Param payload body dto.RegisterVisitorRequest true "Registration form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req dto.RegisterVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload"))
		return
	}
	res, err := h.registrations.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Visitor godoc
// @Summary Fetch a registered visitor
// @Tags Registration
// @Produce json
// @Param id path string true "Visitor id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /visitors/{id} [get]
func (h *RegistrationHandler) Visitor(c *gin.Context) {
	visitor, err := h.registrations.Visitor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, visitor, nil)
}
