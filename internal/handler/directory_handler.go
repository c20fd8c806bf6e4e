package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kiosklab/visita-gateway/internal/service"
	"github.com/kiosklab/visita-gateway/internal/upstream"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
	"github.com/kiosklab/visita-gateway/pkg/response"
)

// DirectoryHandler exposes the office, professor and service directories.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler constructs DirectoryHandler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

type officePayload struct {
	Name string `json:"name" binding:"required"`
}

type servicePayload struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type professorPayload struct {
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	FullName   string `json:"full_name"`
	DeptID     string `json:"dept_id" binding:"required"`
}

// Offices godoc
// @Summary List offices
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /offices [get]
func (h *DirectoryHandler) Offices(c *gin.Context) {
	offices, err := h.directory.Offices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offices, nil)
}

// CreateOffice godoc
// @Summary Add an office
// @Tags Directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body officePayload true "Office"
// @Success 201 {object} response.Envelope
// @Router /offices [post]
func (h *DirectoryHandler) CreateOffice(c *gin.Context) {
	var req officePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "office name is required"))
		return
	}
	if err := h.directory.CreateOffice(c.Request.Context(), strings.TrimSpace(req.Name)); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"name": req.Name})
}

// UpdateOffice godoc
// @Summary Rename an office
// @Tags Directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Office id"
// @Param payload body officePayload true "Office"
// @Success 200 {object} response.Envelope
// @Router /offices/{id} [put]
func (h *DirectoryHandler) UpdateOffice(c *gin.Context) {
	var req officePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "office name is required"))
		return
	}
	if err := h.directory.UpdateOffice(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Name)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": c.Param("id"), "name": req.Name}, nil)
}

// DeleteOffice godoc
// @Summary Remove an office
// @Tags Directory
// @Security BearerAuth
// @Param id path string true "Office id"
// @Success 204
// @Router /offices/{id} [delete]
func (h *DirectoryHandler) DeleteOffice(c *gin.Context) {
	if err := h.directory.DeleteOffice(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Professors godoc
// @Summary List professors
// @Tags Directory
// @Produce json
// @Param dept_id query string false "Department filter"
// @Success 200 {object} response.Envelope
// @Router /professors [get]
func (h *DirectoryHandler) Professors(c *gin.Context) {
	professors, err := h.directory.Professors(c.Request.Context(), strings.TrimSpace(c.Query("dept_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, professors, nil)
}

// CreateProfessor godoc
// @Summary Add a professor
// @Tags Directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body professorPayload true "Professor"
// @Success 201 {object} response.Envelope
// @Router /professors [post]
func (h *DirectoryHandler) CreateProfessor(c *gin.Context) {
	var req professorPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid professor payload"))
		return
	}
	if err := h.directory.CreateProfessor(c.Request.Context(), professorRequest(req)); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"dept_id": req.DeptID})
}

// UpdateProfessor godoc
// @Summary Edit a professor
// @Tags Directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Professor id"
// @Param payload body professorPayload true "Professor"
// @Success 200 {object} response.Envelope
// @Router /professors/{id} [put]
func (h *DirectoryHandler) UpdateProfessor(c *gin.Context) {
	var req professorPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid professor payload"))
		return
	}
	if err := h.directory.UpdateProfessor(c.Request.Context(), c.Param("id"), professorRequest(req)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": c.Param("id")}, nil)
}

// DeleteProfessor godoc
// @Summary Remove a professor
// @Tags Directory
// @Security BearerAuth
// @Param id path string true "Professor id"
// @Success 204
// @Router /professors/{id} [delete]
func (h *DirectoryHandler) DeleteProfessor(c *gin.Context) {
	if err := h.directory.DeleteProfessor(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Services godoc
// @Summary List campus services
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /services [get]
func (h *DirectoryHandler) Services(c *gin.Context) {
	services, err := h.directory.Services(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, services, nil)
}

// CreateService godoc
// @Summary Add a campus service
// @Tags Directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body servicePayload true "Service"
// @Success 201 {object} response.Envelope
// @Router /services [post]
func (h *DirectoryHandler) CreateService(c *gin.Context) {
	var req servicePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "service name is required"))
		return
	}
	if err := h.directory.CreateService(c.Request.Context(), upstream.ServiceRequest{Name: req.Name, Description: req.Description}); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"name": req.Name})
}

// UpdateService godoc
// @Summary Edit a campus service
// @Tags Directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service id"
// @Param payload body servicePayload true "Service"
// @Success 200 {object} response.Envelope
// @Router /services/{id} [put]
func (h *DirectoryHandler) UpdateService(c *gin.Context) {
	var req servicePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "service name is required"))
		return
	}
	if err := h.directory.UpdateService(c.Request.Context(), c.Param("id"), upstream.ServiceRequest{Name: req.Name, Description: req.Description}); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": c.Param("id")}, nil)
}

// DeleteService godoc
// @Summary Remove a campus service
// @Tags Directory
// @Security BearerAuth
// @Param id path string true "Service id"
// @Success 204
// @Router /services/{id} [delete]
func (h *DirectoryHandler) DeleteService(c *gin.Context) {
	if err := h.directory.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func professorRequest(req professorPayload) upstream.ProfessorRequest {
	return upstream.ProfessorRequest{
		FirstName:  strings.TrimSpace(req.FirstName),
		MiddleName: strings.TrimSpace(req.MiddleName),
		LastName:   strings.TrimSpace(req.LastName),
		FullName:   strings.TrimSpace(req.FullName),
		DeptID:     req.DeptID,
	}
}
