package dto

import "github.com/kiosklab/visita-gateway/internal/models"

// VisitFilter narrows visit queries. All fields are optional; dates are
// Manila calendar dates in YYYY-MM-DD form.
type VisitFilter struct {
	From   string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	DeptID string `form:"dept_id"`
	Search string `form:"search"`
}

// GroupedVisitsResponse is the aggregated visit list plus its count.
type GroupedVisitsResponse struct {
	Visits []models.GroupedVisit `json:"visits"`
	Total  int                   `json:"total"`
}

// CreateVisitRequest adds one or more office stops for a visitor.
type CreateVisitRequest struct {
	VisitorsID string      `json:"visitorsID" validate:"required"`
	Offices    []VisitStop `json:"offices" validate:"required,min=1,dive"`
}

// VisitStop is a single office a visitor intends to visit.
type VisitStop struct {
	DeptID  string `json:"dept_id" validate:"required"`
	ProfID  string `json:"prof_id"`
	Purpose string `json:"purpose"`
}
