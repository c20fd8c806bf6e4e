package dto

// RegisterVisitorRequest is the walk-in registration form.
type RegisterVisitorRequest struct {
	FirstName  string      `json:"firstName" validate:"required"`
	MiddleName string      `json:"middleName"`
	LastName   string      `json:"lastName" validate:"required"`
	Email      string      `json:"email" validate:"omitempty,email"`
	Phone      string      `json:"phone"`
	Gender     string      `json:"gender"`
	BirthDate  string      `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Purpose    string      `json:"purpose"`
	Offices    []VisitStop `json:"offices" validate:"required,min=1,dive"`
}

// RegisterVisitorResponse reports the generated visitor id and any
// non-fatal degradations that happened while registering.
type RegisterVisitorResponse struct {
	VisitorsID string   `json:"visitorsID"`
	Visitor    string   `json:"visitor"`
	Warnings   []string `json:"warnings,omitempty"`
}
