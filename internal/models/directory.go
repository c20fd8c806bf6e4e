package models

// Office is an organizational unit a visitor may visit. The upstream API
// calls the same entity "office" and "department" depending on the endpoint.
type Office struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Professor belongs to exactly one office.
type Professor struct {
	ID       string `json:"id"`
	DeptID   string `json:"dept_id,omitempty"`
	FullName string `json:"full_name"`
}

// Service is an offered campus service managed from the admin portal.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Visitor is a registered visitor as resolved from upstream visitor data.
type Visitor struct {
	VisitorsID string `json:"visitorsID"`
	FullName   string `json:"full_name"`
	FirstName  string `json:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Gender     string `json:"gender,omitempty"`
	BirthDate  string `json:"birth_date,omitempty"`
	Purpose    string `json:"purpose_of_visit,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
