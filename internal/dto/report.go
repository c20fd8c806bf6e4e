package dto

// ReportRequest selects the dataset and window for an export.
type ReportRequest struct {
	Dataset string `form:"dataset" validate:"required,oneof=visits visitors logs"`
	From    string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To      string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	DeptID  string `form:"dept_id"`
	Format  string `form:"format" validate:"required,oneof=csv pdf"`
}

// ReportResponse points at a finished export file.
type ReportResponse struct {
	JobID       string `json:"job_id"`
	FileName    string `json:"file_name"`
	Format      string `json:"format"`
	Rows        int    `json:"rows"`
	DownloadURL string `json:"download_url"`
	ExpiresAt   string `json:"expires_at"`
}

// DashboardResponse is the landing-page counter set.
type DashboardResponse struct {
	VisitorsToday int    `json:"visitors_today"`
	VisitsToday   int    `json:"visits_today"`
	VisitorsMonth int    `json:"visitors_month"`
	VisitsMonth   int    `json:"visits_month"`
	CurrentlyIn   int    `json:"currently_in"`
	Date          string `json:"date"`
}
