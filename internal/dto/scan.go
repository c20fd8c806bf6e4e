package dto

// ScanRequest carries the raw QR payload from a scanner station.
type ScanRequest struct {
	VisitorsID string `json:"visitorsID" validate:"required"`
	DeptID     string `json:"dept_id"`
}

// ScanResult is the outcome of a QR reconciliation scan.
type ScanResult struct {
	Status     string     `json:"status"`
	VisitorsID string     `json:"visitorsID"`
	Visitor    string     `json:"visitor,omitempty"`
	Visit      *ScanVisit `json:"visit,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// ScanVisit describes the visit row resolved by a scan.
type ScanVisit struct {
	ID      string `json:"id"`
	DeptID  string `json:"dept_id"`
	Office  string `json:"office,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	Tagged  bool   `json:"tagged"`
}

// Scan result statuses.
const (
	ScanStatusTagged   = "tagged"
	ScanStatusRepeat   = "already_tagged"
	ScanStatusNotFound = "not_found"
)

// GateScanRequest carries a gate (time-in/out) scan.
type GateScanRequest struct {
	VisitorsID string `json:"visitorsID" validate:"required"`
}

// GateScanResult is the backend's response to a gate scan.
type GateScanResult struct {
	VisitorsID string `json:"visitorsID"`
	Message    string `json:"message"`
}
