package models

import "time"

// OfficeVisit is the canonical form of an upstream office-visit row. The
// upstream API is loose about key names and value types; the upstream package
// maps every known spelling into this shape, so nothing past that boundary
// needs to care.
type OfficeVisit struct {
	ID         string     `json:"id"`
	VisitorsID string     `json:"visitorsID"`
	DeptID     string     `json:"dept_id,omitempty"`
	ProfID     string     `json:"prof_id,omitempty"`
	Purpose    string     `json:"purpose,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	Tagged     bool       `json:"qr_tagged"`
}

// VisitDetail is one office stop inside a grouped visit, with lookup names
// already resolved for display.
type VisitDetail struct {
	DeptID    string     `json:"dept_id,omitempty"`
	Office    string     `json:"office"`
	ProfID    string     `json:"prof_id,omitempty"`
	Professor string     `json:"professor,omitempty"`
	Purpose   string     `json:"purpose,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Tagged    bool       `json:"qr_tagged"`
}

// GroupedVisit aggregates every office-visit row for one visitor on one
// Manila calendar day. It is derived per request and never persisted.
type GroupedVisit struct {
	VisitorsID string        `json:"visitorsID"`
	Date       string        `json:"date"`
	Visitor    string        `json:"visitor"`
	Offices    []VisitDetail `json:"offices"`
	Tagged     bool          `json:"tagged"`
	TimeInISO  string        `json:"timeInISO,omitempty"`
	TimeOutISO string        `json:"timeOutISO,omitempty"`
}

// VisitorLogEntry is one physical entry scan recorded by the guard station.
// TimeIn/TimeOut may be bare HH:mm[:ss] strings or complete timestamps; the
// reducer in the service layer sorts that out.
type VisitorLogEntry struct {
	VisitorsID string     `json:"visitorsID"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	TimeIn     string     `json:"timeIn,omitempty"`
	TimeOut    string     `json:"timeOut,omitempty"`
}
