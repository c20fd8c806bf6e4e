package upstream

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/kiosklab/visita-gateway/internal/models"
)

// CreateOfficeVisitRequest is the payload for a new office visit row.
type CreateOfficeVisitRequest struct {
	VisitorsID string `json:"visitorsID"`
	DeptID     string `json:"dept_id,omitempty"`
	ProfID     string `json:"prof_id,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
}

// ListOfficeVisits fetches every office visit row.
func (c *Client) ListOfficeVisits(ctx context.Context) ([]models.OfficeVisit, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/office_visits", nil, &raw); err != nil {
		return nil, err
	}
	docs, err := decodeDocs(raw)
	if err != nil {
		return nil, err
	}
	visits := make([]models.OfficeVisit, 0, len(docs))
	for _, doc := range docs {
		visits = append(visits, normalizeOfficeVisit(doc))
	}
	return visits, nil
}

// ListOfficeVisitsByVisitor fetches the visits of one visitor. The filtered
// endpoint is not present on every deployment, so a failure there falls back
// to fetching everything and filtering locally.
func (c *Client) ListOfficeVisitsByVisitor(ctx context.Context, visitorsID string) ([]models.OfficeVisit, error) {
	visitorsID = strings.TrimSpace(visitorsID)
	query := url.Values{"visitorsID": []string{visitorsID}}

	var raw json.RawMessage
	if err := c.get(ctx, "/api/office_visits", query, &raw); err == nil {
		if docs, derr := decodeDocs(raw); derr == nil {
			visits := make([]models.OfficeVisit, 0, len(docs))
			for _, doc := range docs {
				visit := normalizeOfficeVisit(doc)
				if visit.VisitorsID == visitorsID {
					visits = append(visits, visit)
				}
			}
			return visits, nil
		}
	}

	c.logger.Debug("filtered office_visits lookup failed, falling back to full fetch",
		zap.String("visitorsID", visitorsID))
	all, err := c.ListOfficeVisits(ctx)
	if err != nil {
		return nil, err
	}
	visits := make([]models.OfficeVisit, 0, 4)
	for _, visit := range all {
		if visit.VisitorsID == visitorsID {
			visits = append(visits, visit)
		}
	}
	return visits, nil
}

// CreateOfficeVisit inserts a new office visit row.
func (c *Client) CreateOfficeVisit(ctx context.Context, req CreateOfficeVisitRequest) error {
	return c.post(ctx, "/api/office_visits", req, nil)
}

// TagVisitsByVisitor marks a visitor's visits to one department as tagged in
// a single call.
func (c *Client) TagVisitsByVisitor(ctx context.Context, visitorsID, deptID string) error {
	body := map[string]interface{}{
		"dept_id":   deptID,
		"qr_tagged": 1,
	}
	return c.put(ctx, "/api/office_visits/by-visitors/"+url.PathEscape(strings.TrimSpace(visitorsID)), body, nil)
}

// TagVisit marks a single office visit row as tagged.
func (c *Client) TagVisit(ctx context.Context, id string) error {
	body := map[string]interface{}{"qr_tagged": 1}
	return c.put(ctx, "/api/office_visits/"+url.PathEscape(id), body, nil)
}

// ListVisitorLogs fetches the visitor time-in/time-out log rows.
func (c *Client) ListVisitorLogs(ctx context.Context) ([]models.VisitorLogEntry, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/visitorslog", nil, &raw); err != nil {
		return nil, err
	}
	docs, err := decodeDocs(raw)
	if err != nil {
		return nil, err
	}
	entries := make([]models.VisitorLogEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, normalizeLogEntry(doc))
	}
	return entries, nil
}

// RecordVisitorLog appends a time-in log row for a visitor.
func (c *Client) RecordVisitorLog(ctx context.Context, visitorsID string) error {
	body := map[string]interface{}{"visitorsID": strings.TrimSpace(visitorsID)}
	return c.post(ctx, "/api/visitorslog", body, nil)
}

// ScanVisitorLog reports a gate scan, which the backend turns into a time-in
// or time-out stamp depending on the visitor's current state. The backend's
// human-readable message is passed through.
func (c *Client) ScanVisitorLog(ctx context.Context, visitorsID string) (string, error) {
	body := map[string]interface{}{"visitorsID": strings.TrimSpace(visitorsID)}
	var res struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/api/visitorslog/scan", body, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}
