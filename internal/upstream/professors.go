package upstream

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/kiosklab/visita-gateway/internal/models"
)

// ProfessorRequest is the payload for creating or updating a professor.
type ProfessorRequest struct {
	FirstName  string `json:"firstName,omitempty"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	DeptID     string `json:"dept_id,omitempty"`
}

// ListProfessors fetches professors, optionally filtered to one department.
// The query-filtered endpoint is preferred; deployments that predate it
// expose a path-based department route instead.
func (c *Client) ListProfessors(ctx context.Context, deptID string) ([]models.Professor, error) {
	deptID = strings.TrimSpace(deptID)

	var query url.Values
	if deptID != "" {
		query = url.Values{"dept_id": []string{deptID}}
	}
	var raw json.RawMessage
	err := c.get(ctx, "/api/professors", query, &raw)
	if err == nil {
		if docs, derr := decodeDocs(raw); derr == nil {
			return filterProfessors(docs, deptID), nil
		}
	}
	if deptID == "" {
		return nil, err
	}

	c.logger.Debug("professor query filter failed, trying department route", zap.String("dept_id", deptID))
	raw = nil
	if err := c.get(ctx, "/api/professors/department/"+url.PathEscape(deptID), nil, &raw); err != nil {
		return nil, err
	}
	docs, err := decodeDocs(raw)
	if err != nil {
		return nil, err
	}
	return filterProfessors(docs, ""), nil
}

func filterProfessors(docs []map[string]interface{}, deptID string) []models.Professor {
	professors := make([]models.Professor, 0, len(docs))
	for _, doc := range docs {
		prof := normalizeProfessor(doc)
		if deptID != "" && prof.DeptID != deptID {
			continue
		}
		professors = append(professors, prof)
	}
	return professors
}

// CreateProfessor adds a professor record.
func (c *Client) CreateProfessor(ctx context.Context, req ProfessorRequest) error {
	return c.post(ctx, "/api/professors", req, nil)
}

// UpdateProfessor edits a professor record.
func (c *Client) UpdateProfessor(ctx context.Context, id string, req ProfessorRequest) error {
	return c.put(ctx, "/api/professors/"+url.PathEscape(id), req, nil)
}

// DeleteProfessor removes a professor record.
func (c *Client) DeleteProfessor(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/professors/"+url.PathEscape(id))
}
