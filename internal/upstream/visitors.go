package upstream

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/kiosklab/visita-gateway/internal/models"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
)

// CreateVisitorRequest is the registration payload for the visitor record.
type CreateVisitorRequest struct {
	VisitorsID string `json:"visitorsID"`
	FirstName  string `json:"firstName,omitempty"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Gender     string `json:"gender,omitempty"`
	BirthDate  string `json:"birthdate,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
}

// GetVisitor fetches a single visitor record by visitorsID.
func (c *Client) GetVisitor(ctx context.Context, visitorsID string) (models.Visitor, error) {
	visitorsID = strings.TrimSpace(visitorsID)
	var raw json.RawMessage
	if err := c.get(ctx, "/api/visitorsdata/"+url.PathEscape(visitorsID), nil, &raw); err != nil {
		return models.Visitor{}, err
	}
	docs, err := decodeDocs(raw)
	if err != nil {
		return models.Visitor{}, err
	}
	if len(docs) == 0 {
		return models.Visitor{}, appErrors.Clone(appErrors.ErrNotFound, "visitor not found")
	}
	visitor := normalizeVisitor(docs[0])
	if visitor.VisitorsID == "" {
		visitor.VisitorsID = visitorsID
	}
	return visitor, nil
}

// ListVisitors fetches visitor records, optionally constrained by the
// backend's date filters (createdAt, startDate/endDate).
func (c *Client) ListVisitors(ctx context.Context, query url.Values) ([]models.Visitor, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/visitorsdata", query, &raw); err != nil {
		return nil, err
	}
	docs, err := decodeDocs(raw)
	if err != nil {
		return nil, err
	}
	visitors := make([]models.Visitor, 0, len(docs))
	for _, doc := range docs {
		visitors = append(visitors, normalizeVisitor(doc))
	}
	return visitors, nil
}

// CreateVisitor registers a new visitor record.
func (c *Client) CreateVisitor(ctx context.Context, req CreateVisitorRequest) error {
	return c.post(ctx, "/api/visitorsdata", req, nil)
}
