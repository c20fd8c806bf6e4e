package upstream

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/kiosklab/visita-gateway/internal/models"
)

// OfficeRequest is the payload for creating or updating an office.
type OfficeRequest struct {
	Name string `json:"department"`
}

// ServiceRequest is the payload for creating or updating a campus service.
type ServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ListOffices fetches the office directory.
func (c *Client) ListOffices(ctx context.Context) ([]models.Office, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/offices", nil, &raw); err != nil {
		return nil, err
	}
	docs, err := decodeDocs(raw)
	if err != nil {
		return nil, err
	}
	offices := make([]models.Office, 0, len(docs))
	for _, doc := range docs {
		office := normalizeOffice(doc)
		if office.ID != "" || office.Name != "" {
			offices = append(offices, office)
		}
	}
	return offices, nil
}

// CreateOffice adds an office to the directory.
func (c *Client) CreateOffice(ctx context.Context, req OfficeRequest) error {
	return c.post(ctx, "/api/departments", req, nil)
}

// UpdateOffice renames an existing office.
func (c *Client) UpdateOffice(ctx context.Context, id string, req OfficeRequest) error {
	return c.put(ctx, "/api/departments/"+url.PathEscape(id), req, nil)
}

// DeleteOffice removes an office from the directory.
func (c *Client) DeleteOffice(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/departments/"+url.PathEscape(id))
}

// ListServices fetches the campus services directory.
func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/services", nil, &raw); err != nil {
		return nil, err
	}
	docs, err := decodeDocs(raw)
	if err != nil {
		return nil, err
	}
	services := make([]models.Service, 0, len(docs))
	for _, doc := range docs {
		services = append(services, normalizeService(doc))
	}
	return services, nil
}

// CreateService adds a campus service.
func (c *Client) CreateService(ctx context.Context, req ServiceRequest) error {
	return c.post(ctx, "/api/services", req, nil)
}

// UpdateService edits a campus service.
func (c *Client) UpdateService(ctx context.Context, id string, req ServiceRequest) error {
	return c.put(ctx, "/api/services/"+url.PathEscape(id), req, nil)
}

// DeleteService removes a campus service.
func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/services/"+url.PathEscape(id))
}
