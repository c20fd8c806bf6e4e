// Package upstream talks to the visitor backend REST API. The backend is the
// system of record; the gateway never persists domain state itself. Responses
// are loosely shaped JSON, so every document is normalised into the canonical
// models types here and nowhere else.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kiosklab/visita-gateway/pkg/config"
	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
)

const maxBodyBytes = 8 << 20

// CallObserver receives timing for every upstream round trip.
type CallObserver interface {
	ObserveUpstreamCall(resource string, status int, duration time.Duration)
}

// Client is the HTTP client for the upstream visitor backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	metrics CallObserver
}

// New constructs a Client from the upstream config section.
func New(cfg config.UpstreamConfig, logger *zap.Logger, metrics CallObserver) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: metrics,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, dest)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, dest interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, dest)
}

func (c *Client) put(ctx context.Context, path string, body interface{}, dest interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, dest)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode upstream request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.observe(path, 0, duration)
		c.logger.Warn("upstream request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "upstream backend unreachable")
	}
	defer res.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	c.observe(path, res.StatusCode, duration)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "read upstream response")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return statusError(res.StatusCode, raw)
	}

	if dest == nil {
		return nil
	}
	return decodeJSON(raw, dest)
}

func (c *Client) observe(path string, status int, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveUpstreamCall(path, status, duration)
	}
}

func statusError(status int, raw []byte) *appErrors.Error {
	msg := fmt.Sprintf("upstream returned status %d", status)
	if excerpt := bodyExcerpt(raw); excerpt != "" {
		msg = fmt.Sprintf("%s: %s", msg, excerpt)
	}
	switch status {
	case http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, msg)
	case http.StatusUnauthorized:
		return appErrors.Clone(appErrors.ErrUnauthorized, msg)
	case http.StatusForbidden:
		return appErrors.Clone(appErrors.ErrForbidden, msg)
	}
	return appErrors.Clone(appErrors.ErrUpstream, msg)
}

// decodeJSON refuses anything that is not JSON. Misconfigured tunnels in
// front of the backend answer 200 with an HTML error page, which must surface
// as a failure rather than be rendered as data.
func decodeJSON(raw []byte, dest interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return appErrors.Clone(appErrors.ErrUpstreamDecode, "upstream returned an empty body")
	}
	if trimmed[0] == '<' {
		return appErrors.Clone(appErrors.ErrUpstreamDecode, "upstream returned HTML instead of JSON")
	}
	if err := json.Unmarshal(trimmed, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamDecode.Code, appErrors.ErrUpstreamDecode.Status, "upstream returned invalid JSON")
	}
	return nil
}

// decodeDocs accepts either a JSON array of objects or a single object, which
// the backend emits interchangeably for one-element results.
func decodeDocs(raw json.RawMessage) ([]map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var docs []map[string]interface{}
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUpstreamDecode.Code, appErrors.ErrUpstreamDecode.Status, "upstream returned an invalid list")
		}
		return docs, nil
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamDecode.Code, appErrors.ErrUpstreamDecode.Status, "upstream returned an invalid document")
	}
	return []map[string]interface{}{doc}, nil
}

func bodyExcerpt(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, "<") {
		return "HTML error page"
	}
	if len(text) > 160 {
		text = text[:160] + "…"
	}
	return text
}
