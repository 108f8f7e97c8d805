// Package iiko is a thin client for the iiko Cloud API. Every call resolves to
// a Result; transport failures are folded into a synthetic 500 Result.
package iiko

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/j-veylop/iiko-checker-tui/internal/logger"
)

// Endpoints relative to the base URL.
const (
	EndpointAccessToken    = "/access_token"
	EndpointOrganizations  = "/organizations"
	EndpointTerminalGroups = "/terminal_groups"
	EndpointNomenclature   = "/nomenclature"
)

// StatusTransportFailure is the status reported when no HTTP exchange completed.
const StatusTransportFailure = http.StatusInternalServerError

// Result is the normalized outcome of one API call.
type Result struct {
	Data       any
	URL        string
	Status     int
	DurationMs int
}

// AccessTokenRequest is the body of POST /access_token.
type AccessTokenRequest struct {
	APILogin string `json:"apiLogin"`
}

// TerminalGroupsRequest is the body of POST /terminal_groups.
type TerminalGroupsRequest struct {
	OrganizationIDs []string `json:"organizationIds"`
}

// NomenclatureRequest is the body of POST /nomenclature.
type NomenclatureRequest struct {
	OrganizationID string `json:"organizationId"`
}

// ErrorResponse is the error shape used by iiko and by synthetic failures.
type ErrorResponse struct {
	Error            *string `json:"error,omitempty"`
	ErrorDescription string  `json:"errorDescription"`
}

// Client issues the four iiko operations against one base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client. A zero timeout leaves the transport default in place.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the base endpoint every call is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticate exchanges an apiLogin for a session token.
func (c *Client) Authenticate(ctx context.Context, apiLogin string) Result {
	return c.do(ctx, http.MethodPost, EndpointAccessToken, "", AccessTokenRequest{APILogin: apiLogin})
}

// ListOrganizations lists the organizations available to the token.
func (c *Client) ListOrganizations(ctx context.Context, token string) Result {
	return c.do(ctx, http.MethodGet, EndpointOrganizations, token, nil)
}

// ListTerminalGroups lists terminal groups of the given organizations.
func (c *Client) ListTerminalGroups(ctx context.Context, token string, organizationIDs []string) Result {
	return c.do(ctx, http.MethodPost, EndpointTerminalGroups, token,
		TerminalGroupsRequest{OrganizationIDs: organizationIDs})
}

// GetNomenclature fetches the menu of one organization.
func (c *Client) GetNomenclature(ctx context.Context, token, organizationID string) Result {
	return c.do(ctx, http.MethodPost, EndpointNomenclature, token,
		NomenclatureRequest{OrganizationID: organizationID})
}

// do performs one exchange. It never returns an error: anything that prevents
// a decoded body becomes a StatusTransportFailure result.
func (c *Client) do(ctx context.Context, method, endpoint, token string, body any) Result {
	url := c.baseURL + endpoint
	start := time.Now()

	data, status, err := c.exchange(ctx, method, url, token, body)
	res := Result{
		Data:       data,
		Status:     status,
		DurationMs: int(time.Since(start).Milliseconds()),
		URL:        url,
	}
	if err != nil {
		res.Status = StatusTransportFailure
		res.Data = failureBody(err)
		logger.Warn("iiko request failed", "method", method, "url", url, "error", err,
			"duration_ms", res.DurationMs)
		return res
	}

	logger.Debug("iiko request", "method", method, "url", url, "status", res.Status,
		"duration_ms", res.DurationMs)
	return res
}

func (c *Client) exchange(ctx context.Context, method, url, token string, body any) (any, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, 0, err
	}
	return data, resp.StatusCode, nil
}

// decode parses a JSON document keeping numbers as json.Number so ids and
// prices are shown exactly as sent.
func decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of JSON input")
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to parse response: trailing data after JSON value")
	}
	return data, nil
}

func failureBody(err error) map[string]any {
	return map[string]any{"errorDescription": err.Error()}
}
