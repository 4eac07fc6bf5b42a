package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pubmedkit/entrez-go/internal/models"
)

const (
	// BaseURL is the fixed root of the NCBI Entrez E-utilities service
	BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	einfoPath   = "einfo.fcgi"
	esearchPath = "esearch.fcgi"

	entrezTimeout = 30 * time.Second
)

// UnsupportedModeError is returned when a request asks for a return mode the
// client cannot parse. It is raised before any network call is made.
type UnsupportedModeError struct {
	Endpoint string
	Mode     models.RetMode
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("%s supports only %q responses, got %q", e.Endpoint, models.RetModeJSON, e.Mode)
}

// StatusError is returned when the remote service answers with a non-success
// HTTP status. Body holds the raw response body for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("entrez API returned status %d: %s", e.StatusCode, e.Body)
}

// Client issues requests against the Entrez E-utilities.
// NCBI usage policy requires every caller to identify itself with a tool name
// and a contact email; both are sent as headers on every request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tool       string
	email      string
	logger     *log.Logger
}

// NewClient creates an Entrez client with a 30 second timeout
func NewClient(tool, email string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: entrezTimeout,
		},
		baseURL: BaseURL,
		tool:    tool,
		email:   email,
	}
}

// NewClientWithLogging creates an Entrez client that logs each request
func NewClientWithLogging(tool, email string, logger *log.Logger) *Client {
	c := NewClient(tool, email)
	c.logger = logger
	return c
}

// SetHTTPClient replaces the underlying HTTP client.
// The caller keeps ownership of the supplied client and its connections;
// Close becomes a no-op for them.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// SetBaseURL points the client at a different service root (test servers)
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// Close releases idle connections held by the client.
// The client must not be used after Close.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// EInfo queries einfo.fcgi for information about Entrez databases: the number
// of records indexed in each field, the date of the last update, and the
// available links to other databases. An empty request lists all databases.
func (c *Client) EInfo(ctx context.Context, req models.EInfoRequest) (*models.EInfoResponse, error) {
	if req.RetMode != "" && req.RetMode != models.RetModeJSON {
		return nil, &UnsupportedModeError{Endpoint: "einfo", Mode: req.RetMode}
	}

	body, err := c.get(ctx, einfoPath, req.Values())
	if err != nil {
		return nil, err
	}

	return models.ParseEInfoResponse(body)
}

// ESearch queries esearch.fcgi for the UIDs matching a text query, optionally
// storing the result set on the Entrez History server for later calls.
// For PubMed only the first 10,000 matches are retrievable; use RetStart to
// page through larger result sets on other databases.
func (c *Client) ESearch(ctx context.Context, req models.ESearchRequest) (*models.ESearchResponse, error) {
	if req.RetMode != "" && req.RetMode != models.RetModeJSON {
		return nil, &UnsupportedModeError{Endpoint: "esearch", Mode: req.RetMode}
	}

	body, err := c.get(ctx, esearchPath, req.Values())
	if err != nil {
		return nil, err
	}

	return models.ParseESearchResponse(body)
}

// get performs one GET against {baseURL}/{path} and returns the raw body.
// The remote defaults to XML, so retmode=json is always forced onto the query.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("retmode", string(models.RetModeJSON))

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to create request", "url", reqURL, "error", err)
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("tool", c.tool)
	req.Header.Set("email", c.email)
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Info("GET", "endpoint", path, "params", params.Encode())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Request failed", "url", reqURL, "error", err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("Response", "status", resp.StatusCode, "bytes", len(body))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if c.logger != nil {
			c.logger.Error("API error", "status", resp.StatusCode, "response", string(body))
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
