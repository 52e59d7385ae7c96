package vercel

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

	"github.com/villetta-hq/villetta/internal/template"
)

// Deployment lifecycle states reported by the platform.
const (
	StatusQueued       = "QUEUED"
	StatusInitializing = "INITIALIZING"
	StatusBuilding     = "BUILDING"
	StatusReady        = "READY"
	StatusError        = "ERROR"
	StatusCanceled     = "CANCELED"
)

// Deployment is the subset of the platform's deployment payload the
// orchestrator cares about. URL comes back without a scheme.
type Deployment struct {
	ID     string `json:"id"`
	Status string `json:"readyState"`
	URL    string `json:"url"`
}

// APIError represents a non-2xx response from the platform.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("vercel: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("vercel: request failed (%d): %s", e.Status, e.Message)
}

// Client provides typed access to the Vercel deployment API.
type Client struct {
	baseURL    string
	token      string
	teamID     string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTeamID scopes every request to a team.
func WithTeamID(teamID string) Option {
	return func(c *Client) {
		c.teamID = strings.TrimSpace(teamID)
	}
}

// New constructs a Client for the given API base URL and bearer token.
func New(base, token string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "https://api.vercel.com"
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid platform base url: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("platform token is required")
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

func (c *Client) endpoint(path string) string {
	endpoint := c.baseURL + path
	if c.teamID != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		endpoint += sep + "teamId=" + url.QueryEscape(c.teamID)
	}
	return endpoint
}

func (c *Client) do(ctx context.Context, method, path string, body any, v any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return APIError{Status: resp.StatusCode, Message: extractError(resp.Body)}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func extractError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Error.Message == "" {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(payload.Error.Message)
}

// CreateDeployment submits an inline-file deployment for the named project.
func (c *Client) CreateDeployment(ctx context.Context, name string, files []template.ManifestEntry) (*Deployment, error) {
	body := map[string]any{
		"name":   name,
		"files":  files,
		"target": "production",
		"projectSettings": map[string]string{
			"framework": "nextjs",
		},
	}
	var deployment Deployment
	if err := c.do(ctx, http.MethodPost, "/v13/deployments", body, &deployment); err != nil {
		return nil, err
	}
	return &deployment, nil
}

// GetDeployment fetches the current state of a deployment.
func (c *Client) GetDeployment(ctx context.Context, deploymentID string) (*Deployment, error) {
	path := fmt.Sprintf("/v13/deployments/%s", url.PathEscape(deploymentID))
	var deployment Deployment
	if err := c.do(ctx, http.MethodGet, path, nil, &deployment); err != nil {
		return nil, err
	}
	return &deployment, nil
}

// AssignAlias points alias at the deployment.
func (c *Client) AssignAlias(ctx context.Context, deploymentID, alias string) error {
	path := fmt.Sprintf("/v2/deployments/%s/aliases", url.PathEscape(deploymentID))
	return c.do(ctx, http.MethodPost, path, map[string]string{"alias": alias}, nil)
}
