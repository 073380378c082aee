package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/homieapp/homie/internal/application/port"
)

// envelope mirrors the JSON response wrapper of the HTTP API
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Client reads dashboard payloads from a remote aggregate endpoint
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

// NewClient creates a Source backed by the aggregate API at baseURL
func NewClient(baseURL string, timeout time.Duration, logger Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Organization fetches the organization dashboard payload
func (c *Client) Organization(ctx context.Context, name string) (*OrganizationDashboard, error) {
	q := url.Values{"organization": []string{name}}
	var out *OrganizationDashboard
	if err := c.get(ctx, "/api/method/organization-dashboard?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WorkspaceKPIs fetches the workspace figures
func (c *Client) WorkspaceKPIs(ctx context.Context) (*WorkspaceKPIs, error) {
	var out *WorkspaceKPIs
	if err := c.get(ctx, "/api/method/workspace/kpis", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WorkspaceTable fetches one workspace section
func (c *Client) WorkspaceTable(ctx context.Context, section string) (*Table, error) {
	if _, ok := sectionTitles[section]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	var out *Table
	if err := c.get(ctx, "/api/method/workspace/"+url.PathEscape(section), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Aggregate request failed", "path", path, "error", err)
		return fmt.Errorf("aggregate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("failed to read aggregate response: %w", err)
	}

	var env envelope
	if resp.StatusCode == http.StatusNotFound {
		_ = json.Unmarshal(body, &env)
		return fmt.Errorf("%w: %s", port.ErrRecordNotFound, env.Error)
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode aggregate response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !env.Success {
		c.logger.Error("Aggregate endpoint returned an error", "path", path, "status", resp.StatusCode, "error", env.Error)
		return fmt.Errorf("aggregate endpoint returned status %d: %s", resp.StatusCode, env.Error)
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode aggregate payload: %w", err)
	}
	return nil
}
