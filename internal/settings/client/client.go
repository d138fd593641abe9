// Package client implements the settings gateway over the HTTP API served by
// cmd/api.
package client

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

	"github.com/commhub/community-settings/internal/logging"
	"github.com/commhub/community-settings/internal/settings/domain"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("settings api returned status %d: %s", e.Status, e.Message)
}

// Unwrap maps the status to the matching domain error.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case http.StatusServiceUnavailable:
		return domain.ErrUnavailable
	}
	return nil
}

// Client handles communication with the settings API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new settings API client
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := logging.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call settings api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func projectPath(id string, rest ...string) string {
	p := "/api/v1/projects/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func (c *Client) FetchProject(ctx context.Context, id string) (domain.Project, error) {
	var out struct {
		Project domain.Project `json:"project"`
	}
	err := c.do(ctx, http.MethodGet, projectPath(id), nil, &out)
	return out.Project, err
}

func (c *Client) UpdateProject(ctx context.Context, id string, update domain.ProjectUpdate) error {
	return c.do(ctx, http.MethodPatch, projectPath(id), update, nil)
}

func (c *Client) ListTags(ctx context.Context, projectID string) ([]domain.Tag, error) {
	var out struct {
		Tags []domain.Tag `json:"tags"`
	}
	err := c.do(ctx, http.MethodGet, projectPath(projectID, "tags"), nil, &out)
	return out.Tags, err
}

func (c *Client) CreateTag(ctx context.Context, projectID string, tag domain.Tag) (domain.Tag, error) {
	var out struct {
		Tag domain.Tag `json:"tag"`
	}
	err := c.do(ctx, http.MethodPost, projectPath(projectID, "tags"), tag, &out)
	return out.Tag, err
}

func (c *Client) UpdateTag(ctx context.Context, id string, tag domain.Tag) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/tags/"+url.PathEscape(id), tag, nil)
}

func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tags/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListAiPresets(ctx context.Context, projectID string) ([]domain.AiPreset, error) {
	var out struct {
		Presets []domain.AiPreset `json:"ai_presets"`
	}
	err := c.do(ctx, http.MethodGet, projectPath(projectID, "ai-presets"), nil, &out)
	return out.Presets, err
}

func (c *Client) CreateAiPreset(ctx context.Context, projectID string, preset domain.AiPreset) (domain.AiPreset, error) {
	var out struct {
		Preset domain.AiPreset `json:"ai_preset"`
	}
	err := c.do(ctx, http.MethodPost, projectPath(projectID, "ai-presets"), preset, &out)
	return out.Preset, err
}

func (c *Client) UpdateAiPreset(ctx context.Context, id string, preset domain.AiPreset) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/ai-presets/"+url.PathEscape(id), preset, nil)
}

func (c *Client) DeleteAiPreset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/ai-presets/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListGlobalVariables(ctx context.Context, projectID string) (domain.GlobalVariables, error) {
	var out domain.GlobalVariables
	err := c.do(ctx, http.MethodGet, projectPath(projectID, "global-variables"), nil, &out)
	return out, err
}

func (c *Client) ReplaceGlobalVariableDefinitions(ctx context.Context, projectID string, defs []domain.GlobalVariableDefinition) ([]domain.GlobalVariableDefinition, error) {
	in := struct {
		Definitions []domain.GlobalVariableDefinition `json:"definitions"`
	}{Definitions: defs}
	var out struct {
		Definitions []domain.GlobalVariableDefinition `json:"definitions"`
	}
	err := c.do(ctx, http.MethodPut, projectPath(projectID, "global-variables", "definitions"), in, &out)
	return out.Definitions, err
}

func (c *Client) UpdateGlobalVariableValues(ctx context.Context, projectID string, values []domain.GlobalVariableValue) error {
	in := struct {
		Values []domain.GlobalVariableValue `json:"values"`
	}{Values: values}
	return c.do(ctx, http.MethodPatch, projectPath(projectID, "global-variables", "values"), in, nil)
}

func (c *Client) RequestAiVariableFill(ctx context.Context, projectID string, empty []domain.NamedValue) (domain.AiFillResult, error) {
	in := struct {
		Variables []domain.NamedValue `json:"variables"`
	}{Variables: empty}
	var out domain.AiFillResult
	err := c.do(ctx, http.MethodPost, projectPath(projectID, "variables", "ai-fill"), in, &out)
	return out, err
}
