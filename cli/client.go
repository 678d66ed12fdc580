package cli

import (
	"bytes"
	"circounter/counter"
	"circounter/models"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is the HTTP client for talking to the circounter server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new HTTP client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiResponse mirrors the server envelope
type apiResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doRequest executes an HTTP request. body may be nil, raw JSON bytes or a value to marshal.
func (c *Client) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	switch b := body.(type) {
	case nil:
	case json.RawMessage:
		bodyReader = bytes.NewReader(b)
	default:
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// handleResponse decodes the envelope and, on success, its data into result
func (c *Client) handleResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	var env apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("HTTP %d: failed to decode response: %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || env.Code != "OK" {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(env.Data, &detail)
		if detail.Detail != "" {
			return fmt.Errorf("%s (%s): %s", env.Message, env.Code, detail.Detail)
		}
		return fmt.Errorf("%s (%s)", env.Message, env.Code)
	}

	if result != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}

func (c *Client) call(method, path string, body, result interface{}) error {
	resp, err := c.doRequest(method, path, body)
	if err != nil {
		return err
	}
	return c.handleResponse(resp, result)
}

// HealthCheck pings the health endpoint
func (c *Client) HealthCheck() error {
	return c.call(http.MethodGet, "/api/health", nil, nil)
}

// ListStates lists all states
func (c *Client) ListStates() ([]models.StateRead, error) {
	var states []models.StateRead
	if err := c.call(http.MethodGet, "/api/states", nil, &states); err != nil {
		return nil, err
	}
	return states, nil
}

// GetState fetches a state by id or name
func (c *Client) GetState(ref string) (*models.StateRead, error) {
	var st models.StateRead
	if err := c.call(http.MethodGet, "/api/states/"+url.PathEscape(ref), nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// CreateState creates a state; value is raw JSON (null, an integer or a counter object) or empty
func (c *Client) CreateState(name string, value json.RawMessage) (*models.StateRead, error) {
	var st models.StateRead
	req := models.StateCreate{Name: name, Counter: value}
	if err := c.call(http.MethodPost, "/api/states", req, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// SetCounter replaces the counter of a state
func (c *Client) SetCounter(ref string, value json.RawMessage) (*models.StateRead, error) {
	var st models.StateRead
	if err := c.call(http.MethodPut, "/api/states/"+url.PathEscape(ref)+"/counter", value, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Increment advances a counter by n steps
func (c *Client) Increment(ref string, n int64) (*models.StateRead, error) {
	return c.step(ref, "increment", n)
}

// Decrement moves a counter back by n steps
func (c *Client) Decrement(ref string, n int64) (*models.StateRead, error) {
	return c.step(ref, "decrement", n)
}

// Reset moves a counter back to the start of its window
func (c *Client) Reset(ref string) (*models.StateRead, error) {
	var st models.StateRead
	if err := c.call(http.MethodPost, "/api/states/"+url.PathEscape(ref)+"/reset", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// DeleteState removes a state
func (c *Client) DeleteState(ref string) error {
	return c.call(http.MethodDelete, "/api/states/"+url.PathEscape(ref), nil, nil)
}

// GetErrorLogs returns recorded data-integrity errors
func (c *Client) GetErrorLogs() ([]models.ErrorLog, error) {
	var logs []models.ErrorLog
	if err := c.call(http.MethodGet, "/api/error-logs", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// CodecInfo is the server's storage description
type CodecInfo struct {
	ColumnType   string        `json:"column_type"`
	ColumnWidth  int           `json:"column_width"`
	DefaultRange counter.Range `json:"default_range"`
	Format       string        `json:"format"`
}

// GetCodec describes how the server stores counters
func (c *Client) GetCodec() (*CodecInfo, error) {
	var info CodecInfo
	if err := c.call(http.MethodGet, "/api/codec", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) step(ref, action string, n int64) (*models.StateRead, error) {
	var st models.StateRead
	body := models.StateStep{By: &n}
	if err := c.call(http.MethodPost, "/api/states/"+url.PathEscape(ref)+"/"+action, body, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
