// Package backend provides the HTTP client for the multi-agent
// financial-analysis backend: stock research, financial data, symbol news,
// the news-processing pipeline, and health/workflow status.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is returned for non-2xx responses. Callers get the status and a
// human-readable message without having to inspect transport internals.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Client talks to the analysis backend over HTTP/JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a backend client. The timeout bounds each individual
// request; research calls can take minutes, so pass a generous value.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// send issues exactly one HTTP call. A non-nil body is JSON-encoded; a
// non-nil out receives the decoded success payload. Non-2xx statuses are
// mapped to *APIError.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("backend call", "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorMessage extracts a readable message from an error response body.
// The backend wraps errors as {"detail": ...} where detail is a string or an
// object with an "error" field; plain {"error": ...} also appears.
func errorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return http.StatusText(resp.StatusCode)
	}

	var wrapped struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		if wrapped.Error != "" {
			return wrapped.Error
		}
		if len(wrapped.Detail) > 0 {
			var s string
			if json.Unmarshal(wrapped.Detail, &s) == nil && s != "" {
				return s
			}
			var obj struct {
				Error string `json:"error"`
			}
			if json.Unmarshal(wrapped.Detail, &obj) == nil && obj.Error != "" {
				return obj.Error
			}
			return string(wrapped.Detail)
		}
	}

	msg := strings.TrimSpace(string(data))
	if msg == "" {
		return http.StatusText(resp.StatusCode)
	}
	return msg
}

// ---------------------------------------------------------------------------
// Endpoints
// ---------------------------------------------------------------------------

// Research runs the full investment research workflow for a symbol.
func (c *Client) Research(ctx context.Context, symbol string) (ResearchResponse, error) {
	var out ResearchResponse
	err := c.send(ctx, http.MethodPost, "/api/agents/research", researchRequest{Symbol: symbol}, &out)
	return out, err
}

// StockData fetches financial data for a symbol.
func (c *Client) StockData(ctx context.Context, symbol string) (DataResponse, error) {
	var out DataResponse
	err := c.send(ctx, http.MethodGet, "/api/agents/data/"+url.PathEscape(symbol), nil, &out)
	return out, err
}

// StockNews fetches the latest news for a symbol.
func (c *Client) StockNews(ctx context.Context, symbol string) (NewsResponse, error) {
	var out NewsResponse
	err := c.send(ctx, http.MethodGet, "/api/agents/news/"+url.PathEscape(symbol), nil, &out)
	return out, err
}

// ProcessNews runs the articles through the full processing chain.
func (c *Client) ProcessNews(ctx context.Context, articles []Article) (ProcessNewsResponse, error) {
	var out ProcessNewsResponse
	req := processNewsRequest{NewsArticles: articles, ProcessingType: "full_chain"}
	err := c.send(ctx, http.MethodPost, "/api/analysis/news/process", req, &out)
	return out, err
}

// Health reports per-service availability of the agents service.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.send(ctx, http.MethodGet, "/api/agents/health", nil, &out)
	return out, err
}

// WorkflowStatus reports availability of the analysis workflows.
func (c *Client) WorkflowStatus(ctx context.Context) (WorkflowStatusResponse, error) {
	var out WorkflowStatusResponse
	err := c.send(ctx, http.MethodGet, "/api/analysis/workflows/status", nil, &out)
	return out, err
}

// Ping hits the liveness endpoint; only the HTTP status matters.
func (c *Client) Ping(ctx context.Context) error {
	return c.send(ctx, http.MethodGet, "/health", nil, nil)
}
