package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"findash/internal/util"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, util.Discard())
}

func TestResearchSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/agents/research" {
			t.Errorf("path = %s, want /api/agents/research", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req["symbol"] != "AAPL" {
			t.Errorf("symbol = %v, want AAPL", req["symbol"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"symbol":        "AAPL",
			"iterations":    2,
			"research_plan": []string{"step one", "step two"},
			"analysis":      map[string]any{"final_report": "report text"},
		})
	})

	resp, err := c.Research(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Research returned error: %v", err)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Iterations == nil || *resp.Iterations != 2 {
		t.Errorf("Iterations = %v, want 2", resp.Iterations)
	}
	if len(resp.ResearchPlan) != 2 {
		t.Errorf("ResearchPlan has %d entries, want 2", len(resp.ResearchPlan))
	}
	if resp.Analysis == nil || resp.Analysis.FinalReport != "report text" {
		t.Errorf("Analysis = %+v, want final_report %q", resp.Analysis, "report text")
	}
}

func TestNonSuccessStatusYieldsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"detail": "Investment Research Agent not available",
		})
	})

	_, err := c.Research(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error for 503 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", apiErr.Status)
	}
	if apiErr.Message != "Investment Research Agent not available" {
		t.Errorf("Message = %q, want detail string", apiErr.Message)
	}
}

func TestErrorMessageFromNestedDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"detail": map[string]any{"error": "provider timeout"},
		})
	})

	err := c.Ping(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Message != "provider timeout" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "provider timeout")
	}
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.Ping(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Message != http.StatusText(http.StatusBadGateway) {
		t.Errorf("Message = %q, want %q", apiErr.Message, http.StatusText(http.StatusBadGateway))
	}
}

func TestStockDataEscapesSymbol(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{}})
	})

	resp, err := c.StockData(context.Background(), "BRK.B")
	if err != nil {
		t.Fatalf("StockData returned error: %v", err)
	}
	if gotPath != "/api/agents/data/BRK.B" {
		t.Errorf("path = %q, want /api/agents/data/BRK.B", gotPath)
	}
	if resp.Data == nil {
		t.Error("Data = nil, want empty struct for {}")
	}
	if resp.Data != nil && resp.Data.YahooFinance != nil {
		t.Error("YahooFinance should be nil for empty data object")
	}
}

func TestProcessNewsSendsFullChain(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			NewsArticles   []Article `json:"news_articles"`
			ProcessingType string    `json:"processing_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.ProcessingType != "full_chain" {
			t.Errorf("processing_type = %q, want full_chain", req.ProcessingType)
		}
		if len(req.NewsArticles) != 2 {
			t.Errorf("got %d articles, want 2", len(req.NewsArticles))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":            true,
			"processed_articles": 2,
			"final_summary":      "summary",
		})
	})

	articles := ParseArticles("one\ntwo", time.Now())
	resp, err := c.ProcessNews(context.Background(), articles)
	if err != nil {
		t.Fatalf("ProcessNews returned error: %v", err)
	}
	if resp.ProcessedArticles != 2 {
		t.Errorf("ProcessedArticles = %d, want 2", resp.ProcessedArticles)
	}
	if resp.FinalSummary != "summary" {
		t.Errorf("FinalSummary = %q, want %q", resp.FinalSummary, "summary")
	}
}

func TestHealthDecodesServices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": "degraded",
			"services": map[string]string{
				"research_agent": "available",
				"tools_manager":  "unavailable",
			},
		})
	})

	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", resp.Status)
	}
	if resp.Services["tools_manager"] != "unavailable" {
		t.Errorf("Services[tools_manager] = %q, want unavailable", resp.Services["tools_manager"])
	}
}

func TestPingStatusOnly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s, want /health", r.URL.Path)
		}
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
}
