package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/medisync-api/checker"
	"github.com/giygas/medisync-api/config"
	"github.com/giygas/medisync-api/data"
	"github.com/giygas/medisync-api/datasets"
	"github.com/giygas/medisync-api/entities"
	"github.com/giygas/medisync-api/handlers"
	"github.com/giygas/medisync-api/health"
	"github.com/giygas/medisync-api/logging"
	"github.com/giygas/medisync-api/mcpserver"
	"github.com/giygas/medisync-api/validation"
)

const testAPIKey = "test-api-key-0123456789"

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8080",
		Address:           "localhost",
		Env:               config.EnvTest,
		LogLevel:          "info",
		MaxRequestBody:    1048576,
		MaxHeaderSize:     1048576,
		APIKey:            testAPIKey,
		RateLimitRate:     1000,
		RateLimitCapacity: 100000,
	}
}

func newTestServer(t *testing.T, withMCP bool) *Server {
	t.Helper()
	logging.InitLogger("")

	bundle := &datasets.Bundle{
		Interactions: datasets.InteractionMap{
			"Ibuprofen": {
				"Warfarin": {Severity: entities.SeverityModerate, Description: "Raises bleeding risk"},
				"Digoxin":  {Severity: entities.SeverityModerate, Description: "May raise digoxin levels"},
			},
		},
		LoadedAt: time.Now(),
	}
	container := data.NewDataContainer(bundle, t.TempDir())
	container.SetServerStartTime(time.Now())

	c := checker.NewFromStore(container)
	validator := validation.NewRequestValidator()
	cfg := testConfig()
	handler := handlers.NewHTTPHandler(c, validator, health.NewHealthChecker(container, time.Hour), cfg.MaxRequestBody)

	var mcpHandler http.Handler
	if withMCP {
		mcpHandler = mcpserver.NewServer(c, validator).Handler()
	}
	return NewServer(cfg, handler, mcpHandler)
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t, false)

	if s.server.Addr != "localhost:8080" {
		t.Errorf("Expected address localhost:8080, got %s", s.server.Addr)
	}
	if s.server.ReadTimeout != 15*time.Second {
		t.Errorf("Expected read timeout 15s, got %v", s.server.ReadTimeout)
	}
	if s.server.IdleTimeout != 60*time.Second {
		t.Errorf("Expected idle timeout 60s, got %v", s.server.IdleTimeout)
	}
	if s.RateLimiter() == nil {
		t.Error("Expected rate limiter to be configured")
	}
}

func TestSetupRoutes(t *testing.T) {
	s := newTestServer(t, false)

	checkBody := `{"drugs": ["Ibuprofen", "Warfarin", "Digoxin"]}`

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		apiKey         string
		expectedStatus int
	}{
		{"health without key", "GET", "/health", "", "", http.StatusOK},
		{"metrics without key", "GET", "/metrics", "", "", http.StatusOK},
		{"check without key", "POST", "/check-interactions", checkBody, "", http.StatusUnauthorized},
		{"check with wrong key", "POST", "/check-interactions", checkBody, "wrong-key-0123456789", http.StatusUnauthorized},
		{"check with key", "POST", "/check-interactions", checkBody, testAPIKey, http.StatusOK},
		{"check unknown drug", "POST", "/check-interactions", `{"drugs": ["Ibuprofen", "Nope"]}`, testAPIKey, http.StatusBadRequest},
		{"pair with key", "GET", "/check-pair?drug1=Ibuprofen&drug2=Warfarin", "", testAPIKey, http.StatusOK},
		{"pair without key", "GET", "/check-pair?drug1=Ibuprofen&drug2=Warfarin", "", "", http.StatusUnauthorized},
		{"drug info", "GET", "/drug/Warfarin", "", testAPIKey, http.StatusOK},
		{"unknown drug info", "GET", "/drug/Nope", "", testAPIKey, http.StatusNotFound},
		{"wrong method", "GET", "/check-interactions", "", testAPIKey, http.StatusMethodNotAllowed},
		{"unknown route", "GET", "/unknown", "", testAPIKey, http.StatusNotFound},
		{"mcp not mounted", "GET", "/mcp", "", testAPIKey, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			if tt.apiKey != "" {
				req.Header.Set(APIKeyHeader, tt.apiKey)
			}

			rr := httptest.NewRecorder()
			s.Router().ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d (body: %s)", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestCheckInteractionsThroughServer(t *testing.T) {
	s := newTestServer(t, false)

	body, _ := json.Marshal(entities.CheckRequest{Drugs: []string{"ibuprofen", "warfarin", "digoxin"}})
	req := httptest.NewRequest("POST", "/check-interactions", bytes.NewReader(body))
	req.Header.Set(APIKeyHeader, testAPIKey)
	req.Header.Set("X-Request-Id", "req-123")

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var report entities.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report.TotalPairs != 3 || report.KnownPairs != 2 || report.UnknownPairs != 1 {
		t.Errorf("Unexpected pair counts: total=%d known=%d unknown=%d",
			report.TotalPairs, report.KnownPairs, report.UnknownPairs)
	}
	if report.OverallRisk != entities.SeveritySevere {
		t.Errorf("Expected two Moderate pairs to escalate to Severe, got %s", report.OverallRisk)
	}

	if rr.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("Expected rate limit headers on API responses")
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest("OPTIONS", "/check-interactions", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", APIKeyHeader)

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin *, got %q", got)
	}
}

func TestMCPRouteRequiresAPIKey(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest("GET", "/mcp", nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without API key, got %d", rr.Code)
	}
}

func TestMCPRouteStreamsEndpointEvent(t *testing.T) {
	s := newTestServer(t, true)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set(APIKeyHeader, testAPIKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	buf := make([]byte, 512)
	n, err := resp.Body.Read(buf)
	if err != nil {
		t.Fatalf("Failed to read first event: %v", err)
	}
	if !strings.Contains(string(buf[:n]), "endpoint") {
		t.Errorf("Expected an endpoint event, got %q", string(buf[:n]))
	}
}

func TestServerLifecycle(t *testing.T) {
	s := newTestServer(t, false)
	s.server.Addr = "127.0.0.1:0"

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			t.Errorf("Expected ErrServerClosed, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("Server did not stop")
	}
}
