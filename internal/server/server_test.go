package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"where-to-watch-service/internal/config"
	"where-to-watch-service/internal/metrics"
)

type stubHTTPServer struct {
	addr          string
	handler       http.Handler
	listenCalls   int
	shutdownCalls int
	listenErr     error
	shutdownErr   error
}

func (s *stubHTTPServer) ListenAndServe() error {
	s.listenCalls++
	return s.listenErr
}

func (s *stubHTTPServer) Shutdown(ctx context.Context) error {
	_ = ctx
	s.shutdownCalls++
	return s.shutdownErr
}

func (s *stubHTTPServer) Addr() string {
	return s.addr
}

func (s *stubHTTPServer) Handler() http.Handler {
	return s.handler
}

func testConfig() config.Config {
	return config.Config{
		Port:          "8080",
		DefaultLocale: "en_US",
		Cache: config.CacheConfig{
			RedisURL:  "redis://localhost:6379",
			Namespace: "wtw",
			TTL:       24 * time.Hour,
			ErrorTTL:  10 * time.Minute,
		},
		Metrics: config.MetricsConfig{Enabled: false},
	}
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	srv := &stubHTTPServer{addr: ":8080", listenErr: http.ErrServerClosed}
	s := newServerWithDeps(testConfig(), nil, srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, cancel)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected Run to return after cancellation")
	}
	if srv.shutdownCalls != 1 {
		t.Fatalf("expected one shutdown call, got %d", srv.shutdownCalls)
	}
}

func TestRunStopsOnListenError(t *testing.T) {
	srv := &stubHTTPServer{addr: ":8080", listenErr: errors.New("bind failed")}
	s := newServerWithDeps(testConfig(), nil, srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, cancel)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected listen failure to trigger shutdown")
	}
}

func TestNewWiresHealthEndpoint(t *testing.T) {
	s := New(context.Background(), testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("unexpected health body: %+v", resp)
	}
}

func TestNewMountsAdminRouteOnlyWithToken(t *testing.T) {
	cfg := testConfig()
	s := New(context.Background(), cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/cache/clear?category=search", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without configured token, got %d", rec.Code)
	}

	cfg.AdminToken = "secret"
	s = New(context.Background(), cfg, nil)
	req = httptest.NewRequest(http.MethodPost, "/admin/cache/clear?category=search", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected mounted route to demand the token, got %d", rec.Code)
	}
}

func TestBuildMetricsFallsBackWhenSetupFails(t *testing.T) {
	orig := metricsSetup
	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("exporter init failed")
	}
	t.Cleanup(func() { metricsSetup = orig })

	rec, srv, stop := buildMetrics(testConfig(), nil)
	if rec == nil {
		t.Fatal("expected fallback recorder")
	}
	if srv != nil || stop != nil {
		t.Fatal("expected no metrics server on setup failure")
	}
}
