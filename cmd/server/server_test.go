package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/registrar/internal/config"
	"github.com/JaimeStill/registrar/internal/infrastructure"
	"github.com/JaimeStill/registrar/pkg/metrics"
	"github.com/JaimeStill/registrar/pkg/tracing"
)

const flowDoc = `{"methods": {"oidc": {"config": {"action": "/", "method": "POST", "fields": []}}}}`

func testConfig(upstream string) *config.Config {
	return &config.Config{
		Version:  "test",
		LogLevel: "info",
		Server: config.ServerConfig{
			Host:              "127.0.0.1",
			Port:              0,
			ReadHeaderTimeout: "5s",
			ReadTimeout:       "5s",
			WriteTimeout:      "5s",
			IdleTimeout:       "5s",
		},
		Upstream: config.UpstreamConfig{
			RegistrationEndpoint: upstream,
			Timeout:              "2s",
			MaxBodySize:          "1MB",
		},
		Metrics: metrics.Config{Path: "/metrics"},
		Tracing: tracing.Config{Exporter: "none", SampleRate: 1, ServiceName: "registrar-test"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	infra, err := infrastructure.NewWithWriter(cfg, io.Discard)
	if err != nil {
		t.Fatalf("infrastructure: %v", err)
	}
	srv, err := newServer(cfg, infra)
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	return srv
}

func upstream(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, flowDoc)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, testConfig(upstream(t)))

	rec := serve(srv.http.http.Handler, "/healthz")

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body: got %q, want OK", rec.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	srv := newTestServer(t, testConfig(upstream(t)))
	h := srv.http.http.Handler

	check := func(wantStatus int, wantBody string) {
		t.Helper()
		rec := serve(h, "/readyz")
		if rec.Code != wantStatus {
			t.Errorf("status: got %d, want %d", rec.Code, wantStatus)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["status"] != wantBody {
			t.Errorf("status field: got %q, want %q", body["status"], wantBody)
		}
	}

	check(http.StatusServiceUnavailable, "not ready")

	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	check(http.StatusOK, "ready")

	if err := srv.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	check(http.StatusServiceUnavailable, "not ready")
}

func TestMetricsEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		disabled   bool
		wantStatus int
	}{
		{"enabled", false, http.StatusOK},
		{"disabled", true, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(upstream(t))
			cfg.Metrics.Disabled = tt.disabled
			srv := newTestServer(t, cfg)

			rec := serve(srv.http.http.Handler, "/metrics")
			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestServeEndToEnd(t *testing.T) {
	srv := newTestServer(t, testConfig(upstream(t)))
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { srv.Shutdown(time.Second) })

	base := "http://" + srv.http.addr.String()

	res, err := http.Get(base + "/?flow=2")
	if err != nil {
		t.Fatalf("get form: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %q)", res.StatusCode, body)
	}
	if !bytes.Contains(body, []byte(`<form action="/" method="POST">`)) {
		t.Errorf("form not rendered:\n%s", body)
	}

	res, err = http.Get(base + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	if string(body) != "OK" {
		t.Errorf("healthz body: got %q", body)
	}
}

func TestStartFailsWhenPortTaken(t *testing.T) {
	first := newTestServer(t, testConfig(upstream(t)))
	if err := first.Start(); err != nil {
		t.Fatalf("start first: %v", err)
	}
	t.Cleanup(func() { first.Shutdown(time.Second) })

	cfg := testConfig(upstream(t))
	cfg.Server.Port = first.http.addr.(*net.TCPAddr).Port
	second := newTestServer(t, cfg)

	if err := second.Start(); err == nil {
		second.Shutdown(time.Second)
		t.Fatal("second server should fail to bind")
	}
	if second.infra.Lifecycle.Ready() {
		t.Error("failed startup must not report ready")
	}
}
