package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/modwatch/modwatch/internal/metrics"
)

func TestServer_Metrics(t *testing.T) {
	reg := metrics.New()
	reg.Uptime.WithLabelValues("web-1").Set(86400)

	srv := httptest.NewServer(New("ignored", reg.Handler()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text exposition", ct)
	}

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		t.Fatalf("parse exposition: %v", err)
	}

	mf, ok := mfs["apache_uptime"]
	if !ok {
		t.Fatal("apache_uptime missing from exposition")
	}
	if mf.GetType() != dto.MetricType_GAUGE {
		t.Errorf("apache_uptime type = %v, want gauge", mf.GetType())
	}
	m := mf.GetMetric()[0]
	if got := m.GetGauge().GetValue(); got != 86400 {
		t.Errorf("apache_uptime = %v, want 86400", got)
	}
	if got := m.GetLabel()[0]; got.GetName() != "hostname" || got.GetValue() != "web-1" {
		t.Errorf("label = %s=%s, want hostname=web-1", got.GetName(), got.GetValue())
	}
}

func TestServer_Healthz(t *testing.T) {
	srv := httptest.NewServer(New("ignored", metrics.New().Handler()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want 200", resp.StatusCode)
	}

	post, err := http.Post(srv.URL+"/healthz", "text/plain", nil)
	if err != nil {
		t.Fatalf("POST /healthz: %v", err)
	}
	defer post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /healthz status = %d, want 405", post.StatusCode)
	}
}

func TestServer_RunShutdown(t *testing.T) {
	s := New("127.0.0.1:0", metrics.New().Handler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() after cancel = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}

func TestServer_ListenFailureIsSynchronous(t *testing.T) {
	s := New("256.0.0.1:bad", metrics.New().Handler())
	if err := s.Listen(); err == nil {
		t.Fatal("Listen() expected error for invalid listen address")
	}
	// Run without a prior Listen surfaces the same bind failure.
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("Run() expected error for invalid listen address")
	}
}

func TestServer_ListenThenRun(t *testing.T) {
	s := New("127.0.0.1:0", metrics.New().Handler())
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if s.Addr() == "" {
		t.Fatal("Addr() empty after Listen")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// The already-bound listener serves requests.
	deadline := time.Now().Add(2 * time.Second)
	var resp *http.Response
	var err error
	for time.Now().Before(deadline) {
		resp, err = http.Get("http://" + s.Addr() + "/healthz")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() after cancel = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}
