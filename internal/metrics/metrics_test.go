package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

func TestRegistry_Exposition(t *testing.T) {
	r := New()
	r.BusyWorkers.WithLabelValues("web-1").Set(3)
	r.IdleWorkers.WithLabelValues("web-1").Set(7)
	r.Up.WithLabelValues("web-1").Set(1)
	r.ScrapeErrors.WithLabelValues("web-2").Inc()

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	mfs := scrape(t, srv.URL)

	if got := gaugeValue(mfs["apache_busy_workers"], "web-1"); got != 3 {
		t.Errorf("apache_busy_workers{hostname=web-1} = %v, want 3", got)
	}
	if got := gaugeValue(mfs["apache_idle_workers"], "web-1"); got != 7 {
		t.Errorf("apache_idle_workers{hostname=web-1} = %v, want 7", got)
	}
	if got := gaugeValue(mfs["apache_up"], "web-1"); got != 1 {
		t.Errorf("apache_up{hostname=web-1} = %v, want 1", got)
	}

	mf, ok := mfs["apache_scrape_errors_total"]
	if !ok {
		t.Fatal("apache_scrape_errors_total missing from exposition")
	}
	if got := counterValue(mf, "web-2"); got != 1 {
		t.Errorf("apache_scrape_errors_total{hostname=web-2} = %v, want 1", got)
	}
}

func TestRegistry_UnsetTargetAbsent(t *testing.T) {
	r := New()
	r.BusyWorkers.WithLabelValues("web-1").Set(3)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	mfs := scrape(t, srv.URL)
	for _, m := range mfs["apache_busy_workers"].GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "hostname" && l.GetValue() != "web-1" {
				t.Errorf("unexpected hostname %q in exposition", l.GetValue())
			}
		}
	}
}

func TestRegistry_Isolated(t *testing.T) {
	// Two registries must not share state.
	a, b := New(), New()
	a.Uptime.WithLabelValues("web-1").Set(100)

	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	mfs := scrape(t, srv.URL)
	if mf, ok := mfs["apache_uptime"]; ok && len(mf.GetMetric()) > 0 {
		t.Error("registry b should not see series written to registry a")
	}
}

// scrape fetches url and decodes the text exposition into metric families.
func scrape(t *testing.T, url string) map[string]*dto.MetricFamily {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		t.Fatalf("parse exposition: %v", err)
	}
	return mfs
}

// gaugeValue returns the gauge value for the given hostname, or -1 if the
// series is absent.
func gaugeValue(mf *dto.MetricFamily, hostname string) float64 {
	for _, m := range mf.GetMetric() {
		if hasHostname(m, hostname) {
			return m.GetGauge().GetValue()
		}
	}
	return -1
}

func counterValue(mf *dto.MetricFamily, hostname string) float64 {
	for _, m := range mf.GetMetric() {
		if hasHostname(m, hostname) {
			return m.GetCounter().GetValue()
		}
	}
	return -1
}

func hasHostname(m *dto.Metric, hostname string) bool {
	for _, l := range m.GetLabel() {
		if l.GetName() == "hostname" && l.GetValue() == hostname {
			return true
		}
	}
	return false
}
