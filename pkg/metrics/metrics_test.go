package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveRequest(http.MethodGet, "/users/{id}", 200, 5*time.Millisecond)
	c.ObserveRequest(http.MethodGet, "/users/{id}", 200, 7*time.Millisecond)
	c.ObserveRequest(http.MethodGet, "/users/{id}", 404, time.Millisecond)

	got := counterValue(t, reg, "offerboard_http_requests_total",
		map[string]string{"route": "/users/{id}", "status_code": "200"})
	if got != 2 {
		t.Errorf("requests_total{200} = %v, want 2", got)
	}
	got = counterValue(t, reg, "offerboard_http_requests_total",
		map[string]string{"status_code": "404"})
	if got != 1 {
		t.Errorf("requests_total{404} = %v, want 1", got)
	}
}

func TestRecordWrite(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordWrite("users", "create")

	if got := counterValue(t, reg, "offerboard_record_writes_total",
		map[string]string{"kind": "users", "op": "create"}); got != 1 {
		t.Errorf("record_writes_total = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordWrite("orders", "delete")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `offerboard_record_writes_total{kind="orders",op="delete"} 1`) {
		t.Fatalf("metric missing from exposition:\n%s", body)
	}
}
