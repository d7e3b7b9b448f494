package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRequestCountsByLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/v1/products", 200, 20*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/products", 200, 35*time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/cart", 400, 5*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var requests *dto.MetricFamily
	for _, fam := range families {
		if fam.GetName() == "http_requests_total" {
			requests = fam
		}
	}
	if requests == nil {
		t.Fatal("http_requests_total not registered")
	}

	found := false
	for _, metric := range requests.GetMetric() {
		labels := map[string]string{}
		for _, pair := range metric.GetLabel() {
			labels[pair.GetName()] = pair.GetValue()
		}
		if labels["route"] == "/api/v1/products" && labels["status"] == "200" {
			found = true
			if got := metric.GetCounter().GetValue(); got != 2 {
				t.Fatalf("expected 2 observations, got %v", got)
			}
		}
	}
	if !found {
		t.Fatal("expected labelled counter for product listing requests")
	}
}

func TestTrackInFlight(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	done := m.TrackInFlight()
	if got := gaugeValue(t, reg, "http_requests_in_flight"); got != 1 {
		t.Fatalf("expected 1 in flight, got %v", got)
	}
	done()
	if got := gaugeValue(t, reg, "http_requests_in_flight"); got != 0 {
		t.Fatalf("expected 0 in flight, got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
	m.TrackInFlight()()
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() == name {
			return fam.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
