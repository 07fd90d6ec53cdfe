package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/landing/pkg/live"
	"github.com/vango-dev/landing/pkg/protocol"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsMiddleware_RecordsSuccessAndError(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	mw := m.Middleware()
	click := live.EventInfo{SessionID: "s1", Type: "click", Target: "menu"}

	if err := mw(context.Background(), click, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	errNotFound := protocol.NewError(protocol.ErrTargetNotFound, "no element")
	if err := mw(context.Background(), click, func(context.Context) error { return errNotFound }); !errors.Is(err, errNotFound) {
		t.Fatalf("err = %v, want passthrough", err)
	}

	if got := metricCounterValue(t, m.eventsTotal.WithLabelValues("click", "success")); got != 1 {
		t.Errorf("events_total(success) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.eventsTotal.WithLabelValues("click", "error")); got != 1 {
		t.Errorf("events_total(error) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.eventErrors.WithLabelValues("click", "TargetNotFound")); got != 1 {
		t.Errorf("event_errors_total(TargetNotFound) = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.eventDuration.WithLabelValues("click")); got != 2 {
		t.Errorf("event_duration count = %d, want 2", got)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{protocol.NewError(protocol.ErrHandlerPanic, "boom"), "HandlerPanic"},
		{context.DeadlineExceeded, "timeout"},
		{context.Canceled, "canceled"},
		{errors.New("something else"), "internal"},
	}
	for _, tt := range tests {
		if got := categorizeError(tt.err); got != tt.want {
			t.Errorf("categorizeError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMetricsObserver(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	m.SessionOpened("a")
	m.SessionOpened("b")
	m.SessionClosed("a", 3*time.Second)
	m.PatchesSent(4)
	m.PatchesSent(2)
	m.ConnectionError("read")

	if got := metricGaugeValue(t, m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.sessionDuration); got != 1 {
		t.Errorf("session_duration count = %d, want 1", got)
	}
	if got := metricCounterValue(t, m.patchesSent); got != 6 {
		t.Errorf("patches_sent_total = %v, want 6", got)
	}
	if got := metricCounterValue(t, m.wsErrors.WithLabelValues("read")); got != 1 {
		t.Errorf("websocket_errors_total(read) = %v, want 1", got)
	}
}

func TestMetricsHTTPAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("site"))

	h := m.HTTP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got := metricCounterValue(t, m.httpRequests.WithLabelValues("418", "get")); got != 1 {
		t.Errorf("http_requests_total = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "site_http_requests_total") {
		t.Errorf("metrics output missing namespaced counter:\n%s", body)
	}
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(WithRegistry(reg))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	NewMetrics(WithRegistry(reg))
}
