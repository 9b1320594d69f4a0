package api

import (
	"fmt"
	"time"

	metrics "github.com/rcrowley/go-metrics"
)

const (
	metricRequests = "pqd.api.requests"
	metricFailures = "pqd.api.failures"
	metricDuration = "pqd.api.duration"
)

type requestMetrics struct {
	registry metrics.Registry
}

func newRequestMetrics(r metrics.Registry) *requestMetrics {
	return &requestMetrics{registry: r}
}

// record - a request counter per method and status class, a failure counter for
// transport errors and one duration timer for all requests
func (m *requestMetrics) record(method string, status int, duration time.Duration, err error) {
	if m == nil || m.registry == nil {
		return
	}
	metrics.GetOrRegisterTimer(metricDuration, m.registry).Update(duration)
	if err != nil {
		metrics.GetOrRegisterCounter(metricFailures, m.registry).Inc(1)
		return
	}
	name := fmt.Sprintf("%s.%s.%dxx", metricRequests, method, status/100)
	metrics.GetOrRegisterCounter(name, m.registry).Inc(1)
}

// RequestCount - number of completed requests recorded in r for the method and status class (2, 4, 5)
func RequestCount(r metrics.Registry, method string, statusClass int) int64 {
	name := fmt.Sprintf("%s.%s.%dxx", metricRequests, method, statusClass)
	if c, ok := r.Get(name).(metrics.Counter); ok {
		return c.Count()
	}
	return 0
}
