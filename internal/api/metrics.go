package api

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	lookups  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bananas_lookups_total",
				Help: "Total number of word lookups by result",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bananas_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
	reg.MustRegister(m.lookups, m.duration)
	return m
}

func (m *metrics) observeLookup(found bool) {
	if found {
		m.lookups.WithLabelValues("found").Inc()
		return
	}
	m.lookups.WithLabelValues("missing").Inc()
}
