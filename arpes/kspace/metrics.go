package kspace

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversion outcomes recorded by Metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeDomain   = "domain"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

// Metrics collects conversion statistics. A nil *Metrics records nothing.
type Metrics struct {
	slices      prometheus.Counter
	conversions *prometheus.CounterVec
	sliceTime   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		slices: f.NewCounter(prometheus.CounterOpts{
			Name: "arpes_kspace_slices_total",
			Help: "Number of energy slices converted to momentum space.",
		}),
		conversions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arpes_kspace_conversions_total",
			Help: "Number of 3D conversions by outcome.",
		}, []string{"outcome"}),
		sliceTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "arpes_kspace_slice_seconds",
			Help:    "Duration of single-slice conversions.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

func (m *Metrics) observeSlice(d time.Duration) {
	if m == nil {
		return
	}
	m.slices.Inc()
	m.sliceTime.Observe(d.Seconds())
}

func (m *Metrics) conversion(outcome string) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(outcome).Inc()
}
