package survey

import (
	"sync"

	"github.com/drausin/recapture/recapture/common/errors"
	"github.com/drausin/recapture/recapture/hpd"
	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	quantityLabel = "quantity"
	kindLabel     = "kind"

	// ProportionQuantity labels the tagged proportion estimate.
	ProportionQuantity = "proportion"

	// PopulationQuantity labels the population size estimate.
	PopulationQuantity = "population"

	metricNamespace = "recapture"
	metricSubsystem = "survey"
)

// Recorder records counts of the draws, estimates, and errors produced by surveys.
type Recorder interface {
	// RecordDraws records that n posterior draws were made.
	RecordDraws(n int)

	// RecordEstimate records a successful interval estimate for the given quantity.
	RecordEstimate(quantity string, interval hpd.Interval)

	// RecordError records a failed estimate for the given quantity.
	RecordError(quantity string, err error)

	// Counts returns the recorded counts.
	Counts() *Counts
}

// PromRecorder is a Recorder that exposes state via Prometheus metrics.
type PromRecorder interface {
	Recorder

	// Register registers the Prometheus metrics with the given registerer.
	Register(reg prom.Registerer) error

	// Unregister unregisters the Prometheus metrics from the given registerer.
	Unregister(reg prom.Registerer)
}

// Counts holds scalar metrics about the surveys run.
type Counts struct {
	Draws     uint64
	Estimates map[string]uint64
	Errors    map[string]uint64
}

type scalarRecorder struct {
	counts *Counts
	mu     sync.Mutex
}

// NewScalarRecorder creates a new Recorder that stores scalar counts.
func NewScalarRecorder() Recorder {
	return &scalarRecorder{
		counts: &Counts{
			Estimates: make(map[string]uint64),
			Errors:    make(map[string]uint64),
		},
	}
}

func (r *scalarRecorder) RecordDraws(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts.Draws += uint64(n)
}

func (r *scalarRecorder) RecordEstimate(quantity string, interval hpd.Interval) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts.Estimates[quantity]++
}

func (r *scalarRecorder) RecordError(quantity string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts.Errors[errors.Kind(err)]++
}

func (r *scalarRecorder) Counts() *Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &Counts{
		Draws:     r.counts.Draws,
		Estimates: make(map[string]uint64, len(r.counts.Estimates)),
		Errors:    make(map[string]uint64, len(r.counts.Errors)),
	}
	for k, v := range r.counts.Estimates {
		c.Estimates[k] = v
	}
	for k, v := range r.counts.Errors {
		c.Errors[k] = v
	}
	return c
}

// NewPromScalarRecorder creates a new scalar recorder that also emits Prometheus metrics for
// draws, estimates, errors, and interval widths.
func NewPromScalarRecorder() PromRecorder {
	return &promScalarRecorder{
		scalarRecorder: NewScalarRecorder().(*scalarRecorder),
		draws: prom.NewCounter(prom.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: metricSubsystem,
			Name:      "draws_total",
			Help:      "Number of posterior draws made.",
		}),
		estimates: prom.NewCounterVec(
			prom.CounterOpts{
				Namespace: metricNamespace,
				Subsystem: metricSubsystem,
				Name:      "estimates_total",
				Help:      "Number of successful interval estimates.",
			},
			[]string{quantityLabel},
		),
		errors: prom.NewCounterVec(
			prom.CounterOpts{
				Namespace: metricNamespace,
				Subsystem: metricSubsystem,
				Name:      "errors_total",
				Help:      "Number of failed estimates.",
			},
			[]string{quantityLabel, kindLabel},
		),
		widths: prom.NewHistogramVec(
			prom.HistogramOpts{
				Namespace: metricNamespace,
				Subsystem: metricSubsystem,
				Name:      "interval_width",
				Help:      "Width of estimated HPD intervals.",
				Buckets:   prom.ExponentialBuckets(1e-3, 4, 12),
			},
			[]string{quantityLabel},
		),
	}
}

type promScalarRecorder struct {
	*scalarRecorder

	draws     prom.Counter
	estimates *prom.CounterVec
	errors    *prom.CounterVec
	widths    *prom.HistogramVec
}

func (r *promScalarRecorder) RecordDraws(n int) {
	r.scalarRecorder.RecordDraws(n)
	r.draws.Add(float64(n))
}

func (r *promScalarRecorder) RecordEstimate(quantity string, interval hpd.Interval) {
	r.scalarRecorder.RecordEstimate(quantity, interval)
	r.estimates.WithLabelValues(quantity).Inc()
	r.widths.WithLabelValues(quantity).Observe(interval.Width())
}

func (r *promScalarRecorder) RecordError(quantity string, err error) {
	r.scalarRecorder.RecordError(quantity, err)
	r.errors.With(prom.Labels{
		quantityLabel: quantity,
		kindLabel:     errors.Kind(err),
	}).Inc()
}

func (r *promScalarRecorder) Register(reg prom.Registerer) error {
	for _, c := range r.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *promScalarRecorder) Unregister(reg prom.Registerer) {
	for _, c := range r.collectors() {
		_ = reg.Unregister(c)
	}
}

func (r *promScalarRecorder) collectors() []prom.Collector {
	return []prom.Collector{r.draws, r.estimates, r.errors, r.widths}
}
