package bconnected

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type clientMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bconnected",
			Subsystem: "sdk",
			Name:      "calls_total",
			Help:      "Embedded client calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bconnected",
			Subsystem: "sdk",
			Name:      "call_duration_seconds",
			Help:      "Embedded client call latency.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"operation"}),
	}
	if err := reuseOrRegister(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := reuseOrRegister(reg, &m.latency); err != nil {
		return nil, err
	}
	return m, nil
}

// reuseOrRegister lets several clients share one registerer.
func reuseOrRegister[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("bconnected: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("bconnected: metric registered with type %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

type observer struct {
	logger  *zap.Logger
	metrics *clientMetrics
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newClientMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	elapsed := time.Since(start)

	if o.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		o.metrics.calls.WithLabelValues(op, outcome).Inc()
		o.metrics.latency.WithLabelValues(op).Observe(elapsed.Seconds())
	}

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("sdk call failed", zap.String("op", op), zap.Duration("elapsed", elapsed), zap.Error(err))
		return
	}
	o.logger.Debug("sdk call", zap.String("op", op), zap.Duration("elapsed", elapsed))
}
