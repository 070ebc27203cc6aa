// Package metrics provides Prometheus metrics for the pricing engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics collects and exposes engine-related Prometheus metrics.
type EngineMetrics struct {
	registry *prometheus.Registry

	// Prediction metrics
	PredictionsTotal   *prometheus.CounterVec
	PredictionDuration *prometheus.HistogramVec
	MarketsPerMatch    *prometheus.HistogramVec
	LambdaClamps       *prometheus.CounterVec

	// Combo metrics
	CombosTotal *prometheus.CounterVec
	ComboLegs   *prometheus.HistogramVec
	UnknownLegs *prometheus.CounterVec

	// Kelly metrics
	ValueBetsTotal *prometheus.CounterVec
	EdgeObserved   *prometheus.HistogramVec

	// Batch metrics
	BatchRuns     *prometheus.CounterVec
	BatchDuration *prometheus.HistogramVec
	BatchFailures *prometheus.CounterVec
}

// NewEngineMetrics creates a new engine metrics collector.
func NewEngineMetrics() *EngineMetrics {
	registry := prometheus.NewRegistry()

	em := &EngineMetrics{
		registry: registry,

		PredictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betengine_predictions_total",
				Help: "Total number of match predictions computed",
			},
			[]string{"status"},
		),
		PredictionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "betengine_prediction_duration_seconds",
				Help:    "Time to price all markets for one match",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"include_combos"},
		),
		MarketsPerMatch: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "betengine_markets_per_match",
				Help:    "Number of markets produced per match",
				Buckets: prometheus.LinearBuckets(100, 50, 8),
			},
			[]string{},
		),
		LambdaClamps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betengine_lambda_clamps_total",
				Help: "Expected-goal rates clamped to the valid range",
			},
			[]string{"side"},
		),

		CombosTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betengine_combos_total",
				Help: "Combined expressions evaluated",
			},
			[]string{"status"},
		),
		ComboLegs: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "betengine_combo_legs",
				Help:    "Legs per combined expression",
				Buckets: prometheus.LinearBuckets(1, 1, 8),
			},
			[]string{},
		),
		UnknownLegs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betengine_combo_unknown_legs_total",
				Help: "Expression legs that failed to parse",
			},
			[]string{},
		),

		ValueBetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betengine_value_bets_total",
				Help: "Markets flagged as value bets",
			},
			[]string{"market_family"},
		),
		EdgeObserved: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "betengine_edge_observed",
				Help:    "Expected value of priced markets against offered odds",
				Buckets: prometheus.LinearBuckets(-0.5, 0.1, 12),
			},
			[]string{},
		),

		BatchRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betengine_batch_runs_total",
				Help: "Batch pricing runs started",
			},
			[]string{"status"},
		),
		BatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "betengine_batch_duration_seconds",
				Help:    "Wall time of batch pricing runs",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{},
		),
		BatchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "betengine_batch_failures_total",
				Help: "Fixtures that failed to price inside a batch",
			},
			[]string{},
		),
	}

	em.registry.MustRegister(
		em.PredictionsTotal,
		em.PredictionDuration,
		em.MarketsPerMatch,
		em.LambdaClamps,
		em.CombosTotal,
		em.ComboLegs,
		em.UnknownLegs,
		em.ValueBetsTotal,
		em.EdgeObserved,
		em.BatchRuns,
		em.BatchDuration,
		em.BatchFailures,
	)

	return em
}

// Registry returns the Prometheus registry holding all engine metrics.
func (em *EngineMetrics) Registry() *prometheus.Registry {
	return em.registry
}

// --- Helper methods for recording metrics ---

// RecordPrediction records one priced fixture.
func (em *EngineMetrics) RecordPrediction(status string, seconds float64, includeCombos bool, marketCount int) {
	em.PredictionsTotal.WithLabelValues(status).Inc()
	label := "false"
	if includeCombos {
		label = "true"
	}
	em.PredictionDuration.WithLabelValues(label).Observe(seconds)
	if marketCount > 0 {
		em.MarketsPerMatch.WithLabelValues().Observe(float64(marketCount))
	}
}

// RecordLambdaClamp records an expected-goal rate forced back into range.
func (em *EngineMetrics) RecordLambdaClamp(side string) {
	em.LambdaClamps.WithLabelValues(side).Inc()
}

// RecordExpression records one evaluated combined expression.
func (em *EngineMetrics) RecordExpression(status string, legs, unknown int) {
	em.CombosTotal.WithLabelValues(status).Inc()
	em.ComboLegs.WithLabelValues().Observe(float64(legs))
	if unknown > 0 {
		em.UnknownLegs.WithLabelValues().Add(float64(unknown))
	}
}

// RecordEdge records one market priced against offered odds.
func (em *EngineMetrics) RecordEdge(family string, expectedValue float64, valueBet bool) {
	em.EdgeObserved.WithLabelValues().Observe(expectedValue)
	if valueBet {
		em.ValueBetsTotal.WithLabelValues(family).Inc()
	}
}

// RecordBatch records one completed batch run.
func (em *EngineMetrics) RecordBatch(status string, seconds float64, failures int) {
	em.BatchRuns.WithLabelValues(status).Inc()
	em.BatchDuration.WithLabelValues().Observe(seconds)
	if failures > 0 {
		em.BatchFailures.WithLabelValues().Add(float64(failures))
	}
}
