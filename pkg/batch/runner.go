// Package batch prices many fixtures concurrently through a worker pool,
// with optional rate limiting for runs fed by a live odds feed.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/golexhq/betengine/pkg/metrics"
	"github.com/golexhq/betengine/pkg/predict"
)

// RunnerConfig configures a batch runner.
type RunnerConfig struct {
	Workers int

	// RatePerSec throttles fixture starts; zero means unthrottled.
	RatePerSec float64
	Burst      int

	// Metrics records run counters when non-nil.
	Metrics *metrics.EngineMetrics
}

// DefaultRunnerConfig returns default configuration.
func DefaultRunnerConfig() *RunnerConfig {
	return &RunnerConfig{Workers: 4, Burst: 1}
}

// Runner fans fixtures out over a worker pool.
type Runner struct {
	engine  *predict.Engine
	workers int
	limiter *rate.Limiter
	metrics *metrics.EngineMetrics
}

// NewRunner creates a runner around a shared engine. A nil config uses
// defaults.
func NewRunner(engine *predict.Engine, config *RunnerConfig) *Runner {
	if config == nil {
		config = DefaultRunnerConfig()
	}
	workers := config.Workers
	if workers < 1 {
		workers = DefaultRunnerConfig().Workers
	}

	var limiter *rate.Limiter
	if config.RatePerSec > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RatePerSec), burst)
	}
	return &Runner{engine: engine, workers: workers, limiter: limiter, metrics: config.Metrics}
}

// Outcome is one fixture's result within a run.
type Outcome struct {
	FixtureID string            `json:"fixture_id"`
	Response  *predict.Response `json:"response,omitempty"`
	Err       error             `json:"-"`
}

// RunResult is the aggregate of one batch run.
type RunResult struct {
	RunID    uuid.UUID     `json:"run_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Outcomes []Outcome     `json:"outcomes"`
	Failed   int           `json:"failed"`
}

// Run prices all fixtures and returns outcomes in input order. A canceled
// context stops new work; fixtures not yet started report the context error.
func (r *Runner) Run(ctx context.Context, fixtures []predict.Request) *RunResult {
	result := &RunResult{
		RunID:    uuid.New(),
		Started:  time.Now(),
		Outcomes: make([]Outcome, len(fixtures)),
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result.Outcomes[i] = r.runOne(ctx, fixtures[i])
			}
		}()
	}

feed:
	for i := range fixtures {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Mark everything not yet handed out.
			for j := i; j < len(fixtures); j++ {
				result.Outcomes[j] = Outcome{FixtureID: fixtures[j].FixtureID, Err: ctx.Err()}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for _, o := range result.Outcomes {
		if o.Err != nil {
			result.Failed++
		}
	}
	result.Duration = time.Since(result.Started)

	if r.metrics != nil {
		status := "ok"
		if result.Failed > 0 {
			status = "partial"
		}
		if ctx.Err() != nil {
			status = "canceled"
		}
		r.metrics.RecordBatch(status, result.Duration.Seconds(), result.Failed)
	}
	return result
}

func (r *Runner) runOne(ctx context.Context, req predict.Request) Outcome {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return Outcome{FixtureID: req.FixtureID, Err: err}
		}
	}
	resp, err := r.engine.Predict(req)
	return Outcome{FixtureID: req.FixtureID, Response: resp, Err: err}
}
