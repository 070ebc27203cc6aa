// Package predict is the top-level façade: one call takes a fixture's
// expected-goal inputs and returns every priced market, optionally with
// stake recommendations against bookmaker odds and ad-hoc combined
// expressions.
package predict

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/golexhq/betengine/pkg/combo"
	"github.com/golexhq/betengine/pkg/engine"
	"github.com/golexhq/betengine/pkg/kelly"
	"github.com/golexhq/betengine/pkg/markets"
	"github.com/golexhq/betengine/pkg/metrics"
	"github.com/golexhq/betengine/pkg/players"
)

// Request is one fixture to price.
type Request struct {
	FixtureID string               `json:"fixture_id"`
	XG        engine.ExpectedGoals `json:"expected_goals"`

	// Side tunes the corners/cards sub-models; zero values take defaults.
	Side markets.SideChannelParams `json:"-"`

	// Odds maps market codes to bookmaker decimal odds. Markets with an
	// odds entry get a Kelly recommendation attached.
	Odds map[string]float64 `json:"odds,omitempty"`

	// Bankroll in currency units; zero defaults to 10000.
	Bankroll float64 `json:"bankroll,omitempty"`

	// Expressions are free-form combined bets to price alongside the
	// standard catalogue.
	Expressions []string `json:"expressions,omitempty"`

	// Baselines resolves player IDs inside expressions; may be nil.
	Baselines players.BaselineSource `json:"-"`

	IncludeCombos bool `json:"include_combos"`
}

// Quote is one priced market, with sizing fields present only when the
// request carried odds for it.
type Quote struct {
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
	Approximate bool    `json:"approximate,omitempty"`

	Odds          float64         `json:"odds,omitempty"`
	ExpectedValue float64         `json:"expected_value,omitempty"`
	IsValueBet    bool            `json:"is_value_bet,omitempty"`
	KellyFull     decimal.Decimal `json:"kelly_full,omitempty"`
	KellyHalf     decimal.Decimal `json:"kelly_half,omitempty"`
	KellyQuarter  decimal.Decimal `json:"kelly_quarter,omitempty"`
	Stake         decimal.Decimal `json:"stake,omitempty"`
}

// Response is the full pricing output for one fixture.
type Response struct {
	FixtureID    string  `json:"fixture_id"`
	ExpectedHome float64 `json:"expected_home_goals"`
	ExpectedAway float64 `json:"expected_away_goals"`
	Confidence   float64 `json:"confidence"`
	Clamped      bool    `json:"clamped,omitempty"`

	Markets     map[string]Quote `json:"markets"`
	Expressions []combo.Result   `json:"expression_results,omitempty"`
}

// Engine prices fixtures. Safe for concurrent use: per-fixture state lives
// in the per-call calculator, never on the Engine.
type Engine struct {
	cfg       *engine.Config
	builder   *engine.Builder
	criterion *kelly.Criterion
	metrics   *metrics.EngineMetrics
}

// New creates an Engine. A nil config uses embedded defaults.
func New(cfg *engine.Config) (*Engine, error) {
	builder, err := engine.NewBuilder(cfg)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return &Engine{
		cfg:       builder.Config(),
		builder:   builder,
		criterion: kelly.NewCriterion(nil),
	}, nil
}

// SetMetrics attaches a Prometheus collector. Call before the Engine is
// shared across goroutines; a nil collector disables recording.
func (e *Engine) SetMetrics(m *metrics.EngineMetrics) {
	e.metrics = m
}

// Predict prices one fixture.
func (e *Engine) Predict(req Request) (*Response, error) {
	start := time.Now()

	model := e.builder.BuildFromXG(req.XG)
	calc, err := markets.NewCalculator(model, e.cfg, req.Side)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordPrediction("error", time.Since(start).Seconds(), req.IncludeCombos, 0)
		}
		return nil, fmt.Errorf("predict: %w", err)
	}
	if e.metrics != nil && model.Clamped {
		e.metrics.RecordLambdaClamp("any")
	}

	bankroll := req.Bankroll
	if bankroll <= 0 {
		bankroll = 10000
	}
	bank := decimal.NewFromFloat(bankroll)

	resp := &Response{
		FixtureID:    req.FixtureID,
		ExpectedHome: model.LambdaHome,
		ExpectedAway: model.LambdaAway,
		Confidence:   calc.Confidence(),
		Clamped:      model.Clamped,
		Markets:      make(map[string]Quote, 512),
	}

	for code, r := range calc.CalculateAll(req.IncludeCombos) {
		q := Quote{
			Probability: r.Probability,
			Confidence:  r.Confidence,
			Approximate: r.Approximate,
		}
		if o, ok := req.Odds[code]; ok {
			rec := e.criterion.Calculate(r.Probability, o, r.Confidence, bank)
			q.Odds = o
			ev, _ := rec.ExpectedValue.Float64()
			q.ExpectedValue = ev
			q.IsValueBet = rec.IsValueBet
			q.KellyFull = rec.FullKelly
			q.KellyHalf = rec.HalfKelly
			q.KellyQuarter = rec.QuarterKelly
			q.Stake = rec.Stake
			if e.metrics != nil {
				e.metrics.RecordEdge(marketFamily(code), ev, rec.IsValueBet)
			}
		}
		resp.Markets[code] = q
	}

	if len(req.Expressions) > 0 {
		ev := combo.NewEvaluator(calc, req.Baselines)
		for _, expr := range req.Expressions {
			res := ev.Evaluate(expr)
			resp.Expressions = append(resp.Expressions, res)
			if e.metrics != nil {
				status, unknown := "ok", 0
				for _, leg := range res.Legs {
					if leg.Unknown {
						unknown++
					}
				}
				if unknown > 0 {
					status = "unknown_legs"
				}
				e.metrics.RecordExpression(status, len(res.Legs), unknown)
			}
		}
	}

	if e.metrics != nil {
		e.metrics.RecordPrediction("ok", time.Since(start).Seconds(), req.IncludeCombos, len(resp.Markets))
	}
	return resp, nil
}

// marketFamily reduces a market code to its leading token so metric
// cardinality stays bounded.
func marketFamily(code string) string {
	if i := strings.IndexAny(code, "_+"); i > 0 {
		return code[:i]
	}
	return code
}
