// Package kelly sizes stakes for decimal-odds bets with the Kelly
// criterion, scaled by model confidence and capped against overbetting.
package kelly

import (
	"math"

	"github.com/shopspring/decimal"
)

// Criterion computes stake recommendations.
type Criterion struct {
	minEdge     decimal.Decimal // minimum EV to call a bet value
	maxStakePct decimal.Decimal // max stake as fraction of bankroll
}

// CriterionConfig configures the criterion.
type CriterionConfig struct {
	MinEdge     float64 // Default: 0.05 (5% EV)
	MaxStakePct float64 // Default: 0.25 (quarter of bankroll)
}

// DefaultCriterionConfig returns default configuration.
func DefaultCriterionConfig() *CriterionConfig {
	return &CriterionConfig{
		MinEdge:     0.05,
		MaxStakePct: 0.25,
	}
}

// NewCriterion creates a new criterion.
func NewCriterion(config *CriterionConfig) *Criterion {
	if config == nil {
		config = DefaultCriterionConfig()
	}

	defaults := DefaultCriterionConfig()
	if config.MinEdge == 0 {
		config.MinEdge = defaults.MinEdge
	}
	if config.MaxStakePct == 0 {
		config.MaxStakePct = defaults.MaxStakePct
	}

	return &Criterion{
		minEdge:     decimal.NewFromFloat(config.MinEdge),
		maxStakePct: decimal.NewFromFloat(config.MaxStakePct),
	}
}

// Recommendation is the sizing output for one bet.
type Recommendation struct {
	Probability   decimal.Decimal `json:"probability"`
	Odds          decimal.Decimal `json:"odds"`
	ExpectedValue decimal.Decimal `json:"expected_value"`

	// KellyFraction is the raw optimum f* before confidence scaling.
	KellyFraction decimal.Decimal `json:"kelly_fraction"`
	FullKelly     decimal.Decimal `json:"full_kelly"`
	HalfKelly     decimal.Decimal `json:"half_kelly"`
	QuarterKelly  decimal.Decimal `json:"quarter_kelly"`

	// Stakes are in bankroll currency, half Kelly based.
	Stake decimal.Decimal `json:"stake"`

	IsValueBet bool   `json:"is_value_bet"`
	Reason     string `json:"reason,omitempty"`
}

// Calculate sizes a bet at decimal odds.
//
// The Kelly optimum for a bet paying o (decimal odds) at win probability p:
//
//	f* = ((o-1)*p - (1-p)) / (o-1)
//
// Confidence scales the stake linearly, since probability estimates from a
// truncated model are less trustworthy than the point value suggests.
func (c *Criterion) Calculate(probability, odds, confidence float64, bankroll decimal.Decimal) *Recommendation {
	result := &Recommendation{
		Probability: decimal.NewFromFloat(probability),
		Odds:        decimal.NewFromFloat(odds),
	}

	// Degenerate inputs never produce a stake.
	switch {
	case probability <= 0:
		result.Reason = "non-positive probability"
		return result
	case probability >= 1:
		result.Reason = "certainty is not a bet"
		return result
	case odds <= 1:
		result.Reason = "odds at or below even money"
		return result
	}
	if confidence <= 0 || confidence > 1 {
		confidence = 1
	}

	ev := probability*odds - 1
	result.ExpectedValue = decimal.NewFromFloat(ev)

	b := odds - 1
	raw := (b*probability - (1 - probability)) / b
	if raw < 0 {
		raw = 0
	}
	result.KellyFraction = decimal.NewFromFloat(raw)

	// Below the edge threshold the bet is a pass: the raw optimum is
	// reported for inspection but every sizing field stays zero.
	if result.ExpectedValue.LessThanOrEqual(c.minEdge) {
		result.Reason = "edge below minimum threshold"
		return result
	}

	full := decimal.NewFromFloat(raw * confidence)
	if full.GreaterThan(c.maxStakePct) {
		full = c.maxStakePct
	}
	half := full.Div(decimal.NewFromInt(2))
	quarter := full.Div(decimal.NewFromInt(4))

	result.FullKelly = full
	result.HalfKelly = half
	result.QuarterKelly = quarter
	result.Stake = bankroll.Mul(half)

	result.IsValueBet = true
	result.Reason = "positive edge above threshold"
	return result
}

// ExpectedValue returns p*o - 1 for a decimal-odds bet.
func ExpectedValue(probability, odds float64) float64 {
	return probability*odds - 1
}

// FullKellyFraction is the float fast path used by the bankroll simulator,
// where decimal arithmetic inside a Monte Carlo loop would be wasteful.
func FullKellyFraction(probability, odds, confidence float64) float64 {
	if probability <= 0 || probability >= 1 || odds <= 1 {
		return 0
	}
	if confidence <= 0 || confidence > 1 {
		confidence = 1
	}
	b := odds - 1
	f := (b*probability - (1 - probability)) / b
	if f < 0 {
		return 0
	}
	return math.Min(f*confidence, 1)
}
