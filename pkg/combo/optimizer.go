package combo

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/golexhq/betengine/pkg/kelly"
)

// ErrNoCandidates is returned when optimization has nothing to pick from.
var ErrNoCandidates = errors.New("combo: no candidate markets")

// Candidate is a single market offered at bookmaker odds.
type Candidate struct {
	Market      string  `json:"market"`
	Probability float64 `json:"probability"`
	Odds        float64 `json:"odds"`
}

// Suggestion is the optimizer's pick: the legs with the best expected value
// combined into one accumulator, with a half-Kelly stake.
type Suggestion struct {
	SelectedMarkets     []string        `json:"selected_markets"`
	CombinedOdds        decimal.Decimal `json:"combined_odds"`
	CombinedProbability decimal.Decimal `json:"combined_probability"`
	ExpectedValue       decimal.Decimal `json:"expected_value"`
	Stake               decimal.Decimal `json:"kelly_stake"`
}

// Optimizer selects accumulator legs by expected value.
type Optimizer struct {
	criterion *kelly.Criterion
	maxLegs   int
}

// NewOptimizer builds an optimizer. maxLegs below 1 defaults to 3.
func NewOptimizer(criterion *kelly.Criterion, maxLegs int) *Optimizer {
	if criterion == nil {
		criterion = kelly.NewCriterion(nil)
	}
	if maxLegs < 1 {
		maxLegs = 3
	}
	return &Optimizer{criterion: criterion, maxLegs: maxLegs}
}

// Best ranks the candidates by single-leg expected value, takes the top
// legs and prices the accumulator. Leg probabilities multiply as if
// independent; correlated legs should not be offered together.
func (o *Optimizer) Best(candidates []Candidate, bankroll decimal.Decimal) (*Suggestion, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return kelly.ExpectedValue(ranked[i].Probability, ranked[i].Odds) >
			kelly.ExpectedValue(ranked[j].Probability, ranked[j].Odds)
	})
	if len(ranked) > o.maxLegs {
		ranked = ranked[:o.maxLegs]
	}

	odds := 1.0
	prob := 1.0
	names := make([]string, 0, len(ranked))
	for _, c := range ranked {
		odds *= c.Odds
		prob *= c.Probability
		names = append(names, c.Market)
	}

	rec := o.criterion.Calculate(prob, odds, 1.0, bankroll)

	return &Suggestion{
		SelectedMarkets:     names,
		CombinedOdds:        decimal.NewFromFloat(odds).Round(2),
		CombinedProbability: decimal.NewFromFloat(prob).Round(4),
		ExpectedValue:       decimal.NewFromFloat(kelly.ExpectedValue(prob, odds)).Round(4),
		Stake:               rec.Stake.Round(2),
	}, nil
}
