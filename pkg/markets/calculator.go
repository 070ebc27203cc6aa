// Package markets derives betting-market probabilities from a joint score
// distribution. Market codes are stable identifiers shared with clients and
// persisted history; they must never change spelling.
package markets

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golexhq/betengine/pkg/engine"
)

// ErrInvalidLine is returned for over/under lines that are not half-integers.
var ErrInvalidLine = errors.New("markets: over/under line must be a half-integer")

// Result is a single market's output.
type Result struct {
	Code        string  `json:"market"`
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`

	// Approximate marks probabilities produced by independence products
	// with a correlation discount rather than a true joint law.
	Approximate bool `json:"approximate,omitempty"`
}

// SideChannelParams tunes the corners/cards/timing sub-models, which are not
// derivable from the score matrix. Zero values take defaults; explicit mu
// overrides win over the heuristic derivation.
type SideChannelParams struct {
	PossessionHome  float64 // home possession share, default 0.5
	AttackIntensity float64 // corners intensity multiplier, default 1.0
	Aggression      float64 // cards aggression multiplier, default 1.0
	RefereeFactor   float64 // referee cards tendency, default 1.0

	CornersMu float64 // direct total-corners rate override
	YellowMu  float64 // direct yellow-cards rate override
	RedMu     float64 // direct red-cards rate override
}

func (p SideChannelParams) withDefaults() SideChannelParams {
	if p.PossessionHome <= 0 || p.PossessionHome >= 1 {
		p.PossessionHome = 0.5
	}
	if p.AttackIntensity <= 0 {
		p.AttackIntensity = 1.0
	}
	if p.Aggression <= 0 {
		p.Aggression = 1.0
	}
	if p.RefereeFactor <= 0 {
		p.RefereeFactor = 1.0
	}
	return p
}

// Calculator computes every market family for one match. It is built fresh
// per evaluation from a MatchModel and never mutated afterwards.
type Calculator struct {
	cfg    *engine.Config
	matrix *engine.ScoreMatrix
	side   SideChannelParams

	lambdaHome float64
	lambdaAway float64
	confidence float64

	// Half matrices for the fixed-proportion split, built once.
	firstHalf  *engine.ScoreMatrix
	secondHalf *engine.ScoreMatrix

	// Cached full-time outcomes used by many families.
	probHome float64
	probDraw float64
	probAway float64
	probBTTS float64
}

// NewCalculator builds a per-match calculator. A nil config uses defaults.
func NewCalculator(model *engine.MatchModel, cfg *engine.Config, side SideChannelParams) (*Calculator, error) {
	builder, err := engine.NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	cfg = builder.Config()

	conf := cfg.Confidence
	if model.Clamped {
		conf *= 0.9
	}

	c := &Calculator{
		cfg:        cfg,
		matrix:     model.Matrix,
		side:       side.withDefaults(),
		lambdaHome: model.LambdaHome,
		lambdaAway: model.LambdaAway,
		confidence: conf,
		firstHalf:  builder.HalfMatrix(model.LambdaHome, model.LambdaAway, true),
		secondHalf: builder.HalfMatrix(model.LambdaHome, model.LambdaAway, false),
	}

	c.probHome = c.matrix.ProbWhere(func(h, a int) bool { return h > a })
	c.probDraw = c.matrix.ProbWhere(func(h, a int) bool { return h == a })
	c.probAway = 1 - c.probHome - c.probDraw
	c.probBTTS = c.matrix.ProbWhere(func(h, a int) bool { return h >= 1 && a >= 1 })
	return c, nil
}

// Matrix exposes the full-time score matrix (read-only by convention).
func (c *Calculator) Matrix() *engine.ScoreMatrix { return c.matrix }

// Lambdas returns the resolved expected-goal rates.
func (c *Calculator) Lambdas() (home, away float64) { return c.lambdaHome, c.lambdaAway }

// Confidence returns the base confidence attached to matrix-derived markets.
func (c *Calculator) Confidence() float64 { return c.confidence }

// CalculateAll computes every market family keyed by code.
func (c *Calculator) CalculateAll(includeCombos bool) map[string]Result {
	out := make(map[string]Result, 512)

	families := [][]Result{
		c.MatchResult(),
		c.BTTS(),
		c.DoubleChance(),
		c.DrawNoBet(),
		c.AllOverUnder(),
		c.AllTeamTotals(),
		c.ExactGoals(),
		c.MultiGoalRanges(),
		c.FirstHalfMarkets(),
		c.SecondHalfMarkets(),
		c.HalfComparison(),
		c.HTFTMarkets(),
		c.AllAsianHandicaps(),
		c.CleanSheets(),
		c.CorrectScores(),
		c.GoalTiming(),
		c.OddEven(),
		c.Corners(),
		c.Cards(),
	}
	for _, fam := range families {
		for _, r := range fam {
			out[r.Code] = r
		}
	}

	if includeCombos {
		for _, r := range c.PopularCombos() {
			out[r.Code] = r
		}
	}
	return out
}

// res wraps a probability in a Result at the base confidence.
func (c *Calculator) res(code string, p float64) Result {
	return Result{Code: code, Probability: clamp01(p), Confidence: c.confidence}
}

// resAt wraps a probability with a confidence multiplier applied.
func (c *Calculator) resAt(code string, p, confMult float64) Result {
	return Result{Code: code, Probability: clamp01(p), Confidence: clamp01(c.confidence * confMult)}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// isHalfStep reports whether a line is a positive half-integer (0.5, 1.5,
// ...). Goal counts cannot go negative, so neither can a total line.
func isHalfStep(line float64) bool {
	if line <= 0 {
		return false
	}
	doubled := line * 2
	return doubled == math.Trunc(doubled) && int64(doubled)%2 != 0
}

// fmtLine renders 2.5 as "2.5" for O/U codes (lines are always half-steps).
func fmtLine(line float64) string {
	return strconv.FormatFloat(line, 'f', -1, 64)
}

// fmtLineUnderscore renders 2.5 as "2_5" for the legacy long-form codes.
func fmtLineUnderscore(line float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(line, 'f', -1, 64), ".", "_")
}

// fmtHandicap renders -0.5 as "-0_5" and 2.0 as "2_0" for AH codes.
func fmtHandicap(h float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(h, 'f', 1, 64), ".", "_")
}

// totalsPMF collapses a matrix into its total-goals distribution,
// index = home+away goals.
func totalsPMF(m *engine.ScoreMatrix) []float64 {
	pmf := make([]float64, 2*m.MaxGoals()+1)
	for h := 0; h <= m.MaxGoals(); h++ {
		for a := 0; a <= m.MaxGoals(); a++ {
			pmf[h+a] += m.Prob(h, a)
		}
	}
	return pmf
}

func fmtCode(format string, args ...any) string { return fmt.Sprintf(format, args...) }
