package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMaxGoals is returned when a matrix bound below 1 is requested.
	ErrInvalidMaxGoals = errors.New("engine: max goals bound must be >= 1")
)

// minLambda is the clamp floor for expected-goal rates. A zero lambda would
// collapse the Poisson distribution onto k=0 and break downstream ratios.
const minLambda = 1e-6

// maxLambda is the clamp ceiling. Rates beyond this overflow the truncated
// matrix; they are clamped and flagged rather than propagated.
const maxLambda = 12.0

// ExpectedGoals is the per-match xG tuple supplied by the caller
// (typically an ELO or ensemble subsystem outside this engine).
type ExpectedGoals struct {
	HomeFor     float64 `json:"home_for"`
	HomeAgainst float64 `json:"home_against"`
	AwayFor     float64 `json:"away_for"`
	AwayAgainst float64 `json:"away_against"`
	LeagueAvg   float64 `json:"league_avg"`
}

// TeamStrength holds attack/defense ratios relative to league average.
type TeamStrength struct {
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
}

// StrengthFromXG derives attack/defense ratios from per-match xG rates.
// Non-positive inputs are clamped so ratios stay strictly positive.
func StrengthFromXG(xgFor, xgAgainst, leagueAvg float64) TeamStrength {
	if leagueAvg <= 0 {
		leagueAvg = DefaultConfig().LeagueAvgGoals
	}
	return TeamStrength{
		Attack:  clampRate(xgFor) / leagueAvg,
		Defense: clampRate(xgAgainst) / leagueAvg,
	}
}

func clampRate(v float64) float64 {
	if v < minLambda {
		return minLambda
	}
	return v
}

// ScoreMatrix is an immutable joint probability table over
// (home goals, away goals), both in [0, maxGoals]. Mass beyond the bound is
// folded into the boundary row/column at construction, so the matrix always
// sums to 1.0 and boundary cells read "N or more".
type ScoreMatrix struct {
	maxGoals int
	cells    [][]float64
}

// MaxGoals returns the per-side truncation bound.
func (m *ScoreMatrix) MaxGoals() int { return m.maxGoals }

// Prob returns P(home scores h, away scores a). Out-of-range scores are 0.
func (m *ScoreMatrix) Prob(h, a int) float64 {
	if h < 0 || a < 0 || h > m.maxGoals || a > m.maxGoals {
		return 0
	}
	return m.cells[h][a]
}

// ProbWhere sums matrix mass over every cell satisfying the predicate.
func (m *ScoreMatrix) ProbWhere(pred func(h, a int) bool) float64 {
	sum := 0.0
	for h := 0; h <= m.maxGoals; h++ {
		for a := 0; a <= m.maxGoals; a++ {
			if pred(h, a) {
				sum += m.cells[h][a]
			}
		}
	}
	return sum
}

// Sum returns total matrix mass; 1.0 within float tolerance by construction.
func (m *ScoreMatrix) Sum() float64 {
	total := 0.0
	for h := 0; h <= m.maxGoals; h++ {
		for a := 0; a <= m.maxGoals; a++ {
			total += m.cells[h][a]
		}
	}
	return total
}

// MatchModel is the output of a build: the joint score law plus the two
// resolved Poisson rates, which side-channel models reuse.
type MatchModel struct {
	Matrix     *ScoreMatrix
	LambdaHome float64
	LambdaAway float64

	// Clamped reports that one of the requested rates fell outside
	// [minLambda, maxLambda] and was clamped; callers may want to lower
	// confidence on such matches.
	Clamped bool
}

// Builder turns team strengths into normalized score matrices.
type Builder struct {
	cfg *Config
}

// NewBuilder creates a Builder. A nil config uses embedded defaults;
// an invalid bound is a construction error.
func NewBuilder(cfg *Config) (*Builder, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Builder{cfg: cfg}, nil
}

// Config returns the builder's resolved configuration.
func (b *Builder) Config() *Config { return b.cfg }

// Lambdas resolves the two Poisson rates from team strengths:
//
//	lambdaHome = leagueAvg * homeAttack * awayDefense * homeAdvantage
//	lambdaAway = leagueAvg * awayAttack * homeDefense
func (b *Builder) Lambdas(home, away TeamStrength) (lambdaHome, lambdaAway float64) {
	lambdaHome = b.cfg.LeagueAvgGoals * home.Attack * away.Defense * b.cfg.HomeAdvantage
	lambdaAway = b.cfg.LeagueAvgGoals * away.Attack * home.Defense
	return lambdaHome, lambdaAway
}

// Build resolves lambdas from strengths and constructs the score matrix.
func (b *Builder) Build(home, away TeamStrength) *MatchModel {
	lh, la := b.Lambdas(home, away)
	return b.BuildFromLambdas(lh, la)
}

// BuildFromXG derives strengths from the caller's xG tuple and builds.
func (b *Builder) BuildFromXG(xg ExpectedGoals) *MatchModel {
	leagueAvg := xg.LeagueAvg
	if leagueAvg <= 0 {
		leagueAvg = b.cfg.LeagueAvgGoals
	}
	home := StrengthFromXG(xg.HomeFor, xg.HomeAgainst, leagueAvg)
	away := StrengthFromXG(xg.AwayFor, xg.AwayAgainst, leagueAvg)
	return b.Build(home, away)
}

// BuildFromLambdas constructs the matrix for already-resolved rates.
func (b *Builder) BuildFromLambdas(lambdaHome, lambdaAway float64) *MatchModel {
	lh, clampedH := clampLambda(lambdaHome)
	la, clampedA := clampLambda(lambdaAway)

	m := buildMatrix(lh, la, b.cfg.DixonColesRho, b.cfg.MaxGoals)
	return &MatchModel{
		Matrix:     m,
		LambdaHome: lh,
		LambdaAway: la,
		Clamped:    clampedH || clampedA,
	}
}

// HalfMatrix builds the smaller matrix for one half of the match by
// splitting total lambda into the configured proportions. The half bound is
// the HT/FT bound since half matrices exist to feed that convolution.
func (b *Builder) HalfMatrix(lambdaHome, lambdaAway float64, firstHalf bool) *ScoreMatrix {
	share := b.cfg.FirstHalfShare
	if !firstHalf {
		share = 1 - share
	}
	// No Dixon-Coles on half matrices: the correction is calibrated on
	// full-match scorelines.
	return buildMatrix(lambdaHome*share, lambdaAway*share, 0, b.cfg.HTFTMaxGoals)
}

func clampLambda(v float64) (float64, bool) {
	switch {
	case v < minLambda:
		return minLambda, true
	case v > maxLambda:
		return maxLambda, true
	default:
		return v, false
	}
}

// buildMatrix computes the outer product of two truncated Poisson laws with
// the truncation tail folded into each boundary bin, applies the Dixon-Coles
// adjustment, and renormalizes exactly to 1.0.
func buildMatrix(lambdaHome, lambdaAway, rho float64, bound int) *ScoreMatrix {
	pHome := foldedPMF(lambdaHome, bound)
	pAway := foldedPMF(lambdaAway, bound)

	cells := make([][]float64, bound+1)
	total := 0.0
	for h := 0; h <= bound; h++ {
		row := make([]float64, bound+1)
		for a := 0; a <= bound; a++ {
			p := pHome[h] * pAway[a]
			if rho != 0 {
				p *= dixonColesTau(h, a, lambdaHome, lambdaAway, rho)
			}
			if p < 0 {
				p = 0
			}
			row[a] = p
			total += p
		}
		cells[h] = row
	}

	// The fold-back already makes the raw product sum to 1; Dixon-Coles
	// perturbs that slightly, so renormalize to restore the invariant.
	if total > 0 {
		for h := range cells {
			for a := range cells[h] {
				cells[h][a] /= total
			}
		}
	}

	return &ScoreMatrix{maxGoals: bound, cells: cells}
}

// foldedPMF returns the Poisson pmf over [0, bound] with all tail mass
// beyond the bound folded into the final bin, so the vector sums to 1.
func foldedPMF(lambda float64, bound int) []float64 {
	pmf := make([]float64, bound+1)
	sum := 0.0
	for k := 0; k < bound; k++ {
		pmf[k] = PoissonPMF(lambda, k)
		sum += pmf[k]
	}
	tail := 1 - sum
	if tail < 0 {
		tail = 0
	}
	pmf[bound] = tail
	return pmf
}

// NewMatrix builds a standalone normalized matrix; exported for callers that
// manage their own lambdas (tests, the combo engine's half models).
func NewMatrix(lambdaHome, lambdaAway, rho float64, bound int) (*ScoreMatrix, error) {
	if bound < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxGoals, bound)
	}
	lh, _ := clampLambda(lambdaHome)
	la, _ := clampLambda(lambdaAway)
	return buildMatrix(lh, la, rho, bound), nil
}
