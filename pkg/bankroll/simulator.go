// Package bankroll estimates staking-strategy outcomes with Monte Carlo
// simulation over synthetic betting days.
package bankroll

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/golexhq/betengine/pkg/kelly"
)

// Strategy selects how each simulated bet is sized.
type Strategy string

const (
	FullKelly Strategy = "full_kelly"
	HalfKelly Strategy = "half_kelly"
	Fixed     Strategy = "fixed"
)

// ErrUnknownStrategy is returned for a strategy outside the known set.
var ErrUnknownStrategy = errors.New("bankroll: unknown strategy")

// SimulatorConfig configures a simulation run.
type SimulatorConfig struct {
	InitialBankroll float64
	Strategy        Strategy
	BetsPerDay      int
	Days            int
	Paths           int
	Seed            int64

	// Synthetic bet universe: win probability and decimal odds are drawn
	// uniformly from these ranges for every bet.
	MinWinProb float64
	MaxWinProb float64
	MinOdds    float64
	MaxOdds    float64

	// FixedStake is the flat bet for the fixed strategy.
	FixedStake float64
}

// DefaultSimulatorConfig returns default configuration.
func DefaultSimulatorConfig() *SimulatorConfig {
	return &SimulatorConfig{
		InitialBankroll: 10000,
		Strategy:        HalfKelly,
		BetsPerDay:      3,
		Days:            100,
		Paths:           500,
		Seed:            1,
		MinWinProb:      0.50,
		MaxWinProb:      0.65,
		MinOdds:         1.80,
		MaxOdds:         2.20,
		FixedStake:      100,
	}
}

// Simulator runs Monte Carlo bankroll paths.
type Simulator struct {
	cfg *SimulatorConfig
}

// NewSimulator creates a simulator. A nil config uses defaults.
func NewSimulator(config *SimulatorConfig) (*Simulator, error) {
	if config == nil {
		config = DefaultSimulatorConfig()
	}

	defaults := DefaultSimulatorConfig()
	if config.InitialBankroll == 0 {
		config.InitialBankroll = defaults.InitialBankroll
	}
	if config.Strategy == "" {
		config.Strategy = defaults.Strategy
	}
	if config.BetsPerDay == 0 {
		config.BetsPerDay = defaults.BetsPerDay
	}
	if config.Days == 0 {
		config.Days = defaults.Days
	}
	if config.Paths == 0 {
		config.Paths = defaults.Paths
	}
	if config.MinWinProb == 0 {
		config.MinWinProb = defaults.MinWinProb
	}
	if config.MaxWinProb == 0 {
		config.MaxWinProb = defaults.MaxWinProb
	}
	if config.MinOdds == 0 {
		config.MinOdds = defaults.MinOdds
	}
	if config.MaxOdds == 0 {
		config.MaxOdds = defaults.MaxOdds
	}
	if config.FixedStake == 0 {
		config.FixedStake = defaults.FixedStake
	}

	switch config.Strategy {
	case FullKelly, HalfKelly, Fixed:
	default:
		return nil, ErrUnknownStrategy
	}
	return &Simulator{cfg: config}, nil
}

// PathPoint is one day of one representative path.
type PathPoint struct {
	Day      int     `json:"day"`
	Bankroll float64 `json:"bankroll"`
}

// Scenarios summarizes the path distribution at the horizon.
type Scenarios struct {
	Best    float64 `json:"best"`    // 95th percentile
	Average float64 `json:"average"` // mean
	Worst   float64 `json:"worst"`   // 5th percentile
}

// RiskMetrics are measured over the simulated paths, not assumed.
type RiskMetrics struct {
	// MaxDrawdown is the mean of per-path maximum peak-to-trough loss,
	// as a fraction of the peak.
	MaxDrawdown float64 `json:"max_drawdown"`

	// Volatility is the standard deviation of daily returns.
	Volatility float64 `json:"volatility"`

	// SharpeRatio is mean daily return over daily volatility.
	SharpeRatio float64 `json:"sharpe_ratio"`

	// RuinProbability is the share of paths that at any point fell below
	// half the initial bankroll.
	RuinProbability float64 `json:"ruin_probability"`
}

// Report is the simulation output.
type Report struct {
	Strategy    Strategy    `json:"strategy"`
	Scenarios   Scenarios   `json:"scenarios"`
	RiskMetrics RiskMetrics `json:"risk_metrics"`

	// MedianPath is the day-by-day track of the median-outcome path.
	MedianPath []PathPoint `json:"chart_data"`
}

// Run simulates all paths from the configured seed. Equal configs produce
// identical reports.
func (s *Simulator) Run() *Report {
	cfg := s.cfg
	rng := rand.New(rand.NewSource(cfg.Seed))

	finals := make([]float64, cfg.Paths)
	paths := make([][]float64, cfg.Paths)
	drawdowns := make([]float64, cfg.Paths)
	var dailyReturns []float64
	ruined := 0

	for p := 0; p < cfg.Paths; p++ {
		path := s.runPath(rng)
		paths[p] = path
		finals[p] = path[len(path)-1]

		peak := path[0]
		maxDD := 0.0
		belowHalf := false
		for d := 1; d < len(path); d++ {
			if path[d] > peak {
				peak = path[d]
			}
			if dd := (peak - path[d]) / peak; dd > maxDD {
				maxDD = dd
			}
			if path[d] < cfg.InitialBankroll*0.5 {
				belowHalf = true
			}
			if path[d-1] > 0 {
				dailyReturns = append(dailyReturns, path[d]/path[d-1]-1)
			}
		}
		drawdowns[p] = maxDD
		if belowHalf {
			ruined++
		}
	}

	meanRet, volatility := meanStd(dailyReturns)
	sharpe := 0.0
	if volatility > 0 {
		sharpe = meanRet / volatility
	}

	sorted := append([]float64(nil), finals...)
	sort.Float64s(sorted)
	medianIdx := indexOfClosest(finals, sorted[len(sorted)/2])

	meanDD, _ := meanStd(drawdowns)
	meanFinal, _ := meanStd(finals)

	report := &Report{
		Strategy: cfg.Strategy,
		Scenarios: Scenarios{
			Best:    percentile(sorted, 0.95),
			Average: meanFinal,
			Worst:   percentile(sorted, 0.05),
		},
		RiskMetrics: RiskMetrics{
			MaxDrawdown:     meanDD,
			Volatility:      volatility,
			SharpeRatio:     sharpe,
			RuinProbability: float64(ruined) / float64(cfg.Paths),
		},
	}
	for d, v := range paths[medianIdx] {
		report.MedianPath = append(report.MedianPath, PathPoint{Day: d, Bankroll: v})
	}
	return report
}

// runPath simulates one bankroll trajectory, returning the day-end values
// with day 0 as the starting bankroll.
func (s *Simulator) runPath(rng *rand.Rand) []float64 {
	cfg := s.cfg
	bankroll := cfg.InitialBankroll
	path := make([]float64, 0, cfg.Days+1)
	path = append(path, bankroll)

	for day := 1; day <= cfg.Days; day++ {
		for bet := 0; bet < cfg.BetsPerDay && bankroll > 0; bet++ {
			winProb := cfg.MinWinProb + rng.Float64()*(cfg.MaxWinProb-cfg.MinWinProb)
			decOdds := cfg.MinOdds + rng.Float64()*(cfg.MaxOdds-cfg.MinOdds)

			stake := s.stake(bankroll, winProb, decOdds)
			if stake <= 0 {
				continue
			}
			if stake > bankroll {
				stake = bankroll
			}

			if rng.Float64() < winProb {
				bankroll += stake * (decOdds - 1)
			} else {
				bankroll -= stake
			}
		}
		path = append(path, bankroll)
	}
	return path
}

func (s *Simulator) stake(bankroll, winProb, decOdds float64) float64 {
	switch s.cfg.Strategy {
	case FullKelly:
		return bankroll * kelly.FullKellyFraction(winProb, decOdds, 1.0)
	case HalfKelly:
		return bankroll * kelly.FullKellyFraction(winProb, decOdds, 1.0) / 2
	default:
		return s.cfg.FixedStake
	}
}

func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		std += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(std / float64(len(xs)))
}

// percentile reads from an ascending-sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

func indexOfClosest(xs []float64, target float64) int {
	best := 0
	bestDiff := math.Inf(1)
	for i, x := range xs {
		if d := math.Abs(x - target); d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	return best
}
