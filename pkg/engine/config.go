package engine

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultConfigData []byte

// Config holds every tunable model constant. All half-split proportions,
// side-channel lambdas and discount factors live here rather than in
// environment lookups, so two engines with equal configs are bit-identical.
type Config struct {
	// MaxGoals is the per-side truncation bound of the score matrix.
	MaxGoals int `yaml:"max_goals"`

	// HTFTMaxGoals bounds the half-time/full-time convolution, which is
	// O(n^4) in the bound and dominates evaluation cost.
	HTFTMaxGoals int `yaml:"htft_max_goals"`

	HomeAdvantage  float64 `yaml:"home_advantage"`
	LeagueAvgGoals float64 `yaml:"league_avg_goals"`

	// DixonColesRho controls the low-score dependence correction.
	// Zero disables it.
	DixonColesRho float64 `yaml:"dixon_coles_rho"`

	// Confidence is the base model confidence attached to matrix-derived
	// markets.
	Confidence float64 `yaml:"confidence"`

	// FirstHalfShare of total expected goals (second half gets the rest).
	FirstHalfShare float64 `yaml:"first_half_share"`

	// Corners side-channel.
	CornersBaseline         float64 `yaml:"corners_baseline"`
	CornersPerXG            float64 `yaml:"corners_per_xg"`
	CornersPossessionWeight float64 `yaml:"corners_possession_weight"`
	CornersMin              float64 `yaml:"corners_min"`
	CornersMax              float64 `yaml:"corners_max"`
	CornersHalfShare        float64 `yaml:"corners_half_share"`

	// Cards side-channel.
	CardsBaseline  float64 `yaml:"cards_baseline"`
	CardsAvgXG     float64 `yaml:"cards_avg_total_xg"`
	CardsMin       float64 `yaml:"cards_min"`
	CardsMax       float64 `yaml:"cards_max"`
	CardsHomeShare float64 `yaml:"cards_home_share"`
	CardsHalfShare float64 `yaml:"cards_half_share"`
	YellowShare    float64 `yaml:"yellow_share"`

	SideChannelConfidence float64 `yaml:"side_channel_confidence"`
	ComboCorrelation      float64 `yaml:"combo_correlation"`
}

// DefaultConfig returns the embedded default constants.
func DefaultConfig() *Config {
	cfg := &Config{}
	// The embedded file is compiled in; a parse failure is a build defect.
	if err := yaml.Unmarshal(defaultConfigData, cfg); err != nil {
		panic(fmt.Sprintf("engine: embedded defaults.yaml invalid: %v", err))
	}
	return cfg
}

// LoadConfig reads a YAML config file, applying embedded defaults for any
// field the file leaves unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configs the engine cannot run with. These are
// construction errors: they fail before any computation begins.
func (c *Config) Validate() error {
	if c.MaxGoals < 1 {
		return fmt.Errorf("%w: max_goals=%d", ErrInvalidMaxGoals, c.MaxGoals)
	}
	if c.HTFTMaxGoals < 1 || c.HTFTMaxGoals > c.MaxGoals {
		return fmt.Errorf("%w: htft_max_goals=%d", ErrInvalidMaxGoals, c.HTFTMaxGoals)
	}
	if c.FirstHalfShare <= 0 || c.FirstHalfShare >= 1 {
		return fmt.Errorf("first_half_share must be in (0,1), got %v", c.FirstHalfShare)
	}
	return nil
}

// withDefaults fills zero-valued fields from the embedded defaults so a
// partially specified Config stays usable. DixonColesRho is left alone
// because zero is the documented way to disable the correction.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	out := *c
	d := DefaultConfig()
	if out.MaxGoals == 0 {
		out.MaxGoals = d.MaxGoals
	}
	if out.HTFTMaxGoals == 0 {
		out.HTFTMaxGoals = d.HTFTMaxGoals
	}
	if out.HTFTMaxGoals > out.MaxGoals {
		out.HTFTMaxGoals = out.MaxGoals
	}
	if out.HomeAdvantage == 0 {
		out.HomeAdvantage = d.HomeAdvantage
	}
	if out.LeagueAvgGoals == 0 {
		out.LeagueAvgGoals = d.LeagueAvgGoals
	}
	if out.Confidence == 0 {
		out.Confidence = d.Confidence
	}
	if out.FirstHalfShare == 0 {
		out.FirstHalfShare = d.FirstHalfShare
	}
	if out.CornersBaseline == 0 {
		out.CornersBaseline = d.CornersBaseline
	}
	if out.CornersPerXG == 0 {
		out.CornersPerXG = d.CornersPerXG
	}
	if out.CornersPossessionWeight == 0 {
		out.CornersPossessionWeight = d.CornersPossessionWeight
	}
	if out.CornersMin == 0 {
		out.CornersMin = d.CornersMin
	}
	if out.CornersMax == 0 {
		out.CornersMax = d.CornersMax
	}
	if out.CornersHalfShare == 0 {
		out.CornersHalfShare = d.CornersHalfShare
	}
	if out.CardsBaseline == 0 {
		out.CardsBaseline = d.CardsBaseline
	}
	if out.CardsAvgXG == 0 {
		out.CardsAvgXG = d.CardsAvgXG
	}
	if out.CardsMin == 0 {
		out.CardsMin = d.CardsMin
	}
	if out.CardsMax == 0 {
		out.CardsMax = d.CardsMax
	}
	if out.CardsHomeShare == 0 {
		out.CardsHomeShare = d.CardsHomeShare
	}
	if out.CardsHalfShare == 0 {
		out.CardsHalfShare = d.CardsHalfShare
	}
	if out.YellowShare == 0 {
		out.YellowShare = d.YellowShare
	}
	if out.SideChannelConfidence == 0 {
		out.SideChannelConfidence = d.SideChannelConfidence
	}
	if out.ComboCorrelation == 0 {
		out.ComboCorrelation = d.ComboCorrelation
	}
	return &out
}
