// Package players prices player-prop markets from per-90 baseline rates.
// Each player is modeled as a Poisson process thinned by expected minutes
// and the chance of being in the squad at all.
package players

import (
	"math"

	"github.com/golexhq/betengine/pkg/engine"
)

// Side identifies which team a player belongs to.
type Side string

const (
	Home Side = "home"
	Away Side = "away"
)

// Baseline carries a player's prior rates. Rates are per 90 minutes of play;
// thinning by expected minutes and start probability happens at pricing time.
type Baseline struct {
	PlayerID   string  `json:"player_id" yaml:"player_id"`
	Side       Side    `json:"side" yaml:"side"`
	StartProb  float64 `json:"start_prob" yaml:"start_prob"`
	MinutesExp float64 `json:"minutes_exp" yaml:"minutes_exp"`
	Goal90     float64 `json:"goal90" yaml:"goal90"`
	SOG90      float64 `json:"sog90" yaml:"sog90"`
	YC90       float64 `json:"yc90" yaml:"yc90"`
	RC90       float64 `json:"rc90" yaml:"rc90"`
}

// DefaultBaseline is the prior used when nothing is known about a player:
// a rotation-risk squad member with modest attacking output.
func DefaultBaseline(playerID string, side Side) Baseline {
	return Baseline{
		PlayerID:   playerID,
		Side:       side,
		StartProb:  0.6,
		MinutesExp: 65,
		Goal90:     0.25,
		SOG90:      0.7,
		YC90:       0.12,
		RC90:       0.01,
	}
}

// BaselineSource resolves a player ID to a baseline. Implementations return
// ok=false when the player is unknown; callers fall back to DefaultBaseline.
type BaselineSource interface {
	Baseline(playerID string) (Baseline, bool)
}

// StaticBaselines is an in-memory BaselineSource.
type StaticBaselines map[string]Baseline

func (s StaticBaselines) Baseline(playerID string) (Baseline, bool) {
	b, ok := s[playerID]
	return b, ok
}

// Resolve looks up a player in src, applying the default prior when src is
// nil or has no entry.
func Resolve(src BaselineSource, playerID string, side Side) Baseline {
	if src != nil {
		if b, ok := src.Baseline(playerID); ok {
			return b
		}
	}
	return DefaultBaseline(playerID, side)
}

// rate thins a per-90 rate by expected minutes and start probability.
func rate(b Baseline, per90 float64) float64 {
	minutes := b.MinutesExp
	if minutes <= 0 || minutes > 90 {
		minutes = 65
	}
	start := b.StartProb
	if start <= 0 || start > 1 {
		start = 0.6
	}
	return per90 * (minutes / 90.0) * start
}

// AnytimeScorer returns P(player scores at least once).
func AnytimeScorer(b Baseline) float64 {
	return 1 - math.Exp(-rate(b, b.Goal90))
}

// FirstScorer returns P(player scores the match's first goal): the player's
// share of the team rate, conditional on the team scoring at all. The share
// is capped because a single player never truly owns the whole attack.
func FirstScorer(b Baseline, teamLambda float64) float64 {
	if teamLambda <= 0 {
		return 0
	}
	share := rate(b, b.Goal90) / teamLambda
	if share > 0.9 {
		share = 0.9
	}
	return share * (1 - math.Exp(-teamLambda))
}

// ShotsOnTargetOver returns P(player records more than line shots on target).
func ShotsOnTargetOver(b Baseline, line float64) float64 {
	return engine.PoissonTail(rate(b, b.SOG90), int(line)+1)
}

// Booking returns P(player is shown at least one yellow card).
func Booking(b Baseline) float64 {
	return 1 - math.Exp(-rate(b, b.YC90))
}

// SentOff returns P(player is sent off).
func SentOff(b Baseline) float64 {
	return 1 - math.Exp(-rate(b, b.RC90))
}
