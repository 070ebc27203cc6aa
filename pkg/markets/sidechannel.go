package markets

import (
	"math"

	"github.com/golexhq/betengine/pkg/engine"
)

// The corners, cards and timing families are not functions of the score
// matrix. They are modeled as independent Poisson processes whose rates are
// heuristic functions of total expected goals, possession split and match
// intensity. All constants live in the engine config and every result in
// these families carries the reduced side-channel confidence.

// CornersMu returns the expected total corners, derived from xG and
// possession unless an explicit override was supplied.
func (c *Calculator) CornersMu() float64 {
	if c.side.CornersMu > 0 {
		return c.side.CornersMu
	}
	totalXG := c.lambdaHome + c.lambdaAway
	mu := c.cfg.CornersBaseline +
		(totalXG-c.cfg.CardsAvgXG)*c.cfg.CornersPerXG +
		math.Abs(c.side.PossessionHome-0.5)*c.cfg.CornersPossessionWeight
	mu *= c.side.AttackIntensity
	return clampRange(mu, c.cfg.CornersMin, c.cfg.CornersMax)
}

// CardsMu returns the expected total cards.
func (c *Calculator) CardsMu() float64 {
	intensity := (c.lambdaHome + c.lambdaAway) / c.cfg.CardsAvgXG
	mu := c.cfg.CardsBaseline * intensity * c.side.Aggression * c.side.RefereeFactor
	return clampRange(mu, c.cfg.CardsMin, c.cfg.CardsMax)
}

// YellowMu returns the expected yellow cards (a fixed share of all cards).
func (c *Calculator) YellowMu() float64 {
	if c.side.YellowMu > 0 {
		return c.side.YellowMu
	}
	return c.CardsMu() * c.cfg.YellowShare
}

// RedMu returns the expected red cards.
func (c *Calculator) RedMu() float64 {
	if c.side.RedMu > 0 {
		return c.side.RedMu
	}
	mu := c.CardsMu() * 0.05 * c.side.Aggression
	if mu > 0.3 {
		mu = 0.3
	}
	return mu
}

// SideTotalOver returns the Poisson tail P(X > line) for a side-channel rate.
func SideTotalOver(mu, line float64) float64 {
	return engine.PoissonTail(mu, int(line)+1)
}

// SideTotalUnder returns P(X <= floor(line)).
func SideTotalUnder(mu, line float64) float64 {
	return engine.PoissonCDF(mu, int(line))
}

// Corners emits total, per-team, per-half and race corner markets.
func (c *Calculator) Corners() []Result {
	mu := c.CornersMu()
	sc := c.cfg.SideChannelConfidence
	homeMu := mu * c.side.PossessionHome
	awayMu := mu - homeMu

	out := make([]Result, 0, 64)
	for _, line := range []float64{7.5, 8.5, 9.5, 10.5, 11.5, 12.5, 13.5} {
		over := SideTotalOver(mu, line)
		out = append(out,
			c.resAt("CORNERS_O"+fmtLine(line), over, sc),
			c.resAt("CORNERS_U"+fmtLine(line), 1-over, sc),
		)
	}

	for _, side := range []struct {
		mu     float64
		prefix string
	}{{homeMu, "CORNERS_HOME"}, {awayMu, "CORNERS_AWAY"}} {
		for _, line := range []float64{3.5, 4.5, 5.5, 6.5} {
			over := SideTotalOver(side.mu, line)
			out = append(out,
				c.resAt(side.prefix+"_O"+fmtLine(line), over, sc),
				c.resAt(side.prefix+"_U"+fmtLine(line), 1-over, sc),
			)
		}
	}

	htMu := mu * c.cfg.CornersHalfShare
	shMu := mu - htMu
	for _, line := range []float64{3.5, 4.5, 5.5} {
		htOver := SideTotalOver(htMu, line)
		shOver := SideTotalOver(shMu, line)
		out = append(out,
			c.resAt("CORNERS_HT_O"+fmtLine(line), htOver, sc),
			c.resAt("CORNERS_HT_U"+fmtLine(line), 1-htOver, sc),
			c.resAt("CORNERS_2H_O"+fmtLine(line), shOver, sc),
			c.resAt("CORNERS_2H_U"+fmtLine(line), 1-shOver, sc),
		)
	}

	// Corner race as two independent Poisson counts.
	homeM, drawM, awayM := poissonRace(homeMu, awayMu)
	out = append(out,
		c.resAt("CORNERS_1X2_HOME", homeM, sc),
		c.resAt("CORNERS_1X2_DRAW", drawM, sc),
		c.resAt("CORNERS_1X2_AWAY", awayM, sc),
		c.resAt("CORNERS_1X", homeM+drawM, sc),
		c.resAt("CORNERS_12", homeM+awayM, sc),
		c.resAt("CORNERS_X2", drawM+awayM, sc),
	)
	return out
}

// Cards emits total, per-team, per-half, yellow, red, penalty and send-off
// markets.
func (c *Calculator) Cards() []Result {
	mu := c.CardsMu()
	sc := c.cfg.SideChannelConfidence
	homeMu := mu * c.cfg.CardsHomeShare
	awayMu := mu - homeMu
	yellowMu := c.YellowMu()
	redMu := c.RedMu()

	out := make([]Result, 0, 48)
	for _, line := range []float64{2.5, 3.5, 4.5, 5.5, 6.5} {
		over := SideTotalOver(mu, line)
		out = append(out,
			c.resAt("CARDS_O"+fmtLine(line), over, sc),
			c.resAt("CARDS_U"+fmtLine(line), 1-over, sc),
		)
	}

	for _, side := range []struct {
		mu     float64
		prefix string
	}{{homeMu, "CARDS_HOME"}, {awayMu, "CARDS_AWAY"}} {
		for _, line := range []float64{1.5, 2.5, 3.5} {
			over := SideTotalOver(side.mu, line)
			out = append(out,
				c.resAt(side.prefix+"_O"+fmtLine(line), over, sc),
				c.resAt(side.prefix+"_U"+fmtLine(line), 1-over, sc),
			)
		}
	}

	for _, line := range []float64{3.5, 4.5, 5.5} {
		over := SideTotalOver(yellowMu, line)
		out = append(out,
			c.resAt("YELLOW_CARDS_O"+fmtLine(line), over, sc),
			c.resAt("YELLOW_CARDS_U"+fmtLine(line), 1-over, sc),
		)
	}

	htMu := mu * c.cfg.CardsHalfShare
	for _, line := range []float64{1.5, 2.5} {
		over := SideTotalOver(htMu, line)
		out = append(out,
			c.resAt("CARDS_HT_O"+fmtLine(line), over, sc),
			c.resAt("CARDS_HT_U"+fmtLine(line), 1-over, sc),
		)
	}

	redProb := 1 - math.Exp(-redMu)
	penaltyProb := math.Min(0.25, (c.lambdaHome+c.lambdaAway)*0.08)
	out = append(out,
		c.resAt("RED_CARD_YES", redProb, sc),
		c.resAt("RED_CARD_NO", 1-redProb, sc),
		c.resAt("SENT_OFF_YES", redProb, sc),
		c.resAt("SENT_OFF_NO", 1-redProb, sc),
		c.resAt("PENALTY_YES", penaltyProb, sc),
		c.resAt("PENALTY_NO", 1-penaltyProb, sc),
	)
	return out
}

// FirstToScore treats the two scoring processes as a Poisson race:
// conditional on any goal, home scores first with probability
// lambdaHome/(lambdaHome+lambdaAway).
func (c *Calculator) FirstToScore() (home, away, none float64) {
	total := c.lambdaHome + c.lambdaAway
	if total <= 0 {
		return 0, 0, 1
	}
	none = math.Exp(-total)
	home = c.lambdaHome / total * (1 - none)
	away = c.lambdaAway / total * (1 - none)
	return home, away, none
}

// GoalTiming emits first-goal interval, first-scorer race and
// goal-in-both-halves markets from an exponential first-arrival model.
func (c *Calculator) GoalTiming() []Result {
	sc := c.cfg.SideChannelConfidence
	totalXG := c.lambdaHome + c.lambdaAway
	perMin := totalXG / 90.0

	intervals := []struct {
		start, end float64
		code       string
	}{
		{0, 10, "FG_0_10"}, {11, 20, "FG_11_20"}, {21, 30, "FG_21_30"},
		{31, 45, "FG_31_45"}, {46, 60, "FG_46_60"}, {61, 75, "FG_61_75"},
		{76, 90, "FG_76_90"},
	}

	probs := make([]float64, len(intervals))
	noGoal := math.Exp(-perMin * 90)
	total := noGoal
	for i, iv := range intervals {
		probs[i] = math.Exp(-perMin*iv.start) - math.Exp(-perMin*iv.end)
		total += probs[i]
	}

	out := make([]Result, 0, 24)
	for i, iv := range intervals {
		out = append(out, c.resAt(iv.code, probs[i]/total, sc))
	}
	out = append(out, c.resAt("FG_NO_GOAL", noGoal/total, sc))

	home, away, none := c.FirstToScore()
	out = append(out,
		c.resAt("HOME_FG", home, sc),
		c.resAt("AWAY_FG", away, sc),
		c.resAt("NO_GOAL", none, sc),
		c.resAt("EARLY_GOAL", (probs[0]+probs[1]*0.5)/total, sc),
		c.resAt("LATE_GOAL", probs[6]/total, sc),
	)

	htNoGoal := math.Exp(-perMin * 45)
	both := (1 - htNoGoal) * (1 - htNoGoal)
	out = append(out,
		c.resAt("GOAL_IN_BOTH_HALVES_YES", both, sc),
		c.resAt("GOAL_IN_BOTH_HALVES_NO", 1-both, sc),
	)
	return out
}

// poissonRace returns P(X>Y), P(X==Y), P(X<Y) for independent Poisson
// counts, truncated at a tail bound wide enough for corner-scale rates.
func poissonRace(muX, muY float64) (more, equal, less float64) {
	const bound = 30
	px := make([]float64, bound+1)
	py := make([]float64, bound+1)
	for k := 0; k <= bound; k++ {
		px[k] = engine.PoissonPMF(muX, k)
		py[k] = engine.PoissonPMF(muY, k)
	}
	for x := 0; x <= bound; x++ {
		for y := 0; y <= bound; y++ {
			p := px[x] * py[y]
			switch {
			case x > y:
				more += p
			case x == y:
				equal += p
			default:
				less += p
			}
		}
	}
	// Renormalize the truncated grid.
	sum := more + equal + less
	if sum > 0 {
		more /= sum
		equal /= sum
		less /= sum
	}
	return more, equal, less
}

func clampRange(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
