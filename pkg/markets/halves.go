package markets

import (
	"fmt"

	"github.com/golexhq/betengine/pkg/engine"
)

// halfMatrix selects the matrix for the requested half.
func (c *Calculator) halfMatrix(firstHalf bool) *engine.ScoreMatrix {
	if firstHalf {
		return c.firstHalf
	}
	return c.secondHalf
}

// Half1X2 returns the 1X2 law for one half.
func (c *Calculator) Half1X2(firstHalf bool) (home, draw, away float64) {
	m := c.halfMatrix(firstHalf)
	home = m.ProbWhere(func(h, a int) bool { return h > a })
	draw = m.ProbWhere(func(h, a int) bool { return h == a })
	return home, draw, 1 - home - draw
}

// HalfBTTS returns P(both score) within one half and its complement.
func (c *Calculator) HalfBTTS(firstHalf bool) (yes, no float64) {
	yes = c.halfMatrix(firstHalf).ProbWhere(func(h, a int) bool { return h >= 1 && a >= 1 })
	return yes, 1 - yes
}

// HalfOverUnder returns over/under for one half's total goals.
func (c *Calculator) HalfOverUnder(firstHalf bool, line float64) (over, under float64, err error) {
	if !isHalfStep(line) {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidLine, line)
	}
	thr := int(line) + 1
	over = c.halfMatrix(firstHalf).ProbWhere(func(h, a int) bool { return h+a >= thr })
	return over, 1 - over, nil
}

// HalfTeamTotal returns P(over) for one side's goals within one half.
func (c *Calculator) HalfTeamTotal(firstHalf, home bool, line float64) (float64, error) {
	if !isHalfStep(line) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLine, line)
	}
	thr := int(line) + 1
	return c.halfMatrix(firstHalf).ProbWhere(func(h, a int) bool {
		if home {
			return h >= thr
		}
		return a >= thr
	}), nil
}

// FirstHalfMarkets emits the HT_ family: 1X2, double chance, BTTS,
// totals, team totals and DNB on the first-half matrix.
func (c *Calculator) FirstHalfMarkets() []Result {
	home, draw, away := c.Half1X2(true)
	btts, noBtts := c.HalfBTTS(true)

	out := []Result{
		c.resAt("HT_1X2_HOME", home, 0.95),
		c.resAt("HT_1X2_DRAW", draw, 0.95),
		c.resAt("HT_1X2_AWAY", away, 0.95),
		c.resAt("HT_1X", home+draw, 0.95),
		c.resAt("HT_12", home+away, 0.95),
		c.resAt("HT_X2", draw+away, 0.95),
		c.resAt("HT_KG_YES", btts, 0.95),
		c.resAt("HT_KG_NO", noBtts, 0.95),
	}

	for _, line := range []float64{0.5, 1.5, 2.5, 3.5} {
		over, under, _ := c.HalfOverUnder(true, line)
		out = append(out,
			c.resAt("HT_O"+fmtLine(line), over, 0.95),
			c.resAt("HT_U"+fmtLine(line), under, 0.95),
		)
	}

	for _, side := range []struct {
		home   bool
		prefix string
	}{{true, "HT_HOME"}, {false, "HT_AWAY"}} {
		for _, line := range []float64{0.5, 1.5} {
			over, _ := c.HalfTeamTotal(true, side.home, line)
			out = append(out,
				c.resAt(side.prefix+"_O"+fmtLine(line), over, 0.95),
				c.resAt(side.prefix+"_U"+fmtLine(line), 1-over, 0.95),
			)
		}
	}

	if total := home + away; total > 0 {
		out = append(out,
			c.resAt("HT_DNB_HOME", home/total, 0.9),
			c.resAt("HT_DNB_AWAY", away/total, 0.9),
		)
	}
	return out
}

// SecondHalfMarkets emits the 2H_ family: 1X2, double chance, BTTS, totals.
func (c *Calculator) SecondHalfMarkets() []Result {
	home, draw, away := c.Half1X2(false)
	btts, noBtts := c.HalfBTTS(false)

	out := []Result{
		c.resAt("2H_1X2_HOME", home, 0.95),
		c.resAt("2H_1X2_DRAW", draw, 0.95),
		c.resAt("2H_1X2_AWAY", away, 0.95),
		c.resAt("2H_1X", home+draw, 0.95),
		c.resAt("2H_12", home+away, 0.95),
		c.resAt("2H_X2", draw+away, 0.95),
		c.resAt("2H_KG_YES", btts, 0.95),
		c.resAt("2H_KG_NO", noBtts, 0.95),
	}

	for _, line := range []float64{0.5, 1.5, 2.5, 3.5} {
		over, under, _ := c.HalfOverUnder(false, line)
		out = append(out,
			c.resAt("2H_O"+fmtLine(line), over, 0.95),
			c.resAt("2H_U"+fmtLine(line), under, 0.95),
		)
	}
	return out
}

// HalfComparison compares total goals between the halves using the two
// half-goal distributions (the halves are independent by construction).
func (c *Calculator) HalfComparison() []Result {
	first := totalsPMF(c.firstHalf)
	second := totalsPMF(c.secondHalf)

	var moreFirst, equal float64
	for t1, p1 := range first {
		for t2, p2 := range second {
			switch {
			case t1 > t2:
				moreFirst += p1 * p2
			case t1 == t2:
				equal += p1 * p2
			}
		}
	}
	moreSecond := 1 - moreFirst - equal

	return []Result{
		c.resAt("MORE_GOALS_HT", moreFirst, 0.95),
		c.resAt("MORE_GOALS_2H", moreSecond, 0.95),
		c.resAt("EQUAL_GOALS_HALVES", equal, 0.95),
	}
}

// HTFT returns the joint probability of a (half-time result, full-time
// result) pair by convolving the two half matrices over all goal-increment
// pairs. Results are "1", "X" or "2". This is the heaviest routine in the
// engine, O(htftMaxGoals^4); the config caps the bound.
func (c *Calculator) HTFT(ht, ft string) float64 {
	sum := 0.0
	for h1 := 0; h1 <= c.firstHalf.MaxGoals(); h1++ {
		for a1 := 0; a1 <= c.firstHalf.MaxGoals(); a1++ {
			p1 := c.firstHalf.Prob(h1, a1)
			if p1 == 0 || resultCode(h1, a1) != ht {
				continue
			}
			for h2 := 0; h2 <= c.secondHalf.MaxGoals(); h2++ {
				for a2 := 0; a2 <= c.secondHalf.MaxGoals(); a2++ {
					if resultCode(h1+h2, a1+a2) == ft {
						sum += p1 * c.secondHalf.Prob(h2, a2)
					}
				}
			}
		}
	}
	return sum
}

func resultCode(h, a int) string {
	switch {
	case h > a:
		return "1"
	case h == a:
		return "X"
	default:
		return "2"
	}
}

// HTFTMarkets emits all nine HT/FT pairs plus the residual bucket (which is
// numerically ~0 since the convolution is exhaustive, but the code is kept
// for client compatibility).
func (c *Calculator) HTFTMarkets() []Result {
	outcomes := []string{"1", "X", "2"}
	out := make([]Result, 0, 10)
	covered := 0.0
	for _, ht := range outcomes {
		for _, ft := range outcomes {
			p := c.HTFT(ht, ft)
			covered += p
			out = append(out, c.resAt(fmt.Sprintf("HT_FT_%s_%s", ht, ft), p, 0.9))
		}
	}
	out = append(out, c.resAt("HT_FT_OTHER", 1-covered, 0.9))
	return out
}
