package markets

import "fmt"

var standardLines = []float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5}

var teamTotalLines = []float64{0.5, 1.5, 2.5, 3.5, 4.5}

// OverUnder returns P(over) and P(under) for a half-integer total-goals line.
func (c *Calculator) OverUnder(line float64) (over, under float64, err error) {
	if !isHalfStep(line) {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidLine, line)
	}
	thr := int(line) + 1
	over = c.matrix.ProbWhere(func(h, a int) bool { return h+a >= thr })
	return over, 1 - over, nil
}

// AllOverUnder emits every standard line in both the short ("O2.5") and
// legacy long ("OVER_2_5") code forms.
func (c *Calculator) AllOverUnder() []Result {
	out := make([]Result, 0, len(standardLines)*4)
	for _, line := range standardLines {
		over, under, _ := c.OverUnder(line)
		out = append(out,
			c.res("O"+fmtLine(line), over),
			c.res("U"+fmtLine(line), under),
			c.res("OVER_"+fmtLineUnderscore(line), over),
			c.res("UNDER_"+fmtLineUnderscore(line), under),
		)
	}
	return out
}

// TeamTotal returns P(over) for one side's goals against a half-integer line.
func (c *Calculator) TeamTotal(home bool, line float64) (over float64, err error) {
	if !isHalfStep(line) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLine, line)
	}
	thr := int(line) + 1
	over = c.matrix.ProbWhere(func(h, a int) bool {
		if home {
			return h >= thr
		}
		return a >= thr
	})
	return over, nil
}

// AllTeamTotals emits HOME_/AWAY_ over/under for the standard lines.
func (c *Calculator) AllTeamTotals() []Result {
	out := make([]Result, 0, len(teamTotalLines)*4)
	for _, side := range []struct {
		home   bool
		prefix string
	}{{true, "HOME"}, {false, "AWAY"}} {
		for _, line := range teamTotalLines {
			over, _ := c.TeamTotal(side.home, line)
			out = append(out,
				c.resAt(side.prefix+"_O"+fmtLine(line), over, 0.95),
				c.resAt(side.prefix+"_U"+fmtLine(line), 1-over, 0.95),
			)
		}
	}
	return out
}

// ExactGoals buckets total goals into EXACT_0..EXACT_6 plus EXACT_7_PLUS so
// the family is exhaustive and sums to 1.
func (c *Calculator) ExactGoals() []Result {
	out := make([]Result, 0, 8)
	for total := 0; total <= 6; total++ {
		t := total
		p := c.matrix.ProbWhere(func(h, a int) bool { return h+a == t })
		out = append(out, c.res(fmtCode("EXACT_%d", total), p))
	}
	p7 := c.matrix.ProbWhere(func(h, a int) bool { return h+a >= 7 })
	out = append(out, c.res("EXACT_7_PLUS", p7))
	return out
}

// MultiGoalRange returns P(lo <= total goals <= hi).
func (c *Calculator) MultiGoalRange(lo, hi int) float64 {
	return c.matrix.ProbWhere(func(h, a int) bool {
		t := h + a
		return t >= lo && t <= hi
	})
}

// MultiGoalRanges emits the standard banded-total markets.
func (c *Calculator) MultiGoalRanges() []Result {
	bands := []struct {
		lo, hi int
		code   string
	}{
		{0, 1, "MG_0_1"}, {1, 2, "MG_1_2"}, {1, 3, "MG_1_3"},
		{2, 3, "MG_2_3"}, {2, 4, "MG_2_4"}, {2, 5, "MG_2_5"},
		{3, 4, "MG_3_4"}, {3, 5, "MG_3_5"}, {3, 6, "MG_3_6"},
		{4, 6, "MG_4_6"},
	}

	out := make([]Result, 0, len(bands)+1)
	for _, b := range bands {
		out = append(out, c.res(b.code, c.MultiGoalRange(b.lo, b.hi)))
	}
	out = append(out, c.res("MG_7_PLUS", c.matrix.ProbWhere(func(h, a int) bool { return h+a >= 7 })))
	return out
}

// OddEven emits parity markets for the total and each side, the cross
// combinations, and the half totals (computed from the half matrices).
func (c *Calculator) OddEven() []Result {
	oddTotal := c.matrix.ProbWhere(func(h, a int) bool { return (h+a)%2 == 1 })
	oddHome := c.matrix.ProbWhere(func(h, a int) bool { return h%2 == 1 })
	oddAway := c.matrix.ProbWhere(func(h, a int) bool { return a%2 == 1 })
	oddHomeEvenAway := c.matrix.ProbWhere(func(h, a int) bool { return h%2 == 1 && a%2 == 0 })
	evenHomeOddAway := c.matrix.ProbWhere(func(h, a int) bool { return h%2 == 0 && a%2 == 1 })

	htOdd := c.firstHalf.ProbWhere(func(h, a int) bool { return (h+a)%2 == 1 })
	shOdd := c.secondHalf.ProbWhere(func(h, a int) bool { return (h+a)%2 == 1 })

	return []Result{
		c.res("ODD_EVEN_TOTAL_ODD", oddTotal),
		c.res("ODD_EVEN_TOTAL_EVEN", 1-oddTotal),
		c.res("ODD_EVEN_HOME_ODD", oddHome),
		c.res("ODD_EVEN_HOME_EVEN", 1-oddHome),
		c.res("ODD_EVEN_AWAY_ODD", oddAway),
		c.res("ODD_EVEN_AWAY_EVEN", 1-oddAway),
		c.resAt("ODD_EVEN_HT_ODD", htOdd, 0.95),
		c.resAt("ODD_EVEN_HT_EVEN", 1-htOdd, 0.95),
		c.resAt("ODD_EVEN_2H_ODD", shOdd, 0.95),
		c.resAt("ODD_EVEN_2H_EVEN", 1-shOdd, 0.95),
		c.res("ODD_HOME_EVEN_AWAY", oddHomeEvenAway),
		c.res("EVEN_HOME_ODD_AWAY", evenHomeOddAway),
	}
}
