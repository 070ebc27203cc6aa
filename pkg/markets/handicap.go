package markets

import "math"

var asianLines = []float64{
	-4.5, -4.0, -3.5, -3.0, -2.5, -2.0, -1.5, -1.0, -0.5, 0.0,
	0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0, 4.5,
}

// AsianHandicap decomposes the score matrix against a handicap line into
// win/push/lose mass for the given side. The signed margin is home-away for
// the home side and its negation for the away side; the bet wins where the
// margin strictly exceeds the line. Only integer lines produce a push
// bucket; push mass is a refund and is never awarded to either side.
// Quarter and half lines resolve strictly, so push is zero there.
func (c *Calculator) AsianHandicap(home bool, line float64) (win, push, lose float64) {
	integer := line == math.Trunc(line)
	for h := 0; h <= c.matrix.MaxGoals(); h++ {
		for a := 0; a <= c.matrix.MaxGoals(); a++ {
			d := float64(h - a)
			if !home {
				d = -d
			}
			p := c.matrix.Prob(h, a)
			switch {
			case d > line:
				win += p
			case integer && d == line:
				push += p
			default:
				lose += p
			}
		}
	}
	return win, push, lose
}

// AllAsianHandicaps emits the standard line ladder. For each line the home
// and away codes carry win probability only; integer lines add an explicit
// push code so the three sum to 1.
func (c *Calculator) AllAsianHandicaps() []Result {
	out := make([]Result, 0, len(asianLines)*3)
	for _, line := range asianLines {
		win, push, lose := c.AsianHandicap(true, line)
		code := fmtHandicap(line)
		out = append(out,
			c.resAt("AH_"+code+"_HOME", win, 0.9),
			c.resAt("AH_"+code+"_AWAY", lose, 0.9),
		)
		if line == math.Trunc(line) {
			out = append(out, c.resAt("AH_"+code+"_PUSH", push, 0.9))
		}
	}
	return out
}

// EuropeanHandicap returns the 3-way probability after adding an integer
// handicap to one side's goals. outcome is "1", "X" or "2".
func (c *Calculator) EuropeanHandicap(homeSide bool, handicap int, outcome string) float64 {
	return c.matrix.ProbWhere(func(h, a int) bool {
		hh, aa := h, a
		if homeSide {
			hh += handicap
		} else {
			aa += handicap
		}
		switch outcome {
		case "1":
			return hh > aa
		case "X":
			return hh == aa
		default:
			return hh < aa
		}
	})
}
