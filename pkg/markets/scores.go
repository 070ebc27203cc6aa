package markets

// CorrectScore returns the probability of one exact scoreline.
func (c *Calculator) CorrectScore(home, away int) float64 {
	return c.matrix.Prob(home, away)
}

// CorrectScores emits CS_i_j for scorelines up to 6-6, an explicit CS_OTHER
// bucket covering everything else (so the family sums to 1), the half-time
// scorelines up to 2-2, and the scoreline group markets.
func (c *Calculator) CorrectScores() []Result {
	out := make([]Result, 0, 72)

	covered := 0.0
	for h := 0; h <= 6 && h <= c.matrix.MaxGoals(); h++ {
		for a := 0; a <= 6 && a <= c.matrix.MaxGoals(); a++ {
			p := c.matrix.Prob(h, a)
			covered += p
			out = append(out, c.res(fmtCode("CS_%d_%d", h, a), p))
		}
	}
	out = append(out, c.res("CS_OTHER", 1-covered))

	htCovered := 0.0
	for h := 0; h <= 2; h++ {
		for a := 0; a <= 2; a++ {
			p := c.firstHalf.Prob(h, a)
			htCovered += p
			out = append(out, c.resAt(fmtCode("HT_CS_%d_%d", h, a), p, 0.95))
		}
	}
	out = append(out, c.resAt("HT_CS_OTHER", 1-htCovered, 0.95))

	out = append(out,
		c.res("CS_GROUP_HOME_WIN", c.probHome),
		c.res("CS_GROUP_DRAW", c.probDraw),
		c.res("CS_GROUP_AWAY_WIN", c.probAway),
		c.res("CS_GROUP_0_1", c.MultiGoalRange(0, 1)),
		c.res("CS_GROUP_2_3", c.MultiGoalRange(2, 3)),
		c.res("CS_GROUP_4_6", c.MultiGoalRange(4, 6)),
		c.res("CS_GROUP_7_PLUS", c.matrix.ProbWhere(func(h, a int) bool { return h+a >= 7 })),
	)
	return out
}

// CleanSheets emits clean-sheet, win-to-nil and team-scores markets.
func (c *Calculator) CleanSheets() []Result {
	w2nHome := c.matrix.ProbWhere(func(h, a int) bool { return h >= 1 && a == 0 })
	w2nAway := c.matrix.ProbWhere(func(h, a int) bool { return h == 0 && a >= 1 })
	csHome := c.matrix.ProbWhere(func(h, a int) bool { return a == 0 })
	csAway := c.matrix.ProbWhere(func(h, a int) bool { return h == 0 })
	csBoth := c.matrix.Prob(0, 0)
	csNone := 1 - (csHome + csAway - csBoth)

	return []Result{
		c.res("W2N_HOME", w2nHome),
		c.res("W2N_AWAY", w2nAway),
		c.res("CS_HOME", csHome),
		c.res("CS_AWAY", csAway),
		c.res("CS_BOTH", csBoth),
		c.res("CS_NONE", csNone),
		c.res("HOME_SCORE_YES", 1-csAway),
		c.res("HOME_SCORE_NO", csAway),
		c.res("AWAY_SCORE_YES", 1-csHome),
		c.res("AWAY_SCORE_NO", csHome),
	}
}
