package markets

// MatchResult returns the 1X2 family. The bare "1X2" code is a legacy alias
// for the home win kept for client compatibility.
func (c *Calculator) MatchResult() []Result {
	return []Result{
		c.res("1X2", c.probHome),
		c.res("1X2_HOME", c.probHome),
		c.res("1X2_DRAW", c.probDraw),
		c.res("1X2_AWAY", c.probAway),
	}
}

// BTTS returns both-teams-to-score and its complement.
func (c *Calculator) BTTS() []Result {
	return []Result{
		c.res("KG_YES", c.probBTTS),
		c.res("KG_NO", 1-c.probBTTS),
	}
}

// DoubleChance returns the three two-outcome sums. The bare codes are the
// legacy spellings still used inside combo codes.
func (c *Calculator) DoubleChance() []Result {
	return []Result{
		c.res("DC_1X", c.probHome+c.probDraw),
		c.res("DC_12", c.probHome+c.probAway),
		c.res("DC_X2", c.probDraw+c.probAway),
		c.res("1X", c.probHome+c.probDraw),
		c.res("12", c.probHome+c.probAway),
		c.res("X2", c.probDraw+c.probAway),
	}
}

// DrawNoBet renormalizes the win probabilities over non-draw mass.
func (c *Calculator) DrawNoBet() []Result {
	total := c.probHome + c.probAway
	if total <= 0 {
		// Degenerate: all mass on the draw.
		return []Result{
			c.resAt("DNB_HOME", 0.5, 0.9),
			c.resAt("DNB_AWAY", 0.5, 0.9),
		}
	}
	return []Result{
		c.resAt("DNB_HOME", c.probHome/total, 0.9),
		c.resAt("DNB_AWAY", c.probAway/total, 0.9),
	}
}
