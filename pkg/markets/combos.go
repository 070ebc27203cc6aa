package markets

import "strings"

// popularCombos are the accumulator legs quoted by default. Their joined
// codes are stable identifiers like the single-market ones.
var popularCombos = [][]string{
	{"KG_YES", "O2.5"},
	{"KG_YES", "O1.5"},
	{"1X", "O1.5"},
	{"X2", "O1.5"},
	{"1X", "KG_YES"},
	{"X2", "KG_YES"},

	{"1X", "KG_YES", "O2.5"},
	{"X2", "KG_YES", "O2.5"},
	{"12", "KG_YES", "O2.5"},
	{"1X", "KG_YES", "O1.5"},
	{"X2", "KG_YES", "O1.5"},

	{"1X", "KG_YES", "O2.5", "HT_O0.5"},
	{"X2", "KG_YES", "O2.5", "HT_O0.5"},
	{"HOME_O1.5", "AWAY_O0.5", "KG_YES", "O2.5"},

	{"1X", "KG_YES", "O2.5", "CORNERS_O9.5"},
	{"X2", "KG_YES", "O2.5", "CORNERS_O9.5"},
}

// ComboMarket prices a same-match accumulator as the product of its legs
// discounted by a flat correlation factor. The legs are not independent, so
// the result is approximate and marked as such.
func (c *Calculator) ComboMarket(codes []string, correlation float64) Result {
	base := c.CalculateAll(false)
	return comboFrom(base, codes, correlation)
}

func comboFrom(base map[string]Result, codes []string, correlation float64) Result {
	prob := 1.0
	conf := 1.0
	for _, code := range codes {
		leg, ok := base[code]
		if !ok {
			// A leg the calculator does not price is skipped, so
			// the combo reduces to its priced legs.
			continue
		}
		prob *= leg.Probability
		if leg.Confidence < conf {
			conf = leg.Confidence
		}
	}
	return Result{
		Code:        strings.Join(codes, "+"),
		Probability: clamp01(prob * correlation),
		Confidence:  clamp01(conf * 0.95),
		Approximate: true,
	}
}

// PopularCombos prices the default accumulator list.
func (c *Calculator) PopularCombos() []Result {
	base := c.CalculateAll(false)
	out := make([]Result, 0, len(popularCombos))
	for _, legs := range popularCombos {
		out = append(out, comboFrom(base, legs, c.cfg.ComboCorrelation))
	}
	return out
}
