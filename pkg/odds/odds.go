// Package odds converts between bookmaker decimal odds and fair
// probabilities, stripping the overround the book builds into its prices.
package odds

import "math"

// Implied returns the raw implied probability of decimal odds.
func Implied(decimalOdds float64) float64 {
	if decimalOdds <= 0 {
		return 0
	}
	return 1.0 / decimalOdds
}

// Overround returns the bookmaker margin baked into a set of decimal odds:
// the amount by which the implied probabilities exceed 1.
func Overround(decimalOdds ...float64) float64 {
	total := 0.0
	for _, o := range decimalOdds {
		total += Implied(o)
	}
	return total - 1.0
}

// RemoveVig2 converts two-way decimal odds to fair probabilities.
func RemoveVig2(a, b float64) (float64, float64) {
	rawA := Implied(a)
	rawB := Implied(b)
	total := rawA + rawB
	if total <= 0 {
		return 0, 0
	}
	return rawA / total, rawB / total
}

// RemoveVig3 converts three-way decimal odds to fair probabilities.
func RemoveVig3(a, b, c float64) (float64, float64, float64) {
	rawA := Implied(a)
	rawB := Implied(b)
	rawC := Implied(c)
	total := rawA + rawB + rawC
	if total <= 0 {
		return 0, 0, 0
	}
	return rawA / total, rawB / total, rawC / total
}

// poissonCDF2 returns P(X <= 2) for a Poisson total-goals law with mean g0.
func poissonCDF2(g0 float64) float64 {
	if g0 <= 0 {
		return 1.0
	}
	return math.Exp(-g0) * (1.0 + g0 + g0*g0/2.0)
}

// InferTotalGoalsFromUnder25 finds, by bisection, the expected total goals
// that reproduce a fair under-2.5 probability. Useful for seeding lambdas
// from market totals when no xG feed is available.
func InferTotalGoalsFromUnder25(pUnder float64) float64 {
	if pUnder <= 0.01 || pUnder >= 0.99 {
		return 2.5
	}
	lo, hi := 0.1, 8.0
	for range 60 {
		mid := (lo + hi) / 2.0
		if poissonCDF2(mid) > pUnder {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2.0
}
