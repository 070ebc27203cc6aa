// Package engine builds normalized joint score distributions from
// expected-goal rates for a football match.
package engine

import "math"

// PoissonPMF calculates P(X = k) where X ~ Poisson(lambda).
func PoissonPMF(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1.0
		}
		return 0
	}

	// Log space for numerical stability with large lambda
	logProb := float64(k)*math.Log(lambda) - lambda - logFactorial(k)
	return math.Exp(logProb)
}

// PoissonCDF calculates P(X <= k).
func PoissonCDF(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += PoissonPMF(lambda, i)
	}
	if sum > 1 {
		return 1
	}
	return sum
}

// PoissonTail calculates P(X >= k).
func PoissonTail(lambda float64, k int) float64 {
	if k <= 0 {
		return 1
	}
	return 1 - PoissonCDF(lambda, k-1)
}

// logFactorial computes log(n!).
func logFactorial(n int) float64 {
	if n <= 1 {
		return 0
	}
	result := 0.0
	for i := 2; i <= n; i++ {
		result += math.Log(float64(i))
	}
	return result
}

// dixonColesTau is the Dixon-Coles low-score dependence adjustment.
// Independent Poisson underestimates low-scoring draws; tau perturbs
// the four cells with both sides in {0,1} and leaves the rest alone.
func dixonColesTau(homeGoals, awayGoals int, lambdaHome, lambdaAway, rho float64) float64 {
	switch {
	case homeGoals == 0 && awayGoals == 0:
		return 1 - lambdaHome*lambdaAway*rho
	case homeGoals == 0 && awayGoals == 1:
		return 1 + lambdaHome*rho
	case homeGoals == 1 && awayGoals == 0:
		return 1 + lambdaAway*rho
	case homeGoals == 1 && awayGoals == 1:
		return 1 - rho
	default:
		return 1.0
	}
}
