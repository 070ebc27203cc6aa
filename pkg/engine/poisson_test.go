package engine

import (
	"math"
	"testing"
)

func TestPoissonPMF(t *testing.T) {
	tests := []struct {
		name   string
		lambda float64
		k      int
		want   float64
	}{
		{"zero goals at unit rate", 1.0, 0, math.Exp(-1)},
		{"two goals at 2.5", 2.5, 2, 0.25651562069968376},
		{"large k stays finite", 3.0, 40, 0},
		{"negative k", 1.5, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PoissonPMF(tt.lambda, tt.k)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PoissonPMF(%v, %d) = %v, want %v", tt.lambda, tt.k, got, tt.want)
			}
		})
	}
}

func TestPoissonPMFSumsToOne(t *testing.T) {
	for _, lambda := range []float64{0.3, 1.4, 2.6, 5.0} {
		sum := 0.0
		for k := 0; k <= 60; k++ {
			sum += PoissonPMF(lambda, k)
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("lambda=%v: pmf sums to %v", lambda, sum)
		}
	}
}

func TestPoissonTailComplementsCDF(t *testing.T) {
	for _, lambda := range []float64{0.5, 2.6, 8.0} {
		for k := 1; k <= 10; k++ {
			cdf := PoissonCDF(lambda, k-1)
			tail := PoissonTail(lambda, k)
			if math.Abs(cdf+tail-1) > 1e-9 {
				t.Errorf("lambda=%v k=%d: CDF+Tail = %v", lambda, k, cdf+tail)
			}
		}
	}
}
