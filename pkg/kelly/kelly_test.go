package kelly

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculate(t *testing.T) {
	c := NewCriterion(nil)
	bankroll := decimal.NewFromInt(10000)

	tests := []struct {
		name        string
		probability float64
		odds        float64
		wantValue   bool
	}{
		{"clear value bet", 0.60, 2.00, true},
		{"fair odds, no edge", 0.50, 2.00, false},
		{"negative edge", 0.40, 2.00, false},
		{"edge below threshold", 0.52, 2.00, false},
		{"edge just above threshold", 0.53, 2.00, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.Calculate(tt.probability, tt.odds, 1.0, bankroll)
			if rec.IsValueBet != tt.wantValue {
				t.Errorf("IsValueBet = %v (%s), want %v", rec.IsValueBet, rec.Reason, tt.wantValue)
			}
		})
	}
}

func TestCalculateKellyFraction(t *testing.T) {
	c := NewCriterion(nil)
	rec := c.Calculate(0.60, 2.00, 1.0, decimal.NewFromInt(10000))

	// f* = (1*0.6 - 0.4) / 1 = 0.2
	got, _ := rec.KellyFraction.Float64()
	if math.Abs(got-0.2) > 1e-9 {
		t.Errorf("KellyFraction = %v, want 0.2", got)
	}
	half, _ := rec.HalfKelly.Float64()
	if math.Abs(half-0.1) > 1e-9 {
		t.Errorf("HalfKelly = %v, want 0.1", half)
	}
	stake, _ := rec.Stake.Float64()
	if math.Abs(stake-1000) > 1e-6 {
		t.Errorf("Stake = %v, want 1000", stake)
	}
}

func TestBelowEdgeStakesZero(t *testing.T) {
	c := NewCriterion(nil)

	// Positive but sub-threshold edge: EV = 0.52*2 - 1 = 0.04 < 0.05.
	rec := c.Calculate(0.52, 2.00, 1.0, decimal.NewFromInt(10000))
	if rec.IsValueBet {
		t.Fatalf("sub-threshold edge flagged as value bet (%s)", rec.Reason)
	}
	for name, v := range map[string]decimal.Decimal{
		"FullKelly":    rec.FullKelly,
		"HalfKelly":    rec.HalfKelly,
		"QuarterKelly": rec.QuarterKelly,
		"Stake":        rec.Stake,
	} {
		if !v.IsZero() {
			t.Errorf("%s = %v, want zero below the edge threshold", name, v)
		}
	}
	// The raw optimum is still reported for inspection.
	if raw, _ := rec.KellyFraction.Float64(); math.Abs(raw-0.04) > 1e-9 {
		t.Errorf("KellyFraction = %v, want 0.04", raw)
	}
}

func TestCalculateDegenerateInputs(t *testing.T) {
	c := NewCriterion(nil)
	bankroll := decimal.NewFromInt(10000)

	tests := []struct {
		name        string
		probability float64
		odds        float64
	}{
		{"zero probability", 0, 2.0},
		{"negative probability", -0.1, 2.0},
		{"certainty", 1.0, 2.0},
		{"even odds", 0.6, 1.0},
		{"sub-even odds", 0.6, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.Calculate(tt.probability, tt.odds, 1.0, bankroll)
			if rec.IsValueBet {
				t.Error("degenerate input flagged as value bet")
			}
			if !rec.Stake.IsZero() {
				t.Errorf("Stake = %v, want zero", rec.Stake)
			}
			if rec.Reason == "" {
				t.Error("degenerate input must carry a reason")
			}
		})
	}
}

func TestConfidenceScalesStake(t *testing.T) {
	c := NewCriterion(nil)
	bankroll := decimal.NewFromInt(10000)

	full := c.Calculate(0.60, 2.00, 1.0, bankroll)
	scaled := c.Calculate(0.60, 2.00, 0.5, bankroll)

	if !scaled.Stake.LessThan(full.Stake) {
		t.Errorf("lower confidence should lower the stake: %v vs %v", scaled.Stake, full.Stake)
	}
	// The raw optimum ignores confidence.
	if !scaled.KellyFraction.Equal(full.KellyFraction) {
		t.Error("confidence must not move the raw Kelly fraction")
	}
}

func TestMaxStakeCap(t *testing.T) {
	c := NewCriterion(&CriterionConfig{MaxStakePct: 0.10})
	rec := c.Calculate(0.90, 5.00, 1.0, decimal.NewFromInt(10000))

	full, _ := rec.FullKelly.Float64()
	if full > 0.10+1e-12 {
		t.Errorf("FullKelly = %v, want capped at 0.10", full)
	}
}

func TestFullKellyFraction(t *testing.T) {
	if f := FullKellyFraction(0.60, 2.00, 1.0); math.Abs(f-0.2) > 1e-12 {
		t.Errorf("FullKellyFraction = %v, want 0.2", f)
	}
	if f := FullKellyFraction(0.40, 2.00, 1.0); f != 0 {
		t.Errorf("negative edge: got %v, want 0", f)
	}
	if f := FullKellyFraction(0, 2.00, 1.0); f != 0 {
		t.Errorf("degenerate: got %v, want 0", f)
	}
}

func TestExpectedValueMonotonicInProbability(t *testing.T) {
	prev := math.Inf(-1)
	for p := 0.1; p < 1; p += 0.1 {
		ev := ExpectedValue(p, 2.0)
		if ev <= prev {
			t.Fatalf("EV not increasing at p=%v", p)
		}
		prev = ev
	}
}
