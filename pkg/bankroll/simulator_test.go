package bankroll

import (
	"testing"
)

func TestRunDeterministic(t *testing.T) {
	cfg := &SimulatorConfig{Seed: 42, Paths: 50, Days: 30}
	s1, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	s2, _ := NewSimulator(&SimulatorConfig{Seed: 42, Paths: 50, Days: 30})

	r1 := s1.Run()
	r2 := s2.Run()
	if r1.Scenarios != r2.Scenarios {
		t.Errorf("same seed produced different scenarios: %+v vs %+v", r1.Scenarios, r2.Scenarios)
	}
	if r1.RiskMetrics != r2.RiskMetrics {
		t.Errorf("same seed produced different metrics")
	}
}

func TestRunReportShape(t *testing.T) {
	s, err := NewSimulator(&SimulatorConfig{Seed: 7, Paths: 100, Days: 50})
	if err != nil {
		t.Fatal(err)
	}
	r := s.Run()

	if r.Scenarios.Best < r.Scenarios.Average || r.Scenarios.Average < r.Scenarios.Worst {
		t.Errorf("scenario ordering broken: %+v", r.Scenarios)
	}
	if len(r.MedianPath) != 51 {
		t.Errorf("median path has %d points, want 51", len(r.MedianPath))
	}
	if r.MedianPath[0].Bankroll != 10000 {
		t.Errorf("path starts at %v, want the initial bankroll", r.MedianPath[0].Bankroll)
	}
	if r.RiskMetrics.MaxDrawdown < 0 || r.RiskMetrics.MaxDrawdown > 1 {
		t.Errorf("max drawdown %v outside [0,1]", r.RiskMetrics.MaxDrawdown)
	}
	if r.RiskMetrics.RuinProbability < 0 || r.RiskMetrics.RuinProbability > 1 {
		t.Errorf("ruin probability %v outside [0,1]", r.RiskMetrics.RuinProbability)
	}
}

func TestHalfKellyLessVolatileThanFull(t *testing.T) {
	full, err := NewSimulator(&SimulatorConfig{Seed: 11, Paths: 200, Days: 60, Strategy: FullKelly})
	if err != nil {
		t.Fatal(err)
	}
	half, err := NewSimulator(&SimulatorConfig{Seed: 11, Paths: 200, Days: 60, Strategy: HalfKelly})
	if err != nil {
		t.Fatal(err)
	}

	rf := full.Run()
	rh := half.Run()
	if rh.RiskMetrics.Volatility >= rf.RiskMetrics.Volatility {
		t.Errorf("half Kelly volatility %v not below full Kelly %v",
			rh.RiskMetrics.Volatility, rf.RiskMetrics.Volatility)
	}
	if rh.RiskMetrics.MaxDrawdown >= rf.RiskMetrics.MaxDrawdown {
		t.Errorf("half Kelly drawdown %v not below full Kelly %v",
			rh.RiskMetrics.MaxDrawdown, rf.RiskMetrics.MaxDrawdown)
	}
}

func TestFixedStrategyNeverStakesMoreThanBankroll(t *testing.T) {
	s, err := NewSimulator(&SimulatorConfig{
		Seed: 3, Paths: 20, Days: 200,
		Strategy: Fixed, FixedStake: 5000, InitialBankroll: 6000,
	})
	if err != nil {
		t.Fatal(err)
	}
	r := s.Run()
	for _, pt := range r.MedianPath {
		if pt.Bankroll < 0 {
			t.Fatalf("bankroll went negative on day %d: %v", pt.Day, pt.Bankroll)
		}
	}
}

func TestUnknownStrategy(t *testing.T) {
	if _, err := NewSimulator(&SimulatorConfig{Strategy: "martingale"}); err == nil {
		t.Error("expected ErrUnknownStrategy")
	}
}
