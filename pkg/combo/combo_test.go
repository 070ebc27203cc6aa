package combo

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/golexhq/betengine/pkg/engine"
	"github.com/golexhq/betengine/pkg/markets"
	"github.com/golexhq/betengine/pkg/players"
)

func newTestEvaluator(t *testing.T) (*Evaluator, *markets.Calculator) {
	t.Helper()
	cfg := &engine.Config{}
	b, err := engine.NewBuilder(cfg)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	model := b.BuildFromLambdas(1.5, 1.1)
	calc, err := markets.NewCalculator(model, cfg, markets.SideChannelParams{})
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}
	return NewEvaluator(calc, nil), calc
}

func TestParseNormalization(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want Kind
	}{
		{"plain over", "O2.5", KindPure},
		{"turkish over", "ÜST2.5", KindPure},
		{"ascii turkish over", "UST2.5", KindPure},
		{"turkish under", "ALT1.5", KindPure},
		{"gg alias", "GG", KindPure},
		{"lowercase", "kg", KindPure},
		{"half total", "1H_O0.5", KindHalfTotal},
		{"second half total", "2H_U1.5", KindHalfTotal},
		{"half result", "1H_X", KindHalfMisc},
		{"htft", "HTFT1-X", KindHTFT},
		{"first to score", "FTS_H", KindFirstScore},
		{"corners", "C_O9.5", KindSideTotal},
		{"player prop", "PL_SC_ANY:42", KindPlayer},
		{"garbage", "XYZ123", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Parse(tt.expr)
			if len(tokens) != 1 {
				t.Fatalf("Parse(%q) = %d tokens", tt.expr, len(tokens))
			}
			if tokens[0].Kind != tt.want {
				t.Errorf("Parse(%q).Kind = %v, want %v", tt.expr, tokens[0].Kind, tt.want)
			}
		})
	}
}

func TestParseSplitsOnPlusAndAmpersand(t *testing.T) {
	for _, expr := range []string{"1X+O2.5", "1X & O2.5", "1X&O2.5"} {
		tokens := Parse(expr)
		if len(tokens) != 2 {
			t.Errorf("Parse(%q) = %d tokens, want 2", expr, len(tokens))
		}
	}
}

func TestEvaluateSingleLegMatchesMarket(t *testing.T) {
	e, calc := newTestEvaluator(t)

	over, _, err := calc.OverUnder(2.5)
	if err != nil {
		t.Fatal(err)
	}
	got := e.Evaluate("O2.5")
	if math.Abs(got.Probability-over) > 1e-12 {
		t.Errorf("single-leg O2.5 = %v, standalone market = %v", got.Probability, over)
	}
	if got.Approximate {
		t.Error("a pure leg must not be flagged approximate")
	}
}

func TestEvaluateJointNotProduct(t *testing.T) {
	// "1" and "O2.5" are positively correlated through the home rate, so
	// the exact conjunction must exceed the independence product.
	e, calc := newTestEvaluator(t)

	joint := e.Evaluate("1+O2.5").Probability
	home := calc.Matrix().ProbWhere(func(h, a int) bool { return h > a })
	over, _, _ := calc.OverUnder(2.5)

	if joint <= 0 {
		t.Fatal("joint probability vanished")
	}
	if joint <= home*over {
		t.Errorf("exact joint %v not above independence product %v", joint, home*over)
	}
}

func TestEvaluateContradictionIsZero(t *testing.T) {
	e, _ := newTestEvaluator(t)
	if p := e.Evaluate("1+2").Probability; p != 0 {
		t.Errorf("home win and away win jointly = %v, want 0", p)
	}
	if p := e.Evaluate("U1.5+O3.5").Probability; p != 0 {
		t.Errorf("under 1.5 and over 3.5 jointly = %v, want 0", p)
	}
}

func TestEvaluateUnknownLegSinksExpression(t *testing.T) {
	e, _ := newTestEvaluator(t)
	got := e.Evaluate("1X+XYZ123")
	if got.Probability != 0 {
		t.Errorf("probability = %v, want 0", got.Probability)
	}
	var flagged bool
	for _, leg := range got.Legs {
		if leg.Token == "XYZ123" && leg.Unknown {
			flagged = true
		}
	}
	if !flagged {
		t.Error("unknown leg not flagged in details")
	}
}

func TestEvaluateSpecialLegsMultiply(t *testing.T) {
	e, calc := newTestEvaluator(t)

	got := e.Evaluate("1X+1H_O0.5")
	if !got.Approximate {
		t.Error("half leg must flag the expression approximate")
	}

	oneX := calc.Matrix().ProbWhere(func(h, a int) bool { return h >= a })
	htOver, _, err := calc.HalfOverUnder(true, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	want := oneX * htOver
	if math.Abs(got.Probability-want) > 1e-12 {
		t.Errorf("probability = %v, want %v", got.Probability, want)
	}
}

func TestEvaluateSecondHalfUsesSecondHalfLaw(t *testing.T) {
	e, _ := newTestEvaluator(t)

	first := e.Evaluate("1H_O1.5").Probability
	second := e.Evaluate("2H_O1.5").Probability
	if second <= first {
		t.Errorf("second half carries more goals: 2H %v vs 1H %v", second, first)
	}
}

func TestEvaluateWholeLineHalfTotal(t *testing.T) {
	// 1H_O1 resolves like 1H_O1.5: at least two first-half goals.
	e, calc := newTestEvaluator(t)
	whole := e.Evaluate("1H_O1").Probability
	half, _, err := calc.HalfOverUnder(true, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(whole-half) > 1e-12 {
		t.Errorf("1H_O1 = %v, want %v", whole, half)
	}
}

func TestEvaluateFirstToScore(t *testing.T) {
	e, calc := newTestEvaluator(t)
	home, away, none := calc.FirstToScore()

	sum := e.Evaluate("FTS_H").Probability +
		e.Evaluate("FTS_A").Probability +
		e.Evaluate("FTS_NONE").Probability
	if math.Abs(sum-(home+away+none)) > 1e-12 {
		t.Errorf("FTS legs sum to %v", sum)
	}
}

func TestEvaluatePlayerLegWithBaselines(t *testing.T) {
	cfg := &engine.Config{}
	b, _ := engine.NewBuilder(cfg)
	model := b.BuildFromLambdas(1.5, 1.1)
	calc, err := markets.NewCalculator(model, cfg, markets.SideChannelParams{})
	if err != nil {
		t.Fatal(err)
	}

	src := players.StaticBaselines{
		"9": {PlayerID: "9", Side: players.Home, StartProb: 0.9, MinutesExp: 85, Goal90: 0.7},
	}
	e := NewEvaluator(calc, src)

	known := e.Evaluate("PL_SC_ANY:9").Probability
	unknown := e.Evaluate("PL_SC_ANY:99").Probability
	if known <= unknown {
		t.Errorf("striker baseline %v should out-score the default prior %v", known, unknown)
	}
	if unknown <= 0 {
		t.Error("default prior must still price")
	}
}

func TestOptimizerPicksHighestEV(t *testing.T) {
	o := NewOptimizer(nil, 3)
	candidates := []Candidate{
		{Market: "KG_YES", Probability: 0.68, Odds: 1.85}, // EV 0.258
		{Market: "O2.5", Probability: 0.55, Odds: 2.10},   // EV 0.155
		{Market: "1X2_HOME", Probability: 0.48, Odds: 2.30}, // EV 0.104
		{Market: "DC_X2", Probability: 0.50, Odds: 1.90},  // EV -0.05
	}

	s, err := o.Best(candidates, decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if len(s.SelectedMarkets) != 3 {
		t.Fatalf("selected %d legs, want 3", len(s.SelectedMarkets))
	}
	for _, m := range s.SelectedMarkets {
		if m == "DC_X2" {
			t.Error("negative-EV leg selected")
		}
	}
	if s.SelectedMarkets[0] != "KG_YES" {
		t.Errorf("best leg = %s, want KG_YES", s.SelectedMarkets[0])
	}

	wantOdds := decimal.NewFromFloat(1.85 * 2.10 * 2.30).Round(2)
	if !s.CombinedOdds.Equal(wantOdds) {
		t.Errorf("CombinedOdds = %v, want %v", s.CombinedOdds, wantOdds)
	}
}

func TestOptimizerEmptyInput(t *testing.T) {
	o := NewOptimizer(nil, 3)
	if _, err := o.Best(nil, decimal.NewFromInt(1000)); err == nil {
		t.Error("expected ErrNoCandidates")
	}
}
