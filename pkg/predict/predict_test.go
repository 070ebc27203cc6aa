package predict

import (
	"math"
	"testing"

	"github.com/golexhq/betengine/pkg/engine"
	"github.com/golexhq/betengine/pkg/metrics"
)

func testRequest() Request {
	return Request{
		FixtureID: "fx-1001",
		XG: engine.ExpectedGoals{
			HomeFor: 1.6, HomeAgainst: 1.0,
			AwayFor: 1.1, AwayAgainst: 1.4,
			LeagueAvg: 1.4,
		},
	}
}

func TestPredictBasic(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resp, err := e.Predict(testRequest())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	if resp.ExpectedHome <= resp.ExpectedAway {
		t.Errorf("home xG edge lost: %v vs %v", resp.ExpectedHome, resp.ExpectedAway)
	}
	if len(resp.Markets) < 300 {
		t.Errorf("got %d markets, want at least 300", len(resp.Markets))
	}

	q, ok := resp.Markets["1X2_HOME"]
	if !ok {
		t.Fatal("missing 1X2_HOME")
	}
	if q.Probability <= 0 || q.Probability >= 1 {
		t.Errorf("1X2_HOME probability = %v", q.Probability)
	}
	if q.Odds != 0 || q.IsValueBet {
		t.Error("no odds supplied, yet sizing fields are set")
	}
}

func TestPredictWithOdds(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}

	req := testRequest()
	req.Odds = map[string]float64{"1X2_HOME": 2.60, "KG_NO": 1.05}
	req.Bankroll = 5000

	resp, err := e.Predict(req)
	if err != nil {
		t.Fatal(err)
	}

	home := resp.Markets["1X2_HOME"]
	if home.Odds != 2.60 {
		t.Errorf("odds not echoed: %v", home.Odds)
	}
	wantEV := home.Probability*2.60 - 1
	if math.Abs(home.ExpectedValue-wantEV) > 1e-6 {
		t.Errorf("EV = %v, want %v", home.ExpectedValue, wantEV)
	}

	// Short odds on a likely outcome still have to clear the edge bar.
	kgNo := resp.Markets["KG_NO"]
	if kgNo.ExpectedValue > 0.05 && !kgNo.IsValueBet {
		t.Error("edge above threshold not flagged")
	}
	if kgNo.ExpectedValue <= 0.05 && kgNo.IsValueBet {
		t.Error("thin edge flagged as value")
	}
}

func TestPredictExpressions(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}

	req := testRequest()
	req.Expressions = []string{"1X+O1.5", "garbage_token"}

	resp, err := e.Predict(req)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Expressions) != 2 {
		t.Fatalf("got %d expression results", len(resp.Expressions))
	}
	if resp.Expressions[0].Probability <= 0 {
		t.Error("1X+O1.5 should carry positive probability")
	}
	if resp.Expressions[1].Probability != 0 {
		t.Error("unparseable expression must price to zero")
	}
}

func TestPredictCombosToggle(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}

	req := testRequest()
	without, err := e.Predict(req)
	if err != nil {
		t.Fatal(err)
	}
	req.IncludeCombos = true
	with, err := e.Predict(req)
	if err != nil {
		t.Fatal(err)
	}
	if len(with.Markets) <= len(without.Markets) {
		t.Error("combos did not extend the market set")
	}
}

func TestPredictClampedFlag(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}

	req := testRequest()
	req.XG = engine.ExpectedGoals{
		HomeFor: 40, HomeAgainst: 1, AwayFor: 1, AwayAgainst: 40, LeagueAvg: 1.4,
	}
	resp, err := e.Predict(req)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Clamped {
		t.Error("absurd xG should clamp and flag")
	}
}

func TestPredictRecordsMetrics(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	m := metrics.NewEngineMetrics()
	e.SetMetrics(m)

	req := testRequest()
	req.Odds = map[string]float64{"1X2_HOME": 2.4}
	req.Expressions = []string{"1X + O1.5"}
	if _, err := e.Predict(req); err != nil {
		t.Fatal(err)
	}

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	seen := make(map[string]bool, len(families))
	for _, f := range families {
		seen[f.GetName()] = true
	}
	for _, name := range []string{
		"betengine_predictions_total",
		"betengine_prediction_duration_seconds",
		"betengine_markets_per_match",
		"betengine_combos_total",
		"betengine_edge_observed",
	} {
		if !seen[name] {
			t.Errorf("metric %s not recorded", name)
		}
	}
}
