// enginectl is a CLI for pricing fixtures: it reads a fixture's expected
// goals, prices every market, optionally sizes stakes against supplied odds,
// and can evaluate free-form combined expressions and bankroll simulations.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/golexhq/betengine/pkg/bankroll"
	"github.com/golexhq/betengine/pkg/engine"
	"github.com/golexhq/betengine/pkg/predict"
)

var (
	// Input flags
	fixtureFile = flag.String("fixture", "", "Path to fixture JSON (expected goals)")
	oddsFile    = flag.String("odds", "", "Path to YAML map of market code to decimal odds")
	configFile  = flag.String("config", "", "Path to engine config YAML (defaults embedded)")
	outputFile  = flag.String("output", "", "Write full JSON response to this file")

	// Pricing flags
	bankrollAmt = flag.Float64("bankroll", 10000, "Bankroll for stake sizing")
	combos      = flag.Bool("combos", false, "Include popular combo markets")
	expression  = flag.String("expr", "", "Combined expression to price (e.g. '1X+O2.5')")
	topN        = flag.Int("top", 20, "Markets to print, by probability")

	// Simulation flags
	simulate = flag.Bool("simulate", false, "Run a bankroll simulation instead of pricing")
	strategy = flag.String("strategy", "half_kelly", "Simulation strategy: full_kelly, half_kelly, fixed")
	simDays  = flag.Int("days", 100, "Simulation days")
)

func main() {
	flag.Parse()

	if *simulate {
		runSimulation()
		return
	}
	if *fixtureFile == "" {
		log.Fatal("missing -fixture (or use -simulate)")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	eng, err := predict.New(cfg)
	if err != nil {
		log.Fatalf("creating engine: %v", err)
	}

	req, err := loadRequest()
	if err != nil {
		log.Fatalf("loading fixture: %v", err)
	}
	req.Bankroll = *bankrollAmt
	req.IncludeCombos = *combos
	if *expression != "" {
		req.Expressions = []string{*expression}
	}

	resp, err := eng.Predict(*req)
	if err != nil {
		log.Fatalf("pricing fixture: %v", err)
	}
	printResponse(resp)

	if *outputFile != "" {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			log.Fatalf("encoding response: %v", err)
		}
		if err := os.WriteFile(*outputFile, data, 0o644); err != nil {
			log.Fatalf("writing output: %v", err)
		}
		log.Printf("wrote %s", *outputFile)
	}
}

func loadConfig() (*engine.Config, error) {
	if *configFile == "" {
		return nil, nil
	}
	return engine.LoadConfig(*configFile)
}

func loadRequest() (*predict.Request, error) {
	data, err := os.ReadFile(*fixtureFile)
	if err != nil {
		return nil, err
	}
	var req predict.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}

	if *oddsFile != "" {
		oddsData, err := os.ReadFile(*oddsFile)
		if err != nil {
			return nil, err
		}
		req.Odds = make(map[string]float64)
		if err := yaml.Unmarshal(oddsData, &req.Odds); err != nil {
			return nil, fmt.Errorf("parsing odds: %w", err)
		}
	}
	return &req, nil
}

func printResponse(resp *predict.Response) {
	fmt.Printf("fixture %s  xG %.2f - %.2f  confidence %.2f\n",
		resp.FixtureID, resp.ExpectedHome, resp.ExpectedAway, resp.Confidence)
	if resp.Clamped {
		fmt.Println("warning: expected goals were clamped to the model range")
	}

	type row struct {
		code string
		q    predict.Quote
	}
	rows := make([]row, 0, len(resp.Markets))
	for code, q := range resp.Markets {
		rows = append(rows, row{code, q})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].q.Probability != rows[j].q.Probability {
			return rows[i].q.Probability > rows[j].q.Probability
		}
		return rows[i].code < rows[j].code
	})
	if len(rows) > *topN {
		rows = rows[:*topN]
	}

	fmt.Printf("\n%-28s %10s %6s %s\n", "MARKET", "PROB", "CONF", "STAKE")
	for _, r := range rows {
		stake := ""
		if r.q.Odds > 0 {
			stake = fmt.Sprintf("@%.2f ev=%+.3f stake=%s", r.q.Odds, r.q.ExpectedValue, r.q.Stake)
			if r.q.IsValueBet {
				stake += " VALUE"
			}
		}
		fmt.Printf("%-28s %9.2f%% %6.2f %s\n",
			r.code, r.q.Probability*100, r.q.Confidence, stake)
	}

	for _, exprRes := range resp.Expressions {
		fmt.Printf("\nexpression %q: %.4f", exprRes.Expression, exprRes.Probability)
		if exprRes.Approximate {
			fmt.Print(" (approximate)")
		}
		fmt.Println()
		for _, leg := range exprRes.Legs {
			if leg.Unknown {
				fmt.Printf("  leg %-20s UNKNOWN\n", leg.Token)
				continue
			}
			fmt.Printf("  leg %-20s %.4f\n", leg.Token, leg.Probability)
		}
	}
}

func runSimulation() {
	sim, err := bankroll.NewSimulator(&bankroll.SimulatorConfig{
		InitialBankroll: *bankrollAmt,
		Strategy:        bankroll.Strategy(*strategy),
		Days:            *simDays,
	})
	if err != nil {
		log.Fatalf("creating simulator: %v", err)
	}
	report := sim.Run()

	fmt.Printf("strategy %s over %d days\n", report.Strategy, *simDays)
	fmt.Printf("  best   %12.2f\n", report.Scenarios.Best)
	fmt.Printf("  mean   %12.2f\n", report.Scenarios.Average)
	fmt.Printf("  worst  %12.2f\n", report.Scenarios.Worst)
	fmt.Printf("  max drawdown %.1f%%  volatility %.2f%%  ruin %.1f%%\n",
		report.RiskMetrics.MaxDrawdown*100,
		report.RiskMetrics.Volatility*100,
		report.RiskMetrics.RuinProbability*100)
}
