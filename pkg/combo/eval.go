package combo

import (
	"math"

	"github.com/golexhq/betengine/pkg/markets"
	"github.com/golexhq/betengine/pkg/players"
)

// LegDetail reports how one leg priced.
type LegDetail struct {
	Token       string  `json:"token"`
	Probability float64 `json:"probability"`

	// Joint marks legs absorbed into the exact full-time evaluation;
	// their individual probability is informational only.
	Joint bool `json:"joint,omitempty"`

	// Unknown marks legs that failed to parse and forced the whole
	// expression to zero.
	Unknown bool `json:"unknown,omitempty"`
}

// Result is the priced expression.
type Result struct {
	Expression  string      `json:"expression"`
	Probability float64     `json:"probability"`
	Legs        []LegDetail `json:"legs"`

	// Approximate is set when any leg was priced on an independent
	// sub-model and multiplied in, rather than evaluated on the joint law.
	Approximate bool `json:"approximate,omitempty"`
}

// Evaluator prices combined expressions against one match's calculator.
type Evaluator struct {
	calc      *markets.Calculator
	baselines players.BaselineSource
}

// NewEvaluator wraps a match calculator. baselines may be nil; player legs
// then price from the default prior.
func NewEvaluator(calc *markets.Calculator, baselines players.BaselineSource) *Evaluator {
	return &Evaluator{calc: calc, baselines: baselines}
}

// Evaluate prices an expression. Every full-time scoreline leg is folded
// into a single conjunction evaluated exactly on the score matrix; half,
// HT/FT, first-scorer, side-channel and player legs each price on their own
// sub-model and multiply in under an independence assumption.
func (e *Evaluator) Evaluate(expr string) Result {
	tokens := Parse(expr)
	result := Result{Expression: expr, Probability: 0}
	if len(tokens) == 0 {
		return result
	}

	var pure []Token
	prob := 1.0
	for _, tok := range tokens {
		switch tok.Kind {
		case KindPure:
			pure = append(pure, tok)
			result.Legs = append(result.Legs, LegDetail{
				Token:       tok.Raw,
				Probability: e.calc.Matrix().ProbWhere(tok.Pred),
				Joint:       true,
			})
		case KindUnknown:
			prob = 0
			result.Legs = append(result.Legs, LegDetail{Token: tok.Raw, Unknown: true})
		default:
			p := e.special(tok)
			prob *= p
			result.Approximate = true
			result.Legs = append(result.Legs, LegDetail{Token: tok.Raw, Probability: p})
		}
	}

	if len(pure) > 0 {
		joint := e.calc.Matrix().ProbWhere(func(h, a int) bool {
			for _, tok := range pure {
				if !tok.Pred(h, a) {
					return false
				}
			}
			return true
		})
		prob *= joint
	}

	result.Probability = prob
	return result
}

// special prices one non-scoreline leg on its sub-model.
func (e *Evaluator) special(tok Token) float64 {
	switch tok.Kind {
	case KindHalfTotal:
		// Whole lines carry no push in an expression leg; they resolve
		// like the half-step above them.
		line := tok.Line
		if line == math.Trunc(line) {
			line += 0.5
		}
		over, under, err := e.calc.HalfOverUnder(tok.FirstHalf, line)
		if err != nil {
			return 0
		}
		if tok.Over {
			return over
		}
		return under

	case KindHalfMisc:
		switch tok.Outcome {
		case "KG":
			yes, _ := e.calc.HalfBTTS(tok.FirstHalf)
			return yes
		case "NKG":
			_, no := e.calc.HalfBTTS(tok.FirstHalf)
			return no
		default:
			home, draw, away := e.calc.Half1X2(tok.FirstHalf)
			switch tok.Outcome {
			case "1":
				return home
			case "X":
				return draw
			default:
				return away
			}
		}

	case KindHTFT:
		return e.calc.HTFT(tok.HT, tok.FT)

	case KindFirstScore:
		home, away, none := e.calc.FirstToScore()
		switch tok.Outcome {
		case "H":
			return home
		case "A":
			return away
		default:
			return none
		}

	case KindSideTotal:
		var mu float64
		switch tok.Channel {
		case "C":
			mu = e.calc.CornersMu()
		case "YC":
			mu = e.calc.YellowMu()
		default:
			mu = e.calc.RedMu()
		}
		if tok.Over {
			return markets.SideTotalOver(mu, tok.Line)
		}
		return markets.SideTotalUnder(mu, tok.Line)

	case KindPlayer:
		return e.player(tok)
	}
	return 0
}

func (e *Evaluator) player(tok Token) float64 {
	b := players.Resolve(e.baselines, tok.PlayerID, players.Home)
	switch tok.PlayerKind {
	case "SC_ANY":
		return players.AnytimeScorer(b)
	case "SC_FIRST":
		return players.FirstScorer(b, e.teamLambda(b.Side))
	case "SOG_O":
		return players.ShotsOnTargetOver(b, tok.Line)
	case "YC":
		return players.Booking(b)
	case "RC":
		return players.SentOff(b)
	}
	return 0
}

// teamLambda resolves the scoring rate of a player's team. An unknown side
// takes the match average.
func (e *Evaluator) teamLambda(side players.Side) float64 {
	home, away := e.calc.Lambdas()
	switch side {
	case players.Home:
		return home
	case players.Away:
		return away
	default:
		return (home + away) / 2
	}
}
