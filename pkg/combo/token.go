// Package combo parses and prices free-form combined bet expressions such
// as "1X+O2.5" or "KG & H_O1.5". Expressions arrive from user input in
// several languages and spellings, so parsing starts with aggressive
// normalization.
package combo

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind classifies how a token is priced.
type Kind int

const (
	// KindPure tokens are predicates over the full-time scoreline and are
	// priced exactly, jointly, on the score matrix.
	KindPure Kind = iota
	// KindHalfTotal is an over/under on one half's goals.
	KindHalfTotal
	// KindHalfMisc is a half 1X2 or half BTTS outcome.
	KindHalfMisc
	// KindHTFT is a half-time/full-time double.
	KindHTFT
	// KindFirstScore is a first-to-score outcome.
	KindFirstScore
	// KindSideTotal is a corners or cards over/under.
	KindSideTotal
	// KindPlayer is a player prop.
	KindPlayer
	// KindUnknown tokens price to zero and are flagged in leg details.
	KindUnknown
)

// Token is one leg of a combined expression.
type Token struct {
	Raw  string
	Kind Kind

	// Pred is set for KindPure only.
	Pred func(h, a int) bool

	FirstHalf bool    // KindHalfTotal, KindHalfMisc
	Over      bool    // KindHalfTotal, KindSideTotal
	Line      float64 // KindHalfTotal, KindSideTotal, player SOG

	Outcome string // KindHalfMisc ("1","X","2","KG","NKG"), KindFirstScore ("H","A","NONE")
	HT, FT  string // KindHTFT

	Channel string // KindSideTotal: "C", "YC" or "RC"

	PlayerKind string // KindPlayer: "SC_ANY", "SC_FIRST", "SOG_O", "YC", "RC"
	PlayerID   string
}

var (
	playerRe     = regexp.MustCompile(`^PL_(SC_ANY|SC_FIRST|SOG_O([0-9]+(?:\.[05])?)|YC|RC):([0-9]+)$`)
	totalRe      = regexp.MustCompile(`^([OU])([0-9]+(?:\.[05])?)$`)
	teamTotalRe  = regexp.MustCompile(`^(H|A)_([OU])([0-9]+(?:\.[05])?)$`)
	scoreRe      = regexp.MustCompile(`^CS([0-9]+)-([0-9]+)$`)
	bandRe       = regexp.MustCompile(`^TG([0-9]+)-([0-9]+)$`)
	exactRe      = regexp.MustCompile(`^TOT=([0-9]+)$`)
	marginPlusRe = regexp.MustCompile(`^(H|A)_WIN_BY([0-9]+)\+$`)
	marginRe     = regexp.MustCompile(`^(H|A)_WIN_BY([0-9]+)$`)
	euroHcpRe    = regexp.MustCompile(`^EH(1|2)([+-]?[0-9]+):([12X])$`)
	halfTotalRe  = regexp.MustCompile(`^(1H|2H)_([OU])([0-9]+(?:\.[05])?)$`)
	htftRe       = regexp.MustCompile(`^HTFT([12X])-([12X])$`)
	sideTotalRe  = regexp.MustCompile(`^(C|YC|RC)_([OU])([0-9]+(?:\.[05])?)$`)
)

// stripAccents folds Ü to U, Ö to O and the rest of the diacritic range.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeToken maps localized spellings onto the canonical grammar:
// ÜST/UST (over) to O, ALT (under) to U, GG to KG.
func normalizeToken(token string) string {
	t := strings.ToUpper(strings.TrimSpace(token))
	t, _, _ = transform.String(stripAccents, t)
	t = strings.ReplaceAll(t, "UST", "O")
	t = strings.ReplaceAll(t, "ALT", "U")
	t = strings.ReplaceAll(t, "GG", "KG")
	return t
}

// Parse splits an expression on + and & and classifies each leg. Unknown
// legs parse to KindUnknown rather than failing: a combined bet with one
// unintelligible leg has probability zero, and the caller reports which leg
// sank it.
func Parse(expr string) []Token {
	var tokens []Token
	for _, part := range strings.FieldsFunc(expr, func(r rune) bool { return r == '+' || r == '&' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tokens = append(tokens, parseToken(part))
	}
	return tokens
}

func parseToken(raw string) Token {
	// Player tokens are matched before normalization: their IDs must
	// survive untouched.
	if m := playerRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(raw))); m != nil {
		tok := Token{Raw: raw, Kind: KindPlayer, PlayerID: m[3]}
		if strings.HasPrefix(m[1], "SOG_O") {
			tok.PlayerKind = "SOG_O"
			tok.Line, _ = strconv.ParseFloat(m[2], 64)
		} else {
			tok.PlayerKind = m[1]
		}
		return tok
	}

	t := normalizeToken(raw)

	if pred := pureAlias(t); pred != nil {
		return Token{Raw: raw, Kind: KindPure, Pred: pred}
	}

	if m := teamTotalRe.FindStringSubmatch(t); m != nil {
		home := m[1] == "H"
		over := m[2] == "O"
		n, _ := strconv.ParseFloat(m[3], 64)
		thr := int(n) + 1
		under := int(n)
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool {
			goals := a
			if home {
				goals = h
			}
			if over {
				return goals >= thr
			}
			return goals <= under
		}}
	}

	if m := totalRe.FindStringSubmatch(t); m != nil {
		over := m[1] == "O"
		n, _ := strconv.ParseFloat(m[2], 64)
		thr := int(n) + 1
		under := int(n)
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool {
			if over {
				return h+a >= thr
			}
			return h+a <= under
		}}
	}

	if m := scoreRe.FindStringSubmatch(t); m != nil {
		hh, _ := strconv.Atoi(m[1])
		aa, _ := strconv.Atoi(m[2])
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool {
			return h == hh && a == aa
		}}
	}

	if m := bandRe.FindStringSubmatch(t); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool {
			return h+a >= lo && h+a <= hi
		}}
	}

	if m := exactRe.FindStringSubmatch(t); m != nil {
		k, _ := strconv.Atoi(m[1])
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool {
			return h+a == k
		}}
	}

	switch t {
	case "TOT_ODD":
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool { return (h+a)%2 == 1 }}
	case "TOT_EVEN":
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool { return (h+a)%2 == 0 }}
	case "H_CS":
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool { return a == 0 }}
	case "A_CS":
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool { return h == 0 }}
	case "DNB1":
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool { return h > a }}
	case "DNB2":
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool { return a > h }}
	}

	if m := marginPlusRe.FindStringSubmatch(t); m != nil {
		home := m[1] == "H"
		by, _ := strconv.Atoi(m[2])
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool {
			if home {
				return h-a >= by
			}
			return a-h >= by
		}}
	}
	if m := marginRe.FindStringSubmatch(t); m != nil {
		home := m[1] == "H"
		by, _ := strconv.Atoi(m[2])
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool {
			if home {
				return h-a == by
			}
			return a-h == by
		}}
	}

	if m := euroHcpRe.FindStringSubmatch(t); m != nil {
		homeSide := m[1] == "1"
		hcap, _ := strconv.Atoi(m[2])
		outcome := m[3]
		return Token{Raw: raw, Kind: KindPure, Pred: func(h, a int) bool {
			if homeSide {
				h += hcap
			} else {
				a += hcap
			}
			switch outcome {
			case "1":
				return h > a
			case "X":
				return h == a
			default:
				return h < a
			}
		}}
	}

	if m := halfTotalRe.FindStringSubmatch(t); m != nil {
		n, _ := strconv.ParseFloat(m[3], 64)
		return Token{
			Raw:       raw,
			Kind:      KindHalfTotal,
			FirstHalf: m[1] == "1H",
			Over:      m[2] == "O",
			Line:      n,
		}
	}

	switch t {
	case "1H_1", "1H_X", "1H_2", "2H_1", "2H_X", "2H_2", "1H_KG", "1H_NKG", "2H_KG", "2H_NKG":
		return Token{
			Raw:       raw,
			Kind:      KindHalfMisc,
			FirstHalf: strings.HasPrefix(t, "1H"),
			Outcome:   t[3:],
		}
	}

	if m := htftRe.FindStringSubmatch(t); m != nil {
		return Token{Raw: raw, Kind: KindHTFT, HT: m[1], FT: m[2]}
	}

	switch t {
	case "FTS_H", "FTS_A", "FTS_NONE":
		return Token{Raw: raw, Kind: KindFirstScore, Outcome: t[4:]}
	}

	if m := sideTotalRe.FindStringSubmatch(t); m != nil {
		n, _ := strconv.ParseFloat(m[3], 64)
		return Token{
			Raw:     raw,
			Kind:    KindSideTotal,
			Channel: m[1],
			Over:    m[2] == "O",
			Line:    n,
		}
	}

	return Token{Raw: raw, Kind: KindUnknown}
}

// pureAlias maps the short result/BTTS spellings to predicates.
func pureAlias(t string) func(h, a int) bool {
	switch t {
	case "KG":
		return func(h, a int) bool { return h >= 1 && a >= 1 }
	case "NKG":
		return func(h, a int) bool { return h == 0 || a == 0 }
	case "1":
		return func(h, a int) bool { return h > a }
	case "X":
		return func(h, a int) bool { return h == a }
	case "2":
		return func(h, a int) bool { return h < a }
	case "1X", "X1":
		return func(h, a int) bool { return h >= a }
	case "12", "1-2":
		return func(h, a int) bool { return h != a }
	case "X2", "2X":
		return func(h, a int) bool { return h <= a }
	default:
		return nil
	}
}
