package formula

import (
	"math"
	"strconv"
	"strings"

	"grider/internal/grid"
)

// Kind is the closed set of token categories the evaluator branches on.
type Kind int

const (
	Invalid Kind = iota
	Number
	CellRef
	Operator
	OpenParen
	CloseParen
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case CellRef:
		return "cell"
	case Operator:
		return "operator"
	case OpenParen:
		return "("
	case CloseParen:
		return ")"
	}
	return "invalid"
}

// Classify decides what a single token is. Numbers win over labels, and
// anything that is neither must be one of ( ) + - * / to be useful.
func Classify(token string) Kind {
	if _, ok := parseNumber(token); ok {
		return Number
	}
	if grid.IsLabel(token) {
		return CellRef
	}
	switch token {
	case "+", "-", "*", "/":
		return Operator
	case "(":
		return OpenParen
	case ")":
		return CloseParen
	}
	return Invalid
}

// parseNumber accepts finite decimal literals only: an optional sign,
// digits with an optional fraction and exponent. Hex, "inf" and "nan" are
// rejected even though strconv would take them.
func parseNumber(token string) (float64, bool) {
	if token == "" {
		return 0, false
	}
	body := strings.TrimLeft(token, "+-")
	if len(token)-len(body) > 1 || body == "" {
		return 0, false
	}
	if c := body[0]; !(c >= '0' && c <= '9') && c != '.' {
		return 0, false
	}
	if strings.ContainsAny(body, "xXpP_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// looksNumeric is true for tokens that start like a number but failed to
// parse as one, e.g. "1.2.3" or "4x".
func looksNumeric(token string) bool {
	body := strings.TrimLeft(token, "+-")
	return body != "" && (body[0] >= '0' && body[0] <= '9' || body[0] == '.')
}

func precedence(op string) int {
	switch op {
	case "*", "/":
		return 2
	case "+", "-":
		return 1
	}
	return 0
}

// References lists the distinct cell labels a formula reads, in first-use
// order.
func References(formula []string) []string {
	var refs []string
	seen := map[string]bool{}
	for _, tok := range formula {
		if Classify(tok) != CellRef || seen[tok] {
			continue
		}
		seen[tok] = true
		refs = append(refs, tok)
	}
	return refs
}
