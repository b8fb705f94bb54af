package formula

import (
	"log/slog"
	"math"
)

// Resolver gives the evaluator read access to other cells.
type Resolver interface {
	// Formula returns the tokens stored in the cell; empty means the cell
	// is undefined.
	Formula(label string) []string
	// Error returns the cell's current error code, or NoError.
	Error(label string) ErrorCode
	// Value returns the cell's last computed value.
	Value(label string) float64
}

// Result is the outcome of one evaluation. When Code is set, Value is 0
// for cell errors, +Inf for divide by zero, and otherwise the operand that
// was on top of the stack when evaluation stopped. A successful Value is
// always finite; overflow and NaN are InvalidNumber.
type Result struct {
	Value float64
	Code  ErrorCode
}

func (r Result) OK() bool { return r.Code == NoError }

// Err returns nil on success, otherwise an *EvalError with the code.
func (r Result) Err() error {
	if r.Code == NoError {
		return nil
	}
	return &EvalError{Code: r.Code}
}

// Evaluator computes formulas against a Resolver. The last outcome stays
// readable through Result and Error. Stacks live inside Evaluate, but the
// outcome fields do not, so one Evaluator must not be shared by goroutines
// evaluating at the same time.
type Evaluator struct {
	resolver Resolver
	logger   *slog.Logger

	result float64
	code   ErrorCode
}

type Option func(*Evaluator)

func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

func New(r Resolver, opts ...Option) *Evaluator {
	e := &Evaluator{resolver: r, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs formula through a throwaway Evaluator.
func Evaluate(formula []string, r Resolver) Result {
	return New(r).Evaluate(formula)
}

func (e *Evaluator) Result() float64  { return e.result }
func (e *Evaluator) Error() ErrorCode { return e.code }

// Evaluate scans formula once, left to right, with an operand stack and an
// operator stack. The first error stops the scan.
func (e *Evaluator) Evaluate(formula []string) Result {
	e.result, e.code = 0, NoError

	var res Result
	if len(formula) == 0 {
		res = Result{Code: EmptyFormula}
	} else {
		res = e.scan(formula)
	}
	e.result, e.code = res.Value, res.Code
	if res.Code != NoError {
		e.logger.Debug("formula failed", "tokens", formula, "code", string(res.Code))
	}
	return res
}

type stacks struct {
	nums []float64
	ops  []string
}

func (s *stacks) push(v float64) { s.nums = append(s.nums, v) }

func (s *stacks) top() float64 {
	if len(s.nums) == 0 {
		return 0
	}
	return s.nums[len(s.nums)-1]
}

func (s *stacks) topOp() string {
	if len(s.ops) == 0 {
		return ""
	}
	return s.ops[len(s.ops)-1]
}

// calculate applies the operator on top of ops to the two topmost operands.
// It reports whether anything was reduced; a false return with NoError is
// the silent no-op for a short stack.
func (s *stacks) calculate() (bool, ErrorCode) {
	if len(s.nums) == 0 {
		return false, InvalidFormula
	}
	if s.topOp() == "(" {
		return false, MissingParentheses
	}
	if len(s.nums) < 2 || len(s.ops) == 0 {
		return false, NoError
	}

	rhs := s.nums[len(s.nums)-1]
	lhs := s.nums[len(s.nums)-2]
	s.nums = s.nums[:len(s.nums)-2]
	op := s.ops[len(s.ops)-1]
	s.ops = s.ops[:len(s.ops)-1]

	var v float64
	switch op {
	case "+":
		v = lhs + rhs
	case "-":
		v = lhs - rhs
	case "*":
		v = lhs * rhs
	case "/":
		if rhs == 0 {
			return true, DivideByZero
		}
		v = lhs / rhs
	default:
		return true, InvalidOperator
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return true, InvalidNumber
	}
	s.push(v)
	return true, NoError
}

// reduce runs calculate and turns a stalled reduction into InvalidFormula
// so callers looping on it always terminate.
func (s *stacks) reduce() ErrorCode {
	ok, code := s.calculate()
	if code == NoError && !ok {
		return InvalidFormula
	}
	return code
}

func (e *Evaluator) scan(formula []string) Result {
	s := &stacks{
		nums: make([]float64, 0, len(formula)),
		ops:  make([]string, 0, len(formula)),
	}
	fail := func(code ErrorCode) Result {
		if code == DivideByZero {
			return Result{Value: math.Inf(1), Code: code}
		}
		return Result{Value: s.top(), Code: code}
	}

	prev := Invalid
	for i, tok := range formula {
		kind := Classify(tok)
		operand := prev == Number || prev == CellRef || prev == CloseParen

		switch kind {
		case Number:
			if operand {
				return fail(InvalidFormula)
			}
			v, _ := parseNumber(tok)
			s.push(v)

		case CellRef:
			if operand {
				return fail(InvalidFormula)
			}
			v, code := e.lookup(tok)
			if code != NoError {
				return Result{Code: code}
			}
			s.push(v)

		case OpenParen:
			if operand {
				return fail(InvalidFormula)
			}
			s.ops = append(s.ops, tok)

		case CloseParen:
			switch {
			case prev == Operator:
				return fail(InvalidFormula)
			case prev == OpenParen:
				return fail(MissingParentheses)
			}
			for len(s.ops) > 0 && s.topOp() != "(" {
				if code := s.reduce(); code != NoError {
					return fail(code)
				}
			}
			if len(s.ops) == 0 {
				return fail(MissingParentheses)
			}
			s.ops = s.ops[:len(s.ops)-1]

		case Operator:
			if i == 0 {
				// a leading sign reads as 0+x or 0-x
				if tok != "+" && tok != "-" {
					return fail(InvalidFormula)
				}
				s.push(0)
			} else if !operand {
				return fail(InvalidFormula)
			}
			for len(s.ops) > 0 && s.topOp() != "(" && precedence(s.topOp()) >= precedence(tok) {
				if code := s.reduce(); code != NoError {
					return fail(code)
				}
			}
			s.ops = append(s.ops, tok)

		default:
			if looksNumeric(tok) {
				return fail(InvalidNumber)
			}
			return fail(InvalidOperator)
		}
		prev = kind
	}

	if prev == Operator {
		return fail(InvalidFormula)
	}
	for len(s.ops) > 0 {
		if code := s.reduce(); code != NoError {
			return fail(code)
		}
	}
	if len(s.nums) != 1 {
		return fail(InvalidFormula)
	}
	return Result{Value: s.nums[0]}
}

// lookup resolves a cell reference. A cell that is itself in error passes
// its code through; an undefined cell is InvalidCell.
func (e *Evaluator) lookup(label string) (float64, ErrorCode) {
	if e.resolver == nil {
		return 0, InvalidCell
	}
	if code := e.resolver.Error(label); code != NoError && code != EmptyFormula {
		return 0, code
	}
	if len(e.resolver.Formula(label)) == 0 {
		return 0, InvalidCell
	}
	return e.resolver.Value(label), NoError
}
