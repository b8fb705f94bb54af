package formula

import "fmt"

// ErrorCode classifies why a formula did not produce a usable number.
// The empty code means success.
type ErrorCode string

const (
	NoError            ErrorCode = ""
	EmptyFormula       ErrorCode = "emptyFormula"
	InvalidFormula     ErrorCode = "invalidFormula"
	InvalidCell        ErrorCode = "invalidCell"
	InvalidNumber      ErrorCode = "invalidNumber"
	InvalidOperator    ErrorCode = "invalidOperator"
	DivideByZero       ErrorCode = "divideByZero"
	MissingParentheses ErrorCode = "missingParentheses"
	Partial            ErrorCode = "partial"

	// Cycle is set by the sheet layer, never by the evaluator itself.
	Cycle ErrorCode = "cycle"
)

var displayTags = map[ErrorCode]string{
	EmptyFormula:       "#EMPTY",
	InvalidFormula:     "#ERR",
	InvalidCell:        "#REF!",
	InvalidNumber:      "#NUM!",
	InvalidOperator:    "#OP?",
	DivideByZero:       "#DIV/0!",
	MissingParentheses: "#PAREN",
	Partial:            "#PARTIAL",
	Cycle:              "#CYCLE",
}

// Display returns the short tag shown in a grid cell.
func (c ErrorCode) Display() string {
	if tag, ok := displayTags[c]; ok {
		return tag
	}
	if c == NoError {
		return ""
	}
	return "#" + string(c)
}

// EvalError carries an ErrorCode through the error interface.
type EvalError struct {
	Code ErrorCode
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("formula: %s", string(e.Code))
}

// Is matches any *EvalError with the same code, so callers can write
// errors.Is(err, &formula.EvalError{Code: formula.DivideByZero}).
func (e *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Code == e.Code
}
