// Package sheet stores cells by label and keeps their computed values in
// sync with the formula evaluator.
package sheet

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"grider/internal/formula"
	"grider/internal/grid"
)

var ErrBadLabel = errors.New("sheet: invalid cell label")

// Cell holds what the user typed plus the last evaluation outcome.
type Cell struct {
	Text    string
	Formula []string
	Value   float64
	Err     formula.ErrorCode
}

// IsFormula reports whether the cell text is an "=" expression.
func (c *Cell) IsFormula() bool {
	return strings.HasPrefix(c.Text, "=")
}

// Memory is a sparse sheet keyed by canonical label. It is not safe for
// concurrent use.
type Memory struct {
	cells  map[string]*Cell
	eval   *formula.Evaluator
	logger *slog.Logger
}

func New(logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Memory{
		cells:  map[string]*Cell{},
		logger: logger,
	}
	m.eval = formula.New(m, formula.WithLogger(logger))
	return m
}

// Set stores text in the cell and recalculates the sheet. Text starting
// with "=" is a formula, a bare number is a one-token formula and anything
// else is a label cell with no formula. Empty text clears the cell.
func (m *Memory) Set(label, text string) error {
	key, ok := grid.Normalize(label)
	if !ok {
		return fmt.Errorf("%w: %q", ErrBadLabel, label)
	}
	m.put(key, text)
	m.Recalculate()
	return nil
}

// Load replaces the sheet contents in one go, recalculating once.
func (m *Memory) Load(cells map[string]string) error {
	next := map[string]*Cell{}
	for label, text := range cells {
		key, ok := grid.Normalize(label)
		if !ok {
			return fmt.Errorf("%w: %q", ErrBadLabel, label)
		}
		if text != "" {
			next[key] = newCell(text)
		}
	}
	m.cells = next
	m.Recalculate()
	return nil
}

func (m *Memory) Clear(label string) {
	if key, ok := grid.Normalize(label); ok {
		delete(m.cells, key)
		m.Recalculate()
	}
}

func (m *Memory) put(key, text string) {
	if text == "" {
		delete(m.cells, key)
		return
	}
	m.cells[key] = newCell(text)
}

func newCell(text string) *Cell {
	c := &Cell{Text: text}
	switch {
	case c.IsFormula():
		c.Formula = formula.Tokenize(text[1:])
	case formula.Classify(strings.TrimSpace(text)) == formula.Number:
		c.Formula = []string{strings.TrimSpace(text)}
	}
	return c
}

// Cell returns the cell at label, or nil. Lenient references such as
// "a1" or "$A$1" are accepted.
func (m *Memory) Cell(label string) *Cell {
	key, ok := grid.Normalize(label)
	if !ok {
		return nil
	}
	return m.cells[key]
}

// Text returns the raw text at (row, col).
func (m *Memory) Text(row, col int) string {
	if c := m.cells[grid.Label(row, col)]; c != nil {
		return c.Text
	}
	return ""
}

// Labels returns the labels of all non-empty cells in sorted order.
func (m *Memory) Labels() []string {
	out := make([]string, 0, len(m.cells))
	for k := range m.cells {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Snapshot copies the raw text of every cell, keyed by label.
func (m *Memory) Snapshot() map[string]string {
	out := make(map[string]string, len(m.cells))
	for k, c := range m.cells {
		out[k] = c.Text
	}
	return out
}

// Bounds returns the highest used 0-based row and column, or -1, -1 for an
// empty sheet.
func (m *Memory) Bounds() (maxRow, maxCol int) {
	maxRow, maxCol = -1, -1
	for k := range m.cells {
		r, c, _ := grid.ParseCellRef(k)
		maxRow = max(maxRow, r)
		maxCol = max(maxCol, c)
	}
	return maxRow, maxCol
}

// Formula, Error and Value make Memory a formula.Resolver.

func (m *Memory) Formula(label string) []string {
	if c := m.cells[label]; c != nil {
		return c.Formula
	}
	return nil
}

func (m *Memory) Error(label string) formula.ErrorCode {
	if c := m.cells[label]; c != nil {
		return c.Err
	}
	return formula.EmptyFormula
}

func (m *Memory) Value(label string) float64 {
	if c := m.cells[label]; c != nil {
		return c.Value
	}
	return 0
}

// Display renders the cell at (row, col) for the grid.
func (m *Memory) Display(row, col int) string {
	c := m.cells[grid.Label(row, col)]
	if c == nil {
		return ""
	}
	if len(c.Formula) == 0 && !c.IsFormula() {
		return c.Text
	}
	if c.Err != formula.NoError {
		return c.Err.Display()
	}
	return FormatNumber(c.Value)
}

// FormatNumber prints whole numbers without a fraction and everything else
// with at most six decimals.
func FormatNumber(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return formula.InvalidNumber.Display()
	}
	if math.Abs(v-math.Round(v)) < 1e-9 {
		// adding 0 turns -0 into 0
		return strconv.FormatFloat(math.Round(v)+0, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
