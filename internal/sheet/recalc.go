package sheet

import (
	"grider/internal/formula"
)

type visitState int

const (
	unvisited visitState = iota
	visiting
	done
)

// Recalculate evaluates every formula cell after the cells it references.
// Cells that reach themselves through references get formula.Cycle; cells
// that merely depend on a cycle inherit that code through the evaluator.
func (m *Memory) Recalculate() {
	state := make(map[string]visitState, len(m.cells))
	for _, label := range m.Labels() {
		m.visit(label, state, nil)
	}
}

func (m *Memory) visit(label string, state map[string]visitState, path []string) {
	c := m.cells[label]
	if c == nil || state[label] == done {
		return
	}
	state[label] = visiting
	path = append(path, label)

	for _, ref := range formula.References(c.Formula) {
		switch state[ref] {
		case visiting:
			m.markCycle(ref, path, state)
		case unvisited:
			m.visit(ref, state, path)
		}
	}

	if state[label] == done {
		// marked as part of a cycle while visiting a reference
		return
	}
	res := m.eval.Evaluate(c.Formula)
	c.Value, c.Err = res.Value, res.Code
	state[label] = done
}

// markCycle flags every cell on path from start onwards.
func (m *Memory) markCycle(start string, path []string, state map[string]visitState) {
	onCycle := false
	for _, label := range path {
		if label == start {
			onCycle = true
		}
		if !onCycle {
			continue
		}
		c := m.cells[label]
		c.Value, c.Err = 0, formula.Cycle
		state[label] = done
	}
	m.logger.Debug("reference cycle", "from", start, "path", path)
}
