package sheet

import "grider/internal/grid"

// Structure edits move cells only. References inside formulas keep their
// labels, so a formula that pointed at a moved cell now reads whatever is
// at the old label.

// InsertColumn shifts every cell at column idx or further one to the right.
func (m *Memory) InsertColumn(idx int) {
	m.remap(func(r, c int) (int, int, bool) {
		if c >= idx {
			return r, c + 1, true
		}
		return r, c, true
	})
}

// InsertRow shifts every cell at row idx or further one down.
func (m *Memory) InsertRow(idx int) {
	m.remap(func(r, c int) (int, int, bool) {
		if r >= idx {
			return r + 1, c, true
		}
		return r, c, true
	})
}

// DeleteRow drops row idx and moves the rows below it up.
func (m *Memory) DeleteRow(idx int) {
	m.remap(func(r, c int) (int, int, bool) {
		switch {
		case r == idx:
			return 0, 0, false
		case r > idx:
			return r - 1, c, true
		}
		return r, c, true
	})
}

// DeleteColumn drops column idx and moves the columns right of it left.
func (m *Memory) DeleteColumn(idx int) {
	m.remap(func(r, c int) (int, int, bool) {
		switch {
		case c == idx:
			return 0, 0, false
		case c > idx:
			return r, c - 1, true
		}
		return r, c, true
	})
}

func (m *Memory) remap(move func(r, c int) (int, int, bool)) {
	next := make(map[string]*Cell, len(m.cells))
	for label, cell := range m.cells {
		r, c, ok := grid.ParseCellRef(label)
		if !ok {
			continue
		}
		if nr, nc, keep := move(r, c); keep {
			next[grid.Label(nr, nc)] = cell
		}
	}
	m.cells = next
	m.Recalculate()
}
