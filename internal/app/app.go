package app

import (
	"log/slog"

	"grider/internal/config"
	"grider/internal/grid"
	"grider/internal/sheet"

	"github.com/gdamore/tcell/v2"
)

const (
	ModeNormal = "normal"
	ModeInsert = "insert"
)

type App struct {
	// layout
	LeftGutter    int
	StatusLines   int
	DefaultWidth  int
	DefaultHeight int
	CellPadding   int

	ColWidths  []int
	RowHeights []int
	Sheet      *sheet.Memory

	// cursor / view
	CurRow  int
	CurCol  int
	ViewRow int
	ViewCol int

	// UI state
	Mode     string
	InputBuf string
	Message  string
	FileName string
	Quit     bool

	// editing behavior options
	EnterStartsEdit     bool
	PrintableStartsEdit bool
	MoveAfterEnter      bool
	SelectAllOnEdit     bool
	ReplaceOnNextRune   bool

	HelpVisible bool

	logger *slog.Logger
}

func NewApp(cfg config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		LeftGutter:          cfg.Layout.LeftGutter,
		StatusLines:         cfg.Layout.StatusLines,
		DefaultWidth:        cfg.Layout.DefaultWidth,
		DefaultHeight:       cfg.Layout.DefaultHeight,
		CellPadding:         cfg.Layout.CellPadding,
		Sheet:               sheet.New(logger),
		Mode:                ModeNormal,
		EnterStartsEdit:     cfg.Editing.EnterStartsEdit,
		PrintableStartsEdit: cfg.Editing.PrintableStartsEdit,
		MoveAfterEnter:      cfg.Editing.MoveAfterEnter,
		SelectAllOnEdit:     cfg.Editing.SelectAllOnEdit,
		logger:              logger,
	}
	a.EnsureColExists(max(cfg.Layout.InitialCols, 1) - 1)
	a.EnsureRowExists(max(cfg.Layout.InitialRows, 1) - 1)
	return a
}

// CurrentLabel is the label under the cursor, e.g. "B3".
func (a *App) CurrentLabel() string {
	return grid.Label(a.CurRow, a.CurCol)
}

// ----------------------------- Events / Input -----------------------------

func (a *App) HandleKeyEvent(s tcell.Screen, ev *tcell.EventKey) {
	if a.Mode == ModeInsert {
		a.handleInsertKey(ev)
		return
	}

	// the help overlay swallows everything except its close keys
	if a.HelpVisible {
		if ev.Key() == tcell.KeyEsc || ev.Rune() == '?' {
			a.HelpVisible = false
		}
		return
	}

	mod := ev.Modifiers()
	ctrl := mod&tcell.ModCtrl != 0
	switch ev.Key() {
	case tcell.KeyEsc:
		a.Message = ""
	case tcell.KeyCtrlC:
		a.Quit = true
	case tcell.KeyUp:
		if ctrl {
			if a.RowHeights[a.CurRow] > 1 {
				a.RowHeights[a.CurRow]--
			}
		} else if a.CurRow > 0 {
			a.CurRow--
		}
	case tcell.KeyDown:
		if ctrl {
			a.RowHeights[a.CurRow]++
		} else {
			a.CurRow++
			a.EnsureRowExists(a.CurRow)
		}
	case tcell.KeyLeft:
		if ctrl {
			if a.ColWidths[a.CurCol] > 4 {
				a.ColWidths[a.CurCol]--
			}
		} else if a.CurCol > 0 {
			a.CurCol--
		}
	case tcell.KeyRight:
		if ctrl {
			a.ColWidths[a.CurCol]++
		} else {
			a.CurCol++
			a.EnsureColExists(a.CurCol)
		}
	case tcell.KeyPgUp:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow = max(0, a.ViewRow-vr)
	case tcell.KeyPgDn:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow = min(a.ViewRow+vr, max(0, len(a.RowHeights)-1))
	case tcell.KeyHome:
		a.ViewCol, a.ViewRow = 0, 0
	case tcell.KeyEnd:
		a.ViewCol = max(0, len(a.ColWidths)-1)
		a.ViewRow = max(0, len(a.RowHeights)-1)
	case tcell.KeyF2:
		a.InsertRow(a.CurRow + 1)
	case tcell.KeyF3:
		a.InsertColumn(a.CurCol + 1)
	case tcell.KeyF4:
		a.DeleteRow(a.CurRow)
	case tcell.KeyF5:
		a.DeleteColumn(a.CurCol)
	case tcell.KeyDelete:
		a.Sheet.Clear(a.CurrentLabel())
	case tcell.KeyEnter:
		if a.EnterStartsEdit {
			a.startEdit()
		}
	case tcell.KeyRune:
		a.handleRune(s, ev.Rune())
	}
}

func (a *App) handleRune(s tcell.Screen, r rune) {
	switch r {
	case 'q':
		a.Quit = true
	case 'i':
		a.startEdit()
	case ':':
		if cmd, ok := a.PopupInput(s, ":", ""); ok {
			a.runCommand(cmd)
		}
	case '=':
		if text, ok := a.PopupInput(s, "", "="); ok {
			a.SetCellValue(text)
		}
	case '?':
		a.HelpVisible = true
	default:
		if a.PrintableStartsEdit {
			a.Mode = ModeInsert
			a.InputBuf = string(r)
			a.ReplaceOnNextRune = false
		}
	}
}

func (a *App) handleInsertKey(ev *tcell.EventKey) {
	mod := ev.Modifiers()
	switch ev.Key() {
	case tcell.KeyEsc:
		a.stopEdit()
	case tcell.KeyEnter:
		// Shift+Enter or Alt+Enter keeps editing with a newline
		if mod&(tcell.ModShift|tcell.ModAlt) != 0 {
			a.InputBuf += "\n"
			return
		}
		a.SetCellValue(a.InputBuf)
		a.stopEdit()
		// Ctrl+Enter saves and stays on the cell
		if mod&tcell.ModCtrl == 0 && a.MoveAfterEnter {
			a.CurRow++
			a.EnsureRowExists(a.CurRow)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if buf := []rune(a.InputBuf); len(buf) > 0 {
			a.InputBuf = string(buf[:len(buf)-1])
		}
		a.ReplaceOnNextRune = false
	case tcell.KeyRune:
		if a.ReplaceOnNextRune {
			a.InputBuf = string(ev.Rune())
			a.ReplaceOnNextRune = false
		} else {
			a.InputBuf += string(ev.Rune())
		}
	}
}

func (a *App) startEdit() {
	a.Mode = ModeInsert
	a.InputBuf = a.Sheet.Text(a.CurRow, a.CurCol)
	a.ReplaceOnNextRune = a.SelectAllOnEdit
}

func (a *App) stopEdit() {
	a.Mode = ModeNormal
	a.InputBuf = ""
	a.ReplaceOnNextRune = false
}

// SetCellValue stores text in the current cell; empty text clears it.
func (a *App) SetCellValue(text string) {
	a.EnsureColExists(a.CurCol)
	a.EnsureRowExists(a.CurRow)
	label := a.CurrentLabel()
	if err := a.Sheet.Set(label, text); err != nil {
		a.Message = err.Error()
		a.logger.Error("set cell", "cell", label, "err", err)
		return
	}
	if c := a.Sheet.Cell(label); c != nil && c.Err != "" {
		a.logger.Debug("cell error", "cell", label, "code", string(c.Err))
	}
}

// ----------------------------- Structure -----------------------------

func (a *App) InsertRow(idx int) {
	idx = min(max(idx, 0), len(a.RowHeights))
	a.RowHeights = insertAt(a.RowHeights, idx, a.DefaultHeight)
	a.Sheet.InsertRow(idx)
}

func (a *App) InsertColumn(idx int) {
	idx = min(max(idx, 0), len(a.ColWidths))
	a.ColWidths = insertAt(a.ColWidths, idx, a.DefaultWidth)
	a.Sheet.InsertColumn(idx)
}

func (a *App) DeleteRow(idx int) {
	if len(a.RowHeights) <= 1 || idx < 0 || idx >= len(a.RowHeights) {
		return
	}
	a.RowHeights = append(a.RowHeights[:idx], a.RowHeights[idx+1:]...)
	a.Sheet.DeleteRow(idx)
	a.CurRow = min(a.CurRow, len(a.RowHeights)-1)
}

func (a *App) DeleteColumn(idx int) {
	if len(a.ColWidths) <= 1 || idx < 0 || idx >= len(a.ColWidths) {
		return
	}
	a.ColWidths = append(a.ColWidths[:idx], a.ColWidths[idx+1:]...)
	a.Sheet.DeleteColumn(idx)
	a.CurCol = min(a.CurCol, len(a.ColWidths)-1)
}

func (a *App) EnsureColExists(idx int) {
	for len(a.ColWidths) <= idx {
		a.ColWidths = append(a.ColWidths, a.DefaultWidth)
	}
}

func (a *App) EnsureRowExists(idx int) {
	for len(a.RowHeights) <= idx {
		a.RowHeights = append(a.RowHeights, a.DefaultHeight)
	}
}

func insertAt(s []int, idx, v int) []int {
	s = append(s, 0)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}
