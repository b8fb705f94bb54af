package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grider/internal/config"
	"grider/internal/formula"
)

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(80, 24)
	return NewApp(config.Default(), nil), s
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func typeText(a *App, s tcell.Screen, text string) {
	for _, r := range text {
		a.HandleKeyEvent(s, runeKey(r))
	}
}

// rowText reads back one screen row.
func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestNewAppUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.DefaultWidth = 10
	cfg.Layout.InitialCols = 3
	cfg.Layout.InitialRows = 0
	a := NewApp(cfg, nil)
	assert.Equal(t, []int{10, 10, 10}, a.ColWidths)
	assert.Len(t, a.RowHeights, 1)
	assert.Equal(t, ModeNormal, a.Mode)
}

func TestEditCommitsFormula(t *testing.T) {
	a, s := newTestApp(t)

	a.HandleKeyEvent(s, key(tcell.KeyEnter))
	require.Equal(t, ModeInsert, a.Mode)
	typeText(a, s, "6")
	a.HandleKeyEvent(s, key(tcell.KeyEnter))
	assert.Equal(t, ModeNormal, a.Mode)
	assert.Equal(t, 1, a.CurRow)

	a.HandleKeyEvent(s, runeKey('i'))
	typeText(a, s, "=a1*7")
	a.HandleKeyEvent(s, key(tcell.KeyEnter))

	assert.Equal(t, "42", a.Sheet.Display(1, 0))
	assert.Equal(t, 42.0, a.Sheet.Value("A2"))
}

func TestEditReplacesThenAppends(t *testing.T) {
	a, s := newTestApp(t)
	a.SetCellValue("old")

	a.HandleKeyEvent(s, key(tcell.KeyEnter))
	assert.Equal(t, "old", a.InputBuf)
	typeText(a, s, "ne")
	assert.Equal(t, "ne", a.InputBuf)
	a.HandleKeyEvent(s, key(tcell.KeyBackspace2))
	typeText(a, s, "ew")
	assert.Equal(t, "new", a.InputBuf)

	a.HandleKeyEvent(s, key(tcell.KeyEsc))
	assert.Equal(t, ModeNormal, a.Mode)
	assert.Equal(t, "old", a.Sheet.Text(0, 0))
}

func TestCtrlEnterStays(t *testing.T) {
	a, s := newTestApp(t)
	a.HandleKeyEvent(s, runeKey('i'))
	typeText(a, s, "1")
	a.HandleKeyEvent(s, tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModCtrl))
	assert.Equal(t, 0, a.CurRow)
	assert.Equal(t, "1", a.Sheet.Text(0, 0))
}

func TestMovementAndResize(t *testing.T) {
	a, s := newTestApp(t)

	a.HandleKeyEvent(s, key(tcell.KeyUp))
	a.HandleKeyEvent(s, key(tcell.KeyLeft))
	assert.Equal(t, 0, a.CurRow)
	assert.Equal(t, 0, a.CurCol)

	for i := 0; i < 9; i++ {
		a.HandleKeyEvent(s, key(tcell.KeyRight))
	}
	assert.Equal(t, 9, a.CurCol)
	assert.Len(t, a.ColWidths, 10)

	a.HandleKeyEvent(s, tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModCtrl))
	assert.Equal(t, 17, a.ColWidths[9])
	a.HandleKeyEvent(s, tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModCtrl))
	assert.Equal(t, 2, a.RowHeights[0])

	a.EnsureCursorVisible(s)
	assert.Greater(t, a.ViewCol, 0)
}

func TestStructureKeysShiftCells(t *testing.T) {
	a, s := newTestApp(t)
	require.NoError(t, a.Sheet.Load(map[string]string{"A1": "1", "A2": "2", "B1": "3"}))

	a.HandleKeyEvent(s, key(tcell.KeyF2))
	assert.Equal(t, "2", a.Sheet.Text(2, 0))
	assert.Len(t, a.RowHeights, 9)

	a.HandleKeyEvent(s, key(tcell.KeyF3))
	assert.Equal(t, "3", a.Sheet.Text(0, 2))

	a.HandleKeyEvent(s, key(tcell.KeyF4))
	assert.Equal(t, "", a.Sheet.Text(0, 0))
	assert.Equal(t, "2", a.Sheet.Text(1, 0))

	a.HandleKeyEvent(s, key(tcell.KeyF5))
	assert.Len(t, a.ColWidths, 8)

	a.HandleKeyEvent(s, key(tcell.KeyDown))
	a.HandleKeyEvent(s, key(tcell.KeyDelete))
	assert.Empty(t, a.Sheet.Labels())
}

func TestHelpOverlay(t *testing.T) {
	a, s := newTestApp(t)
	a.HandleKeyEvent(s, runeKey('?'))
	require.True(t, a.HelpVisible)

	a.HandleKeyEvent(s, runeKey('q'))
	assert.False(t, a.Quit)
	a.Draw(s)

	a.HandleKeyEvent(s, key(tcell.KeyEsc))
	assert.False(t, a.HelpVisible)
	a.HandleKeyEvent(s, runeKey('q'))
	assert.True(t, a.Quit)
}

func TestDrawShowsValuesAndErrors(t *testing.T) {
	a, s := newTestApp(t)
	require.NoError(t, a.Sheet.Load(map[string]string{
		"A1": "2",
		"B1": "=A1+3",
		"C1": "=A1/0",
	}))
	a.Draw(s)

	header := rowText(s, 0)
	assert.Contains(t, header, "A")
	assert.Contains(t, header, "B")

	first := rowText(s, 1)
	assert.Contains(t, first, "5")
	assert.Contains(t, first, formula.DivideByZero.Display())

	a.CurCol = 2
	a.Draw(s)
	assert.Contains(t, rowText(s, 22), "=A1/0")
	assert.Contains(t, rowText(s, 22), "[divideByZero]")
}

func TestPopupFormula(t *testing.T) {
	a, s := newTestApp(t)
	for _, r := range "1+2" {
		s.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	a.HandleKeyEvent(s, runeKey('='))
	assert.Equal(t, "=1+2", a.Sheet.Text(0, 0))
	assert.Equal(t, 3.0, a.Sheet.Value("A1"))
}

func TestPopupCancel(t *testing.T) {
	a, s := newTestApp(t)
	s.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	s.InjectKey(tcell.KeyEsc, 0, tcell.ModNone)

	text, ok := a.PopupInput(s, ":", "")
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestCommands(t *testing.T) {
	a, _ := newTestApp(t)

	require.NoError(t, a.ExecuteCommand("cw 12"))
	assert.Equal(t, 12, a.ColWidths[0])
	require.NoError(t, a.ExecuteCommand("rh 3"))
	assert.Equal(t, 3, a.RowHeights[7])

	assert.Error(t, a.ExecuteCommand("cw 2"))
	assert.Error(t, a.ExecuteCommand("rh x"))
	assert.ErrorIs(t, a.ExecuteCommand("o"), errUsage)
	assert.ErrorIs(t, a.ExecuteCommand("w"), errUsage)
	assert.ErrorContains(t, a.ExecuteCommand("frobnicate"), "unknown command")
	assert.NoError(t, a.ExecuteCommand("   "))

	require.NoError(t, a.ExecuteCommand("recalc"))
	assert.Equal(t, "recalculated", a.Message)

	require.NoError(t, a.ExecuteCommand("quit"))
	assert.True(t, a.Quit)
}

func TestRunCommandReportsErrors(t *testing.T) {
	a, _ := newTestApp(t)
	a.runCommand("o " + filepath.Join(t.TempDir(), "missing.grider"))
	assert.Contains(t, a.Message, "open")
}

func TestSaveAndOpenDocument(t *testing.T) {
	a, _ := newTestApp(t)
	require.NoError(t, a.Sheet.Load(map[string]string{"A1": "4", "B3": "=A1*A1", "J12": "far"}))
	a.ColWidths[1] = 20

	path := filepath.Join(t.TempDir(), "book.grider")
	require.NoError(t, a.ExecuteCommand("w "+path))
	assert.Equal(t, path, a.FileName)

	b, _ := newTestApp(t)
	b.CurRow, b.CurCol = 3, 3
	require.NoError(t, b.ExecuteCommand("o "+path))
	assert.Equal(t, 16.0, b.Sheet.Value("B3"))
	assert.Equal(t, 20, b.ColWidths[1])
	assert.GreaterOrEqual(t, len(b.ColWidths), 10)
	assert.GreaterOrEqual(t, len(b.RowHeights), 12)
	assert.Equal(t, 0, b.CurRow)
	assert.Equal(t, 0, b.CurCol)
}

func TestSaveAndOpenCSV(t *testing.T) {
	a, _ := newTestApp(t)
	require.NoError(t, a.Sheet.Load(map[string]string{"A1": "1", "B1": "=A1+1"}))

	base := filepath.Join(t.TempDir(), "out")
	require.NoError(t, a.ExecuteCommand("w "+base+" csv"))
	_, err := os.Stat(base + ".csv")
	require.NoError(t, err)

	require.NoError(t, a.ExecuteCommand("w"))
	assert.Equal(t, base+".csv", a.FileName)

	b, _ := newTestApp(t)
	require.NoError(t, b.Open(base+".csv", ""))
	assert.Equal(t, 2.0, b.Sheet.Value("B1"))
}
