package app

import (
	"fmt"
	"strconv"
	"strings"

	"grider/internal/grid"

	"github.com/gdamore/tcell/v2"
)

const helpText = "\n i / Enter - edit \n Ctrl+Enter - save&stay \n Shift/Alt+Enter - newline \n Del - clear cell \n : - command \n = - formula \n Ctrl←/Ctrl→ - col width \n Ctrl↑/Ctrl↓ - row height \n F2/F3 - add row/col \n F4 - delete row \n F5 - delete col \n PgUp/PgDn/Home/End - scroll \n :w file [csv] | :o file [csv] | :recalc \n "

var (
	headerStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	activeStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	selectedStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
	errorStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	statusStyle   = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	cursorStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorLightGray)
)

// ----------------------------- Drawing -----------------------------

func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()

	a.drawHeader(s, w)
	a.drawRows(s, w, h)
	a.drawStatus(s, w, h)

	if a.HelpVisible {
		a.drawHelpPopup(s, helpText)
	}
	a.placeCursor(s, w, h)
	s.Show()
}

func (a *App) drawHeader(s tcell.Screen, w int) {
	x := a.LeftGutter
	for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
		wc := a.ColWidths[c]
		style := headerStyle
		if c == a.CurCol {
			style = activeStyle
			a.printTextFixedWidth(s, x, 0, "", style, min(wc, w-x))
		}
		a.printPadded(s, x, 0, grid.ColToName(c), style, wc)
		x += wc
	}
}

func (a *App) drawRows(s tcell.Screen, w, h int) {
	bottom := h - a.StatusLines
	y := 1
	for r := a.ViewRow; r < len(a.RowHeights) && y < bottom; r++ {
		gutter := headerStyle
		if r == a.CurRow {
			gutter = activeStyle
		}
		a.printTextFixedWidth(s, 0, y, strconv.Itoa(r+1), gutter, a.LeftGutter-1)

		hh := a.RowHeights[r]
		x := a.LeftGutter
		for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
			wc := a.ColWidths[c]
			selected := r == a.CurRow && c == a.CurCol

			text := a.Sheet.Display(r, c)
			style := tcell.StyleDefault
			if cell := a.Sheet.Cell(grid.Label(r, c)); cell != nil && cell.Err != "" && len(cell.Formula) > 0 {
				style = errorStyle
			}
			if selected {
				style = selectedStyle
				if a.Mode == ModeInsert {
					text = a.InputBuf
				}
			}

			lines := a.splitLines(text, hh)
			for dy := 0; dy < hh && y+dy < bottom; dy++ {
				a.printTextFixedWidth(s, x, y+dy, "", style, min(wc, w-x))
				a.printPadded(s, x, y+dy, lines[dy], style, wc)
			}
			x += wc
		}
		y += hh
	}
}

func (a *App) drawStatus(s tcell.Screen, w, h int) {
	statusY := max(h-a.StatusLines, 0)
	label := a.CurrentLabel()

	info := fmt.Sprintf("Mode:%s  %s", a.Mode, label)
	if cell := a.Sheet.Cell(label); cell != nil {
		info += "  " + strings.ReplaceAll(cell.Text, "\n", "⏎")
		if cell.Err != "" && len(cell.Formula) > 0 {
			info += "  [" + string(cell.Err) + "]"
		}
	}
	if a.FileName != "" {
		info += "  " + a.FileName
	}
	a.printTextFixedWidth(s, 0, statusY, info, statusStyle, w)

	second := a.Message
	if a.Mode == ModeInsert {
		second = "EDIT: " + a.InputBuf
	}
	if a.StatusLines > 1 {
		a.printTextFixedWidth(s, 0, statusY+1, second, statusStyle, w)
	}
}

// placeCursor draws a bar after the edited text while in insert mode.
func (a *App) placeCursor(s tcell.Screen, w, h int) {
	s.HideCursor()
	if a.Mode != ModeInsert || a.CurRow < a.ViewRow || a.CurCol < a.ViewCol {
		return
	}
	cellX := a.LeftGutter
	for c := a.ViewCol; c < a.CurCol && c < len(a.ColWidths); c++ {
		cellX += a.ColWidths[c]
	}
	cellY := 1
	for r := a.ViewRow; r < a.CurRow && r < len(a.RowHeights); r++ {
		cellY += a.RowHeights[r]
	}
	if cellX >= w || cellY >= h-a.StatusLines {
		return
	}

	lines := strings.Split(a.InputBuf, "\n")
	last := len(lines) - 1
	colW, rowH := a.ColWidths[a.CurCol], a.RowHeights[a.CurRow]
	innerW := colW - 2*a.CellPadding

	cx := cellX + min(runeLen(lines[last]), max(0, colW-1))
	if innerW >= 1 {
		cx = cellX + a.CellPadding + min(runeLen(lines[last]), innerW-1)
	}
	cy := cellY + min(last, max(0, rowH-1))
	if cx < w && cy < h {
		s.SetContent(cx, cy, '▏', nil, cursorStyle)
	}
}

// ----------------------------- Helpers -----------------------------

// printPadded prints str inside a cell of width wc, honoring CellPadding.
func (a *App) printPadded(s tcell.Screen, x, y int, str string, style tcell.Style, wc int) {
	innerW := wc - 2*a.CellPadding
	if innerW > 0 {
		a.printTextFixedWidth(s, x+a.CellPadding, y, str, style, innerW)
	} else {
		a.printTextFixedWidth(s, x, y, str, style, wc)
	}
}

func (a *App) printTextFixedWidth(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	runes := []rune(str)
	for i := 0; i < width; i++ {
		ch := ' '
		if i < len(runes) {
			ch = runes[i]
		}
		if x+i >= 0 && y >= 0 {
			s.SetContent(x+i, y, ch, nil, style)
		}
	}
}

func (a *App) splitLines(text string, n int) []string {
	out := make([]string, max(n, 0))
	copy(out, strings.Split(text, "\n"))
	return out
}

func (a *App) drawHelpPopup(s tcell.Screen, help string) {
	w, h := s.Size()
	if w < 10 || h < 5 {
		return
	}

	const padding = 4
	maxPW, maxPH := w-6, h-6

	innerW := min(maxPW-padding*2, 50)
	if innerW < 30 {
		innerW = max(30, maxPW-padding*2)
	}
	innerW = min(innerW, maxPW-padding*2)

	lines := wrapText(help, innerW)
	if limit := maxPH - padding*2; limit >= 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	innerH := max(len(lines), 3)

	pw, ph := innerW+padding*2, innerH+padding*2
	left, top := (w-pw)/2, (h-ph)/2

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDefault)
	drawFrame(s, left, top, pw, ph, style)

	vOffset := (ph - padding*2 - innerH) / 2
	for i, ln := range lines {
		a.printTextFixedWidth(s, left+padding, top+padding+vOffset+i, ln, style, innerW)
	}
}

// drawFrame clears a box and draws a single-line border around it.
func drawFrame(s tcell.Screen, left, top, bw, bh int, style tcell.Style) {
	for y := top; y < top+bh; y++ {
		for x := left; x < left+bw; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
	for x := left + 1; x < left+bw-1; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, style)
		s.SetContent(x, top+bh-1, tcell.RuneHLine, nil, style)
	}
	for y := top + 1; y < top+bh-1; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, style)
		s.SetContent(left+bw-1, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, style)
	s.SetContent(left+bw-1, top, tcell.RuneURCorner, nil, style)
	s.SetContent(left, top+bh-1, tcell.RuneLLCorner, nil, style)
	s.SetContent(left+bw-1, top+bh-1, tcell.RuneLRCorner, nil, style)
}

// wrapText breaks s into lines of at most width runes, one leading space of
// indent per line, keeping blank lines between paragraphs.
func wrapText(s string, width int) []string {
	if width <= 2 {
		return []string{s}
	}
	var result []string
	paragraphs := strings.Split(s, "\n")
	for pi, para := range paragraphs {
		words := strings.Fields(para)
		if len(words) == 0 {
			result = append(result, "")
			continue
		}
		cur := " "
		for _, word := range words {
			for _, chunk := range chunkString(word, width-1) {
				switch {
				case runeLen(cur) == 1:
					cur += chunk
				case runeLen(cur)+1+runeLen(chunk) <= width:
					cur += " " + chunk
				default:
					result = append(result, cur)
					cur = " " + chunk
				}
			}
		}
		result = append(result, cur)
		if pi < len(paragraphs)-1 {
			result = append(result, "")
		}
	}
	return result
}

func runeLen(s string) int {
	return len([]rune(s))
}

func chunkString(s string, size int) []string {
	r := []rune(s)
	var out []string
	for i := 0; i < len(r); i += size {
		out = append(out, string(r[i:min(i+size, len(r))]))
	}
	return out
}

// ----------------------------- Viewport / Geometry -----------------------------

// ComputeVisible returns how many rows and columns fit from the view origin.
func (a *App) ComputeVisible(s tcell.Screen) (visibleRows, visibleCols int) {
	w, h := s.Size()
	usableW := max(w-a.LeftGutter, 1)
	usableH := max(h-a.StatusLines-1, 1)
	return fitCount(a.RowHeights[min(a.ViewRow, len(a.RowHeights)):], usableH),
		fitCount(a.ColWidths[min(a.ViewCol, len(a.ColWidths)):], usableW)
}

func fitCount(sizes []int, room int) int {
	n, sum := 0, 0
	for _, sz := range sizes {
		if sum+sz > room {
			break
		}
		sum += sz
		n++
	}
	return max(n, 1)
}

func (a *App) EnsureCursorVisible(s tcell.Screen) {
	if s == nil {
		return
	}
	visibleRows, visibleCols := a.ComputeVisible(s)

	if a.CurCol < a.ViewCol {
		a.ViewCol = a.CurCol
	} else if a.CurCol >= a.ViewCol+visibleCols {
		a.ViewCol = a.CurCol - visibleCols + 1
	}
	a.ViewCol = min(max(a.ViewCol, 0), max(len(a.ColWidths)-1, 0))

	if a.CurRow < a.ViewRow {
		a.ViewRow = a.CurRow
	} else if a.CurRow >= a.ViewRow+visibleRows {
		a.ViewRow = a.CurRow - visibleRows + 1
	}
	a.ViewRow = min(max(a.ViewRow, 0), max(len(a.RowHeights)-1, 0))
}
