package app

import (
	"github.com/gdamore/tcell/v2"
)

const maxPopupInput = 4096

// PopupInput shows a modal one-line input box over the grid. It returns the
// entered text and true on Enter, or "" and false on Esc.
func (a *App) PopupInput(s tcell.Screen, prompt, initial string) (string, bool) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorReset)

	promptRunes := []rune(prompt)
	buf := []rune(initial)
	pos := len(buf)

	const boxH = 3
	var boxW, left, top int
	layout := func() {
		w, h := s.Size()
		contentW := min(max(20, len(promptRunes)+len(buf)+2), w-4)
		boxW = contentW + 4
		left = (w - boxW) / 2
		top = (h - boxH) / 2
	}

	drawBox := func() {
		drawFrame(s, left, top, boxW, boxH, style)

		x, y := left+2, top+1
		for i, r := range promptRunes {
			s.SetContent(x+i, y, r, nil, style)
		}
		x += len(promptRunes) + 1

		field := max(boxW-4-len(promptRunes), 1)
		start := 0
		if len(buf) > field && pos > field {
			start = pos - field
		}
		visible := buf[start:min(start+field, len(buf))]
		for i := 0; i < field; i++ {
			r := ' '
			if i < len(visible) {
				r = visible[i]
			}
			s.SetContent(x+i, y, r, nil, style)
		}
		s.ShowCursor(max(x+pos-start, left+1), y)
	}

	redraw := func() {
		a.Draw(s)
		drawBox()
		s.Show()
	}
	finish := func() {
		s.HideCursor()
		a.Draw(s)
	}

	layout()
	redraw()
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			// screen finalized
			return "", false
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEsc:
				finish()
				return "", false
			case tcell.KeyEnter:
				finish()
				return string(buf), true
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if pos > 0 {
					buf = append(buf[:pos-1], buf[pos:]...)
					pos--
				}
			case tcell.KeyDelete:
				if pos < len(buf) {
					buf = append(buf[:pos], buf[pos+1:]...)
				}
			case tcell.KeyLeft:
				pos = max(pos-1, 0)
			case tcell.KeyRight:
				pos = min(pos+1, len(buf))
			case tcell.KeyHome:
				pos = 0
			case tcell.KeyEnd:
				pos = len(buf)
			case tcell.KeyRune:
				if len(buf) < maxPopupInput {
					buf = append(buf[:pos], append([]rune{ev.Rune()}, buf[pos:]...)...)
					pos++
				}
			}
			redraw()
		case *tcell.EventResize:
			s.Sync()
			layout()
			redraw()
		}
	}
}
