package editor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/ked-editor/ked/internal/buffer"
	"github.com/ked-editor/ked/internal/syntax"
)

// Render paints the full frame: text rows, status line, message bar and
// cursor. Classification runs first, bounded to the visible rows, so a
// huge file only pays for what is on screen.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	viewHeight := h - 2
	if viewHeight < 0 {
		viewHeight = 0
	}
	e.viewHeight = viewHeight
	e.ensureCursorVisible(viewHeight, w)

	// until must stay non-negative even when no text rows fit; a negative
	// bound means "scan everything" to the buffer.
	until := e.scroll.Y + viewHeight - 1
	if until < e.scroll.Y {
		until = e.scroll.Y
	}
	e.buf.Highlight(e.searchWord(), until)

	s.SetStyle(e.styleMain)
	s.Clear()

	for y := 0; y < viewHeight; y++ {
		line := e.buf.Line(e.scroll.Y + y)
		if line == nil {
			s.SetContent(0, y, '~', nil, e.styleMain)
			continue
		}
		e.drawLine(s, y, w, line)
	}

	if h >= 2 {
		e.renderStatusline(s, w, h-2)
	}
	promptLen := e.renderMessageBar(s, w, h-1)

	var cx, cy int
	if e.prompt != promptNone {
		cx, cy = promptLen, h-1
	} else {
		cx = e.visualCol(e.cursor) - e.visualCol(buffer.Position{X: e.scroll.X, Y: e.cursor.Y})
		cy = e.cursor.Y - e.scroll.Y
	}
	if cx >= w {
		cx = w - 1
	}
	if cx < 0 {
		cx = 0
	}
	if cy < 0 || cy >= h {
		s.HideCursor()
	} else {
		s.ShowCursor(cx, cy)
	}
	s.Show()
}

func (e *Editor) ensureCursorVisible(viewHeight, width int) {
	if viewHeight > 0 {
		if e.cursor.Y < e.scroll.Y {
			e.scroll.Y = e.cursor.Y
		}
		if e.cursor.Y >= e.scroll.Y+viewHeight {
			e.scroll.Y = e.cursor.Y - viewHeight + 1
		}
	}
	if width > 0 {
		if e.cursor.X < e.scroll.X {
			e.scroll.X = e.cursor.X
		}
		if e.cursor.X >= e.scroll.X+width {
			e.scroll.X = e.cursor.X - width + 1
		}
	}
}

func (e *Editor) drawLine(s tcell.Screen, y, w int, line *buffer.Line) {
	x := 0
	for _, run := range line.Render(e.scroll.X, e.scroll.X+w) {
		style := e.styleFor(run.Kind)
		g := uniseg.NewGraphemes(run.Text)
		for g.Next() {
			if x >= w {
				return
			}
			r := g.Runes()
			s.SetContent(x, y, r[0], r[1:], style)
			x++
		}
	}
}

func (e *Editor) styleFor(kind syntax.Kind) tcell.Style {
	if int(kind) < len(e.kindStyles) {
		return e.kindStyles[kind]
	}
	return e.styleMain
}

// visualCol converts a cluster column into a screen column, accounting
// for tab expansion in the rendered text.
func (e *Editor) visualCol(pos buffer.Position) int {
	line := e.buf.Line(pos.Y)
	if line == nil {
		return 0
	}
	n := 0
	for _, run := range line.Render(0, pos.X) {
		n += uniseg.GraphemeClusterCount(run.Text)
	}
	return n
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	name := e.buf.Path()
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}
	dirty := ""
	if e.buf.Dirty() {
		dirty = " (modified)"
	}
	left := fmt.Sprintf(" %s%s - %d lines", name, dirty, e.buf.Len())

	right := fmt.Sprintf("%s | Ln %d, Col %d ", e.buf.Profile().Name, e.cursor.Y+1, e.cursor.X+1)
	if e.gitBranch != "" {
		right = formatGitBranch(e.gitBranchSymbol, e.gitBranch) + " | " + right
	}

	for x, r := range composeStatusLine(left, right, w) {
		s.SetContent(x, y, r, nil, e.styleStatus)
	}
}

// renderMessageBar draws the bottom row and returns the column where a
// prompt cursor belongs.
func (e *Editor) renderMessageBar(s tcell.Screen, w, y int) int {
	var text string
	switch e.prompt {
	case promptSave:
		text = "Save as: " + string(e.promptInput)
	case promptSearch:
		text = "Search (ESC to cancel, arrows to navigate): " + string(e.promptInput)
	default:
		text = e.statusMessage
	}
	x := 0
	for _, r := range text {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, e.styleMain)
		x++
	}
	return x
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for len(line) < width-len(rightRunes) {
		line = append(line, ' ')
	}
	line = append(line, rightRunes...)
	return line
}

func formatGitBranch(symbol, branch string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = "git:"
	}
	if strings.HasSuffix(symbol, ":") {
		return symbol + branch
	}
	return symbol + " " + branch
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
