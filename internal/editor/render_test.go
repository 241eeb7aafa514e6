package editor

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ked-editor/ked/internal/buffer"
	"github.com/ked-editor/ked/internal/config"
	"github.com/ked-editor/ked/internal/syntax"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func screenRow(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) > 0 {
			sb.WriteRune(c.Runes[0])
		}
	}
	return sb.String()
}

func TestRenderTextAndTildes(t *testing.T) {
	e := newTestEditor("let x = 1;", "second")
	s := newSimScreen(t, 20, 6)

	e.Render(s)

	if got := screenRow(s, 0); !strings.HasPrefix(got, "let x = 1;") {
		t.Fatalf("row0 = %q", got)
	}
	if got := screenRow(s, 1); !strings.HasPrefix(got, "second") {
		t.Fatalf("row1 = %q", got)
	}
	// Rows past the buffer end show a tilde, rendered view is h-2 rows.
	if got := screenRow(s, 2); !strings.HasPrefix(got, "~") {
		t.Fatalf("row2 = %q, want tilde", got)
	}
}

func TestRenderStatusline(t *testing.T) {
	e := newTestEditor("abc")
	s := newSimScreen(t, 70, 6)

	e.Render(s)

	status := screenRow(s, 4)
	if !strings.Contains(status, "[No Name]") {
		t.Fatalf("status = %q, want unnamed marker", status)
	}
	if !strings.Contains(status, "(modified)") {
		t.Fatalf("status = %q, want dirty marker", status)
	}
	if !strings.Contains(status, "Ln 1, Col 1") {
		t.Fatalf("status = %q, want position", status)
	}
	if !strings.Contains(status, "no filetype") {
		t.Fatalf("status = %q, want profile name", status)
	}
}

func TestRenderSearchPrompt(t *testing.T) {
	e := newTestEditor("one two")
	s := newSimScreen(t, 60, 6)

	press(e, tcell.KeyCtrlF)
	typeText(e, "two")
	e.Render(s)

	msg := screenRow(s, 5)
	if !strings.HasPrefix(msg, "Search (ESC to cancel, arrows to navigate): two") {
		t.Fatalf("message bar = %q", msg)
	}
}

func TestRenderScrollsToCursor(t *testing.T) {
	lines := make([]string, 40)
	for i := range lines {
		lines[i] = "line"
	}
	e := newTestEditor(lines...)
	e.cursor = buffer.Position{X: 0, Y: 30}
	s := newSimScreen(t, 20, 10) // 8 text rows

	e.Render(s)

	if e.scroll.Y != 23 {
		t.Fatalf("scroll.Y = %d, want 23", e.scroll.Y)
	}
}

func TestRenderMatchStyle(t *testing.T) {
	e := newTestEditor("one two")
	s := newSimScreen(t, 20, 6)

	press(e, tcell.KeyCtrlF)
	typeText(e, "two")
	e.Render(s)

	cells, w, _ := s.GetContents()
	matchCell := cells[0*w+4] // 't' of "two"
	if matchCell.Style != e.kindStyles[syntax.KindMatch] {
		t.Fatalf("match cell style = %v", matchCell.Style)
	}
	plainCell := cells[0*w+0]
	if plainCell.Style == e.kindStyles[syntax.KindMatch] {
		t.Fatalf("non-match cell carries match style")
	}
}

func TestRenderKeywordStyle(t *testing.T) {
	e := New(config.Default(), config.DefaultLanguages())
	e.buf = buffer.New(config.DefaultLanguages().Detect("main.rs"))
	pos := buffer.Position{}
	for _, r := range "let x = 1;" {
		e.buf.Insert(pos, r)
		pos.X++
	}
	s := newSimScreen(t, 20, 6)

	e.Render(s)

	cells, w, _ := s.GetContents()
	if cells[0].Style != e.kindStyles[syntax.KindPrimaryKeyword] {
		t.Fatalf("keyword cell style = %v", cells[0].Style)
	}
	if cells[8].Style != e.kindStyles[syntax.KindNumber] {
		t.Fatalf("number cell style = %v, w=%d", cells[8].Style, w)
	}
}

func TestRenderTinyScreenScansOnlyVisible(t *testing.T) {
	e := New(config.Default(), config.DefaultLanguages())
	e.buf = buffer.New(config.DefaultLanguages().Detect("main.rs"))
	pos := buffer.Position{}
	for _, r := range "/*" {
		e.buf.Insert(pos, r)
		pos.X++
	}
	e.buf.Insert(pos, '\n')
	pos = buffer.Position{Y: 1}
	for _, r := range "*/" {
		e.buf.Insert(pos, r)
		pos.X++
	}

	// Two rows leave no text rows; classification must stop at the first
	// line instead of falling through to a whole-buffer pass.
	s := newSimScreen(t, 10, 2)
	e.Render(s)

	runs := e.buf.Line(1).Render(0, 2)
	if len(runs) != 1 || runs[0].Kind != syntax.KindNone {
		t.Fatalf("line 1 runs = %+v, want a single untagged run", runs)
	}
}
