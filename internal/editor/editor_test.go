package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ked-editor/ked/internal/buffer"
	"github.com/ked-editor/ked/internal/config"
)

func newTestEditor(lines ...string) *Editor {
	e := New(config.Default(), config.DefaultLanguages())
	e.viewHeight = 10
	pos := buffer.Position{}
	for i, line := range lines {
		if i > 0 {
			e.buf.Insert(pos, '\n')
			pos = buffer.Position{Y: pos.Y + 1}
		}
		for _, r := range line {
			e.buf.Insert(pos, r)
			pos.X++
		}
	}
	return e
}

func press(e *Editor, key tcell.Key) {
	e.HandleKey(tcell.NewEventKey(key, 0, tcell.ModNone))
}

func typeText(e *Editor, s string) {
	for _, r := range s {
		e.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func bufferLines(e *Editor) []string {
	lines := make([]string, e.buf.Len())
	for y := range lines {
		lines[y] = e.buf.Line(y).String()
	}
	return lines
}

func TestTypeAndSplit(t *testing.T) {
	e := newTestEditor()
	typeText(e, "hi")
	press(e, tcell.KeyEnter)
	typeText(e, "x")

	got := bufferLines(e)
	if len(got) != 2 || got[0] != "hi" || got[1] != "x" {
		t.Fatalf("lines = %q", got)
	}
	if e.cursor != (buffer.Position{X: 1, Y: 1}) {
		t.Fatalf("cursor = %+v", e.cursor)
	}
}

func TestBackspaceJoinsLines(t *testing.T) {
	e := newTestEditor("ab", "cd")
	e.cursor = buffer.Position{X: 0, Y: 1}
	press(e, tcell.KeyBackspace2)

	got := bufferLines(e)
	if len(got) != 1 || got[0] != "abcd" {
		t.Fatalf("lines = %q", got)
	}
	if e.cursor != (buffer.Position{X: 2, Y: 0}) {
		t.Fatalf("cursor = %+v", e.cursor)
	}
}

func TestBackspaceAtOriginIsNoop(t *testing.T) {
	e := newTestEditor("ab")
	press(e, tcell.KeyBackspace2)
	if got := bufferLines(e); got[0] != "ab" {
		t.Fatalf("lines = %q", got)
	}
}

func TestVerticalMoveClampsColumn(t *testing.T) {
	e := newTestEditor("long line", "ab")
	e.cursor = buffer.Position{X: 9, Y: 0}
	press(e, tcell.KeyDown)
	if e.cursor != (buffer.Position{X: 2, Y: 1}) {
		t.Fatalf("cursor = %+v", e.cursor)
	}
}

func TestHorizontalWrap(t *testing.T) {
	e := newTestEditor("ab", "cd")
	e.cursor = buffer.Position{X: 2, Y: 0}
	press(e, tcell.KeyRight)
	if e.cursor != (buffer.Position{X: 0, Y: 1}) {
		t.Fatalf("right wrap cursor = %+v", e.cursor)
	}
	press(e, tcell.KeyLeft)
	if e.cursor != (buffer.Position{X: 2, Y: 0}) {
		t.Fatalf("left wrap cursor = %+v", e.cursor)
	}
}

func TestHomeEnd(t *testing.T) {
	e := newTestEditor("hello")
	e.cursor = buffer.Position{X: 2, Y: 0}
	press(e, tcell.KeyEnd)
	if e.cursor.X != 5 {
		t.Fatalf("End cursor.X = %d", e.cursor.X)
	}
	press(e, tcell.KeyHome)
	if e.cursor.X != 0 {
		t.Fatalf("Home cursor.X = %d", e.cursor.X)
	}
}

func TestQuitConfirmationWhenDirty(t *testing.T) {
	e := newTestEditor()
	typeText(e, "x")

	press(e, tcell.KeyCtrlQ)
	if e.ShouldQuit() {
		t.Fatalf("quit after first press on dirty buffer")
	}
	if e.statusMessage == "" {
		t.Fatalf("no warning message shown")
	}
	press(e, tcell.KeyCtrlQ)
	if e.ShouldQuit() {
		t.Fatalf("quit after second press, quit-times is 2")
	}
	press(e, tcell.KeyCtrlQ)
	if !e.ShouldQuit() {
		t.Fatalf("third press should quit")
	}
}

func TestQuitCountdownResets(t *testing.T) {
	e := newTestEditor()
	typeText(e, "x")
	press(e, tcell.KeyCtrlQ)
	press(e, tcell.KeyCtrlQ)
	press(e, tcell.KeyRight) // any other key resets the countdown
	press(e, tcell.KeyCtrlQ)
	press(e, tcell.KeyCtrlQ)
	if e.ShouldQuit() {
		t.Fatalf("countdown did not reset")
	}
}

func TestQuitCleanBufferIsImmediate(t *testing.T) {
	e := newTestEditor()
	press(e, tcell.KeyCtrlQ)
	if !e.ShouldQuit() {
		t.Fatalf("clean buffer should quit on first press")
	}
}

func TestOpenDetectsProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.rs")
	if err := os.WriteFile(path, []byte("fn main() {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	e := New(config.Default(), config.DefaultLanguages())
	if err := e.Open(path); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if got := e.buf.Profile().Name; got != "Rust" {
		t.Fatalf("profile = %q, want Rust", got)
	}
}

func TestOpenMissingFileStartsNamedBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.rs")
	e := New(config.Default(), config.DefaultLanguages())
	if err := e.Open(path); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if e.buf.Path() != path {
		t.Fatalf("path = %q", e.buf.Path())
	}
	if e.buf.Len() != 0 {
		t.Fatalf("new buffer has %d lines", e.buf.Len())
	}
}

func TestSaveWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	e := newTestEditor("hello")
	e.buf.SetPath(path)

	press(e, tcell.KeyCtrlS)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("file contents = %q", data)
	}
	if e.buf.Dirty() {
		t.Fatalf("buffer still dirty after save")
	}
}

func TestSaveUnnamedPromptsForName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "named.rs")
	e := newTestEditor("fn")

	press(e, tcell.KeyCtrlS)
	if e.prompt != promptSave {
		t.Fatalf("no save prompt after Ctrl-S on unnamed buffer")
	}
	typeText(e, path)
	press(e, tcell.KeyEnter)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not written: %v", err)
	}
	// The new name drives language detection.
	if got := e.buf.Profile().Name; got != "Rust" {
		t.Fatalf("profile = %q, want Rust", got)
	}
}

func TestSaveAsEscAborts(t *testing.T) {
	e := newTestEditor("x")
	press(e, tcell.KeyCtrlS)
	press(e, tcell.KeyEsc)
	if e.prompt != promptNone {
		t.Fatalf("prompt still open")
	}
	if e.buf.Path() != "" {
		t.Fatalf("path set on abort: %q", e.buf.Path())
	}
	if e.statusMessage != "Save aborted." {
		t.Fatalf("status = %q", e.statusMessage)
	}
}

func TestIncrementalSearch(t *testing.T) {
	e := newTestEditor("one two", "three", "two again")

	press(e, tcell.KeyCtrlF)
	typeText(e, "two")
	if e.cursor != (buffer.Position{X: 4, Y: 0}) {
		t.Fatalf("first match cursor = %+v", e.cursor)
	}

	press(e, tcell.KeyRight) // next match
	if e.cursor != (buffer.Position{X: 0, Y: 2}) {
		t.Fatalf("second match cursor = %+v", e.cursor)
	}

	press(e, tcell.KeyLeft) // back to the first
	if e.cursor != (buffer.Position{X: 4, Y: 0}) {
		t.Fatalf("previous match cursor = %+v", e.cursor)
	}
}

func TestSearchEscRestoresPosition(t *testing.T) {
	e := newTestEditor("one two", "three")
	e.cursor = buffer.Position{X: 1, Y: 1}

	press(e, tcell.KeyCtrlF)
	typeText(e, "one")
	if e.cursor == (buffer.Position{X: 1, Y: 1}) {
		t.Fatalf("search did not move the cursor")
	}
	press(e, tcell.KeyEsc)
	if e.cursor != (buffer.Position{X: 1, Y: 1}) {
		t.Fatalf("Esc did not restore cursor: %+v", e.cursor)
	}
}

func TestSearchEnterKeepsPosition(t *testing.T) {
	e := newTestEditor("one two")
	press(e, tcell.KeyCtrlF)
	typeText(e, "two")
	press(e, tcell.KeyEnter)
	if e.cursor != (buffer.Position{X: 4, Y: 0}) {
		t.Fatalf("cursor = %+v", e.cursor)
	}
	if e.searchWord() != "" {
		t.Fatalf("search word still active after Enter")
	}
}

func TestSearchBackspaceNarrowsFromOrigin(t *testing.T) {
	e := newTestEditor("ax", "abx")

	press(e, tcell.KeyCtrlF)
	typeText(e, "ab")
	if e.cursor != (buffer.Position{X: 0, Y: 1}) {
		t.Fatalf("cursor = %+v", e.cursor)
	}
	press(e, tcell.KeyBackspace2) // query back to "a"
	if e.cursor != (buffer.Position{X: 0, Y: 0}) {
		t.Fatalf("cursor after shrink = %+v", e.cursor)
	}
}

func TestRestoreClamps(t *testing.T) {
	e := newTestEditor("ab", "cd")
	e.Restore(buffer.Position{X: 99, Y: 99}, buffer.Position{X: 5, Y: 50})
	if e.cursor != (buffer.Position{X: 0, Y: 2}) {
		t.Fatalf("cursor = %+v", e.cursor)
	}
	if e.scroll != (buffer.Position{}) {
		t.Fatalf("scroll = %+v", e.scroll)
	}
}
