package editor

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/ked-editor/ked/internal/buffer"
	"github.com/ked-editor/ked/internal/config"
	"github.com/ked-editor/ked/internal/gitinfo"
	"github.com/ked-editor/ked/internal/logger"
	"github.com/ked-editor/ked/internal/syntax"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptSave
	promptSearch
)

// Editor owns one buffer, the cursor and viewport, and the modeless key
// handling on top of it. It never talks to the terminal directly; Render
// paints onto whatever tcell.Screen it is handed.
type Editor struct {
	buf   *buffer.Buffer
	langs config.Languages

	cursor     buffer.Position
	scroll     buffer.Position
	viewHeight int

	quitTimes   int
	quitPresses int
	quit        bool

	statusMessage string

	gitBranch       string
	gitBranchSymbol string

	prompt      promptKind
	promptInput []rune

	// Cursor and scroll before an incremental search started, restored
	// when the search is cancelled.
	searchOrigin buffer.Position
	searchScroll buffer.Position

	styleMain   tcell.Style
	styleStatus tcell.Style
	kindStyles  [syntax.KindSecondaryKeyword + 1]tcell.Style
}

func New(cfg config.Config, langs config.Languages) *Editor {
	mainFg := parseColor(cfg.Theme.Foreground, tcell.ColorDefault)
	mainBg := parseColor(cfg.Theme.Background, tcell.ColorDefault)
	statusFg := parseColor(cfg.Theme.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(cfg.Theme.StatuslineBackground, tcell.ColorGray)
	searchFg := parseColor(cfg.Theme.SearchMatchForeground, tcell.ColorBlack)
	searchBg := parseColor(cfg.Theme.SearchMatchBackground, tcell.ColorYellow)

	e := &Editor{
		buf:             buffer.New(syntax.PlainText()),
		langs:           langs,
		quitTimes:       cfg.Editor.QuitTimes,
		quitPresses:     cfg.Editor.QuitTimes,
		gitBranchSymbol: cfg.Editor.GitBranchSymbol,
		styleMain:       tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		styleStatus:     tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
	}

	syntaxStyle := func(name string) tcell.Style {
		return tcell.StyleDefault.Foreground(parseColor(name, mainFg)).Background(mainBg)
	}
	e.kindStyles[syntax.KindNone] = e.styleMain
	e.kindStyles[syntax.KindNumber] = syntaxStyle(cfg.Theme.SyntaxNumber)
	e.kindStyles[syntax.KindMatch] = tcell.StyleDefault.Foreground(searchFg).Background(searchBg)
	e.kindStyles[syntax.KindString] = syntaxStyle(cfg.Theme.SyntaxString)
	e.kindStyles[syntax.KindCharacter] = syntaxStyle(cfg.Theme.SyntaxCharacter)
	e.kindStyles[syntax.KindComment] = syntaxStyle(cfg.Theme.SyntaxComment)
	e.kindStyles[syntax.KindMultilineComment] = syntaxStyle(cfg.Theme.SyntaxComment)
	e.kindStyles[syntax.KindPrimaryKeyword] = syntaxStyle(cfg.Theme.SyntaxPrimaryKeyword)
	e.kindStyles[syntax.KindSecondaryKeyword] = syntaxStyle(cfg.Theme.SyntaxSecondaryKeyword)
	return e
}

// Open loads path into the editor. A path that does not exist yet becomes
// an empty named buffer, so "ked newfile.go" works like other editors.
func (e *Editor) Open(path string) error {
	profile := e.langs.Detect(path)
	buf, err := buffer.Open(path, profile)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		buf = buffer.New(profile)
		buf.SetPath(path)
		e.setStatus(fmt.Sprintf("New file: %s", path))
	}
	e.buf = buf
	e.cursor = buffer.Position{}
	e.scroll = buffer.Position{}
	e.gitBranch = gitinfo.Branch(path)
	logger.Info("opened file", "path", path, "lines", buf.Len(), "profile", profile.Name)
	return nil
}

// Buffer exposes the underlying buffer, mainly for tests and the app's
// session bookkeeping.
func (e *Editor) Buffer() *buffer.Buffer { return e.buf }

func (e *Editor) Cursor() buffer.Position { return e.cursor }

func (e *Editor) Scroll() buffer.Position { return e.scroll }

// Restore places the cursor and viewport, clamping to the buffer.
func (e *Editor) Restore(cursor, scroll buffer.Position) {
	if cursor.Y > e.buf.Len() {
		cursor.Y = e.buf.Len()
	}
	if cursor.Y < 0 {
		cursor.Y = 0
	}
	if n := e.lineLen(cursor.Y); cursor.X > n {
		cursor.X = n
	}
	if cursor.X < 0 {
		cursor.X = 0
	}
	if scroll.Y < 0 || scroll.Y > cursor.Y {
		scroll.Y = 0
	}
	if scroll.X < 0 || scroll.X > cursor.X {
		scroll.X = 0
	}
	e.cursor = cursor
	e.scroll = scroll
}

// ShouldQuit reports whether a quit was confirmed.
func (e *Editor) ShouldQuit() bool { return e.quit }

// HandleKey applies one key event.
func (e *Editor) HandleKey(ev *tcell.EventKey) {
	if e.prompt != promptNone {
		e.handlePrompt(ev)
		return
	}

	if ev.Key() != tcell.KeyCtrlQ && e.quitPresses != e.quitTimes {
		e.quitPresses = e.quitTimes
		e.setStatus("")
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		e.confirmQuit()
	case tcell.KeyCtrlS:
		e.save()
	case tcell.KeyCtrlF:
		e.startSearch()
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight,
		tcell.KeyPgUp, tcell.KeyPgDn, tcell.KeyHome, tcell.KeyEnd:
		e.moveCursor(ev.Key())
	case tcell.KeyEnter:
		e.buf.Insert(e.cursor, '\n')
		e.cursor = buffer.Position{X: 0, Y: e.cursor.Y + 1}
	case tcell.KeyTab:
		e.insertRune('\t')
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.backspace()
	case tcell.KeyDelete:
		e.buf.Delete(e.cursor)
	case tcell.KeyRune:
		e.insertRune(ev.Rune())
	}
}

func (e *Editor) confirmQuit() {
	if e.buf.Dirty() && e.quitPresses > 0 {
		e.setStatus(fmt.Sprintf(
			"WARNING! File has unsaved changes. Press Ctrl-Q %d more times to quit.",
			e.quitPresses))
		e.quitPresses--
		return
	}
	e.quit = true
}

func (e *Editor) insertRune(r rune) {
	e.buf.Insert(e.cursor, r)
	e.cursor.X++
}

func (e *Editor) backspace() {
	switch {
	case e.cursor.X > 0:
		e.cursor.X--
		e.buf.Delete(e.cursor)
	case e.cursor.Y > 0:
		e.cursor = buffer.Position{X: e.lineLen(e.cursor.Y - 1), Y: e.cursor.Y - 1}
		e.buf.Delete(e.cursor)
	}
}

func (e *Editor) lineLen(y int) int {
	if line := e.buf.Line(y); line != nil {
		return line.Len()
	}
	return 0
}

// moveCursor follows the usual clamping rules: vertical moves snap the
// column to the target line's length, Left at column zero wraps to the end
// of the previous line and Right at the end wraps to the next line. The
// cursor may sit one line past the last, where typing appends.
func (e *Editor) moveCursor(key tcell.Key) {
	height := e.buf.Len()
	switch key {
	case tcell.KeyUp:
		if e.cursor.Y > 0 {
			e.cursor.Y--
		}
	case tcell.KeyDown:
		if e.cursor.Y < height {
			e.cursor.Y++
		}
	case tcell.KeyLeft:
		if e.cursor.X > 0 {
			e.cursor.X--
		} else if e.cursor.Y > 0 {
			e.cursor.Y--
			e.cursor.X = e.lineLen(e.cursor.Y)
		}
	case tcell.KeyRight:
		if e.cursor.X < e.lineLen(e.cursor.Y) {
			e.cursor.X++
		} else if e.cursor.Y < height {
			e.cursor.Y++
			e.cursor.X = 0
		}
	case tcell.KeyPgUp:
		e.cursor.Y -= e.pageSize()
		if e.cursor.Y < 0 {
			e.cursor.Y = 0
		}
	case tcell.KeyPgDn:
		e.cursor.Y += e.pageSize()
		if e.cursor.Y > height {
			e.cursor.Y = height
		}
	case tcell.KeyHome:
		e.cursor.X = 0
	case tcell.KeyEnd:
		e.cursor.X = e.lineLen(e.cursor.Y)
	}
	if n := e.lineLen(e.cursor.Y); e.cursor.X > n {
		e.cursor.X = n
	}
}

func (e *Editor) pageSize() int {
	if e.viewHeight > 0 {
		return e.viewHeight
	}
	return 1
}

func (e *Editor) save() {
	if e.buf.Path() == "" {
		e.prompt = promptSave
		e.promptInput = nil
		return
	}
	if err := e.buf.Save(); err != nil {
		e.setStatus(fmt.Sprintf("Error writing file: %v", err))
		logger.Error("save failed", "path", e.buf.Path(), "error", err)
		return
	}
	e.setStatus("File saved successfully.")
	logger.Info("saved file", "path", e.buf.Path(), "lines", e.buf.Len())
}

func (e *Editor) startSearch() {
	e.prompt = promptSearch
	e.promptInput = nil
	e.searchOrigin = e.cursor
	e.searchScroll = e.scroll
}

func (e *Editor) handlePrompt(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEsc:
		if e.prompt == promptSearch {
			e.cursor = e.searchOrigin
			e.scroll = e.searchScroll
		} else {
			e.setStatus("Save aborted.")
		}
		e.closePrompt()
	case tcell.KeyEnter:
		if e.prompt == promptSave {
			e.finishSaveAs()
		}
		e.closePrompt()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(e.promptInput) > 0 {
			e.promptInput = e.promptInput[:len(e.promptInput)-1]
			if e.prompt == promptSearch {
				e.searchFromOrigin()
			}
		}
	case tcell.KeyRight, tcell.KeyDown:
		if e.prompt == promptSearch {
			e.searchStep(buffer.Forward)
		}
	case tcell.KeyLeft, tcell.KeyUp:
		if e.prompt == promptSearch {
			e.searchStep(buffer.Backward)
		}
	case tcell.KeyRune:
		e.promptInput = append(e.promptInput, ev.Rune())
		if e.prompt == promptSearch {
			e.searchIncremental()
		}
	}
}

func (e *Editor) closePrompt() {
	e.prompt = promptNone
	e.promptInput = nil
}

func (e *Editor) finishSaveAs() {
	name := string(e.promptInput)
	if name == "" {
		e.setStatus("Save aborted.")
		return
	}
	e.buf.SetPath(name)
	e.buf.SetProfile(e.langs.Detect(name))
	e.gitBranch = gitinfo.Branch(name)
	e.save()
}

// searchIncremental advances to the first match at or after the cursor as
// the query grows. Extending a query that still matches at the current
// position keeps the cursor where it is.
func (e *Editor) searchIncremental() {
	query := string(e.promptInput)
	if pos, ok := e.buf.Find(query, e.cursor, buffer.Forward); ok {
		e.cursor = pos
	}
}

// searchFromOrigin re-runs the search after the query shrank.
func (e *Editor) searchFromOrigin() {
	query := string(e.promptInput)
	if query == "" {
		e.cursor = e.searchOrigin
		return
	}
	if pos, ok := e.buf.Find(query, e.searchOrigin, buffer.Forward); ok {
		e.cursor = pos
	} else {
		e.cursor = e.searchOrigin
	}
}

// searchStep jumps to the neighboring match. Forward skips the match the
// cursor sits on; Backward naturally excludes it.
func (e *Editor) searchStep(dir buffer.Direction) {
	query := string(e.promptInput)
	if query == "" {
		return
	}
	from := e.cursor
	if dir == buffer.Forward {
		from.X++
	}
	if pos, ok := e.buf.Find(query, from, dir); ok {
		e.cursor = pos
	}
}

// searchWord is the overlay word the buffer highlights: the live query
// while the search prompt is open, nothing otherwise.
func (e *Editor) searchWord() string {
	if e.prompt == promptSearch {
		return string(e.promptInput)
	}
	return ""
}

func (e *Editor) setStatus(msg string) {
	e.statusMessage = msg
}
