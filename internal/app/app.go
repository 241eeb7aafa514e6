package app

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/gdamore/tcell/v2"

	"github.com/ked-editor/ked/internal/buffer"
	"github.com/ked-editor/ked/internal/config"
	"github.com/ked-editor/ked/internal/editor"
	"github.com/ked-editor/ked/internal/logger"
	"github.com/ked-editor/ked/internal/session"
)

// App is the top-level runtime for ked.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	runtime.LockOSThread()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}
	if err := logger.Init(os.Getenv("KED_DEBUG") != ""); err != nil {
		return err
	}
	defer logger.Close()

	sess, err := session.NewManager()
	if err != nil {
		logger.Warn("session unavailable", "error", err)
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	// Fini restores the terminal on every exit path, panics included.
	defer s.Fini()

	ed := editor.New(cfg, langs)
	var openPath string
	if len(a.args) > 0 {
		if err := ed.Open(a.args[0]); err != nil {
			return err
		}
		if abs, err := filepath.Abs(a.args[0]); err == nil {
			openPath = abs
		}
	}
	if openPath != "" && sess != nil {
		if state, ok := sess.FileState(openPath); ok {
			ed.Restore(
				buffer.Position{X: state.CursorX, Y: state.CursorY},
				buffer.Position{X: state.ScrollX, Y: state.ScrollY},
			)
		}
	}

	ed.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			ed.HandleKey(ev)
			if ed.ShouldQuit() {
				if openPath != "" && sess != nil {
					cursor, scroll := ed.Cursor(), ed.Scroll()
					sess.SetFileState(openPath, session.FileState{
						CursorX: cursor.X,
						CursorY: cursor.Y,
						ScrollX: scroll.X,
						ScrollY: scroll.Y,
					})
					if err := sess.Save(); err != nil {
						logger.Warn("session save failed", "error", err)
					}
				}
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		}
		ed.Render(s)
	}
}
