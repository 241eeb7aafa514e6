package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileState remembers where the cursor and viewport were the last time a
// file was open.
type FileState struct {
	CursorX int `json:"cursor_x"`
	CursorY int `json:"cursor_y"`
	ScrollY int `json:"scroll_y"`
	ScrollX int `json:"scroll_x"`
}

// Session is the on-disk record, one FileState per absolute path.
type Session struct {
	Files     map[string]FileState `json:"files"`
	LastSaved time.Time            `json:"last_saved"`
}

// Manager loads the session at startup and writes it back on exit. The
// editor is single threaded, so there is no locking.
type Manager struct {
	session Session
	path    string
	dirty   bool
}

// NewManager creates a manager backed by session.json in the state dir.
func NewManager() (*Manager, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		session: Session{Files: make(map[string]FileState)},
		path:    path,
	}
	m.load()
	return m, nil
}

func sessionPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(stateDir, "ked")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return // no existing session, start fresh
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return
	}
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}
	m.session = s
}

// Save writes the session to disk if anything changed.
func (m *Manager) Save() error {
	if !m.dirty {
		return nil
	}

	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}

	m.dirty = false
	return nil
}

// FileState returns the saved state for a file, if any.
func (m *Manager) FileState(absPath string) (FileState, bool) {
	state, ok := m.session.Files[absPath]
	return state, ok
}

// SetFileState records the state for a file.
func (m *Manager) SetFileState(absPath string, state FileState) {
	m.session.Files[absPath] = state
	m.dirty = true
}
