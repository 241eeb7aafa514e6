package buffer

import (
	"errors"
	"os"
	"strings"

	"github.com/ked-editor/ked/internal/syntax"
)

// Buffer is the ordered collection of Lines backing one document, in
// on-screen top-to-bottom order. It coordinates cross-line edits, tracks
// whether the content diverged from the last save, and drives
// re-classification after edits. A Buffer is single-threaded by contract;
// the owning loop serializes all access.
type Buffer struct {
	lines    []*Line
	path     string
	dirty    bool
	profile  syntax.Profile
	lastWord string
}

// New returns an empty unnamed buffer.
func New(profile syntax.Profile) *Buffer {
	return &Buffer{profile: profile}
}

// Open reads path and builds one Line per input line. Line terminators are
// not round-tripped: both "\n" and "\r\n" delimit lines, and Save always
// writes "\n".
func Open(path string, profile syntax.Profile) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b := &Buffer{path: path, profile: profile}
	for _, s := range splitLines(string(data)) {
		b.lines = append(b.lines, NewLine(s))
	}
	return b, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Len returns the number of lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Line returns the line at index y, or nil when out of range.
func (b *Buffer) Line(y int) *Line {
	if y < 0 || y >= len(b.lines) {
		return nil
	}
	return b.lines[y]
}

func (b *Buffer) Path() string {
	return b.path
}

// SetPath renames the backing file for the next Save.
func (b *Buffer) SetPath(path string) {
	b.path = path
}

// Dirty reports whether the content differs from the last save.
func (b *Buffer) Dirty() bool {
	return b.dirty
}

func (b *Buffer) Profile() syntax.Profile {
	return b.profile
}

// SetProfile swaps the language profile and marks every line for rescan.
func (b *Buffer) SetProfile(profile syntax.Profile) {
	b.profile = profile
	b.invalidateFrom(0)
}

// Contents returns the whole document joined with newlines, one trailing.
func (b *Buffer) Contents() string {
	var sb strings.Builder
	for _, line := range b.lines {
		sb.WriteString(line.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Insert places r at pos. A newline splits the line at pos; a position on
// the line one past the last appends a fresh line; a negative line or one
// further out is dropped silently. A negative column clamps to the line
// start.
func (b *Buffer) Insert(pos Position, r rune) {
	if pos.Y < 0 || pos.Y > len(b.lines) {
		return
	}
	if pos.X < 0 {
		pos.X = 0
	}
	b.dirty = true
	switch {
	case r == '\n':
		b.insertNewline(pos)
	case pos.Y == len(b.lines):
		line := NewLine("")
		line.Insert(0, r)
		b.lines = append(b.lines, line)
	default:
		b.lines[pos.Y].Insert(pos.X, r)
	}
	b.invalidateFrom(pos.Y)
}

func (b *Buffer) insertNewline(pos Position) {
	if pos.Y == len(b.lines) {
		b.lines = append(b.lines, NewLine(""))
		return
	}
	rest := b.lines[pos.Y].Split(pos.X)
	b.lines = append(b.lines, nil)
	copy(b.lines[pos.Y+2:], b.lines[pos.Y+1:])
	b.lines[pos.Y+1] = rest
}

// Delete removes the cluster at pos. When pos sits at the end of its line
// and a following line exists, that line is merged up instead; this is the
// backspace-at-column-zero case seen from the line above.
func (b *Buffer) Delete(pos Position) {
	if pos.Y < 0 || pos.Y >= len(b.lines) {
		return
	}
	b.dirty = true
	line := b.lines[pos.Y]
	if pos.X == line.Len() && pos.Y+1 < len(b.lines) {
		next := b.lines[pos.Y+1]
		b.lines = append(b.lines[:pos.Y+1], b.lines[pos.Y+2:]...)
		line.Append(next)
	} else {
		line.Delete(pos.X)
	}
	b.invalidateFrom(pos.Y)
}

// invalidateFrom marks lines stale starting one line before the edit: the
// preceding line's multi-line comment state may have changed meaning for
// everything below it.
func (b *Buffer) invalidateFrom(start int) {
	start--
	if start < 0 {
		start = 0
	}
	for i := start; i < len(b.lines); i++ {
		b.lines[i].fresh = false
	}
}

// Find scans for query starting at from in the given direction. Crossing a
// line boundary resets the column to the new line's start (Forward) or end
// (Backward). Callers drive incremental search by passing the previous
// match position back in.
func (b *Buffer) Find(query string, from Position, dir Direction) (Position, bool) {
	if from.Y >= len(b.lines) {
		return Position{}, false
	}
	pos := from
	steps := len(b.lines) - from.Y
	if dir == Backward {
		steps = from.Y + 1
	}
	for i := 0; i < steps; i++ {
		line := b.lines[pos.Y]
		if x, ok := line.Find(query, pos.X, dir); ok {
			pos.X = x
			return pos, true
		}
		if dir == Forward {
			pos.Y++
			pos.X = 0
			if pos.Y >= len(b.lines) {
				break
			}
		} else {
			if pos.Y == 0 {
				break
			}
			pos.Y--
			pos.X = b.lines[pos.Y].Len()
		}
	}
	return Position{}, false
}

// Highlight reclassifies stale lines from the top of the buffer through
// line until inclusive, carrying the open-comment flag forward line to
// line. A negative until scans the whole buffer. Propagation deliberately
// restarts at line 0 on every call; per-line freshness keeps the walk
// cheap for unchanged prefixes. The search-word overlay changes
// independently of content edits, so a word change invalidates every
// line before the pass.
func (b *Buffer) Highlight(word string, until int) {
	if word != b.lastWord {
		b.lastWord = word
		b.invalidateFrom(0)
	}
	end := len(b.lines)
	if until >= 0 && until+1 < end {
		end = until + 1
	}
	openComment := false
	for _, line := range b.lines[:end] {
		openComment = line.Highlight(&b.profile, word, openComment)
	}
}

// Save writes every line followed by a single newline byte, in buffer
// order, and clears the dirty flag. The original line terminator style is
// not preserved.
func (b *Buffer) Save() error {
	if b.path == "" {
		return errors.New("no file name")
	}
	if err := os.WriteFile(b.path, []byte(b.Contents()), 0o644); err != nil {
		return err
	}
	b.dirty = false
	return nil
}
