package buffer

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/ked-editor/ked/internal/syntax"
)

// Line is one editable row of text: its content split into grapheme
// clusters, one classification tag per cluster, and a freshness flag for
// the tags. Grapheme clusters are the single indexing unit everywhere:
// length, edit positions, tag indexing and render columns all count
// clusters, never bytes or runes.
type Line struct {
	units []string
	tags  []syntax.Kind
	fresh bool
}

// Run is a maximal stretch of same-kind text produced by Render. The
// display side owns the mapping from Kind to a visual style; no escape
// sequences are produced here.
type Run struct {
	Text string
	Kind syntax.Kind
}

func NewLine(s string) *Line {
	return &Line{units: clusters(s)}
}

// clusters splits s into grapheme clusters in visual order.
func clusters(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Len returns the cached grapheme cluster count.
func (l *Line) Len() int {
	return len(l.units)
}

func (l *Line) String() string {
	return strings.Join(l.units, "")
}

// Insert places r before the cluster at position at, appending when at is
// past the end and prepending when at is negative. The content is
// re-segmented afterwards so that a combining mark merging into its
// neighbor keeps the cluster count honest.
func (l *Line) Insert(at int, r rune) {
	l.fresh = false
	if at < 0 {
		at = 0
	}
	if at >= len(l.units) {
		l.units = clusters(l.String() + string(r))
		return
	}
	var b strings.Builder
	for i, u := range l.units {
		if i == at {
			b.WriteRune(r)
		}
		b.WriteString(u)
	}
	l.units = clusters(b.String())
}

// Delete removes the cluster at position at; out-of-range positions are
// ignored.
func (l *Line) Delete(at int) {
	if at < 0 || at >= len(l.units) {
		return
	}
	l.fresh = false
	var b strings.Builder
	for i, u := range l.units {
		if i != at {
			b.WriteString(u)
		}
	}
	l.units = clusters(b.String())
}

// Split truncates the line at position at and returns the remainder as a
// new Line. Out-of-range positions clamp to the nearest end. Both halves
// need rescanning afterwards.
func (l *Line) Split(at int) *Line {
	if at > len(l.units) {
		at = len(l.units)
	}
	if at < 0 {
		at = 0
	}
	rest := &Line{units: append([]string(nil), l.units[at:]...)}
	l.units = append([]string(nil), l.units[:at]...)
	l.fresh = false
	return rest
}

// Append concatenates other onto l. It does not revalidate classification;
// the buffer marks the affected lines stale.
func (l *Line) Append(other *Line) {
	l.units = clusters(l.String() + other.String())
}

// Render returns the coalesced styled runs for columns [start, end).
// end clamps to the line length and start to end. Tabs render as two
// spaces.
func (l *Line) Render(start, end int) []Run {
	if end > len(l.units) {
		end = len(l.units)
	}
	if start > end {
		start = end
	}
	if start < 0 {
		start = 0
	}
	var runs []Run
	var b strings.Builder
	current := syntax.KindNone
	flush := func() {
		if b.Len() > 0 {
			runs = append(runs, Run{Text: b.String(), Kind: current})
			b.Reset()
		}
	}
	for i := start; i < end; i++ {
		if k := l.tag(i); k != current {
			flush()
			current = k
		}
		if l.units[i] == "\t" {
			b.WriteString("  ")
		} else {
			b.WriteString(l.units[i])
		}
	}
	flush()
	return runs
}

// tag falls back to KindNone for positions the last scan did not cover.
func (l *Line) tag(i int) syntax.Kind {
	if i >= 0 && i < len(l.tags) {
		return l.tags[i]
	}
	return syntax.KindNone
}

// Find locates query within [at, Len) scanning forward, or [0, at)
// scanning backward, and returns the cluster index of the match start.
// An empty query or an at past the length finds nothing; a negative at
// clamps to the line start.
func (l *Line) Find(query string, at int, dir Direction) (int, bool) {
	if query == "" || at > len(l.units) {
		return 0, false
	}
	if at < 0 {
		at = 0
	}
	lo, hi := at, len(l.units)
	if dir == Backward {
		lo, hi = 0, at
	}
	window := strings.Join(l.units[lo:hi], "")
	var byteIdx int
	if dir == Forward {
		byteIdx = strings.Index(window, query)
	} else {
		byteIdx = strings.LastIndex(window, query)
	}
	if byteIdx < 0 {
		return 0, false
	}
	// Map the byte offset back onto a cluster boundary. A match that
	// starts mid-cluster does not count.
	off := 0
	for i := lo; i < hi; i++ {
		if off == byteIdx {
			return i, true
		}
		off += len(l.units[i])
	}
	return 0, false
}

// Highlight reclassifies the line given the active profile, the current
// search word, and whether the previous line ended inside an open
// multi-line comment. It reports whether this line ends still inside one,
// which becomes the carried-in flag for the next line. The caller must
// have invalidated the line if the search word changed since the last
// scan; Buffer.Highlight does.
//
// A fresh line is skipped, except that it must keep reporting "still
// open" when its last known tag is a multi-line comment and the text no
// longer ends with the closing marker; that keeps the state propagating
// after an edit shortened a closing line elsewhere.
func (l *Line) Highlight(profile *syntax.Profile, word string, openComment bool) bool {
	if l.fresh {
		if n := len(l.tags); n > 0 && l.tags[n-1] == syntax.KindMultilineComment && !l.endsWithCommentClose() {
			return true
		}
		return false
	}

	var stillOpen bool
	l.tags, stillOpen = syntax.Scan(l.units, profile, openComment)
	l.markMatches(word)

	if stillOpen {
		// Stay stale so the next pass re-propagates across this line.
		l.fresh = false
		return true
	}
	l.fresh = true
	return false
}

func (l *Line) endsWithCommentClose() bool {
	n := len(l.units)
	return n >= 2 && l.units[n-2] == "*" && l.units[n-1] == "/"
}

// markMatches retags every non-overlapping forward occurrence of word.
// This overlay is recomputed on every scan; it is never cached because the
// active search word changes independently of the content.
func (l *Line) markMatches(word string) {
	if word == "" {
		return
	}
	n := len(clusters(word))
	at := 0
	for {
		m, ok := l.Find(word, at, Forward)
		if !ok {
			return
		}
		for i := m; i < m+n && i < len(l.tags); i++ {
			l.tags[i] = syntax.KindMatch
		}
		at = m + n
	}
}
