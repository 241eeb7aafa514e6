package syntax

// scanner holds the forward pass over one line's scan units.
type scanner struct {
	units   []string
	tags    []Kind
	pos     int
	profile *Profile
	open    bool
}

// A rule looks at the unit under the cursor and, when it matches, tags one
// or more units and advances past them. Rules run in strict priority order;
// the first match wins the position.
type rule func(*scanner) bool

var rules = []rule{
	(*scanner).multilineComment,
	(*scanner).characterLiteral,
	(*scanner).lineComment,
	(*scanner).primaryKeyword,
	(*scanner).secondaryKeyword,
	(*scanner).stringLiteral,
	(*scanner).number,
}

// Scan classifies one line of scan units under profile. openComment reports
// whether the previous line ended inside an unterminated multi-line comment.
// It returns one tag per unit and whether this line still ends inside one.
func Scan(units []string, profile *Profile, openComment bool) ([]Kind, bool) {
	s := &scanner{
		units:   units,
		tags:    make([]Kind, 0, len(units)),
		profile: profile,
	}
	if openComment {
		s.resumeMultilineComment()
	}
scan:
	for s.pos < len(s.units) {
		for _, r := range rules {
			if r(s) {
				continue scan
			}
		}
		s.tags = append(s.tags, KindNone)
		s.pos++
	}
	return s.tags, s.open
}

// resumeMultilineComment consumes the carried-over comment through its
// closing marker, or the whole line when the comment stays open.
func (s *scanner) resumeMultilineComment() {
	end, closed := s.findCommentClose(0)
	if !closed {
		s.open = true
	}
	s.take(KindMultilineComment, end-s.pos)
}

func (s *scanner) multilineComment() bool {
	if !s.profile.MultilineComments || s.units[s.pos] != "/" || s.peek(1) != "*" {
		return false
	}
	end, closed := s.findCommentClose(s.pos + 2)
	if !closed {
		s.open = true
	}
	s.take(KindMultilineComment, end-s.pos)
	return true
}

// findCommentClose returns the unit index one past "*/" searching from
// the given position, or the line length when it is absent.
func (s *scanner) findCommentClose(from int) (end int, closed bool) {
	for i := from; i+1 < len(s.units); i++ {
		if s.units[i] == "*" && s.units[i+1] == "/" {
			return i + 2, true
		}
	}
	return len(s.units), false
}

// characterLiteral requires the closing quote two units ahead, or three
// when the unit after the opening quote is a backslash escape.
func (s *scanner) characterLiteral() bool {
	if !s.profile.Characters || s.units[s.pos] != "'" {
		return false
	}
	next := s.peek(1)
	if next == "" {
		return false
	}
	closing := s.pos + 2
	if next == `\` {
		closing = s.pos + 3
	}
	if closing >= len(s.units) || s.units[closing] != "'" {
		return false
	}
	s.take(KindCharacter, closing-s.pos+1)
	return true
}

func (s *scanner) lineComment() bool {
	if !s.profile.Comments || s.units[s.pos] != "/" || s.peek(1) != "/" {
		return false
	}
	s.take(KindComment, len(s.units)-s.pos)
	return true
}

func (s *scanner) primaryKeyword() bool {
	return s.keyword(s.profile.PrimaryKeywords, KindPrimaryKeyword)
}

func (s *scanner) secondaryKeyword() bool {
	return s.keyword(s.profile.SecondaryKeywords, KindSecondaryKeyword)
}

// keyword matches any configured word whose span is bounded by separators.
// The preceding unit gates the whole rule; the following unit is checked
// per candidate word.
func (s *scanner) keyword(words []string, kind Kind) bool {
	if s.pos > 0 && !isSeparator(s.units[s.pos-1]) {
		return false
	}
	for _, w := range words {
		n := len(w) // keyword lists are ASCII, one unit per byte
		if s.pos+n < len(s.units) && !isSeparator(s.units[s.pos+n]) {
			continue
		}
		if s.matchWord(w) {
			s.take(kind, n)
			return true
		}
	}
	return false
}

func (s *scanner) matchWord(w string) bool {
	for i := 0; i < len(w); i++ {
		if s.pos+i >= len(s.units) || s.units[s.pos+i] != w[i:i+1] {
			return false
		}
	}
	return true
}

// stringLiteral consumes greedily from the opening quote through the next
// closing quote, or to end of line when unterminated.
func (s *scanner) stringLiteral() bool {
	if !s.profile.Strings || s.units[s.pos] != `"` {
		return false
	}
	end := s.pos + 1
	for end < len(s.units) && s.units[end] != `"` {
		end++
	}
	if end < len(s.units) {
		end++
	}
	s.take(KindString, end-s.pos)
	return true
}

func (s *scanner) number() bool {
	if !s.profile.Numbers || !isDigit(s.units[s.pos]) {
		return false
	}
	if s.pos > 0 && !isSeparator(s.units[s.pos-1]) {
		return false
	}
	end := s.pos + 1
	for end < len(s.units) && (isDigit(s.units[end]) || s.units[end] == ".") {
		end++
	}
	s.take(KindNumber, end-s.pos)
	return true
}

func (s *scanner) take(kind Kind, n int) {
	for i := 0; i < n; i++ {
		s.tags = append(s.tags, kind)
	}
	s.pos += n
}

func (s *scanner) peek(n int) string {
	if s.pos+n >= len(s.units) {
		return ""
	}
	return s.units[s.pos+n]
}

func isDigit(u string) bool {
	return len(u) == 1 && u[0] >= '0' && u[0] <= '9'
}

// isSeparator reports whether a unit bounds keyword and number spans:
// a single ASCII punctuation or whitespace character.
func isSeparator(u string) bool {
	if len(u) != 1 {
		return false
	}
	switch c := u[0]; {
	case c == ' ' || c == '\t' || c == '\n' || c == '\f' || c == '\r':
		return true
	case c >= '!' && c <= '/':
		return true
	case c >= ':' && c <= '@':
		return true
	case c >= '[' && c <= '`':
		return true
	case c >= '{' && c <= '~':
		return true
	}
	return false
}
