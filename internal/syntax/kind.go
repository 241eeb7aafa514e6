package syntax

// Kind is the classification assigned to a single scan unit of a line.
// Exactly one Kind applies per unit; the scanner's rule order decides which.
type Kind uint8

const (
	KindNone Kind = iota
	KindNumber
	KindMatch
	KindString
	KindCharacter
	KindComment
	KindMultilineComment
	KindPrimaryKeyword
	KindSecondaryKeyword
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNumber:
		return "number"
	case KindMatch:
		return "match"
	case KindString:
		return "string"
	case KindCharacter:
		return "character"
	case KindComment:
		return "comment"
	case KindMultilineComment:
		return "multiline-comment"
	case KindPrimaryKeyword:
		return "primary-keyword"
	case KindSecondaryKeyword:
		return "secondary-keyword"
	}
	return "unknown"
}
