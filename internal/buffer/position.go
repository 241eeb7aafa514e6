package buffer

// Position addresses grapheme column X on line Y, both zero-based.
// Positions carry no validity range of their own; operations clamp or
// ignore out-of-range values.
type Position struct {
	X int
	Y int
}

// Direction selects the scan order for substring search, both within a
// line and across line boundaries.
type Direction int

const (
	Forward Direction = iota
	Backward
)
