package syntax

// Profile is the immutable per-language configuration consumed by the
// scanner: which rules run and which words count as keywords. Resolving a
// profile from a file path is the config layer's job, not ours.
type Profile struct {
	Name              string
	Numbers           bool
	Strings           bool
	Characters        bool
	Comments          bool
	MultilineComments bool
	PrimaryKeywords   []string
	SecondaryKeywords []string
}

// PlainText is the profile for files with no recognized language.
// Every rule is off, so every unit scans as KindNone.
func PlainText() Profile {
	return Profile{Name: "no filetype"}
}
