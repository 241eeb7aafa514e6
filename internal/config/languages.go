package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ked-editor/ked/internal/syntax"
)

// Language describes one entry of languages.toml: how files are matched
// and which classification rules its profile enables.
type Language struct {
	Name              string   `toml:"name"`
	FileTypes         []string `toml:"file-types"`
	Numbers           bool     `toml:"numbers"`
	Strings           bool     `toml:"strings"`
	Characters        bool     `toml:"characters"`
	Comments          bool     `toml:"comments"`
	MultilineComments bool     `toml:"multiline-comments"`
	PrimaryKeywords   []string `toml:"primary-keywords"`
	SecondaryKeywords []string `toml:"secondary-keywords"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

// Profile converts the record into the scanner's immutable form.
func (l *Language) Profile() syntax.Profile {
	return syntax.Profile{
		Name:              l.Name,
		Numbers:           l.Numbers,
		Strings:           l.Strings,
		Characters:        l.Characters,
		Comments:          l.Comments,
		MultilineComments: l.MultilineComments,
		PrimaryKeywords:   l.PrimaryKeywords,
		SecondaryKeywords: l.SecondaryKeywords,
	}
}

// Match returns the first language whose file-types entry matches the
// path's extension or base name, or nil.
func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(strings.TrimPrefix(ft, "."))
			if ftLower == ext || strings.ToLower(ft) == baseLower {
				return lang
			}
		}
	}
	return nil
}

// Detect resolves the profile for a file path, falling back to plain text.
func (l Languages) Detect(path string) syntax.Profile {
	if path == "" {
		return syntax.PlainText()
	}
	if lang := l.Match(path); lang != nil {
		return lang.Profile()
	}
	return syntax.PlainText()
}

// DefaultLanguages returns the built-in language table.
func DefaultLanguages() Languages {
	return Languages{Languages: []Language{
		{
			Name:              "Rust",
			FileTypes:         []string{"rs"},
			Numbers:           true,
			Strings:           true,
			Characters:        true,
			Comments:          true,
			MultilineComments: true,
			PrimaryKeywords: []string{
				"as", "break", "const", "continue", "crate", "else",
				"enum", "extern", "false", "fn", "for", "if", "impl",
				"in", "let", "loop", "match", "mod", "move", "mut",
				"pub", "ref", "return", "self", "Self", "static",
				"struct", "super", "trait", "true", "type", "unsafe",
				"use", "where", "while", "dyn", "abstract", "become",
				"box", "do", "final", "macro", "override", "priv",
				"typeof", "unsized", "virtual", "yield", "async",
				"await", "try",
			},
			SecondaryKeywords: []string{
				"bool", "char", "i8", "i16", "i32", "i64", "isize",
				"u8", "u16", "u32", "u64", "usize", "f32", "f64",
			},
		},
		{
			Name:              "Go",
			FileTypes:         []string{"go"},
			Numbers:           true,
			Strings:           true,
			Characters:        true,
			Comments:          true,
			MultilineComments: true,
			PrimaryKeywords: []string{
				"break", "case", "chan", "const", "continue", "default",
				"defer", "else", "fallthrough", "for", "func", "go",
				"goto", "if", "import", "interface", "map", "package",
				"range", "return", "select", "struct", "switch", "type",
				"var",
			},
			SecondaryKeywords: []string{
				"bool", "byte", "complex64", "complex128", "error",
				"float32", "float64", "int", "int8", "int16", "int32",
				"int64", "rune", "string", "uint", "uint8", "uint16",
				"uint32", "uint64", "uintptr", "any",
			},
		},
	}}
}

// LoadLanguages merges user entries from languages.toml ahead of the
// built-ins, so a user record for the same extension wins.
func LoadLanguages() (Languages, error) {
	builtin := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return builtin, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return builtin, nil
		}
		return builtin, err
	}

	var user Languages
	if _, err := toml.Decode(string(data), &user); err != nil {
		return builtin, err
	}
	user.Languages = append(user.Languages, builtin.Languages...)
	return user, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
