package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	QuitTimes       int    `toml:"quit-times"`
	GitBranchSymbol string `toml:"git-branch-symbol"`
}

type Theme struct {
	Foreground             string `toml:"foreground"`
	Background             string `toml:"background"`
	StatuslineForeground   string `toml:"statusline-foreground"`
	StatuslineBackground   string `toml:"statusline-background"`
	SearchMatchForeground  string `toml:"search-foreground"`
	SearchMatchBackground  string `toml:"search-background"`
	SyntaxNumber           string `toml:"syntax-number"`
	SyntaxString           string `toml:"syntax-string"`
	SyntaxCharacter        string `toml:"syntax-character"`
	SyntaxComment          string `toml:"syntax-comment"`
	SyntaxPrimaryKeyword   string `toml:"syntax-primary-keyword"`
	SyntaxSecondaryKeyword string `toml:"syntax-secondary-keyword"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			QuitTimes:       2,
			GitBranchSymbol: "git:",
		},
		Theme: Theme{
			Foreground:             "default",
			Background:             "default",
			StatuslineForeground:   "#3F3F3F",
			StatuslineBackground:   "#EFEFEF",
			SearchMatchForeground:  "#000000",
			SearchMatchBackground:  "#FFD700",
			SyntaxNumber:           "#DCA3A3",
			SyntaxString:           "#D33682",
			SyntaxCharacter:        "#6C71C4",
			SyntaxComment:          "#859900",
			SyntaxPrimaryKeyword:   "#B58900",
			SyntaxSecondaryKeyword: "#2AA198",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.QuitTimes > 0 {
		cfg.Editor.QuitTimes = userCfg.Editor.QuitTimes
	}
	if userCfg.Editor.GitBranchSymbol != "" {
		cfg.Editor.GitBranchSymbol = userCfg.Editor.GitBranchSymbol
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.StatuslineForeground != "" {
		dst.StatuslineForeground = src.StatuslineForeground
	}
	if src.StatuslineBackground != "" {
		dst.StatuslineBackground = src.StatuslineBackground
	}
	if src.SearchMatchForeground != "" {
		dst.SearchMatchForeground = src.SearchMatchForeground
	}
	if src.SearchMatchBackground != "" {
		dst.SearchMatchBackground = src.SearchMatchBackground
	}
	if src.SyntaxNumber != "" {
		dst.SyntaxNumber = src.SyntaxNumber
	}
	if src.SyntaxString != "" {
		dst.SyntaxString = src.SyntaxString
	}
	if src.SyntaxCharacter != "" {
		dst.SyntaxCharacter = src.SyntaxCharacter
	}
	if src.SyntaxComment != "" {
		dst.SyntaxComment = src.SyntaxComment
	}
	if src.SyntaxPrimaryKeyword != "" {
		dst.SyntaxPrimaryKeyword = src.SyntaxPrimaryKeyword
	}
	if src.SyntaxSecondaryKeyword != "" {
		dst.SyntaxSecondaryKeyword = src.SyntaxSecondaryKeyword
	}
}

func ConfigDir() (string, error) {
	if v := os.Getenv("KED_CONFIG_HOME"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "ked"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ked"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
