package lox

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the optional on-disk configuration for the glox CLI, loaded from
// .gloxrc.yaml. The schema is intentionally tiny: a tree-walking interpreter
// has very little to configure, and every field defaults to today's
// hardcoded behavior when the file is absent.
type Config struct {
	// Color is one of "auto" (default), "always", or "never".
	Color string `yaml:"color"`
	// HistoryFile is the REPL line-history file path; empty disables history.
	HistoryFile string `yaml:"historyFile"`
}

// LoadConfig looks for .gloxrc.yaml in dir, then in the user's home
// directory, and returns the first one found. A missing file is not an
// error — it returns a zero-value Config matching existing behavior.
func LoadConfig(dir string) (Config, error) {
	candidates := []string{filepath.Join(dir, ".gloxrc.yaml")}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".gloxrc.yaml"))
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, err
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	return Config{}, nil
}

// ApplyColor forwards the Color setting to a Diagnostics sink. Unknown or
// empty values leave the sink's auto-detected behavior untouched.
func (c Config) ApplyColor(diags *Diagnostics) {
	switch c.Color {
	case "always":
		diags.SetColor(true)
	case "never":
		diags.SetColor(false)
	}
}
