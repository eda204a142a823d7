package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/neilberkman/chatrider/pkg/waexport"
)

const (
	DefaultExportsDir = "./exports"
	DefaultOutputDir  = "./output"
	DefaultWorkers    = 4
)

type Config struct {
	ExportsDir     string
	OutputDir      string
	DBPath         string
	Workers        int
	CopyMedia      bool
	Archive        bool
	TemplatePath   string   // Optional mustache template replacing the built-in viewer
	SystemPhrases  []string // Extra system phrases, e.g. for non-English exports
	OmittedPhrases []string
}

type tomlConfig struct {
	ExportsDir     string   `toml:"exports_dir"`
	OutputDir      string   `toml:"output_dir"`
	DBPath         string   `toml:"db_path"`
	Workers        *int     `toml:"workers"`
	CopyMedia      *bool    `toml:"copy_media"`
	Archive        *bool    `toml:"archive"`
	TemplatePath   string   `toml:"template_path"`
	SystemPhrases  []string `toml:"system_phrases"`
	OmittedPhrases []string `toml:"omitted_phrases"`
}

// Dir returns ~/.config/chatrider
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "chatrider"), nil
}

// DefaultDBPath returns ~/.config/chatrider/chats.db
func DefaultDBPath() string {
	dir, err := Dir()
	if err != nil {
		return "chats.db"
	}
	return filepath.Join(dir, "chats.db")
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ExportsDir: DefaultExportsDir,
		OutputDir:  DefaultOutputDir,
		DBPath:     DefaultDBPath(),
		Workers:    DefaultWorkers,
		CopyMedia:  true,
		Archive:    true,
	}
}

// Load reads config from ~/.config/chatrider/config.toml
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return Default(), nil // Use defaults
	}
	return LoadFile(filepath.Join(dir, "config.toml"))
}

// LoadFile overlays the TOML file at path on the defaults. A missing file is
// not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}

	var tc tomlConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if tc.ExportsDir != "" {
		cfg.ExportsDir = tc.ExportsDir
	}
	if tc.OutputDir != "" {
		cfg.OutputDir = tc.OutputDir
	}
	if tc.DBPath != "" {
		cfg.DBPath = expandHome(tc.DBPath)
	}
	if tc.Workers != nil && *tc.Workers > 0 {
		cfg.Workers = *tc.Workers
	}
	if tc.CopyMedia != nil {
		cfg.CopyMedia = *tc.CopyMedia
	}
	if tc.Archive != nil {
		cfg.Archive = *tc.Archive
	}
	cfg.TemplatePath = expandHome(tc.TemplatePath)
	cfg.SystemPhrases = tc.SystemPhrases
	cfg.OmittedPhrases = tc.OmittedPhrases

	return cfg, nil
}

// ContentRules returns the parser rule set with any configured phrases appended
func (c *Config) ContentRules() waexport.ContentRules {
	rules := waexport.DefaultContentRules()
	if len(c.SystemPhrases) > 0 {
		rules = rules.WithSystemPhrases(c.SystemPhrases...)
	}
	if len(c.OmittedPhrases) > 0 {
		rules = rules.WithOmittedPhrases(c.OmittedPhrases...)
	}
	return rules
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
