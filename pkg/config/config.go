package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Fallback styles for unresolved photo/logo placeholders.
const (
	FallbackText    = "text"    // placeholder text becomes "Brak zdjęcia"
	FallbackGrayBox = "graybox" // gray rectangle labeled "brak pliku"
)

type Config struct {
	// Column matching
	StrictColumns    bool `yaml:"strict_columns"`
	DerivePhotoNames bool `yaml:"derive_photo_names"`

	// Asset matching. Two conventions exist across template
	// generations; exact-with-extension is canonical.
	MatchIgnoreExtension bool `yaml:"match_ignore_extension"`

	// Fallback rendering for unresolved photos/logos
	FallbackStyle string `yaml:"fallback_style"`

	// Description font shrink. Thresholds are counted on the raw
	// value, before typography. The mid threshold is 450 canonically
	// (400 in an older template generation).
	ShrinkMidThreshold int `yaml:"shrink_mid_threshold"`
	ShrinkMidSize      int `yaml:"shrink_mid_size"`
	ShrinkMaxThreshold int `yaml:"shrink_max_threshold"`
	ShrinkMaxSize      int `yaml:"shrink_max_size"`

	// Images
	MaxImageEdge int `yaml:"max_image_edge"`

	// Output
	OutputDir       string `yaml:"output_dir"`
	TimestampFormat string `yaml:"timestamp_format"`

	// Selection defaults
	DefaultSort string `yaml:"default_sort"`
	ReverseSort bool   `yaml:"reverse_sort"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`

	// Watch mode
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		StrictColumns:        true,
		DerivePhotoNames:     false,
		MatchIgnoreExtension: false,
		FallbackStyle:        FallbackText,
		ShrinkMidThreshold:   450,
		ShrinkMidSize:        9,
		ShrinkMaxThreshold:   600,
		ShrinkMaxSize:        8,
		MaxImageEdge:         1920,
		OutputDir:            "",
		TimestampFormat:      "20060102-150405",
		DefaultSort:          "scale",
		ReverseSort:          false,
		ColorTheme:           "auto",
		WatchDebounceMS:      500,
	}
}

// DefaultPath returns the config file location, following the XDG
// Base Directory specification on Unix and AppData on Windows.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "katgen", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "katgen", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", "katgen", "config.yaml"), nil
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.FallbackStyle != FallbackText && cfg.FallbackStyle != FallbackGrayBox {
		cfg.FallbackStyle = FallbackText
	}
	if cfg.ShrinkMidThreshold <= 0 {
		cfg.ShrinkMidThreshold = 450
	}
	if cfg.ShrinkMidSize <= 0 {
		cfg.ShrinkMidSize = 9
	}
	if cfg.ShrinkMaxThreshold <= cfg.ShrinkMidThreshold {
		cfg.ShrinkMaxThreshold = 600
	}
	if cfg.ShrinkMaxSize <= 0 {
		cfg.ShrinkMaxSize = 8
	}
	if cfg.MaxImageEdge <= 0 {
		cfg.MaxImageEdge = 1920
	}
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = "20060102-150405"
	}
	if !isValidSort(cfg.DefaultSort) {
		cfg.DefaultSort = "scale"
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// isValidSort checks if the sort key is one the selection stage knows
func isValidSort(sort string) bool {
	switch sort {
	case "name", "company", "scale":
		return true
	}
	return false
}
