// Package config provides configuration loading for wavepost.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gigurra/wavepost/cmd/common"
	"github.com/gigurra/wavepost/cmd/play/colors"
	"github.com/gigurra/wavepost/cmd/play/player"
)

// Config represents the wavepost configuration file structure.
type Config struct {
	// Colors is the gradient and animation sequence, 1 to 8 hex colors.
	Colors     []string            `json:"colors,omitempty"`
	FPS        int                 `json:"fps,omitempty"`
	CanvasRows int                 `json:"canvas_rows,omitempty"`
	WidthRatio float64             `json:"width_ratio,omitempty"`
	Style      string              `json:"style,omitempty"`
	Feed       string              `json:"feed,omitempty"`
	MaxSource  string              `json:"max_source_size,omitempty"`
	Notify     *NotificationConfig `json:"notifications,omitempty"`
	Log        *LogConfig          `json:"log,omitempty"`
}

// NotificationConfig holds settings for OS notifications.
type NotificationConfig struct {
	Enabled bool `json:"enabled"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level      string `json:"level,omitempty"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Colors:     colors.DefaultHexes(),
		FPS:        30,
		CanvasRows: 6,
		WidthRatio: 0.8,
		Style:      player.StyleWave,
		MaxSource:  "512m",
		Notify:     &NotificationConfig{Enabled: false},
		Log: &LogConfig{
			Level:      "info",
			File:       filepath.Join(common.CacheDir(), "wavepost.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// ConfigDir returns the wavepost config directory (~/.wavepost).
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".wavepost")
}

// ConfigPath returns the path to the config file (~/.wavepost/config.json).
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load loads the config from ~/.wavepost/config.json.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the config at path, filling in defaults for missing fields.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if len(c.Colors) == 0 {
		c.Colors = def.Colors
	}
	if c.FPS == 0 {
		c.FPS = def.FPS
	}
	if c.CanvasRows == 0 {
		c.CanvasRows = def.CanvasRows
	}
	if c.WidthRatio == 0 {
		c.WidthRatio = def.WidthRatio
	}
	if c.Style == "" {
		c.Style = def.Style
	}
	if c.MaxSource == "" {
		c.MaxSource = def.MaxSource
	}
	if c.Notify == nil {
		c.Notify = def.Notify
	}
	if c.Log == nil {
		c.Log = def.Log
	} else {
		if c.Log.Level == "" {
			c.Log.Level = def.Log.Level
		}
		if c.Log.File == "" {
			c.Log.File = def.Log.File
		}
		if c.Log.MaxSizeMB == 0 {
			c.Log.MaxSizeMB = def.Log.MaxSizeMB
		}
		if c.Log.MaxBackups == 0 {
			c.Log.MaxBackups = def.Log.MaxBackups
		}
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := colors.NewSequence(c.Colors...); err != nil {
		return fmt.Errorf("colors: %w", err)
	}
	if c.FPS < 1 || c.FPS > 120 {
		return fmt.Errorf("fps must be in [1,120], got %d", c.FPS)
	}
	if c.CanvasRows < 1 {
		return fmt.Errorf("canvas_rows must be positive, got %d", c.CanvasRows)
	}
	if c.WidthRatio <= 0 || c.WidthRatio > 1 {
		return fmt.Errorf("width_ratio must be in (0,1], got %v", c.WidthRatio)
	}
	if c.Style != player.StyleWave && c.Style != player.StyleBars {
		return fmt.Errorf("style must be %q or %q, got %q", player.StyleWave, player.StyleBars, c.Style)
	}
	if _, err := common.ParseSize(c.MaxSource); err != nil {
		return fmt.Errorf("max_source_size: %w", err)
	}
	return nil
}

// Sequence returns the parsed color sequence.
func (c *Config) Sequence() colors.Sequence {
	seq, err := colors.NewSequence(c.Colors...)
	if err != nil {
		return colors.DefaultSequence()
	}
	return seq
}

// MaxSourceBytes returns the parsed source size cap, or 0 when unset.
func (c *Config) MaxSourceBytes() int64 {
	n, err := common.ParseSize(c.MaxSource)
	if err != nil {
		return 0
	}
	return n
}

// Save saves the config to ~/.wavepost/config.json.
func Save(config *Config) error {
	return SaveTo(ConfigPath(), config)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
