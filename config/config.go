// Package config loads overlay settings from an optional TOML file.
// Missing files and missing keys fall back to defaults, so the overlay
// always starts.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultMorphTick     = 16 * time.Millisecond
	defaultAnimationTick = 40 * time.Millisecond
	defaultAudioTick     = 50 * time.Millisecond
	defaultSignalTick    = 100 * time.Millisecond

	minTick = 5 * time.Millisecond
	maxTick = time.Second
)

type Config struct {
	SignalDir  string `toml:"signal_dir"`
	SocketPath string `toml:"socket_path"`
	LogDir     string `toml:"log_dir"`
	Renderer   string `toml:"renderer"` // "tui" or "gui"
	Accent     string `toml:"accent"`   // hex color for the pill border

	MorphTickMs     int `toml:"morph_tick_ms"`
	AnimationTickMs int `toml:"animation_tick_ms"`
	AudioTickMs     int `toml:"audio_tick_ms"`
	SignalTickMs    int `toml:"signal_tick_ms"`
}

func Default() Config {
	return Config{
		SignalDir:       os.TempDir(),
		Renderer:        "tui",
		Accent:          "#7aa2f7",
		MorphTickMs:     int(defaultMorphTick / time.Millisecond),
		AnimationTickMs: int(defaultAnimationTick / time.Millisecond),
		AudioTickMs:     int(defaultAudioTick / time.Millisecond),
		SignalTickMs:    int(defaultSignalTick / time.Millisecond),
	}
}

// Path returns the explicit path if non-empty, then $PILL_CONFIG, then
// the per-user default location.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("PILL_CONFIG"); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pill", "config.toml")
}

// Load reads the TOML file at path, layering it over the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.SignalDir == "" {
		c.SignalDir = os.TempDir()
	}
	if c.Renderer != "tui" && c.Renderer != "gui" {
		c.Renderer = "tui"
	}
	if c.Accent == "" {
		c.Accent = "#7aa2f7"
	}
	c.MorphTickMs = clampTickMs(c.MorphTickMs, defaultMorphTick)
	c.AnimationTickMs = clampTickMs(c.AnimationTickMs, defaultAnimationTick)
	c.AudioTickMs = clampTickMs(c.AudioTickMs, defaultAudioTick)
	c.SignalTickMs = clampTickMs(c.SignalTickMs, defaultSignalTick)
}

func clampTickMs(ms int, fallback time.Duration) int {
	if ms <= 0 {
		return int(fallback / time.Millisecond)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < minTick {
		return int(minTick / time.Millisecond)
	}
	if d > maxTick {
		return int(maxTick / time.Millisecond)
	}
	return ms
}

func (c Config) MorphTick() time.Duration     { return time.Duration(c.MorphTickMs) * time.Millisecond }
func (c Config) AnimationTick() time.Duration { return time.Duration(c.AnimationTickMs) * time.Millisecond }
func (c Config) AudioTick() time.Duration     { return time.Duration(c.AudioTickMs) * time.Millisecond }
func (c Config) SignalTick() time.Duration    { return time.Duration(c.SignalTickMs) * time.Millisecond }
