// Package config loads pageview settings from a TOML file with
// PAGEVIEW_* environment overrides. Missing files are not an error;
// defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults.
const (
	DefaultPagesDir     = "pages"
	DefaultStartPage    = "index"
	DefaultScrollSpeed  = 3
	DefaultTextboxWidth = 10
	DefaultFrameDelayMS = 16
	DefaultLogLevel     = "info"
	DefaultLogPath      = "pageview.log"
	DefaultScriptBudget = 100
)

// Config is the full pageview configuration.
type Config struct {
	Pages   PagesConfig   `toml:"pages"`
	UI      UIConfig      `toml:"ui"`
	Logging LoggingConfig `toml:"logging"`
	Script  ScriptConfig  `toml:"script"`
}

// PagesConfig locates the page directory and the start page.
type PagesConfig struct {
	Dir   string `toml:"dir"`
	Start string `toml:"start"`
}

// UIConfig tunes rendering and input.
type UIConfig struct {
	ScrollSpeed  int `toml:"scroll_speed"`
	TextboxWidth int `toml:"textbox_width"`
	FrameDelayMS int `toml:"frame_delay_ms"`
}

// LoggingConfig selects the log level and sink. The terminal owns
// stderr, so the sink is a file.
type LoggingConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

// ScriptConfig controls the Lua host.
type ScriptConfig struct {
	Enabled       bool `toml:"enabled"`
	CallTimeoutMS int  `toml:"call_timeout_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Pages: PagesConfig{
			Dir:   DefaultPagesDir,
			Start: DefaultStartPage,
		},
		UI: UIConfig{
			ScrollSpeed:  DefaultScrollSpeed,
			TextboxWidth: DefaultTextboxWidth,
			FrameDelayMS: DefaultFrameDelayMS,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
			Path:  DefaultLogPath,
		},
		Script: ScriptConfig{
			Enabled:       true,
			CallTimeoutMS: DefaultScriptBudget,
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path
// (skipped when missing), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays PAGEVIEW_* environment variables. Unparseable
// numeric values leave the current setting untouched.
func (c *Config) applyEnv() {
	envString("PAGEVIEW_PAGES_DIR", &c.Pages.Dir)
	envString("PAGEVIEW_START_PAGE", &c.Pages.Start)
	envInt("PAGEVIEW_SCROLL_SPEED", &c.UI.ScrollSpeed)
	envInt("PAGEVIEW_TEXTBOX_WIDTH", &c.UI.TextboxWidth)
	envInt("PAGEVIEW_FRAME_DELAY_MS", &c.UI.FrameDelayMS)
	envString("PAGEVIEW_LOG_LEVEL", &c.Logging.Level)
	envString("PAGEVIEW_LOG_PATH", &c.Logging.Path)
	envBool("PAGEVIEW_SCRIPT_ENABLED", &c.Script.Enabled)
	envInt("PAGEVIEW_SCRIPT_TIMEOUT_MS", &c.Script.CallTimeoutMS)
}

func (c *Config) validate() error {
	if c.Pages.Dir == "" {
		return errors.New("config: pages.dir must not be empty")
	}
	if c.UI.ScrollSpeed <= 0 {
		c.UI.ScrollSpeed = DefaultScrollSpeed
	}
	if c.UI.TextboxWidth <= 0 {
		c.UI.TextboxWidth = DefaultTextboxWidth
	}
	if c.UI.FrameDelayMS <= 0 {
		c.UI.FrameDelayMS = DefaultFrameDelayMS
	}
	if c.Script.CallTimeoutMS <= 0 {
		c.Script.CallTimeoutMS = DefaultScriptBudget
	}
	return nil
}

// FrameDelay returns the render loop idle sleep.
func (c *Config) FrameDelay() time.Duration {
	return time.Duration(c.UI.FrameDelayMS) * time.Millisecond
}

// ScriptTimeout returns the per-call script budget.
func (c *Config) ScriptTimeout() time.Duration {
	return time.Duration(c.Script.CallTimeoutMS) * time.Millisecond
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

func envBool(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*dst = b
	}
}
