package rill

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// Log is the logger used by rill for soft failures (missing elements, bad
// styles, screenshot I/O) and, at debug level, per-frame statistics.
var Log = logrus.New()

// RunConfig configures the window and host loop created by RunGame.
type RunConfig struct {
	// Title is the window title.
	Title string `toml:"title"`
	// Width and Height are the logical screen size in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// Resizable lets the window be resized; the logical screen then follows
	// the window size and Size streams report the new dimensions.
	Resizable bool `toml:"resizable"`
	// TPS is the number of Update ticks per second. Zero keeps ebiten's
	// default of 60.
	TPS int `toml:"tps"`
	// SampleEvery is how many frames pass between element size samples.
	SampleEvery int `toml:"sample_every"`
	// ShowFPS draws an FPS/TPS counter in the top-left corner.
	ShowFPS bool `toml:"show_fps"`
	// Debug logs per-frame render statistics.
	Debug bool `toml:"debug"`
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string `toml:"screenshot_dir"`
}

// DefaultRunConfig returns the configuration used for unset fields.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "rill",
		Width:         640,
		Height:        480,
		SampleEvery:   10,
		ScreenshotDir: "screenshots",
	}
}

// LoadRunConfig parses a TOML document over the defaults.
func LoadRunConfig(data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parse run config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

func (c *RunConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("run config: screen size %dx%d must be positive", c.Width, c.Height)
	}
	if c.TPS < 0 {
		return fmt.Errorf("run config: tps %d must not be negative", c.TPS)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("run config: sample_every %d must not be negative", c.SampleEvery)
	}
	return nil
}

// withDefaults fills zero fields from DefaultRunConfig.
func (c RunConfig) withDefaults() RunConfig {
	def := DefaultRunConfig()
	if c.Title == "" {
		c.Title = def.Title
	}
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.SampleEvery <= 0 {
		c.SampleEvery = def.SampleEvery
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = def.ScreenshotDir
	}
	return c
}
