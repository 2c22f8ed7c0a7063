// Package config loads runtime settings from YAML with command-line overrides
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/physcii/audio"
	"github.com/lixenwraith/physcii/core"
	"github.com/lixenwraith/physcii/physics"
)

// DefaultFIFOPath is where the command pipe is created
const DefaultFIFOPath = "/tmp/physics_fifo"

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Config holds every tunable of a run
type Config struct {
	// Width and Height of the playfield, 0 follows the terminal
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	TickInterval time.Duration `yaml:"tick_interval"`
	Gravity      float64       `yaml:"gravity"`
	Coe          float64       `yaml:"coe"`
	Policy       string        `yaml:"policy"`
	GridSize     int           `yaml:"grid_size"`
	Indicator    bool          `yaml:"indicator"`

	FIFOPath  string `yaml:"fifo_path"`
	SeedCount int    `yaml:"seed_count"`
	RNGSeed   uint64 `yaml:"rng_seed"`

	Audio bool `yaml:"audio"`
	Debug bool `yaml:"debug"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the settings used when no file is given
func Default() *Config {
	return &Config{
		TickInterval:    50 * time.Millisecond,
		Gravity:         1,
		Coe:             1.0,
		Policy:          physics.PolicyRepulsion.String(),
		GridSize:        4,
		Indicator:       true,
		FIFOPath:        DefaultFIFOPath,
		ShutdownTimeout: 500 * time.Millisecond,
	}
}

// LoadYAML decodes r over the defaults; keys absent from r keep their default value
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// Load reads a YAML file; an empty path returns the defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	c, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate reports the first out-of-range value
func (c *Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: negative playfield %dx%d", ErrInvalid, c.Width, c.Height)
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick_interval must be positive, got %s", ErrInvalid, c.TickInterval)
	case c.GridSize <= 0:
		return fmt.Errorf("%w: grid_size must be positive, got %d", ErrInvalid, c.GridSize)
	case c.Coe < 0:
		return fmt.Errorf("%w: coe must be non-negative, got %g", ErrInvalid, c.Coe)
	case c.SeedCount < 0:
		return fmt.Errorf("%w: seed_count must be non-negative, got %d", ErrInvalid, c.SeedCount)
	case c.FIFOPath == "":
		return fmt.Errorf("%w: fifo_path is empty", ErrInvalid)
	case c.ShutdownTimeout < 0:
		return fmt.Errorf("%w: shutdown_timeout must be non-negative, got %s", ErrInvalid, c.ShutdownTimeout)
	}
	if _, err := physics.ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// World builds the physics settings for a playfield of the given size
// Call Validate first; an unknown policy falls back to repulsion
func (c *Config) World(area core.Area) physics.Config {
	policy, err := physics.ParsePolicy(c.Policy)
	if err != nil {
		policy = physics.PolicyRepulsion
	}
	grid := c.GridSize
	if !c.Indicator {
		grid = 0
	}
	return physics.Config{
		Area:     area,
		Gravity:  c.Gravity,
		Coe:      c.Coe,
		Policy:   policy,
		GridSize: grid,
		Seed:     c.RNGSeed,
	}
}

// AudioConfig returns playback settings with the enabled flag applied
func (c *Config) AudioConfig() *audio.AudioConfig {
	ac := audio.DefaultAudioConfig()
	ac.Enabled = c.Audio
	return ac
}

// Playfield resolves the configured size against the terminal size
func (c *Config) Playfield(termWidth, termHeight int) core.Area {
	a := core.Area{Width: termWidth, Height: termHeight}
	if c.Width > 0 {
		a.Width = c.Width
	}
	if c.Height > 0 {
		a.Height = c.Height
	}
	return a
}
