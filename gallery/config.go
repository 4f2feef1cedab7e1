package gallery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/machine"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"gopkg.in/yaml.v3"
)

// ConfigFilename is the gallery file looked up next to the working directory when no path is given.
const ConfigFilename = "gallery.yml"

const (
	defaultSketch          = "sun-and-moon"
	defaultTitle           = "Oxy Gallery"
	defaultPresentMode     = "vsync"
	defaultGamepadDeadZone = 0.1
	defaultMinScale        = 0.5
	defaultMaxScale        = 2
)

// WindowConfig sizes and names the gallery window.
type WindowConfig struct {
	Title      string  `yaml:"title"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	MinScale   float64 `yaml:"min_scale"`
	MaxScale   float64 `yaml:"max_scale"`
	FreeAspect bool    `yaml:"free_aspect"`
}

// GamepadConfig controls gamepad polling.
type GamepadConfig struct {
	Enabled  *bool    `yaml:"enabled"` // pointer to distinguish unset vs false
	DeadZone *float32 `yaml:"dead_zone"`
}

// Config is the gallery file: which sketch to show and how to present it.
type Config struct {
	Sketch      string        `yaml:"sketch"`
	Window      WindowConfig  `yaml:"window"`
	PresentMode string        `yaml:"present_mode"`
	FrameLimit  float64       `yaml:"frame_limit"`
	Profiling   bool          `yaml:"profiling"`
	Midi        bool          `yaml:"midi"`
	Gamepad     GamepadConfig `yaml:"gamepad"`
}

// DefaultConfig returns the configuration used when no gallery file exists.
//
// Returns:
//   - Config: the defaults, already valid
func DefaultConfig() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

// ParseConfig decodes a gallery file. Unknown keys are rejected and missing keys take their
// defaults.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the decoded and validated configuration
//   - error: common.ErrConfiguration if the document is malformed or a value is out of range
func ParseConfig(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse gallery config: %v: %w", err, common.ErrConfiguration)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads a gallery file. A missing file yields DefaultConfig.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the configuration
//   - error: the read error, or common.ErrConfiguration if the file is invalid
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("[Gallery] no config at %s, using defaults", path)
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read gallery config %s: %w", path, err)
	}
	c, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("[Gallery] loaded config %s", path)
	return c, nil
}

func (c *Config) applyDefaults() {
	c.Sketch = common.Coalesce(c.Sketch, defaultSketch)
	c.Window.Title = common.Coalesce(c.Window.Title, defaultTitle)
	c.Window.Width = common.Coalesce(c.Window.Width, machine.CanvasWidth)
	c.Window.Height = common.Coalesce(c.Window.Height, machine.CanvasHeight)
	c.Window.MinScale = common.Coalesce(c.Window.MinScale, defaultMinScale)
	c.Window.MaxScale = common.Coalesce(c.Window.MaxScale, defaultMaxScale)
	c.PresentMode = common.Coalesce(c.PresentMode, defaultPresentMode)
	if c.Gamepad.DeadZone == nil {
		c.Gamepad.DeadZone = common.Ptr(float32(defaultGamepadDeadZone))
	}
	if c.Gamepad.Enabled == nil {
		c.Gamepad.Enabled = common.Ptr(true)
	}
}

// Validate checks value ranges.
//
// Returns:
//   - error: common.ErrConfiguration describing the first bad value
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive: %w", c.Window.Width, c.Window.Height, common.ErrConfiguration)
	}
	if c.Window.MinScale > 1 || (c.Window.MaxScale > 0 && c.Window.MaxScale < 1) {
		return fmt.Errorf("window scale limits [%v, %v] must include 1: %w", c.Window.MinScale, c.Window.MaxScale, common.ErrConfiguration)
	}
	if _, err := renderer.ParsePresentMode(c.PresentMode); err != nil {
		return err
	}
	if c.FrameLimit < 0 {
		return fmt.Errorf("frame_limit %v must not be negative: %w", c.FrameLimit, common.ErrConfiguration)
	}
	if dz := c.GamepadDeadZone(); dz < 0 || dz >= 1 {
		return fmt.Errorf("gamepad dead_zone %v must be in [0, 1): %w", dz, common.ErrConfiguration)
	}
	return nil
}

// PresentModeValue returns the parsed present mode. Only valid after Validate succeeds.
func (c Config) PresentModeValue() renderer.PresentMode {
	mode, _ := renderer.ParsePresentMode(c.PresentMode)
	return mode
}

// GamepadEnabled reports whether gamepads should be polled.
func (c Config) GamepadEnabled() bool {
	return c.Gamepad.Enabled == nil || *c.Gamepad.Enabled
}

// GamepadDeadZone returns the configured dead zone, or the default when unset.
func (c Config) GamepadDeadZone() float32 {
	if c.Gamepad.DeadZone == nil {
		return defaultGamepadDeadZone
	}
	return *c.Gamepad.DeadZone
}
