package kite

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned (wrapped) when a Config fails validation.
var ErrInvalidConfig = errors.New("kite: invalid config")

// MaxDelta is the default upper bound on a frame's delta time in seconds.
const MaxDelta = 0.05

// CameraConfig tunes the camera controller.
type CameraConfig struct {
	DragX          float64 `yaml:"drag_x"`
	DragY          float64 `yaml:"drag_y"`
	Panning        float64 `yaml:"panning"`
	Speed          float64 `yaml:"speed"`
	ShakeDecay     float64 `yaml:"shake_decay"`
	ShakeThreshold float64 `yaml:"shake_threshold"`
}

// LoopConfig tunes the animation loop.
type LoopConfig struct {
	// MaxDelta clamps each frame's delta time, in seconds.
	MaxDelta float64 `yaml:"max_delta"`
}

// BackgroundConfig tunes the procedural background.
type BackgroundConfig struct {
	GridSize   float64 `yaml:"grid_size"`
	MajorEvery int     `yaml:"major_every"`
	// TiltDegrees is the grid rotation; negative tilts counter-clockwise.
	TiltDegrees float64 `yaml:"tilt_degrees"`
	LineWidth   float64 `yaml:"line_width"`
	MajorAlpha  float64 `yaml:"major_alpha"`
	MinorAlpha  float64 `yaml:"minor_alpha"`
	TrailAlpha  float64 `yaml:"trail_alpha"`
}

// VignetteConfig tunes the radial vignette.
type VignetteConfig struct {
	// Inner is the transparent radius as a fraction of min(width, height).
	Inner float64 `yaml:"inner"`
	// Outer is the opaque radius as a fraction of max(width, height).
	Outer float64 `yaml:"outer"`
	Alpha float64 `yaml:"alpha"`
}

// Config holds every tunable of an Engine.
type Config struct {
	Title         string           `yaml:"title"`
	Width         int              `yaml:"width"`
	Height        int              `yaml:"height"`
	ScreenshotDir string           `yaml:"screenshot_dir"`
	Camera        CameraConfig     `yaml:"camera"`
	Loop          LoopConfig       `yaml:"loop"`
	Background    BackgroundConfig `yaml:"background"`
	Vignette      VignetteConfig   `yaml:"vignette"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Title:         "kite",
		Width:         960,
		Height:        640,
		ScreenshotDir: "screenshots",
		Camera: CameraConfig{
			DragX:          0.1,
			DragY:          0.25,
			Panning:        5,
			Speed:          2,
			ShakeDecay:     0.2,
			ShakeThreshold: 0.1,
		},
		Loop: LoopConfig{MaxDelta: MaxDelta},
		Background: BackgroundConfig{
			GridSize:    25,
			MajorEvery:  5,
			TiltDegrees: -5,
			LineWidth:   2,
			MajorAlpha:  0.07,
			MinorAlpha:  0.02,
			TrailAlpha:  0.25,
		},
		Vignette: VignetteConfig{
			Inner: 0.2,
			Outer: 0.6,
			Alpha: 0.5,
		},
	}
}

// ParseConfig decodes YAML over DefaultConfig, so omitted keys keep their
// defaults, and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadConfig parses YAML from r.
func ReadConfig(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// LoadConfig parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Camera.DragX < 0 || c.Camera.DragY < 0:
		return fmt.Errorf("%w: negative camera drag", ErrInvalidConfig)
	case c.Camera.Speed < 0:
		return fmt.Errorf("%w: negative camera speed", ErrInvalidConfig)
	case !(c.Camera.ShakeDecay > 0 && c.Camera.ShakeDecay <= 1):
		return fmt.Errorf("%w: shake_decay %v not in (0, 1]", ErrInvalidConfig, c.Camera.ShakeDecay)
	case !positive(c.Camera.ShakeThreshold):
		// A zero threshold lets the decay stall above zero forever.
		return fmt.Errorf("%w: shake_threshold must be positive", ErrInvalidConfig)
	case !positive(c.Loop.MaxDelta):
		return fmt.Errorf("%w: max_delta must be positive", ErrInvalidConfig)
	case !positive(c.Background.GridSize):
		return fmt.Errorf("%w: grid_size must be positive", ErrInvalidConfig)
	case c.Background.MajorEvery <= 0:
		return fmt.Errorf("%w: major_every must be positive", ErrInvalidConfig)
	case c.Vignette.Inner < 0 || c.Vignette.Outer <= 0:
		return fmt.Errorf("%w: vignette radii", ErrInvalidConfig)
	}
	return nil
}
