package backdrop

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for the primary background.
const (
	DefaultParticleCount = 200
	DefaultStarCount     = 2000
	LoadingStarCount     = 3000

	DefaultBloomStrength  = 0.8
	DefaultBloomRadius    = 0.5
	DefaultBloomThreshold = 0.4
)

// Config is the explicit configuration of one background. Every constant the
// renderer uses lives here so tests and the CLI can override it.
type Config struct {
	// Seed feeds procedural generation. Zero picks a random seed per mount.
	Seed  uint64 `yaml:"seed"`
	Debug bool   `yaml:"debug"`

	ClearColor           string  `yaml:"clear_color"`
	AmbientIntensity     float64 `yaml:"ambient_intensity"`
	EnvironmentIntensity float64 `yaml:"environment_intensity"`

	Camera    CameraConfig   `yaml:"camera"`
	Float     FloatConfig    `yaml:"float"`
	Stars     StarConfig     `yaml:"stars"`
	Grid      GridConfig     `yaml:"grid"`
	Particles ParticleConfig `yaml:"particles"`
	Bloom     BloomConfig    `yaml:"bloom"`
	Curves    CurvesConfig   `yaml:"curves"`
	Input     InputConfig    `yaml:"input"`
}

// CameraConfig describes the perspective camera looking down -Z.
type CameraConfig struct {
	FOV  float64 `yaml:"fov"` // vertical, degrees
	Z    float64 `yaml:"z"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

// FloatConfig drives the slow bobbing group wrapped around all layers.
type FloatConfig struct {
	Enabled           bool    `yaml:"enabled"`
	Speed             float64 `yaml:"speed"`
	RotationIntensity float64 `yaml:"rotation_intensity"`
	FloatIntensity    float64 `yaml:"float_intensity"`
}

// StarConfig configures the StarField layer.
type StarConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Count      int     `yaml:"count"`
	Radius     float64 `yaml:"radius"`
	Depth      float64 `yaml:"depth"`
	Factor     float64 `yaml:"factor"`
	Saturation float64 `yaml:"saturation"`
	Fade       bool    `yaml:"fade"`
	Speed      float64 `yaml:"speed"`
	// PointerInfluence scales pointer.y/x into rotation.x/y.
	PointerInfluence float64 `yaml:"pointer_influence"`
}

// GridConfig configures the GridPlane layer.
type GridConfig struct {
	Enabled           bool    `yaml:"enabled"`
	Size              float64 `yaml:"size"`
	Segments          int     `yaml:"segments"`
	Color             string  `yaml:"color"`
	Emissive          string  `yaml:"emissive"`
	EmissiveIntensity float64 `yaml:"emissive_intensity"`
	LineWidth         float64 `yaml:"line_width"`
	PointerInfluence  float64 `yaml:"pointer_influence"`
}

// ParticleConfig configures the ParticleField layer.
type ParticleConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Count        int     `yaml:"count"`
	Extent       float64 `yaml:"extent"` // side of the sampling cube
	HueMin       float64 `yaml:"hue_min"`
	HueMax       float64 `yaml:"hue_max"`
	Saturation   float64 `yaml:"saturation"`
	Lightness    float64 `yaml:"lightness"`
	SizeMax      float64 `yaml:"size_max"`
	MaterialSize float64 `yaml:"material_size"`
	Opacity      float64 `yaml:"opacity"`
	SpinSpeed    float64 `yaml:"spin_speed"`
	WobbleSpeed  float64 `yaml:"wobble_speed"`
	WobbleAmount float64 `yaml:"wobble_amount"`

	PointerInfluence float64 `yaml:"pointer_influence"`
}

// BloomConfig configures the BloomPass.
type BloomConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Strength    float64 `yaml:"strength"`
	Radius      float64 `yaml:"radius"`
	Threshold   float64 `yaml:"threshold"`
	SmoothWidth float64 `yaml:"smooth_width"`
	Mips        int     `yaml:"mips"`
}

// CurvesConfig holds the control points of every scroll-driven curve.
type CurvesConfig struct {
	GridRotation []ControlPoint `yaml:"grid_rotation"`
	Scale        []ControlPoint `yaml:"scale"`
	GridOpacity  []ControlPoint `yaml:"grid_opacity"`
}

// InputConfig configures the ebiten-backed input source of a Host.
type InputConfig struct {
	// DocumentHeight is the virtual page height in pixels. Zero means five
	// viewports tall.
	DocumentHeight float64 `yaml:"document_height"`
	// WheelStep is the scroll distance in pixels per wheel notch.
	WheelStep float64 `yaml:"wheel_step"`
}

// DefaultConfig returns the primary background: stars, grid, particles and
// bloom.
func DefaultConfig() *Config {
	return &Config{
		ClearColor:           "#000000",
		AmbientIntensity:     0.1,
		EnvironmentIntensity: 0.35,
		Camera:               CameraConfig{FOV: 60, Z: 5, Near: 0.1, Far: 2000},
		Float: FloatConfig{
			Enabled:           true,
			Speed:             2,
			RotationIntensity: 0.5,
			FloatIntensity:    0.5,
		},
		Stars: StarConfig{
			Enabled:          true,
			Count:            DefaultStarCount,
			Radius:           100,
			Depth:            100,
			Factor:           2,
			Saturation:       0.5,
			Fade:             true,
			Speed:            0.5,
			PointerInfluence: 0.2,
		},
		Grid: GridConfig{
			Enabled:           true,
			Size:              40,
			Segments:          20,
			Color:             "#928466",
			Emissive:          "#928466",
			EmissiveIntensity: 0.2,
			LineWidth:         1,
			PointerInfluence:  0.1,
		},
		Particles: ParticleConfig{
			Enabled:          true,
			Count:            DefaultParticleCount,
			Extent:           20,
			HueMin:           0.05,
			HueMax:           0.15,
			Saturation:       0.5,
			Lightness:        0.7,
			SizeMax:          2,
			MaterialSize:     0.1,
			Opacity:          0.8,
			SpinSpeed:        0.05,
			WobbleSpeed:      0.025,
			WobbleAmount:     0.1,
			PointerInfluence: 0.2,
		},
		Bloom: BloomConfig{
			Enabled:     true,
			Strength:    DefaultBloomStrength,
			Radius:      DefaultBloomRadius,
			Threshold:   DefaultBloomThreshold,
			SmoothWidth: 0.01,
			Mips:        5,
		},
		Curves: CurvesConfig{
			GridRotation: []ControlPoint{{0, 0}, {1, math.Pi / 2}},
			Scale:        []ControlPoint{{0, 1}, {1, 1.5}},
			GridOpacity:  []ControlPoint{{0, 0.3}, {0.5, 0.5}, {1, 0.2}},
		},
		Input: InputConfig{WheelStep: 40},
	}
}

// LoadingConfig returns the stars-only variant shown while the host loads:
// a denser, colorless field with no grid, particles, float or bloom.
func LoadingConfig() *Config {
	cfg := DefaultConfig()
	cfg.Camera.FOV = 75
	cfg.Float.Enabled = false
	cfg.Grid.Enabled = false
	cfg.Particles.Enabled = false
	cfg.Bloom.Enabled = false
	cfg.Stars.Count = LoadingStarCount
	cfg.Stars.Depth = 50
	cfg.Stars.Factor = 4
	cfg.Stars.Saturation = 0
	cfg.Stars.PointerInfluence = 0
	return cfg
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Curves.GridRotation = append([]ControlPoint(nil), c.Curves.GridRotation...)
	cp.Curves.Scale = append([]ControlPoint(nil), c.Curves.Scale...)
	cp.Curves.GridOpacity = append([]ControlPoint(nil), c.Curves.GridOpacity...)
	return &cp
}

// Validate reports every problem found, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	if _, err := ParseHexColor(c.ClearColor); err != nil {
		errs = append(errs, err)
	}
	check(c.AmbientIntensity >= 0, "ambient_intensity %g < 0", c.AmbientIntensity)
	check(c.EnvironmentIntensity >= 0, "environment_intensity %g < 0", c.EnvironmentIntensity)

	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov %g outside (0, 180)", c.Camera.FOV)
	check(c.Camera.Near > 0, "camera.near %g <= 0", c.Camera.Near)
	check(c.Camera.Far > c.Camera.Near, "camera.far %g <= near %g", c.Camera.Far, c.Camera.Near)

	if c.Stars.Enabled {
		check(c.Stars.Count > 0, "stars.count %d <= 0", c.Stars.Count)
		check(c.Stars.Radius > 0, "stars.radius %g <= 0", c.Stars.Radius)
		check(c.Stars.Depth >= 0, "stars.depth %g < 0", c.Stars.Depth)
		check(c.Stars.Saturation >= 0 && c.Stars.Saturation <= 1, "stars.saturation %g outside [0, 1]", c.Stars.Saturation)
	}
	if c.Grid.Enabled {
		check(c.Grid.Size > 0, "grid.size %g <= 0", c.Grid.Size)
		check(c.Grid.Segments > 0, "grid.segments %d <= 0", c.Grid.Segments)
		if _, err := ParseHexColor(c.Grid.Color); err != nil {
			errs = append(errs, err)
		}
		if _, err := ParseHexColor(c.Grid.Emissive); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Particles.Enabled {
		check(c.Particles.Count > 0, "particles.count %d <= 0", c.Particles.Count)
		check(c.Particles.Extent > 0, "particles.extent %g <= 0", c.Particles.Extent)
		check(c.Particles.HueMin <= c.Particles.HueMax, "particles.hue_min %g > hue_max %g", c.Particles.HueMin, c.Particles.HueMax)
		check(c.Particles.SizeMax >= 0, "particles.size_max %g < 0", c.Particles.SizeMax)
		check(c.Particles.Opacity >= 0 && c.Particles.Opacity <= 1, "particles.opacity %g outside [0, 1]", c.Particles.Opacity)
	}
	if c.Bloom.Enabled {
		check(c.Bloom.Strength >= 0, "bloom.strength %g < 0", c.Bloom.Strength)
		check(c.Bloom.Radius >= 0 && c.Bloom.Radius <= 1, "bloom.radius %g outside [0, 1]", c.Bloom.Radius)
		check(c.Bloom.Threshold >= 0, "bloom.threshold %g < 0", c.Bloom.Threshold)
		check(c.Bloom.Mips > 0 && c.Bloom.Mips <= maxBloomMips, "bloom.mips %d outside [1, %d]", c.Bloom.Mips, maxBloomMips)
	}
	if _, err := c.curves(); err != nil {
		errs = append(errs, err)
	}
	check(c.Input.DocumentHeight >= 0, "input.document_height %g < 0", c.Input.DocumentHeight)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// curveSet is the validated form of CurvesConfig.
type curveSet struct {
	gridRotation Curve
	scale        Curve
	gridOpacity  Curve
}

func (c *Config) curves() (curveSet, error) {
	var set curveSet
	var err error
	if set.gridRotation, err = NewCurve(c.Curves.GridRotation...); err != nil {
		return set, fmt.Errorf("curves.grid_rotation: %w", err)
	}
	if set.scale, err = NewCurve(c.Curves.Scale...); err != nil {
		return set, fmt.Errorf("curves.scale: %w", err)
	}
	if set.gridOpacity, err = NewCurve(c.Curves.GridOpacity...); err != nil {
		return set, fmt.Errorf("curves.grid_opacity: %w", err)
	}
	return set, nil
}

// NamedCurves returns every validated curve keyed by its config name, in a
// stable order.
func (c *Config) NamedCurves() ([]string, map[string]Curve, error) {
	set, err := c.curves()
	if err != nil {
		return nil, nil, err
	}
	names := []string{"grid_rotation", "scale", "grid_opacity"}
	return names, map[string]Curve{
		"grid_rotation": set.gridRotation,
		"scale":         set.scale,
		"grid_opacity":  set.gridOpacity,
	}, nil
}

// Load reads a YAML config file and applies it on top of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
