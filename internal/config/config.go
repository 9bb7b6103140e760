// Package config handles planet generation settings.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/planetmesh/pkg/icochunk"
	"github.com/Faultbox/planetmesh/pkg/noise"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Export formats.
const (
	FormatOBJ  = "obj"
	FormatPMSH = "pmsh"
)

// Config holds all generation settings.
type Config struct {
	Planet  PlanetConfig  `yaml:"planet"`
	Noise   NoiseConfig   `yaml:"noise"`
	Terrain TerrainConfig `yaml:"terrain"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// PlanetConfig holds sphere settings.
type PlanetConfig struct {
	Radius     float32 `yaml:"radius"`     // 0 keeps chunks flat
	Resolution int     `yaml:"resolution"` // Interior points per chunk edge
	Seed       int64   `yaml:"seed"`
	Workers    int     `yaml:"workers"` // 0 uses every CPU
}

// NoiseConfig holds terrain displacement settings.
type NoiseConfig struct {
	Enabled     bool    `yaml:"enabled"`
	InputScale  float32 `yaml:"input_scale"` // Multiplies positions before sampling
	Frequency   float32 `yaml:"frequency"`
	Amplitude   float32 `yaml:"amplitude"`
	Octaves     int     `yaml:"octaves"`
	Persistence float32 `yaml:"persistence"`
	Lacunarity  float32 `yaml:"lacunarity"`
}

// TerrainConfig holds vertex coloring settings.
type TerrainConfig struct {
	Colorize  bool    `yaml:"colorize"`
	Threshold float32 `yaml:"threshold"`  // Distance from center above which HighColor applies
	HighColor string  `yaml:"high_color"` // "#RRGGBB" or "#RRGGBBAA"
	LowColor  string  `yaml:"low_color"`
}

// MeshConfig holds mesh assembly settings.
type MeshConfig struct {
	Normals string `yaml:"normals"` // none, spherical or smooth
	Weld    bool   `yaml:"weld"`
}

// ExportConfig holds output settings.
type ExportConfig struct {
	Format string `yaml:"format"` // obj or pmsh
	Path   string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	np := noise.DefaultParams()
	terrain := icochunk.DefaultThresholdPolicy()

	return &Config{
		Planet: PlanetConfig{
			Radius:     10,
			Resolution: 8,
			Seed:       np.Seed,
			Workers:    0,
		},
		Noise: NoiseConfig{
			Enabled:     true,
			InputScale:  icochunk.DefaultOptions().NoiseScale,
			Frequency:   np.Frequency,
			Amplitude:   np.Amplitude,
			Octaves:     np.Octaves,
			Persistence: np.Persistence,
			Lacunarity:  np.Lacunarity,
		},
		Terrain: TerrainConfig{
			Colorize:  true,
			Threshold: terrain.Threshold,
			HighColor: terrain.High.Hex(),
			LowColor:  terrain.Low.Hex(),
		},
		Mesh: MeshConfig{
			Normals: icochunk.NormalsSmooth.String(),
			Weld:    true,
		},
		Export: ExportConfig{
			Format: FormatPMSH,
			Path:   "planet.pmsh",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// NoiseParams returns the noise section as generator parameters.
func (c *Config) NoiseParams() noise.Params {
	return noise.Params{
		Seed:        c.Planet.Seed,
		Octaves:     c.Noise.Octaves,
		Frequency:   c.Noise.Frequency,
		Amplitude:   c.Noise.Amplitude,
		Persistence: c.Noise.Persistence,
		Lacunarity:  c.Noise.Lacunarity,
	}
}

// ThresholdPolicy returns the terrain section as a color policy.
func (c *Config) ThresholdPolicy() (icochunk.ThresholdPolicy, error) {
	high, err := icochunk.ParseHexColor(c.Terrain.HighColor)
	if err != nil {
		return icochunk.ThresholdPolicy{}, fmt.Errorf("terrain.high_color: %w", err)
	}
	low, err := icochunk.ParseHexColor(c.Terrain.LowColor)
	if err != nil {
		return icochunk.ThresholdPolicy{}, fmt.Errorf("terrain.low_color: %w", err)
	}
	return icochunk.ThresholdPolicy{Threshold: c.Terrain.Threshold, High: high, Low: low}, nil
}

// NormalMode returns the parsed mesh.normals setting.
func (c *Config) NormalMode() (icochunk.NormalMode, error) {
	return icochunk.ParseNormalMode(c.Mesh.Normals)
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.Planet.Radius < 0 {
		invalid("planet.radius %v is negative", c.Planet.Radius)
	}
	if c.Planet.Resolution < 0 || c.Planet.Resolution > icochunk.MaxResolution {
		invalid("planet.resolution %d not in [0, %d]", c.Planet.Resolution, icochunk.MaxResolution)
	}
	if c.Planet.Workers < 0 {
		invalid("planet.workers %d is negative", c.Planet.Workers)
	}

	if c.Noise.Enabled {
		if err := c.NoiseParams().Validate(); err != nil {
			invalid("noise: %v", err)
		}
	}

	if c.Terrain.Colorize {
		if _, err := c.ThresholdPolicy(); err != nil {
			invalid("%v", err)
		}
	}

	if _, err := c.NormalMode(); err != nil {
		invalid("mesh.normals: %v", err)
	}

	switch strings.ToLower(c.Export.Format) {
	case FormatOBJ, FormatPMSH:
	default:
		invalid("export.format %q must be %s or %s", c.Export.Format, FormatOBJ, FormatPMSH)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		invalid("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}

	return errors.Join(errs...)
}
