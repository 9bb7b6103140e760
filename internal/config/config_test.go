package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/planetmesh/pkg/icochunk"
)

// parseFlags binds the config flags to a fresh set and parses args.
func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	return f
}

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test planet defaults
	if cfg.Planet.Radius != 10 {
		t.Errorf("expected radius 10, got %f", cfg.Planet.Radius)
	}
	if cfg.Planet.Resolution != 8 {
		t.Errorf("expected resolution 8, got %d", cfg.Planet.Resolution)
	}
	if cfg.Planet.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Planet.Workers)
	}

	// Test noise defaults
	if !cfg.Noise.Enabled {
		t.Error("expected noise to be enabled by default")
	}
	if cfg.Noise.InputScale != 1000 {
		t.Errorf("expected input scale 1000, got %f", cfg.Noise.InputScale)
	}

	// Test terrain defaults
	if cfg.Terrain.Threshold != 9.5 {
		t.Errorf("expected threshold 9.5, got %f", cfg.Terrain.Threshold)
	}
	if cfg.Terrain.HighColor != "#316231" {
		t.Errorf("expected high color #316231, got %s", cfg.Terrain.HighColor)
	}
	if cfg.Terrain.LowColor != "#FFFFBA" {
		t.Errorf("expected low color #FFFFBA, got %s", cfg.Terrain.LowColor)
	}

	// Test mesh and export defaults
	if cfg.Mesh.Normals != "smooth" {
		t.Errorf("expected smooth normals, got %s", cfg.Mesh.Normals)
	}
	if cfg.Export.Format != FormatPMSH {
		t.Errorf("expected pmsh format, got %s", cfg.Export.Format)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
planet:
  radius: 6.5
  resolution: 12
  seed: 1234
  workers: 3

noise:
  enabled: false
  octaves: 5

terrain:
  colorize: false
  threshold: 6.2
  high_color: "#112233"

mesh:
  normals: spherical
  weld: false

export:
  format: obj
  path: out/planet.obj

logging:
  level: "debug"
  log_file: "planetgen.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Planet.Radius != 6.5 {
		t.Errorf("expected radius 6.5, got %f", cfg.Planet.Radius)
	}
	if cfg.Planet.Resolution != 12 {
		t.Errorf("expected resolution 12, got %d", cfg.Planet.Resolution)
	}
	if cfg.Planet.Seed != 1234 {
		t.Errorf("expected seed 1234, got %d", cfg.Planet.Seed)
	}
	if cfg.Planet.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Planet.Workers)
	}

	if cfg.Noise.Enabled {
		t.Error("expected noise to be disabled")
	}
	if cfg.Noise.Octaves != 5 {
		t.Errorf("expected 5 octaves, got %d", cfg.Noise.Octaves)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Noise.InputScale != 1000 {
		t.Errorf("expected default input scale, got %f", cfg.Noise.InputScale)
	}
	if cfg.Terrain.LowColor != "#FFFFBA" {
		t.Errorf("expected default low color, got %s", cfg.Terrain.LowColor)
	}

	if cfg.Terrain.HighColor != "#112233" {
		t.Errorf("expected high color #112233, got %s", cfg.Terrain.HighColor)
	}
	if cfg.Mesh.Normals != "spherical" || cfg.Mesh.Weld {
		t.Errorf("unexpected mesh config %+v", cfg.Mesh)
	}
	if cfg.Export.Format != "obj" || cfg.Export.Path != "out/planet.obj" {
		t.Errorf("unexpected export config %+v", cfg.Export)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "planetgen.log" {
		t.Errorf("expected log file 'planetgen.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
planet:
  resolution: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("planet:\n  radus: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for unknown key, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if cfg.Planet.Resolution != 8 {
		t.Errorf("expected defaults to survive, got resolution %d", cfg.Planet.Resolution)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create planetgen.yaml in current directory
	configPath := filepath.Join(tmpDir, "planetgen.yaml")
	if err := os.WriteFile(configPath, []byte("planet:\n  resolution: 4\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find planetgen.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "planet flags",
			args: []string{"-resolution", "3", "-radius", "2.5", "-seed", "99", "-workers", "2"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Planet.Resolution != 3 {
					t.Errorf("expected resolution 3, got %d", cfg.Planet.Resolution)
				}
				if cfg.Planet.Radius != 2.5 {
					t.Errorf("expected radius 2.5, got %f", cfg.Planet.Radius)
				}
				if cfg.Planet.Seed != 99 {
					t.Errorf("expected seed 99, got %d", cfg.Planet.Seed)
				}
				if cfg.Planet.Workers != 2 {
					t.Errorf("expected 2 workers, got %d", cfg.Planet.Workers)
				}
			},
		},
		{
			name: "explicit zero overrides",
			args: []string{"-resolution", "0", "-radius", "0"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Planet.Resolution != 0 || cfg.Planet.Radius != 0 {
					t.Errorf("expected zero resolution and radius, got %d and %f", cfg.Planet.Resolution, cfg.Planet.Radius)
				}
			},
		},
		{
			name: "export flags",
			args: []string{"-out", "x.obj", "-format", "obj", "-normals", "none"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Path != "x.obj" || cfg.Export.Format != "obj" {
					t.Errorf("unexpected export config %+v", cfg.Export)
				}
				if cfg.Mesh.Normals != "none" {
					t.Errorf("expected normals none, got %s", cfg.Mesh.Normals)
				}
			},
		},
		{
			name: "no flags",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Planet.Resolution != 8 || cfg.Planet.Radius != 10 {
					t.Errorf("defaults changed without flags: %+v", cfg.Planet)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			applyFlags(cfg, parseFlags(t, tt.args...))
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
planet:
  radius: 4
  resolution: 16
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Flag overrides the config file
	f := parseFlags(t, "-config", configPath, "-resolution", "5")

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Resolution should be from flag (5), not file (16)
	if cfg.Planet.Resolution != 5 {
		t.Errorf("expected resolution 5 from flag, got %d", cfg.Planet.Resolution)
	}

	// Radius should be from file (4) since no flag override
	if cfg.Planet.Radius != 4 {
		t.Errorf("expected radius 4 from file, got %f", cfg.Planet.Radius)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	f := parseFlags(t, "-config", filepath.Join(t.TempDir(), "none.yaml"))
	if _, err := Load(f); err == nil {
		t.Error("expected error for missing explicit config")
	}

	f = parseFlags(t, "-format", "stl")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := Load(f); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"negative radius", func(c *Config) { c.Planet.Radius = -1 }, "planet.radius"},
		{"resolution too large", func(c *Config) { c.Planet.Resolution = icochunk.MaxResolution + 1 }, "planet.resolution"},
		{"negative workers", func(c *Config) { c.Planet.Workers = -2 }, "planet.workers"},
		{"bad octaves", func(c *Config) { c.Noise.Octaves = 0 }, "noise"},
		{"bad color", func(c *Config) { c.Terrain.HighColor = "green" }, "terrain.high_color"},
		{"bad normals", func(c *Config) { c.Mesh.Normals = "flat" }, "mesh.normals"},
		{"bad format", func(c *Config) { c.Export.Format = "stl" }, "export.format"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestValidateSkipsDisabledSections(t *testing.T) {
	cfg := Default()
	cfg.Noise.Enabled = false
	cfg.Noise.Octaves = 0
	cfg.Terrain.Colorize = false
	cfg.Terrain.HighColor = "nope"

	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled sections should not be validated: %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Planet.Resolution = 21
	cfg.Export.Format = FormatOBJ

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("config changed after save/load:\n got %+v\nwant %+v", loaded, cfg)
	}
}
