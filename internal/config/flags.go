package config

import "flag"

// Flags holds command-line overrides. Only flags given on the command line
// override the config; zero values never do.
type Flags struct {
	Config     string
	Debug      bool
	Resolution int
	Radius     float64
	Seed       int64
	Workers    int
	Out        string
	Format     string
	Normals    string

	fs *flag.FlagSet
}

// BindFlags registers the config flags on fs. Call fs.Parse before Load.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.IntVar(&f.Resolution, "resolution", 0, "Interior points per chunk edge")
	fs.Float64Var(&f.Radius, "radius", 0, "Planet radius (0 keeps chunks flat)")
	fs.Int64Var(&f.Seed, "seed", 0, "Noise seed")
	fs.IntVar(&f.Workers, "workers", 0, "Worker pool size (0 = all CPUs)")
	fs.StringVar(&f.Out, "out", "", "Output file path")
	fs.StringVar(&f.Format, "format", "", "Output format: obj or pmsh")
	fs.StringVar(&f.Normals, "normals", "", "Normals: none, spherical or smooth")
	return f
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.Config
}

// given reports which flags were set on the command line.
func (f *Flags) given() map[string]bool {
	set := make(map[string]bool)
	if f != nil && f.fs != nil {
		f.fs.Visit(func(fl *flag.Flag) {
			set[fl.Name] = true
		})
	}
	return set
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	set := f.given()

	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if set["resolution"] {
		cfg.Planet.Resolution = f.Resolution
	}
	if set["radius"] {
		cfg.Planet.Radius = float32(f.Radius)
	}
	if set["seed"] {
		cfg.Planet.Seed = f.Seed
	}
	if set["workers"] {
		cfg.Planet.Workers = f.Workers
	}
	if f.Out != "" {
		cfg.Export.Path = f.Out
	}
	if f.Format != "" {
		cfg.Export.Format = f.Format
	}
	if f.Normals != "" {
		cfg.Mesh.Normals = f.Normals
	}
}
