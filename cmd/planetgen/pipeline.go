package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/planetmesh/internal/config"
	"github.com/Faultbox/planetmesh/internal/planet"
	"github.com/Faultbox/planetmesh/pkg/formats"
	"github.com/Faultbox/planetmesh/pkg/icochunk"
	"github.com/Faultbox/planetmesh/pkg/noise"
)

// chunkOptions translates the config into chunk builder options.
func chunkOptions(cfg *config.Config) (icochunk.Options, error) {
	opts := icochunk.Options{
		Radius:     cfg.Planet.Radius,
		NoiseScale: cfg.Noise.InputScale,
	}

	mode, err := cfg.NormalMode()
	if err != nil {
		return opts, err
	}
	opts.Normals = mode

	if cfg.Noise.Enabled {
		field, err := noise.New(cfg.NoiseParams())
		if err != nil {
			return opts, err
		}
		opts.Noise = field.Func()
	}

	if cfg.Terrain.Colorize {
		policy, err := cfg.ThresholdPolicy()
		if err != nil {
			return opts, err
		}
		opts.Color = policy.Classify
	}

	return opts, nil
}

// buildPlanet builds every chunk described by the config.
func buildPlanet(ctx context.Context, cfg *config.Config, log *zap.Logger) (*planet.Planet, error) {
	opts, err := chunkOptions(cfg)
	if err != nil {
		return nil, err
	}

	return planet.Build(ctx, planet.Params{
		Resolution: cfg.Planet.Resolution,
		Workers:    cfg.Planet.Workers,
		Chunk:      opts,
	}, planet.WithLogger(log))
}

// assemble merges the chunks into the mesh that gets exported.
func assemble(cfg *config.Config, p *planet.Planet) *icochunk.Mesh {
	if cfg.Mesh.Weld {
		return p.Weld()
	}
	return p.Merge()
}

// export writes mesh in the configured format.
func export(cfg *config.Config, mesh *icochunk.Mesh) error {
	switch strings.ToLower(cfg.Export.Format) {
	case config.FormatOBJ:
		return formats.SaveOBJ(cfg.Export.Path, mesh)
	case config.FormatPMSH:
		return formats.SavePMSH(cfg.Export.Path, mesh)
	default:
		return fmt.Errorf("unknown export format %q", cfg.Export.Format)
	}
}
