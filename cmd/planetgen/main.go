// planetgen builds icosphere planet meshes from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/planetmesh/internal/config"
	"github.com/Faultbox/planetmesh/internal/logger"
	"github.com/Faultbox/planetmesh/internal/planet"
	"github.com/Faultbox/planetmesh/pkg/formats"
	"github.com/Faultbox/planetmesh/pkg/icochunk"
	pmath "github.com/Faultbox/planetmesh/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		cmdBuild(args)
	case "chunk":
		cmdChunk(args)
	case "info":
		cmdInfo(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`planetgen - icosphere planet mesh generator

Usage:
  planetgen <command> [options]

Commands:
  build [flags]              Build a planet and write it as OBJ or PMSH
  chunk [flags]              Build a single chunk and print its stats
  info <file.pmsh>           Show PMSH file information
  config [flags] [path]      Print the effective config, or write it to path

Flags (build, chunk, config):
  -config <file>     Config file (default ./planetgen.yaml, then user config dir)
  -resolution <n>    Interior points per chunk edge
  -radius <r>        Planet radius (0 keeps chunks flat)
  -seed <n>          Noise seed
  -workers <n>       Worker pool size (0 = all CPUs)
  -normals <mode>    none, spherical or smooth
  -format <fmt>      obj or pmsh
  -out <file>        Output path
  -debug             Debug logging

Examples:
  planetgen build -resolution 32 -out earth.pmsh
  planetgen build -format obj -normals spherical -out planet.obj
  planetgen chunk -resolution 4 -face 7 -points
  planetgen info earth.pmsh
  planetgen config ~/.config/planetmesh/config.yaml`)
}

// setup parses the shared flags, loads the config and initializes logging.
func setup(fs *flag.FlagSet, args []string) *config.Config {
	flags := config.BindFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	return cfg
}

func fail(msg string, err error) {
	logger.Error(msg, zap.Error(err))
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	cfg := setup(fs, args)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := buildPlanet(ctx, cfg, logger.Named("planet"))
	if err != nil {
		fail("planet build failed", err)
	}

	mesh := assemble(cfg, p)
	if err := export(cfg, mesh); err != nil {
		fail("export failed", err)
	}

	stats := p.Stats()
	fmt.Printf("Planet:     resolution %d, radius %g\n", p.Resolution, p.Radius)
	fmt.Printf("Chunks:     %d\n", stats.Chunks)
	fmt.Printf("Vertices:   %d\n", len(mesh.Vertices))
	fmt.Printf("Triangles:  %d\n", mesh.TriangleCount())
	fmt.Printf("Elevation:  %.4f .. %.4f\n", stats.MinRadius, stats.MaxRadius)
	fmt.Printf("Written:    %s (%s)\n", cfg.Export.Path, strings.ToLower(cfg.Export.Format))
}

func cmdChunk(args []string) {
	fs := flag.NewFlagSet("chunk", flag.ExitOnError)
	face := fs.Int("face", 0, "Icosahedron face index (0-19)")
	points := fs.Bool("points", false, "Report generated points by kind")
	cfg := setup(fs, args)
	defer logger.Sync()

	faces := planet.BaseFaces()
	if *face < 0 || *face >= len(faces) {
		fmt.Fprintf(os.Stderr, "Error: face %d not in [0, %d]\n", *face, len(faces)-1)
		os.Exit(1)
	}

	opts, err := chunkOptions(cfg)
	if err != nil {
		fail("invalid chunk options", err)
	}

	kinds := make(map[icochunk.PointKind]int)
	if *points {
		opts.OnPoint = func(kind icochunk.PointKind, index int, p pmath.Vec3) {
			kinds[kind]++
			logger.Debug("point",
				zap.Stringer("kind", kind),
				zap.Int("index", index),
				zap.Float32("x", p.X), zap.Float32("y", p.Y), zap.Float32("z", p.Z))
		}
	}

	mesh, err := icochunk.Build(faces[*face], cfg.Planet.Resolution, opts)
	if err != nil {
		fail("chunk build failed", err)
	}

	fmt.Printf("Face:       %d\n", *face)
	fmt.Printf("Resolution: %d\n", mesh.Resolution)
	fmt.Printf("Vertices:   %d\n", len(mesh.Vertices))
	fmt.Printf("Triangles:  %d\n", mesh.TriangleCount())
	fmt.Printf("Bounds:     %v .. %v\n", mesh.Bounds.Min, mesh.Bounds.Max)

	if *points {
		fmt.Println()
		fmt.Println("Points by kind:")
		var sorted []icochunk.PointKind
		for k := range kinds {
			sorted = append(sorted, k)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		for _, k := range sorted {
			fmt.Printf("  %-8s %d\n", k, kinds[k])
		}
	}

	if fs.Lookup("out").Value.String() != "" {
		if err := export(cfg, mesh); err != nil {
			fail("export failed", err)
		}
		fmt.Printf("Written:    %s\n", cfg.Export.Path)
	}
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: planetgen info <file.pmsh>")
		os.Exit(1)
	}

	mesh, err := formats.LoadPMSH(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Resolution: %d\n", mesh.Resolution)
	fmt.Printf("Vertices:   %d\n", len(mesh.Vertices))
	fmt.Printf("Triangles:  %d\n", mesh.TriangleCount())
	fmt.Printf("Normals:    %t\n", mesh.Normals != nil)
	fmt.Printf("Colors:     %t\n", mesh.Colors != nil)
	fmt.Printf("Bounds:     %v .. %v\n", mesh.Bounds.Min, mesh.Bounds.Max)
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	cfg := setup(fs, args)
	defer logger.Sync()

	if fs.NArg() > 0 {
		path := fs.Arg(0)
		if err := cfg.SaveTo(path); err != nil {
			fail("saving config failed", err)
		}
		logger.Info("config written", zap.String("path", path))
		return
	}

	data, err := cfg.Marshal()
	if err != nil {
		fail("encoding config failed", err)
	}
	os.Stdout.Write(data)
}
