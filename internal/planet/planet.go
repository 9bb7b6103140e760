// Package planet assembles a sphere from the 20 icosahedron chunks.
package planet

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/planetmesh/pkg/icochunk"
	pmath "github.com/Faultbox/planetmesh/pkg/math"
)

// ErrInvalidParams is returned for parameters Build cannot work with.
var ErrInvalidParams = errors.New("planet: invalid parameters")

// Params configures a planet build.
type Params struct {
	Resolution int
	// Workers is the pool size. Zero or less uses runtime.NumCPU().
	Workers int
	// Chunk is passed to every chunk build. Its Noise and Color callbacks,
	// and OnPoint, are called from several goroutines at once.
	Chunk icochunk.Options
}

// DefaultParams returns a resolution-8 planet with the default chunk options.
func DefaultParams() Params {
	return Params{
		Resolution: 8,
		Workers:    runtime.NumCPU(),
		Chunk:      icochunk.DefaultOptions(),
	}
}

// Validate checks the planet-level parameters. Chunk options are validated by
// the chunk builder.
func (p Params) Validate() error {
	if p.Resolution < 0 || p.Resolution > icochunk.MaxResolution {
		return fmt.Errorf("%w: resolution %d not in [0, %d]", ErrInvalidParams, p.Resolution, icochunk.MaxResolution)
	}
	if p.Chunk.Radius < 0 {
		return fmt.Errorf("%w: radius %v is negative", ErrInvalidParams, p.Chunk.Radius)
	}
	return nil
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	log *zap.Logger
}

// WithLogger sets the logger used for build progress. The default discards
// everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// Planet holds the chunk meshes of a built sphere, in face order.
type Planet struct {
	Resolution int
	Radius     float32
	Normals    icochunk.NormalMode
	Faces      []icochunk.Face
	Chunks     []*icochunk.Mesh
}

// BaseFaces returns the unit icosahedron faces chunks are built from. Noise is
// sampled at these positions times the chunk noise scale, so the terrain does
// not change with the radius.
func BaseFaces() []icochunk.Face {
	vertices, indices := Icosahedron(1)

	faces := make([]icochunk.Face, len(indices))
	for i, f := range indices {
		faces[i] = icochunk.Face{A: vertices[f[0]], B: vertices[f[1]], C: vertices[f[2]]}
	}
	return faces
}

// Build generates all 20 chunks on a worker pool. Every chunk is attempted
// unless ctx is done before it starts; failures are joined in face order and
// no planet is returned.
func Build(ctx context.Context, p Params, opts ...Option) (*Planet, error) {
	o := buildOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	faces := BaseFaces()
	chunks := make([]*icochunk.Mesh, len(faces))
	errs := make([]error, len(faces))

	o.log.Info("building planet",
		zap.Int("resolution", p.Resolution),
		zap.Float32("radius", p.Chunk.Radius),
		zap.Int("workers", workers),
		zap.Stringer("normals", p.Chunk.Normals))
	start := time.Now()

	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	var wg sync.WaitGroup
	for i, face := range faces {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("face %d: %w", i, err)
				return
			}

			chunkStart := time.Now()
			mesh, err := icochunk.Build(face, p.Resolution, p.Chunk)
			if err != nil {
				errs[i] = fmt.Errorf("face %d: %w", i, err)
				return
			}
			chunks[i] = mesh

			o.log.Debug("chunk built",
				zap.Int("face", i),
				zap.Int("vertices", len(mesh.Vertices)),
				zap.Int("triangles", mesh.TriangleCount()),
				zap.Duration("elapsed", time.Since(chunkStart)))
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		o.log.Warn("planet build failed", zap.Error(err))
		return nil, err
	}

	planet := &Planet{
		Resolution: p.Resolution,
		Radius:     p.Chunk.Radius,
		Normals:    p.Chunk.Normals,
		Faces:      faces,
		Chunks:     chunks,
	}

	stats := planet.Stats()
	o.log.Info("planet built",
		zap.Int("chunks", stats.Chunks),
		zap.Int("vertices", stats.Vertices),
		zap.Int("triangles", stats.Triangles),
		zap.Duration("elapsed", time.Since(start)))

	return planet, nil
}

// Stats summarizes a planet.
type Stats struct {
	Chunks    int
	Vertices  int // sum over chunks, shared edges counted per chunk
	Triangles int
	MinRadius float32
	MaxRadius float32
}

// Stats returns chunk and vertex totals and the range of vertex distances
// from the center.
func (p *Planet) Stats() Stats {
	s := Stats{Chunks: len(p.Chunks)}
	first := true
	for _, c := range p.Chunks {
		s.Vertices += len(c.Vertices)
		s.Triangles += c.TriangleCount()
		for _, v := range c.Vertices {
			r := v.Length()
			if first {
				s.MinRadius, s.MaxRadius = r, r
				first = false
				continue
			}
			s.MinRadius = min(s.MinRadius, r)
			s.MaxRadius = max(s.MaxRadius, r)
		}
	}
	return s
}

// Weld merges the chunks into one mesh, sharing vertices whose positions are
// bitwise equal. Colors come from the first chunk that emitted a vertex;
// normals are recomputed over the whole sphere.
func (p *Planet) Weld() *icochunk.Mesh {
	var (
		vertices []pmath.Vec3
		colors   []icochunk.Color
		indices  []uint32
	)
	withColors := len(p.Chunks) > 0 && p.Chunks[0].Colors != nil
	seen := make(map[[3]uint32]uint32)

	for _, c := range p.Chunks {
		remap := make([]uint32, len(c.Vertices))
		for i, v := range c.Vertices {
			key := v.Bits()
			idx, ok := seen[key]
			if !ok {
				idx = uint32(len(vertices))
				seen[key] = idx
				vertices = append(vertices, v)
				if withColors {
					colors = append(colors, c.Colors[i])
				}
			}
			remap[i] = idx
		}
		for _, idx := range c.Indices {
			indices = append(indices, remap[idx])
		}
	}

	return &icochunk.Mesh{
		Resolution: p.Resolution,
		Vertices:   vertices,
		Indices:    indices,
		Normals:    icochunk.ComputeNormals(p.Normals, vertices, indices),
		Colors:     colors,
		Bounds:     icochunk.ComputeBounds(vertices),
	}
}

// Merge concatenates the chunks into one mesh without sharing vertices.
func (p *Planet) Merge() *icochunk.Mesh {
	m := &icochunk.Mesh{Resolution: p.Resolution}
	for _, c := range p.Chunks {
		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, c.Vertices...)
		for _, idx := range c.Indices {
			m.Indices = append(m.Indices, base+idx)
		}
		if c.Normals != nil {
			m.Normals = append(m.Normals, c.Normals...)
		}
		if c.Colors != nil {
			m.Colors = append(m.Colors, c.Colors...)
		}
	}
	m.Bounds = icochunk.ComputeBounds(m.Vertices)
	return m
}
