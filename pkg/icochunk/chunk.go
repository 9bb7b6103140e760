// Package icochunk builds subdivided, noise-displaced triangular patches of an
// icosphere.
//
// A chunk is one face of a base polyhedron cut into a triangular grid with
// res points on every edge. Its vertex buffer follows a fixed layout (see
// Layout) so that index generation is pure arithmetic, and its edge points are
// computed so that two chunks sharing an edge produce bitwise-identical
// vertices there.
package icochunk

import (
	"errors"
	"fmt"

	pmath "github.com/Faultbox/planetmesh/pkg/math"
)

// ErrInvalidArgument is returned for resolutions, faces or options the
// builder cannot work with.
var ErrInvalidArgument = errors.New("icochunk: invalid argument")

// MaxResolution keeps the index buffer well inside the uint32 range.
const MaxResolution = 4096

// collinearEpsilon bounds sin²(angle) between the two edges leaving A.
const collinearEpsilon = 1e-10

// Face is a triangle to subdivide. A→B→C should be counter-clockwise when
// seen from outside; the generated triangles keep that orientation.
type Face struct {
	A, B, C pmath.Vec3
}

// Normal returns the unnormalized face normal (B-A)×(C-A).
func (f Face) Normal() pmath.Vec3 {
	return f.B.Sub(f.A).Cross(f.C.Sub(f.A))
}

// Validate rejects non-finite and collinear corners.
func (f Face) Validate() error {
	if !f.A.IsFinite() || !f.B.IsFinite() || !f.C.IsFinite() {
		return fmt.Errorf("%w: face has non-finite corner", ErrInvalidArgument)
	}

	ab := f.B.Sub(f.A)
	ac := f.C.Sub(f.A)
	area2 := ab.Cross(ac).LengthSquared()
	scale := ab.LengthSquared() * ac.LengthSquared()
	if area2 <= collinearEpsilon*scale {
		return fmt.Errorf("%w: face corners %v %v %v are collinear", ErrInvalidArgument, f.A, f.B, f.C)
	}
	return nil
}

// Options control deformation and the optional per-vertex attributes.
type Options struct {
	// Radius of the sphere vertices are projected onto. Zero keeps the
	// patch flat and ignores Noise.
	Radius float32
	// NoiseScale multiplies positions before they are fed to Noise.
	NoiseScale float32
	// Noise displaces vertices along their direction. Nil means none.
	Noise NoiseFunc
	// Color assigns vertex colors after displacement. Nil means none.
	Color ColorPolicy
	// Normals selects normal generation.
	Normals NormalMode
	// OnPoint is called once per generated point with its pre-displacement
	// position, after the build succeeded.
	OnPoint PointFunc
}

// DefaultOptions returns a radius-10 sphere projection without noise.
func DefaultOptions() Options {
	return Options{
		Radius:     10,
		NoiseScale: 1000,
	}
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min pmath.Vec3
	Max pmath.Vec3
}

// ComputeBounds returns the bounding box of the points.
func ComputeBounds(points []pmath.Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Min.Z = min(b.Min.Z, p.Z)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
		b.Max.Z = max(b.Max.Z, p.Z)
	}
	return b
}

// Mesh holds the buffers of a built chunk, ready for a renderer.
type Mesh struct {
	Resolution int
	Vertices   []pmath.Vec3
	Indices    []uint32
	Normals    []pmath.Vec3 // nil unless requested
	Colors     []Color      // nil unless a color policy was set
	Bounds     Bounds
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]}
}

// Validate checks buffer consistency: whole triangles, indices in range and
// attribute slices matching the vertex count.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidArgument, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrInvalidArgument, idx, i, len(m.Vertices))
		}
	}
	if m.Normals != nil && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidArgument, len(m.Normals), len(m.Vertices))
	}
	if m.Colors != nil && len(m.Colors) != len(m.Vertices) {
		return fmt.Errorf("%w: %d colors for %d vertices", ErrInvalidArgument, len(m.Colors), len(m.Vertices))
	}
	return nil
}

// Build generates the chunk for face at resolution res.
//
// The result has 3 + 3·res + res(res-1)/2 vertices and (res+1)² triangles.
// On error no mesh is returned; errors from opts.Noise are passed through
// unchanged.
func Build(face Face, res int, opts Options) (*Mesh, error) {
	if res < 0 {
		return nil, fmt.Errorf("%w: resolution %d is negative", ErrInvalidArgument, res)
	}
	if res > MaxResolution {
		return nil, fmt.Errorf("%w: resolution %d exceeds %d", ErrInvalidArgument, res, MaxResolution)
	}
	if opts.Radius < 0 {
		return nil, fmt.Errorf("%w: radius %v is negative", ErrInvalidArgument, opts.Radius)
	}
	if err := face.Validate(); err != nil {
		return nil, err
	}

	raw := BuildVertices(face, res)
	vertices := raw
	if opts.Radius > 0 {
		deformed, err := Deform(raw, opts.Radius, opts.NoiseScale, opts.Noise)
		if err != nil {
			return nil, err
		}
		vertices = deformed
	}

	indices := BuildIndices(res)
	mesh := &Mesh{
		Resolution: res,
		Vertices:   vertices,
		Indices:    indices,
		Normals:    ComputeNormals(opts.Normals, vertices, indices),
		Bounds:     ComputeBounds(vertices),
	}
	if opts.Color != nil {
		mesh.Colors = Colorize(vertices, opts.Color)
	}

	if opts.OnPoint != nil {
		emitPoints(NewLayout(res), raw, opts.OnPoint)
	}

	return mesh, nil
}
