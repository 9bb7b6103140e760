package icochunk

import (
	"fmt"
	"strings"

	pmath "github.com/Faultbox/planetmesh/pkg/math"
)

// NormalMode selects how per-vertex normals are produced.
type NormalMode int

const (
	// NormalsNone leaves normals to the renderer.
	NormalsNone NormalMode = iota
	// NormalsSpherical uses the normalized vertex position.
	NormalsSpherical
	// NormalsSmooth averages the normals of adjacent faces, weighted by area.
	NormalsSmooth
)

// String returns the mode name as used in config files.
func (m NormalMode) String() string {
	switch m {
	case NormalsNone:
		return "none"
	case NormalsSpherical:
		return "spherical"
	case NormalsSmooth:
		return "smooth"
	default:
		return fmt.Sprintf("NormalMode(%d)", int(m))
	}
}

// ParseNormalMode parses "none", "spherical" or "smooth". The empty string
// means none.
func ParseNormalMode(s string) (NormalMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NormalsNone, nil
	case "spherical", "simple":
		return NormalsSpherical, nil
	case "smooth", "complex":
		return NormalsSmooth, nil
	default:
		return NormalsNone, fmt.Errorf("%w: unknown normal mode %q", ErrInvalidArgument, s)
	}
}

// ComputeNormals returns normals for the given mode, or nil for NormalsNone.
func ComputeNormals(mode NormalMode, vertices []pmath.Vec3, indices []uint32) []pmath.Vec3 {
	switch mode {
	case NormalsSpherical:
		return SphericalNormals(vertices)
	case NormalsSmooth:
		return SmoothNormals(vertices, indices)
	default:
		return nil
	}
}

// SphericalNormals points every normal away from the origin.
func SphericalNormals(vertices []pmath.Vec3) []pmath.Vec3 {
	normals := make([]pmath.Vec3, len(vertices))
	for i, v := range vertices {
		normals[i] = v.Normalize()
	}
	return normals
}

// SmoothNormals accumulates the unnormalized face normal of every triangle
// into its three vertices and normalizes the sums. Vertices that belong to no
// triangle fall back to their spherical normal.
func SmoothNormals(vertices []pmath.Vec3, indices []uint32) []pmath.Vec3 {
	sums := make([]pmath.Vec3, len(vertices))

	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		edge1 := vertices[b].Sub(vertices[a])
		edge2 := vertices[c].Sub(vertices[a])
		n := edge1.Cross(edge2)

		sums[a] = sums[a].Add(n)
		sums[b] = sums[b].Add(n)
		sums[c] = sums[c].Add(n)
	}

	normals := make([]pmath.Vec3, len(vertices))
	for i, s := range sums {
		if s.LengthSquared() == 0 {
			normals[i] = vertices[i].Normalize()
			continue
		}
		normals[i] = s.Normalize()
	}
	return normals
}
