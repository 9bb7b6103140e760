package icochunk

import (
	pmath "github.com/Faultbox/planetmesh/pkg/math"
)

// NoiseFunc samples a coherent scalar field. It must be pure: equal inputs
// give equal outputs, which keeps shared chunk edges seamless after
// displacement.
type NoiseFunc func(p pmath.Vec3) (float32, error)

// Pure adapts an infallible sampler.
func Pure(f func(p pmath.Vec3) float32) NoiseFunc {
	return func(p pmath.Vec3) (float32, error) {
		return f(p), nil
	}
}

// ConstantNoise returns a field with the same height everywhere.
func ConstantNoise(h float32) NoiseFunc {
	return func(pmath.Vec3) (float32, error) {
		return h, nil
	}
}

// Deform projects each vertex onto the sphere of the given radius and
// displaces it along its direction by noise(v·inputScale). A nil noise means
// no displacement. The input slice is not modified.
//
// The first error returned by noise aborts the deformation and is returned
// as is.
func Deform(vertices []pmath.Vec3, radius, inputScale float32, noise NoiseFunc) ([]pmath.Vec3, error) {
	out := make([]pmath.Vec3, len(vertices))
	for i, v := range vertices {
		var h float32
		if noise != nil {
			n, err := noise(v.Scale(inputScale))
			if err != nil {
				return nil, err
			}
			h = n
		}
		out[i] = v.Normalize().Scale(radius + h)
	}
	return out, nil
}
