// Package noise provides coherent 3D noise fields for terrain displacement.
package noise

import (
	"errors"
	"fmt"

	"github.com/ojrac/opensimplex-go"

	"github.com/Faultbox/planetmesh/pkg/icochunk"
	pmath "github.com/Faultbox/planetmesh/pkg/math"
)

// ErrInvalidParams is returned by New for parameters that cannot produce a field.
var ErrInvalidParams = errors.New("noise: invalid parameters")

// MaxOctaves caps the fBm layer count.
const MaxOctaves = 16

// Params configures a fractal (fBm) OpenSimplex field.
type Params struct {
	Seed        int64
	Octaves     int
	Frequency   float32 // frequency of the first octave
	Amplitude   float32 // peak displacement of the summed field
	Persistence float32 // amplitude multiplier per octave
	Lacunarity  float32 // frequency multiplier per octave
}

// DefaultParams returns a single-octave field at frequency 0.003, sized for
// unit-sphere positions scaled by 1000.
func DefaultParams() Params {
	return Params{
		Seed:        1337,
		Octaves:     1,
		Frequency:   0.003,
		Amplitude:   1,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if p.Octaves < 1 || p.Octaves > MaxOctaves {
		return fmt.Errorf("%w: octaves %d not in [1, %d]", ErrInvalidParams, p.Octaves, MaxOctaves)
	}
	if !(p.Frequency > 0) {
		return fmt.Errorf("%w: frequency %v must be positive", ErrInvalidParams, p.Frequency)
	}
	if !(p.Persistence > 0) {
		return fmt.Errorf("%w: persistence %v must be positive", ErrInvalidParams, p.Persistence)
	}
	if !(p.Lacunarity > 0) {
		return fmt.Errorf("%w: lacunarity %v must be positive", ErrInvalidParams, p.Lacunarity)
	}
	if p.Amplitude < 0 {
		return fmt.Errorf("%w: amplitude %v is negative", ErrInvalidParams, p.Amplitude)
	}
	return nil
}

// Field is a seeded fBm field. It is safe for concurrent use; sampling never
// mutates state.
type Field struct {
	params Params
	src    opensimplex.Noise32
	norm   float32
}

// New creates a field from params.
func New(params Params) (*Field, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Sum of octave weights, so the field stays within ±Amplitude.
	var total, w float32 = 0, 1
	for range params.Octaves {
		total += w
		w *= params.Persistence
	}

	return &Field{
		params: params,
		src:    opensimplex.New32(params.Seed),
		norm:   params.Amplitude / total,
	}, nil
}

// Params returns the parameters the field was built with.
func (f *Field) Params() Params {
	return f.params
}

// Sample evaluates the field at p.
func (f *Field) Sample(p pmath.Vec3) float32 {
	freq := f.params.Frequency
	var sum, w float32 = 0, 1
	for range f.params.Octaves {
		sum += w * f.src.Eval3(p.X*freq, p.Y*freq, p.Z*freq)
		freq *= f.params.Lacunarity
		w *= f.params.Persistence
	}
	return sum * f.norm
}

// Func adapts the field to the chunk builder.
func (f *Field) Func() icochunk.NoiseFunc {
	return icochunk.Pure(f.Sample)
}
