package icochunk

import (
	"encoding/hex"
	"fmt"
	"strings"

	pmath "github.com/Faultbox/planetmesh/pkg/math"
)

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Terrain colors.
var (
	ColorGrass = RGB(0x31, 0x62, 0x31)
	ColorSand  = Color{1, 1, 0.73, 1}
)

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}

// RGBA creates a color from 8-bit RGBA values.
func RGBA(r, g, b, a uint8) Color {
	c := RGB(r, g, b)
	c.A = float32(a) / 255.0
	return c
}

// ParseHexColor parses "RRGGBB" or "RRGGBBAA", with or without a leading '#'.
func ParseHexColor(s string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return Color{}, fmt.Errorf("%w: color %q must have 6 or 8 hex digits", ErrInvalidArgument, s)
	}

	b, err := hex.DecodeString(raw)
	if err != nil {
		return Color{}, fmt.Errorf("%w: color %q: %v", ErrInvalidArgument, s, err)
	}

	if len(b) == 3 {
		return RGB(b[0], b[1], b[2]), nil
	}
	return RGBA(b[0], b[1], b[2], b[3]), nil
}

// Hex formats the color as "#RRGGBB", or "#RRGGBBAA" when not opaque.
func (c Color) Hex() string {
	r, g, b, a := to8(c.R), to8(c.G), to8(c.B), to8(c.A)
	if a == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", r, g, b)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", r, g, b, a)
}

func to8(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 0xff
	default:
		return uint8(f*255 + 0.5)
	}
}

// ColorPolicy classifies a displaced vertex into a color.
type ColorPolicy func(p pmath.Vec3) Color

// ThresholdPolicy paints vertices farther than Threshold from the origin with
// High and everything else with Low.
type ThresholdPolicy struct {
	Threshold float32
	High      Color
	Low       Color
}

// DefaultThresholdPolicy returns grass above 9.5 and sand below, tuned for a
// planet of radius 10.
func DefaultThresholdPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		Threshold: 9.5,
		High:      ColorGrass,
		Low:       ColorSand,
	}
}

// Classify returns the color for p.
func (t ThresholdPolicy) Classify(p pmath.Vec3) Color {
	if p.Length() > t.Threshold {
		return t.High
	}
	return t.Low
}

// Colorize applies policy to every vertex.
func Colorize(vertices []pmath.Vec3, policy ColorPolicy) []Color {
	colors := make([]Color, len(vertices))
	for i, v := range vertices {
		colors[i] = policy(v)
	}
	return colors
}
