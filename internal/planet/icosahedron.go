package planet

import (
	"math"

	pmath "github.com/Faultbox/planetmesh/pkg/math"
)

// icosahedronFaces lists the 20 faces, counter-clockwise seen from outside.
var icosahedronFaces = [20][3]int{
	// around vertex 0
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	// adjacent band
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	// around vertex 3
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	// adjacent band
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// Icosahedron returns the 12 vertices of a regular icosahedron inscribed in a
// sphere of the given radius, and its 20 faces as vertex index triples.
func Icosahedron(radius float32) ([]pmath.Vec3, [][3]int) {
	t := float32((1 + math.Sqrt(5)) / 2)

	raw := []pmath.Vec3{
		{X: -1, Y: t, Z: 0},
		{X: 1, Y: t, Z: 0},
		{X: -1, Y: -t, Z: 0},
		{X: 1, Y: -t, Z: 0},

		{X: 0, Y: -1, Z: t},
		{X: 0, Y: 1, Z: t},
		{X: 0, Y: -1, Z: -t},
		{X: 0, Y: 1, Z: -t},

		{X: t, Y: 0, Z: -1},
		{X: t, Y: 0, Z: 1},
		{X: -t, Y: 0, Z: -1},
		{X: -t, Y: 0, Z: 1},
	}

	vertices := make([]pmath.Vec3, len(raw))
	for i, v := range raw {
		vertices[i] = v.Normalize().Scale(radius)
	}

	faces := make([][3]int, len(icosahedronFaces))
	copy(faces, icosahedronFaces[:])

	return vertices, faces
}
