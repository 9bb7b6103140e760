package icochunk

import (
	"fmt"

	pmath "github.com/Faultbox/planetmesh/pkg/math"
)

// EdgeMidpoints returns res points strictly between a and b, the i-th at
// t = (i+1)/(res+1). The endpoints are not included.
//
// The interpolation always runs from the lexicographically smaller endpoint,
// so EdgeMidpoints(b, a, res) is the exact reverse of EdgeMidpoints(a, b, res).
// Adjacent chunks walk their shared edge in opposite directions and still get
// bitwise-identical points.
func EdgeMidpoints(a, b pmath.Vec3, res int) []pmath.Vec3 {
	if res <= 0 {
		return nil
	}

	from, to, reversed := a, b, false
	if b.Less(a) {
		from, to, reversed = b, a, true
	}

	points := make([]pmath.Vec3, res)
	for i := range res {
		t := float32(i+1) / float32(res+1)
		p := from.Lerp(to, t)
		if reversed {
			points[res-1-i] = p
		} else {
			points[i] = p
		}
	}
	return points
}

// CenterPoints fills the interior of a chunk from its right (A→C) and left
// (A→B) edge midpoints. Row r has r points spaced evenly between right[r] and
// left[r]. Returns res(res-1)/2 points, none when res < 2.
func CenterPoints(right, left []pmath.Vec3) []pmath.Vec3 {
	if len(right) != len(left) {
		panic(fmt.Sprintf("icochunk: edge length mismatch %d != %d", len(right), len(left)))
	}

	res := len(right)
	if res < 2 {
		return nil
	}

	points := make([]pmath.Vec3, 0, TriangularNumber(res-1))
	for row := 1; row < res; row++ {
		for i := range row {
			t := float32(i+1) / float32(row+1)
			points = append(points, right[row].Lerp(left[row], t))
		}
	}
	return points
}

// BuildVertices lays out the undeformed vertex buffer of a chunk.
func BuildVertices(face Face, res int) []pmath.Vec3 {
	layout := NewLayout(res)
	vertices := make([]pmath.Vec3, 0, layout.VertexCount())
	vertices = append(vertices, face.A, face.B, face.C)

	if res < 1 {
		return vertices
	}

	right := EdgeMidpoints(face.A, face.C, res)
	left := EdgeMidpoints(face.A, face.B, res)

	vertices = append(vertices, right...)
	vertices = append(vertices, left...)
	vertices = append(vertices, EdgeMidpoints(face.B, face.C, res)...)
	vertices = append(vertices, CenterPoints(right, left)...)

	return vertices
}

// PointKind tells which part of a chunk a generated point belongs to.
type PointKind int

const (
	PointCorner PointKind = iota
	PointRightEdge
	PointLeftEdge
	PointBottomEdge
	PointCenter
)

// String returns the kind name.
func (k PointKind) String() string {
	switch k {
	case PointCorner:
		return "corner"
	case PointRightEdge:
		return "right"
	case PointLeftEdge:
		return "left"
	case PointBottomEdge:
		return "bottom"
	case PointCenter:
		return "center"
	default:
		return fmt.Sprintf("PointKind(%d)", int(k))
	}
}

// PointFunc observes generated points, e.g. to place debug markers.
type PointFunc func(kind PointKind, index int, p pmath.Vec3)

// emitPoints reports every vertex of an undeformed buffer with its kind.
func emitPoints(layout Layout, vertices []pmath.Vec3, fn PointFunc) {
	res := layout.Resolution()
	for i, p := range vertices {
		var kind PointKind
		switch {
		case i < 3:
			kind = PointCorner
		case i < int(layout.Left(0)):
			kind = PointRightEdge
		case i < int(layout.Bottom(0)):
			kind = PointLeftEdge
		case i < 3+3*res:
			kind = PointBottomEdge
		default:
			kind = PointCenter
		}
		fn(kind, i, p)
	}
}
