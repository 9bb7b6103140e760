package icochunk

// Corner vertex indices. The three corners always open the vertex buffer.
const (
	CornerA uint32 = 0
	CornerB uint32 = 1
	CornerC uint32 = 2
)

// Layout addresses the fixed vertex buffer of a chunk:
//
//	[A, B, C, right(A→C) ×res, left(A→B) ×res, bottom(B→C) ×res, center ×res(res-1)/2]
//
// Center points are stored row-major. Row r (1 ≤ r < res) holds r points and
// starts at center offset r(r-1)/2.
type Layout struct {
	res int
}

// NewLayout returns the layout for a chunk with res points per edge.
func NewLayout(res int) Layout {
	return Layout{res: res}
}

// Resolution returns the number of interior points per edge.
func (l Layout) Resolution() int {
	return l.res
}

// Right returns the index of the i-th midpoint on edge A→C.
func (l Layout) Right(i int) uint32 {
	return uint32(3 + i)
}

// Left returns the index of the i-th midpoint on edge A→B.
func (l Layout) Left(i int) uint32 {
	return uint32(3 + l.res + i)
}

// Bottom returns the index of the i-th midpoint on edge B→C.
func (l Layout) Bottom(i int) uint32 {
	return uint32(3 + 2*l.res + i)
}

// Center returns the index of the center point at row (1-based) and col
// (0-based, counted from the right edge).
func (l Layout) Center(row, col int) uint32 {
	return uint32(l.centerOffset() + TriangularNumber(row-1) + col)
}

func (l Layout) centerOffset() int {
	return 3 + 3*l.res
}

// CenterCount returns the number of interior points.
func (l Layout) CenterCount() int {
	if l.res < 2 {
		return 0
	}
	return TriangularNumber(l.res - 1)
}

// VertexCount returns 3 + 3·res + res(res-1)/2.
func (l Layout) VertexCount() int {
	return l.centerOffset() + l.CenterCount()
}

// TriangleCount returns the number of triangles in the chunk. Each edge is cut
// into res+1 segments, so the patch holds (res+1)² unit triangles.
func (l Layout) TriangleCount() int {
	return (l.res + 1) * (l.res + 1)
}

// IndexCount returns the length of the index buffer.
func (l Layout) IndexCount() int {
	return 3 * l.TriangleCount()
}

// TriangularNumber returns 1 + 2 + ... + n.
func TriangularNumber(n int) int {
	if n <= 0 {
		return 0
	}
	return n * (n + 1) / 2
}
