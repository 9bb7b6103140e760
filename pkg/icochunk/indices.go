package icochunk

// BuildIndices triangulates a chunk with res points per edge. Every triangle
// keeps the A→B→C winding of the face. The result has 3·(res+1)² entries.
func BuildIndices(res int) []uint32 {
	if res <= 0 {
		return []uint32{CornerA, CornerB, CornerC}
	}

	l := NewLayout(res)
	indices := make([]uint32, 0, l.IndexCount())

	indices = appendCorners(indices, l)

	if res == 1 {
		// No center points yet, the three midpoints close the hole.
		return append(indices, l.Right(0), l.Left(0), l.Bottom(0))
	}

	indices = appendNearCorners(indices, l)
	indices = appendRightLadder(indices, l)
	indices = appendLeftLadder(indices, l)
	indices = appendBottomLadder(indices, l)

	if res >= 3 {
		indices = appendInterior(indices, l)
	}

	return indices
}

// appendCorners adds the triangle cut off at each of the three corners.
func appendCorners(indices []uint32, l Layout) []uint32 {
	last := l.Resolution() - 1
	return append(indices,
		l.Right(0), CornerA, l.Left(0),
		CornerC, l.Right(last), l.Bottom(last),
		l.Bottom(0), l.Left(last), CornerB,
	)
}

// appendNearCorners adds, for each corner, the triangle between its two
// nearest edge midpoints and the closest center point. Needs res >= 2.
func appendNearCorners(indices []uint32, l Layout) []uint32 {
	last := l.Resolution() - 1
	return append(indices,
		l.Center(1, 0), l.Right(0), l.Left(0),
		l.Center(last, 0), l.Bottom(last), l.Right(last),
		l.Center(last, last-1), l.Left(last), l.Bottom(0),
	)
}

// appendRightLadder strips edge A→C against the first point of each center row.
func appendRightLadder(indices []uint32, l Layout) []uint32 {
	res := l.Resolution()
	for i := 0; i < res-1; i++ {
		indices = append(indices, l.Right(i), l.Center(i+1, 0), l.Right(i+1))
	}
	for i := 0; i < res-2; i++ {
		indices = append(indices, l.Right(i+1), l.Center(i+1, 0), l.Center(i+2, 0))
	}
	return indices
}

// appendLeftLadder strips edge A→B against the last point of each center row.
func appendLeftLadder(indices []uint32, l Layout) []uint32 {
	res := l.Resolution()
	for i := 0; i < res-1; i++ {
		indices = append(indices, l.Left(i), l.Left(i+1), l.Center(i+1, i))
	}
	for i := 0; i < res-2; i++ {
		indices = append(indices, l.Center(i+1, i), l.Left(i+1), l.Center(i+2, i+1))
	}
	return indices
}

// appendBottomLadder strips edge B→C against the last center row, which runs
// in the opposite direction.
func appendBottomLadder(indices []uint32, l Layout) []uint32 {
	res := l.Resolution()
	row := res - 1
	for i := 0; i < res-1; i++ {
		indices = append(indices, l.Bottom(i+1), l.Center(row, row-1-i), l.Bottom(i))
	}
	for i := 0; i < res-2; i++ {
		indices = append(indices, l.Center(row, row-2-i), l.Center(row, row-1-i), l.Bottom(i+1))
	}
	return indices
}

// appendInterior triangulates the grid formed by the center rows alone.
// Needs res >= 3.
func appendInterior(indices []uint32, l Layout) []uint32 {
	res := l.Resolution()
	for row := 1; row < res-1; row++ {
		for i := 0; i < row; i++ {
			indices = append(indices, l.Center(row+1, i), l.Center(row, i), l.Center(row+1, i+1))
		}
	}
	for row := 1; row < res-2; row++ {
		for i := 0; i < row; i++ {
			indices = append(indices, l.Center(row+1, i), l.Center(row+1, i+1), l.Center(row+2, i+1))
		}
	}
	return indices
}
