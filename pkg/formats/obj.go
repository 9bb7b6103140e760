package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Faultbox/planetmesh/pkg/icochunk"
)

// WriteOBJ writes a mesh as Wavefront OBJ. Vertex colors use the common
// "v x y z r g b" extension; faces reference normals as a//a when present.
func WriteOBJ(w io.Writer, m *icochunk.Mesh) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("writing OBJ: %w", err)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# planetmesh resolution %d: %d vertices, %d triangles\n",
		m.Resolution, len(m.Vertices), m.TriangleCount())

	for i, v := range m.Vertices {
		bw.WriteString("v ")
		writeFloats(bw, v.X, v.Y, v.Z)
		if m.Colors != nil {
			c := m.Colors[i]
			bw.WriteByte(' ')
			writeFloats(bw, c.R, c.G, c.B)
		}
		bw.WriteByte('\n')
	}

	for _, n := range m.Normals {
		bw.WriteString("vn ")
		writeFloats(bw, n.X, n.Y, n.Z)
		bw.WriteByte('\n')
	}

	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		a, b, c := t[0]+1, t[1]+1, t[2]+1
		if m.Normals != nil {
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}

	return bw.Flush()
}

func writeFloats(bw *bufio.Writer, values ...float32) {
	for i, f := range values {
		if i > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
}

// SaveOBJ writes a mesh to an OBJ file, creating parent directories as needed.
func SaveOBJ(path string, m *icochunk.Mesh) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, m); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
