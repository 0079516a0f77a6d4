package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Triangle selects one of the two triangles of a grid quad. The quad with
// top-left corner (i, j) is split along the (i, j) to (i+1, j+1) diagonal.
type Triangle int

const (
	// TriangleA is (i,j) → (i+1,j) → (i+1,j+1).
	TriangleA Triangle = iota
	// TriangleB is (i+1,j+1) → (i,j+1) → (i,j).
	TriangleB
)

func (t Triangle) String() string {
	if t == TriangleA {
		return "A"
	}
	return "B"
}

// FaceRef names one triangle of the quad whose top-left corner is (Row, Col).
type FaceRef struct {
	Row      int
	Col      int
	Triangle Triangle
}

// FaceNormals holds the unit normals of both triangles of every quad,
// each (rows-1) × (cols-1).
type FaceNormals struct {
	A [][]mgl32.Vec3
	B [][]mgl32.Vec3
}

// Get returns the normal of the referenced triangle.
func (f FaceNormals) Get(ref FaceRef) mgl32.Vec3 {
	if ref.Triangle == TriangleA {
		return f.A[ref.Row][ref.Col]
	}
	return f.B[ref.Row][ref.Col]
}

// TriangleCorners returns the grid corners of a triangle in winding order.
func TriangleCorners(ref FaceRef) [3][2]int {
	i, j := ref.Row, ref.Col
	if ref.Triangle == TriangleA {
		return [3][2]int{{i, j}, {i + 1, j}, {i + 1, j + 1}}
	}
	return [3][2]int{{i + 1, j + 1}, {i, j + 1}, {i, j}}
}

// FaceNormal returns normalize((v0-v1) × (v1-v2)).
func FaceNormal(v0, v1, v2 mgl32.Vec3) mgl32.Vec3 {
	return v0.Sub(v1).Cross(v1.Sub(v2)).Normalize()
}

// ComputeFaceNormals computes both triangle normals of every quad.
func ComputeFaceNormals(positions [][]mgl32.Vec3) FaceNormals {
	rows := len(positions)
	cols := len(positions[0])

	f := FaceNormals{
		A: make([][]mgl32.Vec3, rows-1),
		B: make([][]mgl32.Vec3, rows-1),
	}
	for i := 0; i < rows-1; i++ {
		f.A[i] = make([]mgl32.Vec3, cols-1)
		f.B[i] = make([]mgl32.Vec3, cols-1)
		for j := 0; j < cols-1; j++ {
			for _, t := range []Triangle{TriangleA, TriangleB} {
				c := TriangleCorners(FaceRef{Row: i, Col: j, Triangle: t})
				n := FaceNormal(positions[c[0][0]][c[0][1]], positions[c[1][0]][c[1][1]], positions[c[2][0]][c[2][1]])
				if t == TriangleA {
					f.A[i][j] = n
				} else {
					f.B[i][j] = n
				}
			}
		}
	}
	return f
}

// NormalContributions lists the triangles whose normals are averaged into
// vertex (row, col) of a rows × cols grid. Quadrants are tested in order:
// upper-left quad (both triangles), upper-right quad (A), lower-right quad
// (both), lower-left quad (B).
func NormalContributions(row, col, rows, cols int) []FaceRef {
	refs := make([]FaceRef, 0, 6)
	if row > 0 && col > 0 {
		refs = append(refs,
			FaceRef{Row: row - 1, Col: col - 1, Triangle: TriangleA},
			FaceRef{Row: row - 1, Col: col - 1, Triangle: TriangleB},
		)
	}
	if row > 0 && col < cols-1 {
		refs = append(refs, FaceRef{Row: row - 1, Col: col, Triangle: TriangleA})
	}
	if row < rows-1 && col < cols-1 {
		refs = append(refs,
			FaceRef{Row: row, Col: col, Triangle: TriangleA},
			FaceRef{Row: row, Col: col, Triangle: TriangleB},
		)
	}
	if row < rows-1 && col > 0 {
		refs = append(refs, FaceRef{Row: row, Col: col - 1, Triangle: TriangleB})
	}
	return refs
}

// VertexNormals averages face normals into one unit normal per vertex.
func VertexNormals(faces FaceNormals) [][]mgl32.Vec3 {
	rows := len(faces.A) + 1
	cols := len(faces.A[0]) + 1

	normals := make([][]mgl32.Vec3, rows)
	for i := 0; i < rows; i++ {
		normals[i] = make([]mgl32.Vec3, cols)
		for j := 0; j < cols; j++ {
			var sum mgl32.Vec3
			for _, ref := range NormalContributions(i, j, rows, cols) {
				sum = sum.Add(faces.Get(ref))
			}
			normals[i][j] = sum.Normalize()
		}
	}
	return normals
}
