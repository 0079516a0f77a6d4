// Package terrain builds renderable heightmap meshes and answers height queries.
package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TextureDensity is the number of texture repetitions per grid cell on each axis.
const TextureDensity = 0.1

// Mesh holds the per-vertex grids of a heightmap, all rows × cols, row-major.
// Positions span [-0.5, 0.5] on X and Z with the elevation sample as Y.
type Mesh struct {
	Rows      int
	Cols      int
	Positions [][]mgl32.Vec3
	TexCoords [][]mgl32.Vec2
	Normals   [][]mgl32.Vec3
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// BuildMesh turns an elevation grid into positions, texture coordinates and
// smoothed vertex normals.
func BuildMesh(grid *ElevationGrid) *Mesh {
	rows, cols := grid.Rows(), grid.Cols()
	m := &Mesh{
		Rows:      rows,
		Cols:      cols,
		Positions: make([][]mgl32.Vec3, rows),
		TexCoords: make([][]mgl32.Vec2, rows),
	}

	textureU := float32(cols) * TextureDensity
	textureV := float32(rows) * TextureDensity

	for i := 0; i < rows; i++ {
		m.Positions[i] = make([]mgl32.Vec3, cols)
		m.TexCoords[i] = make([]mgl32.Vec2, cols)
		scaleR := float32(i) / float32(rows-1)
		for j := 0; j < cols; j++ {
			scaleC := float32(j) / float32(cols-1)
			m.Positions[i][j] = mgl32.Vec3{scaleC - 0.5, grid.At(i, j), scaleR - 0.5}
			m.TexCoords[i][j] = mgl32.Vec2{textureU * scaleC, textureV * scaleR}
		}
	}

	m.Normals = VertexNormals(ComputeFaceNormals(m.Positions))
	return m
}

// Bounds returns the bounding box of the unit-space positions.
func (m *Mesh) Bounds() Bounds {
	b := Bounds{
		Min: mgl32.Vec3{1e10, 1e10, 1e10},
		Max: mgl32.Vec3{-1e10, -1e10, -1e10},
	}
	for _, row := range m.Positions {
		for _, p := range row {
			for k := 0; k < 3; k++ {
				b.Min[k] = min(b.Min[k], p[k])
				b.Max[k] = max(b.Max[k], p[k])
			}
		}
	}
	return b
}

// VertexCount returns rows*cols.
func (m *Mesh) VertexCount() int {
	return m.Rows * m.Cols
}
