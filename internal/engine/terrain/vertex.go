package terrain

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/astria/internal/engine/gpu"
)

// Vertex is the interleaved GPU layout: position, texcoord, normal.
type Vertex struct {
	Position mgl32.Vec3
	TexCoord mgl32.Vec2
	Normal   mgl32.Vec3
}

// VertexStride is the size of one interleaved vertex in bytes.
const VertexStride = int32(unsafe.Sizeof(Vertex{}))

// Attribute locations used by the terrain shader.
const (
	AttribPosition uint32 = 0
	AttribTexCoord uint32 = 1
	AttribNormal   uint32 = 2
)

// VertexLayout describes Vertex for gpu.VertexArray.SetLayout.
var VertexLayout = []gpu.Attribute{
	{Location: AttribPosition, Components: 3, Offset: int(unsafe.Offsetof(Vertex{}.Position))},
	{Location: AttribTexCoord, Components: 2, Offset: int(unsafe.Offsetof(Vertex{}.TexCoord))},
	{Location: AttribNormal, Components: 3, Offset: int(unsafe.Offsetof(Vertex{}.Normal))},
}

// Vertices interleaves the mesh grids in row-major order (index = row*cols + col).
func (m *Mesh) Vertices() []Vertex {
	vertices := make([]Vertex, 0, m.VertexCount())
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			vertices = append(vertices, Vertex{
				Position: m.Positions[i][j],
				TexCoord: m.TexCoords[i][j],
				Normal:   m.Normals[i][j],
			})
		}
	}
	return vertices
}

// VertexBytes returns the interleaved vertex buffer in native byte order.
func (m *Mesh) VertexBytes() []byte {
	vertices := m.Vertices()
	if len(vertices) == 0 {
		return nil
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*int(VertexStride))
	return append([]byte(nil), raw...)
}

// IndexBytes returns indices as native-order uint32 bytes.
func IndexBytes(indices []uint32) []byte {
	if len(indices) == 0 {
		return nil
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*4)
	return append([]byte(nil), raw...)
}
