// Package gpu declares the capabilities the engine needs from a graphics device.
// Mesh code builds byte streams and hands them to these interfaces; the
// OpenGL implementation lives in package glgpu.
package gpu

// Target selects the binding point of a buffer.
type Target int

const (
	// ArrayBuffer holds per-vertex attribute data.
	ArrayBuffer Target = iota
	// ElementArrayBuffer holds index data.
	ElementArrayBuffer
)

func (t Target) String() string {
	switch t {
	case ArrayBuffer:
		return "array"
	case ElementArrayBuffer:
		return "element"
	}
	return "unknown"
}

// Usage is the upload hint passed to the device.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
	StreamDraw
)

func (u Usage) String() string {
	switch u {
	case StaticDraw:
		return "static"
	case DynamicDraw:
		return "dynamic"
	case StreamDraw:
		return "stream"
	}
	return "unknown"
}

// Buffer accumulates bytes on the CPU and uploads them to device memory.
type Buffer interface {
	// Create resets the buffer and reserves sizeHint bytes of CPU staging space.
	Create(sizeHint int)
	// AppendBytes appends data to the staging area.
	AppendBytes(data []byte)
	// Bind binds the buffer to target.
	Bind(target Target)
	// Upload copies the staging area to the device using the given hint.
	Upload(usage Usage)
	// Release frees device memory. Releasing twice is a no-op.
	Release()
}

// Attribute describes one float vertex attribute inside an interleaved buffer.
type Attribute struct {
	Location   uint32
	Components int32
	Offset     int
}

// VertexArray records the vertex layout and buffer bindings for a draw.
type VertexArray interface {
	Bind()
	// SetLayout declares the attributes of the currently bound array buffer.
	SetLayout(stride int32, attrs []Attribute)
	Release()
}

// Device creates GPU objects and issues draws.
type Device interface {
	NewBuffer() Buffer
	NewVertexArray() VertexArray
	// DrawTriangleStrip draws count uint32 indices from the bound element buffer
	// as a triangle strip with primitive restart enabled at restartIndex.
	DrawTriangleStrip(count int32, restartIndex uint32)
}
