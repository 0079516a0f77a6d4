// Package glgpu implements gpu.Device on top of OpenGL 4.1 core.
// All calls must happen on the thread that owns the GL context.
package glgpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/astria/internal/engine/gpu"
)

// Device is the OpenGL implementation of gpu.Device.
type Device struct{}

// New returns a device bound to the current GL context.
func New() *Device {
	return &Device{}
}

// NewBuffer returns an empty buffer; no GL object exists until Upload.
func (d *Device) NewBuffer() gpu.Buffer {
	return &Buffer{}
}

// NewVertexArray generates a vertex array object.
func (d *Device) NewVertexArray() gpu.VertexArray {
	va := &VertexArray{}
	gl.GenVertexArrays(1, &va.id)
	return va
}

// DrawTriangleStrip issues one indexed strip draw with primitive restart.
func (d *Device) DrawTriangleStrip(count int32, restartIndex uint32) {
	gl.Enable(gl.PRIMITIVE_RESTART)
	gl.PrimitiveRestartIndex(restartIndex)
	gl.DrawElements(gl.TRIANGLE_STRIP, count, gl.UNSIGNED_INT, nil)
}

// Buffer stages bytes in memory and uploads them with glBufferData.
type Buffer struct {
	id     uint32
	target uint32
	data   []byte
}

func (b *Buffer) Create(sizeHint int) {
	if sizeHint < 0 {
		sizeHint = 0
	}
	b.data = make([]byte, 0, sizeHint)
	if b.id == 0 {
		gl.GenBuffers(1, &b.id)
	}
}

func (b *Buffer) AppendBytes(data []byte) {
	b.data = append(b.data, data...)
}

func (b *Buffer) Bind(target gpu.Target) {
	b.target = glTarget(target)
	gl.BindBuffer(b.target, b.id)
}

// Upload copies the staged bytes to the bound buffer and drops the CPU copy.
func (b *Buffer) Upload(usage gpu.Usage) {
	if len(b.data) == 0 {
		gl.BufferData(b.target, 0, nil, glUsage(usage))
		return
	}
	gl.BufferData(b.target, len(b.data), gl.Ptr(b.data), glUsage(usage))
	b.data = nil
}

func (b *Buffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
	b.data = nil
}

// VertexArray wraps a GL vertex array object.
type VertexArray struct {
	id uint32
}

func (v *VertexArray) Bind() {
	gl.BindVertexArray(v.id)
}

func (v *VertexArray) SetLayout(stride int32, attrs []gpu.Attribute) {
	for _, a := range attrs {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Components, gl.FLOAT, false, stride, uintptr(a.Offset))
	}
}

func (v *VertexArray) Release() {
	if v.id != 0 {
		gl.DeleteVertexArrays(1, &v.id)
		v.id = 0
	}
}

func glTarget(t gpu.Target) uint32 {
	if t == gpu.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func glUsage(u gpu.Usage) uint32 {
	switch u {
	case gpu.DynamicDraw:
		return gl.DYNAMIC_DRAW
	case gpu.StreamDraw:
		return gl.STREAM_DRAW
	default:
		return gl.STATIC_DRAW
	}
}
