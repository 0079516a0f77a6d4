// Package gputest provides an in-memory gpu.Device that records every call.
// It is used by tests and by headless tools that need the mesh byte streams
// without a graphics context.
package gputest

import (
	"github.com/Faultbox/astria/internal/engine/gpu"
)

// Draw is one recorded DrawTriangleStrip call.
type Draw struct {
	Count        int32
	RestartIndex uint32
	VertexArray  *VertexArray
}

// Device records created objects and draws.
type Device struct {
	Buffers      []*Buffer
	VertexArrays []*VertexArray
	Draws        []Draw

	bound *VertexArray
}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	return &Device{}
}

func (d *Device) NewBuffer() gpu.Buffer {
	b := &Buffer{}
	d.Buffers = append(d.Buffers, b)
	return b
}

func (d *Device) NewVertexArray() gpu.VertexArray {
	va := &VertexArray{device: d}
	d.VertexArrays = append(d.VertexArrays, va)
	return va
}

func (d *Device) DrawTriangleStrip(count int32, restartIndex uint32) {
	d.Draws = append(d.Draws, Draw{Count: count, RestartIndex: restartIndex, VertexArray: d.bound})
}

// Live returns the number of buffers and vertex arrays not yet released.
func (d *Device) Live() int {
	n := 0
	for _, b := range d.Buffers {
		if !b.Released {
			n++
		}
	}
	for _, va := range d.VertexArrays {
		if !va.Released {
			n++
		}
	}
	return n
}

// Buffer keeps the staged bytes and the uploaded copy.
type Buffer struct {
	SizeHint int
	Staged   []byte
	Uploaded []byte
	Target   gpu.Target
	Usage    gpu.Usage
	Released bool
	Releases int
}

func (b *Buffer) Create(sizeHint int) {
	b.SizeHint = sizeHint
	b.Staged = make([]byte, 0, max(sizeHint, 0))
}

func (b *Buffer) AppendBytes(data []byte) {
	b.Staged = append(b.Staged, data...)
}

func (b *Buffer) Bind(target gpu.Target) {
	b.Target = target
}

func (b *Buffer) Upload(usage gpu.Usage) {
	b.Usage = usage
	b.Uploaded = append([]byte(nil), b.Staged...)
}

func (b *Buffer) Release() {
	b.Releases++
	b.Released = true
}

// VertexArray keeps the last declared layout.
type VertexArray struct {
	Stride     int32
	Attributes []gpu.Attribute
	Released   bool

	device *Device
}

func (v *VertexArray) Bind() {
	v.device.bound = v
}

func (v *VertexArray) SetLayout(stride int32, attrs []gpu.Attribute) {
	v.Stride = stride
	v.Attributes = append([]gpu.Attribute(nil), attrs...)
}

func (v *VertexArray) Release() {
	v.Released = true
	if v.device.bound == v {
		v.device.bound = nil
	}
}
