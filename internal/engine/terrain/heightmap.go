package terrain

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/astria/internal/engine/gpu"
	"github.com/Faultbox/astria/internal/engine/texture"
	"github.com/Faultbox/astria/internal/logger"
)

// Uniform names consumed by the terrain shader.
const (
	UniformRenderHeight      = "uRenderHeight"
	UniformMaxTextureU       = "uMaxTextureU"
	UniformMaxTextureV       = "uMaxTextureV"
	UniformScaleMatrix       = "uScaleMatrix"
	UniformNormalScaleMatrix = "uNormalScaleMatrix"
)

// Program is the part of a linked shader program the heightmap needs to draw.
type Program interface {
	Use()
	SetFloat(name string, v float32)
	SetMat4(name string, m mgl32.Mat4)
	SetMat3(name string, m mgl32.Mat3)
}

// Uniforms is the per-draw uniform set of a heightmap.
type Uniforms struct {
	RenderHeight      float32
	MaxTextureU       float32
	MaxTextureV       float32
	ScaleMatrix       mgl32.Mat4
	NormalScaleMatrix mgl32.Mat3
}

// HeightMap owns a heightmap mesh, its GPU buffers and its world-space size.
// It is not safe for concurrent use; Load, Release, Render and HeightAt must
// not overlap.
type HeightMap struct {
	device gpu.Device

	source string
	reload func() (texture.Pixels, error)

	grid    *ElevationGrid
	mesh    *Mesh
	indices int
	loaded  bool

	vao gpu.VertexArray
	vbo gpu.Buffer
	ebo gpu.Buffer

	renderScale       mgl32.Vec3
	scaleMatrix       mgl32.Mat4
	normalScaleMatrix mgl32.Mat3
}

// New creates an unloaded heightmap with unit size. A nil device keeps the
// mesh on the CPU only: height queries work, Render does nothing.
func New(device gpu.Device) *HeightMap {
	h := &HeightMap{device: device}
	h.SetSize(1, 1, 1)
	return h
}

// Load decodes the image at path and rebuilds the mesh from it.
// On error the previously loaded terrain, if any, is left untouched.
func (h *HeightMap) Load(path string) error {
	read := func() (texture.Pixels, error) {
		px, err := texture.LoadFile(path)
		if err != nil {
			return texture.Pixels{}, &DecodeError{Path: path, Err: err}
		}
		return px, nil
	}
	return h.load(path, read)
}

// LoadImage builds the mesh from an already decoded image.
func (h *HeightMap) LoadImage(name string, img image.Image) error {
	return h.LoadPixels(name, texture.FromImage(img))
}

// LoadPixels builds the mesh from a raw pixel buffer.
func (h *HeightMap) LoadPixels(name string, px texture.Pixels) error {
	read := func() (texture.Pixels, error) {
		return px, nil
	}
	return h.load(name, read)
}

// Reload releases the terrain and loads it again from its last source.
func (h *HeightMap) Reload() error {
	if h.reload == nil {
		return ErrNothingToReload
	}
	return h.load(h.source, h.reload)
}

func (h *HeightMap) load(source string, read func() (texture.Pixels, error)) error {
	px, err := read()
	if err != nil {
		logger.Warn("heightmap decode failed", zap.String("source", source), zap.Error(err))
		return err
	}

	grid, err := SampleElevation(source, px)
	if err != nil {
		logger.Warn("heightmap rejected", zap.String("source", source), zap.Error(err))
		return err
	}

	mesh := BuildMesh(grid)
	indices := BuildStripIndices(grid.Rows(), grid.Cols())

	h.Release()

	h.grid = grid
	h.mesh = mesh
	h.indices = len(indices)
	h.source = source
	h.reload = read
	if h.device != nil {
		h.upload(mesh, indices)
	}
	h.loaded = true

	logger.Info("heightmap loaded",
		zap.String("source", source),
		zap.Int("rows", mesh.Rows),
		zap.Int("cols", mesh.Cols),
		zap.Int("bytesPerPixel", px.BytesPerPixel),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("indices", len(indices)),
	)
	return nil
}

func (h *HeightMap) upload(mesh *Mesh, indices []uint32) {
	h.vao = h.device.NewVertexArray()
	h.vao.Bind()

	h.vbo = h.device.NewBuffer()
	h.vbo.Create(mesh.VertexCount() * int(VertexStride))
	h.vbo.AppendBytes(mesh.VertexBytes())
	h.vbo.Bind(gpu.ArrayBuffer)
	h.vbo.Upload(gpu.StaticDraw)

	h.vao.SetLayout(VertexStride, VertexLayout)

	h.ebo = h.device.NewBuffer()
	h.ebo.Create(len(indices) * 4)
	h.ebo.AppendBytes(IndexBytes(indices))
	h.ebo.Bind(gpu.ElementArrayBuffer)
	h.ebo.Upload(gpu.StaticDraw)
}

// Release frees the mesh and its GPU resources. It is a no-op when nothing
// is loaded. The source is kept so Reload still works.
func (h *HeightMap) Release() {
	if !h.loaded {
		return
	}
	if h.vbo != nil {
		h.vbo.Release()
		h.vbo = nil
	}
	if h.ebo != nil {
		h.ebo.Release()
		h.ebo = nil
	}
	if h.vao != nil {
		h.vao.Release()
		h.vao = nil
	}
	h.grid = nil
	h.mesh = nil
	h.indices = 0
	h.loaded = false
	logger.Debug("heightmap released", zap.String("source", h.source))
}

// Loaded reports whether a mesh is currently loaded.
func (h *HeightMap) Loaded() bool {
	return h.loaded
}

// Source returns the path or name of the last successful load.
func (h *HeightMap) Source() string {
	return h.source
}

// Grid returns the sampled elevation grid of the loaded terrain, or nil.
func (h *HeightMap) Grid() *ElevationGrid {
	return h.grid
}

// Mesh returns the loaded mesh, or nil.
func (h *HeightMap) Mesh() *Mesh {
	return h.mesh
}

// Rows returns the number of grid rows, 0 when unloaded.
func (h *HeightMap) Rows() int {
	if h.mesh == nil {
		return 0
	}
	return h.mesh.Rows
}

// Cols returns the number of grid columns, 0 when unloaded.
func (h *HeightMap) Cols() int {
	if h.mesh == nil {
		return 0
	}
	return h.mesh.Cols
}

// IndexCount returns the number of strip indices drawn by Render.
func (h *HeightMap) IndexCount() int {
	return h.indices
}

// SetSize sets the world-space extents of the terrain.
func (h *HeightMap) SetSize(x, height, z float32) {
	h.renderScale = mgl32.Vec3{x, height, z}
	h.scaleMatrix = mgl32.Scale3D(x, height, z)
	h.normalScaleMatrix = normalMatrix(x, height, z)
}

// normalMatrix returns the cofactor matrix of diag(x, y, z). It equals the
// inverse-transpose times the determinant, so normals keep their direction
// after normalization, and it stays defined when an extent is 0.
func normalMatrix(x, y, z float32) mgl32.Mat3 {
	return mgl32.Diag3(mgl32.Vec3{y * z, x * z, x * y})
}

// SetQuadSize sizes the terrain so every grid cell spans quadSize on X and Z.
// The grid dimensions are taken from the loaded mesh.
func (h *HeightMap) SetQuadSize(quadSize, height float32) {
	h.SetSize(float32(h.Cols())*quadSize, height, float32(h.Rows())*quadSize)
}

// Size returns the world-space extents (width, height, depth).
func (h *HeightMap) Size() mgl32.Vec3 {
	return h.renderScale
}

// ScaleMatrix returns the matrix applied to unit-space positions.
func (h *HeightMap) ScaleMatrix() mgl32.Mat4 {
	return h.scaleMatrix
}

// NormalScaleMatrix returns the matrix applied to normals.
func (h *HeightMap) NormalScaleMatrix() mgl32.Mat3 {
	return h.normalScaleMatrix
}

// WorldBounds returns the mesh bounds after scaling.
func (h *HeightMap) WorldBounds() Bounds {
	if h.mesh == nil {
		return Bounds{}
	}
	b := h.mesh.Bounds()
	for k := 0; k < 3; k++ {
		lo, hi := b.Min[k]*h.renderScale[k], b.Max[k]*h.renderScale[k]
		b.Min[k], b.Max[k] = min(lo, hi), max(lo, hi)
	}
	return b
}

// Uniforms returns the values Render sets on the program.
func (h *HeightMap) Uniforms() Uniforms {
	return Uniforms{
		RenderHeight:      h.renderScale.Y(),
		MaxTextureU:       float32(h.Cols()) * TextureDensity,
		MaxTextureV:       float32(h.Rows()) * TextureDensity,
		ScaleMatrix:       h.scaleMatrix,
		NormalScaleMatrix: h.normalScaleMatrix,
	}
}

// Render sets the heightmap uniforms on p and draws the whole grid with one
// restart-separated triangle strip. It does nothing when no GPU mesh exists.
func (h *HeightMap) Render(p Program) {
	if !h.loaded || h.vao == nil {
		return
	}

	p.Use()
	u := h.Uniforms()
	p.SetFloat(UniformRenderHeight, u.RenderHeight)
	p.SetFloat(UniformMaxTextureU, u.MaxTextureU)
	p.SetFloat(UniformMaxTextureV, u.MaxTextureV)
	p.SetMat4(UniformScaleMatrix, u.ScaleMatrix)
	p.SetMat3(UniformNormalScaleMatrix, u.NormalScaleMatrix)

	h.vao.Bind()
	rows, cols := h.Rows(), h.Cols()
	h.device.DrawTriangleStrip(int32((rows-1)*cols*2+(rows-1)), RestartIndex(rows, cols))
}

// HeightAt returns the scaled height of the grid sample under world position
// pos. X and Z are mapped to the nearest lower cell and clamped to the grid,
// so any input yields a sample; there is no interpolation. Returns 0 when
// nothing is loaded.
func (h *HeightMap) HeightAt(pos mgl32.Vec3) float32 {
	if h.mesh == nil {
		return 0
	}
	col := cellIndex(pos.X(), h.renderScale.X(), h.mesh.Cols)
	row := cellIndex(pos.Z(), h.renderScale.Z(), h.mesh.Rows)
	return h.mesh.Positions[row][col].Y() * h.renderScale.Y()
}

// CellAt returns the (row, col) grid cell HeightAt samples for pos.
func (h *HeightMap) CellAt(pos mgl32.Vec3) (row, col int) {
	if h.mesh == nil {
		return 0, 0
	}
	return cellIndex(pos.Z(), h.renderScale.Z(), h.mesh.Rows), cellIndex(pos.X(), h.renderScale.X(), h.mesh.Cols)
}

// cellIndex maps a world coordinate on an axis of the given extent to a cell
// in [0, n-1].
func cellIndex(v, extent float32, n int) int {
	f := (float64(v) + float64(extent)*0.5) * float64(n) / float64(extent)
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f >= float64(n-1):
		return n - 1
	}
	return int(f)
}
