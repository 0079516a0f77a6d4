// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/astria/internal/engine/gpu"
	"github.com/Faultbox/astria/internal/engine/gpu/glgpu"
	"github.com/Faultbox/astria/internal/engine/shader"
	"github.com/Faultbox/astria/internal/engine/terrain"
	"github.com/Faultbox/astria/internal/engine/terrain/shaders"
	"github.com/Faultbox/astria/internal/logger"
)

// Terrain shader uniforms owned by the renderer rather than the heightmap.
const (
	uniformViewProj = "uViewProj"
	uniformModel    = "uModel"
	uniformLightDir = "uLightDir"
	uniformAmbient  = "uAmbient"
)

// Config holds renderer configuration.
type Config struct {
	Width     int
	Height    int
	Wireframe bool
}

// Light is the directional light used for terrain shading.
type Light struct {
	Direction mgl32.Vec3 // Direction the light travels
	Ambient   mgl32.Vec3
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config  Config
	device  *glgpu.Device
	program *shader.Program
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0) // Dark blue-gray background

	var err error
	r.program, err = shader.CompileProgram(shaders.TerrainVertexShader, shaders.TerrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create terrain program: %w", err)
	}

	r.device = glgpu.New()
	r.Resize(cfg.Width, cfg.Height)
	r.SetWireframe(cfg.Wireframe)
	return r, nil
}

// Device returns the GPU device heightmaps upload to.
func (r *Renderer) Device() gpu.Device {
	return r.device
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.program != nil {
		r.program.Release()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetWireframe toggles line polygon mode.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Wireframe reports whether line polygon mode is on.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawTerrain sets the camera and light uniforms and lets hm draw itself.
func (r *Renderer) DrawTerrain(hm *terrain.HeightMap, viewProj mgl32.Mat4, light Light) {
	r.program.Use()
	r.program.SetMat4(uniformViewProj, viewProj)
	r.program.SetMat4(uniformModel, mgl32.Ident4())
	r.program.SetVec3(uniformLightDir, light.Direction)
	r.program.SetVec3(uniformAmbient, light.Ambient)
	hm.Render(r.program)
}

// ReadPixels returns the framebuffer as bottom-up RGBA bytes.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
