// Package viewer implements the interactive heightmap viewer loop.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/astria/internal/config"
	"github.com/Faultbox/astria/internal/engine/camera"
	"github.com/Faultbox/astria/internal/engine/debug"
	"github.com/Faultbox/astria/internal/engine/input"
	"github.com/Faultbox/astria/internal/engine/lighting"
	"github.com/Faultbox/astria/internal/engine/picking"
	"github.com/Faultbox/astria/internal/engine/renderer"
	"github.com/Faultbox/astria/internal/engine/terrain"
	"github.com/Faultbox/astria/internal/engine/window"
	"github.com/Faultbox/astria/internal/logger"
)

const title = "Astria Heightmap Viewer"

// Viewer owns the window, the renderer and the loaded terrain.
type Viewer struct {
	config  *config.Config
	running bool

	window     *window.Window
	renderer   *renderer.Renderer
	input      *input.Input
	camera     *camera.OrbitCamera
	heightmap  *terrain.HeightMap
	screenshot *debug.ScreenshotCapture
	light      renderer.Light
	log        *zap.Logger

	mouseX, mouseY int
}

// New opens the window and loads the configured heightmap. A heightmap that
// fails to load is logged and the viewer starts with an empty scene.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		config: cfg,
		log:    logger.Named("viewer"),
	}
	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("heightmap", cfg.Terrain.Heightmap),
	)

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:     width,
		Height:    height,
		Wireframe: cfg.Graphics.Wireframe,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.camera = camera.NewOrbitCamera()
	v.camera.FOV = cfg.Camera.FOV
	v.screenshot = debug.NewScreenshotCapture("screenshots", "heightmap")
	v.light = renderer.Light{
		Direction: lighting.SunDirection(45, 50).Mul(-1),
		Ambient:   mgl32.Vec3{0.25, 0.25, 0.28},
	}

	v.heightmap = terrain.New(v.renderer.Device())
	if err := v.heightmap.Load(cfg.Terrain.Heightmap); err != nil {
		v.log.Error("initial heightmap load failed", zap.Error(err))
	}
	v.onTerrainLoaded()

	v.log.Info("viewer initialized")
	return v, nil
}

// onTerrainLoaded applies the configured size and frames the camera.
func (v *Viewer) onTerrainLoaded() {
	if !v.heightmap.Loaded() {
		return
	}
	v.config.Terrain.Apply(v.heightmap)

	b := v.heightmap.WorldBounds()
	v.camera.FitToBounds(b.Min, b.Max)
	if d := v.config.Camera.Distance; d > 0 {
		v.camera.Distance = d
	}
	v.camera.RotationX = v.config.Camera.Pitch
	v.camera.RotationY = v.config.Camera.Yaw
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.update(float32(dt))

		v.renderer.Begin()
		v.renderer.DrawTerrain(v.heightmap, v.camera.ViewProjection(v.window.Aspect()), v.light)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(v.statusLine(frameCount))
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dtMs", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventKeyDown:
			v.handleKey(event.Key)
		case input.EventMouseMove:
			v.mouseX, v.mouseY = event.MouseX, event.MouseY
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_R:
		v.reload()
	case sdl.SCANCODE_F:
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	case sdl.SCANCODE_H:
		v.logHeightUnderCursor()
	case sdl.SCANCODE_F12:
		pixels, w, h := v.renderer.ReadPixels()
		path, err := v.screenshot.CaptureFromPixels(pixels, w, h)
		if err != nil {
			v.log.Warn("screenshot failed", zap.Error(err))
			return
		}
		v.log.Info("screenshot saved", zap.String("path", path))
	}
}

// pickCursor casts a ray from the mouse cursor onto the terrain.
func (v *Viewer) pickCursor() (mgl32.Vec3, bool) {
	if !v.heightmap.Loaded() {
		return mgl32.Vec3{}, false
	}
	w, h := v.window.GetSize()
	inv := v.camera.ViewProjection(v.window.Aspect()).Inv()
	ray := picking.ScreenToRay(float32(v.mouseX), float32(v.mouseY), float32(w), float32(h), inv)

	b := v.heightmap.WorldBounds()
	size := v.heightmap.Size()
	// Half a grid cell keeps the march from stepping over single samples.
	step := 0.5 * min(size.X()/float32(v.heightmap.Cols()), size.Z()/float32(v.heightmap.Rows()))
	return picking.PickHeightField(ray, picking.NewAABB(b.Min, b.Max), v.heightmap, step)
}

func (v *Viewer) logHeightUnderCursor() {
	p, ok := v.pickCursor()
	if !ok {
		v.log.Info("cursor is not over the terrain")
		return
	}
	row, col := v.heightmap.CellAt(p)
	v.log.Info("height under cursor",
		zap.Float32("x", p.X()),
		zap.Float32("z", p.Z()),
		zap.Int("row", row),
		zap.Int("col", col),
		zap.Float32("height", v.heightmap.HeightAt(p)),
	)
}

// reload re-reads the current heightmap. On failure the previous terrain
// keeps rendering.
func (v *Viewer) reload() {
	err := v.heightmap.Reload()
	if errors.Is(err, terrain.ErrNothingToReload) {
		err = v.heightmap.Load(v.config.Terrain.Heightmap)
	}
	if err != nil {
		v.log.Warn("reload failed", zap.Error(err))
		return
	}
	v.onTerrainLoaded()
}

// update applies held keys and mouse drag to the camera.
func (v *Viewer) update(dt float32) {
	var forward, right, up float32
	if v.input.IsKeyHeld(sdl.SCANCODE_W) {
		forward++
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_S) {
		forward--
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_D) {
		right++
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_A) {
		right--
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_E) {
		up++
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_Q) {
		up--
	}
	// Movement speed is tuned for 60 frames per second.
	step := dt * 60
	v.camera.HandleMovement(forward*step, right*step, up*step)

	if v.input.IsButtonHeld(sdl.BUTTON_LEFT) {
		dx, dy := v.input.Drag()
		v.camera.HandleDrag(float32(dx), float32(dy))
	}
	if w := v.input.Wheel(); w != 0 {
		v.camera.HandleZoom(w)
	}
}

func (v *Viewer) statusLine(fps int) string {
	if !v.heightmap.Loaded() {
		return fmt.Sprintf("%s | no terrain | %d fps", title, fps)
	}
	return fmt.Sprintf("%s | %s %dx%d | ground %.2f | %d fps",
		title, v.heightmap.Source(), v.heightmap.Cols(), v.heightmap.Rows(),
		v.heightmap.HeightAt(v.camera.Center), fps)
}

// Close releases the terrain and tears down the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.heightmap != nil {
		v.heightmap.Release()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
