package picking

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestScreenToRayCenter(t *testing.T) {
	eye := mgl32.Vec3{0, 10, 10}
	view := mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)
	inv := proj.Mul4(view).Inv()

	r := ScreenToRay(400, 400, 800, 800, inv)
	want := mgl32.Vec3{0, -1, -1}.Normalize()
	if !vecNear(r.Direction, want, 1e-3) {
		t.Errorf("direction = %v, want %v", r.Direction, want)
	}

	x, z, ok := r.IntersectPlaneY(0)
	if !ok || math.Abs(float64(x)) > 1e-2 || math.Abs(float64(z)) > 1e-2 {
		t.Errorf("IntersectPlaneY = (%v, %v, %v), want origin", x, z, ok)
	}
}

func TestIntersectPlaneYMisses(t *testing.T) {
	up := Ray{Origin: mgl32.Vec3{0, 1, 0}, Direction: mgl32.Vec3{0, 1, 0}}
	if _, _, ok := up.IntersectPlaneY(0); ok {
		t.Error("plane behind the ray should miss")
	}
	flat := Ray{Origin: mgl32.Vec3{0, 1, 0}, Direction: mgl32.Vec3{1, 0, 0}}
	if _, _, ok := flat.IntersectPlaneY(0); ok {
		t.Error("parallel ray should miss")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{-1, -1, -1})
	tests := []struct {
		name       string
		ray        Ray
		tmin, tmax float32
		hit        bool
	}{
		{"through", Ray{mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{1, 0, 0}}, 4, 6, true},
		{"inside", Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}}, 0, 1, true},
		{"miss", Ray{mgl32.Vec3{-5, 3, 0}, mgl32.Vec3{1, 0, 0}}, 0, 0, false},
		{"behind", Ray{mgl32.Vec3{5, 0, 0}, mgl32.Vec3{1, 0, 0}}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmin, tmax, hit := tt.ray.IntersectAABB(box)
			if hit != tt.hit || tmin != tt.tmin || tmax != tt.tmax {
				t.Errorf("IntersectAABB = (%v, %v, %v), want (%v, %v, %v)", tmin, tmax, hit, tt.tmin, tt.tmax, tt.hit)
			}
		})
	}
}

// stepField is 2 for x >= 0 and 0 elsewhere.
type stepField struct{}

func (stepField) HeightAt(p mgl32.Vec3) float32 {
	if p.X() >= 0 {
		return 2
	}
	return 0
}

func TestPickHeightField(t *testing.T) {
	box := NewAABB(mgl32.Vec3{-10, 0, -10}, mgl32.Vec3{10, 5, 10})

	down := Ray{Origin: mgl32.Vec3{3, 20, 1}, Direction: mgl32.Vec3{0, -1, 0}}
	p, ok := PickHeightField(down, box, stepField{}, 0.5)
	if !ok || !vecNear(p, mgl32.Vec3{3, 2, 1}, 1e-3) {
		t.Errorf("pick straight down = %v, %v, want (3,2,1)", p, ok)
	}

	// A shallow ray from the left hits the wall of the step.
	across := Ray{Origin: mgl32.Vec3{-8, 1, 0}, Direction: mgl32.Vec3{1, 0, 0}}
	p, ok = PickHeightField(across, box, stepField{}, 0.25)
	if !ok || math.Abs(float64(p.X())) > 1e-3 {
		t.Errorf("pick across = %v, %v, want x=0", p, ok)
	}

	sky := Ray{Origin: mgl32.Vec3{0, 20, 0}, Direction: mgl32.Vec3{1, 0, 0}}
	if _, ok := PickHeightField(sky, box, stepField{}, 0.5); ok {
		t.Error("ray above the box should miss")
	}

	over := Ray{Origin: mgl32.Vec3{-8, 4, 0}, Direction: mgl32.Vec3{1, 0, 0}}
	if _, ok := PickHeightField(over, box, stepField{}, 0.5); ok {
		t.Error("ray passing over the ground should miss")
	}
}

func vecNear(a, b mgl32.Vec3, tol float64) bool {
	for k := range a {
		if math.Abs(float64(a[k]-b[k])) > tol {
			return false
		}
	}
	return true
}
