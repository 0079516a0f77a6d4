// Package picking provides ray casting and terrain picking utilities.
package picking

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// At returns Origin + t*Direction.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates an AABB from two corners, ordering each axis.
func NewAABB(a, b mgl32.Vec3) AABB {
	var box AABB
	for k := 0; k < 3; k++ {
		box.Min[k], box.Max[k] = min(a[k], b[k]), max(a[k], b[k])
	}
	return box
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	nearWorld := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1.0, 1.0})

	dir := farWorld.Sub(nearWorld)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: nearWorld, Direction: dir}
}

func unproject(inv mgl32.Mat4, ndc mgl32.Vec4) mgl32.Vec3 {
	p := inv.Mul4x1(ndc)
	if p.W() != 0 {
		return p.Vec3().Mul(1 / p.W())
	}
	return p.Vec3()
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if gomath.Abs(float64(r.Direction.Y())) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y()) / r.Direction.Y()
	if t < 0 {
		return 0, 0, false // Intersection behind ray origin
	}

	p := r.At(t)
	return p.X(), p.Z(), true
}

// IntersectAABB returns the entry and exit distances of the ray through box.
// A ray starting inside the box has tmin 0.
func (r Ray) IntersectAABB(box AABB) (tmin, tmax float32, hit bool) {
	tmin = 0
	tmax = float32(gomath.MaxFloat32)

	for k := 0; k < 3; k++ {
		if r.Direction[k] == 0 {
			if r.Origin[k] < box.Min[k] || r.Origin[k] > box.Max[k] {
				return 0, 0, false
			}
			continue
		}
		t1 := (box.Min[k] - r.Origin[k]) / r.Direction[k]
		t2 := (box.Max[k] - r.Origin[k]) / r.Direction[k]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// HeightField answers ground height queries in world space.
type HeightField interface {
	HeightAt(pos mgl32.Vec3) float32
}

// PickHeightField marches the ray through box in steps of step and returns the
// first point at or below the ground, refined by bisection.
func PickHeightField(r Ray, box AABB, field HeightField, step float32) (mgl32.Vec3, bool) {
	tmin, tmax, hit := r.IntersectAABB(box)
	if !hit || step <= 0 {
		return mgl32.Vec3{}, false
	}

	above := func(t float32) bool {
		p := r.At(t)
		return p.Y() > field.HeightAt(p)
	}

	if !above(tmin) {
		return r.At(tmin), true
	}
	prev := tmin
	for t := tmin + step; ; t += step {
		t = min(t, tmax)
		if !above(t) {
			lo, hi := prev, t
			for i := 0; i < 16; i++ {
				mid := (lo + hi) / 2
				if above(mid) {
					lo = mid
				} else {
					hi = mid
				}
			}
			return r.At(hi), true
		}
		if t >= tmax {
			return mgl32.Vec3{}, false
		}
		prev = t
	}
}
