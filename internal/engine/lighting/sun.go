// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts longitude/latitude angles in degrees to a light
// direction. Longitude is rotation around the Y axis, latitude is elevation
// from the horizon. Returns a normalized vector pointing towards the sun.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lonRad := float64(mgl32.DegToRad(longitude))
	latRad := float64(mgl32.DegToRad(latitude))

	return mgl32.Vec3{
		float32(math.Cos(latRad) * math.Sin(lonRad)),
		float32(math.Sin(latRad)),
		float32(math.Cos(latRad) * math.Cos(lonRad)),
	}
}

// Lambert returns the diffuse term ambient + (1-ambient)*max(n·l, 0).
func Lambert(normal, toLight mgl32.Vec3, ambient float32) float32 {
	d := max(normal.Dot(toLight), 0)
	return ambient + (1-ambient)*d
}
