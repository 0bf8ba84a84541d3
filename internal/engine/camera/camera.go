// Package camera holds the fixed camera the plane is viewed through.
package camera

import (
	gomath "math"

	"github.com/Faultbox/meshglow/pkg/math"
)

// Defaults frame the [-1,1] plane slightly inside a 25 degree frustum.
const (
	DefaultFovDegrees = 25.0
	DefaultNear       = 0.01
	DefaultFar        = 100.0
	DefaultDistance   = 1.2
)

// Camera is a static perspective camera.
type Camera struct {
	FovY float32 // Vertical field of view (radians)
	Near float32
	Far  float32 // +Inf selects an infinite far plane

	Eye    math.Vec3
	Center math.Vec3
	Up     math.Vec3
}

// Default returns the camera at (0, 0, 1.2) looking at the origin, +Y up.
func Default() Camera {
	return Camera{
		FovY:   Radians(DefaultFovDegrees),
		Near:   DefaultNear,
		Far:    DefaultFar,
		Eye:    math.Vec3{X: 0, Y: 0, Z: DefaultDistance},
		Center: math.Vec3{},
		Up:     math.Vec3{X: 0, Y: 1, Z: 0},
	}
}

// IsZero reports whether the camera was left unset.
func (c Camera) IsZero() bool {
	return c == Camera{}
}

// Projection writes the perspective matrix for the given aspect into out.
func (c Camera) Projection(out *math.Mat4, aspect float32) *math.Mat4 {
	return math.Perspective(out, c.FovY, aspect, c.Near, c.Far)
}

// View writes the look-at matrix into out.
func (c Camera) View(out *math.Mat4) *math.Mat4 {
	return math.LookAt(out, c.Eye, c.Center, c.Up)
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return float32(gomath.Pi * float64(deg) / 180)
}

// Aspect returns width/height, falling back to 1 for degenerate sizes.
func Aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
