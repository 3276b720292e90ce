// Package camera provides the perspective camera viewing the cube and the
// keyboard controller that moves it.
package camera

import (
	"github.com/Faultbox/midgard-cube/pkg/math"
)

// Camera is a look-at camera with a perspective projection.
type Camera struct {
	Eye    math.Vec3
	Target math.Vec3
	Up     math.Vec3

	Aspect float32 // width / height
	FovY   float32 // vertical field of view, degrees
	ZNear  float32
	ZFar   float32
}

// New creates a camera four units up and six back from the origin, looking
// at it, for the given aspect ratio.
func New(aspect float32) *Camera {
	return &Camera{
		Eye:    math.Vec3{X: 0, Y: 4, Z: 6},
		Target: math.Vec3{},
		Up:     math.UnitY,
		Aspect: aspect,
		FovY:   45,
		ZNear:  0.1,
		ZFar:   100,
	}
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Eye, c.Target, c.Up)
}

// ProjectionMatrix returns the view-to-clip transform with depth in [0, 1].
func (c *Camera) ProjectionMatrix() math.Mat4 {
	proj := math.Perspective(math.Radians(c.FovY), c.Aspect, c.ZNear, c.ZFar)
	return math.DepthZeroToOne.Mul(proj)
}

// BuildViewProjection returns the combined world-to-clip transform.
// An eye equal to the target yields a meaningless matrix.
func (c *Camera) BuildViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Uniform is the camera data uploaded to the GPU each frame.
type Uniform struct {
	ViewProj math.Mat4
}

// UniformSize is the size of an encoded Uniform in bytes.
const UniformSize = math.Mat4Size

// NewUniform returns a uniform holding the identity transform.
func NewUniform() Uniform {
	return Uniform{ViewProj: math.Identity()}
}

// UpdateViewProj recomputes the matrix from the camera's current state.
func (u *Uniform) UpdateViewProj(c *Camera) {
	u.ViewProj = c.BuildViewProjection()
}

// Bytes returns the GPU representation of the uniform.
func (u *Uniform) Bytes() []byte {
	return u.ViewProj.AppendBytes(make([]byte, 0, UniformSize))
}
