package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a free-flying viewpoint. Angles are in degrees.
type Camera struct {
	Pos   mgl32.Vec3
	Pitch float32
	Yaw   float32
	Roll  float32
}

func NewCamera(position mgl32.Vec3) *Camera {
	return &Camera{Pos: position, Pitch: 10}
}

// Position returns the eye position
func (c *Camera) Position() mgl32.Vec3 {
	return c.Pos
}

// ViewMatrix rotates by pitch then yaw and translates by the negated eye position
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(c.Pitch)).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(c.Yaw))).
		Mul4(mgl32.Translate3D(-c.Pos.X(), -c.Pos.Y(), -c.Pos.Z()))
}

// Forward returns the horizontal direction the camera faces
func (c *Camera) Forward() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	return mgl32.Vec3{float32(math.Sin(yaw)), 0, float32(-math.Cos(yaw))}
}

// Right returns the horizontal direction to the camera's right
func (c *Camera) Right() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	return mgl32.Vec3{float32(math.Cos(yaw)), 0, float32(math.Sin(yaw))}
}

// Look applies a mouse delta, clamping pitch short of vertical
func (c *Camera) Look(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch += dPitch

	// Constrain pitch
	if c.Pitch > 89.0 {
		c.Pitch = 89.0
	}
	if c.Pitch < -89.0 {
		c.Pitch = -89.0
	}
}

// InvertPitch mirrors the camera vertically, used when rendering reflections about a water plane
func (c *Camera) InvertPitch() {
	c.Pitch = -c.Pitch
}

// ViewRotation returns the view matrix with its translation removed, for geometry that follows the eye
func ViewRotation(view mgl32.Mat4) mgl32.Mat4 {
	view.Set(0, 3, 0)
	view.Set(1, 3, 0)
	view.Set(2, 3, 0)
	return view
}

// MirrorAbout reflects the camera through the horizontal plane at height, for rendering the
// reflection seen in water. Calling it twice restores the camera.
func (c *Camera) MirrorAbout(height float32) {
	c.Pos[1] -= 2 * (c.Pos.Y() - height)
	c.InvertPitch()
}
