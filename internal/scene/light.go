package scene

import "github.com/go-gl/mathgl/mgl32"

// MaxLights is the number of light slots every lit shader exposes
const MaxLights = 4

// Light is a point light. Attenuation holds the constant, linear and quadratic factors.
type Light struct {
	Position    mgl32.Vec3
	Colour      mgl32.Vec3
	Attenuation mgl32.Vec3
}

// NewLight returns a light with no falloff, like a distant sun
func NewLight(position, colour mgl32.Vec3) *Light {
	return &Light{
		Position:    position,
		Colour:      colour,
		Attenuation: mgl32.Vec3{1, 0, 0},
	}
}

// NewPointLight returns a light that fades with distance
func NewPointLight(position, colour, attenuation mgl32.Vec3) *Light {
	return &Light{
		Position:    position,
		Colour:      colour,
		Attenuation: attenuation,
	}
}

// Camera is what the passes need from the viewer: an eye position and a view transform
type Camera interface {
	Position() mgl32.Vec3
	ViewMatrix() mgl32.Mat4
}
