package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidConfiguration is returned when projection parameters cannot describe a frustum
var ErrInvalidConfiguration = errors.New("invalid projection configuration")

// ComputeProjection builds the perspective matrix shared by every pass.
//
// The scale terms follow the engine's historical formula: yScale is multiplied by the
// aspect ratio before xScale divides it back out, so xScale equals the conventional
// 1/tan(fov/2) and yScale is stretched by the aspect. Screenshots depend on it.
func ComputeProjection(width, height int, fovDegrees, nearPlane, farPlane float32) (mgl32.Mat4, error) {
	if width <= 0 || height <= 0 {
		return mgl32.Mat4{}, fmt.Errorf("%w: viewport %dx%d", ErrInvalidConfiguration, width, height)
	}
	if fovDegrees <= 0 {
		return mgl32.Mat4{}, fmt.Errorf("%w: fov %.2f", ErrInvalidConfiguration, fovDegrees)
	}
	if farPlane <= nearPlane {
		return mgl32.Mat4{}, fmt.Errorf("%w: far %.3f <= near %.3f", ErrInvalidConfiguration, farPlane, nearPlane)
	}

	aspect := float32(width) / float32(height)
	if aspect == 0 {
		return mgl32.Mat4{}, fmt.Errorf("%w: aspect ratio is zero", ErrInvalidConfiguration)
	}

	yScale := float32(1/math.Tan(float64(mgl32.DegToRad(fovDegrees/2)))) * aspect
	xScale := yScale / aspect
	frustumLength := farPlane - nearPlane

	// mgl32 is column-major: At(row, col)
	var m mgl32.Mat4
	m.Set(0, 0, xScale)
	m.Set(1, 1, yScale)
	m.Set(2, 2, -((farPlane + nearPlane) / frustumLength))
	m.Set(3, 2, -1)
	m.Set(2, 3, -((2 * nearPlane * farPlane) / frustumLength))
	m.Set(3, 3, 0)
	return m, nil
}
