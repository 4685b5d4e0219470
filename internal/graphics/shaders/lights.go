package shaders

import (
	"fmt"

	"scenery/internal/graphics"
	"scenery/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// uniform names per light slot, resolved once
var (
	lightPositionNames  = slotNames("lightPosition")
	lightEyeSpaceNames  = slotNames("lightPositionEyeSpace")
	lightColourNames    = slotNames("lightColour")
	lightAttenuateNames = slotNames("attenuation")
)

func slotNames(base string) [scene.MaxLights]string {
	var out [scene.MaxLights]string
	for i := range out {
		out[i] = fmt.Sprintf("%s[%d]", base, i)
	}
	return out
}

// loadLights fills every light slot. Slots beyond len(lights) are blacked out so stale
// lights from a previous frame never leak into this one. Extra lights are dropped.
func loadLights(s *graphics.Shader, positionNames [scene.MaxLights]string, lights []*scene.Light, toShaderSpace func(mgl32.Vec3) mgl32.Vec3) {
	for i := 0; i < scene.MaxLights; i++ {
		if i < len(lights) && lights[i] != nil {
			l := lights[i]
			p := l.Position
			if toShaderSpace != nil {
				p = toShaderSpace(p)
			}
			s.SetVector3(positionNames[i], p.X(), p.Y(), p.Z())
			s.SetVector3(lightColourNames[i], l.Colour.X(), l.Colour.Y(), l.Colour.Z())
			s.SetVector3(lightAttenuateNames[i], l.Attenuation.X(), l.Attenuation.Y(), l.Attenuation.Z())
			continue
		}
		s.SetVector3(positionNames[i], 0, 0, 0)
		s.SetVector3(lightColourNames[i], 0, 0, 0)
		s.SetVector3(lightAttenuateNames[i], 1, 0, 0)
	}
}

// eyeSpace returns a transform taking world positions into the camera's eye space
func eyeSpace(view mgl32.Mat4) func(mgl32.Vec3) mgl32.Vec3 {
	return func(p mgl32.Vec3) mgl32.Vec3 {
		return view.Mul4x1(p.Vec4(1)).Vec3()
	}
}
