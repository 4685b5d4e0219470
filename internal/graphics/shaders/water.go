package shaders

import (
	"path/filepath"

	"scenery/internal/graphics"
	"scenery/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	WaterReflectionUnit = iota
	WaterRefractionUnit
	WaterDuDvUnit
	WaterNormalUnit
	WaterDepthUnit
)

// WaterShader distorts the reflection and refraction textures and mixes them by a Fresnel term
type WaterShader struct {
	*graphics.Shader
}

func NewWaterShader(shadersDir string) (*WaterShader, error) {
	s, err := graphics.NewShaderFromDir(filepath.Join(shadersDir, "water"), "water")
	if err != nil {
		return nil, err
	}
	ws := &WaterShader{Shader: s}
	ws.Use()
	ws.SetInt("reflectionTexture", WaterReflectionUnit)
	ws.SetInt("refractionTexture", WaterRefractionUnit)
	ws.SetInt("dudvMap", WaterDuDvUnit)
	ws.SetInt("normalMap", WaterNormalUnit)
	ws.SetInt("depthMap", WaterDepthUnit)
	ws.Unuse()
	return ws, nil
}

func (s *WaterShader) Start() { s.Use() }
func (s *WaterShader) Stop()  { s.Unuse() }

func (s *WaterShader) LoadProjectionMatrix(projection mgl32.Mat4) {
	s.Use()
	s.SetMatrix4("projectionMatrix", projection)
	s.Unuse()
}

// LoadPlanes uploads the frustum planes used to linearise the refraction depth
func (s *WaterShader) LoadPlanes(near, far float32) {
	s.Use()
	s.SetFloat("near", near)
	s.SetFloat("far", far)
	s.Unuse()
}

// LoadViewMatrix uploads the view transform and the eye position for the Fresnel term
func (s *WaterShader) LoadViewMatrix(camera scene.Camera) {
	s.SetMatrix4("viewMatrix", camera.ViewMatrix())
	p := camera.Position()
	s.SetVector3("cameraPosition", p.X(), p.Y(), p.Z())
}

func (s *WaterShader) LoadModelMatrix(m mgl32.Mat4) {
	s.SetMatrix4("modelMatrix", m)
}

func (s *WaterShader) LoadMoveFactor(factor float32) {
	s.SetFloat("moveFactor", factor)
}

// LoadLight uploads the light that makes the specular highlights. Nil turns them off.
func (s *WaterShader) LoadLight(light *scene.Light) {
	if light == nil {
		s.SetVector3("lightPosition", 0, 0, 0)
		s.SetVector3("lightColour", 0, 0, 0)
		return
	}
	s.SetVector3("lightPosition", light.Position.X(), light.Position.Y(), light.Position.Z())
	s.SetVector3("lightColour", light.Colour.X(), light.Colour.Y(), light.Colour.Z())
}

func (s *WaterShader) CleanUp() error {
	return s.Delete()
}
