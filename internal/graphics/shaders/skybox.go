package shaders

import (
	"path/filepath"

	"scenery/internal/graphics"
	"scenery/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// SkyboxShader draws the cube map around the eye
type SkyboxShader struct {
	*graphics.Shader
}

func NewSkyboxShader(shadersDir string) (*SkyboxShader, error) {
	s, err := graphics.NewShaderFromDir(filepath.Join(shadersDir, "skybox"), "skybox")
	if err != nil {
		return nil, err
	}
	ss := &SkyboxShader{Shader: s}
	ss.Use()
	ss.SetInt("cubeMap", 0)
	ss.Unuse()
	return ss, nil
}

func (s *SkyboxShader) Start() { s.Use() }
func (s *SkyboxShader) Stop()  { s.Unuse() }

func (s *SkyboxShader) LoadProjectionMatrix(projection mgl32.Mat4) {
	s.Use()
	s.SetMatrix4("projectionMatrix", projection)
	s.Unuse()
}

// LoadViewMatrix strips the eye translation, so the sky never gets closer, and spins
// the cube by rotation degrees about the vertical axis
func (s *SkyboxShader) LoadViewMatrix(camera scene.Camera, rotation float32) {
	view := graphics.ViewRotation(camera.ViewMatrix()).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotation)))
	s.SetMatrix4("viewMatrix", view)
}

func (s *SkyboxShader) LoadFogColour(r, g, b float32) {
	s.SetVector3("fogColour", r, g, b)
}

func (s *SkyboxShader) CleanUp() error {
	return s.Delete()
}
