package shaders

import (
	"path/filepath"

	"scenery/internal/graphics"
	"scenery/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// EntityShader is the shader context of the standard entity pass
type EntityShader struct {
	*graphics.Shader
}

// NewEntityShader compiles <shadersDir>/entity/entity.{vert,frag}
func NewEntityShader(shadersDir string) (*EntityShader, error) {
	s, err := graphics.NewShaderFromDir(filepath.Join(shadersDir, "entity"), "entity")
	if err != nil {
		return nil, err
	}
	return &EntityShader{Shader: s}, nil
}

func (s *EntityShader) Start() { s.Use() }
func (s *EntityShader) Stop()  { s.Unuse() }

func (s *EntityShader) LoadClipPlane(plane mgl32.Vec4) {
	s.SetVector4("plane", plane)
}

func (s *EntityShader) LoadSkyColour(r, g, b float32) {
	s.SetVector3("skyColour", r, g, b)
}

func (s *EntityShader) LoadLights(lights []*scene.Light) {
	loadLights(s.Shader, lightPositionNames, lights, nil)
}

func (s *EntityShader) LoadViewMatrix(camera scene.Camera) {
	s.SetMatrix4("viewMatrix", camera.ViewMatrix())
}

// LoadProjectionMatrix starts the program long enough to upload the projection
func (s *EntityShader) LoadProjectionMatrix(projection mgl32.Mat4) {
	s.Use()
	s.SetMatrix4("projectionMatrix", projection)
	s.Unuse()
}

func (s *EntityShader) LoadTransformationMatrix(m mgl32.Mat4) {
	s.SetMatrix4("transformationMatrix", m)
}

// LoadMaterial uploads the per-model material uniforms
func (s *EntityShader) LoadMaterial(t *scene.ModelTexture) {
	s.SetFloat("numberOfRows", float32(t.NumberOfRows))
	s.SetBool("useFakeLighting", t.UseFakeLighting)
	s.SetFloat("shineDamper", t.ShineDamper)
	s.SetFloat("reflectivity", t.Reflectivity)
}

func (s *EntityShader) LoadOffset(offset mgl32.Vec2) {
	s.SetVector2("offset", offset)
}

func (s *EntityShader) CleanUp() error {
	return s.Delete()
}
