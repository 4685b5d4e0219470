package shaders

import (
	"path/filepath"

	"scenery/internal/graphics"
	"scenery/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	NormalMapModelUnit = iota
	NormalMapNormalUnit
)

// NormalMapShader lights in eye space so the tangent frame can be built per vertex
type NormalMapShader struct {
	*graphics.Shader
}

func NewNormalMapShader(shadersDir string) (*NormalMapShader, error) {
	s, err := graphics.NewShaderFromDir(filepath.Join(shadersDir, "normalmap"), "normalmap")
	if err != nil {
		return nil, err
	}
	ns := &NormalMapShader{Shader: s}
	ns.Use()
	ns.SetInt("modelTexture", NormalMapModelUnit)
	ns.SetInt("normalMap", NormalMapNormalUnit)
	ns.Unuse()
	return ns, nil
}

func (s *NormalMapShader) Start() { s.Use() }
func (s *NormalMapShader) Stop()  { s.Unuse() }

func (s *NormalMapShader) LoadClipPlane(plane mgl32.Vec4) {
	s.SetVector4("plane", plane)
}

func (s *NormalMapShader) LoadSkyColour(r, g, b float32) {
	s.SetVector3("skyColour", r, g, b)
}

// LoadLights uploads light positions already transformed by the camera's view matrix
func (s *NormalMapShader) LoadLights(lights []*scene.Light, view mgl32.Mat4) {
	loadLights(s.Shader, lightEyeSpaceNames, lights, eyeSpace(view))
}

func (s *NormalMapShader) LoadViewMatrix(view mgl32.Mat4) {
	s.SetMatrix4("viewMatrix", view)
}

func (s *NormalMapShader) LoadProjectionMatrix(projection mgl32.Mat4) {
	s.Use()
	s.SetMatrix4("projectionMatrix", projection)
	s.Unuse()
}

func (s *NormalMapShader) LoadTransformationMatrix(m mgl32.Mat4) {
	s.SetMatrix4("transformationMatrix", m)
}

func (s *NormalMapShader) LoadMaterial(t *scene.ModelTexture) {
	s.SetFloat("numberOfRows", float32(t.NumberOfRows))
	s.SetFloat("shineDamper", t.ShineDamper)
	s.SetFloat("reflectivity", t.Reflectivity)
}

func (s *NormalMapShader) LoadOffset(offset mgl32.Vec2) {
	s.SetVector2("offset", offset)
}

func (s *NormalMapShader) CleanUp() error {
	return s.Delete()
}
