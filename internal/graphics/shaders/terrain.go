package shaders

import (
	"path/filepath"

	"scenery/internal/graphics"
	"scenery/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture units the terrain shader samples from
const (
	TerrainBackgroundUnit = iota
	TerrainRUnit
	TerrainGUnit
	TerrainBUnit
	TerrainBlendMapUnit
)

// TerrainShader is the shader context of the terrain pass
type TerrainShader struct {
	*graphics.Shader
}

// NewTerrainShader compiles <shadersDir>/terrain/terrain.{vert,frag} and binds its samplers
func NewTerrainShader(shadersDir string) (*TerrainShader, error) {
	s, err := graphics.NewShaderFromDir(filepath.Join(shadersDir, "terrain"), "terrain")
	if err != nil {
		return nil, err
	}
	ts := &TerrainShader{Shader: s}
	ts.Use()
	ts.SetInt("backgroundTexture", TerrainBackgroundUnit)
	ts.SetInt("rTexture", TerrainRUnit)
	ts.SetInt("gTexture", TerrainGUnit)
	ts.SetInt("bTexture", TerrainBUnit)
	ts.SetInt("blendMap", TerrainBlendMapUnit)
	ts.Unuse()
	return ts, nil
}

func (s *TerrainShader) Start() { s.Use() }
func (s *TerrainShader) Stop()  { s.Unuse() }

func (s *TerrainShader) LoadClipPlane(plane mgl32.Vec4) {
	s.SetVector4("plane", plane)
}

func (s *TerrainShader) LoadSkyColour(r, g, b float32) {
	s.SetVector3("skyColour", r, g, b)
}

func (s *TerrainShader) LoadLights(lights []*scene.Light) {
	loadLights(s.Shader, lightPositionNames, lights, nil)
}

func (s *TerrainShader) LoadViewMatrix(camera scene.Camera) {
	s.SetMatrix4("viewMatrix", camera.ViewMatrix())
}

func (s *TerrainShader) LoadProjectionMatrix(projection mgl32.Mat4) {
	s.Use()
	s.SetMatrix4("projectionMatrix", projection)
	s.Unuse()
}

func (s *TerrainShader) LoadTransformationMatrix(m mgl32.Mat4) {
	s.SetMatrix4("transformationMatrix", m)
}

// LoadShine sets the specular response of the ground
func (s *TerrainShader) LoadShine(damper, reflectivity float32) {
	s.SetFloat("shineDamper", damper)
	s.SetFloat("reflectivity", reflectivity)
}

func (s *TerrainShader) CleanUp() error {
	return s.Delete()
}
