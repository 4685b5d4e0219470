package skybox

import (
	"math"
	"path/filepath"
	"time"

	"scenery/internal/graphics/shaders"
	"scenery/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Size is the half extent of the sky cube
	Size = 500
	// RotateSpeed is how fast the sky turns, in degrees per second
	RotateSpeed = 1
)

// FaceNames are the cube map face files in +X, -X, +Y, -Y, +Z, -Z order
var FaceNames = [6]string{"right.png", "left.png", "top.png", "bottom.png", "back.png", "front.png"}

// MeshLoader uploads the sky cube
type MeshLoader interface {
	LoadPositions(positions []float32, dimensions int32) *scene.RawModel
}

// Skybox draws a slowly turning cube map behind everything else
type Skybox struct {
	shader   *shaders.SkyboxShader
	cube     *scene.RawModel
	texture  uint32
	rotation float32
	last     time.Time
}

// FacePaths lists the cube map faces stored in dir
func FacePaths(dir string) [6]string {
	var faces [6]string
	for i, name := range FaceNames {
		faces[i] = filepath.Join(dir, name)
	}
	return faces
}

// New uploads the sky cube. cubeMap is a texture from Loader.LoadCubeMap.
func New(loader MeshLoader, shader *shaders.SkyboxShader, cubeMap uint32) *Skybox {
	return &Skybox{
		shader:  shader,
		cube:    loader.LoadPositions(scene.SkyboxCube(Size), 3),
		texture: cubeMap,
	}
}

func (p *Skybox) LoadProjectionMatrix(projection mgl32.Mat4) {
	p.shader.LoadProjectionMatrix(projection)
}

// Render draws the sky at the far plane. Depth testing with LEQUAL keeps it behind
// anything already drawn.
func (p *Skybox) Render(camera scene.Camera, r, g, b float32) error {
	p.advance(time.Now())

	p.shader.Start()
	p.shader.LoadViewMatrix(camera, p.rotation)
	p.shader.LoadFogColour(r, g, b)

	gl.DepthFunc(gl.LEQUAL)
	gl.BindVertexArray(p.cube.VAO)
	gl.EnableVertexAttribArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, p.texture)
	gl.DrawArrays(gl.TRIANGLES, 0, p.cube.VertexCount)
	gl.DisableVertexAttribArray(0)
	gl.BindVertexArray(0)
	gl.DepthFunc(gl.LESS)

	p.shader.Stop()
	return nil
}

// advance turns the sky by the time elapsed since the previous frame
func (p *Skybox) advance(now time.Time) {
	if !p.last.IsZero() {
		p.rotation = float32(math.Mod(float64(p.rotation+RotateSpeed*float32(now.Sub(p.last).Seconds())), 360))
	}
	p.last = now
}

func (p *Skybox) CleanUp() error {
	return p.shader.CleanUp()
}
