package water

import (
	"math"
	"time"

	"scenery/internal/graphics/shaders"
	"scenery/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// WaveSpeed is how far the DuDv distortion scrolls per second, in texture repeats
const WaveSpeed = 0.03

// MeshLoader uploads the water quad
type MeshLoader interface {
	LoadPositions(positions []float32, dimensions int32) *scene.RawModel
}

// Water draws water tiles from the reflection and refraction targets. The scene must
// already have been rendered into the frame buffers this frame.
type Water struct {
	shader    *shaders.WaterShader
	fbos      *FrameBuffers
	quad      *scene.RawModel
	dudvMap   uint32
	normalMap uint32

	moveFactor float32
	last       time.Time
}

// New uploads the quad. The pass takes ownership of fbos and releases them in CleanUp.
func New(loader MeshLoader, shader *shaders.WaterShader, fbos *FrameBuffers, dudvMap, normalMap uint32, near, far float32) *Water {
	shader.LoadPlanes(near, far)
	return &Water{
		shader:    shader,
		fbos:      fbos,
		quad:      loader.LoadPositions(scene.WaterQuad(), 2),
		dudvMap:   dudvMap,
		normalMap: normalMap,
	}
}

func (p *Water) LoadProjectionMatrix(projection mgl32.Mat4) {
	p.shader.LoadProjectionMatrix(projection)
}

func (p *Water) Render(tiles []*scene.WaterTile, camera scene.Camera, sun *scene.Light) error {
	p.advance(time.Now())

	p.shader.Start()
	defer p.shader.Stop()
	p.shader.LoadViewMatrix(camera)
	p.shader.LoadMoveFactor(p.moveFactor)
	p.shader.LoadLight(sun)

	gl.BindVertexArray(p.quad.VAO)
	gl.EnableVertexAttribArray(0)
	units := [...]struct {
		unit    uint32
		texture uint32
	}{
		{shaders.WaterReflectionUnit, p.fbos.ReflectionTexture()},
		{shaders.WaterRefractionUnit, p.fbos.RefractionTexture()},
		{shaders.WaterDuDvUnit, p.dudvMap},
		{shaders.WaterNormalUnit, p.normalMap},
		{shaders.WaterDepthUnit, p.fbos.RefractionDepth()},
	}
	for _, u := range units {
		gl.ActiveTexture(gl.TEXTURE0 + u.unit)
		gl.BindTexture(gl.TEXTURE_2D, u.texture)
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	for _, tile := range tiles {
		if tile == nil {
			continue
		}
		p.shader.LoadModelMatrix(tile.ModelMatrix())
		gl.DrawArrays(gl.TRIANGLES, 0, p.quad.VertexCount)
	}

	gl.Disable(gl.BLEND)
	gl.DisableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return nil
}

// advance scrolls the ripples by the time elapsed since the previous frame, wrapping at 1
func (p *Water) advance(now time.Time) {
	if !p.last.IsZero() {
		p.moveFactor = float32(math.Mod(float64(p.moveFactor)+WaveSpeed*now.Sub(p.last).Seconds(), 1))
	}
	p.last = now
}

func (p *Water) CleanUp() error {
	if p.fbos != nil {
		p.fbos.CleanUp()
	}
	return p.shader.CleanUp()
}
