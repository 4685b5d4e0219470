package normalmap

import (
	"fmt"

	"scenery/internal/graphics/renderer"
	"scenery/internal/graphics/shaders"
	"scenery/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// NormalMap draws batches whose material carries a tangent-space normal map.
// Unlike the entity pass it starts and stops its own shader.
type NormalMap struct {
	shader *shaders.NormalMapShader
	sky    [3]float32
}

func New(shader *shaders.NormalMapShader, sky [3]float32) *NormalMap {
	return &NormalMap{shader: shader, sky: sky}
}

func (p *NormalMap) LoadProjectionMatrix(projection mgl32.Mat4) {
	p.shader.LoadProjectionMatrix(projection)
}

func (p *NormalMap) Render(batches *renderer.BatchMap, clipPlane mgl32.Vec4, lights []*scene.Light, camera scene.Camera) error {
	p.shader.Start()
	defer p.shader.Stop()

	view := camera.ViewMatrix()
	p.shader.LoadClipPlane(clipPlane)
	p.shader.LoadSkyColour(p.sky[0], p.sky[1], p.sky[2])
	p.shader.LoadLights(lights, view)
	p.shader.LoadViewMatrix(view)

	return batches.Each(func(b *renderer.Batch) error {
		m := b.Model
		if m.Raw == nil || m.Texture == nil {
			return fmt.Errorf("model %d has no mesh or texture", m.Key())
		}
		gl.BindVertexArray(m.Raw.VAO)
		for _, a := range m.Raw.Attributes {
			gl.EnableVertexAttribArray(a)
		}
		p.shader.LoadMaterial(m.Texture)
		gl.ActiveTexture(gl.TEXTURE0 + shaders.NormalMapModelUnit)
		gl.BindTexture(gl.TEXTURE_2D, m.Texture.ID)
		gl.ActiveTexture(gl.TEXTURE0 + shaders.NormalMapNormalUnit)
		gl.BindTexture(gl.TEXTURE_2D, m.Texture.NormalMap)

		for _, e := range b.Entities {
			p.shader.LoadTransformationMatrix(e.TransformationMatrix())
			p.shader.LoadOffset(e.TextureOffset())
			gl.DrawElements(gl.TRIANGLES, m.Raw.VertexCount, gl.UNSIGNED_INT, nil)
		}

		for _, a := range m.Raw.Attributes {
			gl.DisableVertexAttribArray(a)
		}
		gl.BindVertexArray(0)
		return nil
	})
}

func (p *NormalMap) CleanUp() error {
	return p.shader.CleanUp()
}
