package entity

import (
	"fmt"

	"scenery/internal/graphics/renderer"
	"scenery/internal/graphics/shaders"
	"scenery/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Entity draws standard-lit batches. Each model is bound once and every instance of it
// is drawn with only its transform and atlas offset changing.
type Entity struct {
	shader *shaders.EntityShader
	culler renderer.Culler
}

func New(shader *shaders.EntityShader) *Entity {
	return &Entity{shader: shader}
}

// SetCuller receives the toggles used around transparent models. Without one the
// culling state is left alone.
func (p *Entity) SetCuller(c renderer.Culler) {
	p.culler = c
}

// Render expects the entity shader to be started
func (p *Entity) Render(batches *renderer.BatchMap) error {
	return batches.Each(func(b *renderer.Batch) error {
		if err := p.bindModel(b.Model); err != nil {
			return err
		}
		for _, e := range b.Entities {
			p.shader.LoadTransformationMatrix(e.TransformationMatrix())
			p.shader.LoadOffset(e.TextureOffset())
			gl.DrawElements(gl.TRIANGLES, b.Model.Raw.VertexCount, gl.UNSIGNED_INT, nil)
		}
		p.unbindModel(b.Model)
		return nil
	})
}

func (p *Entity) bindModel(m *scene.TexturedModel) error {
	if m.Raw == nil || m.Texture == nil {
		return fmt.Errorf("model %d has no mesh or texture", m.Key())
	}
	gl.BindVertexArray(m.Raw.VAO)
	for _, a := range m.Raw.Attributes {
		gl.EnableVertexAttribArray(a)
	}
	if m.Texture.HasTransparency && p.culler != nil {
		p.culler.DisableCulling()
	}
	p.shader.LoadMaterial(m.Texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, m.Texture.ID)
	return nil
}

func (p *Entity) unbindModel(m *scene.TexturedModel) {
	if m.Texture.HasTransparency && p.culler != nil {
		p.culler.EnableCulling()
	}
	for _, a := range m.Raw.Attributes {
		gl.DisableVertexAttribArray(a)
	}
	gl.BindVertexArray(0)
}
