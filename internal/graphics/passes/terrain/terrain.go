package terrain

import (
	"fmt"

	"scenery/internal/graphics/shaders"
	"scenery/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Terrain draws ground tiles. Every tile has its own mesh, so there is nothing to batch.
type Terrain struct {
	shader *shaders.TerrainShader
}

func New(shader *shaders.TerrainShader) *Terrain {
	return &Terrain{shader: shader}
}

// Render expects the terrain shader to be started
func (p *Terrain) Render(terrains []*scene.Terrain) error {
	for _, t := range terrains {
		if t.Model == nil {
			return fmt.Errorf("terrain tile at %.0f,%.0f has no mesh", t.X, t.Z)
		}
		p.bindTile(t)
		p.shader.LoadTransformationMatrix(scene.Transformation(mgl32.Vec3{t.X, 0, t.Z}, 0, 0, 0, 1))
		gl.DrawElements(gl.TRIANGLES, t.Model.VertexCount, gl.UNSIGNED_INT, nil)
		p.unbindTile(t)
	}
	return nil
}

func (p *Terrain) bindTile(t *scene.Terrain) {
	gl.BindVertexArray(t.Model.VAO)
	for _, a := range t.Model.Attributes {
		gl.EnableVertexAttribArray(a)
	}
	units := [...]struct {
		unit    uint32
		texture uint32
	}{
		{shaders.TerrainBackgroundUnit, t.Textures.Background},
		{shaders.TerrainRUnit, t.Textures.R},
		{shaders.TerrainGUnit, t.Textures.G},
		{shaders.TerrainBUnit, t.Textures.B},
		{shaders.TerrainBlendMapUnit, t.BlendMap},
	}
	for _, u := range units {
		gl.ActiveTexture(gl.TEXTURE0 + u.unit)
		gl.BindTexture(gl.TEXTURE_2D, u.texture)
	}
	p.shader.LoadShine(1, 0)
}

func (p *Terrain) unbindTile(t *scene.Terrain) {
	for _, a := range t.Model.Attributes {
		gl.DisableVertexAttribArray(a)
	}
	gl.BindVertexArray(0)
}
