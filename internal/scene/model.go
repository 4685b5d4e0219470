package scene

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// ResourceKey identifies a GPU-resident mesh+material pairing. Zero means "no resource".
type ResourceKey uint64

// NoKey is the zero key. Instances carrying it are never drawn.
const NoKey ResourceKey = 0

var nextKey atomic.Uint64

// RawModel is an uploaded mesh: its vertex array and the number of indices to draw
type RawModel struct {
	VAO         uint32
	VertexCount int32
	// Attributes lists the vertex attribute slots the VAO enables
	Attributes []uint32
}

// ModelTexture is the material half of a TexturedModel
type ModelTexture struct {
	ID              uint32
	NormalMap       uint32
	ShineDamper     float32
	Reflectivity    float32
	HasTransparency bool
	UseFakeLighting bool
	NumberOfRows    int32 // atlas grid size, 1 for a plain texture
}

// NewModelTexture returns a texture with the usual material defaults
func NewModelTexture(id uint32) *ModelTexture {
	return &ModelTexture{
		ID:           id,
		ShineDamper:  1,
		Reflectivity: 0,
		NumberOfRows: 1,
	}
}

// TexturedModel pairs a mesh with a material under a stable key
type TexturedModel struct {
	key     ResourceKey
	Raw     *RawModel
	Texture *ModelTexture
}

// NewTexturedModel assigns a fresh key to the mesh+material pair
func NewTexturedModel(raw *RawModel, texture *ModelTexture) *TexturedModel {
	return &TexturedModel{
		key:     ResourceKey(nextKey.Add(1)),
		Raw:     raw,
		Texture: texture,
	}
}

// Key returns the batching key. A nil model has NoKey.
func (m *TexturedModel) Key() ResourceKey {
	if m == nil {
		return NoKey
	}
	return m.key
}

// Entity is one placed occurrence of a TexturedModel
type Entity struct {
	Model        *TexturedModel
	Position     mgl32.Vec3
	RotX         float32 // degrees
	RotY         float32
	RotZ         float32
	Scale        float32
	TextureIndex int32
}

// NewEntity places model at position with unit scale
func NewEntity(model *TexturedModel, position mgl32.Vec3) *Entity {
	return &Entity{
		Model:    model,
		Position: position,
		Scale:    1,
	}
}

// Key returns the key of the entity's model, NoKey when the entity or model is missing
func (e *Entity) Key() ResourceKey {
	if e == nil {
		return NoKey
	}
	return e.Model.Key()
}

// Move shifts the entity by the given delta
func (e *Entity) Move(dx, dy, dz float32) {
	e.Position = e.Position.Add(mgl32.Vec3{dx, dy, dz})
}

// Rotate adds to the rotation angles, in degrees
func (e *Entity) Rotate(dx, dy, dz float32) {
	e.RotX += dx
	e.RotY += dy
	e.RotZ += dz
}

// TextureOffset returns the atlas cell origin for the entity's texture index
func (e *Entity) TextureOffset() mgl32.Vec2 {
	rows := int32(1)
	if e.Model != nil && e.Model.Texture != nil && e.Model.Texture.NumberOfRows > 0 {
		rows = e.Model.Texture.NumberOfRows
	}
	column := e.TextureIndex % rows
	row := e.TextureIndex / rows
	return mgl32.Vec2{float32(column) / float32(rows), float32(row) / float32(rows)}
}

// TransformationMatrix builds translate * rotX * rotY * rotZ * scale
func (e *Entity) TransformationMatrix() mgl32.Mat4 {
	return Transformation(e.Position, e.RotX, e.RotY, e.RotZ, e.Scale)
}

// Transformation composes a model matrix from a translation, euler angles in degrees and a uniform scale
func Transformation(pos mgl32.Vec3, rx, ry, rz, scale float32) mgl32.Mat4 {
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rx))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(ry))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rz))).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}
