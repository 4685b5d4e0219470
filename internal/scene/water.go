package scene

import "github.com/go-gl/mathgl/mgl32"

// WaterTileSize is the half extent of one water quad in world units
const WaterTileSize = 60

// WaterTile is a flat square of water centred on X, Z at the given height
type WaterTile struct {
	X      float32
	Z      float32
	Height float32
}

func NewWaterTile(centreX, centreZ, height float32) *WaterTile {
	return &WaterTile{X: centreX, Z: centreZ, Height: height}
}

// ModelMatrix places the unit quad over the tile
func (w *WaterTile) ModelMatrix() mgl32.Mat4 {
	return Transformation(mgl32.Vec3{w.X, w.Height, w.Z}, 0, 0, 0, WaterTileSize)
}

// WaterQuad returns the 2D corners of the unit water quad, two triangles, no indices.
// The vertex shader lays them out on the XZ plane.
func WaterQuad() []float32 {
	return []float32{-1, -1, -1, 1, 1, -1, 1, -1, -1, 1, 1, 1}
}

// ReflectionClipPlane keeps what is above the water surface. The small lift hides
// seams along the shore.
func ReflectionClipPlane(height float32) mgl32.Vec4 {
	return mgl32.Vec4{0, 1, 0, -height + 1}
}

// RefractionClipPlane keeps what is below the water surface
func RefractionClipPlane(height float32) mgl32.Vec4 {
	return mgl32.Vec4{0, -1, 0, height}
}

// NoClipPlane keeps everything
func NoClipPlane() mgl32.Vec4 {
	return mgl32.Vec4{0, -1, 0, 100000}
}
