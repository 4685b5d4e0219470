package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// TerrainSize is the side length of one tile in world units
	TerrainSize = 800
	// TerrainVertexCount is the number of vertices along one side of a tile
	TerrainVertexCount = 128
)

// HeightFunc returns the terrain height at a tile-local position
type HeightFunc func(x, z float32) float32

// Flat is a HeightFunc for level ground
func Flat(x, z float32) float32 { return 0 }

// TerrainTexturePack holds the four ground textures mixed by the blend map
type TerrainTexturePack struct {
	Background uint32
	R          uint32
	G          uint32
	B          uint32
}

// Terrain is one square tile of ground placed on the grid
type Terrain struct {
	X        float32
	Z        float32
	Model    *RawModel
	Textures TerrainTexturePack
	BlendMap uint32

	heights [][]float32
}

// NewTerrain places a tile at grid cell (gridX, gridZ). heights may be nil for flat ground.
func NewTerrain(gridX, gridZ int, model *RawModel, textures TerrainTexturePack, blendMap uint32, heights [][]float32) *Terrain {
	return &Terrain{
		X:        float32(gridX) * TerrainSize,
		Z:        float32(gridZ) * TerrainSize,
		Model:    model,
		Textures: textures,
		BlendMap: blendMap,
		heights:  heights,
	}
}

// HeightAt returns the ground height under a world position, 0 outside the tile
func (t *Terrain) HeightAt(worldX, worldZ float32) float32 {
	if len(t.heights) < 2 {
		return 0
	}
	tx := worldX - t.X
	tz := worldZ - t.Z
	cells := float32(len(t.heights) - 1)
	square := float32(TerrainSize) / cells
	gx := int(math.Floor(float64(tx / square)))
	gz := int(math.Floor(float64(tz / square)))
	if gx < 0 || gz < 0 || gx >= len(t.heights)-1 || gz >= len(t.heights)-1 {
		return 0
	}

	xc := float32(math.Mod(float64(tx), float64(square))) / square
	zc := float32(math.Mod(float64(tz), float64(square))) / square
	if xc <= 1-zc {
		return barycentric(
			mgl32.Vec3{0, t.heights[gx][gz], 0},
			mgl32.Vec3{1, t.heights[gx+1][gz], 0},
			mgl32.Vec3{0, t.heights[gx][gz+1], 1},
			mgl32.Vec2{xc, zc},
		)
	}
	return barycentric(
		mgl32.Vec3{1, t.heights[gx+1][gz], 0},
		mgl32.Vec3{1, t.heights[gx+1][gz+1], 1},
		mgl32.Vec3{0, t.heights[gx][gz+1], 1},
		mgl32.Vec2{xc, zc},
	)
}

func barycentric(p1, p2, p3 mgl32.Vec3, pos mgl32.Vec2) float32 {
	det := (p2.Z()-p3.Z())*(p1.X()-p3.X()) + (p3.X()-p2.X())*(p1.Z()-p3.Z())
	l1 := ((p2.Z()-p3.Z())*(pos.X()-p3.X()) + (p3.X()-p2.X())*(pos.Y()-p3.Z())) / det
	l2 := ((p3.Z()-p1.Z())*(pos.X()-p3.X()) + (p1.X()-p3.X())*(pos.Y()-p3.Z())) / det
	l3 := 1 - l1 - l2
	return l1*p1.Y() + l2*p2.Y() + l3*p3.Y()
}

// GenerateTerrainMesh builds a vertexCount x vertexCount grid spanning size units.
// It also returns the sampled heights indexed [x][z] for HeightAt.
func GenerateTerrainMesh(vertexCount int, size float32, height HeightFunc) (MeshData, [][]float32) {
	if height == nil {
		height = Flat
	}
	step := size / float32(vertexCount-1)
	heights := make([][]float32, vertexCount)
	for x := range heights {
		heights[x] = make([]float32, vertexCount)
		for z := range heights[x] {
			heights[x][z] = height(float32(x)*step, float32(z)*step)
		}
	}

	count := vertexCount * vertexCount
	m := MeshData{
		Positions: make([]float32, 0, count*3),
		Normals:   make([]float32, 0, count*3),
		TexCoords: make([]float32, 0, count*2),
		Indices:   make([]uint32, 0, 6*(vertexCount-1)*(vertexCount-1)),
	}
	at := func(x, z int) float32 {
		x = clampIndex(x, vertexCount)
		z = clampIndex(z, vertexCount)
		return heights[x][z]
	}

	for z := 0; z < vertexCount; z++ {
		for x := 0; x < vertexCount; x++ {
			m.Positions = append(m.Positions, float32(x)*step, heights[x][z], float32(z)*step)
			n := mgl32.Vec3{at(x-1, z) - at(x+1, z), 2 * step, at(x, z-1) - at(x, z+1)}.Normalize()
			m.Normals = append(m.Normals, n.X(), n.Y(), n.Z())
			m.TexCoords = append(m.TexCoords, float32(x)/float32(vertexCount-1), float32(z)/float32(vertexCount-1))
		}
	}

	for gz := 0; gz < vertexCount-1; gz++ {
		for gx := 0; gx < vertexCount-1; gx++ {
			topLeft := uint32(gz*vertexCount + gx)
			topRight := topLeft + 1
			bottomLeft := uint32((gz+1)*vertexCount + gx)
			bottomRight := bottomLeft + 1
			m.Indices = append(m.Indices, topLeft, bottomLeft, topRight, topRight, bottomLeft, bottomRight)
		}
	}
	return m, heights
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
