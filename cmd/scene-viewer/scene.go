package main

import (
	"math"
	"path/filepath"

	"scenery/internal/loader"
	"scenery/internal/logger"
	"scenery/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// demoScene is what the viewer draws every frame
type demoScene struct {
	entities       []*scene.Entity
	normalEntities []*scene.Entity
	terrains       []*scene.Terrain
	lights         []*scene.Light
	spinning       []*scene.Entity
	waters         []*scene.WaterTile
}

// hills is a gentle rolling height field
func hills(x, z float32) float32 {
	return 4 * float32(math.Sin(float64(x)/40)*math.Cos(float64(z)/55))
}

// loadTexture falls back to a solid colour when the file is missing
func loadTexture(ld *loader.Loader, texturesDir, name string, r, g, b uint8) uint32 {
	id, err := ld.LoadTexture(filepath.Join(texturesDir, name))
	if err != nil {
		logger.Log.Warn("texture unavailable, using a solid colour", zap.String("name", name), zap.Error(err))
		return ld.LoadSolidTexture(r, g, b, 255)
	}
	return id
}

func buildScene(ld *loader.Loader, texturesDir string) *demoScene {
	texture := func(name string, r, g, b uint8) uint32 {
		return loadTexture(ld, texturesDir, name, r, g, b)
	}

	ds := &demoScene{}

	mesh, heights := scene.GenerateTerrainMesh(scene.TerrainVertexCount, scene.TerrainSize, hills)
	ground := ld.LoadMesh(mesh)
	pack := scene.TerrainTexturePack{
		Background: texture("grass.png", 70, 140, 60),
		R:          texture("mud.png", 110, 80, 50),
		G:          texture("flowers.png", 200, 180, 90),
		B:          texture("path.png", 150, 140, 120),
	}
	blendMap := texture("blendMap.png", 0, 0, 0)
	for gx := -1; gx <= 0; gx++ {
		for gz := -1; gz <= 0; gz++ {
			ds.terrains = append(ds.terrains, scene.NewTerrain(gx, gz, ground, pack, blendMap, heights))
		}
	}

	cubeMesh := scene.Cube(1)
	cube := ld.LoadMesh(cubeMesh)

	crate := scene.NewTexturedModel(cube, scene.NewModelTexture(texture("crate.png", 150, 110, 60)))
	crate.Texture.ShineDamper = 10
	crate.Texture.Reflectivity = 0.2

	atlas := scene.NewModelTexture(texture("atlas.png", 90, 120, 200))
	atlas.NumberOfRows = 2
	tiles := scene.NewTexturedModel(cube, atlas)

	foliage := scene.NewModelTexture(texture("fern.png", 60, 160, 70))
	foliage.HasTransparency = true
	foliage.UseFakeLighting = true
	fern := scene.NewTexturedModel(cube, foliage)

	bricks := scene.NewModelTexture(texture("bricks.png", 160, 70, 50))
	bricks.NormalMap = texture("bricksNormal.png", 128, 128, 255)
	bricks.ShineDamper = 10
	bricks.Reflectivity = 0.5
	wall := scene.NewTexturedModel(cube, bricks)

	place := func(m *scene.TexturedModel, x, z, lift float32) *scene.Entity {
		return scene.NewEntity(m, mgl32.Vec3{x, ds.heightAt(x, z) + lift, z})
	}

	for i := -3; i <= 3; i++ {
		for j := -3; j <= 3; j++ {
			x, z := float32(i)*8, float32(j)*8
			switch {
			case (i+j)%3 == 0:
				e := place(tiles, x, z, 1)
				e.TextureIndex = int32((i + 3 + j + 3) % 4)
				ds.entities = append(ds.entities, e)
			case (i*j)%4 == 1:
				e := place(fern, x, z, 1)
				e.Scale = 0.6
				ds.entities = append(ds.entities, e)
			default:
				e := place(crate, x, z, 1)
				e.RotY = float32((i * 37) % 90)
				ds.entities = append(ds.entities, e)
			}
		}
	}

	for i := 0; i < 3; i++ {
		e := place(wall, float32(i)*6-6, -30, 3)
		e.Scale = 2
		ds.normalEntities = append(ds.normalEntities, e)
		ds.spinning = append(ds.spinning, e)
	}

	// the hollow west of the crates
	ds.waters = []*scene.WaterTile{scene.NewWaterTile(-63, 0, -2)}

	ds.lights = []*scene.Light{
		scene.NewLight(mgl32.Vec3{0, 1000, -7000}, mgl32.Vec3{0.4, 0.4, 0.4}),
		scene.NewPointLight(mgl32.Vec3{-20, ds.heightAt(-20, -20) + 12, -20}, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{1, 0.01, 0.002}),
		scene.NewPointLight(mgl32.Vec3{20, ds.heightAt(20, 0) + 12, 0}, mgl32.Vec3{0, 2, 2}, mgl32.Vec3{1, 0.01, 0.002}),
		scene.NewPointLight(mgl32.Vec3{0, ds.heightAt(0, 20) + 12, 20}, mgl32.Vec3{2, 2, 0}, mgl32.Vec3{1, 0.01, 0.002}),
	}
	return ds
}

// heightAt finds the tile under a world position
func (ds *demoScene) heightAt(x, z float32) float32 {
	for _, t := range ds.terrains {
		if x >= t.X && x < t.X+scene.TerrainSize && z >= t.Z && z < t.Z+scene.TerrainSize {
			return t.HeightAt(x, z)
		}
	}
	return 0
}

// waterHeight is the level the reflection and refraction passes clip at
func (ds *demoScene) waterHeight() (float32, bool) {
	if len(ds.waters) == 0 {
		return 0, false
	}
	return ds.waters[0].Height, true
}

// update animates the scene
func (ds *demoScene) update(dt float32) {
	for _, e := range ds.spinning {
		e.Rotate(0, 20*dt, 0)
	}
}
