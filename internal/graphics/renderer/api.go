package renderer

import (
	"scenery/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// GraphicsContext exposes the global pipeline state the renderer changes between passes
type GraphicsContext interface {
	EnableDepthTest()
	Clear()
	ClearColor(r, g, b, a float32)
	SupportsCulling() bool
	EnableCulling()
	DisableCulling()
	// Err reports errors raised by the preceding state changes
	Err() error
}

// ShaderProgram is a per-pass shader context. Uniforms are loaded by meaning;
// resolving their locations is the program's own business.
type ShaderProgram interface {
	Start()
	Stop()
	LoadClipPlane(plane mgl32.Vec4)
	LoadSkyColour(r, g, b float32)
	LoadLights(lights []*scene.Light)
	LoadViewMatrix(camera scene.Camera)
	CleanUp() error
}

// EntityPass draws standard-lit batches with an already started shader
type EntityPass interface {
	Render(batches *BatchMap) error
}

// TerrainPass draws terrain tiles with an already started shader
type TerrainPass interface {
	Render(terrains []*scene.Terrain) error
}

// NormalMapPass draws normal-mapped batches and manages its own shader
type NormalMapPass interface {
	Render(batches *BatchMap, clipPlane mgl32.Vec4, lights []*scene.Light, camera scene.Camera) error
	CleanUp() error
}

// SkyboxPass draws the sky around the camera, blended towards the fog colour
type SkyboxPass interface {
	Render(camera scene.Camera, r, g, b float32) error
}

// WaterPass draws water tiles over the finished scene. The sun drives the specular highlights.
type WaterPass interface {
	Render(tiles []*scene.WaterTile, camera scene.Camera, sun *scene.Light) error
}

// Culler toggles back-face culling
type Culler interface {
	EnableCulling()
	DisableCulling()
}

// CullingAware is implemented by passes that toggle culling while they draw. The renderer
// hands them its own toggles so the context's capability is checked in one place.
type CullingAware interface {
	SetCuller(c Culler)
}

// ProjectionLoader is implemented by passes and shaders that need the projection matrix.
// The renderer pushes the matrix at construction and after every viewport change.
type ProjectionLoader interface {
	LoadProjectionMatrix(projection mgl32.Mat4)
}

// cleaner is implemented by passes that own GPU resources the renderer must release
type cleaner interface {
	CleanUp() error
}

// Passes bundles the shader contexts and leaf renderers the renderer drives each frame
type Passes struct {
	EntityShader  ShaderProgram
	Entity        EntityPass
	TerrainShader ShaderProgram
	Terrain       TerrainPass
	NormalMap     NormalMapPass
	Skybox        SkyboxPass
	// Water is optional
	Water WaterPass
}

func (p Passes) validate() error {
	switch {
	case p.EntityShader == nil:
		return errMissingPass("entity shader")
	case p.Entity == nil:
		return errMissingPass("entity pass")
	case p.TerrainShader == nil:
		return errMissingPass("terrain shader")
	case p.Terrain == nil:
		return errMissingPass("terrain pass")
	case p.NormalMap == nil:
		return errMissingPass("normal map pass")
	case p.Skybox == nil:
		return errMissingPass("skybox pass")
	}
	return nil
}

// projectionLoaders lists every distinct collaborator that accepts the projection matrix
func (p Passes) projectionLoaders() []ProjectionLoader {
	var out []ProjectionLoader
	seen := make(map[ProjectionLoader]bool)
	for _, v := range p.all() {
		pl, ok := v.(ProjectionLoader)
		if !ok || seen[pl] {
			continue
		}
		seen[pl] = true
		out = append(out, pl)
	}
	return out
}

// cullingAware lists every collaborator that toggles culling itself
func (p Passes) cullingAware() []CullingAware {
	var out []CullingAware
	for _, v := range p.all() {
		if ca, ok := v.(CullingAware); ok {
			out = append(out, ca)
		}
	}
	return out
}

func (p Passes) all() []any {
	out := []any{p.EntityShader, p.Entity, p.TerrainShader, p.Terrain, p.NormalMap, p.Skybox}
	if p.Water != nil {
		out = append(out, p.Water)
	}
	return out
}
