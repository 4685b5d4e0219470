package renderer

import (
	"errors"
	"fmt"

	"scenery/internal/config"
	"scenery/internal/logger"
	"scenery/internal/profiling"
	"scenery/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func errMissingPass(name string) error {
	return fmt.Errorf("renderer: missing %s", name)
}

// FrameStats describes what the last Render call drew
type FrameStats struct {
	Batches        int
	Entities       int
	NormalBatches  int
	NormalEntities int
	Terrains       int
}

// Renderer batches submitted objects by resource and draws them in a fixed pass order:
// entities, normal-mapped entities, terrain, skybox. It owns the per-pass shader contexts
// and must be driven from the thread that owns the GL context.
type Renderer struct {
	gc       GraphicsContext
	passes   Passes
	registry *Registry

	projection mgl32.Mat4
	settings   config.ProjectionSettings
	sky        [3]float32

	last FrameStats
	log  *zap.Logger
}

// NewRenderer computes the projection from the settings, hands it to every pass that
// needs it and enables back-face culling. An invalid viewport or frustum fails with
// ErrInvalidConfiguration.
func NewRenderer(s config.Settings, gc GraphicsContext, passes Passes) (*Renderer, error) {
	if gc == nil {
		return nil, errors.New("renderer: missing graphics context")
	}
	if err := passes.validate(); err != nil {
		return nil, err
	}

	projection, err := ComputeProjection(
		s.Window.Width, s.Window.Height,
		s.Projection.FOV, s.Projection.NearPlane, s.Projection.FarPlane,
	)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		gc:         gc,
		passes:     passes,
		registry:   NewRegistry(),
		projection: projection,
		settings:   s.Projection,
		sky:        s.Sky.Colour,
		log:        logger.Log,
	}
	r.loadProjection()
	for _, ca := range passes.cullingAware() {
		ca.SetCuller(r)
	}
	r.EnableCulling()

	return r, nil
}

// SetLogger replaces the renderer's logger. Nil silences it.
func (r *Renderer) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	r.log = l
}

// ProjectionMatrix returns the matrix shared by every pass
func (r *Renderer) ProjectionMatrix() mgl32.Mat4 {
	return r.projection
}

// SkyColour returns the clear and fog colour
func (r *Renderer) SkyColour() (float32, float32, float32) {
	return r.sky[0], r.sky[1], r.sky[2]
}

// LastFrame returns counts from the most recent Render call
func (r *Renderer) LastFrame() FrameStats {
	return r.last
}

// Pending exposes the current accumulation, read-only
func (r *Renderer) Pending() Frame {
	return r.registry.Pending()
}

// UpdateViewport recomputes the projection for a new surface size. On error the
// previous projection stays in effect.
func (r *Renderer) UpdateViewport(width, height int) error {
	projection, err := ComputeProjection(width, height, r.settings.FOV, r.settings.NearPlane, r.settings.FarPlane)
	if err != nil {
		return err
	}
	r.projection = projection
	r.loadProjection()
	return nil
}

func (r *Renderer) loadProjection() {
	for _, pl := range r.passes.projectionLoaders() {
		pl.LoadProjectionMatrix(r.projection)
	}
}

// RenderScene submits everything and draws one frame
func (r *Renderer) RenderScene(entities, normalEntities []*scene.Entity, terrains []*scene.Terrain,
	lights []*scene.Light, camera scene.Camera, clipPlane mgl32.Vec4) error {
	for _, t := range terrains {
		r.ProcessTerrain(t)
	}
	for _, e := range entities {
		r.ProcessEntity(e)
	}
	for _, e := range normalEntities {
		r.ProcessNormalMapEntity(e)
	}
	return r.Render(lights, camera, clipPlane)
}

// Render draws everything submitted since the previous call and then clears the
// accumulation, whether or not a pass failed. A failing pass aborts the remaining
// passes and its error is returned.
func (r *Renderer) Render(lights []*scene.Light, camera scene.Camera, clipPlane mgl32.Vec4) error {
	defer profiling.Track("renderer.Render")()
	defer r.registry.Drain()

	frame := r.registry.Pending()
	r.last = FrameStats{
		Batches:        frame.Standard.Len(),
		Entities:       frame.Standard.Instances(),
		NormalBatches:  frame.NormalMapped.Len(),
		NormalEntities: frame.NormalMapped.Instances(),
		Terrains:       len(frame.Terrains),
	}

	r.prepare()
	red, green, blue := r.SkyColour()

	if err := r.renderEntities(frame.Standard, lights, camera, clipPlane); err != nil {
		return fmt.Errorf("entity pass: %w", err)
	}

	if err := r.renderNormalMapped(frame.NormalMapped, lights, camera, clipPlane); err != nil {
		return fmt.Errorf("normal map pass: %w", err)
	}

	if err := r.renderTerrain(frame.Terrains, lights, camera, clipPlane); err != nil {
		return fmt.Errorf("terrain pass: %w", err)
	}

	if err := r.renderSkybox(camera, red, green, blue); err != nil {
		return fmt.Errorf("skybox pass: %w", err)
	}
	return nil
}

// prepare resets depth testing and clears the frame to the sky colour. GL errors are
// logged and the frame carries on.
func (r *Renderer) prepare() {
	r.gc.EnableDepthTest()
	r.gc.Clear()
	r.gc.ClearColor(r.sky[0], r.sky[1], r.sky[2], 1)
	if err := r.gc.Err(); err != nil {
		r.log.Warn("prepare frame", zap.Error(err))
	}
}

// loadShared uploads the uniforms every lit pass shares
func (r *Renderer) loadShared(shader ShaderProgram, lights []*scene.Light, camera scene.Camera, clipPlane mgl32.Vec4) {
	shader.LoadClipPlane(clipPlane)
	shader.LoadSkyColour(r.sky[0], r.sky[1], r.sky[2])
	shader.LoadLights(lights)
	shader.LoadViewMatrix(camera)
}

func (r *Renderer) renderEntities(batches *BatchMap, lights []*scene.Light, camera scene.Camera, clipPlane mgl32.Vec4) error {
	defer profiling.Track("renderer.renderEntities")()
	shader := r.passes.EntityShader
	shader.Start()
	defer shader.Stop()
	r.loadShared(shader, lights, camera, clipPlane)
	return r.passes.Entity.Render(batches)
}

func (r *Renderer) renderNormalMapped(batches *BatchMap, lights []*scene.Light, camera scene.Camera, clipPlane mgl32.Vec4) error {
	defer profiling.Track("renderer.renderNormalMapped")()
	return r.passes.NormalMap.Render(batches, clipPlane, lights, camera)
}

func (r *Renderer) renderTerrain(terrains []*scene.Terrain, lights []*scene.Light, camera scene.Camera, clipPlane mgl32.Vec4) error {
	defer profiling.Track("renderer.renderTerrain")()
	shader := r.passes.TerrainShader
	shader.Start()
	defer shader.Stop()
	r.loadShared(shader, lights, camera, clipPlane)
	return r.passes.Terrain.Render(terrains)
}

func (r *Renderer) renderSkybox(camera scene.Camera, red, green, blue float32) error {
	defer profiling.Track("renderer.renderSkybox")()
	return r.passes.Skybox.Render(camera, red, green, blue)
}

// RenderWater draws water tiles over the scene drawn by the last Render. The first light
// is treated as the sun. It fails when no water pass was configured.
func (r *Renderer) RenderWater(tiles []*scene.WaterTile, lights []*scene.Light, camera scene.Camera) error {
	if r.passes.Water == nil {
		return errMissingPass("water pass")
	}
	if len(tiles) == 0 {
		return nil
	}
	defer profiling.Track("renderer.renderWater")()

	var sun *scene.Light
	for _, l := range lights {
		if l != nil {
			sun = l
			break
		}
	}
	if err := r.passes.Water.Render(tiles, camera, sun); err != nil {
		return fmt.Errorf("water pass: %w", err)
	}
	return nil
}

// ProcessEntity queues a standard-lit entity. Nil entities or entities without a model are ignored.
func (r *Renderer) ProcessEntity(e *scene.Entity) {
	r.registry.Submit(e, Standard)
}

// ProcessNormalMapEntity queues a normal-mapped entity. Nil entities or entities without a model are ignored.
func (r *Renderer) ProcessNormalMapEntity(e *scene.Entity) {
	r.registry.Submit(e, NormalMapped)
}

// ProcessTerrain queues a terrain tile
func (r *Renderer) ProcessTerrain(t *scene.Terrain) {
	r.registry.SubmitTerrain(t)
}

// EnableCulling turns on back-face culling, or logs a warning when the context cannot cull
func (r *Renderer) EnableCulling() {
	if !r.gc.SupportsCulling() {
		r.log.Warn("face culling is not supported by this context, leaving it off")
		return
	}
	r.gc.EnableCulling()
}

// DisableCulling turns off face culling, or logs a warning when the context cannot cull
func (r *Renderer) DisableCulling() {
	if !r.gc.SupportsCulling() {
		r.log.Warn("face culling is not supported by this context, nothing to disable")
		return
	}
	r.gc.DisableCulling()
}

// CleanUp releases the shader contexts the renderer owns. Every release is attempted and
// the failures are logged together, never returned.
func (r *Renderer) CleanUp() {
	var errs []error
	release := func(name string, c cleaner) {
		if c == nil {
			return
		}
		defer func() {
			if p := recover(); p != nil {
				errs = append(errs, fmt.Errorf("%s: panic: %v", name, p))
			}
		}()
		if err := c.CleanUp(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if r.passes.EntityShader != nil {
		release("entity shader", r.passes.EntityShader)
	}
	if r.passes.TerrainShader != nil {
		release("terrain shader", r.passes.TerrainShader)
	}
	if r.passes.NormalMap != nil {
		release("normal map pass", r.passes.NormalMap)
	}
	if c, ok := r.passes.Skybox.(cleaner); ok {
		release("skybox pass", c)
	}
	if c, ok := r.passes.Water.(cleaner); ok {
		release("water pass", c)
	}

	if err := errors.Join(errs...); err != nil {
		r.log.Warn("cleanup failed", zap.Int("failures", len(errs)), zap.Error(err))
	}
}
