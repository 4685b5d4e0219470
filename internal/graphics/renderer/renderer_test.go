package renderer

import (
	"errors"
	"testing"

	"scenery/internal/config"
	"scenery/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recorder collects the order in which collaborators are called
type recorder struct {
	calls []string
}

func (r *recorder) add(call string) {
	r.calls = append(r.calls, call)
}

func (r *recorder) filter(calls ...string) []string {
	want := make(map[string]bool, len(calls))
	for _, c := range calls {
		want[c] = true
	}
	var out []string
	for _, c := range r.calls {
		if want[c] {
			out = append(out, c)
		}
	}
	return out
}

type fakeContext struct {
	rec         *recorder
	noCulling   bool
	cullingOn   bool
	pendingErr  error
	clearColour [4]float32
}

func (c *fakeContext) EnableDepthTest() { c.rec.add("depth") }
func (c *fakeContext) Clear()           { c.rec.add("clear") }
func (c *fakeContext) ClearColor(r, g, b, a float32) {
	c.rec.add("clearColor")
	c.clearColour = [4]float32{r, g, b, a}
}
func (c *fakeContext) SupportsCulling() bool { return !c.noCulling }
func (c *fakeContext) EnableCulling()        { c.cullingOn = true }
func (c *fakeContext) DisableCulling()       { c.cullingOn = false }
func (c *fakeContext) Err() error {
	err := c.pendingErr
	c.pendingErr = nil
	return err
}

type fakeShader struct {
	name       string
	rec        *recorder
	clip       mgl32.Vec4
	sky        [3]float32
	lights     int
	projection mgl32.Mat4
	cleanups   int
	cleanupErr error
}

func (s *fakeShader) Start()                           { s.rec.add(s.name + ".start") }
func (s *fakeShader) Stop()                            { s.rec.add(s.name + ".stop") }
func (s *fakeShader) LoadClipPlane(plane mgl32.Vec4)   { s.clip = plane }
func (s *fakeShader) LoadSkyColour(r, g, b float32)    { s.sky = [3]float32{r, g, b} }
func (s *fakeShader) LoadLights(lights []*scene.Light) { s.lights = len(lights) }
func (s *fakeShader) LoadViewMatrix(scene.Camera)      { s.rec.add(s.name + ".view") }
func (s *fakeShader) LoadProjectionMatrix(p mgl32.Mat4) {
	s.projection = p
}
func (s *fakeShader) CleanUp() error {
	s.cleanups++
	return s.cleanupErr
}

type fakeEntityPass struct {
	rec     *recorder
	sizes   map[scene.ResourceKey]int
	batches int
	err     error
	culler  Culler
}

func (p *fakeEntityPass) Render(batches *BatchMap) error {
	p.rec.add("entities")
	p.batches = batches.Len()
	p.sizes = make(map[scene.ResourceKey]int)
	for _, b := range batches.Batches() {
		p.sizes[b.Model.Key()] = len(b.Entities)
	}
	return p.err
}

func (p *fakeEntityPass) SetCuller(c Culler) { p.culler = c }

type fakeTerrainPass struct {
	rec   *recorder
	tiles int
	err   error
}

func (p *fakeTerrainPass) Render(terrains []*scene.Terrain) error {
	p.rec.add("terrain")
	p.tiles = len(terrains)
	return p.err
}

type fakeNormalMapPass struct {
	rec        *recorder
	instances  int
	clip       mgl32.Vec4
	projection mgl32.Mat4
	cleanups   int
	cleanupErr error
	err        error
}

func (p *fakeNormalMapPass) Render(batches *BatchMap, clipPlane mgl32.Vec4, lights []*scene.Light, camera scene.Camera) error {
	p.rec.add("normalMap")
	p.instances = batches.Instances()
	p.clip = clipPlane
	return p.err
}

func (p *fakeNormalMapPass) LoadProjectionMatrix(m mgl32.Mat4) { p.projection = m }

func (p *fakeNormalMapPass) CleanUp() error {
	p.cleanups++
	return p.cleanupErr
}

type fakeSkyboxPass struct {
	rec    *recorder
	colour [3]float32
	err    error
}

func (p *fakeSkyboxPass) Render(camera scene.Camera, r, g, b float32) error {
	p.rec.add("skybox")
	p.colour = [3]float32{r, g, b}
	return p.err
}

type fakeWaterPass struct {
	rec        *recorder
	tiles      int
	sun        *scene.Light
	projection mgl32.Mat4
	cleanups   int
	err        error
}

func (p *fakeWaterPass) Render(tiles []*scene.WaterTile, camera scene.Camera, sun *scene.Light) error {
	p.rec.add("water")
	p.tiles = len(tiles)
	p.sun = sun
	return p.err
}

func (p *fakeWaterPass) LoadProjectionMatrix(m mgl32.Mat4) { p.projection = m }

func (p *fakeWaterPass) CleanUp() error {
	p.cleanups++
	return nil
}

type fakeCamera struct{}

func (fakeCamera) Position() mgl32.Vec3   { return mgl32.Vec3{} }
func (fakeCamera) ViewMatrix() mgl32.Mat4 { return mgl32.Ident4() }

type fixture struct {
	rec           *recorder
	gc            *fakeContext
	entityShader  *fakeShader
	terrainShader *fakeShader
	entity        *fakeEntityPass
	terrain       *fakeTerrainPass
	normalMap     *fakeNormalMapPass
	skybox        *fakeSkyboxPass
}

func newFixture() *fixture {
	rec := &recorder{}
	return &fixture{
		rec:           rec,
		gc:            &fakeContext{rec: rec},
		entityShader:  &fakeShader{name: "entityShader", rec: rec},
		terrainShader: &fakeShader{name: "terrainShader", rec: rec},
		entity:        &fakeEntityPass{rec: rec},
		terrain:       &fakeTerrainPass{rec: rec},
		normalMap:     &fakeNormalMapPass{rec: rec},
		skybox:        &fakeSkyboxPass{rec: rec},
	}
}

func (f *fixture) passes() Passes {
	return Passes{
		EntityShader:  f.entityShader,
		Entity:        f.entity,
		TerrainShader: f.terrainShader,
		Terrain:       f.terrain,
		NormalMap:     f.normalMap,
		Skybox:        f.skybox,
	}
}

func (f *fixture) renderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(config.Default(), f.gc, f.passes())
	require.NoError(t, err)
	return r
}

var passOrder = []string{"entities", "normalMap", "terrain", "skybox"}

func TestRenderSceneEndToEnd(t *testing.T) {
	f := newFixture()
	r := f.renderer(t)

	a, b := newModel(), newModel()
	entities := []*scene.Entity{
		scene.NewEntity(a, mgl32.Vec3{0, 0, 0}),
		scene.NewEntity(b, mgl32.Vec3{1, 0, 0}),
		scene.NewEntity(a, mgl32.Vec3{2, 0, 0}),
		scene.NewEntity(a, mgl32.Vec3{3, 0, 0}),
		scene.NewEntity(b, mgl32.Vec3{4, 0, 0}),
	}
	terrains := []*scene.Terrain{{}}
	lights := []*scene.Light{scene.NewLight(mgl32.Vec3{0, 100, 0}, mgl32.Vec3{1, 1, 1})}
	clip := mgl32.Vec4{0, -1, 0, 15}

	err := r.RenderScene(entities, nil, terrains, lights, fakeCamera{}, clip)
	require.NoError(t, err)

	assert.Equal(t, 2, f.entity.batches)
	assert.Equal(t, 3, f.entity.sizes[a.Key()])
	assert.Equal(t, 2, f.entity.sizes[b.Key()])
	assert.Equal(t, 1, f.terrain.tiles)
	assert.Zero(t, f.normalMap.instances)

	assert.Equal(t, passOrder, f.rec.filter(passOrder...))
	assert.True(t, r.Pending().Empty(), "accumulation is drained after the frame")

	stats := r.LastFrame()
	assert.Equal(t, FrameStats{Batches: 2, Entities: 5, Terrains: 1}, stats)

	// shared uniforms reach both shader contexts and the normal-map pass
	sky := config.Default().Sky.Colour
	for _, s := range []*fakeShader{f.entityShader, f.terrainShader} {
		assert.Equal(t, clip, s.clip, s.name)
		assert.Equal(t, sky, s.sky, s.name)
		assert.Equal(t, 1, s.lights, s.name)
	}
	assert.Equal(t, clip, f.normalMap.clip)
	assert.Equal(t, sky, f.skybox.colour)
	assert.Equal(t, [4]float32{sky[0], sky[1], sky[2], 1}, f.gc.clearColour)
}

func TestRenderCallSequence(t *testing.T) {
	f := newFixture()
	r := f.renderer(t)

	for i := 0; i < 3; i++ {
		f.rec.calls = nil
		r.ProcessEntity(scene.NewEntity(newModel(), mgl32.Vec3{}))
		r.ProcessNormalMapEntity(scene.NewEntity(newModel(), mgl32.Vec3{}))
		r.ProcessTerrain(&scene.Terrain{})
		require.NoError(t, r.Render(nil, fakeCamera{}, mgl32.Vec4{}))

		assert.Equal(t, []string{
			"depth", "clear", "clearColor",
			"entityShader.start", "entityShader.view", "entities", "entityShader.stop",
			"normalMap",
			"terrainShader.start", "terrainShader.view", "terrain", "terrainShader.stop",
			"skybox",
		}, f.rec.calls, "frame %d", i)
	}
}

func TestSubmissionsDrawExactlyOnce(t *testing.T) {
	f := newFixture()
	r := f.renderer(t)

	model := newModel()
	r.ProcessEntity(scene.NewEntity(model, mgl32.Vec3{}))
	r.ProcessNormalMapEntity(scene.NewEntity(model, mgl32.Vec3{}))
	require.NoError(t, r.Render(nil, fakeCamera{}, mgl32.Vec4{}))
	assert.Equal(t, 1, f.entity.sizes[model.Key()])
	assert.Equal(t, 1, f.normalMap.instances)

	require.NoError(t, r.Render(nil, fakeCamera{}, mgl32.Vec4{}))
	assert.Zero(t, f.entity.batches, "previous frame's entities are gone")
	assert.Zero(t, f.normalMap.instances)
}

func TestNullSubmissionsChangeNothing(t *testing.T) {
	f := newFixture()
	r := f.renderer(t)

	r.ProcessEntity(nil)
	r.ProcessEntity(&scene.Entity{})
	r.ProcessNormalMapEntity(nil)
	r.ProcessNormalMapEntity(scene.NewEntity(nil, mgl32.Vec3{}))
	assert.True(t, r.Pending().Empty())

	require.NoError(t, r.RenderScene([]*scene.Entity{nil}, []*scene.Entity{{}}, nil, nil, fakeCamera{}, mgl32.Vec4{}))
	assert.Zero(t, f.entity.batches)
	assert.Zero(t, f.normalMap.instances)
}

func TestRenderPassFailurePropagatesAndDrains(t *testing.T) {
	f := newFixture()
	f.terrain.err = errors.New("bad tile")
	r := f.renderer(t)

	r.ProcessEntity(scene.NewEntity(newModel(), mgl32.Vec3{}))
	r.ProcessNormalMapEntity(scene.NewEntity(newModel(), mgl32.Vec3{}))
	r.ProcessTerrain(&scene.Terrain{})

	err := r.Render(nil, fakeCamera{}, mgl32.Vec4{})
	require.ErrorIs(t, err, f.terrain.err)
	assert.Contains(t, err.Error(), "terrain pass")

	assert.Equal(t, []string{"entities", "normalMap", "terrain"}, f.rec.filter(passOrder...), "skybox is skipped")
	assert.Contains(t, f.rec.calls, "terrainShader.stop", "shader context is left stopped")
	assert.True(t, r.Pending().Empty())
}

func TestPrepareErrorIsLoggedNotReturned(t *testing.T) {
	f := newFixture()
	r := f.renderer(t)
	core, logs := observer.New(zapcore.WarnLevel)
	r.SetLogger(zap.New(core))

	f.gc.pendingErr = errors.New("gl error 0x0500")
	require.NoError(t, r.Render(nil, fakeCamera{}, mgl32.Vec4{}))

	assert.Equal(t, 1, logs.FilterMessage("prepare frame").Len())
	assert.Equal(t, passOrder, f.rec.filter(passOrder...))
}

func TestNewRendererRejectsInvalidProjection(t *testing.T) {
	f := newFixture()
	s := config.Default()
	s.Window.Width = 0

	_, err := NewRenderer(s, f.gc, f.passes())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	s = config.Default()
	s.Projection.FarPlane = s.Projection.NearPlane
	_, err = NewRenderer(s, f.gc, f.passes())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNewRendererRequiresEveryPass(t *testing.T) {
	f := newFixture()
	p := f.passes()
	p.Skybox = nil
	_, err := NewRenderer(config.Default(), f.gc, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skybox")

	_, err = NewRenderer(config.Default(), nil, f.passes())
	assert.Error(t, err)
}

func TestProjectionIsPushedToPasses(t *testing.T) {
	f := newFixture()
	r := f.renderer(t)

	p := r.ProjectionMatrix()
	assert.Equal(t, float32(-1), p.At(3, 2))
	assert.Equal(t, p, f.entityShader.projection)
	assert.Equal(t, p, f.terrainShader.projection)
	assert.Equal(t, p, f.normalMap.projection)

	require.NoError(t, r.UpdateViewport(640, 640))
	assert.NotEqual(t, p, r.ProjectionMatrix())
	assert.Equal(t, r.ProjectionMatrix(), f.entityShader.projection)

	before := r.ProjectionMatrix()
	assert.ErrorIs(t, r.UpdateViewport(0, 480), ErrInvalidConfiguration)
	assert.Equal(t, before, r.ProjectionMatrix())
}

func TestCullingToggles(t *testing.T) {
	f := newFixture()
	r := f.renderer(t)
	assert.True(t, f.gc.cullingOn, "culling starts enabled")

	r.DisableCulling()
	assert.False(t, f.gc.cullingOn)
	r.EnableCulling()
	assert.True(t, f.gc.cullingOn)
}

func TestCullingUnavailableWarns(t *testing.T) {
	f := newFixture()
	f.gc.noCulling = true
	r := f.renderer(t)
	core, logs := observer.New(zapcore.WarnLevel)
	r.SetLogger(zap.New(core))

	r.EnableCulling()
	r.DisableCulling()
	assert.False(t, f.gc.cullingOn)
	assert.Equal(t, 2, logs.Len())

	// rendering carries on
	require.NoError(t, r.Render(nil, fakeCamera{}, mgl32.Vec4{}))
}

func TestCleanUpAttemptsEveryRelease(t *testing.T) {
	f := newFixture()
	f.entityShader.cleanupErr = errors.New("program busy")
	f.normalMap.cleanupErr = errors.New("normal map busy")
	r := f.renderer(t)
	core, logs := observer.New(zapcore.WarnLevel)
	r.SetLogger(zap.New(core))

	r.CleanUp()

	assert.Equal(t, 1, f.entityShader.cleanups)
	assert.Equal(t, 1, f.terrainShader.cleanups)
	assert.Equal(t, 1, f.normalMap.cleanups)

	entries := logs.FilterMessage("cleanup failed").All()
	require.Len(t, entries, 1, "failures are reported together")
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 2, fields["failures"])
	assert.Contains(t, fields["error"], "entity shader: program busy")
	assert.Contains(t, fields["error"], "normal map pass: normal map busy")
}

type panickyShader struct{ fakeShader }

func (s *panickyShader) CleanUp() error {
	s.cleanups++
	panic("driver lost")
}

func TestCleanUpSurvivesPanickingRelease(t *testing.T) {
	f := newFixture()
	p := f.passes()
	bad := &panickyShader{fakeShader{name: "entityShader", rec: f.rec}}
	p.EntityShader = bad
	r, err := NewRenderer(config.Default(), f.gc, p)
	require.NoError(t, err)

	assert.NotPanics(t, r.CleanUp)
	assert.Equal(t, 1, bad.cleanups)
	assert.Equal(t, 1, f.terrainShader.cleanups)
	assert.Equal(t, 1, f.normalMap.cleanups)
}

func TestEntityPassCullsThroughRenderer(t *testing.T) {
	f := newFixture()
	f.gc.noCulling = true
	r := f.renderer(t)
	core, logs := observer.New(zapcore.WarnLevel)
	r.SetLogger(zap.New(core))

	require.NotNil(t, f.entity.culler)
	assert.Same(t, r, f.entity.culler)

	// a transparent batch toggling culling gets the capability check
	f.entity.culler.DisableCulling()
	f.entity.culler.EnableCulling()
	assert.False(t, f.gc.cullingOn)
	assert.Equal(t, 2, logs.Len())
}

func TestRenderWater(t *testing.T) {
	f := newFixture()
	water := &fakeWaterPass{rec: f.rec}
	p := f.passes()
	p.Water = water
	r, err := NewRenderer(config.Default(), f.gc, p)
	require.NoError(t, err)

	assert.Equal(t, r.ProjectionMatrix(), water.projection)
	require.NoError(t, r.UpdateViewport(640, 480))
	assert.Equal(t, r.ProjectionMatrix(), water.projection)

	sun := scene.NewLight(mgl32.Vec3{0, 100, 0}, mgl32.Vec3{1, 1, 1})
	tiles := []*scene.WaterTile{scene.NewWaterTile(0, 0, 0), scene.NewWaterTile(120, 0, 0)}
	require.NoError(t, r.RenderWater(tiles, []*scene.Light{nil, sun}, fakeCamera{}))
	assert.Equal(t, 2, water.tiles)
	assert.Same(t, sun, water.sun)

	f.rec.calls = nil
	require.NoError(t, r.RenderWater(nil, []*scene.Light{sun}, fakeCamera{}))
	assert.Empty(t, f.rec.filter("water"), "nothing to draw")

	water.err = assert.AnError
	err = r.RenderWater(tiles, nil, fakeCamera{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "water pass")

	r.CleanUp()
	assert.Equal(t, 1, water.cleanups)
}

func TestRenderWaterWithoutPass(t *testing.T) {
	f := newFixture()
	r := f.renderer(t)
	err := r.RenderWater([]*scene.WaterTile{scene.NewWaterTile(0, 0, 0)}, nil, fakeCamera{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "water pass")
}
