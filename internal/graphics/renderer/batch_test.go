package renderer

import (
	"math/rand"
	"testing"

	"scenery/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel() *scene.TexturedModel {
	return scene.NewTexturedModel(&scene.RawModel{VAO: 1, VertexCount: 36}, scene.NewModelTexture(1))
}

func TestBatchMapGroupsByKey(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	models := []*scene.TexturedModel{newModel(), newModel(), newModel(), newModel()}
	used := make(map[scene.ResourceKey]int)

	m := NewBatchMap()
	for i := 0; i < 500; i++ {
		model := models[rng.Intn(len(models))]
		require.True(t, m.Add(scene.NewEntity(model, mgl32.Vec3{float32(i), 0, 0})))
		used[model.Key()]++
	}

	assert.Equal(t, len(used), m.Len())
	assert.Equal(t, 500, m.Instances())
	for _, b := range m.Batches() {
		assert.Equal(t, used[b.Model.Key()], len(b.Entities))
		for _, e := range b.Entities {
			assert.Equal(t, b.Model.Key(), e.Key())
		}
	}
}

func TestBatchMapKeepsSubmissionOrder(t *testing.T) {
	a, b := newModel(), newModel()
	m := NewBatchMap()
	e1 := scene.NewEntity(b, mgl32.Vec3{1, 0, 0})
	e2 := scene.NewEntity(a, mgl32.Vec3{2, 0, 0})
	e3 := scene.NewEntity(b, mgl32.Vec3{3, 0, 0})
	m.Add(e1)
	m.Add(e2)
	m.Add(e3)

	batches := m.Batches()
	require.Len(t, batches, 2)
	assert.Same(t, b, batches[0].Model, "first submitted model draws first")
	assert.Equal(t, []*scene.Entity{e1, e3}, batches[0].Entities)
	assert.Equal(t, []*scene.Entity{e2}, m.Get(a.Key()).Entities)
}

func TestBatchMapIgnoresMissingModels(t *testing.T) {
	m := NewBatchMap()
	assert.False(t, m.Add(nil))
	assert.False(t, m.Add(&scene.Entity{}))
	assert.False(t, m.Add(scene.NewEntity(nil, mgl32.Vec3{})))
	assert.Zero(t, m.Len())
	assert.Zero(t, m.Instances())
}

func TestBatchMapEachStopsOnError(t *testing.T) {
	m := NewBatchMap()
	m.Add(scene.NewEntity(newModel(), mgl32.Vec3{}))
	m.Add(scene.NewEntity(newModel(), mgl32.Vec3{}))

	visited := 0
	err := m.Each(func(*Batch) error {
		visited++
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, visited)
}

func TestRegistryNullSubmissionsAreNoOps(t *testing.T) {
	r := NewRegistry()
	r.Submit(nil, Standard)
	r.Submit(nil, NormalMapped)
	r.Submit(&scene.Entity{Position: mgl32.Vec3{1, 2, 3}}, Standard)
	r.Submit(&scene.Entity{}, NormalMapped)
	r.SubmitTerrain(nil)

	assert.True(t, r.Pending().Empty())
}

func TestRegistrySeparatesGroups(t *testing.T) {
	r := NewRegistry()
	model := newModel()
	r.Submit(scene.NewEntity(model, mgl32.Vec3{}), Standard)
	r.Submit(scene.NewEntity(model, mgl32.Vec3{}), NormalMapped)
	r.Submit(scene.NewEntity(model, mgl32.Vec3{}), NormalMapped)
	assert.False(t, r.Submit(scene.NewEntity(model, mgl32.Vec3{}), Group(9)))

	p := r.Pending()
	assert.Equal(t, 1, p.Standard.Instances())
	assert.Equal(t, 2, p.NormalMapped.Instances())
}

func TestRegistryDrainResets(t *testing.T) {
	r := NewRegistry()
	model := newModel()
	r.Submit(scene.NewEntity(model, mgl32.Vec3{}), Standard)
	r.Submit(scene.NewEntity(model, mgl32.Vec3{}), NormalMapped)
	r.SubmitTerrain(&scene.Terrain{})
	r.SubmitTerrain(&scene.Terrain{})

	f := r.Drain()
	assert.Equal(t, 1, f.Standard.Len())
	assert.Equal(t, 1, f.NormalMapped.Len())
	assert.Len(t, f.Terrains, 2)

	assert.True(t, r.Pending().Empty())
	assert.Zero(t, r.Pending().Standard.Len())
	assert.Zero(t, r.Pending().NormalMapped.Len())
	assert.Empty(t, r.Pending().Terrains)

	// the drained frame is not touched by later submissions
	r.Submit(scene.NewEntity(model, mgl32.Vec3{}), Standard)
	assert.Equal(t, 1, f.Standard.Instances())
}

func TestGroupString(t *testing.T) {
	assert.Equal(t, "standard", Standard.String())
	assert.Equal(t, "normal-mapped", NormalMapped.String())
	assert.Equal(t, "unknown", Group(7).String())
}
