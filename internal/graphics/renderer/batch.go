package renderer

import "scenery/internal/scene"

// Batch is every instance of one textured model submitted this frame
type Batch struct {
	Model    *scene.TexturedModel
	Entities []*scene.Entity
}

// BatchMap groups entities by resource key. Keys iterate in first-submission order and
// entities in submission order, so draw order is reproducible frame to frame.
type BatchMap struct {
	order   []scene.ResourceKey
	batches map[scene.ResourceKey]*Batch
}

// NewBatchMap returns an empty map
func NewBatchMap() *BatchMap {
	return &BatchMap{batches: make(map[scene.ResourceKey]*Batch)}
}

// Add appends the entity to the batch of its model. Nil entities and entities
// without a resource key are ignored. It reports whether the entity was added.
func (m *BatchMap) Add(e *scene.Entity) bool {
	key := e.Key()
	if key == scene.NoKey {
		return false
	}
	b, ok := m.batches[key]
	if !ok {
		b = &Batch{Model: e.Model}
		m.batches[key] = b
		m.order = append(m.order, key)
	}
	b.Entities = append(b.Entities, e)
	return true
}

// Len returns the number of distinct batches
func (m *BatchMap) Len() int {
	return len(m.order)
}

// Instances returns the number of entities across all batches
func (m *BatchMap) Instances() int {
	n := 0
	for _, b := range m.batches {
		n += len(b.Entities)
	}
	return n
}

// Get returns the batch for key, nil if nothing with that key was submitted
func (m *BatchMap) Get(key scene.ResourceKey) *Batch {
	return m.batches[key]
}

// Batches returns the batches in first-submission order
func (m *BatchMap) Batches() []*Batch {
	out := make([]*Batch, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.batches[k])
	}
	return out
}

// Each calls fn for every batch in first-submission order, stopping at the first error
func (m *BatchMap) Each(fn func(*Batch) error) error {
	for _, k := range m.order {
		if err := fn(m.batches[k]); err != nil {
			return err
		}
	}
	return nil
}

// Group selects which batch map a submission lands in
type Group int

const (
	Standard Group = iota
	NormalMapped
)

func (g Group) String() string {
	switch g {
	case Standard:
		return "standard"
	case NormalMapped:
		return "normal-mapped"
	default:
		return "unknown"
	}
}

// Frame is the accumulated work of one frame
type Frame struct {
	Standard     *BatchMap
	NormalMapped *BatchMap
	Terrains     []*scene.Terrain
}

// Empty reports whether nothing was submitted
func (f Frame) Empty() bool {
	return f.Standard.Len() == 0 && f.NormalMapped.Len() == 0 && len(f.Terrains) == 0
}

// Registry accumulates submissions between render calls. It is owned by a single
// frame thread and is not safe for concurrent use.
type Registry struct {
	standard     *BatchMap
	normalMapped *BatchMap
	terrains     []*scene.Terrain
}

func NewRegistry() *Registry {
	return &Registry{
		standard:     NewBatchMap(),
		normalMapped: NewBatchMap(),
	}
}

// Submit files the entity under its model in the chosen group
func (r *Registry) Submit(e *scene.Entity, g Group) bool {
	switch g {
	case Standard:
		return r.standard.Add(e)
	case NormalMapped:
		return r.normalMapped.Add(e)
	}
	return false
}

// SubmitTerrain queues a terrain tile. Tiles are not grouped.
func (r *Registry) SubmitTerrain(t *scene.Terrain) {
	if t == nil {
		return
	}
	r.terrains = append(r.terrains, t)
}

// Pending returns the current accumulation without resetting it
func (r *Registry) Pending() Frame {
	return Frame{
		Standard:     r.standard,
		NormalMapped: r.normalMapped,
		Terrains:     r.terrains,
	}
}

// Drain returns the accumulation and starts the next frame with empty containers
func (r *Registry) Drain() Frame {
	f := r.Pending()
	r.standard = NewBatchMap()
	r.normalMapped = NewBatchMap()
	r.terrains = nil
	return f
}
