// Package scene provides an in-memory scene graph for the shadow-bake
// pipeline: objects with transforms, mesh data, lights, materials, images,
// collections and a selection set. It is the explicit handle every pipeline
// stage receives instead of mutating ambient host state.
package scene

import (
	"github.com/flywave/go3d/float64/vec3"
)

// Mode is the scene interaction mode. Mesh-level edits are only valid in
// object mode, so operations that rebase origins or apply transforms switch
// back to it first.
type Mode string

const (
	ModeObject Mode = "OBJECT"
	ModeEdit   Mode = "EDIT"
)

// Engine identifies the render backend used for baking.
type Engine string

const (
	// EnginePathTraced is the path-traced backend required for shadow bakes.
	EnginePathTraced Engine = "PATH_TRACED"
)

// BakePass identifies what a bake records.
type BakePass string

const (
	BakeShadow BakePass = "SHADOW"
)

// RenderSettings configures the bake backend.
type RenderSettings struct {
	Engine           Engine
	Pass             BakePass
	Samples          int
	SelectedToActive bool // bake transferred between objects instead of direct
}

// Scene owns a set of objects plus the transient state the pipeline needs:
// 3D cursor, interaction mode, selection, active object and render settings.
type Scene struct {
	Cursor vec3.T
	Mode   Mode
	Render RenderSettings

	objects     []*Object
	byName      map[string]*Object
	collections map[string]*Collection
	active      *Object
}

// New returns an empty scene in object mode.
func New() *Scene {
	return &Scene{
		Mode:        ModeObject,
		byName:      make(map[string]*Object),
		collections: make(map[string]*Collection),
	}
}

// Add links an object into the scene. Adding an object whose name is already
// taken replaces the previous owner, so generated objects with default names
// (shadow planes, rig lights) never accumulate across repeated runs.
func (sc *Scene) Add(obj *Object) *Object {
	if prev, ok := sc.byName[obj.Name]; ok {
		sc.Remove(prev)
	}
	sc.objects = append(sc.objects, obj)
	sc.byName[obj.Name] = obj
	return obj
}

// Remove unlinks an object from the scene, every collection and the selection.
func (sc *Scene) Remove(obj *Object) {
	if obj == nil {
		return
	}
	for i, o := range sc.objects {
		if o == obj {
			sc.objects = append(sc.objects[:i], sc.objects[i+1:]...)
			break
		}
	}
	if sc.byName[obj.Name] == obj {
		delete(sc.byName, obj.Name)
	}
	for _, col := range sc.collections {
		col.Unlink(obj)
	}
	if sc.active == obj {
		sc.active = nil
	}
}

// Get returns the object with the given name, or nil.
func (sc *Scene) Get(name string) *Object {
	return sc.byName[name]
}

// Objects returns all objects in creation order.
func (sc *Scene) Objects() []*Object {
	return sc.objects
}

// MeshObjects returns all mesh objects in creation order.
func (sc *Scene) MeshObjects() []*Object {
	var out []*Object
	for _, o := range sc.objects {
		if o.Kind == KindMesh {
			out = append(out, o)
		}
	}
	return out
}

// DeselectAll clears the selection.
func (sc *Scene) DeselectAll() {
	for _, o := range sc.objects {
		o.Selected = false
	}
}

// Selected returns the selected objects in creation order.
func (sc *Scene) Selected() []*Object {
	var out []*Object
	for _, o := range sc.objects {
		if o.Selected {
			out = append(out, o)
		}
	}
	return out
}

// SetActive marks obj as the active object.
func (sc *Scene) SetActive(obj *Object) {
	sc.active = obj
}

// Active returns the active object, or nil.
func (sc *Scene) Active() *Object {
	return sc.active
}

// Collection groups objects for batch operations.
type Collection struct {
	Name    string
	objects []*Object
}

// EnsureCollection returns the named collection, creating it if needed.
func (sc *Scene) EnsureCollection(name string) *Collection {
	if col, ok := sc.collections[name]; ok {
		return col
	}
	col := &Collection{Name: name}
	sc.collections[name] = col
	return col
}

// Collection returns the named collection, or nil.
func (sc *Scene) Collection(name string) *Collection {
	return sc.collections[name]
}

// Link adds an object to the collection if not already present.
func (c *Collection) Link(obj *Object) {
	for _, o := range c.objects {
		if o == obj {
			return
		}
	}
	c.objects = append(c.objects, obj)
}

// Unlink removes an object from the collection.
func (c *Collection) Unlink(obj *Object) {
	for i, o := range c.objects {
		if o == obj {
			c.objects = append(c.objects[:i], c.objects[i+1:]...)
			return
		}
	}
}

// Objects returns the collection members in link order.
func (c *Collection) Objects() []*Object {
	return c.objects
}
