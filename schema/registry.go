package schema

import (
	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-hdf5-schema/internal/alloc"
	"github.com/robert-malhotra/go-hdf5-schema/native"
)

// DefaultBlockSize is the default number of slots the registry grows by.
const DefaultBlockSize = 16

// Registry records every object materialized in a session, in the order they
// were registered, and guarantees that no physical object is materialized
// twice.
type Registry struct {
	objects   []Object
	keys      map[native.IdentityKey]Object
	blockSize int
	alloc     *alloc.Allocator
}

func newRegistry(blockSize int, a *alloc.Allocator) *Registry {
	return &Registry{
		keys:      make(map[native.IdentityKey]Object),
		blockSize: blockSize,
		alloc:     a,
	}
}

// Contains reports whether an object with the given key is registered.
func (r *Registry) Contains(key native.IdentityKey) bool {
	_, ok := r.keys[key]
	return ok
}

// Get returns the object registered under key, or nil.
func (r *Registry) Get(key native.IdentityKey) Object {
	return r.keys[key]
}

// Add registers obj. Capacity grows by whole blocks.
func (r *Registry) Add(obj Object) error {
	if r.Contains(obj.Key()) {
		return errors.Errorf("object %s is already registered as %s", obj.Key(), r.keys[obj.Key()].Path())
	}
	if len(r.objects) == cap(r.objects) {
		if err := r.alloc.Alloc(uint64(r.blockSize)*objectSlotSize, alloc.Site(0)); err != nil {
			return err
		}
		grown := make([]Object, len(r.objects), cap(r.objects)+r.blockSize)
		copy(grown, r.objects)
		r.objects = grown
	}
	r.objects = append(r.objects, obj)
	r.keys[obj.Key()] = obj
	return nil
}

// Len returns the number of registered objects.
func (r *Registry) Len() int { return len(r.objects) }

// Cap returns the number of slots allocated.
func (r *Registry) Cap() int { return cap(r.objects) }

// At returns the i-th registered object.
func (r *Registry) At(i int) Object { return r.objects[i] }

// Objects returns the registered objects in registration order.
func (r *Registry) Objects() []Object {
	objects := make([]Object, len(r.objects))
	copy(objects, r.objects)
	return objects
}

// Truncate forgets every object registered after the first n.
func (r *Registry) Truncate(n int) {
	if n < 0 || n >= len(r.objects) {
		return
	}
	for i := n; i < len(r.objects); i++ {
		delete(r.keys, r.objects[i].Key())
		r.objects[i] = nil
	}
	r.objects = r.objects[:n]
}

// Reset forgets every object and releases the slots.
func (r *Registry) Reset() {
	r.objects = nil
	r.keys = make(map[native.IdentityKey]Object)
}
