package fat

import (
	"errors"
	"sync"
)

// ErrNoFreeVolume is returned when every volume slot of a Registry is
// bound to a filesystem.
var ErrNoFreeVolume = errors.New("no free volume slot")

// Registry is a fixed-capacity table binding volume slots to
// filesystems. A slot number is the logical drive number the filesystem
// uses with the underlying library. All methods are safe for concurrent
// use.
type Registry struct {
	mu    sync.Mutex
	slots []*FileSystem
}

func NewRegistry(capacity int) *Registry {
	return &Registry{slots: make([]*FileSystem, capacity)}
}

func (r *Registry) Capacity() int {
	return len(r.slots)
}

// Acquire binds fsys to the first free slot and returns its number.
func (r *Registry) Acquire(fsys *FileSystem) (int, error) {
	if fsys == nil {
		return -1, Fatalf("cannot bind a nil filesystem")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.slots {
		if cur == nil {
			r.slots[i] = fsys
			return i, nil
		}
	}
	return -1, ErrNoFreeVolume
}

// Bind binds fsys to a specific free slot.
func (r *Registry) Bind(slot int, fsys *FileSystem) error {
	if fsys == nil {
		return Fatalf("cannot bind a nil filesystem")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot < 0 || slot >= len(r.slots) {
		return Fatalf("volume slot %d out of range [0, %d)", slot, len(r.slots))
	}
	if cur := r.slots[slot]; cur != nil && cur != fsys {
		return Fatalf("volume slot %d bound to %q", slot, cur.Name())
	}
	r.slots[slot] = fsys
	return nil
}

// Release clears every slot bound to fsys, calling fn with each slot
// number before it is cleared, and returns the released slots. The
// registry lock is held while fn runs, so a slot cannot be reacquired
// before fn has finished with it.
func (r *Registry) Release(fsys *FileSystem, fn func(slot int)) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var released []int
	for i, cur := range r.slots {
		if cur != nil && cur == fsys {
			if fn != nil {
				fn(i)
			}
			r.slots[i] = nil
			released = append(released, i)
		}
	}
	return released
}

// Lookup returns the filesystem bound to slot, or nil.
func (r *Registry) Lookup(slot int) *FileSystem {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot < 0 || slot >= len(r.slots) {
		return nil
	}
	return r.slots[slot]
}

// Slots returns the slots bound to fsys.
func (r *Registry) Slots(fsys *FileSystem) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var slots []int
	for i, cur := range r.slots {
		if cur != nil && cur == fsys {
			slots = append(slots, i)
		}
	}
	return slots
}
