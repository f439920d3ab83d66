// Package registry implements the thread-safe set of registered algorithm
// backends described by spec.md §4.1: a single coarse mutex guards a table
// of records, and callers receive reference-counted handles that remain
// valid once the lock is released.
//
// The shape follows the teacher's internal CGO object table
// (a sync.Mutex guarding a map[handle]any of put/get/del) generalized from
// "opaque C object" handles to algorithm backend records.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ydario/pkdispatch/pkg/pkdispatch/algo"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/backend"
	"github.com/ydario/pkdispatch/pkg/pkdispatch/pkerr"
)

// Backend is the full operation vtable a registered record dispatches
// through; it is package backend's contract rather than a registry-local
// interface, since backend has no dependency back on registry (the
// dispatching algo.ID is always passed explicitly by the caller, not
// looked up via the handle).
type Backend = backend.Backend

// Handle is an opaque, reference-counted reference to a registered record.
// A Handle returned by Register/LookupByID/LookupByName must be released
// exactly once via Release.
type Handle uintptr

// record is the registry's internal bookkeeping for one registered backend.
type record struct {
	id       algo.ID
	name     string
	backend  Backend
	usage    algo.Usage
	disabled bool
	refcount int
}

// Registry is an explicit value rather than process-wide global state
// (spec.md §9: "process-wide mutable registry → explicit registry value"),
// so independent test suites can each construct their own.
type Registry struct {
	mu      sync.Mutex
	next    Handle
	records map[Handle]*record
	nextID  algo.ID // next id to hand out in the user range
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		next:    1,
		records: make(map[Handle]*record),
		nextID:  algo.UserRangeLo,
	}
}

// Register adds backend to the registry. If id is algo.Unknown, an id is
// assigned from the reserved user range [algo.UserRangeLo, UserRangeHi);
// ErrInternal("user algorithm id range exhausted") is returned if that
// range has been fully allocated. The returned Handle's reference count
// starts at one; the caller owns it and must Release it when done.
func (r *Registry) Register(id algo.ID, name string, usage algo.Usage, backend Backend) (algo.ID, Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == algo.Unknown {
		if r.nextID >= algo.UserRangeHi {
			return 0, 0, fmt.Errorf("%w: user algorithm id range exhausted", pkerr.ErrInternal)
		}
		id = r.nextID
		r.nextID++
	}

	h := r.next
	r.next++
	r.records[h] = &record{
		id:       id,
		name:     strings.ToLower(name),
		backend:  backend,
		usage:    usage,
		refcount: 1,
	}
	return id, h, nil
}

// Unregister releases one reference on h; when the count reaches zero the
// record is dropped from the table. Unregister is idempotent against a
// stale handle: releasing an already-fully-released handle is a no-op.
func (r *Registry) Unregister(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[h]
	if !ok {
		return
	}
	rec.refcount--
	if rec.refcount <= 0 {
		delete(r.records, h)
	}
}

// Release is an alias for Unregister kept for readability at call sites
// that looked the handle up rather than registered it.
func (r *Registry) Release(h Handle) { r.Unregister(h) }

// LookupByID returns a handle to the backend registered under id, with its
// reference count incremented under the lock. ok is false if no backend is
// registered for id, or if it has been disabled (spec.md scenario S6:
// "after disable_algo(id), all operations against that algorithm fail
// INV_PK_ALGO until re-enabled"). Use LookupByIDAny to see disabled
// records, e.g. for control-surface usage queries.
func (r *Registry) LookupByID(id algo.ID) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, rec := range r.records {
		if rec.id == id && !rec.disabled {
			rec.refcount++
			return h, true
		}
	}
	return 0, false
}

// LookupByIDAny is LookupByID without the disabled-record filter.
func (r *Registry) LookupByIDAny(id algo.ID) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, rec := range r.records {
		if rec.id == id {
			rec.refcount++
			return h, true
		}
	}
	return 0, false
}

// LookupByName is a case-insensitive lookup by canonical backend name. Like
// LookupByID, disabled records are treated as not found.
func (r *Registry) LookupByName(name string) (Handle, bool) {
	lower := strings.ToLower(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, rec := range r.records {
		if rec.name == lower && !rec.disabled {
			rec.refcount++
			return h, true
		}
	}
	return 0, false
}

// Backend returns the backend a (still-held) handle refers to.
func (r *Registry) Backend(h Handle) (Backend, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[h]
	if !ok {
		return nil, false
	}
	return rec.backend, true
}

// AlgoID returns the algorithm id a (still-held) handle refers to.
func (r *Registry) AlgoID(h Handle) (algo.ID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[h]
	if !ok {
		return 0, false
	}
	return rec.id, true
}

// SetDisabled idempotently marks id's backend(s) as disabled. Every record
// currently registered for id is affected; future Register calls for the
// same id are unaffected (re-registering is how spec.md's scenario S6
// "re-enables" an algorithm).
func (r *Registry) SetDisabled(id algo.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.id == id {
			rec.disabled = true
		}
	}
}

// IsDisabled reports whether the handle's record has been disabled.
func (r *Registry) IsDisabled(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[h]
	if !ok {
		return true
	}
	return rec.disabled
}

// Usage returns the usage bitfield for id, or 0 if nothing is registered
// under it.
func (r *Registry) Usage(id algo.ID) algo.Usage {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.id == id {
			return rec.usage
		}
	}
	return 0
}

// TestAlgo returns true iff id is registered, not disabled, and supports
// every bit set in usage (usage == 0 means "don't care").
func (r *Registry) TestAlgo(id algo.ID, usage algo.Usage) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.id == id {
			if rec.disabled {
				return false
			}
			if usage != 0 && rec.usage&usage != usage {
				return false
			}
			return true
		}
	}
	return false
}

// Len reports the number of records currently tracked; exported for tests
// exercising the reference-counting invariant (spec.md §8 property 9).
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
