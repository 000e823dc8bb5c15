package registry

import (
	"math"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/native"
)

// Registry maps wand identities to native handles.
//
// It is a non-owning index: destroying an entry removes it from the table and
// then calls the owner's ReleaseFunc. Releases always run outside the table
// lock so a release may block on the owning wand without stalling the table.
//
// Events are delivered one at a time. For any one identity EventRegistered
// always precedes EventDestroyed; events of different identities may arrive
// in any order relative to each other.
type Registry struct {
	entries   map[Identity]entry
	observers []subscription
	next      Identity
	nextSub   uint64
	mu        sync.Mutex
	obsMu     sync.RWMutex
	// evMu serializes delivery; it is taken before mu, never after
	evMu sync.Mutex
}

type subscription struct {
	o     Observer
	token uint64
}

type entry struct {
	release ReleaseFunc
	handle  native.Handle
	wand    native.WandType
}

// New creates an empty registry. The first identity issued is 1.
func New() *Registry {
	return &Registry{
		entries: make(map[Identity]entry, 64),
		next:    1,
	}
}

// Register records a live handle and returns its identity.
// It fails only when the identity counter is exhausted.
func (r *Registry) Register(wand native.WandType, handle native.Handle, release ReleaseFunc) (Identity, error) {
	if !wand.Valid() {
		return 0, errors.InvalidEnum(errors.PhaseCreate, wand, "WandType")
	}

	r.evMu.Lock()
	defer r.evMu.Unlock()

	r.mu.Lock()
	if r.next == 0 {
		r.mu.Unlock()
		return 0, errors.Exhausted("wand identities")
	}
	id := r.next
	if id == math.MaxUint64 {
		// last identity; the counter stays at 0 from here on
		r.next = 0
	} else {
		r.next++
	}
	r.entries[id] = entry{release: release, handle: handle, wand: wand}
	r.mu.Unlock()

	r.notify(Event{
		Type:   EventRegistered,
		ID:     id,
		Handle: handle,
		Wand:   wand,
	})
	return id, nil
}

// Lookup returns the handle and wand type registered for id.
func (r *Registry) Lookup(id Identity) (native.Handle, native.WandType, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return 0, 0, false
	}
	return e.handle, e.wand, true
}

// Contains reports whether id is live.
func (r *Registry) Contains(id Identity) bool {
	_, _, ok := r.Lookup(id)
	return ok
}

// DestroyByID destroys one wand. An unknown id is a no-op.
func (r *Registry) DestroyByID(id Identity) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return r.release(id, e)
}

// DestroyByIDs destroys every listed wand. Unknown ids are skipped and a
// failing release does not stop the batch; release errors are combined.
func (r *Registry) DestroyByIDs(ids []Identity) error {
	return r.releaseAll(r.takeIDs(ids, func(entry) bool { return true }))
}

// DestroyTypedIDs is DestroyByIDs restricted to wands of one type.
// Listed ids of another type are left alone.
func (r *Registry) DestroyTypedIDs(wand native.WandType, ids []Identity) error {
	return r.releaseAll(r.takeIDs(ids, func(e entry) bool { return e.wand == wand }))
}

// DestroyByType destroys every wand of the given type.
func (r *Registry) DestroyByType(wand native.WandType) error {
	return r.releaseAll(r.takeMatching(func(e entry) bool { return e.wand == wand }))
}

// DestroyAll destroys every registered wand.
func (r *Registry) DestroyAll() error {
	return r.releaseAll(r.takeMatching(func(entry) bool { return true }))
}

type victim struct {
	e  entry
	id Identity
}

func (r *Registry) takeIDs(ids []Identity, match func(entry) bool) []victim {
	r.mu.Lock()
	defer r.mu.Unlock()

	var victims []victim
	for _, id := range ids {
		e, ok := r.entries[id]
		if !ok || !match(e) {
			continue
		}
		delete(r.entries, id)
		victims = append(victims, victim{id: id, e: e})
	}
	return victims
}

func (r *Registry) takeMatching(match func(entry) bool) []victim {
	r.mu.Lock()
	defer r.mu.Unlock()

	var victims []victim
	for id, e := range r.entries {
		if match(e) {
			victims = append(victims, victim{id: id, e: e})
		}
	}
	for _, v := range victims {
		delete(r.entries, v.id)
	}
	return victims
}

// releaseAll releases taken entries in identity order and combines their errors.
func (r *Registry) releaseAll(victims []victim) error {
	sort.Slice(victims, func(i, j int) bool { return victims[i].id < victims[j].id })

	var err error
	for _, v := range victims {
		err = multierr.Append(err, r.release(v.id, v.e))
	}
	return err
}

func (r *Registry) release(id Identity, e entry) error {
	var err error
	if e.release != nil {
		err = e.release()
	}
	r.evMu.Lock()
	defer r.evMu.Unlock()
	r.notify(Event{
		Type:   EventDestroyed,
		ID:     id,
		Handle: e.handle,
		Wand:   e.wand,
		Err:    err,
	})
	return err
}

// Len returns the number of live wands.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// LenType returns the number of live wands of one type.
func (r *Registry) LenType(wand native.WandType) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, e := range r.entries {
		if e.wand == wand {
			count++
		}
	}
	return count
}

// Identities returns the live identities of one type in ascending order.
func (r *Registry) Identities(wand native.WandType) []Identity {
	var ids []Identity
	r.Each(func(id Identity, t native.WandType, _ native.Handle) bool {
		if t == wand {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// Each iterates over a snapshot of live wands in ascending identity order.
// fn runs without the table lock held and may destroy wands.
func (r *Registry) Each(fn func(Identity, native.WandType, native.Handle) bool) {
	type item struct {
		id     Identity
		handle native.Handle
		wand   native.WandType
	}

	r.mu.Lock()
	items := make([]item, 0, len(r.entries))
	for id, e := range r.entries {
		items = append(items, item{id: id, handle: e.handle, wand: e.wand})
	}
	r.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].id < items[j].id })
	for _, it := range items {
		if !fn(it.id, it.wand, it.handle) {
			return
		}
	}
}

// Subscribe adds an observer for lifecycle events and returns a function
// that removes exactly this subscription. Observers may read the registry but
// must not register or destroy wands from OnWandEvent.
func (r *Registry) Subscribe(o Observer) (cancel func()) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.nextSub++
	token := r.nextSub
	r.observers = append(r.observers, subscription{o: o, token: token})
	return func() { r.remove(func(s subscription) bool { return s.token == token }) }
}

// Unsubscribe removes the first subscription of o. Observers whose dynamic
// value is not comparable never match; remove them with the cancel function
// returned by Subscribe.
func (r *Registry) Unsubscribe(o Observer) {
	r.remove(func(s subscription) bool { return sameObserver(s.o, o) })
}

func (r *Registry) remove(match func(subscription) bool) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, s := range r.observers {
		if match(s) {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func sameObserver(a, b Observer) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return !va.IsValid() && !vb.IsValid()
	}
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

func (r *Registry) notify(e Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, s := range r.observers {
		s.o.OnWandEvent(e)
	}
}
