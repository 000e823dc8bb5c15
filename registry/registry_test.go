package registry

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	werrors "github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/native"
)

type testObserver struct {
	mu     sync.Mutex
	events []Event
}

func (o *testObserver) OnWandEvent(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

// counter counts releases per identity registered through it.
type counter struct {
	released map[native.Handle]int
	mu       sync.Mutex
}

func newCounter() *counter {
	return &counter{released: make(map[native.Handle]int)}
}

func (c *counter) release(h native.Handle) ReleaseFunc {
	return func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.released[h]++
		return nil
	}
}

func (c *counter) count(h native.Handle) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released[h]
}

func mustRegister(t *testing.T, r *Registry, wand native.WandType, h native.Handle, c *counter) Identity {
	t.Helper()
	id, err := r.Register(wand, h, c.release(h))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return id
}

func TestRegistry_Basic(t *testing.T) {
	r := New()
	c := newCounter()

	id := mustRegister(t, r, native.PixelWand, 10, c)
	if id == 0 {
		t.Fatal("Expected non-zero identity")
	}

	h, wand, ok := r.Lookup(id)
	if !ok {
		t.Fatal("Lookup failed")
	}
	if h != 10 || wand != native.PixelWand {
		t.Fatalf("Lookup = (%d, %v), want (10, PixelWand)", h, wand)
	}

	if err := r.DestroyByID(id); err != nil {
		t.Fatalf("DestroyByID failed: %v", err)
	}
	if r.Contains(id) {
		t.Fatal("Expected identity to be gone after DestroyByID")
	}
	if c.count(10) != 1 {
		t.Fatalf("release count = %d, want 1", c.count(10))
	}
	if r.Len() != 0 {
		t.Fatal("Expected Len() == 0 after DestroyByID")
	}
}

func TestRegistry_IdentitiesUniqueAcrossTypes(t *testing.T) {
	r := New()
	c := newCounter()
	seen := make(map[Identity]bool)

	for i := 0; i < 300; i++ {
		wand := native.WandTypes[i%len(native.WandTypes)]
		id := mustRegister(t, r, wand, native.Handle(i+1), c)
		if seen[id] {
			t.Fatalf("duplicate identity %d", id)
		}
		seen[id] = true
	}
}

func TestRegistry_DestroyByIDIdempotent(t *testing.T) {
	r := New()
	c := newCounter()
	id := mustRegister(t, r, native.MagickWand, 1, c)

	for i := 0; i < 3; i++ {
		if err := r.DestroyByID(id); err != nil {
			t.Fatalf("DestroyByID #%d failed: %v", i, err)
		}
	}
	if c.count(1) != 1 {
		t.Fatalf("release count = %d, want 1", c.count(1))
	}

	// never registered
	if err := r.DestroyByID(12345); err != nil {
		t.Fatalf("DestroyByID(unknown) failed: %v", err)
	}
}

func TestRegistry_DestroyByIDsPartial(t *testing.T) {
	r := New()
	c := newCounter()
	a := mustRegister(t, r, native.PixelWand, 1, c)
	b := mustRegister(t, r, native.PixelWand, 2, c)
	keep := mustRegister(t, r, native.PixelWand, 3, c)

	if err := r.DestroyByID(b); err != nil {
		t.Fatal(err)
	}

	if err := r.DestroyByIDs([]Identity{a, b, 999}); err != nil {
		t.Fatalf("DestroyByIDs failed: %v", err)
	}
	if r.Contains(a) {
		t.Error("a should be destroyed")
	}
	if !r.Contains(keep) {
		t.Error("unlisted identity should survive")
	}
	if c.count(1) != 1 || c.count(2) != 1 {
		t.Errorf("release counts = %d, %d, want 1, 1", c.count(1), c.count(2))
	}
}

func TestRegistry_DestroyByIDsNil(t *testing.T) {
	r := New()
	c := newCounter()
	id := mustRegister(t, r, native.DrawingWand, 1, c)

	if err := r.DestroyByIDs(nil); err != nil {
		t.Fatal(err)
	}
	if !r.Contains(id) {
		t.Fatal("empty batch must not destroy anything")
	}
}

func TestRegistry_DestroyByIDsCombinesErrors(t *testing.T) {
	r := New()
	errA := errors.New("release a")
	errC := errors.New("release c")
	var released atomic.Int32

	a, _ := r.Register(native.PixelWand, 1, func() error { released.Add(1); return errA })
	b, _ := r.Register(native.PixelWand, 2, func() error { released.Add(1); return nil })
	cid, _ := r.Register(native.PixelWand, 3, func() error { released.Add(1); return errC })

	err := r.DestroyByIDs([]Identity{a, b, cid})
	if !errors.Is(err, errA) || !errors.Is(err, errC) {
		t.Fatalf("DestroyByIDs error = %v, want both release errors", err)
	}
	if released.Load() != 3 {
		t.Fatalf("released = %d, want 3", released.Load())
	}
	if r.Len() != 0 {
		t.Fatal("failed releases still remove entries")
	}
}

func TestRegistry_DestroyTypedIDs(t *testing.T) {
	r := New()
	c := newCounter()
	pixel := mustRegister(t, r, native.PixelWand, 1, c)
	drawing := mustRegister(t, r, native.DrawingWand, 2, c)

	if err := r.DestroyTypedIDs(native.PixelWand, []Identity{pixel, drawing}); err != nil {
		t.Fatal(err)
	}
	if r.Contains(pixel) {
		t.Error("pixel wand should be destroyed")
	}
	if !r.Contains(drawing) {
		t.Error("drawing wand must survive a pixel-typed destroy")
	}
}

func TestRegistry_DestroyByType(t *testing.T) {
	r := New()
	c := newCounter()
	var pixels, others []Identity
	for i := 0; i < 9; i++ {
		wand := native.WandTypes[i%3]
		id := mustRegister(t, r, wand, native.Handle(i+1), c)
		if wand == native.PixelWand {
			pixels = append(pixels, id)
		} else {
			others = append(others, id)
		}
	}

	if err := r.DestroyByType(native.PixelWand); err != nil {
		t.Fatal(err)
	}
	for _, id := range pixels {
		if r.Contains(id) {
			t.Errorf("pixel wand %d survived", id)
		}
	}
	for _, id := range others {
		if !r.Contains(id) {
			t.Errorf("non-pixel wand %d destroyed", id)
		}
	}
	if r.LenType(native.PixelWand) != 0 || r.LenType(native.DrawingWand) != 3 {
		t.Errorf("LenType = %d, %d", r.LenType(native.PixelWand), r.LenType(native.DrawingWand))
	}
}

func TestRegistry_DestroyAll(t *testing.T) {
	r := New()
	c := newCounter()
	for i := 0; i < 6; i++ {
		mustRegister(t, r, native.WandTypes[i%3], native.Handle(i+1), c)
	}

	if err := r.DestroyAll(); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d after DestroyAll", r.Len())
	}
	for h := native.Handle(1); h <= 6; h++ {
		if c.count(h) != 1 {
			t.Errorf("handle %d released %d times", h, c.count(h))
		}
	}
}

func TestRegistry_Exhaustion(t *testing.T) {
	r := New()
	r.next = math.MaxUint64
	c := newCounter()

	last := mustRegister(t, r, native.PixelWand, 1, c)
	if last != math.MaxUint64 {
		t.Fatalf("identity = %d, want MaxUint64", last)
	}

	_, err := r.Register(native.PixelWand, 2, c.release(2))
	if !errors.Is(err, werrors.ErrExhausted) {
		t.Fatalf("Register after exhaustion = %v, want exhausted", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_InvalidType(t *testing.T) {
	r := New()
	_, err := r.Register(native.WandType(7), 1, nil)
	if !errors.Is(err, werrors.ErrInvalidEnum) {
		t.Fatalf("Register = %v, want invalid enum", err)
	}
}

func TestRegistry_Observer(t *testing.T) {
	r := New()
	obs := &testObserver{}
	r.Subscribe(obs)
	c := newCounter()

	id := mustRegister(t, r, native.DrawingWand, 5, c)
	if len(obs.events) != 1 || obs.events[0].Type != EventRegistered {
		t.Fatalf("events = %+v, want one registered", obs.events)
	}
	if obs.events[0].ID != id || obs.events[0].Wand != native.DrawingWand {
		t.Fatal("wrong registered event payload")
	}

	r.DestroyByID(id)
	if len(obs.events) != 2 || obs.events[1].Type != EventDestroyed {
		t.Fatalf("events = %+v, want registered then destroyed", obs.events)
	}

	r.Unsubscribe(obs)
	mustRegister(t, r, native.DrawingWand, 6, c)
	if len(obs.events) != 2 {
		t.Fatal("unsubscribed observer still notified")
	}
}

// funcObserver is not comparable.
type funcObserver func(Event)

func (f funcObserver) OnWandEvent(e Event) { f(e) }

func TestRegistry_NonComparableObserver(t *testing.T) {
	r := New()
	c := newCounter()
	var seen atomic.Int32
	obs := funcObserver(func(Event) { seen.Add(1) })
	cancel := r.Subscribe(obs)

	// must not panic; a func value never matches
	r.Unsubscribe(obs)
	r.Unsubscribe(nil)
	mustRegister(t, r, native.PixelWand, 1, c)
	if seen.Load() != 1 {
		t.Fatalf("events = %d, want 1", seen.Load())
	}

	cancel()
	cancel()
	mustRegister(t, r, native.PixelWand, 2, c)
	if seen.Load() != 1 {
		t.Fatal("cancelled observer still notified")
	}
}

func TestRegistry_SubscribeCancelIsPerSubscription(t *testing.T) {
	r := New()
	c := newCounter()
	obs := &testObserver{}
	cancel := r.Subscribe(obs)
	r.Subscribe(obs)

	cancel()
	mustRegister(t, r, native.MagickWand, 1, c)
	if len(obs.events) != 1 {
		t.Fatalf("events = %d, want 1 from the remaining subscription", len(obs.events))
	}
}

func TestRegistry_EventOrderPerIdentity(t *testing.T) {
	r := New()
	c := newCounter()

	var mu sync.Mutex
	registered := make(map[Identity]bool)
	var outOfOrder atomic.Int32
	r.Subscribe(funcObserver(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		switch e.Type {
		case EventRegistered:
			registered[e.ID] = true
		case EventDestroyed:
			if !registered[e.ID] {
				outOfOrder.Add(1)
			}
		}
	}))

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if _, err := r.Register(native.PixelWand, native.Handle(i+1), c.release(native.Handle(i+1))); err != nil {
					t.Error(err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				r.DestroyAll()
			}
		}()
	}
	wg.Wait()
	r.DestroyAll()

	if n := outOfOrder.Load(); n != 0 {
		t.Errorf("%d destroyed events arrived before their registration", n)
	}
}

func TestRegistry_EachAndIdentities(t *testing.T) {
	r := New()
	c := newCounter()
	var want []Identity
	for i := 0; i < 5; i++ {
		want = append(want, mustRegister(t, r, native.MagickWand, native.Handle(i+1), c))
	}
	mustRegister(t, r, native.PixelWand, 100, c)

	got := r.Identities(native.MagickWand)
	if len(got) != len(want) {
		t.Fatalf("Identities = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Identities = %v, want ascending %v", got, want)
		}
	}

	// destroying during iteration must not deadlock
	r.Each(func(id Identity, _ native.WandType, _ native.Handle) bool {
		r.DestroyByID(id)
		return true
	})
	if r.Len() != 0 {
		t.Fatalf("Len() = %d after destroying in Each", r.Len())
	}
}

func TestRegistry_ConcurrentRegisterDestroy(t *testing.T) {
	r := New()
	c := newCounter()

	var wg sync.WaitGroup
	ids := make(chan Identity, 800)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				h := native.Handle(g*1000 + i + 1)
				id, err := r.Register(native.WandTypes[i%3], h, c.release(h))
				if err != nil {
					t.Error(err)
					return
				}
				ids <- id
				if i%10 == 0 {
					r.DestroyByType(native.PixelWand)
				}
			}
		}(g)
	}
	wg.Wait()
	close(ids)

	seen := make(map[Identity]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate identity %d under concurrency", id)
		}
		seen[id] = true
	}

	if err := r.DestroyAll(); err != nil {
		t.Fatal(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for h, n := range c.released {
		if n != 1 {
			t.Fatalf("handle %d released %d times", h, n)
		}
	}
	if len(c.released) != 800 {
		t.Fatalf("released %d handles, want 800", len(c.released))
	}
}
