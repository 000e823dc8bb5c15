package wand

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/fault"
	"github.com/wippyai/magick-wand/native"
	"github.com/wippyai/magick-wand/registry"
)

// wand is the state shared by PixelWand, DrawingWand and MagickWand: one
// native handle, its identity and the lock serializing calls on it.
//
// The registry's release function points here rather than at the exported
// proxy, so a proxy can be collected while its handle is still registered.
type wand struct {
	env    *Environment
	handle native.Handle
	id     registry.Identity
	kind   native.WandType
	mu     sync.Mutex
}

// create allocates a native wand and registers it.
func (e *Environment) create(t native.WandType) (*wand, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return nil, errors.NotInitialized(errors.PhaseCreate, "environment")
	}

	var h native.Handle
	if err := e.guard(t, "New", func() { h = e.lib.New(t) }); err != nil {
		return nil, err
	}
	if h == 0 {
		return nil, errors.AllocationFailed(errors.PhaseCreate, t.String())
	}
	return e.adopt(t, h)
}

// adopt registers a freshly allocated handle. The handle is released again if
// no identity can be issued.
func (e *Environment) adopt(t native.WandType, h native.Handle) (*wand, error) {
	w := &wand{env: e, kind: t, handle: h}
	id, err := e.reg.Register(t, h, w.release)
	if err != nil {
		e.lib.Destroy(t, h)
		return nil, err
	}
	w.id = id
	return w, nil
}

// detached returns a wand that never owned a handle. It stands in for nil and
// zero-value proxies.
func detached(t native.WandType) *wand {
	return &wand{kind: t}
}

// clone duplicates the native state into a new wand with its own identity.
func (w *wand) clone() (*wand, error) {
	e := w.env
	if e == nil {
		return nil, errors.NullWand(errors.PhaseClone, w.kind.String(), "Clone")
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	w.mu.Lock()
	if w.handle == 0 {
		w.mu.Unlock()
		return nil, errors.NullWand(errors.PhaseClone, w.kind.String(), "Clone")
	}
	if !e.ready {
		w.mu.Unlock()
		return nil, errors.NotInitialized(errors.PhaseClone, "environment")
	}
	var h native.Handle
	err := e.guard(w.kind, "Clone", func() { h = e.lib.Clone(w.kind, w.handle) })
	w.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if h == 0 {
		return nil, errors.AllocationFailed(errors.PhaseClone, w.kind.String())
	}
	return e.adopt(w.kind, h)
}

// track attaches a cleanup to a proxy that destroys a leaked wand. Explicit
// Destroy (or Close) is the intended path; the cleanup only logs and reclaims.
func track[P any](proxy *P, w *wand) *P {
	runtime.AddCleanup(proxy, reclaim, w)
	return proxy
}

func reclaim(w *wand) {
	if !w.IsLive() {
		return
	}
	w.env.log.Warn("wand was garbage collected without Destroy",
		zap.Uint64("id", uint64(w.id)),
		zap.Stringer("wand", w.kind))
	if err := w.Destroy(); err != nil {
		w.env.log.Warn("leaked wand release failed", zap.Uint64("id", uint64(w.id)), zap.Error(err))
	}
}

// release frees the native handle. It is the registry's ReleaseFunc and runs
// at most once per identity; it waits for an in-flight call on the wand.
func (w *wand) release() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.handle == 0 {
		return nil
	}
	h := w.handle
	w.handle = 0
	return w.env.guard(w.kind, "Destroy", func() { w.env.lib.Destroy(w.kind, h) })
}

// ID returns the wand's process-wide identity. It stays readable after Destroy.
func (w *wand) ID() registry.Identity {
	return w.id
}

// IsLive reports whether the wand still owns a native handle.
func (w *wand) IsLive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handle != 0
}

// IsWand asks the native library whether the handle is still a valid wand.
func (w *wand) IsWand() bool {
	ok, err := value(w, "IsWand", func(lib native.Library, h native.Handle) bool {
		return lib.IsWand(w.kind, h)
	})
	return err == nil && ok
}

// Destroy releases the native handle and retires the identity. Destroying a
// destroyed or detached wand is a no-op.
func (w *wand) Destroy() error {
	if w.env == nil {
		return nil
	}
	return w.env.reg.DestroyByID(w.id)
}

// ExceptionType returns the type of the pending native exception.
func (w *wand) ExceptionType() (fault.ExceptionType, error) {
	f, err := w.Exception()
	return f.Type, err
}

// Exception returns the pending native exception, including warnings left by
// calls that succeeded. The zero NativeFault means none is pending.
func (w *wand) Exception() (fault.NativeFault, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.handle == 0 {
		return fault.NativeFault{}, errors.NullWand(errors.PhaseCall, w.kind.String(), "Exception")
	}

	var code int
	var msg string
	if err := w.env.guard(w.kind, "Exception", func() {
		code, msg = w.env.lib.Exception(w.kind, w.handle)
	}); err != nil {
		return fault.NativeFault{}, err
	}
	return fault.Decode(code, msg)
}

// ClearException resets the native exception state. It is a no-op on a
// destroyed wand.
func (w *wand) ClearException() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.handle == 0 {
		return nil
	}
	return w.env.guard(w.kind, "ClearException", func() {
		w.env.lib.ClearException(w.kind, w.handle)
	})
}

// call forwards a native operation that reports a status.
func (w *wand) call(op string, fn func(native.Library, native.Handle) bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.handle == 0 {
		return errors.NullWand(errors.PhaseCall, w.kind.String(), op)
	}
	return w.invoke(op, fn)
}

// do forwards a native operation without a status.
func (w *wand) do(op string, fn func(native.Library, native.Handle)) error {
	return w.call(op, func(lib native.Library, h native.Handle) bool {
		fn(lib, h)
		return true
	})
}

// value forwards a native getter without a status.
func value[T any](w *wand, op string, fn func(native.Library, native.Handle) T) (T, error) {
	var v T
	err := w.call(op, func(lib native.Library, h native.Handle) bool {
		v = fn(lib, h)
		return true
	})
	return v, err
}

// result forwards a native getter whose result doubles as its status.
func result[T any](w *wand, op string, fn func(native.Library, native.Handle) (T, bool)) (T, error) {
	var v T
	err := w.call(op, func(lib native.Library, h native.Handle) bool {
		var ok bool
		v, ok = fn(lib, h)
		return ok
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// callWith forwards an operation taking a second wand. Both wands are locked in
// identity order and must be live; faults are read from w.
func (w *wand) callWith(op string, other *wand, fn func(lib native.Library, h, o native.Handle) bool) error {
	if other == nil {
		return errors.NullWand(errors.PhaseCall, w.kind.String(), op)
	}
	unlock := lockPair(w, other)
	defer unlock()

	if w.handle == 0 {
		return errors.NullWand(errors.PhaseCall, w.kind.String(), op)
	}
	if other.handle == 0 {
		return errors.New(errors.PhaseCall, errors.KindNullWand).
			Wand(w.kind.String()).
			Op(op).
			Detail("argument %s is null", other.kind).
			Build()
	}
	oh := other.handle
	return w.invoke(op, func(lib native.Library, h native.Handle) bool {
		return fn(lib, h, oh)
	})
}

func lockPair(a, b *wand) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if b.id < a.id {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

// invoke runs fn under panic recovery, reads the exception state and
// translates it. Callers hold w.mu and have checked liveness.
func (w *wand) invoke(op string, fn func(native.Library, native.Handle) bool) error {
	lib := w.env.lib
	var (
		ok   bool
		code int
		msg  string
	)
	if err := w.env.guard(w.kind, op, func() {
		ok = fn(lib, w.handle)
		code, msg = lib.Exception(w.kind, w.handle)
	}); err != nil {
		return err
	}

	err := fault.Translate(w.kind, op, ok, code, msg)
	switch {
	case err == nil && fault.SeverityOf(code) == fault.SeverityWarning:
		w.env.log.Debug("native warning",
			zap.Uint64("id", uint64(w.id)),
			zap.Stringer("wand", w.kind),
			zap.String("op", op),
			zap.Int("code", code),
			zap.String("message", msg))
	case fault.IsFatal(err):
		w.env.log.Error("fatal native fault",
			zap.Uint64("id", uint64(w.id)),
			zap.Stringer("wand", w.kind),
			zap.String("op", op),
			zap.Error(err))
	}
	return err
}
