package wand

import (
	"runtime/debug"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/fault"
	"github.com/wippyai/magick-wand/native"
	"github.com/wippyai/magick-wand/registry"
)

var (
	// identities is shared by every environment so that identities stay unique
	// for the life of the process, across Initialize/Terminate cycles.
	identities = registry.New()

	envMu  sync.Mutex
	active *Environment
)

// Environment owns the native library's global state. At most one is active
// per process.
type Environment struct {
	lib    native.Library
	reg    *registry.Registry
	log    *zap.Logger
	events *eventLogger
	mu     sync.RWMutex
	ready  bool
}

// Option configures Initialize.
type Option func(*options)

type options struct {
	logger *zap.Logger
	limits map[ResourceType]uint64
}

// WithLogger sets the environment's logger. The package Logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithResourceLimits applies resource limits right after genesis.
func WithResourceLimits(limits map[ResourceType]uint64) Option {
	return func(o *options) {
		if o.limits == nil {
			o.limits = make(map[ResourceType]uint64, len(limits))
		}
		for k, v := range limits {
			o.limits[k] = v
		}
	}
}

// Initialize runs the native library's genesis and activates a new environment.
// Calling it again while an environment is active fails with
// errors.KindAlreadyInitialized; Terminate the active one first.
//
//	env, err := wand.Initialize(software.New())
//	if err != nil {
//		return err
//	}
//	defer env.Close()
func Initialize(lib native.Library, opts ...Option) (*Environment, error) {
	if lib == nil {
		return nil, errors.InvalidInput(errors.PhaseInit, "native library is nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	envMu.Lock()
	defer envMu.Unlock()
	if active != nil {
		return nil, errors.AlreadyInitialized("environment")
	}

	env := &Environment{
		lib:    lib,
		reg:    identities,
		log:    log,
		events: &eventLogger{log: log},
	}

	if err := env.guard(native.MagickWand, "Genesis", lib.Genesis); err != nil {
		return nil, err
	}
	if !lib.IsInstantiated() {
		return nil, errors.New(errors.PhaseInit, errors.KindNotInitialized).
			Wand("environment").
			Detail("native genesis did not instantiate the library").
			Build()
	}

	for rt, limit := range o.limits {
		if err := env.setResourceLimit(rt, limit); err != nil {
			lib.Terminus()
			return nil, err
		}
	}

	env.reg.Subscribe(env.events)
	env.ready = true
	active = env

	log.Debug("wand environment initialized", zap.Int("resource_limits", len(o.limits)))
	return env, nil
}

// IsInitialized reports whether an environment is active.
func IsInitialized() bool {
	envMu.Lock()
	env := active
	envMu.Unlock()
	return env != nil && env.IsInitialized()
}

// IsInitialized reports whether e has not been terminated.
func (e *Environment) IsInitialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// Terminate destroys every live wand and then releases the native library's
// global state. Calling it again is a no-op.
func (e *Environment) Terminate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return nil
	}
	e.ready = false

	live := e.reg.Len()
	err := e.reg.DestroyAll()
	err = multierr.Append(err, e.guard(native.MagickWand, "Terminus", e.lib.Terminus))
	e.reg.Unsubscribe(e.events)

	envMu.Lock()
	if active == e {
		active = nil
	}
	envMu.Unlock()

	if err != nil {
		e.log.Error("wand environment terminated with errors", zap.Int("destroyed", live), zap.Error(err))
		return err
	}
	e.log.Debug("wand environment terminated", zap.Int("destroyed", live))
	return nil
}

// Close implements io.Closer. It is Terminate.
func (e *Environment) Close() error {
	return e.Terminate()
}

// Registry returns the identity table, mainly for observers.
func (e *Environment) Registry() *registry.Registry {
	return e.reg
}

// Library returns the native library the environment drives.
func (e *Environment) Library() native.Library {
	return e.lib
}

// DestroyWands destroys every live wand.
func (e *Environment) DestroyWands() error {
	return e.bulk(e.reg.DestroyAll)
}

// DestroyWandID destroys one wand by identity. Unknown identities are ignored.
func (e *Environment) DestroyWandID(id registry.Identity) error {
	return e.bulk(func() error { return e.reg.DestroyByID(id) })
}

// DestroyWandIDs destroys every listed wand. A missing identity does not stop
// the batch.
func (e *Environment) DestroyWandIDs(ids []registry.Identity) error {
	return e.bulk(func() error { return e.reg.DestroyByIDs(ids) })
}

// DestroyWandType destroys every live wand of one type.
func (e *Environment) DestroyWandType(t native.WandType) error {
	if !t.Valid() {
		return errors.InvalidEnum(errors.PhaseDestroy, t, "WandType")
	}
	return e.bulk(func() error { return e.reg.DestroyByType(t) })
}

// DestroyWandTypeIDs destroys the listed wands that are of type t.
func (e *Environment) DestroyWandTypeIDs(t native.WandType, ids []registry.Identity) error {
	if !t.Valid() {
		return errors.InvalidEnum(errors.PhaseDestroy, t, "WandType")
	}
	return e.bulk(func() error { return e.reg.DestroyTypedIDs(t, ids) })
}

func (e *Environment) bulk(fn func() error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return errors.NotInitialized(errors.PhaseDestroy, "environment")
	}
	return fn()
}

// QueryFonts returns the font names matching a glob pattern.
func (e *Environment) QueryFonts(pattern string) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return nil, errors.NotInitialized(errors.PhaseCall, "environment")
	}

	var fonts []string
	err := e.guard(native.DrawingWand, "QueryFonts", func() {
		fonts = e.lib.QueryFonts(pattern)
	})
	return fonts, err
}

// SetResourceLimit sets a global resource limit of the native library.
func (e *Environment) SetResourceLimit(rt ResourceType, limit uint64) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return errors.NotInitialized(errors.PhaseCall, "environment")
	}
	return e.setResourceLimit(rt, limit)
}

func (e *Environment) setResourceLimit(rt ResourceType, limit uint64) error {
	if !rt.Valid() {
		return errors.InvalidEnum(errors.PhaseCall, rt, "ResourceType")
	}

	var ok bool
	if err := e.guard(native.MagickWand, "SetResourceLimit", func() {
		ok = e.lib.SetResourceLimit(int(rt), limit)
	}); err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.PhaseCall, errors.KindInvalidInput).
			Op("SetResourceLimit").
			Value(limit).
			Detail("native library rejected %s limit %d", rt, limit).
			Build()
	}
	e.log.Debug("resource limit set", zap.Stringer("resource", rt), zap.Uint64("limit", limit))
	return nil
}

// ResourceLimit returns a global resource limit of the native library.
func (e *Environment) ResourceLimit(rt ResourceType) (uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return 0, errors.NotInitialized(errors.PhaseCall, "environment")
	}
	if !rt.Valid() {
		return 0, errors.InvalidEnum(errors.PhaseCall, rt, "ResourceType")
	}

	var limit uint64
	err := e.guard(native.MagickWand, "ResourceLimit", func() {
		limit = e.lib.GetResourceLimit(int(rt))
	})
	return limit, err
}

// guard runs a native call and converts a panic into a *fault.FatalError.
func (e *Environment) guard(t native.WandType, op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fault.Recovered(t, op, r, debug.Stack())
			e.log.Error("native call panicked",
				zap.Stringer("wand", t),
				zap.String("op", op),
				zap.Any("panic", r))
		}
	}()
	fn()
	return nil
}

// eventLogger logs registry lifecycle events.
type eventLogger struct {
	log *zap.Logger
}

func (l *eventLogger) OnWandEvent(ev registry.Event) {
	if ev.Err != nil {
		l.log.Warn("wand release failed",
			zap.Uint64("id", uint64(ev.ID)),
			zap.Stringer("wand", ev.Wand),
			zap.Error(ev.Err))
		return
	}
	if ce := l.log.Check(zap.DebugLevel, "wand "+ev.Type.String()); ce != nil {
		ce.Write(zap.Uint64("id", uint64(ev.ID)), zap.Stringer("wand", ev.Wand))
	}
}
