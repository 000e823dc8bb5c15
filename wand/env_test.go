package wand

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	werrors "github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/fault"
	"github.com/wippyai/magick-wand/native"
	"github.com/wippyai/magick-wand/native/software"
	"github.com/wippyai/magick-wand/registry"
)

func newEnv(t *testing.T, opts ...Option) *Environment {
	t.Helper()
	return newEnvWith(t, software.New(), opts...)
}

func newEnvWith(t *testing.T, lib native.Library, opts ...Option) *Environment {
	t.Helper()
	env, err := Initialize(lib, opts...)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { env.Terminate() })
	return env
}

type eventRecorder struct {
	events []registry.Event
}

func (r *eventRecorder) OnWandEvent(e registry.Event) {
	r.events = append(r.events, e)
}

func TestInitialize_Twice(t *testing.T) {
	env := newEnv(t)
	if !IsInitialized() || !env.IsInitialized() {
		t.Fatal("environment not initialized")
	}

	_, err := Initialize(software.New())
	if !errors.Is(err, werrors.ErrAlreadyInitialized) {
		t.Fatalf("second Initialize = %v, want already initialized", err)
	}

	if err := env.Terminate(); err != nil {
		t.Fatalf("Terminate failed: %v", err)
	}
	if err := env.Terminate(); err != nil {
		t.Fatalf("second Terminate failed: %v", err)
	}
	if IsInitialized() {
		t.Fatal("IsInitialized after Terminate")
	}

	again := newEnv(t)
	if !again.IsInitialized() {
		t.Fatal("re-initialization failed")
	}
}

func TestInitialize_NilLibrary(t *testing.T) {
	_, err := Initialize(nil)
	if !errors.Is(err, werrors.ErrInvalidInput) {
		t.Fatalf("Initialize(nil) = %v, want invalid input", err)
	}
	if IsInitialized() {
		t.Fatal("nil library left an active environment")
	}
}

func TestInitialize_ResourceLimits(t *testing.T) {
	env := newEnv(t, WithResourceLimits(map[ResourceType]uint64{WidthResource: 10}))

	limit, err := env.ResourceLimit(WidthResource)
	if err != nil || limit != 10 {
		t.Fatalf("ResourceLimit() = %d, %v", limit, err)
	}

	m, _ := env.NewMagickWand()
	bg, _ := env.NewPixelWand()
	err = m.NewImage(11, 1, bg)
	if !errors.Is(err, fault.ErrMagickWand) {
		t.Fatalf("NewImage over the width limit = %v", err)
	}
	et, _ := m.ExceptionType()
	if et != fault.NewExceptionType(fault.SeverityError, fault.CategoryResourceLimit) {
		t.Errorf("ExceptionType() = %v, want ResourceLimitError", et)
	}

	if err := env.SetResourceLimit(WidthResource, 100); err != nil {
		t.Fatal(err)
	}
	if err := m.NewImage(11, 1, bg); err != nil {
		t.Fatalf("NewImage after raising the limit: %v", err)
	}
	if err := env.SetResourceLimit(UndefinedResource, 1); !errors.Is(err, werrors.ErrInvalidEnum) {
		t.Fatalf("SetResourceLimit(Undefined) = %v", err)
	}
}

func TestInitialize_BadResourceLimit(t *testing.T) {
	_, err := Initialize(software.New(), WithResourceLimits(map[ResourceType]uint64{ResourceType(42): 1}))
	if !errors.Is(err, werrors.ErrInvalidEnum) {
		t.Fatalf("Initialize = %v, want invalid enum", err)
	}
	if IsInitialized() {
		t.Fatal("failed Initialize left an active environment")
	}
	newEnv(t)
}

func TestTerminate_DestroysEverything(t *testing.T) {
	lib := software.New()
	env := newEnvWith(t, lib)

	p, _ := env.NewPixelWand()
	d, _ := env.NewDrawingWand()
	m, _ := env.NewMagickWand()
	c, _ := m.Clone()

	if err := env.Terminate(); err != nil {
		t.Fatalf("Terminate failed: %v", err)
	}
	for _, w := range []interface{ IsLive() bool }{p, d, m, c} {
		if w.IsLive() {
			t.Error("wand survived Terminate")
		}
	}
	if env.IsInitialized() {
		t.Error("IsInitialized after Terminate")
	}
	if env.Registry().Len() != 0 {
		t.Errorf("registry holds %d wands", env.Registry().Len())
	}
	if lib.IsInstantiated() {
		t.Error("native terminus not called")
	}

	if _, err := env.NewPixelWand(); !errors.Is(err, werrors.ErrNotInitialized) {
		t.Errorf("NewPixelWand after Terminate = %v", err)
	}
	if err := env.DestroyWands(); !errors.Is(err, werrors.ErrNotInitialized) {
		t.Errorf("DestroyWands after Terminate = %v", err)
	}
	if _, err := env.QueryFonts("*"); !errors.Is(err, werrors.ErrNotInitialized) {
		t.Errorf("QueryFonts after Terminate = %v", err)
	}
	// wands of a terminated environment stay destroyed
	if err := p.Destroy(); err != nil {
		t.Errorf("Destroy after Terminate = %v", err)
	}
	if _, err := m.Clone(); !errors.Is(err, werrors.ErrNullWand) {
		t.Errorf("Clone after Terminate = %v", err)
	}
}

func TestEnvironment_DestroyWandType(t *testing.T) {
	env := newEnv(t)
	var pixels []*PixelWand
	for i := 0; i < 3; i++ {
		p, _ := env.NewPixelWand()
		pixels = append(pixels, p)
	}
	d, _ := env.NewDrawingWand()
	m, _ := env.NewMagickWand()

	if err := env.DestroyWandType(native.PixelWand); err != nil {
		t.Fatal(err)
	}
	for _, p := range pixels {
		if p.IsLive() {
			t.Error("pixel wand survived DestroyWandType(PixelWand)")
		}
	}
	if !d.IsLive() || !m.IsLive() {
		t.Error("DestroyWandType(PixelWand) destroyed another type")
	}

	if err := env.DestroyWandType(native.WandType(9)); !errors.Is(err, werrors.ErrInvalidEnum) {
		t.Errorf("DestroyWandType(9) = %v", err)
	}
}

func TestEnvironment_DestroyWandIDs(t *testing.T) {
	env := newEnv(t)
	a, _ := env.NewPixelWand()
	b, _ := env.NewDrawingWand()
	keep, _ := env.NewMagickWand()

	if err := b.Destroy(); err != nil {
		t.Fatal(err)
	}
	if err := env.DestroyWandIDs([]registry.Identity{a.ID(), b.ID()}); err != nil {
		t.Fatalf("DestroyWandIDs failed: %v", err)
	}
	if a.IsLive() {
		t.Error("a survived DestroyWandIDs")
	}
	if !keep.IsLive() {
		t.Error("unlisted wand destroyed")
	}

	if err := env.DestroyWandID(keep.ID()); err != nil || keep.IsLive() {
		t.Errorf("DestroyWandID = %v, live = %v", err, keep.IsLive())
	}
	if err := env.DestroyWandID(keep.ID()); err != nil {
		t.Errorf("second DestroyWandID = %v", err)
	}
}

func TestEnvironment_DestroyWandTypeIDs(t *testing.T) {
	env := newEnv(t)
	p, _ := env.NewPixelWand()
	m, _ := env.NewMagickWand()

	if err := env.DestroyWandTypeIDs(native.MagickWand, []registry.Identity{p.ID(), m.ID()}); err != nil {
		t.Fatal(err)
	}
	if !p.IsLive() {
		t.Error("pixel wand destroyed by a MagickWand-typed destroy")
	}
	if m.IsLive() {
		t.Error("magick wand survived")
	}
}

func TestEnvironment_DestroyWands(t *testing.T) {
	env := newEnv(t)
	p, _ := env.NewPixelWand()
	m, _ := env.NewMagickWand()

	if err := env.DestroyWands(); err != nil {
		t.Fatal(err)
	}
	if p.IsLive() || m.IsLive() {
		t.Error("DestroyWands left live wands")
	}
	if !env.IsInitialized() {
		t.Error("DestroyWands must not terminate the environment")
	}
	if _, err := env.NewPixelWand(); err != nil {
		t.Errorf("NewPixelWand after DestroyWands = %v", err)
	}
}

func TestEnvironment_QueryFonts(t *testing.T) {
	env := newEnv(t)
	fonts, err := env.QueryFonts("Inconsolata*")
	if err != nil {
		t.Fatal(err)
	}
	if len(fonts) != 2 {
		t.Errorf("QueryFonts() = %v", fonts)
	}
}

func TestEnvironment_Observer(t *testing.T) {
	env := newEnv(t)
	rec := &eventRecorder{}
	env.Registry().Subscribe(rec)
	defer env.Registry().Unsubscribe(rec)

	p, _ := env.NewPixelWand()
	p.Destroy()
	p.Destroy()

	if len(rec.events) != 2 {
		t.Fatalf("events = %+v, want registered and destroyed", rec.events)
	}
	if rec.events[0].Type != registry.EventRegistered || rec.events[1].Type != registry.EventDestroyed {
		t.Errorf("event types = %v, %v", rec.events[0].Type, rec.events[1].Type)
	}
	if rec.events[1].ID != p.ID() || rec.events[1].Wand != native.PixelWand {
		t.Error("destroyed event payload mismatch")
	}
}

func TestEnvironment_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	env := newEnv(t, WithLogger(zap.New(core)))

	p, _ := env.NewPixelWand()
	p.Destroy()

	if logs.FilterMessage("wand registered").Len() != 1 {
		t.Error("registration not logged")
	}
	if logs.FilterMessage("wand destroyed").Len() != 1 {
		t.Error("destruction not logged")
	}
}

func TestEnvironment_LogsOnlyWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	env := newEnv(t, WithLogger(zap.New(core)))

	p, _ := env.NewPixelWand()
	if err := p.SetColor("no-such-color"); err == nil {
		t.Fatal("SetColor accepted an unknown color")
	}
	// the error stays pending across later successful calls
	for i := 0; i < 3; i++ {
		if _, err := p.Red(); err != nil {
			t.Fatal(err)
		}
	}
	if n := logs.FilterMessage("native warning").Len(); n != 0 {
		t.Errorf("pending error logged as a warning %d times", n)
	}

	m := blankImage(t, env, 40, 20, "white")
	d, _ := env.NewDrawingWand()
	d.SetFont("Helvetica-Narrow-BoldOblique")
	if err := m.AnnotateImage(d, 2, 14, 0, "hi"); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("native warning").Len() != 1 {
		t.Error("warning not logged")
	}
}

func TestEnvironment_LeakedWandIsReclaimed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	env := newEnv(t, WithLogger(zap.New(core)))

	func() {
		p, err := env.NewPixelWand()
		if err != nil {
			t.Fatal(err)
		}
		_ = p.SetColor("red")
	}()

	deadline := time.Now().Add(5 * time.Second)
	for env.Registry().LenType(native.PixelWand) != 0 {
		if time.Now().After(deadline) {
			t.Skip("cleanup did not run in time; collection timing is not guaranteed")
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	if logs.FilterMessage("wand was garbage collected without Destroy").Len() != 1 {
		t.Error("leak not logged")
	}
}
