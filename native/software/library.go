package software

import (
	"fmt"
	"sync"

	"github.com/wippyai/magick-wand/fault"
	"github.com/wippyai/magick-wand/native"
)

// Exception codes raised by the software library.
var (
	codeTypeWarning          = fault.NewExceptionType(fault.SeverityWarning, fault.CategoryType).Code()
	codeDrawWarning          = fault.NewExceptionType(fault.SeverityWarning, fault.CategoryDraw).Code()
	codeResourceLimitError   = fault.NewExceptionType(fault.SeverityError, fault.CategoryResourceLimit).Code()
	codeOptionError          = fault.NewExceptionType(fault.SeverityError, fault.CategoryOption).Code()
	codeMissingDelegateError = fault.NewExceptionType(fault.SeverityError, fault.CategoryMissingDelegate).Code()
	codeCorruptImageError    = fault.NewExceptionType(fault.SeverityError, fault.CategoryCorruptImage).Code()
	codeFileOpenError        = fault.NewExceptionType(fault.SeverityError, fault.CategoryFileOpen).Code()
	codeBlobError            = fault.NewExceptionType(fault.SeverityError, fault.CategoryBlob).Code()
	codeImageError           = fault.NewExceptionType(fault.SeverityError, fault.CategoryImage).Code()
	codeWandError            = fault.NewExceptionType(fault.SeverityError, fault.CategoryWand).Code()
)

// Resource identifiers, numbered as the native ResourceType enum.
const (
	resourceArea       = 1
	resourceDisk       = 2
	resourceFile       = 3
	resourceHeight     = 4
	resourceMap        = 5
	resourceMemory     = 6
	resourceThread     = 7
	resourceThrottle   = 8
	resourceTime       = 9
	resourceWidth      = 10
	resourceListLength = 11
)

const unlimited = ^uint64(0)

// Finite defaults for the pixel cache, roughly ImageMagick's policy for a
// host with a few GiB of memory.
const (
	defaultAreaLimit   = 1 << 28 // pixels
	defaultMemoryLimit = 1 << 31 // bytes
)

// exception is the per-wand "last exception" slot.
type exception struct {
	message string
	code    int
}

// raise records an exception unless a more severe one is already pending.
func (e *exception) raise(code int, format string, args ...any) {
	if e.code != 0 && fault.SeverityOf(code) < fault.SeverityOf(e.code) {
		return
	}
	e.code = code
	e.message = fmt.Sprintf(format, args...)
}

func (e *exception) clear() {
	e.code = 0
	e.message = ""
}

// Library is an in-process implementation of native.Library.
//
// A single mutex guards every wand; the zero value is not usable, call New.
type Library struct {
	pixels   map[native.Handle]*pixelWand
	drawings map[native.Handle]*drawingWand
	magicks  map[native.Handle]*magickWand
	limits   map[int]uint64
	next     native.Handle
	mu       sync.Mutex
	genesis  bool
}

var _ native.Library = (*Library)(nil)

// New creates a library with default resource limits. Call Genesis before
// allocating wands.
func New() *Library {
	return &Library{
		pixels:   make(map[native.Handle]*pixelWand),
		drawings: make(map[native.Handle]*drawingWand),
		magicks:  make(map[native.Handle]*magickWand),
		limits:   defaultLimits(),
		next:     1,
	}
}

func defaultLimits() map[int]uint64 {
	return map[int]uint64{
		resourceArea:       defaultAreaLimit,
		resourceDisk:       unlimited,
		resourceFile:       768,
		resourceHeight:     unlimited,
		resourceMap:        unlimited,
		resourceMemory:     defaultMemoryLimit,
		resourceThread:     1,
		resourceThrottle:   0,
		resourceTime:       unlimited,
		resourceWidth:      unlimited,
		resourceListLength: unlimited,
	}
}

func (l *Library) Genesis() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.genesis = true
}

// Terminus frees every wand still allocated and resets the limits.
func (l *Library) Terminus() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.pixels)
	clear(l.drawings)
	clear(l.magicks)
	l.limits = defaultLimits()
	l.genesis = false
}

func (l *Library) IsInstantiated() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.genesis
}

func (l *Library) QueryFonts(pattern string) []string {
	return matchFonts(pattern)
}

func (l *Library) SetResourceLimit(resource int, limit uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.limits[resource]; !ok {
		return false
	}
	l.limits[resource] = limit
	return true
}

func (l *Library) GetResourceLimit(resource int) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limits[resource]
}

// Len returns the number of allocated wands of type t.
func (l *Library) Len(t native.WandType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch t {
	case native.PixelWand:
		return len(l.pixels)
	case native.DrawingWand:
		return len(l.drawings)
	case native.MagickWand:
		return len(l.magicks)
	}
	return 0
}

func (l *Library) alloc() native.Handle {
	h := l.next
	l.next++
	return h
}

func (l *Library) New(t native.WandType) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.genesis {
		return 0
	}

	switch t {
	case native.PixelWand:
		h := l.alloc()
		l.pixels[h] = newPixelWand()
		return h
	case native.DrawingWand:
		h := l.alloc()
		l.drawings[h] = newDrawingWand()
		return h
	case native.MagickWand:
		h := l.alloc()
		l.magicks[h] = newMagickWand()
		return h
	}
	return 0
}

func (l *Library) Clone(t native.WandType, h native.Handle) native.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.genesis {
		return 0
	}

	switch t {
	case native.PixelWand:
		if p, ok := l.pixels[h]; ok {
			c := l.alloc()
			l.pixels[c] = p.clone()
			return c
		}
	case native.DrawingWand:
		if d, ok := l.drawings[h]; ok {
			c := l.alloc()
			l.drawings[c] = d.clone()
			return c
		}
	case native.MagickWand:
		if m, ok := l.magicks[h]; ok {
			c := l.alloc()
			l.magicks[c] = m.clone()
			return c
		}
	}
	return 0
}

func (l *Library) Destroy(t native.WandType, h native.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch t {
	case native.PixelWand:
		delete(l.pixels, h)
	case native.DrawingWand:
		delete(l.drawings, h)
	case native.MagickWand:
		delete(l.magicks, h)
	}
}

func (l *Library) IsWand(t native.WandType, h native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exceptionOf(t, h) != nil
}

func (l *Library) Exception(t native.WandType, h native.Handle) (int, string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e := l.exceptionOf(t, h); e != nil {
		return e.code, e.message
	}
	return 0, ""
}

func (l *Library) ClearException(t native.WandType, h native.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e := l.exceptionOf(t, h); e != nil {
		e.clear()
	}
}

func (l *Library) exceptionOf(t native.WandType, h native.Handle) *exception {
	switch t {
	case native.PixelWand:
		if p, ok := l.pixels[h]; ok {
			return &p.exc
		}
	case native.DrawingWand:
		if d, ok := l.drawings[h]; ok {
			return &d.exc
		}
	case native.MagickWand:
		if m, ok := l.magicks[h]; ok {
			return &m.exc
		}
	}
	return nil
}

// Lookups below panic on a stale handle, the way a native library would fault
// on a dangling pointer. The binding never passes one.

func (l *Library) pixel(h native.Handle) *pixelWand {
	p, ok := l.pixels[h]
	if !ok {
		panic(fmt.Sprintf("software: invalid PixelWand handle %#x", uintptr(h)))
	}
	return p
}

func (l *Library) drawing(h native.Handle) *drawingWand {
	d, ok := l.drawings[h]
	if !ok {
		panic(fmt.Sprintf("software: invalid DrawingWand handle %#x", uintptr(h)))
	}
	return d
}

func (l *Library) magick(h native.Handle) *magickWand {
	m, ok := l.magicks[h]
	if !ok {
		panic(fmt.Sprintf("software: invalid MagickWand handle %#x", uintptr(h)))
	}
	return m
}
