//go:build magickwand

package magickwand

/*
#cgo pkg-config: MagickWand MagickCore
#include <stdlib.h>
#include <wand/MagickWand.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/wippyai/magick-wand/native"
)

// Library is the cgo MagickWand backend.
type Library struct {
	pixels   map[native.Handle]*C.PixelWand
	drawings map[native.Handle]*C.DrawingWand
	magicks  map[native.Handle]*C.MagickWand
	next     native.Handle
	mu       sync.Mutex
}

var _ native.Library = (*Library)(nil)

// New returns a backend. Genesis must run before wands are created.
func New() *Library {
	return &Library{
		pixels:   make(map[native.Handle]*C.PixelWand),
		drawings: make(map[native.Handle]*C.DrawingWand),
		magicks:  make(map[native.Handle]*C.MagickWand),
	}
}

func (l *Library) Genesis() {
	C.MagickWandGenesis()
}

func (l *Library) Terminus() {
	l.mu.Lock()
	clear(l.pixels)
	clear(l.drawings)
	clear(l.magicks)
	l.mu.Unlock()
	C.MagickWandTerminus()
}

func (l *Library) IsInstantiated() bool {
	return C.IsMagickWandInstantiated() == C.MagickTrue
}

func (l *Library) QueryFonts(pattern string) []string {
	cs := C.CString(pattern)
	defer C.free(unsafe.Pointer(cs))

	var n C.size_t
	list := C.MagickQueryFonts(cs, &n)
	if list == nil {
		return nil
	}
	defer C.MagickRelinquishMemory(unsafe.Pointer(list))

	names := make([]string, 0, int(n))
	for _, p := range unsafe.Slice(list, int(n)) {
		names = append(names, relinquish(p))
	}
	return names
}

// resource maps the binding's resource numbering onto the C enum, whose order
// differs between ImageMagick 6 and 7.
func resource(r int) (C.ResourceType, bool) {
	switch r {
	case 1:
		return C.AreaResource, true
	case 2:
		return C.DiskResource, true
	case 3:
		return C.FileResource, true
	case 4:
		return C.HeightResource, true
	case 5:
		return C.MapResource, true
	case 6:
		return C.MemoryResource, true
	case 7:
		return C.ThreadResource, true
	case 8:
		return C.ThrottleResource, true
	case 9:
		return C.TimeResource, true
	case 10:
		return C.WidthResource, true
	case 11:
		return C.ListLengthResource, true
	}
	return C.UndefinedResource, false
}

func (l *Library) SetResourceLimit(r int, limit uint64) bool {
	rt, ok := resource(r)
	if !ok {
		return false
	}
	return C.SetMagickResourceLimit(rt, C.MagickSizeType(limit)) == C.MagickTrue
}

func (l *Library) GetResourceLimit(r int) uint64 {
	rt, ok := resource(r)
	if !ok {
		return 0
	}
	return uint64(C.GetMagickResourceLimit(rt))
}

func (l *Library) New(t native.WandType) native.Handle {
	switch t {
	case native.PixelWand:
		return l.addPixel(C.NewPixelWand())
	case native.DrawingWand:
		return l.addDrawing(C.NewDrawingWand())
	case native.MagickWand:
		return l.addMagick(C.NewMagickWand())
	}
	return 0
}

func (l *Library) Clone(t native.WandType, h native.Handle) native.Handle {
	switch t {
	case native.PixelWand:
		return l.addPixel(C.ClonePixelWand(l.pixel(h)))
	case native.DrawingWand:
		return l.addDrawing(C.CloneDrawingWand(l.drawing(h)))
	case native.MagickWand:
		return l.addMagick(C.CloneMagickWand(l.magick(h)))
	}
	return 0
}

func (l *Library) Destroy(t native.WandType, h native.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch t {
	case native.PixelWand:
		if p, ok := l.pixels[h]; ok {
			C.DestroyPixelWand(p)
			delete(l.pixels, h)
		}
	case native.DrawingWand:
		if d, ok := l.drawings[h]; ok {
			C.DestroyDrawingWand(d)
			delete(l.drawings, h)
		}
	case native.MagickWand:
		if m, ok := l.magicks[h]; ok {
			C.DestroyMagickWand(m)
			delete(l.magicks, h)
		}
	}
}

func (l *Library) IsWand(t native.WandType, h native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch t {
	case native.PixelWand:
		p, ok := l.pixels[h]
		return ok && C.IsPixelWand(p) == C.MagickTrue
	case native.DrawingWand:
		d, ok := l.drawings[h]
		return ok && C.IsDrawingWand(d) == C.MagickTrue
	case native.MagickWand:
		m, ok := l.magicks[h]
		return ok && C.IsMagickWand(m) == C.MagickTrue
	}
	return false
}

func (l *Library) Exception(t native.WandType, h native.Handle) (int, string) {
	var severity C.ExceptionType
	var msg *C.char
	switch t {
	case native.PixelWand:
		msg = C.PixelGetException(l.pixel(h), &severity)
	case native.DrawingWand:
		msg = C.DrawGetException(l.drawing(h), &severity)
	case native.MagickWand:
		msg = C.MagickGetException(l.magick(h), &severity)
	default:
		return 0, ""
	}
	return int(severity), relinquish(msg)
}

func (l *Library) ClearException(t native.WandType, h native.Handle) {
	switch t {
	case native.PixelWand:
		C.PixelClearException(l.pixel(h))
	case native.DrawingWand:
		C.DrawClearException(l.drawing(h))
	case native.MagickWand:
		C.MagickClearException(l.magick(h))
	}
}

func (l *Library) addPixel(p *C.PixelWand) native.Handle {
	if p == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.pixels[l.next] = p
	return l.next
}

func (l *Library) addDrawing(d *C.DrawingWand) native.Handle {
	if d == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.drawings[l.next] = d
	return l.next
}

func (l *Library) addMagick(m *C.MagickWand) native.Handle {
	if m == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.magicks[l.next] = m
	return l.next
}

// Lookups panic on a stale handle; the wand package recovers the panic into a
// fatal fault instead of passing NULL to C.

func (l *Library) pixel(h native.Handle) *C.PixelWand {
	l.mu.Lock()
	p, ok := l.pixels[h]
	l.mu.Unlock()
	if !ok {
		panic("magickwand: invalid pixel wand handle")
	}
	return p
}

func (l *Library) drawing(h native.Handle) *C.DrawingWand {
	l.mu.Lock()
	d, ok := l.drawings[h]
	l.mu.Unlock()
	if !ok {
		panic("magickwand: invalid drawing wand handle")
	}
	return d
}

func (l *Library) magick(h native.Handle) *C.MagickWand {
	l.mu.Lock()
	m, ok := l.magicks[h]
	l.mu.Unlock()
	if !ok {
		panic("magickwand: invalid magick wand handle")
	}
	return m
}

// relinquish copies a string allocated by ImageMagick and frees it.
func relinquish(s *C.char) string {
	if s == nil {
		return ""
	}
	defer C.MagickRelinquishMemory(unsafe.Pointer(s))
	return C.GoString(s)
}

func boolean(b C.MagickBooleanType) bool {
	return b == C.MagickTrue
}

func magickBool(b bool) C.MagickBooleanType {
	if b {
		return C.MagickTrue
	}
	return C.MagickFalse
}
