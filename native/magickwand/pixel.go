//go:build magickwand

package magickwand

/*
#include <stdlib.h>
#include <wand/MagickWand.h>
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/magick-wand/native"
)

func (l *Library) PixelSetColor(h native.Handle, color string) bool {
	cs := C.CString(color)
	defer C.free(unsafe.Pointer(cs))
	return boolean(C.PixelSetColor(l.pixel(h), cs))
}

func (l *Library) PixelGetColorAsString(h native.Handle) string {
	return relinquish(C.PixelGetColorAsString(l.pixel(h)))
}

func (l *Library) PixelGetColorAsNormalizedString(h native.Handle) string {
	return relinquish(C.PixelGetColorAsNormalizedString(l.pixel(h)))
}

func (l *Library) PixelGetRed(h native.Handle) float64 {
	return float64(C.PixelGetRed(l.pixel(h)))
}

func (l *Library) PixelGetGreen(h native.Handle) float64 {
	return float64(C.PixelGetGreen(l.pixel(h)))
}

func (l *Library) PixelGetBlue(h native.Handle) float64 {
	return float64(C.PixelGetBlue(l.pixel(h)))
}

func (l *Library) PixelGetAlpha(h native.Handle) float64 {
	return float64(C.PixelGetAlpha(l.pixel(h)))
}

func (l *Library) PixelSetRed(h native.Handle, v float64) {
	C.PixelSetRed(l.pixel(h), C.double(v))
}

func (l *Library) PixelSetGreen(h native.Handle, v float64) {
	C.PixelSetGreen(l.pixel(h), C.double(v))
}

func (l *Library) PixelSetBlue(h native.Handle, v float64) {
	C.PixelSetBlue(l.pixel(h), C.double(v))
}

func (l *Library) PixelSetAlpha(h native.Handle, v float64) {
	C.PixelSetAlpha(l.pixel(h), C.double(v))
}

func (l *Library) PixelGetHSL(h native.Handle) (float64, float64, float64) {
	var hue, sat, light C.double
	C.PixelGetHSL(l.pixel(h), &hue, &sat, &light)
	return float64(hue), float64(sat), float64(light)
}

func (l *Library) PixelSetHSL(h native.Handle, hue, saturation, lightness float64) {
	C.PixelSetHSL(l.pixel(h), C.double(hue), C.double(saturation), C.double(lightness))
}

func (l *Library) PixelGetFuzz(h native.Handle) float64 {
	return float64(C.PixelGetFuzz(l.pixel(h)))
}

func (l *Library) PixelSetFuzz(h native.Handle, fuzz float64) {
	C.PixelSetFuzz(l.pixel(h), C.double(fuzz))
}

func (l *Library) PixelGetColorCount(h native.Handle) uint {
	return uint(C.PixelGetColorCount(l.pixel(h)))
}

func (l *Library) PixelSetColorCount(h native.Handle, count uint) {
	C.PixelSetColorCount(l.pixel(h), C.size_t(count))
}

func (l *Library) IsPixelWandSimilar(a, b native.Handle, fuzz float64) bool {
	return boolean(C.IsPixelWandSimilar(l.pixel(a), l.pixel(b), C.double(fuzz)))
}
