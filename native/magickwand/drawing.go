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

func (l *Library) DrawGetFont(h native.Handle) string {
	return relinquish(C.DrawGetFont(l.drawing(h)))
}

func (l *Library) DrawSetFont(h native.Handle, name string) bool {
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))
	return boolean(C.DrawSetFont(l.drawing(h), cs))
}

func (l *Library) DrawGetFontFamily(h native.Handle) string {
	return relinquish(C.DrawGetFontFamily(l.drawing(h)))
}

func (l *Library) DrawSetFontFamily(h native.Handle, family string) bool {
	cs := C.CString(family)
	defer C.free(unsafe.Pointer(cs))
	return boolean(C.DrawSetFontFamily(l.drawing(h), cs))
}

func (l *Library) DrawGetFontSize(h native.Handle) float64 {
	return float64(C.DrawGetFontSize(l.drawing(h)))
}

func (l *Library) DrawSetFontSize(h native.Handle, size float64) {
	C.DrawSetFontSize(l.drawing(h), C.double(size))
}

func (l *Library) DrawGetFontWeight(h native.Handle) uint {
	return uint(C.DrawGetFontWeight(l.drawing(h)))
}

func (l *Library) DrawSetFontWeight(h native.Handle, weight uint) {
	C.DrawSetFontWeight(l.drawing(h), C.size_t(weight))
}

func (l *Library) DrawGetFontStyle(h native.Handle) int {
	return int(C.DrawGetFontStyle(l.drawing(h)))
}

func (l *Library) DrawSetFontStyle(h native.Handle, style int) {
	C.DrawSetFontStyle(l.drawing(h), C.StyleType(style))
}

func (l *Library) DrawGetGravity(h native.Handle) int {
	return int(C.DrawGetGravity(l.drawing(h)))
}

func (l *Library) DrawSetGravity(h native.Handle, gravity int) {
	C.DrawSetGravity(l.drawing(h), C.GravityType(gravity))
}

func (l *Library) DrawGetTextAlignment(h native.Handle) int {
	return int(C.DrawGetTextAlignment(l.drawing(h)))
}

func (l *Library) DrawSetTextAlignment(h native.Handle, align int) {
	C.DrawSetTextAlignment(l.drawing(h), C.AlignType(align))
}

func (l *Library) DrawGetTextAntialias(h native.Handle) bool {
	return boolean(C.DrawGetTextAntialias(l.drawing(h)))
}

func (l *Library) DrawSetTextAntialias(h native.Handle, on bool) {
	C.DrawSetTextAntialias(l.drawing(h), magickBool(on))
}

func (l *Library) DrawGetStrokeWidth(h native.Handle) float64 {
	return float64(C.DrawGetStrokeWidth(l.drawing(h)))
}

func (l *Library) DrawSetStrokeWidth(h native.Handle, width float64) {
	C.DrawSetStrokeWidth(l.drawing(h), C.double(width))
}

func (l *Library) DrawGetFillOpacity(h native.Handle) float64 {
	return float64(C.DrawGetFillOpacity(l.drawing(h)))
}

func (l *Library) DrawSetFillOpacity(h native.Handle, opacity float64) {
	C.DrawSetFillOpacity(l.drawing(h), C.double(opacity))
}

func (l *Library) DrawGetFillColor(h, pixel native.Handle) {
	C.DrawGetFillColor(l.drawing(h), l.pixel(pixel))
}

func (l *Library) DrawSetFillColor(h, pixel native.Handle) {
	C.DrawSetFillColor(l.drawing(h), l.pixel(pixel))
}

func (l *Library) DrawGetStrokeColor(h, pixel native.Handle) {
	C.DrawGetStrokeColor(l.drawing(h), l.pixel(pixel))
}

func (l *Library) DrawSetStrokeColor(h, pixel native.Handle) {
	C.DrawSetStrokeColor(l.drawing(h), l.pixel(pixel))
}

func (l *Library) DrawAnnotation(h native.Handle, x, y float64, text string) {
	cs := C.CString(text)
	defer C.free(unsafe.Pointer(cs))
	C.DrawAnnotation(l.drawing(h), C.double(x), C.double(y), (*C.uchar)(unsafe.Pointer(cs)))
}

func (l *Library) DrawGetVectorGraphics(h native.Handle) string {
	return relinquish(C.DrawGetVectorGraphics(l.drawing(h)))
}

func (l *Library) ClearDrawingWand(h native.Handle) {
	C.ClearDrawingWand(l.drawing(h))
}
