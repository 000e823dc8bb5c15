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

// blur is the resize blur factor; 1.0 leaves the filter support unchanged.
const blur = 1.0

func (l *Library) MagickNewImage(h native.Handle, columns, rows uint, background native.Handle) bool {
	return boolean(C.MagickNewImage(l.magick(h), C.size_t(columns), C.size_t(rows), l.pixel(background)))
}

func (l *Library) MagickReadImage(h native.Handle, path string) bool {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	return boolean(C.MagickReadImage(l.magick(h), cs))
}

func (l *Library) MagickReadImageBlob(h native.Handle, blob []byte) bool {
	if len(blob) == 0 {
		return boolean(C.MagickReadImageBlob(l.magick(h), nil, 0))
	}
	return boolean(C.MagickReadImageBlob(l.magick(h), unsafe.Pointer(&blob[0]), C.size_t(len(blob))))
}

func (l *Library) MagickPingImageBlob(h native.Handle, blob []byte) bool {
	if len(blob) == 0 {
		return boolean(C.MagickPingImageBlob(l.magick(h), nil, 0))
	}
	return boolean(C.MagickPingImageBlob(l.magick(h), unsafe.Pointer(&blob[0]), C.size_t(len(blob))))
}

func (l *Library) MagickWriteImage(h native.Handle, path string) bool {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	return boolean(C.MagickWriteImage(l.magick(h), cs))
}

func (l *Library) MagickGetImageBlob(h native.Handle) []byte {
	var n C.size_t
	p := C.MagickGetImageBlob(l.magick(h), &n)
	if p == nil {
		return nil
	}
	defer C.MagickRelinquishMemory(unsafe.Pointer(p))
	return C.GoBytes(unsafe.Pointer(p), C.int(n))
}

func (l *Library) MagickSetImageFormat(h native.Handle, format string) bool {
	cs := C.CString(format)
	defer C.free(unsafe.Pointer(cs))
	return boolean(C.MagickSetImageFormat(l.magick(h), cs))
}

func (l *Library) MagickGetImageFormat(h native.Handle) string {
	return relinquish(C.MagickGetImageFormat(l.magick(h)))
}

func (l *Library) MagickGetImageWidth(h native.Handle) uint {
	return uint(C.MagickGetImageWidth(l.magick(h)))
}

func (l *Library) MagickGetImageHeight(h native.Handle) uint {
	return uint(C.MagickGetImageHeight(l.magick(h)))
}

func (l *Library) MagickGetNumberImages(h native.Handle) uint {
	return uint(C.MagickGetNumberImages(l.magick(h)))
}

func (l *Library) MagickAddImage(h, other native.Handle) bool {
	return boolean(C.MagickAddImage(l.magick(h), l.magick(other)))
}

func (l *Library) MagickGetImagePixelColor(h native.Handle, x, y int, pixel native.Handle) bool {
	return boolean(C.MagickGetImagePixelColor(l.magick(h), C.ssize_t(x), C.ssize_t(y), l.pixel(pixel)))
}

func (l *Library) MagickAnnotateImage(h, drawing native.Handle, x, y, angle float64, text string) bool {
	cs := C.CString(text)
	defer C.free(unsafe.Pointer(cs))
	return boolean(C.MagickAnnotateImage(l.magick(h), l.drawing(drawing), C.double(x), C.double(y), C.double(angle), cs))
}

func (l *Library) MagickDrawImage(h, drawing native.Handle) bool {
	return boolean(C.MagickDrawImage(l.magick(h), l.drawing(drawing)))
}

func (l *Library) MagickResizeImage(h native.Handle, columns, rows uint, filter int) bool {
	return boolean(C.MagickResizeImage(l.magick(h), C.size_t(columns), C.size_t(rows), C.FilterTypes(filter), C.double(blur)))
}

func (l *Library) MagickCropImage(h native.Handle, width, height uint, x, y int) bool {
	return boolean(C.MagickCropImage(l.magick(h), C.size_t(width), C.size_t(height), C.ssize_t(x), C.ssize_t(y)))
}

func (l *Library) MagickFlipImage(h native.Handle) bool {
	return boolean(C.MagickFlipImage(l.magick(h)))
}

func (l *Library) MagickFlopImage(h native.Handle) bool {
	return boolean(C.MagickFlopImage(l.magick(h)))
}

func (l *Library) MagickSetImageProperty(h native.Handle, name, value string) bool {
	cn := C.CString(name)
	defer C.free(unsafe.Pointer(cn))
	cv := C.CString(value)
	defer C.free(unsafe.Pointer(cv))
	return boolean(C.MagickSetImageProperty(l.magick(h), cn, cv))
}

func (l *Library) MagickGetImageProperty(h native.Handle, name string) string {
	cn := C.CString(name)
	defer C.free(unsafe.Pointer(cn))
	return relinquish(C.MagickGetImageProperty(l.magick(h), cn))
}

func (l *Library) MagickSetOption(h native.Handle, key, value string) bool {
	ck := C.CString(key)
	defer C.free(unsafe.Pointer(ck))
	cv := C.CString(value)
	defer C.free(unsafe.Pointer(cv))
	return boolean(C.MagickSetOption(l.magick(h), ck, cv))
}

func (l *Library) MagickGetOption(h native.Handle, key string) string {
	ck := C.CString(key)
	defer C.free(unsafe.Pointer(ck))
	return relinquish(C.MagickGetOption(l.magick(h), ck))
}

func (l *Library) MagickSetImageBackgroundColor(h, pixel native.Handle) bool {
	return boolean(C.MagickSetImageBackgroundColor(l.magick(h), l.pixel(pixel)))
}

func (l *Library) MagickSetImageCompressionQuality(h native.Handle, quality uint) bool {
	return boolean(C.MagickSetImageCompressionQuality(l.magick(h), C.size_t(quality)))
}

func (l *Library) MagickResetIterator(h native.Handle) {
	C.MagickResetIterator(l.magick(h))
}
