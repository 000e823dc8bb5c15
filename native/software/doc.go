// Package software is a pure-Go implementation of native.Library.
//
// It stands in for the MagickWand C library when cgo or ImageMagick is not
// available, and backs the test suites of the binding packages. Wands are plain
// Go structs addressed by monotonic handles; each keeps its own "last
// exception" slot the way the C wands do, raising the same exception codes for
// the same conditions:
//
//	lib := software.New()
//	lib.Genesis()
//	defer lib.Terminus()
//
//	h := lib.New(native.MagickWand)
//	if !lib.MagickReadImageBlob(h, blob) {
//		code, msg := lib.Exception(native.MagickWand, h)
//		...
//	}
//
// Image support covers PNG, JPEG, GIF, BMP and TIFF in both directions and WebP
// decoding. Text is rendered with the bitmap faces "Fixed", "Inconsolata" and
// "Inconsolata-Bold"; any other font raises a TypeWarning and falls back to
// "Fixed".
//
// Passing a stale handle panics, mirroring a dangling pointer in the C library.
package software
