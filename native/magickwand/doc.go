// Package magickwand binds native.Library to the ImageMagick 6 MagickWand C
// API through cgo. It is compiled only with the magickwand build tag and needs
// the MagickWand development headers visible to pkg-config.
//
// Handles handed to the wand package are indexes into per-type tables, never
// raw C pointers.
package magickwand
