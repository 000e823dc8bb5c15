// Package native defines the boundary to the MagickWand library.
//
// Everything behind Library is treated as a black box reachable only through
// opaque handles. Two implementations exist:
//
//	native/software    pure Go stand-in, used by default and in tests
//	native/magickwand  cgo binding over <wand/MagickWand.h> (build tag magickwand)
//
// Library mirrors the C calling convention on purpose: failures are a false
// status plus a per-wand exception that callers read back with Exception.
// Translating that state into Go errors is the job of package fault; owning
// handle lifetimes is the job of packages registry and wand.
package native
