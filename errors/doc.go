// Package errors provides structured error types for the magick-wand bindings.
//
// Errors are categorized by Phase (where in the wand lifecycle the error occurred)
// and Kind (error category). They cover failures detected on the Go side of the
// boundary: calls on a destroyed wand, allocation failures, a missing environment.
// Faults reported by the native library itself are modelled by package fault.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCall, errors.KindInvalidInput).
//		Wand("MagickWand").
//		Op("ReadImageBlob").
//		Detail("zero-length blob").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NullWand(errors.PhaseClone, "PixelWand", "Clone")
//	err := errors.AllocationFailed(errors.PhaseCreate, "DrawingWand")
//
// All errors implement the standard error interface and support errors.Is/As.
// The exported sentinels match any error of the same Kind:
//
//	if errors.Is(err, errors.ErrNullWand) { ... }
package errors
