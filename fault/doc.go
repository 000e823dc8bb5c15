// Package fault translates native exception state into Go errors.
//
// The native library reports failures through a side channel: a call returns a
// false status and the wand keeps a "last exception" made of a single integer
// code and a message. Codes are banded by severity and share a category offset
// across bands:
//
//	300..399  Warning     e.g. 305 TypeWarning
//	400..699  Error       e.g. 405 TypeError
//	700..     FatalError  e.g. 705 TypeFatalError
//
// FromCode decodes a code; Translate applies the propagation policy:
//
//	err := fault.Translate(native.MagickWand, "ReadImageBlob", ok, code, msg)
//	switch {
//	case fault.IsFatal(err):
//		// *FatalError: native state may be corrupt, shut down
//	case errors.Is(err, fault.ErrMagickWand):
//		// *WandError: recoverable, the wand is still live
//	}
//
// Warnings never fail a call that the native side reported as successful.
package fault
