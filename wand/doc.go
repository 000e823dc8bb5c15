// Package wand exposes the MagickWand pixel, drawing and image wands as Go values.
//
// An Environment brackets the native library's global state. Every wand is
// created from it, registered under a process-wide identity, and destroyed
// either explicitly or when the environment terminates:
//
//	env, err := wand.Initialize(software.New())
//	if err != nil {
//		return err
//	}
//	defer env.Close()
//
//	img, _ := env.NewMagickWand()
//	defer img.Destroy()
//
//	bg, _ := env.NewPixelWand()
//	bg.SetColor("white")
//	img.NewImage(200, 50, bg)
//
// # Lifecycle
//
// A wand is live from creation (or Clone) until Destroy. Destroy is idempotent
// and every other method of a destroyed wand fails with errors.KindNullWand.
// Bulk destruction by identity or by type goes through the Environment.
// Leaked wands are reclaimed by a runtime cleanup and logged, but callers are
// expected to Destroy them.
//
// # Faults
//
// Native exceptions are translated at the call boundary:
//
//   - a failed call returns a *fault.WandError matching fault.ErrPixelWand,
//     fault.ErrDrawingWand or fault.ErrMagickWand
//   - a warning left by a successful call is not an error; read it with
//     Exception or ExceptionType
//   - a fatal exception, or a panic inside the native library, returns a
//     *fault.FatalError matching fault.ErrFatal; the environment should not
//     be used afterwards
//
// # Concurrency
//
// Wands are safe for concurrent use. Each wand serializes its own calls;
// operations taking two wands lock both in identity order.
package wand
