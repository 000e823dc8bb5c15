// Package magickwand provides Go bindings for the MagickWand pixel, drawing and
// image wand API.
//
// The module wraps a native MagickWand library behind handle ownership, a
// process-wide identity system and translation of native exceptions into Go
// errors. Image algorithms stay in the native library.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	magickwand/
//	├── wand/               Environment, PixelWand, DrawingWand, MagickWand
//	├── registry/           Identity table with bulk destruction and observers
//	├── fault/              Native exception codes, WandError and FatalError
//	├── errors/             Structured errors for binding-side failures
//	├── native/             Library interface to the native collaborator
//	│   ├── software/       Pure Go backend used by default and in tests
//	│   └── magickwand/     cgo backend over ImageMagick 6 (build tag magickwand)
//	├── logging/            zap logger construction with file rotation
//	├── config/             Environment variable configuration
//	└── cmd/wandctl/        CLI and interactive wand browser
//
// # Quick Start
//
//	env, err := wand.Initialize(software.New())
//	if err != nil {
//		return err
//	}
//	defer env.Terminate()
//
//	bg, _ := env.NewPixelWand()
//	defer bg.Destroy()
//	bg.SetColor("white")
//
//	img, _ := env.NewMagickWand()
//	defer img.Destroy()
//	img.NewImage(200, 50, bg)
//
//	blob, err := img.WriteImageBlob("PNG")
//
// # Errors
//
// Misuse of the binding (a destroyed wand, an uninitialized environment, an
// invalid enum) returns *errors.Error. Exceptions raised by the native library
// return *fault.WandError, or *fault.FatalError for fatal exceptions and
// panics inside the native call.
package magickwand
