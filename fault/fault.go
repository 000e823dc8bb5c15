package fault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wippyai/magick-wand/native"
)

// Sentinels for errors.Is.
var (
	// ErrPixelWand matches recoverable faults raised by a PixelWand.
	ErrPixelWand = errors.New("pixel wand fault")
	// ErrDrawingWand matches recoverable faults raised by a DrawingWand.
	ErrDrawingWand = errors.New("drawing wand fault")
	// ErrMagickWand matches recoverable faults raised by a MagickWand.
	ErrMagickWand = errors.New("magick wand fault")
	// ErrFatal matches unrecoverable native faults.
	ErrFatal = errors.New("fatal native fault")
)

// NativeFault is an exception reported by the native library.
type NativeFault struct {
	Message string
	Type    ExceptionType
}

func (f NativeFault) String() string {
	if f.Message == "" {
		return f.Type.String()
	}
	return f.Type.String() + ": " + f.Message
}

// Decode builds a NativeFault from a raw code and message.
func Decode(code int, message string) (NativeFault, error) {
	t, err := FromCode(code)
	if err != nil {
		return NativeFault{}, err
	}
	return NativeFault{Type: t, Message: message}, nil
}

// WandError is a recoverable native fault (Error band, or a failed call).
// The wand that raised it stays usable.
type WandError struct {
	Op    string
	Fault NativeFault
	Wand  native.WandType
}

func (e *WandError) Error() string {
	var b strings.Builder
	b.WriteString(e.Wand.String())
	if e.Op != "" {
		b.WriteByte('.')
		b.WriteString(e.Op)
	}
	b.WriteString(": ")
	b.WriteString(e.Fault.String())
	return b.String()
}

// Is matches the per-wand sentinel.
func (e *WandError) Is(target error) bool {
	return target == sentinelFor(e.Wand)
}

func sentinelFor(t native.WandType) error {
	switch t {
	case native.PixelWand:
		return ErrPixelWand
	case native.DrawingWand:
		return ErrDrawingWand
	case native.MagickWand:
		return ErrMagickWand
	default:
		return nil
	}
}

// FatalError is an unrecoverable native fault: a FatalError-band exception or a
// crash inside the native call. The library's internal state may be corrupt;
// callers should stop using the environment rather than retry.
type FatalError struct {
	Panic any
	Fault *NativeFault
	Op    string
	Stack []byte
	Wand  native.WandType
}

func (e *FatalError) Error() string {
	var b strings.Builder
	b.WriteString("fatal: ")
	b.WriteString(e.Wand.String())
	if e.Op != "" {
		b.WriteByte('.')
		b.WriteString(e.Op)
	}
	switch {
	case e.Fault != nil:
		b.WriteString(": ")
		b.WriteString(e.Fault.String())
	case e.Panic != nil:
		fmt.Fprintf(&b, "() panicked: %v", e.Panic)
	}
	return b.String()
}

// Is matches ErrFatal.
func (e *FatalError) Is(target error) bool {
	return target == ErrFatal
}

// Unwrap exposes a panic value that is itself an error.
func (e *FatalError) Unwrap() error {
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}

// Translate turns the status of a native call and the wand's exception state
// into a Go error.
//
//   - a FatalError-band code is always a *FatalError
//   - a failed call is a *WandError carrying whatever is pending
//   - a successful call with a Warning-band code is not an error; the warning
//     stays readable through the wand's exception state
func Translate(wand native.WandType, op string, ok bool, code int, message string) error {
	f, err := Decode(code, message)
	if err != nil {
		return err
	}
	if f.Type.Severity == SeverityFatal {
		return &FatalError{Wand: wand, Op: op, Fault: &f}
	}
	if ok {
		return nil
	}
	return &WandError{Wand: wand, Op: op, Fault: f}
}

// Recovered wraps a panic raised inside a native call.
func Recovered(wand native.WandType, op string, r any, stack []byte) *FatalError {
	return &FatalError{Wand: wand, Op: op, Panic: r, Stack: stack}
}

// IsFatal reports whether err carries an unrecoverable native fault.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}
