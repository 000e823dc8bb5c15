package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the wand lifecycle the error occurred
type Phase string

const (
	PhaseInit      Phase = "init"      // environment genesis
	PhaseCreate    Phase = "create"    // wand allocation
	PhaseClone     Phase = "clone"     // wand duplication
	PhaseCall      Phase = "call"      // forwarded native operation
	PhaseDestroy   Phase = "destroy"   // wand release
	PhaseTranslate Phase = "translate" // native exception decoding
	PhaseTerminate Phase = "terminate" // environment terminus
	PhaseConfig    Phase = "config"    // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindNullWand           Kind = "null_wand"
	KindNotInitialized     Kind = "not_initialized"
	KindAlreadyInitialized Kind = "already_initialized"
	KindAllocation         Kind = "allocation"
	KindExhausted          Kind = "exhausted"
	KindInvalidEnum        Kind = "invalid_enum"
	KindInvalidInput       Kind = "invalid_input"
	KindUnsupported        Kind = "unsupported"
	KindNotFound           Kind = "not_found"
)

// Sentinels for errors.Is. They match on Kind alone.
var (
	ErrNullWand           = &Error{Kind: KindNullWand}
	ErrNotInitialized     = &Error{Kind: KindNotInitialized}
	ErrAlreadyInitialized = &Error{Kind: KindAlreadyInitialized}
	ErrAllocation         = &Error{Kind: KindAllocation}
	ErrExhausted          = &Error{Kind: KindExhausted}
	ErrInvalidEnum        = &Error{Kind: KindInvalidEnum}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
)

// Error is the structured error type used for binding-side failures.
// Faults reported by the native library are carried by the fault package.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Wand   string
	Op     string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Wand != "" || e.Op != "" {
		b.WriteString(" at ")
		switch {
		case e.Wand != "" && e.Op != "":
			b.WriteString(e.Wand)
			b.WriteByte('.')
			b.WriteString(e.Op)
		case e.Wand != "":
			b.WriteString(e.Wand)
		default:
			b.WriteString(e.Op)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Wand sets the wand type name
func (b *Builder) Wand(name string) *Builder {
	b.err.Wand = name
	return b
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NullWand creates an error for an operation on a destroyed or never-created wand
func NullWand(phase Phase, wand, op string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNullWand,
		Wand:   wand,
		Op:     op,
		Detail: "wand is null",
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// AlreadyInitialized creates an error for a repeated genesis
func AlreadyInitialized(component string) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindAlreadyInitialized,
		Detail: fmt.Sprintf("%s already initialized", component),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, wand string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Wand:   wand,
		Detail: "native allocation failed",
	}
}

// Exhausted creates an identity exhaustion error
func Exhausted(what string) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindExhausted,
		Detail: fmt.Sprintf("%s exhausted", what),
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(phase Phase, value any, enumType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		Detail: fmt.Sprintf("invalid enum value %v for %s", value, enumType),
		Value:  value,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
