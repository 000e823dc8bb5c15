package fault

import (
	"github.com/wippyai/magick-wand/errors"
)

// Severity is the band a native exception code falls into.
type Severity uint8

const (
	SeverityUndefined Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

// Band bases. A category keeps the same offset in every band.
const (
	WarningBase = 300
	ErrorBase   = 400
	FatalBase   = 700
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityFatal:
		return "FatalError"
	default:
		return "Undefined"
	}
}

func (s Severity) base() int {
	switch s {
	case SeverityWarning:
		return WarningBase
	case SeverityError:
		return ErrorBase
	case SeverityFatal:
		return FatalBase
	default:
		return 0
	}
}

// SeverityOf returns the band of a native exception code.
func SeverityOf(code int) Severity {
	switch {
	case code <= 0:
		return SeverityUndefined
	case code < ErrorBase:
		return SeverityWarning
	case code < FatalBase:
		return SeverityError
	default:
		return SeverityFatal
	}
}

// Category is the subsystem that raised an exception.
type Category uint8

const (
	CategoryUndefined Category = iota
	CategoryResourceLimit
	CategoryType
	CategoryOption
	CategoryDelegate
	CategoryMissingDelegate
	CategoryCorruptImage
	CategoryFileOpen
	CategoryBlob
	CategoryStream
	CategoryCache
	CategoryCoder
	CategoryFilter
	CategoryModule
	CategoryDraw
	CategoryImage
	CategoryWand
	CategoryRandom
	CategoryXServer
	CategoryMonitor
	CategoryRegistry
	CategoryConfigure
	CategoryPolicy
)

var categoryInfo = [...]struct {
	name   string
	offset int
}{
	CategoryUndefined:       {"Undefined", -1},
	CategoryResourceLimit:   {"ResourceLimit", 0},
	CategoryType:            {"Type", 5},
	CategoryOption:          {"Option", 10},
	CategoryDelegate:        {"Delegate", 15},
	CategoryMissingDelegate: {"MissingDelegate", 20},
	CategoryCorruptImage:    {"CorruptImage", 25},
	CategoryFileOpen:        {"FileOpen", 30},
	CategoryBlob:            {"Blob", 35},
	CategoryStream:          {"Stream", 40},
	CategoryCache:           {"Cache", 45},
	CategoryCoder:           {"Coder", 50},
	CategoryFilter:          {"Filter", 52},
	CategoryModule:          {"Module", 55},
	CategoryDraw:            {"Draw", 60},
	CategoryImage:           {"Image", 65},
	CategoryWand:            {"Wand", 70},
	CategoryRandom:          {"Random", 75},
	CategoryXServer:         {"XServer", 80},
	CategoryMonitor:         {"Monitor", 85},
	CategoryRegistry:        {"Registry", 90},
	CategoryConfigure:       {"Configure", 95},
	CategoryPolicy:          {"Policy", 99},
}

var categoryByOffset = func() map[int]Category {
	m := make(map[int]Category, len(categoryInfo))
	for c, info := range categoryInfo {
		if info.offset >= 0 {
			m[info.offset] = Category(c)
		}
	}
	return m
}()

func (c Category) String() string {
	if int(c) < len(categoryInfo) {
		return categoryInfo[c].name
	}
	return "Undefined"
}

// Offset returns the band-relative offset of c, or -1 for CategoryUndefined.
func (c Category) Offset() int {
	if int(c) < len(categoryInfo) {
		return categoryInfo[c].offset
	}
	return -1
}

// ExceptionType is a decoded native exception code.
type ExceptionType struct {
	Severity Severity
	Category Category
}

// Undefined is the exception type of a wand with nothing pending.
var Undefined = ExceptionType{}

// NewExceptionType pairs a severity with a category.
func NewExceptionType(s Severity, c Category) ExceptionType {
	return ExceptionType{Severity: s, Category: c}
}

// FromCode decodes a native exception code. Unknown codes are an error,
// never a zero value.
func FromCode(code int) (ExceptionType, error) {
	sev := SeverityOf(code)
	if sev == SeverityUndefined {
		if code == 0 {
			return Undefined, nil
		}
		return Undefined, errors.InvalidEnum(errors.PhaseTranslate, code, "ExceptionType")
	}

	cat, ok := categoryByOffset[code-sev.base()]
	if !ok {
		return Undefined, errors.InvalidEnum(errors.PhaseTranslate, code, "ExceptionType")
	}
	return ExceptionType{Severity: sev, Category: cat}, nil
}

// Code returns the native code for t, or 0 when t is undefined.
func (t ExceptionType) Code() int {
	if t.Severity == SeverityUndefined {
		return 0
	}
	off := t.Category.Offset()
	if off < 0 {
		// generic band code (WarningException, ErrorException, FatalErrorException)
		off = 0
	}
	return t.Severity.base() + off
}

// IsUndefined reports whether t carries no exception.
func (t ExceptionType) IsUndefined() bool {
	return t.Severity == SeverityUndefined
}

func (t ExceptionType) String() string {
	if t.Severity == SeverityUndefined {
		return "UndefinedException"
	}
	if t.Category == CategoryUndefined {
		return t.Severity.String() + "Exception"
	}
	return t.Category.String() + t.Severity.String()
}
