package native

// Handle is an opaque reference to a wand owned by the native library.
// Handle 0 is reserved and always invalid.
type Handle uintptr

// WandType identifies which native wand family a handle belongs to.
type WandType uint8

const (
	PixelWand WandType = iota
	DrawingWand
	MagickWand
)

// WandTypes lists every wand type in declaration order.
var WandTypes = []WandType{PixelWand, DrawingWand, MagickWand}

func (t WandType) String() string {
	switch t {
	case PixelWand:
		return "PixelWand"
	case DrawingWand:
		return "DrawingWand"
	case MagickWand:
		return "MagickWand"
	default:
		return "UnknownWand"
	}
}

// Valid reports whether t names a known wand type.
func (t WandType) Valid() bool {
	return t <= MagickWand
}

// Library is the native MagickWand collaborator.
//
// Methods mirror the C API: operations that can fail return a bool status
// (MagickTrue/MagickFalse) and leave details in the wand's exception state,
// which is read back with Exception. Implementations are not required to be
// safe for concurrent use of the same handle.
type Library interface {
	// Genesis initializes the library's global state.
	Genesis()

	// Terminus releases the library's global state.
	Terminus()

	// IsInstantiated reports whether Genesis has run without a matching Terminus.
	IsInstantiated() bool

	// QueryFonts returns the font names matching a glob pattern.
	QueryFonts(pattern string) []string

	// SetResourceLimit sets a global resource limit.
	SetResourceLimit(resource int, limit uint64) bool

	// GetResourceLimit returns a global resource limit.
	GetResourceLimit(resource int) uint64

	// New allocates a wand. Returns 0 if allocation failed.
	New(t WandType) Handle

	// Clone duplicates the full state of a wand. Returns 0 if allocation failed.
	Clone(t WandType, h Handle) Handle

	// Destroy releases a wand.
	Destroy(t WandType, h Handle)

	// IsWand reports whether h still refers to a valid wand of type t.
	IsWand(t WandType, h Handle) bool

	// Exception returns the wand's pending exception code and message.
	// Code 0 means no exception.
	Exception(t WandType, h Handle) (code int, message string)

	// ClearException resets the wand's exception state.
	ClearException(t WandType, h Handle)

	Pixel
	Drawing
	Magick
}

// Pixel forwards PixelWand operations. Channel values are normalized to [0, 1].
type Pixel interface {
	PixelSetColor(h Handle, color string) bool
	PixelGetColorAsString(h Handle) string
	PixelGetColorAsNormalizedString(h Handle) string
	PixelGetRed(h Handle) float64
	PixelGetGreen(h Handle) float64
	PixelGetBlue(h Handle) float64
	PixelGetAlpha(h Handle) float64
	PixelSetRed(h Handle, v float64)
	PixelSetGreen(h Handle, v float64)
	PixelSetBlue(h Handle, v float64)
	PixelSetAlpha(h Handle, v float64)
	PixelGetHSL(h Handle) (hue, saturation, lightness float64)
	PixelSetHSL(h Handle, hue, saturation, lightness float64)
	PixelGetFuzz(h Handle) float64
	PixelSetFuzz(h Handle, fuzz float64)
	PixelGetColorCount(h Handle) uint
	PixelSetColorCount(h Handle, count uint)
	IsPixelWandSimilar(a, b Handle, fuzz float64) bool
}

// Drawing forwards DrawingWand operations.
type Drawing interface {
	DrawGetFont(h Handle) string
	DrawSetFont(h Handle, name string) bool
	DrawGetFontFamily(h Handle) string
	DrawSetFontFamily(h Handle, family string) bool
	DrawGetFontSize(h Handle) float64
	DrawSetFontSize(h Handle, size float64)
	DrawGetFontWeight(h Handle) uint
	DrawSetFontWeight(h Handle, weight uint)
	DrawGetFontStyle(h Handle) int
	DrawSetFontStyle(h Handle, style int)
	DrawGetGravity(h Handle) int
	DrawSetGravity(h Handle, gravity int)
	DrawGetTextAlignment(h Handle) int
	DrawSetTextAlignment(h Handle, align int)
	DrawGetTextAntialias(h Handle) bool
	DrawSetTextAntialias(h Handle, on bool)
	DrawGetStrokeWidth(h Handle) float64
	DrawSetStrokeWidth(h Handle, width float64)
	DrawGetFillOpacity(h Handle) float64
	DrawSetFillOpacity(h Handle, opacity float64)
	DrawGetFillColor(h Handle, pixel Handle)
	DrawSetFillColor(h Handle, pixel Handle)
	DrawGetStrokeColor(h Handle, pixel Handle)
	DrawSetStrokeColor(h Handle, pixel Handle)
	DrawAnnotation(h Handle, x, y float64, text string)
	DrawGetVectorGraphics(h Handle) string
	ClearDrawingWand(h Handle)
}

// Magick forwards MagickWand operations.
type Magick interface {
	MagickNewImage(h Handle, columns, rows uint, background Handle) bool
	MagickReadImage(h Handle, path string) bool
	MagickReadImageBlob(h Handle, blob []byte) bool
	MagickPingImageBlob(h Handle, blob []byte) bool
	MagickWriteImage(h Handle, path string) bool
	MagickGetImageBlob(h Handle) []byte
	MagickSetImageFormat(h Handle, format string) bool
	MagickGetImageFormat(h Handle) string
	MagickGetImageWidth(h Handle) uint
	MagickGetImageHeight(h Handle) uint
	MagickGetNumberImages(h Handle) uint
	MagickAddImage(h Handle, other Handle) bool
	MagickGetImagePixelColor(h Handle, x, y int, pixel Handle) bool
	MagickAnnotateImage(h Handle, drawing Handle, x, y, angle float64, text string) bool
	MagickDrawImage(h Handle, drawing Handle) bool
	MagickResizeImage(h Handle, columns, rows uint, filter int) bool
	MagickCropImage(h Handle, width, height uint, x, y int) bool
	MagickFlipImage(h Handle) bool
	MagickFlopImage(h Handle) bool
	MagickSetImageProperty(h Handle, name, value string) bool
	MagickGetImageProperty(h Handle, name string) string
	MagickSetOption(h Handle, key, value string) bool
	MagickGetOption(h Handle, key string) string
	MagickSetImageBackgroundColor(h Handle, pixel Handle) bool
	MagickSetImageCompressionQuality(h Handle, quality uint) bool
	MagickResetIterator(h Handle)
}
