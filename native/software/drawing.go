package software

import (
	"fmt"
	"strings"

	"github.com/wippyai/magick-wand/native"
)

// Gravity and alignment values, numbered as the native enums.
const (
	gravityNorthWest = 1
	gravityNorth     = 2
	gravityNorthEast = 3
	gravityWest      = 4
	gravityCenter    = 5
	gravityEast      = 6
	gravitySouthWest = 7
	gravitySouth     = 8
	gravitySouthEast = 9

	alignLeft   = 1
	alignCenter = 2
	alignRight  = 3
)

// textState is the part of a drawing wand that shapes rendered text.
type textState struct {
	font        string
	family      string
	fill        rgba
	fillOpacity float64
	weight      uint
	gravity     int
	align       int
	antialias   bool
}

// annotation is a recorded text primitive.
type annotation struct {
	text  string
	state textState
	x, y  float64
}

type drawingWand struct {
	exc         exception
	stroke      rgba
	mvg         []string
	annotations []annotation
	text        textState
	size        float64
	strokeWidth float64
	style       int
}

func newDrawingWand() *drawingWand {
	return &drawingWand{
		text: textState{
			fill:        black,
			fillOpacity: 1,
			weight:      400,
			antialias:   true,
		},
		stroke:      transparent,
		size:        12,
		strokeWidth: 1,
	}
}

func (d *drawingWand) clone() *drawingWand {
	c := *d
	c.mvg = append([]string(nil), d.mvg...)
	c.annotations = append([]annotation(nil), d.annotations...)
	return &c
}

func (d *drawingWand) record(format string, args ...any) {
	d.mvg = append(d.mvg, fmt.Sprintf(format, args...))
}

func (l *Library) DrawGetFont(h native.Handle) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawing(h).text.font
}

func (l *Library) DrawSetFont(h native.Handle, name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)

	if strings.TrimSpace(name) == "" {
		d.exc.raise(codeOptionError, "InvalidArgument `font'")
		return false
	}
	d.text.font = name
	d.record("font '%s'", name)
	return true
}

func (l *Library) DrawGetFontFamily(h native.Handle) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawing(h).text.family
}

func (l *Library) DrawSetFontFamily(h native.Handle, family string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)

	if strings.TrimSpace(family) == "" {
		d.exc.raise(codeOptionError, "InvalidArgument `font-family'")
		return false
	}
	d.text.family = family
	d.record("font-family '%s'", family)
	return true
}

func (l *Library) DrawGetFontSize(h native.Handle) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawing(h).size
}

func (l *Library) DrawSetFontSize(h native.Handle, size float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	d.size = size
	d.record("font-size %s", formatFloat(size))
}

func (l *Library) DrawGetFontWeight(h native.Handle) uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawing(h).text.weight
}

func (l *Library) DrawSetFontWeight(h native.Handle, weight uint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	d.text.weight = weight
	d.record("font-weight %d", weight)
}

func (l *Library) DrawGetFontStyle(h native.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawing(h).style
}

func (l *Library) DrawSetFontStyle(h native.Handle, style int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	d.style = style
	d.record("font-style %d", style)
}

func (l *Library) DrawGetGravity(h native.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawing(h).text.gravity
}

func (l *Library) DrawSetGravity(h native.Handle, gravity int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	d.text.gravity = gravity
	d.record("gravity %d", gravity)
}

func (l *Library) DrawGetTextAlignment(h native.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawing(h).text.align
}

func (l *Library) DrawSetTextAlignment(h native.Handle, align int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	d.text.align = align
	d.record("text-align %d", align)
}

func (l *Library) DrawGetTextAntialias(h native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawing(h).text.antialias
}

func (l *Library) DrawSetTextAntialias(h native.Handle, on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	d.text.antialias = on
	d.record("text-antialias %t", on)
}

func (l *Library) DrawGetStrokeWidth(h native.Handle) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawing(h).strokeWidth
}

func (l *Library) DrawSetStrokeWidth(h native.Handle, width float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	d.strokeWidth = width
	d.record("stroke-width %s", formatFloat(width))
}

func (l *Library) DrawGetFillOpacity(h native.Handle) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawing(h).text.fillOpacity
}

func (l *Library) DrawSetFillOpacity(h native.Handle, opacity float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	d.text.fillOpacity = clamp01(opacity)
	d.record("fill-opacity %s", formatFloat(d.text.fillOpacity))
}

func (l *Library) DrawGetFillColor(h native.Handle, pixel native.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pixel(pixel).color = l.drawing(h).text.fill
}

func (l *Library) DrawSetFillColor(h native.Handle, pixel native.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	d.text.fill = l.pixel(pixel).color
	d.record("fill '%s'", d.text.fill)
}

func (l *Library) DrawGetStrokeColor(h native.Handle, pixel native.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pixel(pixel).color = l.drawing(h).stroke
}

func (l *Library) DrawSetStrokeColor(h native.Handle, pixel native.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	d.stroke = l.pixel(pixel).color
	d.record("stroke '%s'", d.stroke)
}

func (l *Library) DrawAnnotation(h native.Handle, x, y float64, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	d.annotations = append(d.annotations, annotation{x: x, y: y, text: text, state: d.text})
	d.record("text %s,%s '%s'", formatFloat(x), formatFloat(y), strings.ReplaceAll(text, "'", "\\'"))
}

// DrawGetVectorGraphics returns the recorded primitives as MVG text.
func (l *Library) DrawGetVectorGraphics(h native.Handle) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	if len(d.mvg) == 0 {
		return ""
	}
	return strings.Join(d.mvg, "\n") + "\n"
}

// ClearDrawingWand resets every setting and drops recorded primitives.
// The exception state survives.
func (l *Library) ClearDrawingWand(h native.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.drawing(h)
	exc := d.exc
	*d = *newDrawingWand()
	d.exc = exc
}
