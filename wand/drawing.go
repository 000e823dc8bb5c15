package wand

import (
	"github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/native"
)

// DrawingWand accumulates text settings and drawing primitives that are later
// rendered onto a MagickWand.
type DrawingWand struct {
	w *wand
}

// NewDrawingWand allocates a drawing wand with default settings.
func (e *Environment) NewDrawingWand() (*DrawingWand, error) {
	w, err := e.create(native.DrawingWand)
	if err != nil {
		return nil, err
	}
	return track(&DrawingWand{w: w}, w), nil
}

// Clone returns an independent copy with its own identity.
func (d *DrawingWand) Clone() (*DrawingWand, error) {
	w, err := d.inner().clone()
	if err != nil {
		return nil, err
	}
	return track(&DrawingWand{w: w}, w), nil
}

// inner returns the shared state. A nil or zero DrawingWand yields a detached
// wand that fails every call as null.
func (d *DrawingWand) inner() *wand {
	if d == nil || d.w == nil {
		return detached(native.DrawingWand)
	}
	return d.w
}

func (d *DrawingWand) Font() (string, error) {
	return value(d.inner(), "Font", func(lib native.Library, h native.Handle) string { return lib.DrawGetFont(h) })
}

// SetFont selects a font by name. Unknown fonts are accepted here and reported
// as a TypeWarning when text is rendered.
func (d *DrawingWand) SetFont(name string) error {
	return d.inner().call("SetFont", func(lib native.Library, h native.Handle) bool { return lib.DrawSetFont(h, name) })
}

func (d *DrawingWand) FontFamily() (string, error) {
	return value(d.inner(), "FontFamily", func(lib native.Library, h native.Handle) string { return lib.DrawGetFontFamily(h) })
}

func (d *DrawingWand) SetFontFamily(family string) error {
	return d.inner().call("SetFontFamily", func(lib native.Library, h native.Handle) bool { return lib.DrawSetFontFamily(h, family) })
}

func (d *DrawingWand) FontSize() (float64, error) {
	return value(d.inner(), "FontSize", func(lib native.Library, h native.Handle) float64 { return lib.DrawGetFontSize(h) })
}

func (d *DrawingWand) SetFontSize(size float64) error {
	if size <= 0 {
		return errors.InvalidInput(errors.PhaseCall, "font size must be positive")
	}
	return d.inner().do("SetFontSize", func(lib native.Library, h native.Handle) { lib.DrawSetFontSize(h, size) })
}

func (d *DrawingWand) FontWeight() (uint, error) {
	return value(d.inner(), "FontWeight", func(lib native.Library, h native.Handle) uint { return lib.DrawGetFontWeight(h) })
}

func (d *DrawingWand) SetFontWeight(weight uint) error {
	return d.inner().do("SetFontWeight", func(lib native.Library, h native.Handle) { lib.DrawSetFontWeight(h, weight) })
}

func (d *DrawingWand) FontStyle() (StyleType, error) {
	return value(d.inner(), "FontStyle", func(lib native.Library, h native.Handle) StyleType {
		return StyleType(lib.DrawGetFontStyle(h))
	})
}

func (d *DrawingWand) SetFontStyle(style StyleType) error {
	if !style.Valid() {
		return errors.InvalidEnum(errors.PhaseCall, style, "StyleType")
	}
	return d.inner().do("SetFontStyle", func(lib native.Library, h native.Handle) { lib.DrawSetFontStyle(h, int(style)) })
}

func (d *DrawingWand) Gravity() (GravityType, error) {
	return value(d.inner(), "Gravity", func(lib native.Library, h native.Handle) GravityType {
		return GravityType(lib.DrawGetGravity(h))
	})
}

func (d *DrawingWand) SetGravity(gravity GravityType) error {
	if !gravity.Valid() {
		return errors.InvalidEnum(errors.PhaseCall, gravity, "GravityType")
	}
	return d.inner().do("SetGravity", func(lib native.Library, h native.Handle) { lib.DrawSetGravity(h, int(gravity)) })
}

func (d *DrawingWand) TextAlignment() (AlignType, error) {
	return value(d.inner(), "TextAlignment", func(lib native.Library, h native.Handle) AlignType {
		return AlignType(lib.DrawGetTextAlignment(h))
	})
}

func (d *DrawingWand) SetTextAlignment(align AlignType) error {
	if !align.Valid() {
		return errors.InvalidEnum(errors.PhaseCall, align, "AlignType")
	}
	return d.inner().do("SetTextAlignment", func(lib native.Library, h native.Handle) { lib.DrawSetTextAlignment(h, int(align)) })
}

func (d *DrawingWand) TextAntialias() (bool, error) {
	return value(d.inner(), "TextAntialias", func(lib native.Library, h native.Handle) bool { return lib.DrawGetTextAntialias(h) })
}

func (d *DrawingWand) SetTextAntialias(on bool) error {
	return d.inner().do("SetTextAntialias", func(lib native.Library, h native.Handle) { lib.DrawSetTextAntialias(h, on) })
}

func (d *DrawingWand) StrokeWidth() (float64, error) {
	return value(d.inner(), "StrokeWidth", func(lib native.Library, h native.Handle) float64 { return lib.DrawGetStrokeWidth(h) })
}

func (d *DrawingWand) SetStrokeWidth(width float64) error {
	return d.inner().do("SetStrokeWidth", func(lib native.Library, h native.Handle) { lib.DrawSetStrokeWidth(h, width) })
}

func (d *DrawingWand) FillOpacity() (float64, error) {
	return value(d.inner(), "FillOpacity", func(lib native.Library, h native.Handle) float64 { return lib.DrawGetFillOpacity(h) })
}

func (d *DrawingWand) SetFillOpacity(opacity float64) error {
	return d.inner().do("SetFillOpacity", func(lib native.Library, h native.Handle) { lib.DrawSetFillOpacity(h, opacity) })
}

// FillColor returns the fill color in a new PixelWand owned by the caller.
func (d *DrawingWand) FillColor() (*PixelWand, error) {
	return d.colorInto("FillColor", func(lib native.Library, h, p native.Handle) { lib.DrawGetFillColor(h, p) })
}

func (d *DrawingWand) SetFillColor(color *PixelWand) error {
	return d.inner().callWith("SetFillColor", color.inner(), func(lib native.Library, h, p native.Handle) bool {
		lib.DrawSetFillColor(h, p)
		return true
	})
}

// StrokeColor returns the stroke color in a new PixelWand owned by the caller.
func (d *DrawingWand) StrokeColor() (*PixelWand, error) {
	return d.colorInto("StrokeColor", func(lib native.Library, h, p native.Handle) { lib.DrawGetStrokeColor(h, p) })
}

func (d *DrawingWand) SetStrokeColor(color *PixelWand) error {
	return d.inner().callWith("SetStrokeColor", color.inner(), func(lib native.Library, h, p native.Handle) bool {
		lib.DrawSetStrokeColor(h, p)
		return true
	})
}

func (d *DrawingWand) colorInto(op string, fn func(lib native.Library, h, p native.Handle)) (*PixelWand, error) {
	w := d.inner()
	if !w.IsLive() {
		return nil, errors.NullWand(errors.PhaseCall, w.kind.String(), op)
	}
	p, err := w.env.NewPixelWand()
	if err != nil {
		return nil, err
	}
	if err := w.callWith(op, p.inner(), func(lib native.Library, h, ph native.Handle) bool {
		fn(lib, h, ph)
		return true
	}); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

// Annotation records text to draw at (x, y) with the current settings.
func (d *DrawingWand) Annotation(x, y float64, text string) error {
	return d.inner().do("Annotation", func(lib native.Library, h native.Handle) { lib.DrawAnnotation(h, x, y, text) })
}

// VectorGraphics returns the recorded settings and primitives as MVG text.
func (d *DrawingWand) VectorGraphics() (string, error) {
	return value(d.inner(), "VectorGraphics", func(lib native.Library, h native.Handle) string {
		return lib.DrawGetVectorGraphics(h)
	})
}

// Clear resets every setting and drops recorded primitives.
func (d *DrawingWand) Clear() error {
	return d.inner().do("Clear", func(lib native.Library, h native.Handle) { lib.ClearDrawingWand(h) })
}
