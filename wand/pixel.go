package wand

import (
	"github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/native"
)

// PixelWand holds one color. Channel values are normalized to [0, 1].
type PixelWand struct {
	w *wand
}

// NewPixelWand allocates a pixel wand, initially opaque black.
func (e *Environment) NewPixelWand() (*PixelWand, error) {
	w, err := e.create(native.PixelWand)
	if err != nil {
		return nil, err
	}
	return track(&PixelWand{w: w}, w), nil
}

// Clone returns an independent copy with its own identity.
func (p *PixelWand) Clone() (*PixelWand, error) {
	w, err := p.inner().clone()
	if err != nil {
		return nil, err
	}
	return track(&PixelWand{w: w}, w), nil
}

// inner returns the shared state. A nil or zero PixelWand yields a detached
// wand that fails every call as null.
// inner returns the shared state. A nil or zero PixelWand yields a detached
// wand that fails every call as null.
func (p *PixelWand) inner() *wand {
	if p == nil || p.w == nil {
		return detached(native.PixelWand)
	}
	return p.w
}

// SetColor parses a color name, #hex value or rgb()/rgba() expression.
func (p *PixelWand) SetColor(color string) error {
	return p.inner().call("SetColor", func(lib native.Library, h native.Handle) bool {
		return lib.PixelSetColor(h, color)
	})
}

// Color returns the color as an srgb()/srgba() expression.
func (p *PixelWand) Color() (string, error) {
	return value(p.inner(), "Color", func(lib native.Library, h native.Handle) string {
		return lib.PixelGetColorAsString(h)
	})
}

// NormalizedColor returns the channels as comma separated values in [0, 1].
func (p *PixelWand) NormalizedColor() (string, error) {
	return value(p.inner(), "NormalizedColor", func(lib native.Library, h native.Handle) string {
		return lib.PixelGetColorAsNormalizedString(h)
	})
}

func (p *PixelWand) Red() (float64, error) {
	return value(p.inner(), "Red", func(lib native.Library, h native.Handle) float64 { return lib.PixelGetRed(h) })
}

func (p *PixelWand) Green() (float64, error) {
	return value(p.inner(), "Green", func(lib native.Library, h native.Handle) float64 { return lib.PixelGetGreen(h) })
}

func (p *PixelWand) Blue() (float64, error) {
	return value(p.inner(), "Blue", func(lib native.Library, h native.Handle) float64 { return lib.PixelGetBlue(h) })
}

func (p *PixelWand) Alpha() (float64, error) {
	return value(p.inner(), "Alpha", func(lib native.Library, h native.Handle) float64 { return lib.PixelGetAlpha(h) })
}

func (p *PixelWand) SetRed(v float64) error {
	return p.inner().do("SetRed", func(lib native.Library, h native.Handle) { lib.PixelSetRed(h, v) })
}

func (p *PixelWand) SetGreen(v float64) error {
	return p.inner().do("SetGreen", func(lib native.Library, h native.Handle) { lib.PixelSetGreen(h, v) })
}

func (p *PixelWand) SetBlue(v float64) error {
	return p.inner().do("SetBlue", func(lib native.Library, h native.Handle) { lib.PixelSetBlue(h, v) })
}

func (p *PixelWand) SetAlpha(v float64) error {
	return p.inner().do("SetAlpha", func(lib native.Library, h native.Handle) { lib.PixelSetAlpha(h, v) })
}

// HSL is a color in hue, saturation, lightness form, each in [0, 1].
type HSL struct {
	Hue        float64
	Saturation float64
	Lightness  float64
}

// HSL returns the color in HSL form.
func (p *PixelWand) HSL() (HSL, error) {
	return value(p.inner(), "HSL", func(lib native.Library, h native.Handle) HSL {
		hue, sat, light := lib.PixelGetHSL(h)
		return HSL{Hue: hue, Saturation: sat, Lightness: light}
	})
}

// SetHSL sets the color from HSL form, keeping alpha.
func (p *PixelWand) SetHSL(c HSL) error {
	return p.inner().do("SetHSL", func(lib native.Library, h native.Handle) {
		lib.PixelSetHSL(h, c.Hue, c.Saturation, c.Lightness)
	})
}

// Fuzz returns the color distance, in quantum units, within which colors compare equal.
func (p *PixelWand) Fuzz() (float64, error) {
	return value(p.inner(), "Fuzz", func(lib native.Library, h native.Handle) float64 { return lib.PixelGetFuzz(h) })
}

func (p *PixelWand) SetFuzz(fuzz float64) error {
	return p.inner().do("SetFuzz", func(lib native.Library, h native.Handle) { lib.PixelSetFuzz(h, fuzz) })
}

// ColorCount returns the histogram count attached to the color.
func (p *PixelWand) ColorCount() (uint, error) {
	return value(p.inner(), "ColorCount", func(lib native.Library, h native.Handle) uint { return lib.PixelGetColorCount(h) })
}

func (p *PixelWand) SetColorCount(count uint) error {
	return p.inner().do("SetColorCount", func(lib native.Library, h native.Handle) { lib.PixelSetColorCount(h, count) })
}

// IsSimilar reports whether two colors are within fuzz quantum units of each other.
func (p *PixelWand) IsSimilar(other *PixelWand, fuzz float64) (bool, error) {
	if fuzz < 0 {
		return false, errors.InvalidInput(errors.PhaseCall, "fuzz must not be negative")
	}
	var similar bool
	err := p.inner().callWith("IsSimilar", other.inner(), func(lib native.Library, h, o native.Handle) bool {
		similar = lib.IsPixelWandSimilar(h, o, fuzz)
		return true
	})
	return similar, err
}
