package software

import (
	"math"

	"github.com/wippyai/magick-wand/native"
)

type pixelWand struct {
	exc   exception
	color rgba
	fuzz  float64
	count uint
}

func newPixelWand() *pixelWand {
	return &pixelWand{color: black}
}

func (p *pixelWand) clone() *pixelWand {
	c := *p
	return &c
}

func (l *Library) PixelSetColor(h native.Handle, color string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.pixel(h)

	c, ok := parseColor(color)
	if !ok {
		p.exc.raise(codeOptionError, "UnrecognizedColor `%s'", color)
		return false
	}
	p.color = c
	return true
}

func (l *Library) PixelGetColorAsString(h native.Handle) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pixel(h).color.String()
}

func (l *Library) PixelGetColorAsNormalizedString(h native.Handle) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pixel(h).color.normalized()
}

func (l *Library) pixelChannel(h native.Handle, get func(*rgba) *float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *get(&l.pixel(h).color)
}

func (l *Library) setPixelChannel(h native.Handle, v float64, get func(*rgba) *float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*get(&l.pixel(h).color) = clamp01(v)
}

func red(c *rgba) *float64   { return &c.r }
func green(c *rgba) *float64 { return &c.g }
func blue(c *rgba) *float64  { return &c.b }
func alpha(c *rgba) *float64 { return &c.a }

func (l *Library) PixelGetRed(h native.Handle) float64   { return l.pixelChannel(h, red) }
func (l *Library) PixelGetGreen(h native.Handle) float64 { return l.pixelChannel(h, green) }
func (l *Library) PixelGetBlue(h native.Handle) float64  { return l.pixelChannel(h, blue) }
func (l *Library) PixelGetAlpha(h native.Handle) float64 { return l.pixelChannel(h, alpha) }

func (l *Library) PixelSetRed(h native.Handle, v float64)   { l.setPixelChannel(h, v, red) }
func (l *Library) PixelSetGreen(h native.Handle, v float64) { l.setPixelChannel(h, v, green) }
func (l *Library) PixelSetBlue(h native.Handle, v float64)  { l.setPixelChannel(h, v, blue) }
func (l *Library) PixelSetAlpha(h native.Handle, v float64) { l.setPixelChannel(h, v, alpha) }

func (l *Library) PixelGetHSL(h native.Handle) (hue, saturation, lightness float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pixel(h).color.hsl()
}

func (l *Library) PixelSetHSL(h native.Handle, hue, saturation, lightness float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.pixel(h)
	p.color = fromHSL(hue, saturation, lightness, p.color.a)
}

func (l *Library) PixelGetFuzz(h native.Handle) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pixel(h).fuzz
}

func (l *Library) PixelSetFuzz(h native.Handle, fuzz float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pixel(h).fuzz = math.Max(fuzz, 0)
}

func (l *Library) PixelGetColorCount(h native.Handle) uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pixel(h).count
}

func (l *Library) PixelSetColorCount(h native.Handle, count uint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pixel(h).count = count
}

// IsPixelWandSimilar compares two colors within fuzz quantum units. The larger
// of fuzz and either wand's own fuzz applies.
func (l *Library) IsPixelWandSimilar(a, b native.Handle, fuzz float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	pa, pb := l.pixel(a), l.pixel(b)

	limit := math.Max(fuzz, math.Max(pa.fuzz, pb.fuzz))
	return pa.color.distance(pb.color) <= math.Max(limit, 0.5)
}
