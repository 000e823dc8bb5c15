package software

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// quantumRange is the channel scale of a Q16 build; fuzz values use it.
const quantumRange = 65535.0

// rgba is a color with normalized channels in [0, 1].
type rgba struct {
	r, g, b, a float64
}

var (
	black       = rgba{0, 0, 0, 1}
	white       = rgba{1, 1, 1, 1}
	transparent = rgba{0, 0, 0, 0}
)

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func (c rgba) clamped() rgba {
	return rgba{clamp01(c.r), clamp01(c.g), clamp01(c.b), clamp01(c.a)}
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func (c rgba) nrgba() color.NRGBA {
	return color.NRGBA{R: to8(c.r), G: to8(c.g), B: to8(c.b), A: to8(c.a)}
}

func fromColor(c color.Color) rgba {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return rgba{
		r: float64(n.R) / quantumRange,
		g: float64(n.G) / quantumRange,
		b: float64(n.B) / quantumRange,
		a: float64(n.A) / quantumRange,
	}
}

// String formats the color the way PixelGetColorAsString does.
func (c rgba) String() string {
	if c.a >= 1 {
		return fmt.Sprintf("srgb(%d,%d,%d)", to8(c.r), to8(c.g), to8(c.b))
	}
	return fmt.Sprintf("srgba(%d,%d,%d,%s)", to8(c.r), to8(c.g), to8(c.b), formatFloat(c.a))
}

// normalized formats the color the way PixelGetColorAsNormalizedString does.
func (c rgba) normalized() string {
	s := formatFloat(c.r) + "," + formatFloat(c.g) + "," + formatFloat(c.b)
	if c.a < 1 {
		s += "," + formatFloat(c.a)
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'g', -1, 64)
}

func (c rgba) hsl() (h, s, l float64) {
	h, s, l = colorful.Color{R: c.r, G: c.g, B: c.b}.Hsl()
	return h / 360, s, l
}

func fromHSL(h, s, l, alpha float64) rgba {
	c := colorful.Hsl(math.Mod(h, 1)*360, clamp01(s), clamp01(l)).Clamped()
	return rgba{r: c.R, g: c.G, b: c.B, a: alpha}
}

// distance is the Euclidean distance between two colors in quantum units.
func (c rgba) distance(o rgba) float64 {
	dr, dg, db, da := c.r-o.r, c.g-o.g, c.b-o.b, c.a-o.a
	return math.Sqrt(dr*dr+dg*dg+db*db+da*da) * quantumRange
}

// parseColor accepts color names, #hex forms and rgb()/rgba()/srgb()/srgba().
func parseColor(s string) (rgba, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return rgba{}, false
	case "none", "transparent":
		return transparent, true
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if open := strings.IndexByte(s, '('); open > 0 && strings.HasSuffix(s, ")") {
		return parseFunctional(s[:open], s[open+1:len(s)-1])
	}
	if c, ok := colornames.Map[s]; ok {
		return fromColor(c), true
	}
	return rgba{}, false
}

func parseHex(h string) (rgba, bool) {
	var digits int
	switch len(h) {
	case 3, 4:
		digits = 1
	case 6, 8:
		digits = 2
	case 12, 16:
		digits = 4
	default:
		return rgba{}, false
	}

	channels := len(h) / digits
	top := math.Pow(16, float64(digits)) - 1
	vals := [4]float64{0, 0, 0, 1}
	for i := 0; i < channels; i++ {
		v, err := strconv.ParseUint(h[i*digits:(i+1)*digits], 16, 64)
		if err != nil {
			return rgba{}, false
		}
		vals[i] = float64(v) / top
	}
	return rgba{vals[0], vals[1], vals[2], vals[3]}, true
}

func parseFunctional(name, args string) (rgba, bool) {
	parts := strings.Split(args, ",")
	switch name {
	case "rgb", "srgb":
		if len(parts) != 3 {
			return rgba{}, false
		}
	case "rgba", "srgba":
		if len(parts) != 4 {
			return rgba{}, false
		}
	default:
		return rgba{}, false
	}

	vals := [4]float64{0, 0, 0, 1}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		scale := 255.0
		if i == 3 {
			scale = 1
		}
		if strings.HasSuffix(p, "%") {
			p = strings.TrimSuffix(p, "%")
			scale = 100
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return rgba{}, false
		}
		vals[i] = clamp01(v / scale)
	}
	return rgba{vals[0], vals[1], vals[2], vals[3]}, true
}
