package software

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const defaultQuality = 92

var errNoEncoder = errors.New("no encode delegate")

type encoder func(w io.Writer, img image.Image, quality uint) error

// encoders maps a normalized format name to its writer. WEBP decodes but has
// no encoder.
var encoders = map[string]encoder{
	"PNG": func(w io.Writer, img image.Image, _ uint) error {
		return png.Encode(w, img)
	},
	"JPEG": func(w io.Writer, img image.Image, quality uint) error {
		q := int(quality)
		if q <= 0 || q > 100 {
			q = defaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	},
	"GIF": func(w io.Writer, img image.Image, _ uint) error {
		return gif.Encode(w, img, nil)
	},
	"BMP": func(w io.Writer, img image.Image, _ uint) error {
		return bmp.Encode(w, img)
	},
	"TIFF": func(w io.Writer, img image.Image, _ uint) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	},
}

var decoders = map[string]bool{
	"PNG": true, "JPEG": true, "GIF": true, "BMP": true, "TIFF": true, "WEBP": true,
}

// normalizeFormat maps a format name or file extension to its canonical name.
func normalizeFormat(format string) string {
	f := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(format), "."))
	switch f {
	case "JPG", "JPE":
		return "JPEG"
	case "TIF":
		return "TIFF"
	}
	return f
}

func formatFromPath(p string) string {
	return normalizeFormat(filepath.Ext(p))
}

func knownFormat(format string) bool {
	return decoders[format] || encoders[format] != nil
}

func encode(img image.Image, format string, quality uint) ([]byte, error) {
	enc, ok := encoders[format]
	if !ok {
		return nil, errNoEncoder
	}
	var buf bytes.Buffer
	if err := enc(&buf, img, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeFrames decodes every frame of a blob. Animated GIFs yield one frame per
// image composed onto the logical screen.
func decodeFrames(blob []byte) ([]*image.NRGBA, string, error) {
	_, name, err := image.DecodeConfig(bytes.NewReader(blob))
	if err != nil {
		return nil, "", err
	}
	format := normalizeFormat(name)

	if format == "GIF" {
		g, err := gif.DecodeAll(bytes.NewReader(blob))
		if err != nil {
			return nil, format, err
		}
		screen := image.Rect(0, 0, g.Config.Width, g.Config.Height)
		frames := make([]*image.NRGBA, 0, len(g.Image))
		for _, p := range g.Image {
			dst := image.NewNRGBA(screen)
			draw.Draw(dst, p.Bounds(), p, p.Bounds().Min, draw.Src)
			frames = append(frames, dst)
		}
		return frames, format, nil
	}

	img, _, err := image.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, format, err
	}
	return []*image.NRGBA{toNRGBA(img)}, format, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// scaler maps a native FilterType to a resampling kernel.
func scaler(filter int) draw.Scaler {
	switch filter {
	case 1: // Point
		return draw.NearestNeighbor
	case 2: // Box
		return draw.ApproxBiLinear
	case 3: // Triangle
		return draw.BiLinear
	default:
		return draw.CatmullRom
	}
}
