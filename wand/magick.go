package wand

import (
	"github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/native"
)

// MagickWand holds an image sequence and an iterator over it. Most image
// operations act on the current image.
type MagickWand struct {
	w *wand
}

// NewMagickWand allocates an empty image wand.
func (e *Environment) NewMagickWand() (*MagickWand, error) {
	w, err := e.create(native.MagickWand)
	if err != nil {
		return nil, err
	}
	return track(&MagickWand{w: w}, w), nil
}

// Clone returns an independent copy, images included, with its own identity.
func (m *MagickWand) Clone() (*MagickWand, error) {
	w, err := m.inner().clone()
	if err != nil {
		return nil, err
	}
	return track(&MagickWand{w: w}, w), nil
}

// inner returns the shared state. A nil or zero MagickWand yields a detached
// wand that fails every call as null.
func (m *MagickWand) inner() *wand {
	if m == nil || m.w == nil {
		return detached(native.MagickWand)
	}
	return m.w
}

// NewImage appends a blank image filled with the background color.
func (m *MagickWand) NewImage(columns, rows uint, background *PixelWand) error {
	return m.inner().callWith("NewImage", background.inner(), func(lib native.Library, h, bg native.Handle) bool {
		return lib.MagickNewImage(h, columns, rows, bg)
	})
}

// ReadImage appends the images decoded from a file.
func (m *MagickWand) ReadImage(path string) error {
	return m.inner().call("ReadImage", func(lib native.Library, h native.Handle) bool { return lib.MagickReadImage(h, path) })
}

// ReadImageBlob appends the images decoded from an encoded blob.
func (m *MagickWand) ReadImageBlob(blob []byte) error {
	return m.inner().call("ReadImageBlob", func(lib native.Library, h native.Handle) bool { return lib.MagickReadImageBlob(h, blob) })
}

// PingImageBlob reads only the attributes of a blob, not its pixels.
func (m *MagickWand) PingImageBlob(blob []byte) error {
	return m.inner().call("PingImageBlob", func(lib native.Library, h native.Handle) bool { return lib.MagickPingImageBlob(h, blob) })
}

// WriteImage encodes the current image to a file. The format is the image's
// own, or taken from the file extension when the image has none.
func (m *MagickWand) WriteImage(path string) error {
	return m.inner().call("WriteImage", func(lib native.Library, h native.Handle) bool { return lib.MagickWriteImage(h, path) })
}

// ImageBlob encodes the current image in its format.
func (m *MagickWand) ImageBlob() ([]byte, error) {
	return result(m.inner(), "ImageBlob", func(lib native.Library, h native.Handle) ([]byte, bool) {
		blob := lib.MagickGetImageBlob(h)
		return blob, len(blob) > 0
	})
}

// WriteImageBlob sets the image format and encodes the current image.
func (m *MagickWand) WriteImageBlob(format string) ([]byte, error) {
	return result(m.inner(), "WriteImageBlob", func(lib native.Library, h native.Handle) ([]byte, bool) {
		if !lib.MagickSetImageFormat(h, format) {
			return nil, false
		}
		blob := lib.MagickGetImageBlob(h)
		return blob, len(blob) > 0
	})
}

func (m *MagickWand) SetImageFormat(format string) error {
	return m.inner().call("SetImageFormat", func(lib native.Library, h native.Handle) bool { return lib.MagickSetImageFormat(h, format) })
}

func (m *MagickWand) ImageFormat() (string, error) {
	return value(m.inner(), "ImageFormat", func(lib native.Library, h native.Handle) string { return lib.MagickGetImageFormat(h) })
}

func (m *MagickWand) ImageWidth() (uint, error) {
	return value(m.inner(), "ImageWidth", func(lib native.Library, h native.Handle) uint { return lib.MagickGetImageWidth(h) })
}

func (m *MagickWand) ImageHeight() (uint, error) {
	return value(m.inner(), "ImageHeight", func(lib native.Library, h native.Handle) uint { return lib.MagickGetImageHeight(h) })
}

func (m *MagickWand) NumberImages() (uint, error) {
	return value(m.inner(), "NumberImages", func(lib native.Library, h native.Handle) uint { return lib.MagickGetNumberImages(h) })
}

// AddImage appends copies of every image of other.
func (m *MagickWand) AddImage(other *MagickWand) error {
	return m.inner().callWith("AddImage", other.inner(), func(lib native.Library, h, o native.Handle) bool {
		return lib.MagickAddImage(h, o)
	})
}

// ImagePixelColor returns the color at (x, y) of the current image in a new
// PixelWand owned by the caller.
func (m *MagickWand) ImagePixelColor(x, y int) (*PixelWand, error) {
	w := m.inner()
	if !w.IsLive() {
		return nil, errors.NullWand(errors.PhaseCall, w.kind.String(), "ImagePixelColor")
	}
	p, err := w.env.NewPixelWand()
	if err != nil {
		return nil, err
	}
	if err := w.callWith("ImagePixelColor", p.inner(), func(lib native.Library, h, ph native.Handle) bool {
		return lib.MagickGetImagePixelColor(h, x, y, ph)
	}); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

// AnnotateImage renders text onto the current image with the drawing wand's
// settings. angle is in degrees.
func (m *MagickWand) AnnotateImage(d *DrawingWand, x, y, angle float64, text string) error {
	return m.inner().callWith("AnnotateImage", d.inner(), func(lib native.Library, h, dh native.Handle) bool {
		return lib.MagickAnnotateImage(h, dh, x, y, angle, text)
	})
}

// DrawImage renders the primitives recorded on d onto the current image.
func (m *MagickWand) DrawImage(d *DrawingWand) error {
	return m.inner().callWith("DrawImage", d.inner(), func(lib native.Library, h, dh native.Handle) bool {
		return lib.MagickDrawImage(h, dh)
	})
}

func (m *MagickWand) ResizeImage(columns, rows uint, filter FilterType) error {
	if !filter.Valid() {
		return errors.InvalidEnum(errors.PhaseCall, filter, "FilterType")
	}
	return m.inner().call("ResizeImage", func(lib native.Library, h native.Handle) bool {
		return lib.MagickResizeImage(h, columns, rows, int(filter))
	})
}

// CropImage keeps the width x height region at offset (x, y).
func (m *MagickWand) CropImage(width, height uint, x, y int) error {
	return m.inner().call("CropImage", func(lib native.Library, h native.Handle) bool {
		return lib.MagickCropImage(h, width, height, x, y)
	})
}

// FlipImage mirrors the current image vertically.
func (m *MagickWand) FlipImage() error {
	return m.inner().call("FlipImage", func(lib native.Library, h native.Handle) bool { return lib.MagickFlipImage(h) })
}

// FlopImage mirrors the current image horizontally.
func (m *MagickWand) FlopImage() error {
	return m.inner().call("FlopImage", func(lib native.Library, h native.Handle) bool { return lib.MagickFlopImage(h) })
}

func (m *MagickWand) SetImageProperty(name, value string) error {
	return m.inner().call("SetImageProperty", func(lib native.Library, h native.Handle) bool {
		return lib.MagickSetImageProperty(h, name, value)
	})
}

func (m *MagickWand) ImageProperty(name string) (string, error) {
	return value(m.inner(), "ImageProperty", func(lib native.Library, h native.Handle) string {
		return lib.MagickGetImageProperty(h, name)
	})
}

// SetOption sets a coder or wand option, such as "jpeg:size".
func (m *MagickWand) SetOption(key, value string) error {
	return m.inner().call("SetOption", func(lib native.Library, h native.Handle) bool { return lib.MagickSetOption(h, key, value) })
}

func (m *MagickWand) Option(key string) (string, error) {
	return value(m.inner(), "Option", func(lib native.Library, h native.Handle) string { return lib.MagickGetOption(h, key) })
}

func (m *MagickWand) SetImageBackgroundColor(color *PixelWand) error {
	return m.inner().callWith("SetImageBackgroundColor", color.inner(), func(lib native.Library, h, p native.Handle) bool {
		return lib.MagickSetImageBackgroundColor(h, p)
	})
}

// SetImageCompressionQuality sets the quality, 1 to 100, used by lossy encoders.
func (m *MagickWand) SetImageCompressionQuality(quality uint) error {
	if quality > 100 {
		return errors.InvalidInput(errors.PhaseCall, "compression quality must be at most 100")
	}
	return m.inner().call("SetImageCompressionQuality", func(lib native.Library, h native.Handle) bool {
		return lib.MagickSetImageCompressionQuality(h, quality)
	})
}

// ResetIterator makes the first image current.
func (m *MagickWand) ResetIterator() error {
	return m.inner().do("ResetIterator", func(lib native.Library, h native.Handle) { lib.MagickResetIterator(h) })
}
