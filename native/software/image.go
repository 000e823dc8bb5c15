package software

import (
	"bytes"
	"errors"
	"image"
	"maps"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/wippyai/magick-wand/native"
)

// frame is one image of a sequence. A pinged frame has dimensions but no pixels.
type frame struct {
	pix        *image.NRGBA
	props      map[string]string
	format     string
	background rgba
	width      uint
	height     uint
	quality    uint
}

func (f *frame) clone() *frame {
	c := *f
	c.props = maps.Clone(f.props)
	if f.pix != nil {
		c.pix = &image.NRGBA{
			Pix:    append([]uint8(nil), f.pix.Pix...),
			Stride: f.pix.Stride,
			Rect:   f.pix.Rect,
		}
	}
	return &c
}

func (f *frame) setPixels(pix *image.NRGBA) {
	f.pix = pix
	f.width = uint(pix.Bounds().Dx())
	f.height = uint(pix.Bounds().Dy())
}

type magickWand struct {
	exc     exception
	options map[string]string
	images  []*frame
	current int
}

func newMagickWand() *magickWand {
	return &magickWand{options: make(map[string]string)}
}

func (m *magickWand) clone() *magickWand {
	c := &magickWand{
		exc:     m.exc,
		options: maps.Clone(m.options),
		images:  make([]*frame, len(m.images)),
		current: m.current,
	}
	for i, f := range m.images {
		c.images[i] = f.clone()
	}
	return c
}

// active returns the current frame, raising ContainsNoImages when empty.
func (m *magickWand) active(op string) *frame {
	if len(m.images) == 0 {
		m.exc.raise(codeWandError, "ContainsNoImages `%s'", op)
		return nil
	}
	return m.images[m.current]
}

// pixels returns the current frame's pixels, raising when they are missing.
func (m *magickWand) pixels(op string) *frame {
	f := m.active(op)
	if f == nil {
		return nil
	}
	if f.pix == nil {
		m.exc.raise(codeImageError, "ImageHasNoPixels `%s'", op)
		return nil
	}
	return f
}

func (m *magickWand) append(frames ...*frame) {
	m.images = append(m.images, frames...)
	m.current = len(m.images) - 1
}

// checkGeometry enforces the width, height, area and memory limits. Products
// are compared by division so no dimension can overflow them; the memory bound
// never exceeds what an NRGBA buffer can address.
func (l *Library) checkGeometry(m *magickWand, width, height uint) bool {
	w, h := uint64(width), uint64(height)
	memory := min(l.limits[resourceMemory], uint64(math.MaxInt))
	switch {
	case w > l.limits[resourceWidth] || h > l.limits[resourceHeight] ||
		w > math.MaxInt32 || h > math.MaxInt32:
		m.exc.raise(codeResourceLimitError, "WidthOrHeightExceedsLimit `%dx%d'", width, height)
		return false
	case h != 0 && w > l.limits[resourceArea]/h:
		m.exc.raise(codeResourceLimitError, "AreaExceedsLimit `%dx%d'", width, height)
		return false
	case h != 0 && w > memory/4/h:
		m.exc.raise(codeResourceLimitError, "MemoryAllocationFailed `%dx%d'", width, height)
		return false
	}
	return true
}

func (l *Library) checkListLength(m *magickWand, add int) bool {
	if uint64(len(m.images)+add) > l.limits[resourceListLength] {
		m.exc.raise(codeResourceLimitError, "ListLengthExceedsLimit `%d'", len(m.images)+add)
		return false
	}
	return true
}

func (l *Library) MagickNewImage(h native.Handle, columns, rows uint, background native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)
	bg := l.pixel(background).color

	if columns == 0 || rows == 0 {
		m.exc.raise(codeImageError, "NonZeroWidthAndHeightRequired")
		return false
	}
	if !l.checkGeometry(m, columns, rows) || !l.checkListLength(m, 1) {
		return false
	}

	pix := image.NewNRGBA(image.Rect(0, 0, int(columns), int(rows)))
	draw.Draw(pix, pix.Bounds(), image.NewUniform(bg.nrgba()), image.Point{}, draw.Src)
	f := &frame{background: bg, props: make(map[string]string)}
	f.setPixels(pix)
	m.append(f)
	return true
}

func (l *Library) MagickReadImage(h native.Handle, path string) bool {
	blob, err := os.ReadFile(path)

	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)
	if err != nil {
		m.exc.raise(codeBlobError, "UnableToOpenBlob `%s': %v", path, errors.Unwrap(err))
		return false
	}
	return l.readBlob(m, blob, path, false)
}

func (l *Library) MagickReadImageBlob(h native.Handle, blob []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readBlob(l.magick(h), blob, "", false)
}

func (l *Library) MagickPingImageBlob(h native.Handle, blob []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readBlob(l.magick(h), blob, "", true)
}

func (l *Library) readBlob(m *magickWand, blob []byte, filename string, ping bool) bool {
	if len(blob) == 0 {
		m.exc.raise(codeBlobError, "ZeroLengthBlobNotPermitted")
		return false
	}

	if ping {
		cfg, name, err := image.DecodeConfig(bytes.NewReader(blob))
		if err != nil {
			l.raiseDecode(m, err)
			return false
		}
		if !l.checkGeometry(m, uint(cfg.Width), uint(cfg.Height)) || !l.checkListLength(m, 1) {
			return false
		}
		m.append(&frame{
			format: normalizeFormat(name),
			width:  uint(cfg.Width),
			height: uint(cfg.Height),
			props:  map[string]string{},
		})
		return true
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(blob))
	if err != nil {
		l.raiseDecode(m, err)
		return false
	}
	if !l.checkGeometry(m, uint(cfg.Width), uint(cfg.Height)) {
		return false
	}
	frames, format, err := decodeFrames(blob)
	if err != nil {
		l.raiseDecode(m, err)
		return false
	}
	if !l.checkListLength(m, len(frames)) {
		return false
	}
	decoded := make([]*frame, 0, len(frames))
	for _, pix := range frames {
		b := pix.Bounds()
		if !l.checkGeometry(m, uint(b.Dx()), uint(b.Dy())) {
			return false
		}
		f := &frame{format: format, background: white, props: map[string]string{}}
		if filename != "" {
			f.props["filename"] = filename
		}
		f.setPixels(pix)
		decoded = append(decoded, f)
	}
	m.append(decoded...)
	return true
}

func (l *Library) raiseDecode(m *magickWand, err error) {
	if errors.Is(err, image.ErrFormat) {
		m.exc.raise(codeMissingDelegateError, "NoDecodeDelegateForThisImageFormat")
		return
	}
	m.exc.raise(codeCorruptImageError, "ImproperImageHeader: %v", err)
}

func (l *Library) encodeActive(m *magickWand, format, op string) []byte {
	f := m.pixels(op)
	if f == nil {
		return nil
	}
	if format == "" {
		format = f.format
	}
	if format == "" {
		m.exc.raise(codeMissingDelegateError, "NoEncodeDelegateForThisImageFormat `'")
		return nil
	}

	blob, err := encode(f.pix, format, f.quality)
	if errors.Is(err, errNoEncoder) {
		m.exc.raise(codeMissingDelegateError, "NoEncodeDelegateForThisImageFormat `%s'", format)
		return nil
	}
	if err != nil {
		m.exc.raise(codeCorruptImageError, "UnableToEncodeImage `%s': %v", format, err)
		return nil
	}
	return blob
}

func (l *Library) MagickWriteImage(h native.Handle, path string) bool {
	blob := l.blobForPath(h, path)
	if blob == nil {
		return false
	}

	if err := os.WriteFile(path, blob, 0o644); err != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.magick(h).exc.raise(codeFileOpenError, "UnableToOpenFile `%s': %v", path, errors.Unwrap(err))
		return false
	}
	return true
}

// blobForPath encodes the current image, taking the format from the path when
// the image has none.
func (l *Library) blobForPath(h native.Handle, path string) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)

	var format string
	if f := m.active("WriteImage"); f != nil && f.format == "" {
		format = formatFromPath(path)
	}
	return l.encodeActive(m, format, "WriteImage")
}

func (l *Library) MagickGetImageBlob(h native.Handle) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.encodeActive(l.magick(h), "", "GetImageBlob")
}

func (l *Library) MagickSetImageFormat(h native.Handle, format string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)

	f := m.active("SetImageFormat")
	if f == nil {
		return false
	}
	name := normalizeFormat(format)
	if !knownFormat(name) {
		m.exc.raise(codeMissingDelegateError, "NoEncodeDelegateForThisImageFormat `%s'", format)
		return false
	}
	f.format = name
	return true
}

func (l *Library) MagickGetImageFormat(h native.Handle) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f := l.magick(h).active("GetImageFormat"); f != nil {
		return f.format
	}
	return ""
}

func (l *Library) MagickGetImageWidth(h native.Handle) uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f := l.magick(h).active("GetImageWidth"); f != nil {
		return f.width
	}
	return 0
}

func (l *Library) MagickGetImageHeight(h native.Handle) uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f := l.magick(h).active("GetImageHeight"); f != nil {
		return f.height
	}
	return 0
}

func (l *Library) MagickGetNumberImages(h native.Handle) uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return uint(len(l.magick(h).images))
}

func (l *Library) MagickAddImage(h native.Handle, other native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, o := l.magick(h), l.magick(other)

	if len(o.images) == 0 {
		m.exc.raise(codeWandError, "ContainsNoImages `AddImage'")
		return false
	}
	if !l.checkListLength(m, len(o.images)) {
		return false
	}
	for _, f := range o.images {
		m.append(f.clone())
	}
	return true
}

func (l *Library) MagickGetImagePixelColor(h native.Handle, x, y int, pixel native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)
	p := l.pixel(pixel)

	f := m.pixels("GetImagePixelColor")
	if f == nil {
		return false
	}
	if !(image.Point{X: x, Y: y}).In(f.pix.Bounds()) {
		m.exc.raise(codeOptionError, "PixelOutOfRange `%d,%d'", x, y)
		return false
	}
	p.color = fromColor(f.pix.NRGBAAt(x, y))
	return true
}

func (l *Library) MagickAnnotateImage(h native.Handle, drawing native.Handle, x, y, angle float64, text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)
	d := l.drawing(drawing)

	f := m.pixels("AnnotateImage")
	if f == nil {
		return false
	}
	if angle != 0 {
		m.exc.raise(codeDrawWarning, "RotatedTextNotSupported `%s'", formatFloat(angle))
	}
	l.render(m, f, annotation{x: x, y: y, text: text, state: d.text})
	return true
}

func (l *Library) MagickDrawImage(h native.Handle, drawing native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)
	d := l.drawing(drawing)

	f := m.pixels("DrawImage")
	if f == nil {
		return false
	}
	for _, a := range d.annotations {
		l.render(m, f, a)
	}
	return true
}

// render draws one text primitive. An unknown font raises a TypeWarning and
// falls back to the default face.
func (l *Library) render(m *magickWand, f *frame, a annotation) {
	face, found := resolveFace(a.state.font, a.state.family, a.state.weight)
	if !found {
		name := a.state.font
		if name == "" {
			name = a.state.family
		}
		m.exc.raise(codeTypeWarning, "UnableToReadFont `%s'", name)
	}

	fill := a.state.fill
	fill.a *= a.state.fillOpacity
	dr := &font.Drawer{
		Dst:  f.pix,
		Src:  image.NewUniform(fill.nrgba()),
		Face: face,
	}
	width := dr.MeasureString(a.text).Ceil()
	metrics := face.Metrics()
	ascent, descent := metrics.Ascent.Ceil(), metrics.Descent.Ceil()

	x, y := place(a.state.gravity, a.state.align, f.pix.Bounds(), width, ascent, descent, int(a.x), int(a.y))
	dr.Dot = fixed.P(x, y)
	dr.DrawString(a.text)
}

// place computes the text baseline origin for a gravity and alignment. Without
// gravity (x, y) is the baseline origin; with gravity it is an offset from the
// matching edge.
func place(gravity, align int, bounds image.Rectangle, width, ascent, descent, x, y int) (int, int) {
	w, h := bounds.Dx(), bounds.Dy()
	switch gravity {
	case gravityNorthWest:
		return x, y + ascent
	case gravityNorth:
		return (w-width)/2 + x, y + ascent
	case gravityNorthEast:
		return w - width - x, y + ascent
	case gravityWest:
		return x, (h+ascent-descent)/2 + y
	case gravityCenter:
		return (w-width)/2 + x, (h+ascent-descent)/2 + y
	case gravityEast:
		return w - width - x, (h+ascent-descent)/2 + y
	case gravitySouthWest:
		return x, h - descent - y
	case gravitySouth:
		return (w-width)/2 + x, h - descent - y
	case gravitySouthEast:
		return w - width - x, h - descent - y
	}

	switch align {
	case alignCenter:
		x -= width / 2
	case alignRight:
		x -= width
	}
	return x, y
}

func (l *Library) MagickResizeImage(h native.Handle, columns, rows uint, filter int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)

	f := m.pixels("ResizeImage")
	if f == nil {
		return false
	}
	if columns == 0 || rows == 0 {
		m.exc.raise(codeImageError, "NegativeOrZeroImageSize")
		return false
	}
	if !l.checkGeometry(m, columns, rows) {
		return false
	}

	dst := image.NewNRGBA(image.Rect(0, 0, int(columns), int(rows)))
	scaler(filter).Scale(dst, dst.Bounds(), f.pix, f.pix.Bounds(), draw.Src, nil)
	f.setPixels(dst)
	return true
}

func (l *Library) MagickCropImage(h native.Handle, width, height uint, x, y int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)

	f := m.pixels("CropImage")
	if f == nil {
		return false
	}
	r := image.Rect(x, y, x+int(width), y+int(height)).Intersect(f.pix.Bounds())
	if r.Empty() {
		m.exc.raise(codeOptionError, "GeometryDoesNotContainImage `%dx%d%+d%+d'", width, height, x, y)
		return false
	}

	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), f.pix, r.Min, draw.Src)
	f.setPixels(dst)
	return true
}

func (l *Library) MagickFlipImage(h native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)

	f := m.pixels("FlipImage")
	if f == nil {
		return false
	}
	src, b := f.pix, f.pix.Bounds()
	dst := image.NewNRGBA(b)
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[(b.Dy()-1-y)*src.Stride:(b.Dy()-y)*src.Stride])
	}
	f.setPixels(dst)
	return true
}

func (l *Library) MagickFlopImage(h native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)

	f := m.pixels("FlopImage")
	if f == nil {
		return false
	}
	src, b := f.pix, f.pix.Bounds()
	dst := image.NewNRGBA(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetNRGBA(b.Dx()-1-x, y, src.NRGBAAt(x, y))
		}
	}
	f.setPixels(dst)
	return true
}

func (l *Library) MagickSetImageProperty(h native.Handle, name, value string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)

	f := m.active("SetImageProperty")
	if f == nil {
		return false
	}
	if name == "" {
		m.exc.raise(codeOptionError, "InvalidArgument `property'")
		return false
	}
	f.props[name] = value
	return true
}

func (l *Library) MagickGetImageProperty(h native.Handle, name string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f := l.magick(h).active("GetImageProperty"); f != nil {
		return f.props[name]
	}
	return ""
}

func (l *Library) MagickSetOption(h native.Handle, key, value string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)
	if key == "" {
		m.exc.raise(codeOptionError, "InvalidArgument `option'")
		return false
	}
	m.options[key] = value
	return true
}

func (l *Library) MagickGetOption(h native.Handle, key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.magick(h).options[key]
}

func (l *Library) MagickSetImageBackgroundColor(h native.Handle, pixel native.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)
	c := l.pixel(pixel).color

	f := m.active("SetImageBackgroundColor")
	if f == nil {
		return false
	}
	f.background = c
	return true
}

func (l *Library) MagickSetImageCompressionQuality(h native.Handle, quality uint) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := l.magick(h)

	f := m.active("SetImageCompressionQuality")
	if f == nil {
		return false
	}
	f.quality = quality
	return true
}

func (l *Library) MagickResetIterator(h native.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.magick(h).current = 0
}
