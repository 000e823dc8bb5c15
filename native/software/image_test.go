package software

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/magick-wand/native"
)

// canvas creates a magick wand holding one w x h image of the given color.
func canvas(t *testing.T, lib *Library, w, h uint, bg string) native.Handle {
	t.Helper()
	m := lib.New(native.MagickWand)
	p := lib.New(native.PixelWand)
	if !lib.PixelSetColor(p, bg) {
		t.Fatalf("PixelSetColor(%q) failed", bg)
	}
	if !lib.MagickNewImage(m, w, h, p) {
		code, msg := lib.Exception(native.MagickWand, m)
		t.Fatalf("MagickNewImage failed: %d %s", code, msg)
	}
	lib.Destroy(native.PixelWand, p)
	return m
}

func pixelAt(t *testing.T, lib *Library, m native.Handle, x, y int) string {
	t.Helper()
	p := lib.New(native.PixelWand)
	defer lib.Destroy(native.PixelWand, p)
	if !lib.MagickGetImagePixelColor(m, x, y, p) {
		t.Fatalf("MagickGetImagePixelColor(%d, %d) failed", x, y)
	}
	return lib.PixelGetColorAsString(p)
}

func pngBlob(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestMagick_NewImage(t *testing.T) {
	lib := newLib(t)
	m := canvas(t, lib, 20, 10, "white")

	if lib.MagickGetImageWidth(m) != 20 || lib.MagickGetImageHeight(m) != 10 {
		t.Fatalf("size = %dx%d", lib.MagickGetImageWidth(m), lib.MagickGetImageHeight(m))
	}
	if got := pixelAt(t, lib, m, 5, 5); got != "srgb(255,255,255)" {
		t.Errorf("pixel = %q", got)
	}

	p := lib.New(native.PixelWand)
	if lib.MagickNewImage(m, 0, 10, p) {
		t.Fatal("zero-width image accepted")
	}
	if code, _ := lib.Exception(native.MagickWand, m); code != codeImageError {
		t.Errorf("exception = %d, want ImageError", code)
	}
}

func TestMagick_EmptyWand(t *testing.T) {
	lib := newLib(t)
	m := lib.New(native.MagickWand)

	if w := lib.MagickGetImageWidth(m); w != 0 {
		t.Fatalf("width of empty wand = %d", w)
	}
	code, msg := lib.Exception(native.MagickWand, m)
	if code != codeWandError || msg == "" {
		t.Fatalf("Exception() = (%d, %q), want WandError", code, msg)
	}
	if lib.MagickGetImageBlob(m) != nil {
		t.Fatal("blob from empty wand")
	}
}

func TestMagick_BlobRoundTrip(t *testing.T) {
	lib := newLib(t)
	m := canvas(t, lib, 16, 8, "blue")

	for _, format := range []string{"png", "JPEG", "gif", "bmp", "tif"} {
		t.Run(format, func(t *testing.T) {
			if !lib.MagickSetImageFormat(m, format) {
				t.Fatalf("MagickSetImageFormat(%q) failed", format)
			}
			blob := lib.MagickGetImageBlob(m)
			if len(blob) == 0 {
				code, msg := lib.Exception(native.MagickWand, m)
				t.Fatalf("empty blob: %d %s", code, msg)
			}

			r := lib.New(native.MagickWand)
			if !lib.MagickReadImageBlob(r, blob) {
				code, msg := lib.Exception(native.MagickWand, r)
				t.Fatalf("MagickReadImageBlob failed: %d %s", code, msg)
			}
			if lib.MagickGetImageWidth(r) != 16 || lib.MagickGetImageHeight(r) != 8 {
				t.Errorf("decoded size = %dx%d", lib.MagickGetImageWidth(r), lib.MagickGetImageHeight(r))
			}
			if got, want := lib.MagickGetImageFormat(r), normalizeFormat(format); got != want {
				t.Errorf("decoded format = %q, want %q", got, want)
			}
		})
	}
}

func TestMagick_ReadErrors(t *testing.T) {
	lib := newLib(t)
	tests := []struct {
		name string
		blob []byte
		code int
	}{
		{"empty", nil, codeBlobError},
		{"unknown format", []byte("definitely not an image"), codeMissingDelegateError},
		{"truncated png", pngBlob(t, 4, 4)[:40], codeCorruptImageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := lib.New(native.MagickWand)
			if lib.MagickReadImageBlob(m, tt.blob) {
				t.Fatal("MagickReadImageBlob succeeded")
			}
			if code, _ := lib.Exception(native.MagickWand, m); code != tt.code {
				t.Errorf("exception = %d, want %d", code, tt.code)
			}
		})
	}
}

func TestMagick_Ping(t *testing.T) {
	lib := newLib(t)
	m := lib.New(native.MagickWand)

	if !lib.MagickPingImageBlob(m, pngBlob(t, 7, 3)) {
		t.Fatal("MagickPingImageBlob failed")
	}
	if lib.MagickGetImageWidth(m) != 7 || lib.MagickGetImageHeight(m) != 3 {
		t.Fatal("ping did not record dimensions")
	}
	if lib.MagickGetImageBlob(m) != nil {
		t.Fatal("pinged image should have no pixels")
	}
	if code, _ := lib.Exception(native.MagickWand, m); code != codeImageError {
		t.Errorf("exception = %d, want ImageError", code)
	}
}

func TestMagick_AnimatedGIF(t *testing.T) {
	pal := color.Palette{color.Black, color.White}
	anim := &gif.GIF{
		Image: []*image.Paletted{
			image.NewPaletted(image.Rect(0, 0, 4, 4), pal),
			image.NewPaletted(image.Rect(0, 0, 4, 4), pal),
			image.NewPaletted(image.Rect(0, 0, 4, 4), pal),
		},
		Delay: []int{0, 0, 0},
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		t.Fatal(err)
	}

	lib := newLib(t)
	m := lib.New(native.MagickWand)
	if !lib.MagickReadImageBlob(m, buf.Bytes()) {
		t.Fatal("MagickReadImageBlob failed")
	}
	if n := lib.MagickGetNumberImages(m); n != 3 {
		t.Fatalf("MagickGetNumberImages() = %d, want 3", n)
	}

	lib.SetResourceLimit(resourceListLength, 2)
	r := lib.New(native.MagickWand)
	if lib.MagickReadImageBlob(r, buf.Bytes()) {
		t.Fatal("list length limit ignored")
	}
	if code, _ := lib.Exception(native.MagickWand, r); code != codeResourceLimitError {
		t.Errorf("exception = %d, want ResourceLimitError", code)
	}
}

func TestMagick_FileRoundTrip(t *testing.T) {
	lib := newLib(t)
	m := canvas(t, lib, 5, 5, "green")
	path := filepath.Join(t.TempDir(), "out.png")

	if !lib.MagickWriteImage(m, path) {
		code, msg := lib.Exception(native.MagickWand, m)
		t.Fatalf("MagickWriteImage failed: %d %s", code, msg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}

	r := lib.New(native.MagickWand)
	if !lib.MagickReadImage(r, path) {
		t.Fatal("MagickReadImage failed")
	}
	if lib.MagickGetImageProperty(r, "filename") != path {
		t.Error("filename property not set")
	}

	if lib.MagickWriteImage(m, filepath.Join(t.TempDir(), "missing", "dir", "x.png")) {
		t.Fatal("write into a missing directory succeeded")
	}
	if code, _ := lib.Exception(native.MagickWand, m); code != codeFileOpenError {
		t.Errorf("exception = %d, want FileOpenError", code)
	}

	if lib.MagickReadImage(lib.New(native.MagickWand), filepath.Join(t.TempDir(), "nope.png")) {
		t.Fatal("read of a missing file succeeded")
	}
}

func TestMagick_Geometry(t *testing.T) {
	lib := newLib(t)

	// 4x2 white image with a black top-left corner
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	m := lib.New(native.MagickWand)
	if !lib.MagickReadImageBlob(m, buf.Bytes()) {
		t.Fatal("MagickReadImageBlob failed")
	}

	c := lib.Clone(native.MagickWand, m)
	if !lib.MagickFlopImage(c) {
		t.Fatal("MagickFlopImage failed")
	}
	if pixelAt(t, lib, c, 3, 0) != "srgb(0,0,0)" || pixelAt(t, lib, c, 0, 0) != "srgb(255,255,255)" {
		t.Error("flop did not mirror horizontally")
	}
	if pixelAt(t, lib, m, 0, 0) != "srgb(0,0,0)" {
		t.Error("flop changed the clone source")
	}

	c = lib.Clone(native.MagickWand, m)
	if !lib.MagickFlipImage(c) {
		t.Fatal("MagickFlipImage failed")
	}
	if pixelAt(t, lib, c, 0, 1) != "srgb(0,0,0)" {
		t.Error("flip did not mirror vertically")
	}

	c = lib.Clone(native.MagickWand, m)
	if !lib.MagickCropImage(c, 2, 2, 1, 0) {
		t.Fatal("MagickCropImage failed")
	}
	if lib.MagickGetImageWidth(c) != 2 {
		t.Errorf("cropped width = %d", lib.MagickGetImageWidth(c))
	}
	if lib.MagickCropImage(c, 2, 2, 50, 50) {
		t.Fatal("crop outside the image succeeded")
	}
	if code, _ := lib.Exception(native.MagickWand, c); code != codeOptionError {
		t.Errorf("exception = %d, want OptionError", code)
	}

	c = lib.Clone(native.MagickWand, m)
	for _, filter := range []int{1, 2, 3, 22} {
		if !lib.MagickResizeImage(c, 8, 4, filter) {
			t.Fatalf("MagickResizeImage(filter %d) failed", filter)
		}
	}
	if lib.MagickGetImageWidth(c) != 8 || lib.MagickGetImageHeight(c) != 4 {
		t.Errorf("resized to %dx%d", lib.MagickGetImageWidth(c), lib.MagickGetImageHeight(c))
	}
	if lib.MagickResizeImage(c, 0, 4, 0) {
		t.Fatal("resize to zero width succeeded")
	}
}

func TestMagick_ResourceLimit(t *testing.T) {
	lib := newLib(t)
	lib.SetResourceLimit(resourceWidth, 10)

	m := lib.New(native.MagickWand)
	p := lib.New(native.PixelWand)
	if lib.MagickNewImage(m, 11, 1, p) {
		t.Fatal("width limit ignored")
	}
	if code, _ := lib.Exception(native.MagickWand, m); code != codeResourceLimitError {
		t.Errorf("exception = %d, want ResourceLimitError", code)
	}

	lib.SetResourceLimit(resourceArea, 20)
	if lib.MagickNewImage(m, 5, 5, p) {
		t.Fatal("area limit ignored")
	}
}

func TestMagick_HugeGeometry(t *testing.T) {
	lib := newLib(t)
	m := lib.New(native.MagickWand)
	p := lib.New(native.PixelWand)

	tests := []struct {
		name string
		w, h uint
		msg  string
	}{
		{"product overflows", 1 << 32, 1 << 32, "WidthOrHeightExceedsLimit"},
		{"above int32", 1 << 31, 1, "WidthOrHeightExceedsLimit"},
		{"area over default", 100000, 100000, "AreaExceedsLimit"},
		{"area wraps", 1 << 30, 1 << 30, "AreaExceedsLimit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib.ClearException(native.MagickWand, m)
			if lib.MagickNewImage(m, tt.w, tt.h, p) {
				t.Fatalf("%dx%d accepted", tt.w, tt.h)
			}
			code, msg := lib.Exception(native.MagickWand, m)
			if code != codeResourceLimitError || !strings.Contains(msg, tt.msg) {
				t.Errorf("exception = (%d, %q), want ResourceLimitError %s", code, msg, tt.msg)
			}
		})
	}

	lib.SetResourceLimit(resourceArea, unlimited)
	lib.SetResourceLimit(resourceMemory, unlimited)
	lib.ClearException(native.MagickWand, m)
	if lib.MagickNewImage(m, math.MaxInt32, math.MaxInt32, p) {
		t.Fatal("unaddressable image accepted without limits")
	}
	if code, _ := lib.Exception(native.MagickWand, m); code != codeResourceLimitError {
		t.Errorf("exception = %d, want ResourceLimitError", code)
	}

	lib.ClearException(native.MagickWand, m)
	c := canvas(t, lib, 4, 4, "white")
	if lib.MagickResizeImage(c, 1<<32, 1<<32, 0) {
		t.Fatal("huge resize accepted")
	}
	if code, _ := lib.Exception(native.MagickWand, c); code != codeResourceLimitError {
		t.Errorf("resize exception = %d, want ResourceLimitError", code)
	}
}

func TestMagick_DecodeChecksHeaderGeometry(t *testing.T) {
	lib := newLib(t)
	lib.SetResourceLimit(resourceArea, 100)

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 20, 20))); err != nil {
		t.Fatal(err)
	}
	for _, ping := range []bool{false, true} {
		m := lib.New(native.MagickWand)
		read := lib.MagickReadImageBlob
		if ping {
			read = lib.MagickPingImageBlob
		}
		if read(m, buf.Bytes()) {
			t.Fatalf("ping=%v: 20x20 accepted under a 100 pixel area limit", ping)
		}
		if code, _ := lib.Exception(native.MagickWand, m); code != codeResourceLimitError {
			t.Errorf("ping=%v: exception = %d, want ResourceLimitError", ping, code)
		}
	}
}

func TestMagick_Annotate(t *testing.T) {
	lib := newLib(t)
	m := canvas(t, lib, 60, 20, "white")
	d := lib.New(native.DrawingWand)

	if !lib.MagickAnnotateImage(m, d, 2, 14, 0, "Hi") {
		t.Fatal("MagickAnnotateImage failed")
	}
	if code, _ := lib.Exception(native.MagickWand, m); code != 0 {
		t.Fatalf("unexpected exception %d", code)
	}

	dark := false
	for x := 0; x < 20 && !dark; x++ {
		for y := 0; y < 20 && !dark; y++ {
			dark = pixelAt(t, lib, m, x, y) != "srgb(255,255,255)"
		}
	}
	if !dark {
		t.Fatal("no text pixels rendered")
	}

	// unknown font: warning, still drawn
	lib.DrawSetFont(d, "NoSuchFont")
	if !lib.MagickAnnotateImage(m, d, 2, 14, 0, "Hi") {
		t.Fatal("annotate with unknown font failed")
	}
	code, msg := lib.Exception(native.MagickWand, m)
	if code != codeTypeWarning {
		t.Fatalf("exception = (%d, %q), want TypeWarning", code, msg)
	}
}

func TestMagick_DrawImage(t *testing.T) {
	lib := newLib(t)
	m := canvas(t, lib, 40, 40, "white")
	d := lib.New(native.DrawingWand)
	lib.DrawSetGravity(d, gravityCenter)
	lib.DrawAnnotation(d, 0, 0, "X")

	if !lib.MagickDrawImage(m, d) {
		t.Fatal("MagickDrawImage failed")
	}
	dark := false
	for x := 14; x < 26 && !dark; x++ {
		for y := 12; y < 28 && !dark; y++ {
			dark = pixelAt(t, lib, m, x, y) != "srgb(255,255,255)"
		}
	}
	if !dark {
		t.Fatal("centered text not found near the middle")
	}
}

func TestMagick_PropertiesAndOptions(t *testing.T) {
	lib := newLib(t)
	m := lib.New(native.MagickWand)

	if !lib.MagickSetOption(m, "jpeg:size", "64x64") {
		t.Fatal("MagickSetOption failed")
	}
	if lib.MagickGetOption(m, "jpeg:size") != "64x64" {
		t.Error("option not stored")
	}

	if lib.MagickSetImageProperty(m, "comment", "x") {
		t.Fatal("property set without an image")
	}

	lib.MagickAddImage(m, canvas(t, lib, 2, 2, "red"))
	if !lib.MagickSetImageProperty(m, "comment", "hello") {
		t.Fatal("MagickSetImageProperty failed")
	}
	if lib.MagickGetImageProperty(m, "comment") != "hello" {
		t.Error("property not stored")
	}
	if !lib.MagickSetImageCompressionQuality(m, 50) {
		t.Error("MagickSetImageCompressionQuality failed")
	}
	if !lib.MagickSetImageFormat(m, "jpg") || lib.MagickGetImageFormat(m) != "JPEG" {
		t.Error("jpg alias not normalized")
	}
	if lib.MagickSetImageFormat(m, "xyz") {
		t.Error("unknown format accepted")
	}
	lib.MagickSetImageFormat(m, "webp")
	if lib.MagickGetImageBlob(m) != nil {
		t.Error("webp has no encoder")
	}
}

func TestMagick_AddImageAndIterator(t *testing.T) {
	lib := newLib(t)
	m := canvas(t, lib, 3, 3, "red")
	o := canvas(t, lib, 5, 5, "blue")

	if !lib.MagickAddImage(m, o) {
		t.Fatal("MagickAddImage failed")
	}
	if lib.MagickGetNumberImages(m) != 2 || lib.MagickGetImageWidth(m) != 5 {
		t.Fatal("added image is not current")
	}
	lib.MagickResetIterator(m)
	if lib.MagickGetImageWidth(m) != 3 {
		t.Fatal("ResetIterator did not rewind")
	}
	if lib.MagickAddImage(m, lib.New(native.MagickWand)) {
		t.Fatal("adding an empty wand succeeded")
	}
}
