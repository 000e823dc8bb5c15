//go:build magickwand

package magickwand

import (
	"testing"

	"github.com/wippyai/magick-wand/native"
)

func TestLifecycle(t *testing.T) {
	l := New()
	l.Genesis()
	defer l.Terminus()

	if !l.IsInstantiated() {
		t.Fatal("not instantiated after Genesis")
	}

	p := l.New(native.PixelWand)
	if p == 0 {
		t.Fatal("NewPixelWand failed")
	}
	if !l.PixelSetColor(p, "red") {
		t.Fatal("PixelSetColor(red) failed")
	}
	if l.PixelSetColor(p, "no-such-color") {
		t.Fatal("unknown color accepted")
	}
	if code, _ := l.Exception(native.PixelWand, p); code < 400 {
		t.Errorf("exception code = %d, want an error band code", code)
	}

	m := l.New(native.MagickWand)
	if !l.MagickNewImage(m, 16, 8, p) {
		t.Fatal("MagickNewImage failed")
	}
	if !l.MagickSetImageFormat(m, "PNG") {
		t.Fatal("MagickSetImageFormat failed")
	}
	blob := l.MagickGetImageBlob(m)
	if len(blob) == 0 {
		t.Fatal("empty blob")
	}

	c := l.Clone(native.MagickWand, m)
	l.Destroy(native.MagickWand, m)
	if l.IsWand(native.MagickWand, m) {
		t.Error("destroyed handle still a wand")
	}
	if w := l.MagickGetImageWidth(c); w != 16 {
		t.Errorf("clone width = %d", w)
	}
}
