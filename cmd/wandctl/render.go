package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/fault"
	"github.com/wippyai/magick-wand/wand"
)

type renderOptions struct {
	input      string
	output     string
	background string
	text       string
	font       string
	fill       string
	resize     string
	filter     string
	width      uint
	height     uint
	quality    uint
}

// render loads or creates an image, annotates and resizes it, then writes it
// to a file or round-trips it through an in-memory PNG.
func render(w io.Writer, env *wand.Environment, opts renderOptions) error {
	img, err := env.NewMagickWand()
	if err != nil {
		return err
	}
	defer img.Destroy()

	if opts.input != "" {
		err = img.ReadImage(opts.input)
	} else {
		err = newCanvas(env, img, opts)
	}
	if err != nil {
		return err
	}

	if opts.text != "" {
		if err := annotate(env, img, opts); err != nil {
			return err
		}
	}

	if opts.resize != "" {
		if err := resizeImage(img, opts.resize, opts.filter); err != nil {
			return err
		}
	}

	if opts.quality != 0 {
		if err := img.SetImageCompressionQuality(opts.quality); err != nil {
			return err
		}
	}
	reportWarning(img)

	if opts.output != "" {
		if err := img.WriteImage(opts.output); err != nil {
			return err
		}
		return describe(w, opts.output, img)
	}
	return roundTrip(w, env, img)
}

func newCanvas(env *wand.Environment, img *wand.MagickWand, opts renderOptions) error {
	bg, err := env.NewPixelWand()
	if err != nil {
		return err
	}
	defer bg.Destroy()

	if err := bg.SetColor(opts.background); err != nil {
		return err
	}
	return img.NewImage(opts.width, opts.height, bg)
}

func annotate(env *wand.Environment, img *wand.MagickWand, opts renderOptions) error {
	ink, err := env.NewPixelWand()
	if err != nil {
		return err
	}
	defer ink.Destroy()
	if err := ink.SetColor(opts.fill); err != nil {
		return err
	}

	d, err := env.NewDrawingWand()
	if err != nil {
		return err
	}
	defer d.Destroy()

	for _, set := range []func() error{
		func() error { return d.SetFont(opts.font) },
		func() error { return d.SetFillColor(ink) },
		func() error { return d.SetGravity(wand.CenterGravity) },
	} {
		if err := set(); err != nil {
			return err
		}
	}
	return img.AnnotateImage(d, 0, 0, 0, opts.text)
}

func resizeImage(img *wand.MagickWand, geometry, filterName string) error {
	var cols, rows uint
	if _, err := fmt.Sscanf(geometry, "%dx%d", &cols, &rows); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "resize geometry must be WxH")
	}
	filter, err := wand.ParseFilterType(filterName)
	if err != nil {
		return err
	}
	return img.ResizeImage(cols, rows, filter)
}

// roundTrip encodes the image as PNG and decodes it again into a fresh wand.
func roundTrip(w io.Writer, env *wand.Environment, img *wand.MagickWand) error {
	blob, err := img.WriteImageBlob("PNG")
	if err != nil {
		return err
	}

	again, err := env.NewMagickWand()
	if err != nil {
		return err
	}
	defer again.Destroy()

	if err := again.ReadImageBlob(blob); err != nil {
		return err
	}
	return describe(w, fmt.Sprintf("<%d byte blob>", len(blob)), again)
}

func describe(w io.Writer, name string, img *wand.MagickWand) error {
	width, err := img.ImageWidth()
	if err != nil {
		return err
	}
	height, err := img.ImageHeight()
	if err != nil {
		return err
	}
	format, err := img.ImageFormat()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s: %s %dx%d\n", name, format, width, height)
	return err
}

// reportWarning logs a warning a successful call left behind.
func reportWarning(img *wand.MagickWand) {
	f, err := img.Exception()
	if err != nil || f.Type.Severity != fault.SeverityWarning {
		return
	}
	wand.Logger().Warn("native warning",
		zap.Uint64("id", uint64(img.ID())),
		zap.String("exception", f.String()))
	img.ClearException()
}
