//go:build magickwand

package main

import (
	"github.com/wippyai/magick-wand/config"
	"github.com/wippyai/magick-wand/native"
	"github.com/wippyai/magick-wand/native/magickwand"
)

func init() {
	registerBackend(config.BackendMagickWand, func() native.Library { return magickwand.New() })
}
