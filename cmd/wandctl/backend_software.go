package main

import (
	"github.com/wippyai/magick-wand/config"
	"github.com/wippyai/magick-wand/native"
	"github.com/wippyai/magick-wand/native/software"
)

func init() {
	registerBackend(config.BackendSoftware, func() native.Library { return software.New() })
}
