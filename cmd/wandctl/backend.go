package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wippyai/magick-wand/errors"
	"github.com/wippyai/magick-wand/native"
)

// backends holds the native libraries compiled into this binary.
var backends = map[string]func() native.Library{}

func registerBackend(name string, open func() native.Library) {
	backends[name] = open
}

func openBackend(name string) (native.Library, error) {
	open, ok := backends[name]
	if !ok {
		names := make([]string, 0, len(backends))
		for n := range backends {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, errors.Unsupported(errors.PhaseInit,
			fmt.Sprintf("backend %q not compiled in (have %s)", name, strings.Join(names, ", ")))
	}
	return open(), nil
}
