package software

import (
	"path"
	"sort"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
)

const defaultFont = "Fixed"

// Bitmap faces shipped with the library. Sizes are fixed; the font size of a
// drawing wand does not scale them.
var faces = map[string]font.Face{
	"Fixed":            basicfont.Face7x13,
	"Inconsolata":      inconsolata.Regular8x16,
	"Inconsolata-Bold": inconsolata.Bold8x16,
}

var fontNames = func() []string {
	names := make([]string, 0, len(faces))
	for name := range faces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// matchFonts returns the font names matching a glob pattern, case-insensitively.
func matchFonts(pattern string) []string {
	pattern = strings.ToLower(pattern)
	var matched []string
	for _, name := range fontNames {
		if ok, _ := path.Match(pattern, strings.ToLower(name)); ok {
			matched = append(matched, name)
		}
	}
	return matched
}

// resolveFace picks a face for a font name or family and weight. It reports
// false when a requested font is unknown and the default face was substituted.
func resolveFace(name, family string, weight uint) (font.Face, bool) {
	if name != "" {
		for candidate, face := range faces {
			if strings.EqualFold(candidate, name) {
				return face, true
			}
		}
		return faces[defaultFont], false
	}

	if family != "" {
		want := family
		if weight >= 600 {
			want += "-Bold"
		}
		for _, candidate := range []string{want, family} {
			for n, face := range faces {
				if strings.EqualFold(n, candidate) {
					return face, true
				}
			}
		}
		return faces[defaultFont], false
	}

	return faces[defaultFont], true
}
