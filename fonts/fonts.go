// ABOUTME: The bundled font set: a fixed mapping from logical font name to raw font bytes.
// ABOUTME: Bytes are the Go font family re-exported from golang.org/x/image; nothing is parsed here.
package fonts

import (
	"errors"
	"sort"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Family names used by Families.
const (
	FamilyProportional = "proportional"
	FamilyMonospace    = "monospace"
)

// ErrUnknownFont is returned when a logical font name is not bundled.
var ErrUnknownFont = errors.New("unknown font")

// Asset is one bundled font: its logical name, the file name it ships
// under, its family, the SPDX id of its license and the raw bytes.
//
// Data is shared with the dependency that provides it and must not be
// modified.
type Asset struct {
	Name    string
	File    string
	Family  string
	License string
	Data    []byte
}

// GoFontsLicense is the SPDX identifier the Go fonts are distributed under.
const GoFontsLicense = "BSD-3-Clause"

var bundled = []Asset{
	{Name: "Go-Regular", File: "Go-Regular.ttf", Family: FamilyProportional, License: GoFontsLicense, Data: goregular.TTF},
	{Name: "Go-Medium", File: "Go-Medium.ttf", Family: FamilyProportional, License: GoFontsLicense, Data: gomedium.TTF},
	{Name: "Go-Bold", File: "Go-Bold.ttf", Family: FamilyProportional, License: GoFontsLicense, Data: gobold.TTF},
	{Name: "Go-Italic", File: "Go-Italic.ttf", Family: FamilyProportional, License: GoFontsLicense, Data: goitalic.TTF},
	{Name: "Go-Mono", File: "Go-Mono.ttf", Family: FamilyMonospace, License: GoFontsLicense, Data: gomono.TTF},
	{Name: "Go-Mono-Bold", File: "Go-Mono-Bold.ttf", Family: FamilyMonospace, License: GoFontsLicense, Data: gomonobold.TTF},
}

// families lists each family's faces in fallback order. The monospace
// family falls back to the primary proportional face for glyphs the mono
// faces lack.
var families = map[string][]string{
	FamilyProportional: {"Go-Regular", "Go-Medium"},
	FamilyMonospace:    {"Go-Mono", "Go-Regular"},
}

// Default returns every bundled font in declaration order. The returned
// slice is a copy; the byte slices are not.
func Default() []Asset {
	out := make([]Asset, len(bundled))
	copy(out, bundled)
	return out
}

// Lookup returns the asset registered under the given logical name.
func Lookup(name string) (Asset, bool) {
	for _, a := range bundled {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// Bytes returns the raw bytes for a logical font name.
func Bytes(name string) ([]byte, bool) {
	a, ok := Lookup(name)
	if !ok {
		return nil, false
	}
	return a.Data, true
}

// Names returns all bundled logical font names, sorted.
func Names() []string {
	names := make([]string, 0, len(bundled))
	for _, a := range bundled {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// Families returns the default family table. The first entry of each
// family is its primary face.
func Families() map[string][]string {
	out := make(map[string][]string, len(families))
	for fam, names := range families {
		out[fam] = append([]string(nil), names...)
	}
	return out
}
