// ABOUTME: Validation-only font inspection: sfnt names and counts, plus cmap coverage checks.
// ABOUTME: Used by packaging to reject files that are not parseable fonts; never rasterises.
package fonts

import (
	"bytes"
	"fmt"
	"unicode"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
)

// Info is what packaging needs to know about a font file.
type Info struct {
	Family     string
	FullName   string
	NumGlyphs  int
	UnitsPerEm int
}

// Inspect parses data as a TrueType/OpenType font and reports its names
// and sizes. An error means the bytes are not a usable font.
func Inspect(data []byte) (Info, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return Info{}, fmt.Errorf("parse font: %w", err)
	}

	var buf sfnt.Buffer
	info := Info{
		NumGlyphs:  f.NumGlyphs(),
		UnitsPerEm: int(f.UnitsPerEm()),
	}
	if name, err := f.Name(&buf, sfnt.NameIDFamily); err == nil {
		info.Family = name
	}
	if name, err := f.Name(&buf, sfnt.NameIDFull); err == nil {
		info.FullName = name
	}
	if info.NumGlyphs == 0 {
		return info, fmt.Errorf("font %q has no glyphs", info.FullName)
	}
	return info, nil
}

// MissingGlyphs returns the runes of text, in order of first appearance,
// that the font's character map does not cover. Control characters are
// ignored.
func MissingGlyphs(data []byte, text string) ([]rune, error) {
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	seen := make(map[rune]bool)
	var missing []rune
	for _, r := range text {
		if unicode.IsControl(r) || seen[r] {
			continue
		}
		seen[r] = true
		if _, ok := face.NominalGlyph(r); !ok {
			missing = append(missing, r)
		}
	}
	return missing, nil
}

// InspectAll inspects every bundled font. It exists so callers can fail
// fast when a dependency upgrade ships a broken font.
func InspectAll() (map[string]Info, error) {
	out := make(map[string]Info, len(bundled))
	for _, a := range bundled {
		info, err := Inspect(a.Data)
		if err != nil {
			return nil, fmt.Errorf("font %s: %w", a.Name, err)
		}
		out[a.Name] = info
	}
	return out, nil
}
