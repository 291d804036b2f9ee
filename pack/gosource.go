// ABOUTME: Generates a Go source file that embeds a package's fonts as byte slices.
// ABOUTME: This is how consuming libraries receive the fixed logical-name -> bytes mapping.
package pack

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"text/template"
	"unicode"

	"github.com/2389-research/fontship/manifest"
)

var goSourceTmpl = template.Must(template.New("gosource").Parse(`// Code generated by fontship from {{.Manifest}}; DO NOT EDIT.

package {{.Package}}

import _ "embed"

// License is the license expression the fonts below are distributed under.
const License = {{printf "%q" .License}}

var (
{{- range .Fonts}}
	// {{.Ident}} is {{.Name}} ({{.License}}).
	//go:embed {{.File}}
	{{.Ident}} []byte
{{end -}}
)

// Fonts maps logical font names to raw font bytes.
var Fonts = map[string][]byte{
{{- range .Fonts}}
	{{printf "%q" .Name}}: {{.Ident}},
{{- end}}
}
`))

type goFont struct {
	Name    string
	File    string
	License string
	Ident   string
}

// GoSource renders a Go file for package pkg declaring one //go:embed
// variable per font of m. The file must be written to the package root so
// the embed paths resolve.
func GoSource(m *manifest.Manifest, pkg string) ([]byte, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("invalid package name %q", pkg)
	}

	used := map[string]bool{"License": true, "Fonts": true}
	data := struct {
		Manifest string
		Package  string
		License  string
		Fonts    []goFont
	}{
		Manifest: manifest.DefaultFile,
		Package:  pkg,
		License:  m.License,
	}

	for _, f := range m.Fonts {
		if strings.ContainsAny(f.File, " \t\"") {
			return nil, fmt.Errorf("font file %q cannot be embedded: contains whitespace or quotes", f.File)
		}
		ident := uniqueIdent(exportedIdent(f.Name), used)
		data.Fonts = append(data.Fonts, goFont{Name: f.Name, File: f.File, License: f.License, Ident: ident})
	}

	var buf bytes.Buffer
	if err := goSourceTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering go source: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting go source: %w", err)
	}
	return src, nil
}

// exportedIdent turns a logical font name like "Go-Mono-Bold" or
// "emoji-icon-font" into an exported Go identifier ("GoMonoBold",
// "EmojiIconFont").
func exportedIdent(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	ident := sb.String()
	if ident == "" || !unicode.IsLetter([]rune(ident)[0]) {
		ident = "Font" + ident
	}
	return ident
}

func uniqueIdent(base string, used map[string]bool) string {
	ident := base
	for i := 2; used[ident]; i++ {
		ident = fmt.Sprintf("%s%d", base, i)
	}
	used[ident] = true
	return ident
}
