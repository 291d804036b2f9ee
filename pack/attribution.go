// ABOUTME: Builds the attribution notice for a font package as markdown and renders it to HTML.
// ABOUTME: Lists every declared font with its license and embeds the full text of each bundled license file.
package pack

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/2389-research/fontship/fonts"
	"github.com/2389-research/fontship/manifest"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var attributionPage = template.Must(template.New("attribution").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Attribution renders the notice for m. files is the resolved include set;
// license texts are taken from it. infos may be nil, in which case glyph
// counts are omitted.
func Attribution(m *manifest.Manifest, fsys fs.FS, files []string, infos map[string]fonts.Info) (markdown, html []byte, err error) {
	var md bytes.Buffer
	fmt.Fprintf(&md, "# %s %s\n\n", m.Name, m.Version)
	if m.Description != "" {
		fmt.Fprintf(&md, "%s\n\n", m.Description)
	}
	fmt.Fprintf(&md, "Package license: `%s`\n\n", m.License)

	if len(m.Fonts) > 0 {
		md.WriteString("## Fonts\n\n")
		md.WriteString("| Name | File | Family | License | Glyphs |\n")
		md.WriteString("|---|---|---|---|---|\n")
		for _, f := range m.Fonts {
			glyphs := "-"
			if info, ok := infos[f.Name]; ok {
				glyphs = fmt.Sprintf("%d", info.NumGlyphs)
			}
			family := f.Family
			if family == "" {
				family = "-"
			}
			fmt.Fprintf(&md, "| %s | `%s` | %s | %s | %s |\n", f.Name, f.File, family, f.License, glyphs)
		}
		md.WriteString("\n")
	}

	licenseFiles := LicenseFiles(files)
	if len(licenseFiles) > 0 {
		md.WriteString("## License texts\n")
		for _, name := range licenseFiles {
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return nil, nil, fmt.Errorf("reading license %s: %w", name, err)
			}
			fmt.Fprintf(&md, "\n### %s\n\n```text\n%s\n```\n", name, strings.TrimRight(string(data), "\n"))
		}
	}

	var body bytes.Buffer
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := conv.Convert(md.Bytes(), &body); err != nil {
		return nil, nil, fmt.Errorf("rendering attribution: %w", err)
	}

	var page bytes.Buffer
	err = attributionPage.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{
		Title: fmt.Sprintf("%s %s attribution", m.Name, m.Version),
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("rendering attribution page: %w", err)
	}

	return md.Bytes(), page.Bytes(), nil
}

// LicenseFiles picks the license texts out of a resolved include set:
// anything under a licenses/ directory, or named LICENSE*, COPYING* or
// OFL*. The result is sorted.
func LicenseFiles(files []string) []string {
	var out []string
	for _, f := range files {
		base := strings.ToUpper(path.Base(f))
		dir := path.Base(path.Dir(f))
		switch {
		case strings.EqualFold(dir, "licenses"),
			strings.HasPrefix(base, "LICENSE"),
			strings.HasPrefix(base, "COPYING"),
			strings.HasPrefix(base, "OFL"):
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
