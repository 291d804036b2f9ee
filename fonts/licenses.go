// ABOUTME: License texts shipped alongside the bundled fonts, embedded at compile time.
// ABOUTME: A missing license file fails the Go build, the same way a missing declared asset fails packaging.
package fonts

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed licenses/*.txt
var licenseFS embed.FS

// licenseFiles maps SPDX ids to files under licenses/.
var licenseFiles = map[string]string{
	GoFontsLicense: "licenses/go-fonts.txt",
}

// LicenseText returns the full license text for an SPDX id used by a
// bundled font.
func LicenseText(id string) (string, error) {
	path, ok := licenseFiles[id]
	if !ok {
		return "", fmt.Errorf("no license text bundled for %q", id)
	}
	data, err := licenseFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading license %q: %w", id, err)
	}
	return string(data), nil
}

// Licenses returns the sorted SPDX ids that have bundled license texts.
func Licenses() []string {
	ids := make([]string, 0, len(licenseFiles))
	for id := range licenseFiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LicenseExpression is the conjunction of every bundled font's license,
// suitable for a package manifest's license field.
func LicenseExpression() string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range bundled {
		if !seen[a.License] {
			seen[a.License] = true
			ids = append(ids, a.License)
		}
	}
	sort.Strings(ids)
	return strings.Join(ids, " AND ")
}

// LicenseFS exposes the embedded license directory.
func LicenseFS() fs.FS {
	sub, err := fs.Sub(licenseFS, "licenses")
	if err != nil {
		panic(err)
	}
	return sub
}
