// ABOUTME: Writes the bundled fonts and their license texts to a directory on disk.
// ABOUTME: Produces a tree that the packager can consume with a fonts/*.ttf, licenses/*.txt manifest.
package fonts

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// Export writes every bundled font to dir/fonts/<File> and every license
// text to dir/licenses/<name>. Existing files are overwritten. It returns
// the written paths relative to dir.
func Export(dir string) ([]string, error) {
	fontDir := filepath.Join(dir, "fonts")
	licDir := filepath.Join(dir, "licenses")
	for _, d := range []string{fontDir, licDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", d, err)
		}
	}

	var written []string
	for _, a := range bundled {
		rel := filepath.Join("fonts", a.File)
		if err := os.WriteFile(filepath.Join(dir, rel), a.Data, 0o644); err != nil {
			return written, fmt.Errorf("writing font %s: %w", a.Name, err)
		}
		written = append(written, rel)
	}

	err := fs.WalkDir(LicenseFS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(LicenseFS(), path)
		if err != nil {
			return err
		}
		rel := filepath.Join("licenses", path)
		if err := os.WriteFile(filepath.Join(dir, rel), data, 0o644); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("writing licenses: %w", err)
	}

	log.Printf("component=fonts action=export dir=%s files=%d", dir, len(written))
	return written, nil
}
