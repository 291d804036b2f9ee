// ABOUTME: Packager that turns a manifest plus a package root into a distributable font archive.
// ABOUTME: Validates, resolves includes (failing on any missing path), checks fonts parse, then writes the archive.
package pack

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/2389-research/fontship/fonts"
	"github.com/2389-research/fontship/manifest"
)

// Options controls where and how a package is written.
type Options struct {
	OutDir string // directory for the archive; defaults to the package root
}

// Entry is one file recorded in the archive.
type Entry struct {
	Path   string
	Size   int64
	SHA256 string
}

// Result describes a written package.
type Result struct {
	Archive string                // absolute or OutDir-relative archive path
	Entries []Entry               // files from the include set, sorted by path
	Fonts   map[string]fonts.Info // declared font name -> parsed info
}

// Build packages the files declared by m under root. Nothing is written
// unless every include pattern matches and every declared font parses.
func Build(ctx context.Context, m *manifest.Manifest, root string, opts Options) (*Result, error) {
	if err := manifest.ValidateOrError(m); err != nil {
		return nil, fmt.Errorf("invalid manifest:\n%w", err)
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = root
	}
	archivePath := filepath.Join(outDir, m.ArchiveBase()+".tar.gz")

	fsys := os.DirFS(root)
	files, err := manifest.ResolveIncludes(fsys, m)
	if err != nil {
		return nil, fmt.Errorf("resolve includes: %w", err)
	}
	files = withoutOutputs(files, root, archivePath)
	if err := manifest.CheckFontFiles(fsys, m); err != nil {
		return nil, fmt.Errorf("declared fonts: %w", err)
	}

	infos, err := inspectFonts(fsys, m)
	if err != nil {
		return nil, err
	}

	_, attribution, err := Attribution(m, fsys, files, infos)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	entries, err := writeArchive(ctx, archivePath, m.ArchiveBase(), fsys, files, map[string][]byte{
		"ATTRIBUTION.html": attribution,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("component=pack action=build name=%s version=%s files=%d archive=%s",
		m.Name, m.Version, len(entries), archivePath)

	return &Result{
		Archive: archivePath,
		Entries: entries,
		Fonts:   infos,
	}, nil
}

// withoutOutputs drops the archive Build is about to write, and any temp
// file a previous interrupted run left next to it, when the output dir
// lies inside root. Otherwise a rerun with a broad include would pack its
// own earlier archive.
func withoutOutputs(files []string, root, archivePath string) []string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return files
	}
	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return files
	}
	rel, err := filepath.Rel(absRoot, absArchive)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return files
	}
	archive := filepath.ToSlash(rel)
	dir := path.Dir(archive)

	kept := files[:0:0]
	for _, f := range files {
		if f == archive {
			continue
		}
		if path.Dir(f) == dir {
			if ok, _ := path.Match(tempPattern, path.Base(f)); ok {
				continue
			}
		}
		kept = append(kept, f)
	}
	return kept
}

// inspectFonts parses every declared font. A file that is not a font is a
// packaging error even though the package itself never reads glyphs.
func inspectFonts(fsys fs.FS, m *manifest.Manifest) (map[string]fonts.Info, error) {
	infos := make(map[string]fonts.Info, len(m.Fonts))
	for _, f := range m.Fonts {
		data, err := fs.ReadFile(fsys, f.File)
		if err != nil {
			return nil, fmt.Errorf("reading font %s: %w", f.Name, err)
		}
		info, err := fonts.Inspect(data)
		if err != nil {
			return nil, fmt.Errorf("font %s (%s): %w", f.Name, f.File, err)
		}
		infos[f.Name] = info
	}
	return infos, nil
}
