// ABOUTME: Deterministic tar.gz writer for font packages, with a SHA256SUMS manifest.
// ABOUTME: Writes to a temp file in the target directory and renames only after a clean close.
package pack

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"
)

// archiveEpoch is stamped on every entry so identical inputs give
// byte-identical archives.
var archiveEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// tempPattern names in-progress archives next to the destination.
const tempPattern = ".pack-*.tmp"

// writeArchive writes files from fsys plus the generated extras into a
// gzipped tarball at dest, every entry under prefix/. It returns the
// entries for the included files.
func writeArchive(ctx context.Context, dest, prefix string, fsys fs.FS, files []string, extras map[string][]byte) ([]Entry, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), tempPattern)
	if err != nil {
		return nil, fmt.Errorf("creating temp archive: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	gz := gzip.NewWriter(tmp)
	tw := tar.NewWriter(gz)

	entries := make([]Entry, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := writeEntry(tw, path.Join(prefix, name), data); err != nil {
			return nil, err
		}
		sum := sha256.Sum256(data)
		entries = append(entries, Entry{Path: name, Size: int64(len(data)), SHA256: hex.EncodeToString(sum[:])})
	}

	extraNames := make([]string, 0, len(extras))
	for name := range extras {
		extraNames = append(extraNames, name)
	}
	sort.Strings(extraNames)
	for _, name := range extraNames {
		if err := writeEntry(tw, path.Join(prefix, name), extras[name]); err != nil {
			return nil, err
		}
	}

	if err := writeEntry(tw, path.Join(prefix, "SHA256SUMS"), checksums(entries)); err != nil {
		return nil, err
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp archive: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return nil, fmt.Errorf("moving archive into place: %w", err)
	}
	committed = true
	return entries, nil
}

func writeEntry(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(data)),
		ModTime:  archiveEpoch,
		Typeflag: tar.TypeReg,
		Format:   tar.FormatUSTAR,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header for %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// checksums renders entries in sha256sum(1) format.
func checksums(entries []Entry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, "%s  %s\n", e.SHA256, e.Path)
	}
	return buf.Bytes()
}
