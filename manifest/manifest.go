// ABOUTME: Package manifest model for distributable font bundles, loaded from YAML.
// ABOUTME: Declares name, version, license expression, include globs and the fonts with their licenses.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/2389-research/fontship/fonts"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the manifest file name looked up when none is given.
const DefaultFile = "fontpack.yaml"

// Manifest describes one distributable font package.
type Manifest struct {
	Name        string     `yaml:"name"`
	Version     string     `yaml:"version"`
	Description string     `yaml:"description,omitempty"`
	License     string     `yaml:"license"`
	Include     []string   `yaml:"include"`
	Fonts       []FontDecl `yaml:"fonts"`
}

// FontDecl declares one font file of the package and the logical name
// consumers will look it up by.
type FontDecl struct {
	Name    string `yaml:"name"`
	File    string `yaml:"file"`
	Family  string `yaml:"family,omitempty"`
	License string `yaml:"license"`
}

// Parse decodes a manifest from YAML. Unknown fields are rejected so a
// typo like "includes:" does not silently drop every file.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest is empty")
		}
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Marshal encodes the manifest as YAML.
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// FontFiles returns the declared font file paths in declaration order.
func (m *Manifest) FontFiles() []string {
	files := make([]string, 0, len(m.Fonts))
	for _, f := range m.Fonts {
		files = append(files, f.File)
	}
	return files
}

// ArchiveBase is the base name used for the package archive and its
// top-level directory, e.g. "default-fonts-0.3.0".
func (m *Manifest) ArchiveBase() string {
	return m.Name + "-" + m.Version
}

// Bundled returns a manifest describing the fonts built into this module,
// laid out the way fonts.Export writes them.
func Bundled(name, version string) *Manifest {
	m := &Manifest{
		Name:        name,
		Version:     version,
		Description: "Default fonts bundled for the rendering library",
		License:     fonts.LicenseExpression(),
		Include:     []string{"fonts/*.ttf", "licenses/*.txt"},
	}
	for _, a := range fonts.Default() {
		m.Fonts = append(m.Fonts, FontDecl{
			Name:    a.Name,
			File:    path.Join("fonts", a.File),
			Family:  a.Family,
			License: a.License,
		})
	}
	return m
}
