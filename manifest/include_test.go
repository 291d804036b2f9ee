// ABOUTME: Tests for include glob resolution against an in-memory package tree.
// ABOUTME: Covers ** patterns, de-duplication, directory-only matches and missing-file failures.
package manifest

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"
	"testing/fstest"
)

func packageTree() fstest.MapFS {
	return fstest.MapFS{
		"fonts/Hack-Regular.ttf":       {Data: []byte("hack")},
		"fonts/extra/Ubuntu-Light.ttf": {Data: []byte("ubuntu")},
		"licenses/OFL.txt":             {Data: []byte("ofl")},
		"licenses/UFL.txt":             {Data: []byte("ufl")},
		"src/lib.rs":                   {Data: []byte("//")},
		"emptydir":                     {Mode: fs.ModeDir | 0o755},
	}
}

func TestResolveIncludes(t *testing.T) {
	m := &Manifest{Include: []string{"fonts/**/*.ttf", "licenses/*.txt", "fonts/Hack-Regular.ttf"}}
	files, err := ResolveIncludes(packageTree(), m)
	if err != nil {
		t.Fatalf("ResolveIncludes: %v", err)
	}
	want := []string{
		"fonts/Hack-Regular.ttf",
		"fonts/extra/Ubuntu-Light.ttf",
		"licenses/OFL.txt",
		"licenses/UFL.txt",
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestResolveIncludesMissing(t *testing.T) {
	m := &Manifest{Include: []string{"fonts/*.ttf", "fonts/emoji-icon-font.ttf", "docs/*.md"}}
	_, err := ResolveIncludes(packageTree(), m)

	var missErr *MissingIncludeError
	if !errors.As(err, &missErr) {
		t.Fatalf("expected MissingIncludeError, got %v", err)
	}
	want := []string{"fonts/emoji-icon-font.ttf", "docs/*.md"}
	if !reflect.DeepEqual(missErr.Patterns, want) {
		t.Errorf("missing = %v, want %v", missErr.Patterns, want)
	}
}

func TestResolveIncludesDirectoryOnlyIsMissing(t *testing.T) {
	m := &Manifest{Include: []string{"emptydir"}}
	_, err := ResolveIncludes(packageTree(), m)
	var missErr *MissingIncludeError
	if !errors.As(err, &missErr) {
		t.Fatalf("a pattern matching only a directory should count as missing, got %v", err)
	}
}

func TestCheckFontFiles(t *testing.T) {
	m := &Manifest{Fonts: []FontDecl{
		{Name: "Hack", File: "fonts/Hack-Regular.ttf"},
		{Name: "Emoji", File: "fonts/NotoEmoji-Regular.ttf"},
	}}
	err := CheckFontFiles(packageTree(), m)
	var missErr *MissingIncludeError
	if !errors.As(err, &missErr) {
		t.Fatalf("expected MissingIncludeError, got %v", err)
	}
	if len(missErr.Patterns) != 1 || missErr.Patterns[0] != "fonts/NotoEmoji-Regular.ttf" {
		t.Errorf("missing = %v", missErr.Patterns)
	}

	m.Fonts = m.Fonts[:1]
	if err := CheckFontFiles(packageTree(), m); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
