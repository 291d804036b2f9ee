// ABOUTME: Tests for the bundled font registry, family table, license texts and export.
// ABOUTME: Every bundled asset must be a parseable font whose license text is embedded.
package fonts

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestDefaultMappingIsFixed(t *testing.T) {
	assets := Default()
	if len(assets) != 6 {
		t.Fatalf("expected 6 bundled fonts, got %d", len(assets))
	}

	seen := make(map[string]bool)
	for _, a := range assets {
		if seen[a.Name] {
			t.Errorf("duplicate logical name %q", a.Name)
		}
		seen[a.Name] = true
		if len(a.Data) == 0 {
			t.Errorf("font %q has no bytes", a.Name)
		}
		if !strings.HasSuffix(a.File, ".ttf") {
			t.Errorf("font %q file %q should end in .ttf", a.Name, a.File)
		}
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	a := Default()
	a[0].Name = "mutated"
	if Default()[0].Name == "mutated" {
		t.Error("Default() must not expose the internal slice")
	}
}

func TestBytesAndLookup(t *testing.T) {
	data, ok := Bytes("Go-Regular")
	if !ok {
		t.Fatal("Go-Regular should be bundled")
	}
	if !bytes.Equal(data, goregular.TTF) {
		t.Error("Go-Regular bytes should be the raw goregular TTF, untransformed")
	}

	if _, ok := Bytes("Comic-Sans"); ok {
		t.Error("unknown font should not be found")
	}
	if _, ok := Lookup(""); ok {
		t.Error("empty name should not be found")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if !sort.StringsAreSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}
	if len(names) != len(Default()) {
		t.Errorf("Names() length %d, want %d", len(names), len(Default()))
	}
}

func TestFamiliesReferenceBundledFonts(t *testing.T) {
	fams := Families()
	for _, fam := range []string{FamilyProportional, FamilyMonospace} {
		names, ok := fams[fam]
		if !ok || len(names) == 0 {
			t.Fatalf("family %q missing or empty", fam)
		}
		for _, n := range names {
			if _, ok := Lookup(n); !ok {
				t.Errorf("family %q references unbundled font %q", fam, n)
			}
		}
	}
	if fams[FamilyMonospace][0] != "Go-Mono" {
		t.Errorf("monospace primary = %q, want Go-Mono", fams[FamilyMonospace][0])
	}

	fams[FamilyMonospace][0] = "changed"
	if Families()[FamilyMonospace][0] != "Go-Mono" {
		t.Error("Families() must return a copy")
	}
}

func TestEveryAssetHasLicenseText(t *testing.T) {
	for _, a := range Default() {
		text, err := LicenseText(a.License)
		if err != nil {
			t.Errorf("font %q: %v", a.Name, err)
			continue
		}
		if !strings.Contains(text, "Redistribution and use") {
			t.Errorf("license text for %q looks wrong", a.License)
		}
	}
}

func TestLicenseTextUnknown(t *testing.T) {
	if _, err := LicenseText("WTFPL"); err == nil {
		t.Error("expected error for unbundled license")
	}
}

func TestLicenseExpression(t *testing.T) {
	if got := LicenseExpression(); got != "BSD-3-Clause" {
		t.Errorf("LicenseExpression() = %q, want BSD-3-Clause", got)
	}
	if got := Licenses(); !reflect.DeepEqual(got, []string{"BSD-3-Clause"}) {
		t.Errorf("Licenses() = %v", got)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	written, err := Export(dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(written) != len(Default())+len(Licenses()) {
		t.Errorf("expected %d files, got %d: %v", len(Default())+len(Licenses()), len(written), written)
	}

	data, err := os.ReadFile(filepath.Join(dir, "fonts", "Go-Mono.ttf"))
	if err != nil {
		t.Fatalf("reading exported font: %v", err)
	}
	want, _ := Bytes("Go-Mono")
	if !bytes.Equal(data, want) {
		t.Error("exported bytes differ from bundled bytes")
	}
	if _, err := os.Stat(filepath.Join(dir, "licenses", "go-fonts.txt")); err != nil {
		t.Errorf("license not exported: %v", err)
	}
}

func TestExportFailsOnFileInPlaceOfDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fonts"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Export(dir)
	if err == nil {
		t.Fatal("expected error when fonts/ is a file")
	}
	if errors.Is(err, os.ErrNotExist) {
		t.Errorf("unexpected not-exist error: %v", err)
	}
}
