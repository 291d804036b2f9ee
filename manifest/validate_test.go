// ABOUTME: Tests for manifest lint rules: name, version, license coverage, includes and font declarations.
// ABOUTME: Each rule is exercised through Validate and checked by rule id and severity.
package manifest

import (
	"strings"
	"testing"
)

func validManifest() *Manifest {
	return &Manifest{
		Name:    "default-fonts",
		Version: "0.3.0",
		License: "(MIT OR Apache-2.0) AND OFL-1.1",
		Include: []string{"fonts/**/*.ttf", "LICENSE*"},
		Fonts: []FontDecl{
			{Name: "Ubuntu-Light", File: "fonts/Ubuntu-Light.ttf", Family: "proportional", License: "OFL-1.1"},
		},
	}
}

func hasRule(diags []Diagnostic, rule string, sev Severity) bool {
	for _, d := range diags {
		if d.Rule == rule && d.Severity == sev {
			return true
		}
	}
	return false
}

func TestValidateClean(t *testing.T) {
	diags := Validate(validManifest())
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Manifest)
		rule   string
		sev    Severity
	}{
		{"missing name", func(m *Manifest) { m.Name = "" }, "name_required", SeverityError},
		{"bad name", func(m *Manifest) { m.Name = "Default Fonts" }, "name_format", SeverityError},
		{"bad version", func(m *Manifest) { m.Version = "1.0" }, "version_semver", SeverityError},
		{"leading zero version", func(m *Manifest) { m.Version = "01.0.0" }, "version_semver", SeverityError},
		{"v-prefixed version", func(m *Manifest) { m.Version = "v1.0.0" }, "version_semver", SeverityError},
		{"empty prerelease", func(m *Manifest) { m.Version = "1.0.0-" }, "version_semver", SeverityError},
		{"bad license", func(m *Manifest) { m.License = "MIT AND" }, "license_parse", SeverityError},
		{"license misses font", func(m *Manifest) { m.License = "MIT OR Apache-2.0" }, "license_covers_fonts", SeverityError},
		{"font license only optional", func(m *Manifest) { m.License = "MIT OR OFL-1.1" }, "license_covers_fonts", SeverityError},
		{"no includes", func(m *Manifest) { m.Include = nil }, "include_required", SeverityError},
		{"absolute include", func(m *Manifest) { m.Include = append(m.Include, "/etc/passwd") }, "include_pattern", SeverityError},
		{"escaping include", func(m *Manifest) { m.Include = append(m.Include, "../secrets/*") }, "include_pattern", SeverityError},
		{"bad glob", func(m *Manifest) { m.Include = append(m.Include, "fonts/[a-") }, "include_pattern", SeverityError},
		{"no fonts", func(m *Manifest) { m.Fonts = nil }, "fonts_declared", SeverityWarning},
		{"duplicate font", func(m *Manifest) { m.Fonts = append(m.Fonts, m.Fonts[0]) }, "font_name_unique", SeverityError},
		{"font without file", func(m *Manifest) { m.Fonts[0].File = "" }, "font_file", SeverityError},
		{"font odd extension", func(m *Manifest) { m.Fonts[0].File = "fonts/Ubuntu-Light.woff2"; m.Include = []string{"fonts/*"} }, "font_file", SeverityWarning},
		{"font without license", func(m *Manifest) { m.Fonts[0].License = "" }, "font_license", SeverityError},
		{"font compound license", func(m *Manifest) { m.Fonts[0].License = "OFL-1.1 AND MIT" }, "font_license", SeverityError},
		{"unknown family", func(m *Manifest) { m.Fonts[0].Family = "emoji" }, "family_known", SeverityWarning},
		{"font not included", func(m *Manifest) { m.Fonts[0].File = "assets/Ubuntu-Light.ttf" }, "font_included", SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validManifest()
			tt.mutate(m)
			diags := Validate(m)
			if !hasRule(diags, tt.rule, tt.sev) {
				t.Errorf("expected %s %s diagnostic, got %v", tt.sev, tt.rule, diags)
			}
		})
	}
}

func TestValidateAcceptsFullSemver(t *testing.T) {
	for _, v := range []string{"0.1.0", "1.2.3-beta.1", "2.0.0-rc.1+build.5", "10.20.30"} {
		m := validManifest()
		m.Version = v
		if hasRule(Validate(m), "version_semver", SeverityError) {
			t.Errorf("version %q rejected", v)
		}
	}
}

func TestValidateNil(t *testing.T) {
	diags := Validate(nil)
	if len(diags) != 1 || diags[0].Severity != SeverityError {
		t.Errorf("expected a single error for nil manifest, got %v", diags)
	}
}

type forbidDescriptionRule struct{}

func (forbidDescriptionRule) Name() string { return "no_description" }
func (forbidDescriptionRule) Apply(m *Manifest) []Diagnostic {
	if m.Description != "" {
		return []Diagnostic{{Rule: "no_description", Severity: SeverityInfo, Message: "description set"}}
	}
	return nil
}

func TestValidateExtraRules(t *testing.T) {
	m := validManifest()
	m.Description = "x"
	if !hasRule(Validate(m, forbidDescriptionRule{}), "no_description", SeverityInfo) {
		t.Error("extra rule should run")
	}
}

func TestValidateOrErrorIgnoresWarnings(t *testing.T) {
	m := validManifest()
	m.Fonts[0].Family = "emoji"
	if err := ValidateOrError(m); err != nil {
		t.Errorf("warnings must not fail validation: %v", err)
	}

	m.Version = "latest"
	m.Name = ""
	err := ValidateOrError(m)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"semantic version", "package name is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should contain %q, got: %v", want, err)
		}
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: SeverityError, Message: "boom", Field: "name", Fix: "rename"}
	if got, want := d.String(), "[ERROR] boom (field: name) -- fix: rename"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := Severity(42).String(); got != "UNKNOWN(42)" {
		t.Errorf("unknown severity = %q", got)
	}
}
