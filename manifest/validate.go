// ABOUTME: Lint rules for package manifests producing severity-ranked diagnostics.
// ABOUTME: Provides the pluggable LintRule interface, built-in rules, Validate, and ValidateOrError.
package manifest

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/2389-research/fontship/fonts"
	"github.com/2389-research/fontship/license"
	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
)

// Severity represents diagnostic severity level.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns a human-readable name for the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// Diagnostic represents a validation finding.
type Diagnostic struct {
	Rule     string
	Severity Severity
	Message  string
	Field    string // optional, e.g. "fonts[2].license"
	Fix      string // optional suggested fix
}

// String formats the diagnostic the way the CLI prints it.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("[%s] %s", d.Severity, d.Message)
	if d.Field != "" {
		s += fmt.Sprintf(" (field: %s)", d.Field)
	}
	if d.Fix != "" {
		s += " -- fix: " + d.Fix
	}
	return s
}

// LintRule is the interface for validation rules.
type LintRule interface {
	Name() string
	Apply(m *Manifest) []Diagnostic
}

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

var knownFamilies = map[string]bool{
	fonts.FamilyProportional: true,
	fonts.FamilyMonospace:    true,
}

func builtinRules() []LintRule {
	return []LintRule{
		&nameRule{},
		&versionRule{},
		&licenseRule{},
		&includeRule{},
		&fontDeclRule{},
		&fontIncludedRule{},
	}
}

// Validate runs all built-in rules plus any extra rules.
func Validate(m *Manifest, extraRules ...LintRule) []Diagnostic {
	if m == nil {
		return []Diagnostic{{Rule: "manifest_present", Severity: SeverityError, Message: "manifest is nil"}}
	}
	var diags []Diagnostic
	for _, r := range append(builtinRules(), extraRules...) {
		diags = append(diags, r.Apply(m)...)
	}
	return diags
}

// ValidateOrError returns the ERROR diagnostics joined into one error, or
// nil when the manifest has none. Warnings never fail validation.
func ValidateOrError(m *Manifest, extraRules ...LintRule) error {
	var errs []error
	for _, d := range Validate(m, extraRules...) {
		if d.Severity == SeverityError {
			errs = append(errs, errors.New(d.String()))
		}
	}
	return errors.Join(errs...)
}

// --- name ---

type nameRule struct{}

func (r *nameRule) Name() string { return "name" }

func (r *nameRule) Apply(m *Manifest) []Diagnostic {
	if m.Name == "" {
		return []Diagnostic{{Rule: "name_required", Severity: SeverityError, Message: "package name is required", Field: "name"}}
	}
	if !nameRe.MatchString(m.Name) {
		return []Diagnostic{{
			Rule:     "name_format",
			Severity: SeverityError,
			Message:  fmt.Sprintf("package name %q must be lowercase letters, digits, '-' or '_'", m.Name),
			Field:    "name",
			Fix:      "use e.g. " + strings.ToLower(strings.ReplaceAll(m.Name, " ", "-")),
		}}
	}
	return nil
}

// --- version ---

type versionRule struct{}

func (r *versionRule) Name() string { return "version" }

func (r *versionRule) Apply(m *Manifest) []Diagnostic {
	if _, err := semver.StrictNewVersion(m.Version); err != nil {
		return []Diagnostic{{
			Rule:     "version_semver",
			Severity: SeverityError,
			Message:  fmt.Sprintf("version %q is not a semantic version: %v", m.Version, err),
			Field:    "version",
			Fix:      "use MAJOR.MINOR.PATCH, e.g. 0.1.0",
		}}
	}
	return nil
}

// --- license ---

type licenseRule struct{}

func (r *licenseRule) Name() string { return "license" }

func (r *licenseRule) Apply(m *Manifest) []Diagnostic {
	expr, err := license.Parse(m.License)
	if err != nil {
		return []Diagnostic{{
			Rule:     "license_parse",
			Severity: SeverityError,
			Message:  fmt.Sprintf("license expression %q: %v", m.License, err),
			Field:    "license",
		}}
	}

	var diags []Diagnostic
	for i, f := range m.Fonts {
		if f.License == "" {
			continue // reported by fontDeclRule
		}
		if !license.Requires(expr, f.License) {
			diags = append(diags, Diagnostic{
				Rule:     "license_covers_fonts",
				Severity: SeverityError,
				Message:  fmt.Sprintf("font %q is licensed %s but the package license does not require it", f.Name, f.License),
				Field:    fmt.Sprintf("fonts[%d].license", i),
				Fix:      fmt.Sprintf("add \"AND %s\" to the package license", f.License),
			})
		}
	}
	return diags
}

// --- include ---

type includeRule struct{}

func (r *includeRule) Name() string { return "include" }

func (r *includeRule) Apply(m *Manifest) []Diagnostic {
	if len(m.Include) == 0 {
		return []Diagnostic{{
			Rule:     "include_required",
			Severity: SeverityError,
			Message:  "no include patterns declared; the package would be empty",
			Field:    "include",
		}}
	}

	var diags []Diagnostic
	for i, p := range m.Include {
		field := fmt.Sprintf("include[%d]", i)
		switch {
		case p == "":
			diags = append(diags, Diagnostic{Rule: "include_pattern", Severity: SeverityError, Message: "empty include pattern", Field: field})
		case path.IsAbs(p) || strings.HasPrefix(p, "../") || p == "..":
			diags = append(diags, Diagnostic{Rule: "include_pattern", Severity: SeverityError, Message: fmt.Sprintf("include pattern %q escapes the package root", p), Field: field})
		case !doublestar.ValidatePattern(p):
			diags = append(diags, Diagnostic{Rule: "include_pattern", Severity: SeverityError, Message: fmt.Sprintf("include pattern %q is not a valid glob", p), Field: field})
		}
	}
	return diags
}

// --- fonts ---

type fontDeclRule struct{}

func (r *fontDeclRule) Name() string { return "fonts" }

func (r *fontDeclRule) Apply(m *Manifest) []Diagnostic {
	var diags []Diagnostic
	if len(m.Fonts) == 0 {
		diags = append(diags, Diagnostic{
			Rule:     "fonts_declared",
			Severity: SeverityWarning,
			Message:  "no fonts declared; consumers will receive an empty mapping",
			Field:    "fonts",
		})
	}

	names := make(map[string]int)
	for i, f := range m.Fonts {
		field := fmt.Sprintf("fonts[%d]", i)
		if f.Name == "" {
			diags = append(diags, Diagnostic{Rule: "font_name", Severity: SeverityError, Message: "font name is required", Field: field + ".name"})
		} else if prev, dup := names[f.Name]; dup {
			diags = append(diags, Diagnostic{
				Rule:     "font_name_unique",
				Severity: SeverityError,
				Message:  fmt.Sprintf("font name %q already declared at fonts[%d]", f.Name, prev),
				Field:    field + ".name",
			})
		} else {
			names[f.Name] = i
		}

		if f.File == "" {
			diags = append(diags, Diagnostic{Rule: "font_file", Severity: SeverityError, Message: fmt.Sprintf("font %q has no file", f.Name), Field: field + ".file"})
		} else if ext := strings.ToLower(path.Ext(f.File)); ext != ".ttf" && ext != ".otf" {
			diags = append(diags, Diagnostic{
				Rule:     "font_file",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("font file %q does not end in .ttf or .otf", f.File),
				Field:    field + ".file",
			})
		}

		if f.License == "" {
			diags = append(diags, Diagnostic{Rule: "font_license", Severity: SeverityError, Message: fmt.Sprintf("font %q has no license", f.Name), Field: field + ".license"})
		} else if expr, err := license.Parse(f.License); err != nil {
			diags = append(diags, Diagnostic{Rule: "font_license", Severity: SeverityError, Message: fmt.Sprintf("font %q license: %v", f.Name, err), Field: field + ".license"})
		} else if _, single := expr.(*license.Ref); !single {
			diags = append(diags, Diagnostic{
				Rule:     "font_license",
				Severity: SeverityError,
				Message:  fmt.Sprintf("font %q license %q must be a single identifier", f.Name, f.License),
				Field:    field + ".license",
			})
		}

		if f.Family != "" && !knownFamilies[f.Family] {
			diags = append(diags, Diagnostic{
				Rule:     "family_known",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("font %q has unknown family %q", f.Name, f.Family),
				Field:    field + ".family",
				Fix:      "use proportional or monospace",
			})
		}
	}
	return diags
}

// --- font files covered by includes ---

type fontIncludedRule struct{}

func (r *fontIncludedRule) Name() string { return "font_included" }

func (r *fontIncludedRule) Apply(m *Manifest) []Diagnostic {
	var diags []Diagnostic
	for i, f := range m.Fonts {
		if f.File == "" {
			continue
		}
		if !matchesAny(m.Include, f.File) {
			diags = append(diags, Diagnostic{
				Rule:     "font_included",
				Severity: SeverityError,
				Message:  fmt.Sprintf("font file %q is not matched by any include pattern", f.File),
				Field:    fmt.Sprintf("fonts[%d].file", i),
				Fix:      fmt.Sprintf("add %q to include", f.File),
			})
		}
	}
	return diags
}

func matchesAny(patterns []string, file string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, file); err == nil && ok {
			return true
		}
	}
	return false
}
