package specifier

import (
	"regexp"
	"strings"
)

// Registry identifies the package registry a specifier points at.
type Registry string

const (
	JSR Registry = "jsr"
	NPM Registry = "npm"
)

// Specifier is a registry-qualified package reference parsed out of text,
// of the form registry:name@version[/subpath].
type Specifier struct {
	Registry Registry `json:"registry"`
	Scope    string   `json:"scope,omitempty"` // "@scope" for scoped packages
	Name     string   `json:"name"`            // bare name, without scope
	FullName string   `json:"full_name"`       // "@scope/name" or "name"
	Version  string   `json:"version"`
	Subpath  string   `json:"subpath,omitempty"` // trailing "/..." path, without leading slash
	Line     int      `json:"line"`              // 1-indexed
	Column   int      `json:"column"`            // 1-indexed
}

// FullSpecifier reconstructs the exact source text of the specifier.
// For any parsed specifier this round-trips with the original input.
func (s Specifier) FullSpecifier() string {
	out := string(s.Registry) + ":" + s.FullName + "@" + s.Version
	if s.Subpath != "" {
		out += "/" + s.Subpath
	}
	return out
}

// The version capture stops at path separators, quotes, commas, and
// whitespace so a trailing /subpath is never swallowed into the version.
// Pattern and RefPattern must stay structurally identical: the scanner and
// the rewriter both build on them, and any drift between the two reintroduces
// the subpath-loss bug this layout exists to prevent.
const versionExpr = `@([^\s'"/,]+)((?:/[^\s'",]*)?)`

var scanPattern = regexp.MustCompile(`(jsr|npm):((?:@[a-zA-Z0-9_.\-~]+/)?[a-zA-Z0-9_.\-~]+)` + versionExpr)

var onePattern = regexp.MustCompile(`^(jsr|npm):((?:@[a-zA-Z0-9_.\-~]+/)?[a-zA-Z0-9_.\-~]+)` + versionExpr + `$`)

// RefPattern builds the match pattern for references to a single package.
// Group 1 captures the registry, group 2 the version, group 3 the subpath
// (including its leading slash, possibly empty). Both the reference scanner
// and Update use this constructor; do not inline a variant elsewhere.
func RefPattern(fullName string) *regexp.Regexp {
	return regexp.MustCompile(`(jsr|npm):` + regexp.QuoteMeta(fullName) + versionExpr)
}

// Parse scans content line by line and returns every specifier found,
// with 1-indexed line and column positions.
func Parse(content string) []Specifier {
	var specs []Specifier
	for i, line := range strings.Split(content, "\n") {
		for _, m := range scanPattern.FindAllStringSubmatchIndex(line, -1) {
			specs = append(specs, build(line, m, i+1))
		}
	}
	return specs
}

// ParseOne parses a string that is exactly one specifier, as found in a
// structured import map value. Returns nil if s is not a specifier.
func ParseOne(s string) *Specifier {
	m := onePattern.FindStringSubmatchIndex(s)
	if m == nil {
		return nil
	}
	spec := build(s, m, 1)
	return &spec
}

func build(line string, m []int, lineNo int) Specifier {
	full := line[m[4]:m[5]]
	spec := Specifier{
		Registry: Registry(line[m[2]:m[3]]),
		FullName: full,
		Name:     full,
		Version:  line[m[6]:m[7]],
		Line:     lineNo,
		Column:   m[0] + 1,
	}
	if scope, name, ok := strings.Cut(full, "/"); ok {
		spec.Scope = scope
		spec.Name = name
	}
	if m[8] >= 0 && m[9] > m[8] {
		spec.Subpath = strings.TrimPrefix(line[m[8]:m[9]], "/")
	}
	return spec
}

// Update rewrites the version of every listed package in content, keyed by
// full name. Registry prefix and trailing subpath are preserved verbatim.
func Update(content string, updates map[string]string) string {
	for name, version := range updates {
		re := RefPattern(name)
		content = re.ReplaceAllString(content, "${1}:"+name+"@"+version+"${3}")
	}
	return content
}

// UniquePackages returns the distinct full names in specs, first-seen order.
func UniquePackages(specs []Specifier) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range specs {
		if !seen[s.FullName] {
			seen[s.FullName] = true
			names = append(names, s.FullName)
		}
	}
	return names
}

// FilterByRegistry returns the specifiers that belong to reg.
func FilterByRegistry(specs []Specifier, reg Registry) []Specifier {
	var out []Specifier
	for _, s := range specs {
		if s.Registry == reg {
			out = append(out, s)
		}
	}
	return out
}

// FilterByPattern returns the specifiers whose full name matches pattern.
// The pattern is a literal name with at most one "*" wildcard.
func FilterByPattern(specs []Specifier, pattern string) []Specifier {
	prefix, suffix, wild := strings.Cut(pattern, "*")
	var out []Specifier
	for _, s := range specs {
		if wild {
			if len(s.FullName) >= len(prefix)+len(suffix) &&
				strings.HasPrefix(s.FullName, prefix) && strings.HasSuffix(s.FullName, suffix) {
				out = append(out, s)
			}
		} else if s.FullName == pattern {
			out = append(out, s)
		}
	}
	return out
}
