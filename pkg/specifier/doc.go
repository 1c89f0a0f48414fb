// Package specifier parses registry-qualified version specifiers of the
// form registry:name@version[/subpath] out of free text.
//
// Supported registries are jsr and npm. Parsing is pattern-based over lines
// of text; no syntax tree is built. The same pattern constructor
// ([RefPattern]) backs both scanning and rewriting so the two can never
// disagree about where a version ends and a subpath begins.
//
// # Round-trip
//
// For any specifier string s, ParseOne(s).FullSpecifier() == s. Rewrites via
// [Update] only ever substitute the version token and keep the subpath
// intact:
//
//	specifier.Update(`"jsr:@std/path@1.0.0/posix"`, map[string]string{"@std/path": "1.0.8"})
//	// => `"jsr:@std/path@1.0.8/posix"`
package specifier
