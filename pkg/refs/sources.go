package refs

import (
	"path"

	"github.com/depsweep/depsweep/pkg/workspace"
)

// Source categorizes the kind of file a reference was found in.
type Source string

const (
	SourceConfig   Source = "config"   // project manifests
	SourceDeps     Source = "deps"     // dependency-declaration modules
	SourceTemplate Source = "template" // scaffolding templates
	SourceDocs     Source = "docs"     // Markdown/MDX documentation
	SourceOther    Source = "other"    // remaining TS/TSX source
)

// scanSkipDirs extends the discovery skip list for the full-tree reference
// scan. Matching is by directory name only, so a file named "deno.git.ts"
// is never mistaken for a skipped subtree.
var scanSkipDirs = []string{".git", "node_modules", ".deno", "cov", ".coverage"}

// classify maps a path to its source category. The extension set is fixed;
// anything else is not scanned.
func classify(p string) (Source, bool) {
	if workspace.IsManifestPath(p) {
		return SourceConfig, true
	}
	switch path.Base(p) {
	case "deps.ts", "dev_deps.ts":
		return SourceDeps, true
	}
	switch path.Ext(p) {
	case ".template", ".tmpl":
		return SourceTemplate, true
	case ".md", ".mdx":
		return SourceDocs, true
	case ".ts", ".tsx":
		return SourceOther, true
	}
	return "", false
}
