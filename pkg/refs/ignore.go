package refs

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/depsweep/depsweep/pkg/workspace"
)

// IgnoreFile is the workspace-root ignore file consulted for every
// candidate path during a scan, in addition to the hard-coded skip list.
const IgnoreFile = ".depsweepignore"

// ignoreList holds the compiled patterns of one ignore file. It is built
// once per scan, not per path.
type ignoreList struct {
	globs []glob.Glob
}

// loadIgnore reads and compiles the root ignore file. A missing file
// yields an empty list; unreadable or invalid lines are skipped.
func loadIgnore(fsys workspace.FS) *ignoreList {
	data, err := fsys.ReadFile(IgnoreFile)
	if err != nil {
		return &ignoreList{}
	}
	return compileIgnore(string(data))
}

func compileIgnore(content string) *ignoreList {
	l := &ignoreList{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p := strings.TrimSuffix(line, "/")
		// A pattern matches at the root or at any depth, as a file or as
		// a directory prefix.
		for _, expr := range []string{p, p + "/**", "**/" + p, "**/" + p + "/**"} {
			if g, err := glob.Compile(expr, '/'); err == nil {
				l.globs = append(l.globs, g)
			}
		}
	}
	return l
}

// Match reports whether the workspace-relative path is ignored.
func (l *ignoreList) Match(path string) bool {
	for _, g := range l.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
