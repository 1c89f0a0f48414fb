package refs

import (
	"regexp"
	"sort"
	"strings"

	"github.com/depsweep/depsweep/pkg/specifier"
	"github.com/depsweep/depsweep/pkg/workspace"
)

// Reference is one occurrence of a package specifier, attributed to the
// project that owns the file it was found in.
type Reference struct {
	File           string `json:"file"` // workspace-relative
	Line           int    `json:"line"` // 1-indexed
	CurrentVersion string `json:"current_version"`
	Source         Source `json:"source"`
	ProjectName    string `json:"project_name"`
}

// Scanner finds and rewrites package references across a workspace.
type Scanner struct {
	resolver *workspace.Resolver
	fs       workspace.FS

	// Logf receives swallowed per-file errors during scans. Defaults to a
	// no-op.
	Logf func(format string, args ...any)
}

// NewScanner creates a Scanner over the resolver's workspace.
func NewScanner(resolver *workspace.Resolver) *Scanner {
	return &Scanner{
		resolver: resolver,
		fs:       resolver.FS(),
		Logf:     func(string, ...any) {},
	}
}

// FindReferences returns every reference to pkg in the workspace: each
// resolved project's manifest is always scanned, and the rest of the tree
// is scanned by the fixed extension set, subject to the skip list and the
// root ignore file. Matches in files that belong to no resolved project
// are dropped, so ProjectName is always populated.
func (s *Scanner) FindReferences(pkg string) ([]Reference, error) {
	projects, err := s.resolver.Resolve("", workspace.ResolveOptions{})
	if err != nil {
		return nil, err
	}

	ign := loadIgnore(s.fs)
	re := specifier.RefPattern(pkg)

	var found []Reference
	scanned := make(map[string]bool)

	// Project manifests are always included, ahead of the tree walk.
	for _, pr := range projects {
		scanned[pr.ConfigPath] = true
		found = append(found, s.scanFile(pr.ConfigPath, SourceConfig, re, projects)...)
	}

	err = s.fs.Walk(scanSkipDirs, func(e workspace.Entry) error {
		if !e.IsFile || scanned[e.Path] {
			return nil
		}
		src, ok := classify(e.Path)
		if !ok || ign.Match(e.Path) {
			return nil
		}
		found = append(found, s.scanFile(e.Path, src, re, projects)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].File != found[j].File {
			return found[i].File < found[j].File
		}
		return found[i].Line < found[j].Line
	})
	return found, nil
}

// scanFile matches the pattern against one file. Read failures are logged
// and swallowed: a transiently unreadable file must not fail the scan.
func (s *Scanner) scanFile(path string, src Source, re *regexp.Regexp, projects []workspace.ProjectRef) []Reference {
	owner, ok := owningProject(projects, path)
	if !ok {
		return nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		s.Logf("skipping %s: %v", path, err)
		return nil
	}

	var out []Reference
	for i, line := range strings.Split(string(data), "\n") {
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			out = append(out, Reference{
				File:           path,
				Line:           i + 1,
				CurrentVersion: m[2],
				Source:         src,
				ProjectName:    owner,
			})
		}
	}
	return out
}

// owningProject attributes a path to the most specific containing project.
// Paths outside every project report ok=false and their matches are
// discarded.
func owningProject(projects []workspace.ProjectRef, path string) (string, bool) {
	best := -1
	for i, pr := range projects {
		if !pr.Contains(path) {
			continue
		}
		if best == -1 || len(pr.Dir) > len(projects[best].Dir) {
			best = i
		}
	}
	if best == -1 {
		return "", false
	}
	if name := projects[best].Name; name != "" {
		return name, true
	}
	// Nameless projects are identified by directory.
	return projects[best].Dir, true
}
