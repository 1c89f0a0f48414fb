package workspace

import (
	"fmt"
	"os"
	"path"
	"strings"
)

// SkipDirs are the subtrees never descended into during discovery.
var SkipDirs = []string{"node_modules", ".git", ".deno", "cov"}

// ProjectRef identifies one discovered project. Dir and ConfigPath are
// workspace-relative and forward-slash normalized; a ProjectRef is built
// fresh per resolution call and never mutated afterwards.
type ProjectRef struct {
	Name       string            `json:"name,omitempty"`
	Dir        string            `json:"dir"`
	ConfigPath string            `json:"config_path"`
	HasDev     bool              `json:"has_dev"`
	Tasks      map[string]string `json:"tasks,omitempty"`
}

// Contains reports whether the workspace-relative path p lies inside the
// project directory. The check is a directory-boundary prefix match, so
// "apps/web2/x" is not inside "apps/web".
func (p ProjectRef) Contains(rel string) bool {
	if p.Dir == "." {
		return true
	}
	return rel == p.Dir || strings.HasPrefix(rel, p.Dir+"/")
}

// Diagnostic describes an entry skipped during discovery. Discovery
// swallows these by default to stay resilient on large or partially-edited
// workspaces; the callback keeps them debuggable.
type Diagnostic struct {
	Path   string
	Reason string
	Err    error
}

// ResolveOptions adjusts project resolution.
type ResolveOptions struct {
	// SkipNameless drops manifests that have no name field. By default
	// they are returned like any other project.
	SkipNameless bool
	// SingleOnly makes Resolve fail with MultipleProjectsError when more
	// than one project matches.
	SingleOnly bool
	// UseFirst returns only the first match found, short-circuiting
	// enumeration. It takes precedence over SingleOnly: no ambiguity
	// error is raised.
	UseFirst bool
	// Diag, when set, receives a record for every skipped entry.
	Diag func(Diagnostic)
}

// MultipleProjectsError is raised when SingleOnly resolution matches more
// than one project. Silently picking one would risk edits to the wrong
// project, so ambiguity is the one discovery condition that fails loudly.
type MultipleProjectsError struct {
	Ref   string
	Count int
}

func (e *MultipleProjectsError) Error() string {
	return fmt.Sprintf("ref %q matches %d projects, expected one", e.Ref, e.Count)
}

// Resolver discovers projects in a workspace.
type Resolver struct {
	fs FS
}

// NewResolver creates a Resolver over the given filesystem.
func NewResolver(fsys FS) *Resolver {
	return &Resolver{fs: fsys}
}

// FS returns the filesystem the resolver operates on.
func (r *Resolver) FS() FS { return r.fs }

// Resolve expands ref into concrete projects. An empty ref returns every
// project in the workspace. Otherwise ref is a comma-separated list; each
// element is tried as a manifest path, then as a directory, then as an
// exact project name. Results are deduplicated by config path in
// first-seen order.
func (r *Resolver) Resolve(ref string, opts ResolveOptions) ([]ProjectRef, error) {
	var matches []ProjectRef
	if strings.TrimSpace(ref) == "" {
		matches = r.discover(".", opts)
	} else {
		for _, token := range strings.Split(ref, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			matches = append(matches, r.resolveToken(token, opts)...)
			if opts.UseFirst && len(matches) > 0 {
				break
			}
		}
	}

	matches = dedupe(matches)
	if opts.UseFirst && len(matches) > 1 {
		matches = matches[:1]
	}
	if opts.SingleOnly && len(matches) > 1 {
		return nil, &MultipleProjectsError{Ref: ref, Count: len(matches)}
	}
	return matches, nil
}

// resolveToken tries the three resolution modes for a single ref element.
func (r *Resolver) resolveToken(token string, opts ResolveOptions) []ProjectRef {
	p := Normalize(token)

	// (a) direct manifest path
	if IsManifestPath(p) {
		if pr, ok := r.loadProject(p, opts); ok {
			return []ProjectRef{pr}
		}
		return nil
	}

	// (b) directory: manifest directly beneath it wins, otherwise every
	// manifest in the subtree.
	for _, name := range manifestNames {
		if pr, ok := r.loadProject(path.Join(p, name), opts); ok {
			return []ProjectRef{pr}
		}
	}
	if sub := r.discover(p, opts); len(sub) > 0 {
		return sub
	}

	// (c) package name: exact match across all discovered projects.
	var named []ProjectRef
	for _, pr := range r.discover(".", opts) {
		if pr.Name == token {
			named = append(named, pr)
		}
	}
	return named
}

// discover walks the workspace and loads every manifest under dir
// ("." = whole tree). Walk errors surface as diagnostics, not failures.
func (r *Resolver) discover(dir string, opts ResolveOptions) []ProjectRef {
	var found []ProjectRef
	err := r.fs.Walk(SkipDirs, func(e Entry) error {
		if !e.IsFile || !IsManifestPath(e.Path) {
			return nil
		}
		if dir != "." && e.Path != dir && !strings.HasPrefix(e.Path, dir+"/") {
			return nil
		}
		if pr, ok := r.loadProject(e.Path, opts); ok {
			found = append(found, pr)
		}
		return nil
	})
	if err != nil {
		diag(opts, Diagnostic{Path: dir, Reason: "walk failed", Err: err})
	}
	return found
}

// loadProject reads and parses one manifest. Absent or malformed files are
// reported through the diagnostics callback and treated as no project.
func (r *Resolver) loadProject(configPath string, opts ResolveOptions) (ProjectRef, bool) {
	data, err := r.fs.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			diag(opts, Diagnostic{Path: configPath, Reason: "unreadable manifest", Err: err})
		}
		return ProjectRef{}, false
	}
	m, err := ParseManifest(data)
	if err != nil {
		diag(opts, Diagnostic{Path: configPath, Reason: "malformed manifest", Err: err})
		return ProjectRef{}, false
	}
	if m.Name == "" && opts.SkipNameless {
		return ProjectRef{}, false
	}

	_, hasDev := m.Tasks["dev"]
	return ProjectRef{
		Name:       m.Name,
		Dir:        path.Dir(Normalize(configPath)),
		ConfigPath: Normalize(configPath),
		HasDev:     hasDev,
		Tasks:      m.Tasks,
	}, true
}

func dedupe(refs []ProjectRef) []ProjectRef {
	seen := make(map[string]bool, len(refs))
	out := refs[:0]
	for _, pr := range refs {
		if !seen[pr.ConfigPath] {
			seen[pr.ConfigPath] = true
			out = append(out, pr)
		}
	}
	return out
}

func diag(opts ResolveOptions, d Diagnostic) {
	if opts.Diag != nil {
		opts.Diag(d)
	}
}
