package refs

import (
	"regexp"

	"github.com/google/uuid"

	"github.com/depsweep/depsweep/pkg/specifier"
	"github.com/depsweep/depsweep/pkg/version"
)

// UpgradeOptions narrows which references an upgrade touches and how the
// rewrite is applied.
type UpgradeOptions struct {
	// Version is the target version. Required.
	Version string

	// DryRun reports what would change without writing anything.
	DryRun bool

	// Sources restricts the upgrade to these source categories. Empty means
	// all sources.
	Sources []Source

	// Projects restricts the upgrade to references owned by these project
	// names. Empty means all projects.
	Projects []string

	// ExcludeProjects removes references owned by these project names. It
	// is applied after Projects.
	ExcludeProjects []string

	// RequireNewer skips references whose current version is not older than
	// the target. Leave false to allow explicit downgrades.
	RequireNewer bool

	// Logf receives progress and per-file failure messages. Defaults to a
	// no-op.
	Logf func(format string, args ...any)
}

// Result records the outcome for one reference that was selected for
// upgrade. References skipped by the option filters produce no Result.
type Result struct {
	File       string `json:"file"`
	Line       int    `json:"line"`
	OldVersion string `json:"old_version"`
	NewVersion string `json:"new_version"`
	Source     Source `json:"source"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// Upgrade rewrites every selected reference to pkg so it points at
// opts.Version. Files are rewritten atomically per file: all selected
// references in a file change together or, if the read or write fails,
// none do and each reference in that file reports the failure. A failed
// file never aborts the run.
//
// Running the same upgrade twice is safe: references already at the
// target version are filtered out, so the second run selects nothing.
func (s *Scanner) Upgrade(pkg string, opts UpgradeOptions) ([]Result, error) {
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	runID := uuid.NewString()
	logf("upgrade %s: starting run %s (target %s)", pkg, runID, opts.Version)

	all, err := s.FindReferences(pkg)
	if err != nil {
		return nil, err
	}

	selected := filterRefs(all, opts)
	if len(selected) == 0 {
		logf("upgrade %s: run %s selected no references", pkg, runID)
		return nil, nil
	}

	byFile := make(map[string][]Reference)
	var order []string
	for _, ref := range selected {
		if _, seen := byFile[ref.File]; !seen {
			order = append(order, ref.File)
		}
		byFile[ref.File] = append(byFile[ref.File], ref)
	}

	re := specifier.RefPattern(pkg)
	var results []Result
	for _, file := range order {
		refs := byFile[file]
		if err := s.rewriteFile(file, re, pkg, refs, opts); err != nil {
			logf("upgrade %s: %s failed: %v", pkg, file, err)
			for _, ref := range refs {
				results = append(results, failure(ref, opts.Version, err))
			}
			continue
		}
		for _, ref := range refs {
			results = append(results, Result{
				File:       ref.File,
				Line:       ref.Line,
				OldVersion: ref.CurrentVersion,
				NewVersion: opts.Version,
				Source:     ref.Source,
				Success:    true,
			})
		}
	}
	logf("upgrade %s: run %s rewrote %d file(s)", pkg, runID, len(order))
	return results, nil
}

// rewriteFile replaces the selected references in one file. Only
// occurrences whose current version was selected are touched, so
// source-filtered or version-filtered references in the same file are
// left alone. Subpaths survive the rewrite.
func (s *Scanner) rewriteFile(file string, re *regexp.Regexp, pkg string, refs []Reference, opts UpgradeOptions) error {
	if opts.DryRun {
		return nil
	}

	allowed := make(map[string]bool, len(refs))
	for _, ref := range refs {
		allowed[ref.CurrentVersion] = true
	}

	data, err := s.fs.ReadFile(file)
	if err != nil {
		return err
	}
	updated := re.ReplaceAllStringFunc(string(data), func(match string) string {
		sub := re.FindStringSubmatch(match)
		if !allowed[sub[2]] {
			return match
		}
		return sub[1] + ":" + pkg + "@" + opts.Version + sub[3]
	})
	if updated == string(data) {
		return nil
	}
	return s.fs.WriteFile(file, []byte(updated))
}

func filterRefs(refs []Reference, opts UpgradeOptions) []Reference {
	sources := toSet(opts.Sources)
	include := toSet(opts.Projects)
	exclude := toSet(opts.ExcludeProjects)

	var out []Reference
	for _, ref := range refs {
		if ref.CurrentVersion == opts.Version {
			continue
		}
		if opts.RequireNewer && !version.IsNewer(ref.CurrentVersion, opts.Version) {
			continue
		}
		if len(sources) > 0 && !sources[string(ref.Source)] {
			continue
		}
		if len(include) > 0 && !include[ref.ProjectName] {
			continue
		}
		if exclude[ref.ProjectName] {
			continue
		}
		out = append(out, ref)
	}
	return out
}

func toSet[T ~string](vals []T) map[string]bool {
	if len(vals) == 0 {
		return nil
	}
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[string(v)] = true
	}
	return set
}

func failure(ref Reference, target string, err error) Result {
	return Result{
		File:       ref.File,
		Line:       ref.Line,
		OldVersion: ref.CurrentVersion,
		NewVersion: target,
		Source:     ref.Source,
		Error:      err.Error(),
	}
}
