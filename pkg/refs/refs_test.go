package refs

import (
	"testing"

	"github.com/depsweep/depsweep/pkg/workspace"
)

func scanWorkspace() *workspace.MemFS {
	return workspace.NewMemFS(map[string]string{
		"deno.json": `{
			"name": "@t/root",
			"imports": {"@std/path": "jsr:@std/path@1.0.0"}
		}`,
		"packages/a/deno.json": `{"name": "@t/a", "imports": {}}`,
		"packages/a/deps.ts":   `export * from "jsr:@std/path@1.0.0/posix";`,
		"packages/a/src/main.ts": `import { join } from "jsr:@std/path@1.0.0";
import { assert } from "jsr:@std/assert@0.5.0";`,
		"packages/b/deno.jsonc": `{
			// older pin, still on 0.9
			"name": "@t/b",
			"imports": {"@std/path": "jsr:@std/path@0.9.0"},
		}`,
		"docs/setup.md":              "Install with `deno add jsr:@std/path@1.0.0`.",
		"scaffold/mod.ts.template":   `import "jsr:@std/path@1.0.0";`,
		"notes.txt":                  `jsr:@std/path@0.1.0 (unscanned extension)`,
		"node_modules/x/deps.ts": `export * from "jsr:@std/path@0.2.0";`,
		".coverage/report.md":    `jsr:@std/path@0.3.0`,
	})
}

func newScanner(t *testing.T, fs workspace.FS) *Scanner {
	t.Helper()
	return NewScanner(workspace.NewResolver(fs))
}

func refAt(refs []Reference, file string, line int) (Reference, bool) {
	for _, r := range refs {
		if r.File == file && r.Line == line {
			return r, true
		}
	}
	return Reference{}, false
}

func TestFindReferences(t *testing.T) {
	s := newScanner(t, scanWorkspace())

	refs, err := s.FindReferences("@std/path")
	if err != nil {
		t.Fatalf("FindReferences: %v", err)
	}
	// Root manifest, b manifest, deps.ts, main.ts line 1, docs, template.
	if len(refs) != 6 {
		t.Fatalf("got %d references, want 6: %+v", len(refs), refs)
	}

	tests := []struct {
		file    string
		line    int
		version string
		source  Source
		project string
	}{
		{"deno.json", 3, "1.0.0", SourceConfig, "@t/root"},
		{"packages/b/deno.jsonc", 4, "0.9.0", SourceConfig, "@t/b"},
		{"packages/a/deps.ts", 1, "1.0.0", SourceDeps, "@t/a"},
		{"packages/a/src/main.ts", 1, "1.0.0", SourceOther, "@t/a"},
		{"docs/setup.md", 1, "1.0.0", SourceDocs, "@t/root"},
		{"scaffold/mod.ts.template", 1, "1.0.0", SourceTemplate, "@t/root"},
	}
	for _, tt := range tests {
		ref, ok := refAt(refs, tt.file, tt.line)
		if !ok {
			t.Errorf("no reference at %s:%d", tt.file, tt.line)
			continue
		}
		if ref.CurrentVersion != tt.version {
			t.Errorf("%s:%d version = %q, want %q", tt.file, tt.line, ref.CurrentVersion, tt.version)
		}
		if ref.Source != tt.source {
			t.Errorf("%s:%d source = %q, want %q", tt.file, tt.line, ref.Source, tt.source)
		}
		if ref.ProjectName != tt.project {
			t.Errorf("%s:%d project = %q, want %q", tt.file, tt.line, ref.ProjectName, tt.project)
		}
	}
}

func TestFindReferencesSkipsOtherPackages(t *testing.T) {
	s := newScanner(t, scanWorkspace())

	refs, err := s.FindReferences("@std/assert")
	if err != nil {
		t.Fatalf("FindReferences: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("got %d references, want 1: %+v", len(refs), refs)
	}
	if refs[0].File != "packages/a/src/main.ts" || refs[0].Line != 2 {
		t.Errorf("reference = %+v, want packages/a/src/main.ts:2", refs[0])
	}
}

func TestFindReferencesDropsOrphans(t *testing.T) {
	// No root manifest: only packages/a is a project, so the top-level
	// markdown reference belongs to nobody and must be dropped.
	fs := workspace.NewMemFS(map[string]string{
		"packages/a/deno.json": `{"name": "@t/a"}`,
		"packages/a/mod.ts":    `import "jsr:@std/path@1.0.0";`,
		"stray.md":             "see jsr:@std/path@1.0.0",
	})
	s := newScanner(t, fs)

	refs, err := s.FindReferences("@std/path")
	if err != nil {
		t.Fatalf("FindReferences: %v", err)
	}
	if len(refs) != 1 || refs[0].File != "packages/a/mod.ts" {
		t.Fatalf("refs = %+v, want only packages/a/mod.ts", refs)
	}
	for _, r := range refs {
		if r.ProjectName == "" {
			t.Errorf("reference %s has empty project name", r.File)
		}
	}
}

func TestFindReferencesNamelessProjectFallsBackToDir(t *testing.T) {
	fs := workspace.NewMemFS(map[string]string{
		"tools/gen/deno.json": `{"tasks": {"gen": "deno run gen.ts"}}`,
		"tools/gen/gen.ts":    `import "jsr:@std/path@1.0.0";`,
	})
	s := newScanner(t, fs)

	refs, err := s.FindReferences("@std/path")
	if err != nil {
		t.Fatalf("FindReferences: %v", err)
	}
	if len(refs) != 1 || refs[0].ProjectName != "tools/gen" {
		t.Fatalf("refs = %+v, want project name tools/gen", refs)
	}
}

func TestFindReferencesIgnoreFile(t *testing.T) {
	fs := workspace.NewMemFS(map[string]string{
		".depsweepignore": "# local vendor copies\nvendored/\n*.generated.ts\n",
		"deno.json":       `{"name": "@t/root"}`,
		"mod.ts":          `import "jsr:@std/path@1.0.0";`,
		"vendored/copy.ts":   `import "jsr:@std/path@0.1.0";`,
		"out.generated.ts":   `import "jsr:@std/path@0.2.0";`,
		"a/b.generated.ts":   `import "jsr:@std/path@0.2.0";`,
		"a/vendored/deep.ts": `import "jsr:@std/path@0.3.0";`,
	})
	s := newScanner(t, fs)

	refs, err := s.FindReferences("@std/path")
	if err != nil {
		t.Fatalf("FindReferences: %v", err)
	}
	if len(refs) != 1 || refs[0].File != "mod.ts" {
		t.Fatalf("refs = %+v, want only mod.ts", refs)
	}
}

func TestCompileIgnore(t *testing.T) {
	l := compileIgnore("build/\n# comment\n\n*.min.js\ndocs/api.md\n")

	tests := []struct {
		path string
		want bool
	}{
		{"build/out.ts", true},
		{"pkg/build/out.ts", true},
		{"builder/out.ts", false},
		{"app.min.js", true},
		{"nested/app.min.js", true},
		{"docs/api.md", true},
		{"docs/guide.md", false},
	}
	for _, tt := range tests {
		if got := l.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path   string
		source Source
		ok     bool
	}{
		{"deno.json", SourceConfig, true},
		{"a/deno.jsonc", SourceConfig, true},
		{"a/deps.ts", SourceDeps, true},
		{"a/dev_deps.ts", SourceDeps, true},
		{"a/mod.ts", SourceOther, true},
		{"a/app.tsx", SourceOther, true},
		{"README.md", SourceDocs, true},
		{"guide.mdx", SourceDocs, true},
		{"init.ts.template", SourceTemplate, true},
		{"init.tmpl", SourceTemplate, true},
		{"main.js", "", false},
		{"notes.txt", "", false},
	}
	for _, tt := range tests {
		src, ok := classify(tt.path)
		if src != tt.source || ok != tt.ok {
			t.Errorf("classify(%q) = %q, %v; want %q, %v", tt.path, src, ok, tt.source, tt.ok)
		}
	}
}
