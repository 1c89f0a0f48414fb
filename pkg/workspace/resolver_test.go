package workspace

import (
	"errors"
	"testing"
)

func testWorkspace() *MemFS {
	return NewMemFS(map[string]string{
		"deno.json": `{
			// workspace root project
			"name": "@t/root",
			"tasks": {"dev": "deno run -A main.ts", "test": "deno test"},
			"imports": {"@t/a": "jsr:@t/a@1.0.0"}
		}`,
		"packages/a/deno.json": `{
			"name": "@t/a",
			"tasks": {"test": "deno test"},
			"imports": {}
		}`,
		"packages/b/deno.jsonc": `{
			"name": "@t/b",
			"imports": {"@t/a": "jsr:@t/a@1.0.0"},
		}`,
		"tools/nameless/deno.json":     `{"tasks": {"lint": "deno lint"}}`,
		"tools/broken/deno.json":       `{"name": "@t/broken",`,
		"node_modules/dep/deno.json":   `{"name": "@t/hidden"}`,
		".deno/cache/deno.json":        `{"name": "@t/cached"}`,
		"packages/a/src/mod.ts":        `export {};`,
		"packages/a/node_modules/x.ts": `export {};`,
	})
}

func names(refs []ProjectRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Name
	}
	return out
}

func TestResolveAll(t *testing.T) {
	r := NewResolver(testWorkspace())

	refs, err := r.Resolve("", ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Root, a, b, nameless; broken skipped; node_modules and .deno pruned.
	if len(refs) != 4 {
		t.Fatalf("Resolve(\"\") = %v, want 4 projects", names(refs))
	}
	for _, pr := range refs {
		if pr.Name == "@t/hidden" || pr.Name == "@t/cached" || pr.Name == "@t/broken" {
			t.Errorf("project %q should not have been discovered", pr.Name)
		}
	}
}

func TestResolveSkipNameless(t *testing.T) {
	r := NewResolver(testWorkspace())

	refs, err := r.Resolve("", ResolveOptions{SkipNameless: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("got %v, want 3 named projects", names(refs))
	}
}

func TestResolveModes(t *testing.T) {
	r := NewResolver(testWorkspace())

	tests := []struct {
		name string
		ref  string
		want []string
	}{
		{"manifest path", "packages/a/deno.json", []string{"@t/a"}},
		{"manifest path with dot-slash", "./packages/a/deno.json", []string{"@t/a"}},
		{"directory with manifest", "packages/a", []string{"@t/a"}},
		{"directory subtree", "packages", []string{"@t/a", "@t/b"}},
		{"package name", "@t/b", []string{"@t/b"}},
		{"comma list", "@t/a,@t/b", []string{"@t/a", "@t/b"}},
		{"comma list dedupes", "@t/a,packages/a/deno.json", []string{"@t/a"}},
		{"unknown name", "@t/none", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, err := r.Resolve(tt.ref, ResolveOptions{})
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.ref, err)
			}
			got := names(refs)
			if len(got) != len(tt.want) {
				t.Fatalf("Resolve(%q) = %v, want %v", tt.ref, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Resolve(%q) = %v, want %v", tt.ref, got, tt.want)
				}
			}
		})
	}
}

func TestResolveSingleOnly(t *testing.T) {
	r := NewResolver(testWorkspace())

	_, err := r.Resolve("@t/a,@t/b", ResolveOptions{SingleOnly: true})
	var multi *MultipleProjectsError
	if !errors.As(err, &multi) {
		t.Fatalf("err = %v, want MultipleProjectsError", err)
	}
	if multi.Count != 2 {
		t.Errorf("Count = %d, want 2", multi.Count)
	}

	// A single match passes.
	if _, err := r.Resolve("@t/a", ResolveOptions{SingleOnly: true}); err != nil {
		t.Errorf("Resolve(@t/a, SingleOnly): %v", err)
	}
}

func TestResolveUseFirst(t *testing.T) {
	r := NewResolver(testWorkspace())

	// UseFirst takes precedence over SingleOnly: no ambiguity error.
	refs, err := r.Resolve("@t/a,@t/b", ResolveOptions{UseFirst: true, SingleOnly: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(refs) != 1 || refs[0].Name != "@t/a" {
		t.Errorf("Resolve(UseFirst) = %v, want [@t/a]", names(refs))
	}
}

func TestResolveProjectFields(t *testing.T) {
	r := NewResolver(testWorkspace())

	refs, err := r.Resolve("@t/root", ResolveOptions{})
	if err != nil || len(refs) != 1 {
		t.Fatalf("Resolve(@t/root) = %v, %v", refs, err)
	}
	pr := refs[0]
	if pr.Dir != "." || pr.ConfigPath != "deno.json" {
		t.Errorf("root project paths = %q, %q", pr.Dir, pr.ConfigPath)
	}
	if !pr.HasDev {
		t.Error("root project should report HasDev")
	}
	if pr.Tasks["test"] != "deno test" {
		t.Errorf("Tasks = %v", pr.Tasks)
	}

	refs, _ = r.Resolve("@t/a", ResolveOptions{})
	if refs[0].HasDev {
		t.Error("@t/a has no dev task")
	}
	if refs[0].Dir != "packages/a" {
		t.Errorf("Dir = %q, want packages/a", refs[0].Dir)
	}
}

func TestResolveDiagnostics(t *testing.T) {
	r := NewResolver(testWorkspace())

	var diags []Diagnostic
	_, err := r.Resolve("", ResolveOptions{Diag: func(d Diagnostic) { diags = append(diags, d) }})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1 (the malformed manifest): %v", len(diags), diags)
	}
	if diags[0].Path != "tools/broken/deno.json" || diags[0].Reason != "malformed manifest" {
		t.Errorf("diagnostic = %+v", diags[0])
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{".", "anything/at/all.ts", true},
		{"apps/web", "apps/web/mod.ts", true},
		{"apps/web", "apps/web", true},
		{"apps/web", "apps/web2/mod.ts", false},
		{"apps/web", "apps/mod.ts", false},
	}
	for _, tt := range tests {
		pr := ProjectRef{Dir: tt.dir}
		if got := pr.Contains(tt.path); got != tt.want {
			t.Errorf("Contains(%q in %q) = %v, want %v", tt.path, tt.dir, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"./a/b", "a/b"},
		{"/a/b", "a/b"},
		{`a\b\c`, "a/b/c"},
		{"", "."},
		{"a/b", "a/b"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
