// Package workspace discovers projects in a multi-project workspace and
// resolves caller-supplied references to them.
//
// A workspace is a directory tree containing zero or more projects, each
// identified by a JSON-with-comments manifest (deno.json or deno.jsonc).
// [Resolver.Resolve] accepts a manifest path, a directory, an exact project
// name, or a comma-separated list of any of these, and returns normalized
// [ProjectRef] values whose paths are workspace-relative and
// forward-slash-normalized on every OS.
//
// All I/O goes through the [FS] interface; [OSFS] is the production
// backend and [MemFS] the in-memory one used by tests. Malformed manifests
// are skipped rather than failing discovery — pass
// [ResolveOptions].Diag to observe what was skipped.
package workspace
