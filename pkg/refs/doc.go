// Package refs scans a workspace for package specifier references and
// rewrites them in place.
//
// [Scanner.FindReferences] walks every resolved project, classifies each
// scanned file into a [Source] category, and attributes every match to
// the most specific project containing it. [Scanner.Upgrade] rewrites the
// selected references file by file: a file that cannot be read or written
// reports a failure for its references without aborting the rest of the
// run, and a second run of the same upgrade is a no-op.
//
// The scan honors a root-level .depsweepignore file with gitignore-style
// glob patterns, on top of the built-in skip list (.git, node_modules,
// .deno, cov, .coverage).
package refs
