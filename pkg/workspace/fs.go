package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Entry is one filesystem object yielded by a walk, identified by its
// normalized workspace-relative path.
type Entry struct {
	Path   string
	IsFile bool
}

// FS is the engine's only I/O boundary. Paths passed in and yielded out are
// workspace-relative and forward-slash normalized regardless of host OS.
// Walks are lazy and restartable per call; memory use is bounded by the
// largest single file read, not by tree size.
type FS interface {
	// Walk visits every entry under the root, pruning directories whose
	// base name appears in skipDirs. Returning an error from fn stops the
	// walk and is returned from Walk.
	Walk(skipDirs []string, fn func(Entry) error) error
	// ReadFile returns the file's contents, or an error satisfying
	// os.IsNotExist if the path is absent.
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	// ResolvePath converts a workspace-relative path to an absolute one.
	ResolvePath(path string) string
	Root() string
}

// Normalize brings a path to the canonical workspace-relative form:
// forward slashes, no leading "./" or "/". This runs before any path
// comparison so identifiers are deterministic across operating systems.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

// OSFS is the production FS backed by a directory on disk.
type OSFS struct {
	root string
}

// NewOSFS creates an FS rooted at dir, resolved to an absolute path.
func NewOSFS(dir string) (*OSFS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &OSFS{root: abs}, nil
}

func (o *OSFS) Walk(skipDirs []string, fn func(Entry) error) error {
	return filepath.WalkDir(o.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal: discovery stays
			// resilient on partially accessible workspaces.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == o.root {
			return nil
		}
		if d.IsDir() && slices.Contains(skipDirs, d.Name()) {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(o.root, p)
		if err != nil {
			return nil
		}
		return fn(Entry{Path: Normalize(rel), IsFile: !d.IsDir()})
	})
}

func (o *OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(o.ResolvePath(path))
}

func (o *OSFS) WriteFile(path string, data []byte) error {
	return os.WriteFile(o.ResolvePath(path), data, 0o644)
}

func (o *OSFS) ResolvePath(path string) string {
	return filepath.Join(o.root, filepath.FromSlash(Normalize(path)))
}

func (o *OSFS) Root() string { return o.root }

var _ FS = (*OSFS)(nil)
