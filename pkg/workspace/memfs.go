package workspace

import (
	"os"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"
)

// MemFS is an in-memory FS with the same observable behavior as OSFS.
// It backs tests and dry-run experimentation without touching disk.
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemFS creates a MemFS pre-populated with the given files, keyed by
// workspace-relative path.
func NewMemFS(files map[string]string) *MemFS {
	m := &MemFS{files: make(map[string][]byte, len(files))}
	for p, content := range files {
		m.files[Normalize(p)] = []byte(content)
	}
	return m
}

func (m *MemFS) Walk(skipDirs []string, fn func(Entry) error) error {
	m.mu.Lock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	m.mu.Unlock()
	sort.Strings(paths)

	emittedDirs := make(map[string]bool)
walk:
	for _, p := range paths {
		segs := strings.Split(p, "/")
		for _, s := range segs[:len(segs)-1] {
			if slices.Contains(skipDirs, s) {
				continue walk
			}
		}
		// Emit parent directories the way a real walk would.
		for i := 1; i < len(segs); i++ {
			dir := strings.Join(segs[:i], "/")
			if !emittedDirs[dir] {
				emittedDirs[dir] = true
				if err := fn(Entry{Path: dir}); err != nil {
					return err
				}
			}
		}
		if err := fn(Entry{Path: p, IsFile: true}); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemFS) ReadFile(p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[Normalize(p)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return slices.Clone(data), nil
}

func (m *MemFS) WriteFile(p string, data []byte) error {
	m.mu.Lock()
	m.files[Normalize(p)] = slices.Clone(data)
	m.mu.Unlock()
	return nil
}

func (m *MemFS) ResolvePath(p string) string { return path.Join("/", Normalize(p)) }

func (m *MemFS) Root() string { return "/" }

var _ FS = (*MemFS)(nil)
