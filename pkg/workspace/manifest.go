package workspace

import (
	"encoding/json"
	"path"

	"github.com/tailscale/hujson"
)

// manifestNames are the per-project config filenames, in probe order.
var manifestNames = []string{"deno.json", "deno.jsonc"}

// Manifest is a project config file: JSON with comments and trailing
// commas permitted. Only the fields the engine reads are modeled; rewrites
// never restructure the file, they substitute version tokens in place.
type Manifest struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Tasks   map[string]string `json:"tasks"`
	Imports map[string]string `json:"imports"`
}

// IsManifestPath reports whether p names a project manifest.
func IsManifestPath(p string) bool {
	base := path.Base(Normalize(p))
	for _, n := range manifestNames {
		if base == n {
			return true
		}
	}
	return false
}

// ParseManifest decodes a JSONC manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(std, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
