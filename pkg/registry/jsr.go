package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultJSRBaseURL is the public JSR registry endpoint.
const DefaultJSRBaseURL = "https://jsr.io"

// JSRClient fetches version metadata from a JSR registry.
type JSRClient struct {
	*Client
	baseURL string
}

// NewJSRClient creates a JSR adapter on top of the shared client. An empty
// baseURL selects the public registry.
func NewJSRClient(client *Client, baseURL string) *JSRClient {
	if baseURL == "" {
		baseURL = DefaultJSRBaseURL
	}
	return &JSRClient{Client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// FetchVersions returns every published version of the package, including
// yanked ones. The package name must be scoped ("@scope/name").
func (c *JSRClient) FetchVersions(ctx context.Context, pkg string, refresh bool) ([]AvailableVersion, error) {
	scope, name, ok := strings.Cut(strings.TrimPrefix(pkg, "@"), "/")
	if !ok {
		return nil, fmt.Errorf("jsr package %q: name must be @scope/name", pkg)
	}

	var meta jsrMeta
	err := c.Cached(ctx, "jsr:"+pkg, refresh, &meta, func() error {
		url := fmt.Sprintf("%s/@%s/%s/meta.json", c.baseURL, scope, name)
		if err := c.GetJSON(ctx, url, &meta); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: jsr package %s", ErrNotFound, pkg)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	versions := make([]AvailableVersion, 0, len(meta.Versions))
	for v, info := range meta.Versions {
		av := AvailableVersion{Version: v, Yanked: info.Yanked}
		if t, err := time.Parse(time.RFC3339, info.CreatedAt); err == nil {
			av.PublishedAt = t
		}
		versions = append(versions, av)
	}
	return versions, nil
}

type jsrMeta struct {
	Latest   string `json:"latest"`
	Versions map[string]struct {
		Yanked    bool   `json:"yanked"`
		CreatedAt string `json:"createdAt"`
	} `json:"versions"`
}
