package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultNPMBaseURL is the public npm registry endpoint.
const DefaultNPMBaseURL = "https://registry.npmjs.org"

// NPMClient fetches version metadata from an npm registry.
type NPMClient struct {
	*Client
	baseURL string
}

// NewNPMClient creates an npm adapter on top of the shared client. An empty
// baseURL selects the public registry.
func NewNPMClient(client *Client, baseURL string) *NPMClient {
	if baseURL == "" {
		baseURL = DefaultNPMBaseURL
	}
	return &NPMClient{Client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// FetchVersions returns every published version of the package. Versions
// carrying a deprecation notice are reported as yanked.
func (c *NPMClient) FetchVersions(ctx context.Context, pkg string, refresh bool) ([]AvailableVersion, error) {
	var data npmPackument
	err := c.Cached(ctx, "npm:"+pkg, refresh, &data, func() error {
		if err := c.GetJSON(ctx, c.baseURL+"/"+encodeName(pkg), &data); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: npm package %s", ErrNotFound, pkg)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	versions := make([]AvailableVersion, 0, len(data.Versions))
	for v, info := range data.Versions {
		av := AvailableVersion{Version: v, Yanked: info.Deprecated != ""}
		if t, err := time.Parse(time.RFC3339, data.Time[v]); err == nil {
			av.PublishedAt = t
		}
		versions = append(versions, av)
	}
	return versions, nil
}

// encodeName percent-encodes the slash in scoped names, the form the npm
// registry expects for "@scope/name" lookups.
func encodeName(pkg string) string {
	return strings.ReplaceAll(pkg, "/", "%2F")
}

type npmPackument struct {
	DistTags struct {
		Latest string `json:"latest"`
	} `json:"dist-tags"`
	Versions map[string]struct {
		Deprecated string `json:"deprecated"`
	} `json:"versions"`
	Time map[string]string `json:"time"`
}
