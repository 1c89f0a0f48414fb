// Package version provides channel-aware semantic version parsing, ordering,
// and latest-version selection.
//
// A channel is a named prerelease track encoded as the first prerelease
// identifier: "1.2.0-integration" is version 1.2.0 on the "integration"
// channel, "1.2.0" is a production version. Ordering follows semver, so a
// production version sorts after any prerelease with the same base.
package version

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Parsed is the decomposition of a version string into base and channel.
type Parsed struct {
	Original     string `json:"original"`
	Base         string `json:"base"` // major.minor.patch
	Channel      string `json:"channel,omitempty"`
	IsProduction bool   `json:"is_production"`
}

// Parse splits a version string into (base, channel). Strict semver parsing
// is attempted first; anything it rejects falls back to splitting on the
// first dash, which tolerates loose tags like "1.2-nightly".
func Parse(v string) Parsed {
	if sv, err := semver.StrictNewVersion(v); err == nil {
		return Parsed{
			Original:     v,
			Base:         fmt.Sprintf("%d.%d.%d", sv.Major(), sv.Minor(), sv.Patch()),
			Channel:      channelOf(sv.Prerelease()),
			IsProduction: sv.Prerelease() == "",
		}
	}
	base, rest, found := strings.Cut(v, "-")
	p := Parsed{Original: v, Base: base, IsProduction: !found}
	if found {
		p.Channel = channelOf(rest)
	}
	return p
}

// channelOf reduces a prerelease string to its channel name, the first
// dot-separated identifier ("integration.3" -> "integration").
func channelOf(pre string) string {
	ch, _, _ := strings.Cut(pre, ".")
	return ch
}

// Compare orders two version strings, returning -1, 0, or 1. Semver rules
// apply, including prerelease ordering: a production version is newer than
// any prerelease sharing its base.
func Compare(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return lenientCompare(Parse(a), Parse(b))
}

// lenientCompare handles tags strict semver rejects. Bases are compared
// numerically per segment, then production outranks any channel, then
// channels order lexically.
func lenientCompare(a, b Parsed) int {
	if c := compareBase(a.Base, b.Base); c != 0 {
		return c
	}
	switch {
	case a.IsProduction && !b.IsProduction:
		return 1
	case !a.IsProduction && b.IsProduction:
		return -1
	}
	return strings.Compare(a.Channel, b.Channel)
}

func compareBase(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var an, bn int
		if i < len(as) {
			an, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bn, _ = strconv.Atoi(bs[i])
		}
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	}
	return 0
}

// IsNewer reports whether candidate is strictly newer than current.
func IsNewer(current, candidate string) bool {
	return Compare(current, candidate) < 0
}

// FindLatest returns the highest version on the given channel. An empty
// channel selects production versions only. Returns false if no version
// matches.
func FindLatest(versions []string, channel string) (string, bool) {
	var best string
	found := false
	for _, v := range versions {
		if Parse(v).Channel != channel {
			continue
		}
		if !found || Compare(best, v) < 0 {
			best = v
			found = true
		}
	}
	return best, found
}

// VersionsByChannel returns every version on the given channel, newest
// first. An empty channel selects production versions only.
func VersionsByChannel(versions []string, channel string) []string {
	var out []string
	for _, v := range versions {
		if Parse(v).Channel == channel {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return Compare(out[i], out[j]) > 0 })
	return out
}
