// Package version resolves upstream release tags into per-series latest
// versions and decides whether a pinned version is stale.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Series identifies a release line, e.g. "1.21" for Go or "20" for Node.js.
type Series string

// Scheme describes how an ecosystem names its release tags.
type Scheme struct {
	// Prefix is the literal tag prefix, e.g. "go" for golang/go or "v" for nodejs/node.
	Prefix string
	// SeriesParts is the number of leading version components that identify a
	// release series: 2 groups by major.minor (Go), 1 by major (Node.js).
	SeriesParts int
	// IncludePrerelease keeps tags with a pre-release suffix. Off by default:
	// both upstreams only ship stable versions to conda-forge.
	IncludePrerelease bool
}

// GoScheme matches tags like "go1.21.4" grouped by minor series.
var GoScheme = Scheme{Prefix: "go", SeriesParts: 2}

// NodeScheme matches tags like "v20.11.0" grouped by major series.
var NodeScheme = Scheme{Prefix: "v", SeriesParts: 1}

// Parse extracts a semantic version from a raw tag. Tags that do not carry
// the scheme's prefix, do not parse as strict major.minor.patch versions, or
// carry an unwanted pre-release or build suffix are filtered, not errors.
func (s Scheme) Parse(tag string) (*semver.Version, bool) {
	rest, ok := strings.CutPrefix(tag, s.Prefix)
	if !ok || rest == "" {
		return nil, false
	}
	v, err := semver.StrictNewVersion(rest)
	if err != nil {
		return nil, false
	}
	if !s.IncludePrerelease && v.Prerelease() != "" {
		return nil, false
	}
	if v.Metadata() != "" {
		return nil, false
	}
	return v, true
}

// SeriesOf returns the series key a parsed version belongs to.
func (s Scheme) SeriesOf(v *semver.Version) Series {
	if s.SeriesParts <= 1 {
		return Series(fmt.Sprintf("%d", v.Major()))
	}
	return Series(fmt.Sprintf("%d.%d", v.Major(), v.Minor()))
}
