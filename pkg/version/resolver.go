package version

import (
	"github.com/Masterminds/semver/v3"
)

// Candidate is the resolved latest release of a series, keeping the raw tag
// it was parsed from.
type Candidate struct {
	Tag     string
	Version *semver.Version
}

// Resolution maps each requested series to its latest candidate. Requested
// series with no matching tag end up in Missing (in request order) so callers
// can log them explicitly instead of silently dropping them.
type Resolution struct {
	Latest  map[Series]Candidate
	Missing []Series
}

// Resolve groups tags by series under the given scheme and selects the
// greatest version per requested series, comparing major, minor and patch as
// integers. Series not in requested are dropped. When several raw tags parse
// to the same version the first one encountered wins, so resolution is stable
// across runs over the same input.
func Resolve(tags []string, scheme Scheme, requested []Series) Resolution {
	wanted := make(map[Series]bool, len(requested))
	for _, s := range requested {
		wanted[s] = true
	}

	latest := make(map[Series]Candidate)
	for _, tag := range tags {
		v, ok := scheme.Parse(tag)
		if !ok {
			continue
		}
		key := scheme.SeriesOf(v)
		if !wanted[key] {
			continue
		}
		if cur, ok := latest[key]; !ok || v.GreaterThan(cur.Version) {
			latest[key] = Candidate{Tag: tag, Version: v}
		}
	}

	var missing []Series
	for _, s := range requested {
		if _, ok := latest[s]; !ok {
			missing = append(missing, s)
		}
	}

	return Resolution{Latest: latest, Missing: missing}
}
