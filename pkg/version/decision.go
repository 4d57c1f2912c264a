package version

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrMalformedPin is returned when a currently pinned version does not parse
// as a strict semantic version.
var ErrMalformedPin = errors.New("malformed pinned version")

// Decision reports whether a pinned version is stale relative to the
// resolved latest release of its series.
type Decision struct {
	Series      Series
	Current     *semver.Version
	Latest      Candidate
	NeedsUpdate bool
}

// Decide compares a pinned version against the resolved latest candidate.
// The pin is parsed with the same strict rules as upstream tags; a malformed
// pin is an error, never a silent false. Equal versions decide to no update,
// so re-running against an already bumped pin is a no-op.
func Decide(series Series, currentPin string, latest Candidate) (Decision, error) {
	cur, err := semver.StrictNewVersion(currentPin)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %q: %v", ErrMalformedPin, currentPin, err)
	}
	return Decision{
		Series:      series,
		Current:     cur,
		Latest:      latest,
		NeedsUpdate: latest.Version.GreaterThan(cur),
	}, nil
}
