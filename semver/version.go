// Package semver parses and compares plugin versions and evaluates
// dependency version constraints against them.
package semver

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version wraps a parsed semantic version (major.minor.patch[-pre][+build]).
type Version struct {
	raw string
	v   *semver.Version
}

// Parse parses s into a Version. Returns InvalidVersion on malformed input.
func Parse(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, &InvalidVersionError{Raw: s, Cause: err}
	}
	return Version{raw: s, v: v}, nil
}

// MustParse is Parse, panicking on error. Intended for static/test versions.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version in normalized major.minor.patch[-pre][+meta]
// form, or the stored raw text when no parsed version is held.
func (v Version) String() string {
	if v.v == nil {
		return v.raw
	}
	return v.v.String()
}

// Major, Minor, Patch expose the numeric triple.
func (v Version) Major() uint64 { return v.v.Major() }
func (v Version) Minor() uint64 { return v.v.Minor() }
func (v Version) Patch() uint64 { return v.v.Patch() }

// Prerelease returns the prerelease identifier, empty if none.
func (v Version) Prerelease() string { return v.v.Prerelease() }

// IsZero reports whether this Version was never successfully parsed.
func (v Version) IsZero() bool { return v.v == nil }

// Compare returns -1, 0, or 1 if v is less than, equal to, or greater than other.
// Build metadata is ignored, matching semantic-versioning ordering rules.
func (v Version) Compare(other Version) int {
	return v.v.Compare(other.v)
}

// LessThan reports whether v orders strictly before other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// Equal reports whether v and other compare equal, ignoring build metadata.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Highest returns the maximum version in vs by Compare. Panics on an empty set,
// mirroring getHighestVersion's assumption that the caller has a non-empty input.
func Highest(vs []Version) Version {
	if len(vs) == 0 {
		panic("semver: Highest called with empty version set")
	}
	best := vs[0]
	for _, v := range vs[1:] {
		if v.Compare(best) > 0 {
			best = v
		}
	}
	return best
}

// InvalidVersionError is returned when a version string cannot be parsed.
type InvalidVersionError struct {
	Raw   string
	Cause error
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %v", e.Raw, e.Cause)
}

func (e *InvalidVersionError) Unwrap() error { return e.Cause }
