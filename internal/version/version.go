// Package version parses and bumps the MAJOR.MINOR.PATCH versions kept in
// .bumpversion.toml and in release tags.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
)

// ErrInvalid is returned for strings that are not MAJOR.MINOR.PATCH versions.
var ErrInvalid = errors.New("invalid version")

// Initial is the version assigned when no previous version can be found.
var Initial = semver.Version{Major: 0, Minor: 1, Patch: 0}

// Parse parses a full MAJOR.MINOR.PATCH version. Partial versions such as the
// "1.2" major-minor tags are rejected.
func Parse(s string) (semver.Version, error) {
	v, err := semver.Parse(strings.TrimSpace(s))
	if err != nil {
		return semver.Version{}, fmt.Errorf("%w %q: %v", ErrInvalid, s, err)
	}
	return v, nil
}

// BumpPatch returns v with the patch number incremented.
func BumpPatch(v semver.Version) semver.Version {
	return semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

// BumpMinor returns v with the minor number incremented and the patch reset.
func BumpMinor(v semver.Version) semver.Version {
	return semver.Version{Major: v.Major, Minor: v.Minor + 1}
}

// BumpMajor returns v with the major number incremented and the rest reset.
func BumpMajor(v semver.Version) semver.Version {
	return semver.Version{Major: v.Major + 1}
}

// IsBumpOf reports whether current is the patch, minor or major bump of prev.
func IsBumpOf(prev, current semver.Version) bool {
	return current.EQ(BumpPatch(prev)) || current.EQ(BumpMinor(prev)) || current.EQ(BumpMajor(prev))
}

// Next returns the version current should become given the released version
// prev: current itself when it already is a bump of prev, otherwise the patch
// bump of prev. The boolean reports whether a change is needed.
func Next(prev, current semver.Version) (semver.Version, bool) {
	if IsBumpOf(prev, current) {
		return current, false
	}
	return BumpPatch(prev), true
}
