// Package version holds the semantic version of the recapture CLI.
package version

import (
	"github.com/blang/semver"
)

// Version is the current version of this repo.
var Version semver.Version

var versionString = "0.1.0"
var isSnapshot = true
var snapshot = semver.PRVersion{VersionStr: "snapshot"}

func init() {
	Version = parse(versionString, isSnapshot)
}

// parse returns the semver of s, marked as a snapshot pre-release if snap is set.
func parse(s string, snap bool) semver.Version {
	v := semver.MustParse(s)
	if snap {
		v.Pre = []semver.PRVersion{snapshot}
	}
	return v
}
