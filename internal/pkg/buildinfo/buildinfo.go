// Package buildinfo reports the version of the record vault binaries.
package buildinfo

import (
	"github.com/maloquacious/semver"
)

// Name of the application
const Name = "record-vault"

// Version of the application; Build carries the VCS commit when available
var Version = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}

// String returns the version in semver notation
func String() string {
	return Version.String()
}
