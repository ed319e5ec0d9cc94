package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const name = "mailtree"

// These are variables so that they can be set during the build time.
var (
	BuildDate    = "unknown"
	BuildVersion = "0.0.0"
	Commit       = "unknown"
)

// BaseVersion returns the major and minor version of the build, or an empty
// string if the build version is not a valid semver.
func BaseVersion() string {
	v, err := semver.NewVersion(BuildVersion)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("v%d.%d", v.Major(), v.Minor())
}

// Generator identifies the tool in produced documents, for example
// "mailtree v1.7". Patch levels are left out so that output does not change
// between bugfix releases.
func Generator() string {
	if base := BaseVersion(); base != "" {
		return name + " " + base
	}
	return name
}

// String is the full description shown by --version.
func String() string {
	return fmt.Sprintf("%s %s (%s) on %s", name, BuildVersion, Commit, BuildDate)
}
