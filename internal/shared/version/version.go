// Package version carries build metadata injected with -ldflags.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Set at build time: -ldflags "-X .../version.Current=v1.2.3 -X .../version.Commit=abc123".
var (
	Current = "dev"
	Commit  = ""
)

// Info is the payload of the version endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Release bool   `json:"release"`
}

func Get() Info {
	return Info{
		Version: Normalize(Current),
		Commit:  Commit,
		Release: IsRelease(Current),
	}
}

// Normalize ensures a semver-looking version carries the "v" prefix.
// Examples: "1.2.3" -> "v1.2.3", "dev" -> "dev".
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "dev" {
		return v
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// IsRelease reports whether v is a valid semver without a prerelease tag.
func IsRelease(v string) bool {
	n := Normalize(v)
	return semver.IsValid(n) && semver.Prerelease(n) == ""
}
