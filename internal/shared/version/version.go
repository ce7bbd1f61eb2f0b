// Package version exposes the build version, set through -ldflags.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/orris-inc/klarnacheckout/internal/shared/version.Version=1.4.0"
var (
	Version = "dev"
	Commit  = ""
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// String returns the canonical build version, or "dev" for unversioned builds.
func String() string {
	v := Normalize(Version)
	if !semver.IsValid(v) {
		return "dev"
	}
	v = semver.Canonical(v)
	if Commit != "" {
		v += "+" + Commit
	}
	return v
}

// UserAgent formats product/version for outgoing requests.
func UserAgent(product string) string {
	return product + "/" + String()
}
