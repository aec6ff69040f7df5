// Package version reports the build version, set at link time:
//
//	go build -ldflags "-X github.com/ramonehamilton/draftpool/internal/version.Version=v1.2.3"
package version

// Version defaults to "dev" for local builds.
var Version = "dev"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}
