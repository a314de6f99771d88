// Package build carries the release tag, set at link time:
//
//	go build -ldflags "-X github.com/TrevorS/geohdbscan/cmd/geohdbscan/internal/build.Version=v0.3.0" ./cmd/geohdbscan
package build

// Version is the release tag. Builds without ldflags report "dev".
var Version = "dev"

// String is the line printed by the version command.
func String() string {
	return "geohdbscan " + Version
}
