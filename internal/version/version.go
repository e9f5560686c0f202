// Package version reports build metadata injected via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set by ldflags during build:
//
//	-X github.com/felixgeelhaar/painel/internal/version.Version=v1.2.0
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the build metadata printed by `painel version`
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// GetInfo returns the build metadata of the running binary
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// ShortCommit returns the first 8 characters of the commit hash
func (i Info) ShortCommit() string {
	if len(i.Commit) > 8 {
		return i.Commit[:8]
	}
	return i.Commit
}

// String returns a one-line version banner
func (i Info) String() string {
	return fmt.Sprintf("Painel %s (%s) built %s with %s for %s",
		i.Version, i.ShortCommit(), i.Date, i.GoVersion, i.Platform)
}

// Short returns just the version number
func (i Info) Short() string {
	return i.Version
}

// UserAgent is the User-Agent header sent to the backend
func (i Info) UserAgent() string {
	return fmt.Sprintf("painel/%s (%s)", i.Version, i.Platform)
}
