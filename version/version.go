// Package version reports build information of the contractor binary.
package version

import (
	"fmt"
	"runtime"

	"github.com/teranos/contractor/typegen/source"
)

// Build information, set at build time via ldflags:
//
//	-X github.com/teranos/contractor/version.Version=v1.4.0
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	// GraphVersions is the range of graph document versions this build reads
	GraphVersions string `json:"graph_versions"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash:    CommitHash,
		BuildTime:     BuildTime,
		Version:       Version,
		GoVersion:     runtime.Version(),
		Platform:      fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		GraphVersions: source.SupportedVersions,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("contractor %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
