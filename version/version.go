// Package version reports how the kodiakgen binary was built.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Set at build time via -ldflags "-X github.com/teranos/kodiakgen/version.Version=...".
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info describes the running binary.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Release parses Version as a semantic version. Untagged builds return nil.
func (i Info) Release() *semver.Version {
	if i.Version == "" || i.Version == "dev" {
		return nil
	}
	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return nil
	}
	return v
}

// String returns the line printed by `kodiakgen version`.
func (i Info) String() string {
	name := "dev"
	if rel := i.Release(); rel != nil {
		name = "v" + rel.String()
	} else if i.Version != "dev" && i.Version != "" {
		name = i.Version
	}
	return fmt.Sprintf("kodiakgen %s (commit %s, built %s, %s)", name, i.Short(), i.BuildTime, i.Platform)
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	hash := strings.TrimSpace(i.CommitHash)
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
