// Package buildinfo holds version information stamped at build time:
//
//	go build -ldflags "-X github.com/matzehuels/treescape/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/treescape/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/treescape/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"

	"github.com/matzehuels/treescape/pkg/walkthrough"
)

var (
	// Version is the semantic version.
	Version = "dev"
	// Commit is the git commit SHA.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// Info is the machine-readable form served by the API.
type Info struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	Date       string `json:"date"`
	LCGVersion int    `json:"lcg_version"`
}

// Get returns the current build info. LCGVersion identifies the walkthrough
// generator, so clients can tell whether cached layouts are comparable.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, LCGVersion: walkthrough.LCGVersion}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\nlayout generator: v%d", Version, Commit, Date, walkthrough.LCGVersion)
}

// Template returns the version template for cobra.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
