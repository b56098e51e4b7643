package cli

import (
	"github.com/matzehuels/treescape/pkg/buildinfo"
)

// SetVersion sets the version information displayed by --version and
// served by the API. It is called by main with values injected via
// ldflags; empty values keep the current ones.
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}
