// Package misc keeps build time information.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set with -ldflags "-X imgpath/misc.version=... -X imgpath/misc.gitHash=...".
var (
	version = "dev"
	gitHash = "unknown"
)

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}

// GetAppName returns executable name without extension, falling back to
// "imgpath" when it cannot be determined.
func GetAppName() string {
	exe, err := os.Executable()
	if err != nil {
		return "imgpath"
	}
	base := filepath.Base(exe)
	if strings.HasSuffix(base, ".test") || strings.HasSuffix(base, ".test.exe") {
		// running under go test
		return "imgpath"
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if len(name) == 0 {
		return "imgpath"
	}
	return name
}
