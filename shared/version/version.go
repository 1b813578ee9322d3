package version

import (
	"os"
	"strings"
	"sync"
)

var (
	version = VersionLocal
	once    sync.Once
)

const VersionLocal = "0-local"

// Version returns the current version. It is read from a file instead
// of go:embed to avoid cache busting the Dockerfile before the build.
func Version() string {
	once.Do(func() {
		data, err := os.ReadFile("./version")
		if err != nil {
			// development builds have no version file
			return
		}
		version = strings.TrimSpace(string(data))
	})
	return version
}
