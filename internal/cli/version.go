package cli

import "fmt"

// BuildVersion renders the version string shown by --version from the
// values injected via ldflags.
func BuildVersion(version, commit, date string) string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}
