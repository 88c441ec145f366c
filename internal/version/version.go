package version

import "fmt"

// Overridden at build time with -ldflags "-X github.com/napolitain/boss-solver/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// Info returns the build metadata as a map for JSON responses
func Info() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
		"dirty":   Dirty,
	}
}

// String returns a one-line description for CLI output
func String() string {
	s := fmt.Sprintf("%s (%s)", Version, Commit)
	if Date != "" {
		s += " built " + Date
	}
	if Dirty == "true" {
		s += " dirty"
	}
	return s
}
