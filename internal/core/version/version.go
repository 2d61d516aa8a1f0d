// Package version provides information about the build version of the station.
package version

import "runtime"

// BuildInfo holds version information about the binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// Service is the name the station reports in meta endpoints and bus connections
const Service = "qrgate-station"

// Info returns the build information. version, commit and date are set at
// build time:
//
//	go build -ldflags "-X 'qrgate/internal/core/version.version=v0.1.0' \
//	  -X 'qrgate/internal/core/version.commit=abcd' \
//	  -X 'qrgate/internal/core/version.date=2026-01-02'"
func Info() BuildInfo {
	return BuildInfo{
		Service: Service,
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
