package beatmap

import "runtime"

// Version is the semantic version of the beatmap library.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// VersionInfo contains detailed version information.
type VersionInfo struct {
	Version   string
	GitCommit string // set via ldflags at build time
	BuildTime string // set via ldflags at build time
	GoVersion string

	// SchemaMajors lists the document schema major versions this build
	// decodes.
	SchemaMajors []uint64
}

// GetVersionInfo returns detailed version information.
//
// GitCommit and BuildTime are populated at build time via -ldflags:
//
//	go build -ldflags="-X github.com/simonhull/beatmap.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/beatmap.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
func GetVersionInfo() VersionInfo {
	goVer := goVersion
	if goVer == "unknown" {
		goVer = runtime.Version()
	}

	return VersionInfo{
		Version:      Version,
		GitCommit:    gitCommit,
		BuildTime:    buildTime,
		GoVersion:    goVer,
		SchemaMajors: SupportedMajorVersions(),
	}
}

// Variables populated at build time via -ldflags.
var (
	gitCommit = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)
