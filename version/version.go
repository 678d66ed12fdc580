package version

// Build metadata, injected with
// -ldflags "-X circounter/version.Version=x.y.z -X circounter/version.CommitHash=... -X circounter/version.BuildTime=..."
var (
	Version    = "0.1.0"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with a short commit hash when one was injected
func GetFullVersion() string {
	if CommitHash == "unknown" || CommitHash == "" {
		return Version
	}
	short := CommitHash
	if len(short) > 7 {
		short = short[:7]
	}
	return Version + " (" + short + ")"
}

// GetBuildInfo returns build metadata
func GetBuildInfo() string {
	return "circounter " + Version + "\nCommit: " + CommitHash + "\nBuild Time: " + BuildTime
}
