package version

// Version is the released version of sonar-report. Overridden at build
// time with -ldflags "-X .../internal/version.Version=x.y.z".
var Version = "0.1.0"

// FullVersion returns the version prefixed with v
func FullVersion() string {
	return "v" + Version
}
