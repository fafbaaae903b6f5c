package version

var (
	// Version is the semantic version of the flowsplit release.
	Version = "1.0.0"

	// GitHash is set at build time through -ldflags.
	GitHash = ""

	// Timestamp is the build timestamp, set at build time through -ldflags.
	Timestamp = ""
)
