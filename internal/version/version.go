package version

// value is overridden at build time via
// -ldflags "-X github.com/sbeeredd04/promen/internal/version.value=vX.Y.Z".
var value = "dev"

// Value returns the build version string.
func Value() string {
	return value
}
