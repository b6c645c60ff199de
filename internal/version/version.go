// ABOUTME: Version information for the rate-change tools
// ABOUTME: Reported by the CLI and the HTTP server
package version

const (
	Version      = "0.3.0"
	Product      = "ratechange"
	Manufacturer = "audiolab"
)

// String returns "product version"
func String() string {
	return Product + " " + Version
}
