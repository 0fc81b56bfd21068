// ABOUTME: Version constants for the flowaudio tools
// ABOUTME: Single source of truth for product identification
package version

const (
	// Version is the current release version.
	Version = "0.1.0"

	// Product is the product name reported by the CLI.
	Product = "flowaudio"

	// Manufacturer identifies the project.
	Manufacturer = "FlowAudio"
)
