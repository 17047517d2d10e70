package ir

// Version constants for the generator.
const (
	// GeneratorName is stamped into the provenance comment of every artifact.
	GeneratorName = "cdpgen"

	// GeneratorVersion is the cdpgen release.
	GeneratorVersion = "0.1.0"
)
