package ir

// NOTE: These are ledger types, not part of the protocol model.

// BuildOutcome is what a build did to its artifact.
type BuildOutcome string

const (
	OutcomeGenerated BuildOutcome = "generated"
	OutcomeSkipped   BuildOutcome = "skipped"
)

// BuildRecord is one row of the build ledger.
type BuildRecord struct {
	Seq              int64        `json:"seq"` // Auto-increment, ledger order
	ID               string       `json:"id"`  // UUIDv7
	Provenance       string       `json:"provenance"`
	InputDigest      string       `json:"input_digest,omitempty"` // Empty for skipped builds
	ArtifactDigest   string       `json:"artifact_digest"`
	ArtifactPath     string       `json:"artifact_path"`
	Domains          int          `json:"domains"`
	Commands         int          `json:"commands"`
	Events           int          `json:"events"`
	Outcome          BuildOutcome `json:"outcome"`
	GeneratorVersion string       `json:"generator_version"`
}
