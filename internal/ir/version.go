package ir

// Version constants for the query model and compiler.
const (
	// ModelVersion is the query model schema version.
	ModelVersion = "1"

	// CompilerVersion is the docql compiler version.
	CompilerVersion = "0.1.0"
)
