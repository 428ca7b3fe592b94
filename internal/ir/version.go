package ir

// Version constants for the instruction set and engine.
const (
	// IRVersion is the instruction set schema version.
	IRVersion = "1"

	// EngineVersion is the tapevm engine version.
	EngineVersion = "0.1.0"
)
