// Package analysis resolves branch targets of a decoded LEGv8 program into
// labels and renders the program as assembly text.
package analysis

// Constants for label resolution and output
const (
	// LabelPrefix is prepended to the target slot index to name a label
	LabelPrefix = "instr"

	// DefaultOutputFile is where the CLI writes the listing unless told otherwise
	DefaultOutputFile = "out.legv8asm"
)
