package analysis

import (
	"legdis/internal/disasm"
	"legdis/internal/legv8"
)

// Annotator adds comments to a rendered listing. Annotators never change
// instruction text or labels, only Line.Annotations.
type Annotator interface {
	// Annotate receives the decoded program and its listing, in slot order,
	// and returns the listing with annotations attached
	Annotate(insts []legv8.Instruction, listing disasm.Listing) disasm.Listing
}

// AnnotatorChain runs multiple annotators in sequence
type AnnotatorChain struct {
	annotators []Annotator
}

// NewAnnotatorChain creates a new annotator chain
func NewAnnotatorChain(annotators ...Annotator) *AnnotatorChain {
	return &AnnotatorChain{
		annotators: annotators,
	}
}

// Annotate runs all annotators in sequence
func (ac *AnnotatorChain) Annotate(insts []legv8.Instruction, listing disasm.Listing) disasm.Listing {
	result := listing
	for _, annotator := range ac.annotators {
		result = annotator.Annotate(insts, result)
	}
	return result
}

// Len returns the number of annotators in the chain
func (ac *AnnotatorChain) Len() int {
	return len(ac.annotators)
}
