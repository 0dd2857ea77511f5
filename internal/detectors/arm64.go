// Package detectors annotates rendered LEGv8 listings.
// Annotators attach comments without touching the instruction text.
package detectors

import (
	"encoding/binary"

	"golang.org/x/arch/arm64/arm64asm"

	"legdis/internal/disasm"
	"legdis/internal/legv8"
)

// ARM64Annotator cross-references each word against the full ARMv8 decoder.
// LEGv8 encodings are a subset of A64, so most lines gain the equivalent
// A64 form; pseudo-instructions and unknown words are left alone.
type ARM64Annotator struct{}

// NewARM64Annotator creates a new ARM64 cross-reference annotator.
func NewARM64Annotator() *ARM64Annotator {
	return &ARM64Annotator{}
}

func (a *ARM64Annotator) Annotate(insts []legv8.Instruction, listing disasm.Listing) disasm.Listing {
	for i, inst := range insts {
		if i >= len(listing) {
			break
		}
		switch inst.Format() {
		case legv8.FormatPseudo, legv8.FormatUnknown:
			continue
		}
		if text, ok := a.arm64Text(inst.Word()); ok {
			listing[i].Annotations = append(listing[i].Annotations, "arm64: "+text)
		}
	}
	return listing
}

// arm64Text decodes word as A64 and formats it in GNU syntax. arm64asm
// expects little-endian bytes.
func (a *ARM64Annotator) arm64Text(word uint32) (string, bool) {
	var raw [legv8.WordSize]byte
	binary.LittleEndian.PutUint32(raw[:], word)

	inst, err := arm64asm.Decode(raw[:])
	if err != nil {
		return "", false
	}
	return arm64asm.GNUSyntax(inst), true
}
