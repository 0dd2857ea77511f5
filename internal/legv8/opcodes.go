package legv8

// Mnemonics that the renderer treats specially.
const (
	MnemonicB       = "B"
	MnemonicBL      = "BL"
	MnemonicBCond   = "B."
	MnemonicCBZ     = "CBZ"
	MnemonicCBNZ    = "CBNZ"
	MnemonicBR      = "BR"
	MnemonicLSL     = "LSL"
	MnemonicLSR     = "LSR"
	MnemonicPRNT    = "PRNT"
	MnemonicUnknown = "Unknown"
)

// opcodeRange maps an inclusive range of 11-bit primary opcodes to a format
// and mnemonic.
type opcodeRange struct {
	lo, hi   uint32
	format   Format
	mnemonic string
}

// opcodeTable is checked in order, first match wins. Ranges do not overlap.
var opcodeTable = []opcodeRange{
	{0x0a0, 0x0bf, FormatB, MnemonicB},
	{0x2a0, 0x2a7, FormatCB, MnemonicBCond},
	{0x450, 0x450, FormatR, "AND"},
	{0x458, 0x458, FormatR, "ADD"},
	{0x488, 0x489, FormatI, "ADDI"},
	{0x490, 0x491, FormatI, "ANDI"},
	{0x4a0, 0x4bf, FormatB, MnemonicBL},
	{0x4d8, 0x4d8, FormatR, "MUL"},
	{0x550, 0x550, FormatR, "ORR"},
	{0x590, 0x591, FormatI, "ORRI"},
	{0x5a0, 0x5a7, FormatCB, MnemonicCBZ},
	{0x5a8, 0x5af, FormatCB, MnemonicCBNZ},
	{0x650, 0x650, FormatR, "EOR"},
	{0x658, 0x658, FormatR, "SUB"},
	{0x688, 0x689, FormatI, "SUBI"},
	{0x690, 0x691, FormatI, "EORI"},
	{0x69a, 0x69a, FormatR, MnemonicLSR},
	{0x69b, 0x69b, FormatR, MnemonicLSL},
	{0x6b0, 0x6b0, FormatR, MnemonicBR},
	{0x758, 0x758, FormatR, "SUBS"},
	{0x788, 0x789, FormatI, "SUBIS"},
	{0x794, 0x797, FormatIM, "MOVK"},
	{0x7c0, 0x7c0, FormatD, "STUR"},
	{0x7c2, 0x7c2, FormatD, "LDUR"},
	{0x7fc, 0x7fc, FormatPseudo, "PRNL"},
	{0x7fd, 0x7fd, FormatPseudo, MnemonicPRNT},
	{0x7fe, 0x7fe, FormatPseudo, "DUMP"},
	{0x7ff, 0x7ff, FormatPseudo, "HALT"},
}

// Opcode extracts the 11-bit primary opcode field, bits [31:21].
func Opcode(word uint32) uint32 {
	return (word >> 21) & 0x7FF
}

// Classify returns the format and mnemonic selected by the primary opcode
// field of word. Words matching no entry classify as FormatUnknown/"Unknown".
func Classify(word uint32) (Format, string) {
	op := Opcode(word)
	for _, r := range opcodeTable {
		if op >= r.lo && op <= r.hi {
			return r.format, r.mnemonic
		}
	}
	return FormatUnknown, MnemonicUnknown
}

// immediateField gives the sign bit and low bit of each format's immediate.
var immediateField = map[Format]struct{ signBit, lastBit uint }{
	FormatR:  {15, 10},
	FormatI:  {21, 10},
	FormatD:  {20, 12},
	FormatB:  {25, 0},
	FormatCB: {23, 5},
	FormatIM: {20, 5},
}
