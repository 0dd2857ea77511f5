package legv8

import "encoding/binary"

// WordSize is the width of every LEGv8 instruction in bytes.
const WordSize = 4

// SignExtend extracts the field of word spanning bits [signBit:lastBit] and
// sign-extends it from signBit. The bits below signBit are taken as the
// magnitude; if signBit is set every higher bit of the result is set too.
func SignExtend(word uint32, signBit, lastBit uint) int32 {
	width := signBit - lastBit
	raw := (word >> lastBit) & (uint32(1)<<width - 1)
	if word&(uint32(1)<<signBit) != 0 {
		raw |= ^uint32(0) << width
	}
	return int32(raw)
}

func immediate(word uint32, f Format) int32 {
	field := immediateField[f]
	return SignExtend(word, field.signBit, field.lastBit)
}

// Register fields.
func rm(word uint32) uint8 { return uint8((word >> 16) & 0x1F) } // bits [20:16]
func rn(word uint32) uint8 { return uint8((word >> 5) & 0x1F) }  // bits [9:5]
func rd(word uint32) uint8 { return uint8(word & 0x1F) }         // bits [4:0]

// Decode decodes a single 32-bit LEGv8 instruction word. It never fails:
// opcodes outside the table decode to UnknownInst.
func Decode(word uint32) Instruction {
	format, op := Classify(word)

	switch format {
	case FormatR:
		return RInst{
			Op:    op,
			Raw:   word,
			Rm:    rm(word),
			Rn:    rn(word),
			Rd:    rd(word),
			Shamt: immediate(word, format),
		}
	case FormatI:
		return IInst{Op: op, Raw: word, Rn: rn(word), Rd: rd(word), Imm: immediate(word, format)}
	case FormatD:
		// Rt shares bits [4:0] with Rd.
		return DInst{Op: op, Raw: word, Rn: rn(word), Rt: rd(word), Offset: immediate(word, format)}
	case FormatB:
		return BInst{Op: op, Raw: word, Offset: immediate(word, format)}
	case FormatCB:
		return CBInst{Op: op, Raw: word, Rt: rd(word), Offset: immediate(word, format)}
	case FormatIM:
		return IMInst{Op: op, Raw: word, Rd: rd(word), Imm: immediate(word, format)}
	case FormatPseudo:
		if op == MnemonicPRNT {
			return PrintInst{Raw: word, Rd: rd(word)}
		}
		return PseudoInst{Op: op, Raw: word}
	default:
		return UnknownInst{Raw: word}
	}
}

// Words splits buf into big-endian instruction words. A trailing partial
// word is ignored.
func Words(buf []byte) []uint32 {
	words := make([]uint32, len(buf)/WordSize)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(buf[i*WordSize:])
	}
	return words
}

// DecodeAll decodes every whole word of buf, in stream order.
func DecodeAll(buf []byte) []Instruction {
	words := Words(buf)
	insts := make([]Instruction, len(words))
	for i, w := range words {
		insts[i] = Decode(w)
	}
	return insts
}
