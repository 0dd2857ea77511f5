// Package legv8 decodes LEGv8 machine code into structured instructions.
//
// LEGv8 is the teaching subset of ARMv8 used in Patterson & Hennessy. Every
// instruction is one big-endian 32-bit word whose 11-bit primary opcode field
// (bits [31:21]) selects both the operation and the encoding format.
//
// Usage:
//
//	inst := legv8.Decode(0x8B020020) // ADD X0, X1, X2
//	if r, ok := inst.(legv8.RInst); ok {
//		fmt.Println(r.Rd, r.Rn, r.Rm)
//	}
package legv8

import "fmt"

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota // Unrecognized opcode
	FormatR                     // Register-register
	FormatI                     // Immediate
	FormatD                     // Data transfer (load/store with displacement)
	FormatB                     // Unconditional branch
	FormatCB                    // Conditional branch
	FormatIM                    // Wide immediate move
	FormatPseudo                // Zero-operand pseudo-instruction
)

var formatNames = [...]string{
	FormatUnknown: "Unrecognized",
	FormatR:       "RegisterRegister",
	FormatI:       "Immediate",
	FormatD:       "DataTransfer",
	FormatB:       "UnconditionalBranch",
	FormatCB:      "ConditionalBranch",
	FormatIM:      "WideImmediateMove",
	FormatPseudo:  "ZeroOperand",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Instruction is a decoded LEGv8 instruction. The concrete type is one of
// RInst, IInst, DInst, BInst, CBInst, IMInst, PrintInst, PseudoInst or
// UnknownInst, each carrying only the fields its format defines.
type Instruction interface {
	Mnemonic() string
	Format() Format
	// Word returns the raw encoding the instruction was decoded from.
	Word() uint32

	isInstruction()
}

// Branch is implemented by instructions whose target is relative to their
// own slot. The offset counts instructions, not bytes.
type Branch interface {
	Instruction
	BranchOffset() int32
}

// RInst is a register-register instruction (AND, ADD, MUL, ORR, EOR, SUB,
// SUBS, LSR, LSL, BR).
type RInst struct {
	Op    string
	Raw   uint32
	Rm    uint8 // bits [20:16]
	Rn    uint8 // bits [9:5]
	Rd    uint8 // bits [4:0]
	Shamt int32 // bits [15:10], only meaningful for LSL/LSR
}

// IInst is an arithmetic/logic instruction with a 12-bit immediate.
type IInst struct {
	Op  string
	Raw uint32
	Rn  uint8
	Rd  uint8
	Imm int32 // bits [21:10]
}

// DInst is a load or store with a signed displacement.
type DInst struct {
	Op     string
	Raw    uint32
	Rn     uint8
	Rt     uint8
	Offset int32 // bits [20:12]
}

// BInst is an unconditional branch (B, BL).
type BInst struct {
	Op     string
	Raw    uint32
	Offset int32 // bits [25:0]
}

// CBInst is a conditional branch (B.cond, CBZ, CBNZ). For B.cond the Rt
// field holds the condition code.
type CBInst struct {
	Op     string
	Raw    uint32
	Rt     uint8
	Offset int32 // bits [23:5]
}

// IMInst is a wide immediate move (MOVK).
type IMInst struct {
	Op  string
	Raw uint32
	Rd  uint8
	Imm int32 // bits [20:5]
}

// PrintInst is the PRNT pseudo-instruction. It is classified as zero-operand
// but still prints the register held in bits [4:0].
type PrintInst struct {
	Raw uint32
	Rd  uint8
}

// PseudoInst is a zero-operand pseudo-instruction (PRNL, DUMP, HALT).
type PseudoInst struct {
	Op  string
	Raw uint32
}

// UnknownInst is a word whose opcode matches no table entry.
type UnknownInst struct {
	Raw uint32
}

func (i RInst) Mnemonic() string       { return i.Op }
func (i IInst) Mnemonic() string       { return i.Op }
func (i DInst) Mnemonic() string       { return i.Op }
func (i BInst) Mnemonic() string       { return i.Op }
func (i CBInst) Mnemonic() string      { return i.Op }
func (i IMInst) Mnemonic() string      { return i.Op }
func (i PrintInst) Mnemonic() string   { return MnemonicPRNT }
func (i PseudoInst) Mnemonic() string  { return i.Op }
func (i UnknownInst) Mnemonic() string { return MnemonicUnknown }

func (RInst) Format() Format       { return FormatR }
func (IInst) Format() Format       { return FormatI }
func (DInst) Format() Format       { return FormatD }
func (BInst) Format() Format       { return FormatB }
func (CBInst) Format() Format      { return FormatCB }
func (IMInst) Format() Format      { return FormatIM }
func (PrintInst) Format() Format   { return FormatPseudo }
func (PseudoInst) Format() Format  { return FormatPseudo }
func (UnknownInst) Format() Format { return FormatUnknown }

func (i RInst) Word() uint32       { return i.Raw }
func (i IInst) Word() uint32       { return i.Raw }
func (i DInst) Word() uint32       { return i.Raw }
func (i BInst) Word() uint32       { return i.Raw }
func (i CBInst) Word() uint32      { return i.Raw }
func (i IMInst) Word() uint32      { return i.Raw }
func (i PrintInst) Word() uint32   { return i.Raw }
func (i PseudoInst) Word() uint32  { return i.Raw }
func (i UnknownInst) Word() uint32 { return i.Raw }

func (RInst) isInstruction()       {}
func (IInst) isInstruction()       {}
func (DInst) isInstruction()       {}
func (BInst) isInstruction()       {}
func (CBInst) isInstruction()      {}
func (IMInst) isInstruction()      {}
func (PrintInst) isInstruction()   {}
func (PseudoInst) isInstruction()  {}
func (UnknownInst) isInstruction() {}

func (i BInst) BranchOffset() int32  { return i.Offset }
func (i CBInst) BranchOffset() int32 { return i.Offset }
