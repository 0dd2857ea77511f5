package analysis

import (
	"fmt"

	"legdis/internal/disasm"
	"legdis/internal/legv8"
)

// Render resolves labels and renders every instruction. The returned listing
// has len(insts)+1 lines; the last is the synthetic trailing slot.
func Render(insts []legv8.Instruction) (disasm.Listing, error) {
	labels, err := BuildLabels(insts)
	if err != nil {
		return nil, err
	}

	listing := make(disasm.Listing, len(insts)+1)
	for i, inst := range insts {
		text, err := renderInst(i, inst, labels)
		if err != nil {
			return nil, err
		}
		listing[i] = disasm.Line{
			Index: i,
			Label: labels[i],
			Text:  text,
			Word:  inst.Word(),
		}
	}

	n := len(insts)
	listing[n] = disasm.Line{Index: n, Label: labels[n], Synthetic: true}
	return listing, nil
}

func renderInst(i int, inst legv8.Instruction, labels LabelTable) (string, error) {
	switch v := inst.(type) {
	case legv8.BInst:
		return fmt.Sprintf("%s %s", v.Op, labels[Target(i, v)]), nil

	case legv8.CBInst:
		label := labels[Target(i, v)]
		if v.Op != legv8.MnemonicBCond {
			return fmt.Sprintf("%s X%d, %s", v.Op, v.Rt, label), nil
		}
		cond, err := legv8.ParseCond(v.Rt)
		if err != nil {
			return "", &ConditionError{Index: i, Word: v.Raw, Code: v.Rt}
		}
		return fmt.Sprintf("B.%s %s", cond, label), nil

	case legv8.RInst:
		switch v.Op {
		case legv8.MnemonicBR:
			return fmt.Sprintf("BR X%d", v.Rn), nil
		case legv8.MnemonicLSL, legv8.MnemonicLSR:
			return fmt.Sprintf("%s X%d, X%d, #%d", v.Op, v.Rd, v.Rn, v.Shamt), nil
		}
		return fmt.Sprintf("%s X%d, X%d, X%d", v.Op, v.Rd, v.Rn, v.Rm), nil

	case legv8.IInst:
		return fmt.Sprintf("%s X%d, X%d, #%d", v.Op, v.Rd, v.Rn, v.Imm), nil

	case legv8.DInst:
		return fmt.Sprintf("%s X%d, [X%d, #%d]", v.Op, v.Rt, v.Rn, v.Offset), nil

	case legv8.IMInst:
		return fmt.Sprintf("%s X%d, #%d", v.Op, v.Rd, v.Imm), nil

	case legv8.PrintInst:
		return fmt.Sprintf("%s X%d", legv8.MnemonicPRNT, v.Rd), nil
	}

	// Remaining pseudo-instructions and unrecognized words render bare.
	return inst.Mnemonic(), nil
}

// Disassemble decodes buf and renders it to assembly text.
func Disassemble(buf []byte) (string, error) {
	listing, err := Render(legv8.DecodeAll(buf))
	if err != nil {
		return "", err
	}
	return listing.String(), nil
}
