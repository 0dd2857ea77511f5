package analysis

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legdis/internal/disasm"
	"legdis/internal/legv8"
)

func program(words ...uint32) []byte {
	var buf []byte
	for _, w := range words {
		buf = binary.BigEndian.AppendUint32(buf, w)
	}
	return buf
}

func condBranch(offset int32, cond uint8) uint32 {
	return 0x2a0<<21 | (uint32(offset)&0x7FFFF)<<5 | uint32(cond)
}

const (
	wordHALT = 0xFFE00000
	wordPRNL = 0xFF800000
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "empty input",
			input: nil,
			want:  "",
		},
		{
			name:  "zero word is unknown",
			input: []byte{0, 0, 0, 0},
			want:  "Unknown\n",
		},
		{
			name:  "trailing partial word ignored",
			input: append(program(wordHALT), 0xFF, 0xE0),
			want:  "HALT\n",
		},
		{
			name:  "forward branch",
			input: program(0x14000002, wordHALT, wordPRNL),
			want:  "B instr2\nHALT\ninstr2:\nPRNL\n",
		},
		{
			name:  "backward branch",
			input: program(wordPRNL, 0x17FFFFFF),
			want:  "instr0:\nPRNL\nB instr0\n",
		},
		{
			name:  "branch to end of program",
			input: program(0x94000001),
			want:  "BL instr1\ninstr1:\n",
		},
		{
			name:  "branch to itself",
			input: program(0x14000000),
			want:  "instr0:\nB instr0\n",
		},
		{
			name: "every format",
			input: program(
				0x8B020020,        // ADD X0, X1, X2
				0xD3600C41,        // LSL X1, X2, #3
				0xD60003C0,        // BR X30
				0x913FFC41,        // ADDI X1, X2, #-1
				0xF85F8083,        // LDUR X3, [X4, #-8]
				0xF2824685,        // MOVK X5, #4660
				0xFFA00009,        // PRNT X9
				0xFFC00000,        // DUMP
				condBranch(-8, 1), // B.NE instr0
				0xB5000047,        // CBNZ X7, instr11
				0xF8010041,        // STUR X1, [X2, #16]
			),
			want: strings.Join([]string{
				"instr0:",
				"ADD X0, X1, X2",
				"LSL X1, X2, #3",
				"BR X30",
				"ADDI X1, X2, #-1",
				"LDUR X3, [X4, #-8]",
				"MOVK X5, #4660",
				"PRNT X9",
				"DUMP",
				"B.NE instr0",
				"CBNZ X7, instr11",
				"STUR X1, [X2, #16]",
				"instr11:",
			}, "\n") + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Disassemble(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelSharing(t *testing.T) {
	buf := program(
		0x14000003,       // 0: B instr3
		0xB4000041,       // 1: CBZ X1, instr3
		condBranch(1, 0), // 2: B.EQ instr3
		wordHALT,         // 3
	)
	got, err := Disassemble(buf)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(got, "instr3:\n"))
	assert.Equal(t, "B instr3\nCBZ X1, instr3\nB.EQ instr3\ninstr3:\nHALT\n", got)

	labels, err := BuildLabels(legv8.DecodeAll(buf))
	require.NoError(t, err)
	assert.Len(t, labels, 5)
	assert.Equal(t, 1, labels.Count())
	assert.Equal(t, "instr3", labels.At(3))
	assert.Empty(t, labels.At(0))
	assert.Empty(t, labels.At(99))
}

func TestConditionSuffixes(t *testing.T) {
	want := []string{"EQ", "NE", "HS", "LO", "MI", "PL", "VS", "VC", "HI", "LS", "GE", "LT", "GT", "LE"}
	for code, suffix := range want {
		got, err := Disassemble(program(condBranch(0, uint8(code))))
		require.NoError(t, err)
		assert.Equal(t, "instr0:\nB."+suffix+" instr0\n", got)
	}
}

func TestInvalidConditionIsFatal(t *testing.T) {
	for _, code := range []uint8{14, 15, 31} {
		buf := program(wordHALT, condBranch(-1, code))
		got, err := Disassemble(buf)
		assert.Empty(t, got)

		var condErr *ConditionError
		require.True(t, errors.As(err, &condErr), "want ConditionError, got %v", err)
		assert.Equal(t, 1, condErr.Index)
		assert.Equal(t, code, condErr.Code)
		assert.Equal(t, condBranch(-1, code), condErr.Word)
		assert.ErrorIs(t, err, legv8.ErrInvalidCondition)
	}
}

func TestBranchOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		target int
	}{
		{"before start", program(0x17FFFFFF), -1},
		{"past trailing slot", program(0x14000002), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Disassemble(tt.input)
			var targetErr *BranchTargetError
			require.True(t, errors.As(err, &targetErr), "want BranchTargetError, got %v", err)
			assert.Equal(t, tt.target, targetErr.Target)
			assert.Equal(t, 0, targetErr.Index)
		})
	}
}

func TestRenderListing(t *testing.T) {
	insts := legv8.DecodeAll(program(0x14000001, wordHALT))
	listing, err := Render(insts)
	require.NoError(t, err)
	require.Len(t, listing, 3)

	assert.Equal(t, uint32(0x14000001), listing[0].Word)
	assert.Equal(t, "instr1", listing[1].Label)
	assert.True(t, listing[2].Synthetic)
	assert.Empty(t, listing[2].Text)
}

type tagAnnotator string

func (a tagAnnotator) Annotate(insts []legv8.Instruction, listing disasm.Listing) disasm.Listing {
	for i := range insts {
		listing[i].Annotations = append(listing[i].Annotations, string(a))
	}
	return listing
}

func TestAnnotatorChain(t *testing.T) {
	insts := legv8.DecodeAll(program(wordPRNL, wordHALT))
	listing, err := Render(insts)
	require.NoError(t, err)
	plain := listing.String()

	chain := NewAnnotatorChain(tagAnnotator("first"), tagAnnotator("second"))
	assert.Equal(t, 2, chain.Len())

	annotated := chain.Annotate(insts, listing)
	assert.Equal(t, plain, annotated.String())
	assert.Equal(t, "PRNL ; first, second\nHALT ; first, second\n", annotated.AnnotatedString())
}
