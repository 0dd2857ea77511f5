package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legdis/internal/disasm"
)

func TestListingLines(t *testing.T) {
	ls := disasm.Listing{
		{Index: 0, Text: "B instr2"},
		{Index: 1, Label: "instr1", Text: "HALT"},
		{Index: 2, Label: "instr2", Text: "PRNL"},
		{Index: 3, Label: "instr3", Synthetic: true},
	}
	// B, instr1:, HALT, instr2:, PRNL, instr3:
	assert.Equal(t, map[int]int{1: 1, 2: 3, 3: 5}, listingLines(ls))
}

func TestModelLoadsListing(t *testing.T) {
	t.Setenv("LEGDIS_NO_COLOR", "1")
	dir := t.TempDir()
	path := writeProgram(t, dir, 0x14000002, 0xB4FFFFE1, wordPRNL)
	cfg := Config{NoWrite: true}

	m := NewModel(path, cfg)
	assert.True(t, m.loading)

	msg := disassembleCmd(path, cfg)()
	updated, _ := m.Update(msg)
	m = updated.(model)

	require.NoError(t, m.err)
	assert.False(t, m.loading)

	items := m.labelsList.Items()
	require.Len(t, items, 2)
	first := items[0].(labelItem)
	assert.Equal(t, labelItem{slot: 0, name: "instr0", refs: 1}, first)
	assert.Equal(t, labelItem{slot: 2, name: "instr2", refs: 1}, items[1].(labelItem))

	assert.Contains(t, m.summary(), "**3** instructions")
	assert.Contains(t, m.summary(), filepath.Base(path))
}

func TestModelShowsFatalError(t *testing.T) {
	t.Setenv("LEGDIS_NO_COLOR", "1")
	path := writeProgram(t, t.TempDir(), 0x2a0<<21|14)
	cfg := Config{NoWrite: true}

	updated, _ := NewModel(path, cfg).Update(disassembleCmd(path, cfg)())
	m := updated.(model)

	require.Error(t, m.err)
	assert.Empty(t, m.labelsList.Items())
	assert.True(t, strings.Contains(m.summary(), "invalid conditional branch"))
}
