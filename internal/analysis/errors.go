package analysis

import (
	"fmt"

	"legdis/internal/legv8"
)

// ConditionError reports a B.cond whose condition field names no LEGv8
// condition. Rendering stops at the first one; no partial output is produced.
type ConditionError struct {
	Index int    // slot of the offending instruction
	Word  uint32 // raw encoding
	Code  uint8  // condition field value
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("invalid conditional branch (B.cond) at instruction %d: condition %d in word 0x%08x (%032b)",
		e.Index, e.Code, e.Word, e.Word)
}

func (e *ConditionError) Unwrap() error {
	return legv8.ErrInvalidCondition
}

// BranchTargetError reports a branch whose target lies outside the program
// and its trailing slot.
type BranchTargetError struct {
	Index  int
	Word   uint32
	Target int
	Slots  int // number of addressable slots, including the trailing one
}

func (e *BranchTargetError) Error() string {
	return fmt.Sprintf("branch at instruction %d (word 0x%08x) targets slot %d outside [0, %d]",
		e.Index, e.Word, e.Target, e.Slots-1)
}
