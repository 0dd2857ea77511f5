package legv8

import (
	"errors"
	"fmt"
)

// Cond is a B.cond condition code, carried in the Rt field.
type Cond uint8

// Condition codes. Values 14 and above have no LEGv8 encoding.
const (
	CondEQ Cond = iota // Equal
	CondNE             // Not equal
	CondHS             // Unsigned higher or same
	CondLO             // Unsigned lower
	CondMI             // Minus
	CondPL             // Plus or zero
	CondVS             // Overflow
	CondVC             // No overflow
	CondHI             // Unsigned higher
	CondLS             // Unsigned lower or same
	CondGE             // Signed greater or equal
	CondLT             // Signed less than
	CondGT             // Signed greater than
	CondLE             // Signed less or equal

	numConds
)

var condNames = [numConds]string{
	"EQ", "NE", "HS", "LO", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE",
}

// ErrInvalidCondition is returned for condition codes outside EQ..LE.
var ErrInvalidCondition = errors.New("invalid conditional branch condition")

func (c Cond) String() string {
	if c < numConds {
		return condNames[c]
	}
	return fmt.Sprintf("Cond(%d)", uint8(c))
}

// ParseCond validates a raw condition field.
func ParseCond(code uint8) (Cond, error) {
	if Cond(code) >= numConds {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCondition, code)
	}
	return Cond(code), nil
}
