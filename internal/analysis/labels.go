package analysis

import (
	"strconv"

	"legdis/internal/legv8"
	"legdis/internal/logging"
)

// LabelTable holds the label defined at each slot, one entry per instruction
// plus the trailing end-of-program slot. Empty means no label.
type LabelTable []string

// LabelName returns the label for a target slot. Names depend only on the
// slot, so every branch to the same slot shares one label.
func LabelName(target int) string {
	return LabelPrefix + strconv.Itoa(target)
}

// BuildLabels assigns a label to every slot targeted by a branch.
func BuildLabels(insts []legv8.Instruction) (LabelTable, error) {
	labels := make(LabelTable, len(insts)+1)
	for i, inst := range insts {
		b, ok := inst.(legv8.Branch)
		if !ok {
			continue
		}
		target, err := labels.target(i, b)
		if err != nil {
			return nil, err
		}
		if labels[target] == "" {
			labels[target] = LabelName(target)
		}
	}

	if logging.IsDebug() {
		lg := logging.NewLogger()
		lg.Debug("resolved labels",
			"instructions", len(insts),
			"labels", labels.Count())
	}
	return labels, nil
}

// Target returns the slot a branch at index i jumps to.
func Target(i int, b legv8.Branch) int {
	return i + int(b.BranchOffset())
}

func (lt LabelTable) target(i int, b legv8.Branch) (int, error) {
	t := Target(i, b)
	if t < 0 || t >= len(lt) {
		return 0, &BranchTargetError{Index: i, Word: b.Word(), Target: t, Slots: len(lt)}
	}
	return t, nil
}

// At returns the label at slot i, or "" when there is none.
func (lt LabelTable) At(i int) string {
	if i < 0 || i >= len(lt) {
		return ""
	}
	return lt[i]
}

// Count returns the number of labelled slots.
func (lt LabelTable) Count() int {
	n := 0
	for _, l := range lt {
		if l != "" {
			n++
		}
	}
	return n
}
