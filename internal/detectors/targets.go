package detectors

import (
	"fmt"
	"strconv"
	"strings"

	"legdis/internal/analysis"
	"legdis/internal/disasm"
	"legdis/internal/legv8"
)

// TargetAnnotator marks every branch with the slot it resolves to and every
// labelled slot with the branches that reach it.
type TargetAnnotator struct{}

// NewTargetAnnotator creates a new branch target annotator.
func NewTargetAnnotator() *TargetAnnotator {
	return &TargetAnnotator{}
}

func (a *TargetAnnotator) Annotate(insts []legv8.Instruction, listing disasm.Listing) disasm.Listing {
	branchFrom := make(map[int][]int)

	for i, inst := range insts {
		b, ok := inst.(legv8.Branch)
		if !ok {
			continue
		}
		target := analysis.Target(i, b)
		if target < 0 || target >= len(listing) {
			continue
		}
		branchFrom[target] = append(branchFrom[target], i)
		listing[i].Annotations = append(listing[i].Annotations, fmt.Sprintf("-> %d", target))
	}

	for target, sources := range branchFrom {
		if listing[target].Synthetic {
			continue
		}
		from := make([]string, len(sources))
		for j, s := range sources {
			from[j] = strconv.Itoa(s)
		}
		listing[target].Annotations = append(listing[target].Annotations, "from "+strings.Join(from, " "))
	}
	return listing
}
