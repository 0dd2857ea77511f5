// Package disasm defines the rendered listing shared by the resolver, the
// annotators and the output sinks.
package disasm

import "strings"

// Line is one instruction slot of a rendered program.
type Line struct {
	Index       int      // slot index, 0-based
	Label       string   // label defined at this slot, empty if none
	Text        string   // rendered instruction, empty for the trailing slot
	Word        uint32   // raw encoding
	Synthetic   bool     // trailing end-of-program slot with no instruction
	Annotations []string // comments appended by annotators
}

// Listing is the ordered sequence of slots, including the trailing one.
type Listing []Line

// Annotated formats the line text with its annotations as a trailing comment.
func (l Line) Annotated() string {
	if len(l.Annotations) == 0 {
		return l.Text
	}
	if l.Text == "" {
		return "; " + strings.Join(l.Annotations, ", ")
	}
	return l.Text + " ; " + strings.Join(l.Annotations, ", ")
}

// String concatenates the listing in slot order: a "label:" line when a label
// targets the slot, then the instruction line. The trailing slot has no
// instruction line, only its label.
func (ls Listing) String() string {
	return ls.render(false)
}

// AnnotatedString is String with each line's annotations appended.
func (ls Listing) AnnotatedString() string {
	return ls.render(true)
}

func (ls Listing) render(annotate bool) string {
	var b strings.Builder
	for _, l := range ls {
		if l.Label != "" {
			b.WriteString(l.Label)
			b.WriteString(":\n")
		}
		if l.Synthetic {
			continue
		}
		if annotate {
			b.WriteString(l.Annotated())
		} else {
			b.WriteString(l.Text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Labels returns the labels in slot order.
func (ls Listing) Labels() []Line {
	var out []Line
	for _, l := range ls {
		if l.Label != "" {
			out = append(out, l)
		}
	}
	return out
}
