package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"legdis/internal/disasm"
)

const (
	labelColor      = "\033[38;2;255;215;0m"
	annotationColor = "\033[38;2;79;79;79m"
	reset           = "\033[0m"
)

// Enabled reports whether output should carry ANSI colors.
func Enabled() bool {
	return os.Getenv("LEGDIS_NO_COLOR") == ""
}

// getAssemblyLexer returns an appropriate assembly lexer with fallbacks
func getAssemblyLexer() chroma.Lexer {
	// nasm handles the "X1, [X2, #16]" operand shapes and ';' comments best
	candidates := []string{"nasm", "armasm", "gas"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getDisasmStyle returns the disassembly style with fallbacks
func getDisasmStyle() *chroma.Style {
	candidates := []string{"disasm-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Assembly highlights a block of LEGv8 source.
func Assembly(code string) (string, error) {
	if !Enabled() {
		return code, nil
	}

	lexer := getAssemblyLexer()
	if lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getDisasmStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// Instruction highlights a single instruction line. The result never
// contains a newline.
func Instruction(text string) string {
	if !Enabled() || text == "" {
		return text
	}
	colored, err := Assembly(text)
	if err != nil {
		return text
	}
	// some lexers force a trailing newline
	return strings.ReplaceAll(colored, "\n", "")
}

// Label colors a "name:" label line.
func Label(name string) string {
	if !Enabled() {
		return name + ":"
	}
	return fmt.Sprintf("%s%s:%s", labelColor, name, reset)
}

// Listing renders a listing the way disasm.Listing.String does, with colors.
// Annotations are appended in gray when annotate is set.
func Listing(ls disasm.Listing, annotate bool) string {
	var b strings.Builder
	for _, l := range ls {
		if l.Label != "" {
			b.WriteString(Label(l.Label))
			b.WriteByte('\n')
		}
		if l.Synthetic {
			continue
		}
		b.WriteString(Instruction(l.Text))
		if annotate && len(l.Annotations) > 0 {
			comment := " ; " + strings.Join(l.Annotations, ", ")
			if Enabled() {
				comment = annotationColor + comment + reset
			}
			b.WriteString(comment)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// StripANSI removes ANSI color sequences.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
