package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"legdis/internal/analysis"
	"legdis/internal/detectors"
	"legdis/internal/disasm"
	"legdis/internal/image"
	"legdis/internal/legv8"
	"legdis/internal/ui/colorize"
)

// result is one disassembled image.
type result struct {
	path    string
	digest  string
	insts   []legv8.Instruction
	listing disasm.Listing
}

// JSONOutput is the --json document.
type JSONOutput struct {
	Digest string     `json:"digest"`
	Words  int        `json:"words"`
	Labels []string   `json:"labels"`
	Lines  []JSONLine `json:"lines"`
}

// JSONLine is one slot of the listing; the trailing slot has no word.
type JSONLine struct {
	Index       int      `json:"index"`
	Label       string   `json:"label,omitempty"`
	Text        string   `json:"text"`
	Word        string   `json:"word,omitempty"`
	Annotations []string `json:"annotations,omitempty"`
}

func annotators() *analysis.AnnotatorChain {
	return analysis.NewAnnotatorChain(
		detectors.NewTargetAnnotator(),
		detectors.NewARM64Annotator(),
	)
}

func disassembleFile(path string, cfg Config) (*result, error) {
	data, digest, err := image.Load(path, image.Options{
		Key:        cfg.Key,
		Signature:  cfg.Signature,
		Decompress: cfg.Unwrap,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	insts := legv8.DecodeAll(data)
	slog.Debug("decoded image", "path", path, "bytes", len(data), "instructions", len(insts))

	listing, err := analysis.Render(insts)
	if err != nil {
		return nil, err
	}
	if cfg.Annotate {
		listing = annotators().Annotate(insts, listing)
	}

	return &result{
		path:    path,
		digest:  digest,
		insts:   insts,
		listing: listing,
	}, nil
}

func (r *result) text(annotate bool) string {
	if annotate {
		return r.listing.AnnotatedString()
	}
	return r.listing.String()
}

func (r *result) json() JSONOutput {
	out := JSONOutput{
		Digest: r.digest,
		Words:  len(r.insts),
		Labels: []string{},
		Lines:  make([]JSONLine, 0, len(r.listing)),
	}
	for _, l := range r.listing {
		jl := JSONLine{
			Index:       l.Index,
			Label:       l.Label,
			Text:        l.Text,
			Annotations: l.Annotations,
		}
		if !l.Synthetic {
			jl.Word = fmt.Sprintf("0x%08x", l.Word)
		}
		if l.Label != "" {
			out.Labels = append(out.Labels, l.Label)
		}
		out.Lines = append(out.Lines, jl)
	}
	return out
}

// writeListing writes the plain listing to cfg.Output unless disabled.
func writeListing(r *result, cfg Config) error {
	if cfg.NoWrite || cfg.Output == "" {
		return nil
	}
	if err := os.WriteFile(cfg.Output, []byte(r.text(cfg.Annotate)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output, err)
	}
	slog.Debug("wrote listing", "path", cfg.Output)
	return nil
}

// runOnce disassembles path, prints the listing (or JSON) to w and writes
// the output file. Nothing is printed or written when decoding fails.
func runOnce(w io.Writer, path string, cfg Config, jsonOutput bool) error {
	r, err := disassembleFile(path, cfg)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(r.json(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprint(w, colorize.Listing(r.listing, cfg.Annotate))
	}

	return writeListing(r, cfg)
}
