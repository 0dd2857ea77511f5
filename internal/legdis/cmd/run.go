package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"legdis/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Disassemble a single file non-interactively",
	Long: `Disassemble one image, print the listing and write the output file,
without the interactive viewer.`,
	Example: `
# Disassemble and write out.legv8asm
legdis run program.bin

# Quiet mode, custom output file
legdis run -q -o program.legv8asm program.bin
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")

		absPath, err := resolveFile(args[0])
		if err != nil {
			return err
		}

		cfg := loadConfig()
		start := time.Now()

		lg := logging.NewLogger()
		if !quiet {
			lg.Info("Disassembling", "file", args[0])
		}

		if err := runOnce(cmd.OutOrStdout(), absPath, cfg, false); err != nil {
			return err
		}

		if !quiet {
			fields := []any{"elapsed", time.Since(start).Round(time.Microsecond)}
			if !cfg.NoWrite {
				fields = append(fields, "output", cfg.Output)
			}
			lg.Info("Done", fields...)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolP("quiet", "q", false, "Hide progress messages")
}
