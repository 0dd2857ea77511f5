package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"legdis/internal/analysis"
	"legdis/internal/legdis/log"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is .legdis.yaml in . or $HOME)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().String("log-file", "", "Also write structured logs to this file")
	rootCmd.PersistentFlags().BoolP("unwrap", "u", false, "Inflate gzip or zip wrapped images")
	rootCmd.PersistentFlags().String("key", "", "XXTEA key for encrypted images (implies --unwrap)")
	rootCmd.PersistentFlags().String("signature", "", "Signature prefix of encrypted images")
	rootCmd.PersistentFlags().StringP("output", "o", analysis.DefaultOutputFile, "File the listing is written to")
	rootCmd.PersistentFlags().Bool("no-write", false, "Do not write the output file")
	rootCmd.PersistentFlags().BoolP("annotate", "a", false, "Append branch target and ARM64 comments")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the listing without the TUI")
	rootCmd.Flags().BoolP("json", "j", false, "Output the listing as JSON")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")

	bindFlags(rootCmd, "debug", "log-file", "unwrap", "key", "signature", "output", "no-write", "annotate")

	rootCmd.AddCommand(runCmd)
}

var rootCmd = &cobra.Command{
	Use:   "legdis [file]",
	Short: "LEGv8 binary disassembler",
	Long: `Legdis decodes a raw big-endian LEGv8 machine-code image into assembly text.
Branch targets become "instrN" labels. The listing is printed and written to
out.legv8asm; on a terminal it opens in an interactive viewer.`,
	Example: `
# Open the viewer on a program
legdis program.bin

# Print the listing with branch and ARM64 comments
legdis -n -a program.bin

# Disassemble a gzip-compressed image
legdis -u program.bin.gz

# Decrypt an XXTEA-wrapped image
legdis --key secret --signature LEGV8 program.enc
  `,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg.Debug {
			os.Setenv("LEGDIS_LOG_LEVEL", "debug")
		}
		if cfg.NoColor {
			os.Setenv("LEGDIS_NO_COLOR", "1")
		}
		log.Setup(cfg.LogFile, cfg.Debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		stop, err := startProfiling(cmd)
		if err != nil {
			return err
		}
		defer stop()

		absPath, err := resolveFile(args[0])
		if err != nil {
			return err
		}

		cfg := loadConfig()
		noTUI, _ := cmd.Flags().GetBool("no-tui")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		// Piped output gets the plain listing
		if !term.IsTerminal(os.Stdout.Fd()) {
			noTUI = true
			os.Setenv("LEGDIS_NO_COLOR", "1")
		}

		if jsonOutput || noTUI {
			return runOnce(cmd.OutOrStdout(), absPath, cfg, jsonOutput)
		}

		program := tea.NewProgram(
			NewModel(absPath, cfg),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)

		final, err := program.Run()
		if err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		if m, ok := final.(model); ok && m.err != nil {
			return m.err
		}
		return nil
	},
}

func resolveFile(file string) (string, error) {
	absPath, err := pathpkg.Abs(file)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", file)
		}
		return "", fmt.Errorf("cannot access file: %w", err)
	}
	return absPath, nil
}

func startProfiling(cmd *cobra.Command) (func(), error) {
	var stops []func()
	stop := func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}

	cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
	if cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			return stop, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return stop, fmt.Errorf("could not start CPU profile: %w", err)
		}
		stops = append(stops, func() {
			pprof.StopCPUProfile()
			f.Close()
		})
	}

	memprofile, _ := cmd.Flags().GetString("memprofile")
	if memprofile != "" {
		stops = append(stops, func() {
			f, err := os.Create(memprofile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
				return
			}
			defer f.Close()
			if err := pprof.WriteHeapProfile(f); err != nil {
				fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
			}
		})
	}
	return stop, nil
}

// reportFatal logs the details of a failed run that the command error
// message does not carry.
func reportFatal(err error) {
	var condErr *analysis.ConditionError
	if errors.As(err, &condErr) {
		slog.Error("invalid conditional branch",
			"index", condErr.Index,
			"condition", condErr.Code,
			"bits", fmt.Sprintf("%032b", condErr.Word))
		return
	}
	var targetErr *analysis.BranchTargetError
	if errors.As(err, &targetErr) {
		slog.Error("branch target out of range",
			"index", targetErr.Index,
			"target", targetErr.Target,
			"slots", targetErr.Slots)
		return
	}
	slog.Debug("command failed", "error", err)
}

func Execute() {
	// Bypass fang's styled output for plain or piped runs
	noTUI := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" || arg == "--json" || arg == "-j" {
			noTUI = true
			break
		}
	}
	if !noTUI && !term.IsTerminal(os.Stdout.Fd()) {
		noTUI = true
	}

	var err error
	if noTUI {
		err = rootCmd.Execute()
	} else {
		err = fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		)
	}
	if err != nil {
		reportFatal(err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
