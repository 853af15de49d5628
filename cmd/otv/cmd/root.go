package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otv",
	Short: "OpenTraceVerilog - KiCad netlist to gate-level Verilog",
	Long: `OpenTraceVerilog (otv) turns a KiCad netlist export into a structural
Verilog module. A per-project rule file says, for each component, whether
to skip it, treat it as the module boundary, or instantiate it as a
primitive with an explicit pin order.

Examples:
  otv convert alu.net                      # Uses alu.vcfg, prints to stdout
  otv convert alu.net -c parts.vcfg -c alu.vcfg -o alu.v
  otv rules alu.net                        # Show the rule each part matches
  otv inspect alu.net                      # Summarise the netlist`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger returns the diagnostics logger; --verbose enables debug records.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
