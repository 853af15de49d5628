package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/synth"
)

var outputFile string

var convertCmd = &cobra.Command{
	Use:   "convert <netlist.net>",
	Short: "Convert a KiCad netlist to a Verilog module",
	Long: `Convert a KiCad netlist export into a gate-level Verilog module.

Decoupling capacitors (C between a power and a ground net) and components
without pins are dropped, resistors tied to a supply become pullup or
pulldown primitives, and boundary pins get their direction from what
else sits on their net.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	addConversionFlags(convertCmd)
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
}

func runConvert(c *cobra.Command, args []string) error {
	in, err := loadConversionInputs(c, args[0])
	if err != nil {
		return err
	}

	plan, err := synth.Prepare(in.netlist, in.module, in.rules, in.opts)
	if err != nil {
		return err
	}

	out := outputFile
	if out == "" {
		out = in.settings.OutputPath()
	}
	if out == "" {
		_, err := plan.Module.WriteTo(c.OutOrStdout())
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if _, err := plan.Module.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	if verbose {
		fmt.Fprintf(c.ErrOrStderr(), "Wrote %s: %d ports, %d wires, %d instances\n",
			out, len(plan.Module.Ports), len(plan.Module.Wires), len(plan.Module.Instances))
	}
	return nil
}
