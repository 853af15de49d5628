package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/synth"
)

var rulesCmd = &cobra.Command{
	Use:   "rules <netlist.net>",
	Short: "Show which rule each component matches",
	Long: `Run the conversion passes without writing Verilog and report, for every
component, the rule it ends up with and where that rule was defined.
Components dropped by the cleanup passes are listed separately.

Unmatched components are reported instead of failing.`,
	Args: cobra.ExactArgs(1),
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	addConversionFlags(rulesCmd)
}

func runRules(c *cobra.Command, args []string) error {
	in, err := loadConversionInputs(c, args[0])
	if err != nil {
		return err
	}

	opts := in.opts
	opts.Unmatched = synth.UnmatchedWarn
	// Keep the full component list for the report
	plan, err := synth.Prepare(in.netlist.Clone(), in.module, in.rules, opts)
	if err != nil {
		return err
	}

	out := c.OutOrStdout()
	fmt.Fprintf(out, "Module: %s\n", in.module)
	fmt.Fprintf(out, "Rules loaded: %d (%d inferred)\n", plan.Rules.Len(), countInstalled(plan.Inferred))
	fmt.Fprintln(out)

	showRemoved(out, "Decoupling capacitors", plan.Decoupling)
	showRemoved(out, "Pinless components", plan.Pinless)
	showRemoved(out, "Skipped components", plan.Skipped)

	removed := make(map[string]string)
	for _, ref := range plan.Decoupling {
		removed[ref] = "decoupling"
	}
	for _, ref := range plan.Pinless {
		removed[ref] = "no pins"
	}

	fmt.Fprintln(out, "Components:")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, comp := range in.netlist.Components {
		if reason, ok := removed[comp.RefDes]; ok {
			fmt.Fprintf(tw, "  %s\t%s\t(removed: %s)\t\n", comp.RefDes, comp.Part, reason)
			continue
		}
		entry, ok := plan.Rules.Match(comp.RefDes, comp.Part)
		if !ok {
			fmt.Fprintf(tw, "  %s\t%s\t(no rule)\t\n", comp.RefDes, comp.Part)
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s => %s\n", comp.RefDes, comp.Part, entry.Rule, entry.Pattern, entry.Origin)
	}
	tw.Flush()

	for _, cl := range plan.Inferred {
		if cl.Shadowed {
			fmt.Fprintf(out, "\nNote: %s also looks like a %s on pin %s; the first classification wins.\n",
				cl.RefDes, cl.Primitive, cl.Pin)
		}
	}

	if len(plan.Unmatched) > 0 {
		fmt.Fprintf(out, "\n%d component(s) without a rule\n", len(plan.Unmatched))
	}
	return nil
}

func showRemoved(out io.Writer, title string, refs []string) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(out, "%s (%d):\n", title, len(refs))
	for _, r := range refs {
		fmt.Fprintf(out, "  %s\n", r)
	}
	fmt.Fprintln(out)
}

func countInstalled(cls []synth.Classification) int {
	n := 0
	for _, cl := range cls {
		if !cl.Shadowed {
			n++
		}
	}
	return n
}
