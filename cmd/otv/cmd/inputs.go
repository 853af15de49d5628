package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceVerilog/internal/project"
	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/kicad/netlist"
	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/synth"
	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/vcfg"
)

// Flags shared by convert and rules
var (
	ruleFiles     []string
	settingsFile  string
	moduleName    string
	unmatchedFlag string
	powerNets     []string
	groundNets    []string
)

func addConversionFlags(c *cobra.Command) {
	c.Flags().StringArrayVarP(&ruleFiles, "config", "c", nil, "rule file (repeatable, earlier files match first; default <netlist>.vcfg)")
	c.Flags().StringVar(&settingsFile, "settings", "", "project settings file (default: otv.yaml next to the netlist)")
	c.Flags().StringVarP(&moduleName, "module", "m", "", "module name (default: netlist file name)")
	c.Flags().StringVar(&unmatchedFlag, "unmatched", "", "components without a rule: fail or warn")
	c.Flags().StringSliceVar(&powerNets, "power", nil, "power nets (default VCC)")
	c.Flags().StringSliceVar(&groundNets, "ground", nil, "ground nets (default GND)")
}

// conversionInputs is everything a conversion needs, resolved from flags,
// settings and file names.
type conversionInputs struct {
	netlist  *netlist.Netlist
	rules    *vcfg.RuleSet
	module   string
	opts     synth.Options
	settings *project.Settings
}

func loadConversionInputs(c *cobra.Command, netlistPath string) (*conversionInputs, error) {
	var (
		settings *project.Settings
		err      error
	)
	if settingsFile != "" {
		settings, err = project.Load(settingsFile)
	} else {
		settings, err = project.LoadDir(filepath.Dir(netlistPath))
	}
	if err != nil {
		return nil, err
	}

	if c.Flags().Changed("unmatched") {
		settings.Unmatched = unmatchedFlag
	}
	if c.Flags().Changed("power") {
		settings.PowerNets = powerNets
	}
	if c.Flags().Changed("ground") {
		settings.GroundNets = groundNets
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	opts, err := settings.Options(newLogger(c.ErrOrStderr()))
	if err != nil {
		return nil, err
	}

	nl, err := netlist.ParseFile(netlistPath)
	if err != nil {
		return nil, fmt.Errorf("error parsing netlist: %w", err)
	}

	paths := ruleFiles
	if len(paths) == 0 {
		paths = settings.RulePaths()
	}
	if len(paths) == 0 {
		paths = []string{strings.TrimSuffix(netlistPath, filepath.Ext(netlistPath)) + ".vcfg"}
	}
	rules, err := vcfg.LoadFiles(paths...)
	if err != nil {
		return nil, err
	}

	name := moduleName
	if name == "" {
		name = settings.Module
	}
	if name == "" {
		name = defaultModuleName(netlistPath)
	}

	return &conversionInputs{
		netlist:  nl,
		rules:    rules,
		module:   name,
		opts:     opts,
		settings: settings,
	}, nil
}

// defaultModuleName is the netlist file name up to its first dot.
func defaultModuleName(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}
