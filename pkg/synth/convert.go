// Package synth converts a KiCad netlist into a gate-level Verilog module.
//
// Conversion runs as a fixed sequence of passes over one netlist:
//
//  1. drop decoupling capacitors and pinless components
//  2. drop components whose rule is skip
//  3. add pullup/pulldown rules for resistors tied to a supply
//  4. resolve the direction of every boundary pin and collect ports
//  5. resolve one instance per remaining component
//
// The netlist is modified in place (components removed, pin directions
// set). The caller's rule set is not: inference works on a copy.
package synth

import (
	"io"

	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/kicad/netlist"
	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/vcfg"
)

// Plan is the outcome of running every pass except output.
type Plan struct {
	Module *Module

	// Rules is the rule set used for matching, inferred rules included.
	Rules *vcfg.RuleSet

	Decoupling []string
	Pinless    []string
	Skipped    []string
	Inferred   []Classification
	// Unmatched lists components left out under UnmatchedWarn.
	Unmatched []string
}

// Prepare runs the conversion passes over nl and returns the resolved
// module without writing it.
func Prepare(nl *netlist.Netlist, moduleName string, rules *vcfg.RuleSet, opts Options) (*Plan, error) {
	opts = opts.withDefaults()
	rules = rules.Clone()

	plan := &Plan{Rules: rules}
	plan.Decoupling = RemoveDecouplingCaps(nl, opts)
	plan.Pinless = RemovePinless(nl, opts)
	plan.Skipped = RemoveSkipped(nl, rules, opts)

	inferred, err := InferPullResistors(nl, rules, opts)
	if err != nil {
		return nil, err
	}
	plan.Inferred = inferred

	ports, err := ResolvePorts(nl, rules)
	if err != nil {
		return nil, err
	}

	instances, unmatched, err := collectInstances(nl, rules, opts)
	if err != nil {
		return nil, err
	}
	plan.Unmatched = unmatched

	wires := make([]string, len(nl.Nets))
	for i, n := range nl.Nets {
		wires[i] = n.Name
	}

	plan.Module = &Module{
		Name:       moduleName,
		Ports:      ports,
		Wires:      wires,
		PowerNets:  opts.PowerNets,
		GroundNets: opts.GroundNets,
		Instances:  instances,
	}
	return plan, nil
}

// Convert runs every pass and writes the module to w. Nothing is written
// if any pass fails.
func Convert(w io.Writer, nl *netlist.Netlist, moduleName string, rules *vcfg.RuleSet, opts Options) (*Plan, error) {
	plan, err := Prepare(nl, moduleName, rules, opts)
	if err != nil {
		return nil, err
	}
	if _, err := plan.Module.WriteTo(w); err != nil {
		return nil, err
	}
	return plan, nil
}

// collectInstances resolves every non-boundary component to an instance.
func collectInstances(nl *netlist.Netlist, rules *vcfg.RuleSet, opts Options) ([]Instance, []string, error) {
	var (
		instances []Instance
		unmatched []string
	)

	for _, comp := range nl.Components {
		rule, ok := rules.Lookup(comp.RefDes, comp.Part)
		if !ok {
			if opts.Unmatched == UnmatchedWarn {
				opts.Logger.Warn("no rule matching component; leaving it out", "ref", comp.RefDes, "part", comp.Part)
				unmatched = append(unmatched, comp.RefDes)
				continue
			}
			return nil, nil, &UnmatchedComponentError{RefDes: comp.RefDes, Part: comp.Part}
		}

		switch r := rule.(type) {
		case vcfg.Skip, vcfg.External:
			continue
		case vcfg.Module:
			nets := make([]string, len(r.Pins))
			for i, num := range r.Pins {
				pin, ok := comp.Pin(num)
				if !ok {
					return nil, nil, &MissingPinError{RefDes: comp.RefDes, Pin: num}
				}
				nets[i] = VerilogName(pin.Net)
			}
			instances = append(instances, Instance{
				Module: r.Name,
				Name:   VerilogName(comp.RefDes),
				Nets:   nets,
			})
		}
	}

	return instances, unmatched, nil
}
