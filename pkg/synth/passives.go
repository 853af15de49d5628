package synth

import (
	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/kicad/netlist"
	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/vcfg"
)

// Pull resistor primitives.
const (
	PullupPrimitive   = "pullup"
	PulldownPrimitive = "pulldown"
)

// Classification is a pull-up or pull-down found on a resistor.
type Classification struct {
	RefDes    string
	Primitive string // PullupPrimitive or PulldownPrimitive
	Pin       string // The pin away from the supply
	// Shadowed is set when an earlier classification of the same resistor
	// already owns its rule, so this one never matches.
	Shadowed bool
}

// classifyResistor applies the supply checks to one two-pin resistor.
// The pull-up and pull-down checks are independent, so a resistor can
// collect more than one classification.
func classifyResistor(c *netlist.Component, s supplies) []Classification {
	p0, p1 := c.Pins[0], c.Pins[1]

	var found []Classification
	if s.power[p0.Net] && !s.ground[p1.Net] {
		found = append(found, Classification{RefDes: c.RefDes, Primitive: PullupPrimitive, Pin: p1.Num})
	}
	if s.power[p1.Net] && !s.ground[p0.Net] {
		found = append(found, Classification{RefDes: c.RefDes, Primitive: PullupPrimitive, Pin: p0.Num})
	}
	if s.ground[p0.Net] {
		found = append(found, Classification{RefDes: c.RefDes, Primitive: PulldownPrimitive, Pin: p1.Num})
	}
	if s.ground[p1.Net] {
		found = append(found, Classification{RefDes: c.RefDes, Primitive: PulldownPrimitive, Pin: p0.Num})
	}
	return found
}

// InferPullResistors adds a per-designator pullup/pulldown rule for every
// two-pin resistor tied to a supply net. A rule already present for the
// same designator is a DuplicateRuleError.
func InferPullResistors(nl *netlist.Netlist, rules *vcfg.RuleSet, opts Options) ([]Classification, error) {
	opts = opts.withDefaults()
	s := newSupplies(opts)

	var all []Classification
	for _, c := range nl.Components {
		if c.Part != ResistorPart || len(c.Pins) != 2 {
			continue
		}

		for i, cl := range classifyResistor(c, s) {
			if i > 0 {
				cl.Shadowed = true
				opts.Logger.Warn("resistor has more than one pull classification; keeping the first",
					"ref", cl.RefDes, "primitive", cl.Primitive, "pin", cl.Pin)
				all = append(all, cl)
				continue
			}

			rule := vcfg.Module{Name: cl.Primitive, Pins: []string{cl.Pin}}
			if err := rules.Add(vcfg.RefDes(c.RefDes), rule); err != nil {
				return nil, err
			}
			opts.Logger.Debug("inferred pull resistor", "ref", cl.RefDes, "rule", rule.String())
			all = append(all, cl)
		}
	}

	return all, nil
}
