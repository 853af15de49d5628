package synth

import (
	"log/slog"

	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/kicad/netlist"
	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/vcfg"
)

// Each pass collects the designators to drop first and removes them in
// one go afterwards.

// RemoveDecouplingCaps drops two-pin capacitors sitting between a power
// net and a ground net. It returns the removed designators.
func RemoveDecouplingCaps(nl *netlist.Netlist, opts Options) []string {
	opts = opts.withDefaults()
	s := newSupplies(opts)

	var caps []string
	for _, c := range nl.Components {
		if c.Part != CapacitorPart || len(c.Pins) != 2 {
			continue
		}
		a, b := c.Pins[0].Net, c.Pins[1].Net
		if (s.power[a] || s.power[b]) && (s.ground[a] || s.ground[b]) {
			caps = append(caps, c.RefDes)
		}
	}

	remove(nl, caps, opts.Logger, "decoupling capacitor")
	return caps
}

// RemovePinless drops components without any pin.
func RemovePinless(nl *netlist.Netlist, opts Options) []string {
	opts = opts.withDefaults()

	var pinless []string
	for _, c := range nl.Components {
		if len(c.Pins) == 0 {
			pinless = append(pinless, c.RefDes)
		}
	}

	remove(nl, pinless, opts.Logger, "pinless component")
	return pinless
}

// RemoveSkipped drops components whose rule is Skip.
func RemoveSkipped(nl *netlist.Netlist, rules *vcfg.RuleSet, opts Options) []string {
	opts = opts.withDefaults()

	var skipped []string
	for _, c := range nl.Components {
		rule, ok := rules.Lookup(c.RefDes, c.Part)
		if !ok {
			continue
		}
		if _, isSkip := rule.(vcfg.Skip); isSkip {
			skipped = append(skipped, c.RefDes)
		}
	}

	remove(nl, skipped, opts.Logger, "skipped component")
	return skipped
}

func remove(nl *netlist.Netlist, refs []string, logger *slog.Logger, reason string) {
	for _, ref := range refs {
		logger.Debug("removing component", "ref", ref, "reason", reason)
	}
	nl.RemoveComponents(refs)
}
