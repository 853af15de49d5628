package synth

import (
	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/kicad/netlist"
	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/vcfg"
)

// Direction is a Verilog port direction keyword.
type Direction string

const (
	DirInput  Direction = "input"
	DirOutput Direction = "output"
	DirInout  Direction = "inout"
)

// ModPort is one port of the generated module.
type ModPort struct {
	Name      string // Escaped "<ref>_<pin name>"
	Net       string // Escaped name of the net the port is tied to
	Direction Direction
}

// portDirection inverts the resolved pin direction: the boundary pin
// receiving from the net means the module drives it out, and vice versa.
func portDirection(t netlist.PinType) Direction {
	switch t {
	case netlist.PinInput:
		return DirOutput
	case netlist.PinOutput:
		return DirInput
	default:
		return DirInout
	}
}

// ResolvePorts turns every pin listed by an External rule into a module
// port, in component order and then rule pin order.
//
// The pin's direction is inferred from the other components on its net:
// if any of them is an output the pin becomes an input; if all of them are
// inputs (or there are none) it becomes an output; otherwise it keeps its
// type. The result is written to both the net node and the pin. Pins whose
// net no longer exists are skipped.
func ResolvePorts(nl *netlist.Netlist, rules *vcfg.RuleSet) ([]ModPort, error) {
	var ports []ModPort

	for _, comp := range nl.Components {
		rule, ok := rules.Lookup(comp.RefDes, comp.Part)
		if !ok {
			continue
		}
		ext, ok := rule.(vcfg.External)
		if !ok {
			continue
		}

		for _, num := range ext.Pins {
			pin, ok := comp.Pin(num)
			if !ok {
				return nil, &MissingPinError{RefDes: comp.RefDes, Pin: num}
			}

			net, ok := nl.Net(pin.Net)
			if !ok {
				continue
			}
			node, ok := net.Node(comp.RefDes, pin.Num)
			if !ok {
				continue
			}

			allInput, anyOutput := true, false
			for _, other := range net.Nodes {
				if other.RefDes == comp.RefDes {
					continue
				}
				if other.Type != netlist.PinInput {
					allInput = false
				}
				if other.Type == netlist.PinOutput {
					anyOutput = true
				}
			}

			switch {
			case anyOutput:
				node.Type = netlist.PinInput
			case allInput:
				node.Type = netlist.PinOutput
			}
			pin.Type = node.Type

			ports = append(ports, ModPort{
				Name:      VerilogName(comp.RefDes + "_" + pin.Name),
				Net:       VerilogName(pin.Net),
				Direction: portDirection(pin.Type),
			})
		}
	}

	return ports, nil
}
