package synth

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/kicad/netlist"
	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/vcfg"
)

func pin(num, name, net string, typ netlist.PinType) *netlist.Pin {
	return &netlist.Pin{Num: num, Name: name, Net: net, Type: typ}
}

func comp(ref, part string, pins ...*netlist.Pin) *netlist.Component {
	return &netlist.Component{RefDes: ref, Part: part, Pins: pins}
}

// twoPin is a passive part between two nets.
func twoPin(ref, part, net1, net2 string) *netlist.Component {
	return comp(ref, part,
		pin("1", "~", net1, netlist.PinPassive),
		pin("2", "~", net2, netlist.PinPassive))
}

// buildNetlist derives nets from the component pins, in order of first
// appearance.
func buildNetlist(t *testing.T, comps ...*netlist.Component) *netlist.Netlist {
	t.Helper()

	var nets []*netlist.Net
	byName := make(map[string]*netlist.Net)
	for _, c := range comps {
		for _, p := range c.Pins {
			n, ok := byName[p.Net]
			if !ok {
				n = &netlist.Net{Name: p.Net}
				byName[p.Net] = n
				nets = append(nets, n)
			}
			n.Nodes = append(n.Nodes, &netlist.Node{RefDes: c.RefDes, Pin: p.Num, Type: p.Type})
		}
	}

	nl, err := netlist.New(comps, nets)
	if err != nil {
		t.Fatalf("Failed to build netlist: %v", err)
	}
	return nl
}

func loadRules(t *testing.T, input string) *vcfg.RuleSet {
	t.Helper()

	rs := vcfg.NewRuleSet()
	if err := rs.LoadString("test.vcfg", input); err != nil {
		t.Fatalf("Failed to load rules: %v", err)
	}
	return rs
}

func refs(comps []*netlist.Component) []string {
	out := make([]string, len(comps))
	for i, c := range comps {
		out[i] = c.RefDes
	}
	return out
}
