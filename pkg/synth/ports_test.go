package synth

import (
	"errors"
	"testing"

	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/kicad/netlist"
)

func TestResolvePortsDirection(t *testing.T) {
	tests := []struct {
		name    string
		others  []netlist.PinType
		want    Direction
		wantPin netlist.PinType
	}{
		{"drives an input", []netlist.PinType{netlist.PinInput}, DirInput, netlist.PinOutput},
		{"drives several inputs", []netlist.PinType{netlist.PinInput, netlist.PinInput}, DirInput, netlist.PinOutput},
		{"alone on its net", nil, DirInput, netlist.PinOutput},
		{"driven by an output", []netlist.PinType{netlist.PinOutput}, DirOutput, netlist.PinInput},
		{"output wins over input", []netlist.PinType{netlist.PinInput, netlist.PinOutput}, DirOutput, netlist.PinInput},
		{"passive neighbour", []netlist.PinType{netlist.PinPassive}, DirInout, netlist.PinPassive},
		{"bidirectional neighbour", []netlist.PinType{netlist.PinInput, netlist.PinBidirectional}, DirInout, netlist.PinPassive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comps := []*netlist.Component{
				comp("J1", "Conn", pin("1", "Pin_1", "sig", netlist.PinPassive)),
			}
			for i, typ := range tt.others {
				ref := string(rune('A'+i)) + "1"
				comps = append(comps, comp(ref, "X", pin("1", "P", "sig", typ)))
			}
			nl := buildNetlist(t, comps...)
			rules := loadRules(t, "[J1] => module[#1]")

			ports, err := ResolvePorts(nl, rules)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(ports) != 1 {
				t.Fatalf("Expected 1 port, got %d", len(ports))
			}
			if ports[0].Direction != tt.want {
				t.Errorf("Expected %s port, got %s", tt.want, ports[0].Direction)
			}

			j1, _ := nl.Component("J1")
			p, _ := j1.Pin("1")
			if p.Type != tt.wantPin {
				t.Errorf("Expected pin type %s, got %s", tt.wantPin, p.Type)
			}
			net, _ := nl.Net("sig")
			node, _ := net.Node("J1", "1")
			if node.Type != p.Type {
				t.Errorf("Node type %s out of sync with pin type %s", node.Type, p.Type)
			}
		})
	}
}

func TestResolvePortsOrderAndNames(t *testing.T) {
	nl := buildNetlist(t,
		comp("J2", "Conn",
			pin("1", "Pin_1", "/A", netlist.PinPassive),
			pin("2", "Pin_2", "/B", netlist.PinPassive)),
		comp("J1", "Conn",
			pin("1", "CLK", "clk", netlist.PinPassive),
			pin("2", "~", "n2", netlist.PinPassive)),
	)
	rules := loadRules(t, "Conn => module[#2,#1]")

	ports, err := ResolvePorts(nl, rules)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Component order first, then rule pin order
	want := []ModPort{
		{Name: "J2_Pin_2", Net: `\/B `, Direction: DirInput},
		{Name: "J2_Pin_1", Net: `\/A `, Direction: DirInput},
		{Name: `\J1_~ `, Net: "n2", Direction: DirInput},
		{Name: "J1_CLK", Net: "clk", Direction: DirInput},
	}
	if len(ports) != len(want) {
		t.Fatalf("Expected %d ports, got %d", len(want), len(ports))
	}
	for i, w := range want {
		if ports[i] != w {
			t.Errorf("Port %d: expected %+v, got %+v", i, w, ports[i])
		}
	}
}

func TestResolvePortsMissingPin(t *testing.T) {
	nl := buildNetlist(t, comp("J1", "Conn", pin("1", "Pin_1", "sig", netlist.PinPassive)))
	rules := loadRules(t, "[J1] => module[#1,#5]")

	_, err := ResolvePorts(nl, rules)

	var mp *MissingPinError
	if !errors.As(err, &mp) {
		t.Fatalf("Expected *MissingPinError, got %v", err)
	}
	if mp.RefDes != "J1" || mp.Pin != "5" {
		t.Errorf("Unexpected error fields: %+v", mp)
	}
	if got := err.Error(); got != "no pin number 5 found for component J1" {
		t.Errorf("Unexpected message: %s", got)
	}
}

func TestResolvePortsSkipsRemovedNet(t *testing.T) {
	j1 := comp("J1", "Conn",
		pin("1", "Pin_1", "gone", netlist.PinPassive),
		pin("2", "Pin_2", "sig", netlist.PinPassive),
		pin("3", "Pin_3", "out", netlist.PinPassive))
	u1 := comp("U1", "BUF",
		pin("1", "A", "sig", netlist.PinInput),
		pin("2", "Y", "out", netlist.PinOutput))

	// No net "gone": its other members were dropped by cleanup
	nets := []*netlist.Net{
		{Name: "sig", Nodes: []*netlist.Node{
			{RefDes: "J1", Pin: "2", Type: netlist.PinPassive},
			{RefDes: "U1", Pin: "1", Type: netlist.PinInput},
		}},
		{Name: "out", Nodes: []*netlist.Node{
			{RefDes: "J1", Pin: "3", Type: netlist.PinPassive},
			{RefDes: "U1", Pin: "2", Type: netlist.PinOutput},
		}},
	}
	nl, err := netlist.New([]*netlist.Component{j1, u1}, nets)
	if err != nil {
		t.Fatalf("Failed to build netlist: %v", err)
	}

	ports, err := ResolvePorts(nl, loadRules(t, "[J1] => module[#1,#2,#3]"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []ModPort{
		{Name: "J1_Pin_2", Net: "sig", Direction: DirInput},
		{Name: "J1_Pin_3", Net: "out", Direction: DirOutput},
	}
	if len(ports) != len(want) {
		t.Fatalf("Expected %d ports, got %d: %+v", len(want), len(ports), ports)
	}
	for i, w := range want {
		if ports[i] != w {
			t.Errorf("Port %d: expected %+v, got %+v", i, w, ports[i])
		}
	}
}

func TestResolvePortsLiteralNetlist(t *testing.T) {
	nl := &netlist.Netlist{
		Components: []*netlist.Component{
			comp("J1", "Conn", pin("1", "Pin_1", "sig", netlist.PinPassive)),
			comp("U1", "BUF", pin("1", "A", "sig", netlist.PinInput)),
		},
		Nets: []*netlist.Net{
			{Name: "sig", Nodes: []*netlist.Node{
				{RefDes: "J1", Pin: "1", Type: netlist.PinPassive},
				{RefDes: "U1", Pin: "1", Type: netlist.PinInput},
			}},
		},
	}

	ports, err := ResolvePorts(nl, loadRules(t, "[J1] => module[#1]"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(ports) != 1 || ports[0].Name != "J1_Pin_1" || ports[0].Direction != DirInput {
		t.Errorf("Expected one input port J1_Pin_1, got %+v", ports)
	}
}
