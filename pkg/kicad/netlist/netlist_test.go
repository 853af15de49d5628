package netlist

import (
	"testing"
)

// buildNetlist makes a small netlist:
//
//	N1: R1.1 U1.1
//	N2: R1.2
//	N3: U1.2
func buildNetlist(t *testing.T) *Netlist {
	t.Helper()

	comps := []*Component{
		{RefDes: "R1", Part: "R", Pins: []*Pin{
			{Num: "1", Net: "N1", Type: PinPassive},
			{Num: "2", Net: "N2", Type: PinPassive},
		}},
		{RefDes: "U1", Part: "BUF", Pins: []*Pin{
			{Num: "1", Name: "A", Net: "N1", Type: PinInput},
			{Num: "2", Name: "Y", Net: "N3", Type: PinOutput},
		}},
	}
	nets := []*Net{
		{Name: "N1", Nodes: []*Node{{RefDes: "R1", Pin: "1", Type: PinPassive}, {RefDes: "U1", Pin: "1", Type: PinInput}}},
		{Name: "N2", Nodes: []*Node{{RefDes: "R1", Pin: "2", Type: PinPassive}}},
		{Name: "N3", Nodes: []*Node{{RefDes: "U1", Pin: "2", Type: PinOutput}}},
	}

	nl, err := New(comps, nets)
	if err != nil {
		t.Fatalf("Failed to build netlist: %v", err)
	}
	return nl
}

func TestRemoveComponents(t *testing.T) {
	nl := buildNetlist(t)

	nl.RemoveComponents([]string{"R1"})

	if len(nl.Components) != 1 || nl.Components[0].RefDes != "U1" {
		t.Fatalf("Expected only U1 to remain, got %d components", len(nl.Components))
	}
	if _, ok := nl.Component("R1"); ok {
		t.Error("R1 still indexed after removal")
	}

	// N2 only had R1 on it and must be gone; N1 keeps U1
	if _, ok := nl.Net("N2"); ok {
		t.Error("Expected N2 to be removed")
	}
	n1, ok := nl.Net("N1")
	if !ok {
		t.Fatal("Expected N1 to remain")
	}
	if len(n1.Nodes) != 1 || n1.Nodes[0].RefDes != "U1" {
		t.Errorf("Expected N1 to hold only U1, got %d nodes", len(n1.Nodes))
	}

	var names []string
	for _, n := range nl.Nets {
		names = append(names, n.Name)
	}
	if len(names) != 2 || names[0] != "N1" || names[1] != "N3" {
		t.Errorf("Expected nets [N1 N3], got %v", names)
	}
}

func TestRemoveNothing(t *testing.T) {
	nl := buildNetlist(t)
	nl.RemoveComponents(nil)
	if len(nl.Components) != 2 || len(nl.Nets) != 3 {
		t.Errorf("Expected netlist unchanged, got %d components, %d nets", len(nl.Components), len(nl.Nets))
	}
}

func TestCloneIsDeep(t *testing.T) {
	nl := buildNetlist(t)
	clone := nl.Clone()

	clone.Nets[0].Nodes[0].Type = PinOutput
	clone.Components[0].Pins[0].Type = PinOutput
	clone.RemoveComponents([]string{"U1"})

	if nl.Nets[0].Nodes[0].Type != PinPassive {
		t.Error("Node type change leaked into original")
	}
	if nl.Components[0].Pins[0].Type != PinPassive {
		t.Error("Pin type change leaked into original")
	}
	if len(nl.Components) != 2 {
		t.Error("Component removal leaked into original")
	}
	if _, ok := clone.Component("R1"); !ok {
		t.Error("Clone lost its index")
	}
}

func TestNewRejectsDanglingNodes(t *testing.T) {
	comps := []*Component{{RefDes: "R1", Pins: []*Pin{{Num: "1", Net: "N1"}}}}

	tests := []struct {
		name string
		node *Node
	}{
		{"unknown component", &Node{RefDes: "R9", Pin: "1"}},
		{"unknown pin", &Node{RefDes: "R1", Pin: "7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nets := []*Net{{Name: "N1", Nodes: []*Node{tt.node}}}
			if _, err := New(comps, nets); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLiteralNetlistLookups(t *testing.T) {
	nl := &Netlist{
		Components: []*Component{
			{RefDes: "J1", Pins: []*Pin{{Num: "1", Net: "sig"}}},
		},
		Nets: []*Net{
			{Name: "sig", Nodes: []*Node{{RefDes: "J1", Pin: "1"}}},
		},
	}

	if _, ok := nl.Component("J1"); !ok {
		t.Error("Expected J1 on a literal netlist")
	}
	if _, ok := nl.Net("sig"); !ok {
		t.Error("Expected net sig on a literal netlist")
	}
	if err := nl.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}

	// Appending after a lookup must not leave the index stale
	nl.Nets = append(nl.Nets, &Net{Name: "other"})
	if _, ok := nl.Net("other"); !ok {
		t.Error("Expected appended net to be found")
	}
}
