package netlist

import (
	"fmt"
)

// Netlist holds components and nets in file order. Order is significant:
// downstream output follows it.
//
// A Netlist may be built as a literal; the lookup tables are rebuilt on
// demand whenever they do not cover the component and net lists.
type Netlist struct {
	Components []*Component
	Nets       []*Net

	comps map[string]*Component
	nets  map[string]*Net
}

// New builds a netlist from components and nets and checks that every
// node refers to an existing component pin.
func New(components []*Component, nets []*Net) (*Netlist, error) {
	nl := &Netlist{
		Components: components,
		Nets:       nets,
	}
	nl.reindex()

	if err := nl.Validate(); err != nil {
		return nil, err
	}
	return nl, nil
}

// ensureIndex rebuilds the lookup tables when they are missing or stale.
func (nl *Netlist) ensureIndex() {
	if nl.comps == nil || nl.nets == nil ||
		len(nl.comps) != len(nl.Components) || len(nl.nets) != len(nl.Nets) {
		nl.reindex()
	}
}

func (nl *Netlist) reindex() {
	nl.comps = make(map[string]*Component, len(nl.Components))
	for _, c := range nl.Components {
		nl.comps[c.RefDes] = c
	}
	nl.nets = make(map[string]*Net, len(nl.Nets))
	for _, n := range nl.Nets {
		nl.nets[n.Name] = n
	}
}

// Validate checks the node back-references of every net.
func (nl *Netlist) Validate() error {
	nl.ensureIndex()
	for _, net := range nl.Nets {
		for _, node := range net.Nodes {
			comp, ok := nl.comps[node.RefDes]
			if !ok {
				return fmt.Errorf("net %q: node references unknown component %s", net.Name, node.RefDes)
			}
			if _, ok := comp.Pin(node.Pin); !ok {
				return fmt.Errorf("net %q: node references unknown pin %s of %s", net.Name, node.Pin, node.RefDes)
			}
		}
	}
	return nil
}

// Component returns the component with the given reference designator.
func (nl *Netlist) Component(refDes string) (*Component, bool) {
	nl.ensureIndex()
	c, ok := nl.comps[refDes]
	return c, ok
}

// Net returns the net with the given name.
func (nl *Netlist) Net(name string) (*Net, bool) {
	nl.ensureIndex()
	n, ok := nl.nets[name]
	return n, ok
}

// RemoveComponents deletes the named components together with their nodes.
// Nets left without any node are deleted too. Relative order of everything
// that remains is preserved.
func (nl *Netlist) RemoveComponents(refs []string) {
	if len(refs) == 0 {
		return
	}

	doomed := make(map[string]bool, len(refs))
	for _, r := range refs {
		doomed[r] = true
	}

	comps := nl.Components[:0]
	for _, c := range nl.Components {
		if !doomed[c.RefDes] {
			comps = append(comps, c)
		}
	}
	nl.Components = comps

	nets := nl.Nets[:0]
	for _, net := range nl.Nets {
		nodes := net.Nodes[:0]
		for _, node := range net.Nodes {
			if !doomed[node.RefDes] {
				nodes = append(nodes, node)
			}
		}
		net.Nodes = nodes
		if len(net.Nodes) > 0 {
			nets = append(nets, net)
		}
	}
	nl.Nets = nets

	nl.reindex()
}

// Clone returns a deep copy of the netlist.
func (nl *Netlist) Clone() *Netlist {
	clone := &Netlist{
		Components: make([]*Component, len(nl.Components)),
		Nets:       make([]*Net, len(nl.Nets)),
	}

	for i, c := range nl.Components {
		cc := *c
		cc.Pins = make([]*Pin, len(c.Pins))
		for j, p := range c.Pins {
			pp := *p
			cc.Pins[j] = &pp
		}
		clone.Components[i] = &cc
	}

	for i, n := range nl.Nets {
		nn := *n
		nn.Nodes = make([]*Node, len(n.Nodes))
		for j, node := range n.Nodes {
			cp := *node
			nn.Nodes[j] = &cp
		}
		clone.Nets[i] = &nn
	}

	clone.reindex()
	return clone
}
