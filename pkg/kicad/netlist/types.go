// Package netlist models a KiCad netlist export: components with their
// pins, and named nets made of (component, pin) nodes.
//
// Components, pins and nets refer to each other by identifier (reference
// designator, pin number, net name). The Netlist owns every entity and
// keeps lookup tables from identifier to entity.
package netlist

import "strings"

// PinType is the electrical type of a pin as reported by the schematic.
type PinType int

const (
	PinUnspecified PinType = iota
	PinInput
	PinOutput
	PinBidirectional
	PinTriState
	PinPassive
	PinFree
	PinPowerIn
	PinPowerOut
	PinOpenCollector
	PinOpenEmitter
	PinNoConnect
)

var pinTypeNames = map[PinType]string{
	PinUnspecified:   "unspecified",
	PinInput:         "input",
	PinOutput:        "output",
	PinBidirectional: "bidirectional",
	PinTriState:      "tri_state",
	PinPassive:       "passive",
	PinFree:          "free",
	PinPowerIn:       "power_in",
	PinPowerOut:      "power_out",
	PinOpenCollector: "open_collector",
	PinOpenEmitter:   "open_emitter",
	PinNoConnect:     "no_connect",
}

func (t PinType) String() string {
	if name, ok := pinTypeNames[t]; ok {
		return name
	}
	return "unspecified"
}

// ParsePinType maps a KiCad pin type keyword to a PinType. KiCad appends
// "+no_connect" to pins flagged as unconnected; the suffix is ignored.
// Unknown keywords map to PinUnspecified.
func ParsePinType(s string) PinType {
	s, _, _ = strings.Cut(strings.ToLower(strings.TrimSpace(s)), "+")
	for t, name := range pinTypeNames {
		if name == s {
			return t
		}
	}
	return PinUnspecified
}

// Pin is one pin of a component.
type Pin struct {
	Num  string  // Pin number, unique within the component
	Name string  // Symbolic pin name ("~" when unnamed in the symbol)
	Net  string  // Name of the net the pin is attached to
	Type PinType // Electrical direction; updated during port resolution
}

// Component is a placed symbol instance.
type Component struct {
	RefDes string // Reference designator, e.g. "R1"
	Part   string // Library part name, e.g. "R"
	Lib    string // Library nickname, e.g. "Device"
	Value  string
	Pins   []*Pin
}

// Pin returns the pin with the given number.
func (c *Component) Pin(num string) (*Pin, bool) {
	for _, p := range c.Pins {
		if p.Num == num {
			return p, true
		}
	}
	return nil, false
}

// Node is the attachment of one component pin to a net.
type Node struct {
	RefDes string
	Pin    string
	Type   PinType
}

// Net is a named set of connected nodes.
type Net struct {
	Code  string
	Name  string
	Nodes []*Node
}

// Node returns the node for the given component pin.
func (n *Net) Node(refDes, pin string) (*Node, bool) {
	for _, node := range n.Nodes {
		if node.RefDes == refDes && node.Pin == pin {
			return node, true
		}
	}
	return nil, false
}
