package netlist

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/kicad/sexp/kicadsexp"
)

// ParseError reports a malformed netlist export.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("netlist: line %d: %s", e.Line, e.Msg)
	}
	return "netlist: " + e.Msg
}

func parseErrorf(node kicadsexp.Sexp, format string, args ...any) error {
	return &ParseError{Line: sexp.Line(node), Msg: fmt.Sprintf(format, args...)}
}

// libPin is a pin as declared by a (libpart ...) entry.
type libPin struct {
	name string
	typ  string
}

type libPart struct {
	order []string
	pins  map[string]libPin
}

// ParseFile reads and parses a KiCad netlist export (.net)
func ParseFile(filename string) (*Netlist, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad netlist export from an io.Reader.
//
// Components come from (components (comp ...)). KiCad does not list pins
// on components; they are reconstructed from the net nodes, named and typed
// from the node itself (pinfunction/pintype) or from the matching libpart.
// Pins are ordered as the libpart declares them, falling back to first
// appearance in the nets.
func Parse(r io.Reader) (*Netlist, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		var syn *kicadsexp.SyntaxError
		if errors.As(err, &syn) {
			return nil, &ParseError{Line: syn.Line, Msg: syn.Msg}
		}
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if len(sexps) == 0 {
		return nil, &ParseError{Msg: "empty file or no valid s-expressions found"}
	}

	root := sexps[0]
	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("failed to get root node name: %v", err)}
	}
	if rootName != "export" {
		return nil, &ParseError{Line: sexp.Line(root), Msg: fmt.Sprintf("not a KiCad netlist: expected 'export', got '%s'", rootName)}
	}

	libParts := parseLibParts(root)

	components, err := parseComponents(root)
	if err != nil {
		return nil, err
	}

	byRef := make(map[string]*Component, len(components))
	for _, c := range components {
		if _, dup := byRef[c.RefDes]; dup {
			return nil, &ParseError{Msg: fmt.Sprintf("duplicate component %s", c.RefDes)}
		}
		byRef[c.RefDes] = c
	}

	nets, err := parseNets(root, byRef, libParts)
	if err != nil {
		return nil, err
	}

	for _, c := range components {
		sortPins(c, libParts[libKey(c.Lib, c.Part)])
	}

	return New(components, nets)
}

func libKey(lib, part string) string {
	return lib + ":" + part
}

func parseLibParts(root kicadsexp.Sexp) map[string]*libPart {
	parts := make(map[string]*libPart)

	libPartsNode, found := sexp.FindNode(root, "libparts")
	if !found {
		return parts
	}

	for _, lp := range sexp.FindAllNodes(libPartsNode, "libpart") {
		lib, _ := sexp.GetValue(lp, "lib")
		name, _ := sexp.GetValue(lp, "part")

		part := &libPart{pins: make(map[string]libPin)}
		if pinsNode, found := sexp.FindNode(lp, "pins"); found {
			for _, pn := range sexp.FindAllNodes(pinsNode, "pin") {
				num, ok := sexp.GetValue(pn, "num")
				if !ok {
					continue
				}
				if _, dup := part.pins[num]; dup {
					continue
				}
				pinName, _ := sexp.GetValue(pn, "name")
				pinType, _ := sexp.GetValue(pn, "type")
				part.order = append(part.order, num)
				part.pins[num] = libPin{name: pinName, typ: pinType}
			}
		}
		parts[libKey(lib, name)] = part

		// Aliases share the pin table of the part they alias.
		if aliases, found := sexp.FindNode(lp, "aliases"); found {
			for _, al := range sexp.FindAllNodes(aliases, "alias") {
				if aliasName, err := sexp.GetString(al, 1); err == nil {
					parts[libKey(lib, aliasName)] = part
				}
			}
		}
	}

	return parts
}

func parseComponents(root kicadsexp.Sexp) ([]*Component, error) {
	compsNode, found := sexp.FindNode(root, "components")
	if !found {
		return nil, nil
	}

	var components []*Component
	for _, cn := range sexp.FindAllNodes(compsNode, "comp") {
		ref, ok := sexp.GetValue(cn, "ref")
		if !ok || ref == "" {
			return nil, parseErrorf(cn, "component without reference designator")
		}

		comp := &Component{RefDes: ref}
		comp.Value, _ = sexp.GetValue(cn, "value")
		if src, found := sexp.FindNode(cn, "libsource"); found {
			comp.Lib, _ = sexp.GetValue(src, "lib")
			comp.Part, _ = sexp.GetValue(src, "part")
		}
		components = append(components, comp)
	}

	return components, nil
}

func parseNets(root kicadsexp.Sexp, byRef map[string]*Component, libParts map[string]*libPart) ([]*Net, error) {
	netsNode, found := sexp.FindNode(root, "nets")
	if !found {
		return nil, nil
	}

	var nets []*Net
	seen := make(map[string]bool)
	for _, nn := range sexp.FindAllNodes(netsNode, "net") {
		name, ok := sexp.GetValue(nn, "name")
		if !ok {
			return nil, parseErrorf(nn, "net without name")
		}
		if seen[name] {
			return nil, parseErrorf(nn, "duplicate net %q", name)
		}
		seen[name] = true

		net := &Net{Name: name}
		net.Code, _ = sexp.GetValue(nn, "code")

		for _, node := range sexp.FindAllNodes(nn, "node") {
			ref, ok := sexp.GetValue(node, "ref")
			if !ok {
				return nil, parseErrorf(node, "node without ref on net %q", name)
			}
			num, ok := sexp.GetValue(node, "pin")
			if !ok {
				return nil, parseErrorf(node, "node %s without pin on net %q", ref, name)
			}

			comp, ok := byRef[ref]
			if !ok {
				return nil, parseErrorf(node, "net %q references unknown component %s", name, ref)
			}

			lp := libParts[libKey(comp.Lib, comp.Part)]
			var decl libPin
			if lp != nil {
				decl = lp.pins[num]
			}

			pinName := decl.name
			if fn, ok := sexp.GetValue(node, "pinfunction"); ok && fn != "" {
				pinName = fn
			}
			typ := decl.typ
			if pt, ok := sexp.GetValue(node, "pintype"); ok && pt != "" {
				typ = pt
			}
			pinType := ParsePinType(typ)

			if pin, exists := comp.Pin(num); exists {
				if pin.Net != name {
					return nil, parseErrorf(node, "pin %s of %s is on both %q and %q", num, ref, pin.Net, name)
				}
				// Same pin listed twice on one net; keep a single node.
				continue
			}

			comp.Pins = append(comp.Pins, &Pin{
				Num:  num,
				Name: pinName,
				Net:  name,
				Type: pinType,
			})
			net.Nodes = append(net.Nodes, &Node{
				RefDes: ref,
				Pin:    num,
				Type:   pinType,
			})
		}

		nets = append(nets, net)
	}

	return nets, nil
}

// sortPins orders pins as declared by the libpart. Pins the libpart does not
// know keep their relative order after the declared ones.
func sortPins(c *Component, lp *libPart) {
	if lp == nil || len(lp.order) == 0 {
		return
	}

	rank := make(map[string]int, len(lp.order))
	for i, num := range lp.order {
		rank[num] = i
	}

	sorted := make([]*Pin, 0, len(c.Pins))
	for _, num := range lp.order {
		if p, ok := c.Pin(num); ok {
			sorted = append(sorted, p)
		}
	}
	for _, p := range c.Pins {
		if _, declared := rank[p.Num]; !declared {
			sorted = append(sorted, p)
		}
	}
	c.Pins = sorted
}
