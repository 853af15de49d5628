package synth

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Instance is one primitive instantiation in the generated module.
type Instance struct {
	Module string   // Primitive name, verbatim from the rule
	Name   string   // Escaped reference designator
	Nets   []string // Escaped net names in rule pin order
}

// Module is a fully resolved Verilog module ready to be written.
type Module struct {
	Name       string
	Ports      []ModPort
	Wires      []string
	PowerNets  []string
	GroundNets []string
	Instances  []Instance
}

// WriteTo renders the module. The layout is fixed: header and ports,
// wires, supply ties, boundary trans, instances, endmodule.
func (m *Module) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}

	name := VerilogName(m.Name)
	if len(m.Ports) == 0 {
		fmt.Fprintf(cw, "module %s();\n", name)
	} else {
		decls := make([]string, len(m.Ports))
		for i, p := range m.Ports {
			decls[i] = string(p.Direction) + " " + p.Name
		}
		fmt.Fprintf(cw, "module %s\n(\n    %s\n);\n", name, strings.Join(decls, ",\n    "))
	}

	fmt.Fprintln(cw)
	for _, wire := range m.Wires {
		fmt.Fprintf(cw, "    wire %s;\n", VerilogName(wire))
	}

	fmt.Fprintln(cw)
	for _, n := range m.PowerNets {
		fmt.Fprintf(cw, "    assign %s = 1;\n", VerilogName(n))
	}
	for _, n := range m.GroundNets {
		fmt.Fprintf(cw, "    assign %s = 0;\n", VerilogName(n))
	}

	fmt.Fprintln(cw)
	for _, p := range m.Ports {
		fmt.Fprintf(cw, "    tran(%s,%s);\n", p.Name, p.Net)
	}

	fmt.Fprintln(cw)
	for _, inst := range m.Instances {
		sep := " "
		if strings.HasSuffix(inst.Module, " ") {
			sep = ""
		}
		fmt.Fprintf(cw, "    %s%s%s(%s);\n", inst.Module, sep, inst.Name, strings.Join(inst.Nets, ","))
	}
	fmt.Fprintln(cw, "endmodule")

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

// String renders the module to a string.
func (m *Module) String() string {
	var b strings.Builder
	m.WriteTo(&b)
	return b.String()
}

// countingWriter remembers the first write error so the render code can
// stay linear.
type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
