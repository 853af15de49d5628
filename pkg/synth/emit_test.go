package synth

import (
	"bytes"
	"testing"
)

func TestWriteToNoPorts(t *testing.T) {
	m := &Module{
		Name:       "empty",
		Wires:      []string{"GND", "VCC"},
		PowerNets:  []string{"VCC"},
		GroundNets: []string{"GND"},
	}

	want := "module empty();\n" +
		"\n" +
		"    wire GND;\n" +
		"    wire VCC;\n" +
		"\n" +
		"    assign VCC = 1;\n" +
		"    assign GND = 0;\n" +
		"\n" +
		"\n" +
		"endmodule\n"

	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if buf.String() != want {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
	if n != int64(len(want)) {
		t.Errorf("Expected %d bytes written, got %d", len(want), n)
	}
}

func TestWriteToEscapesNames(t *testing.T) {
	m := &Module{
		Name: "my-board.rev2",
		Ports: []ModPort{
			{Name: "J1_A", Net: `\/A `, Direction: DirOutput},
		},
		Wires:      []string{"/A", "+5V"},
		PowerNets:  []string{"+5V"},
		GroundNets: []string{"0V"},
		Instances: []Instance{
			{Module: "buf", Name: "U1", Nets: []string{`\/A `, `\+5V `}},
		},
	}

	want := "module \\my-board.rev2 \n" +
		"(\n" +
		"    output J1_A\n" +
		");\n" +
		"\n" +
		"    wire \\/A ;\n" +
		"    wire \\+5V ;\n" +
		"\n" +
		"    assign \\+5V  = 1;\n" +
		"    assign \\0V  = 0;\n" +
		"\n" +
		"    tran(J1_A,\\/A );\n" +
		"\n" +
		"    buf U1(\\/A ,\\+5V );\n" +
		"endmodule\n"

	if got := m.String(); got != want {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteToInstanceSeparator(t *testing.T) {
	m := &Module{
		Name: "top",
		Instances: []Instance{
			{Module: `\odd.prim `, Name: "U1", Nets: []string{"a"}},
			{Module: "and", Name: `\U$1 `, Nets: []string{"a", "b"}},
		},
	}

	got := m.String()
	if !bytes.Contains([]byte(got), []byte("    \\odd.prim U1(a);\n")) {
		t.Errorf("Expected no doubled space after an escaped module name, got:\n%s", got)
	}
	if !bytes.Contains([]byte(got), []byte("    and \\U$1 (a,b);\n")) {
		t.Errorf("Expected escaped instance name, got:\n%s", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, bytes.ErrTooLarge
}

func TestWriteToReportsErrors(t *testing.T) {
	m := &Module{Name: "top"}
	if _, err := m.WriteTo(failingWriter{}); err == nil {
		t.Error("Expected write error")
	}
}
