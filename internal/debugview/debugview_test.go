package debugview

import (
	"bytes"
	"strings"
	"testing"

	"avrsim/internal/cpu"
	"avrsim/internal/datamem"
	"avrsim/internal/progmem"
)

func encode(op cpu.Opcode, a1, a2 byte) uint32 {
	return uint32(op)<<16 | uint32(a1)<<8 | uint32(a2)
}

func TestSnapshotCopiesCurrentState(t *testing.T) {
	c := cpu.New(datamem.New(), progmem.New())
	c.LoadProgram([]uint32{encode(cpu.OpLDI, 16, 0x42)})
	c.AdvanceInstruction()

	s := Snapshot(c)
	if s.Registers[16] != 0x42 {
		t.Fatalf("snapshot R16 = 0x%02X, want 0x42", s.Registers[16])
	}

	// Mutating the live CPU afterward must not affect the snapshot already
	// taken.
	c.Registers[16] = 0
	if s.Registers[16] != 0x42 {
		t.Fatalf("snapshot mutated after CPU state changed")
	}
}

func TestFprintIncludesRegistersAndState(t *testing.T) {
	c := cpu.New(datamem.New(), progmem.New())
	c.LoadProgram([]uint32{encode(cpu.OpLDI, 5, 9)})
	c.AdvanceInstruction()

	var buf bytes.Buffer
	Snapshot(c).Fprint(&buf)

	out := buf.String()
	if !strings.Contains(out, "state=FETCH") {
		t.Fatalf("output missing state, got %q", out)
	}
	if !strings.Contains(out, "r5 =0x09") {
		t.Fatalf("output missing r5 value, got %q", out)
	}
}

func TestSRBitsReflectsFlags(t *testing.T) {
	c := cpu.New(datamem.New(), progmem.New())
	c.SR = 0
	s := Snapshot(c)
	if bits := s.SRBits(); bits != "-----" {
		t.Fatalf("SRBits() = %q, want all clear", bits)
	}
}

func TestPrinterFirstCallHighlightsNothing(t *testing.T) {
	c := cpu.New(datamem.New(), progmem.New())
	c.LoadProgram([]uint32{encode(cpu.OpLDI, 16, 1)})
	c.AdvanceInstruction()

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Print(Snapshot(c))

	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("non-terminal writer must never emit ANSI escapes, got %q", buf.String())
	}
}

func TestPrinterPlainWriterNeverColorizes(t *testing.T) {
	c := cpu.New(datamem.New(), progmem.New())
	c.LoadProgram([]uint32{
		encode(cpu.OpLDI, 16, 1),
		encode(cpu.OpLDI, 16, 2),
	})

	var buf bytes.Buffer
	p := NewPrinter(&buf)
	c.AdvanceInstruction()
	p.Print(Snapshot(c))
	c.AdvanceInstruction()
	p.Print(Snapshot(c))

	if strings.Contains(buf.String(), ansiYellow) {
		t.Fatalf("bytes.Buffer is not an *os.File; Printer must not colorize it")
	}
}
