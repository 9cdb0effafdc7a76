// Package debugview is the simulator's status dumper: a point-in-time
// snapshot of CPU state and a human-readable renderer for it, the
// equivalent of print_status. Grounded on debug_cpu_ie32.go's register-
// introspection adapter, simplified from a live breakpoint/step debugger
// (this core has no concurrent execution to pause) down to the plain
// snapshot-and-render shape a single-threaded simulator actually needs.
package debugview

import (
	"fmt"
	"io"

	"avrsim/internal/alu"
	"avrsim/internal/cpu"
)

// Status is a copy of the CPU's register file and control registers
// (state, PC, MAR, IR, decoded operands, SR). Data memory, the stack and
// the interrupt source are not included.
type Status struct {
	State  cpu.State
	PC     byte
	MAR    byte
	IR     uint32
	OpCode cpu.Opcode
	Op1    byte
	Op2    byte
	SR     byte

	Registers [cpu.RegisterCount]byte
}

// Snapshot copies c's current state. The returned Status is independent of
// any later changes to c.
func Snapshot(c *cpu.CPU) Status {
	return Status{
		State:     c.State,
		PC:        c.PC,
		MAR:       c.MAR,
		IR:        c.IR,
		OpCode:    c.OpCode,
		Op1:       c.Op1,
		Op2:       c.Op2,
		SR:        c.SR,
		Registers: c.Registers,
	}
}

// Fprint writes a plain, uncolored rendering of s to w.
func (s Status) Fprint(w io.Writer) {
	fmt.Fprintf(w, "state=%-7s pc=0x%02X mar=0x%02X ir=0x%06X op=%v op1=0x%02X op2=0x%02X sr=0x%02X\n",
		s.State, s.PC, s.MAR, s.IR, s.OpCode, s.Op1, s.Op2, s.SR)
	for i, v := range s.Registers {
		fmt.Fprintf(w, "r%-2d=0x%02X ", i, v)
		if i%8 == 7 {
			fmt.Fprintln(w)
		}
	}
}

// SRBits spells out the I, V, N, Z and C flags, in that order, as the
// flag's letter when set and "-" when clear. Printer appends it to its
// header line; Fprint shows only the raw SR byte.
func (s Status) SRBits() string {
	bit := func(set bool, name string) string {
		if set {
			return name
		}
		return "-"
	}
	return fmt.Sprintf("%s%s%s%s%s",
		bit(s.SR&(1<<alu.BitI) != 0, "I"),
		bit(s.SR&(1<<alu.BitV) != 0, "V"),
		bit(s.SR&(1<<alu.BitN) != 0, "N"),
		bit(s.SR&(1<<alu.BitZ) != 0, "Z"),
		bit(s.SR&(1<<alu.BitC) != 0, "C"),
	)
}
