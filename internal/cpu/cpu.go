// Package cpu implements the simulator's control unit: the fetch/decode/
// execute state machine, instruction dispatch, and the interrupt entry/exit
// protocol that ties the ALU, stack, memories, and pin-change monitor
// together into one owning struct.
package cpu

import (
	"avrsim/internal/alu"
	"avrsim/internal/bitops"
	"avrsim/internal/datamem"
	"avrsim/internal/pcint"
	"avrsim/internal/progmem"
	"avrsim/internal/stack"
)

// RegisterCount is the size of the general-purpose register file.
const RegisterCount = 32

// State is one of the three control-unit states.
type State byte

const (
	StateFetch State = iota
	StateDecode
	StateExecute
)

func (s State) String() string {
	switch s {
	case StateFetch:
		return "FETCH"
	case StateDecode:
		return "DECODE"
	case StateExecute:
		return "EXECUTE"
	default:
		return "UNKNOWN"
	}
}

// Opcode identifies an instruction. Values are arbitrary but fixed; an
// unrecognized value triggers a full reset, the same as the source's
// "unknown opcode" catastrophic-bug path.
type Opcode byte

const (
	OpNOP Opcode = iota
	OpLDI
	OpMOV
	OpOUT
	OpIN
	OpSTS
	OpLDS
	OpCLR
	OpORI
	OpANDI
	OpXORI
	OpOR
	OpAND
	OpXOR
	OpADDI
	OpSUBI
	OpADD
	OpSUB
	OpINC
	OpDEC
	OpLSL
	OpLSR
	OpCPI
	OpCP
	OpJMP
	OpBREQ
	OpBRNE
	OpBRGE
	OpBRGT
	OpBRLE
	OpBRLT
	OpCALL
	OpRET
	OpRETI
	OpPUSH
	OpPOP
	OpSEI
	OpCLI
)

// CPU owns every piece of simulator state: the register file, status and
// program-control registers, the call/interrupt stack, the two memory
// banks, and the pin-change monitor. There are no package-level globals;
// every operation is a method on a CPU value, and the simulator is
// single-threaded and cooperative, so CPU carries no mutex.
type CPU struct {
	Registers [RegisterCount]byte

	SR  byte
	PC  byte
	MAR byte
	IR  uint32

	OpCode Opcode
	Op1    byte
	Op2    byte

	State           State
	InterruptSource byte

	stack   *stack.Stack
	mem     *datamem.Memory
	prog    *progmem.Memory
	monitor *pcint.Monitor

	program []uint32
}

// New returns a CPU wired to the given data and program memory banks, in
// its reset state. mem and prog are owned by the caller for their lifetime
// but are mutated freely by the CPU.
func New(mem *datamem.Memory, prog *progmem.Memory) *CPU {
	c := &CPU{
		stack:   stack.New(),
		mem:     mem,
		prog:    prog,
		monitor: pcint.New(),
	}
	c.Reset()
	return c
}

// LoadProgram writes words into program memory starting at address 0 and
// remembers them so a later Reset can idempotently replay the load.
func (c *CPU) LoadProgram(words []uint32) {
	c.program = append([]uint32(nil), words...)
	c.writeProgram()
}

func (c *CPU) writeProgram() {
	c.prog.Reset()
	for i, word := range c.program {
		if i >= progmem.AddressWidth {
			break
		}
		c.prog.Write(byte(i), word)
	}
}

// Reset clears IR, PC, MAR, SR, op_code, op1, op2 to zero, sets state to
// FETCH, restores interrupt_source to the reset vector, zeros the register
// file, re-runs the (idempotent) program load, and resets data memory,
// the stack, and the pin-change monitor's cached port values.
func (c *CPU) Reset() {
	c.IR = 0
	c.PC = 0
	c.MAR = 0
	c.SR = 0
	c.OpCode = OpNOP
	c.Op1 = 0
	c.Op2 = 0
	c.State = StateFetch
	c.InterruptSource = pcint.ResetVect

	for i := range c.Registers {
		c.Registers[i] = 0
	}

	c.writeProgram()
	c.mem.Reset()
	c.stack.Reset()
	c.monitor.Reset()
}

// Register returns the value of register r (0..31); out-of-range indices
// return 0.
func (c *CPU) Register(r byte) byte {
	if int(r) >= RegisterCount {
		return 0
	}
	return c.Registers[r]
}

// Ports exposes the pin-change monitor's port descriptors, for inspection.
func (c *CPU) Ports() [3]pcint.Port {
	return c.monitor.Ports()
}

// Memory returns the CPU's data memory bank.
func (c *CPU) Memory() *datamem.Memory { return c.mem }

// ProgramMemory returns the CPU's program memory bank.
func (c *CPU) ProgramMemory() *progmem.Memory { return c.prog }

// InterruptEnabled implements pcint.InterruptSink; it reports the global
// interrupt enable (SR bit I).
func (c *CPU) InterruptEnabled() bool {
	return bitops.Read(c.SR, alu.BitI)
}

// Fire implements pcint.InterruptSink: the pin-change monitor calls this
// when a masked pin transitions and interrupts are globally enabled.
func (c *CPU) Fire(vector byte, flagBit uint) {
	c.generateInterrupt(vector, flagBit)
}

// AdvanceState runs a single FETCH, DECODE, or EXECUTE step, then runs one
// pin-change monitor sampling pass.
func (c *CPU) AdvanceState() {
	switch c.State {
	case StateFetch:
		c.IR = c.prog.Read(c.PC)
		c.MAR = c.PC
		c.PC++
		c.State = StateDecode

	case StateDecode:
		c.OpCode = Opcode(c.IR >> 16)
		c.Op1 = byte(c.IR >> 8)
		c.Op2 = byte(c.IR)
		c.State = StateExecute

	case StateExecute:
		// Default completion state; RETI overrides this from its restored
		// context after the dispatch below runs.
		c.State = StateFetch
		c.execute()
	}

	c.monitor.Sample(c.mem, c)
}

// AdvanceInstruction repeatedly calls AdvanceState until an EXECUTE has
// just completed. State is then FETCH, except after RETI, which leaves the
// state restored from the interrupt context.
func (c *CPU) AdvanceInstruction() {
	for {
		prev := c.State
		c.AdvanceState()
		if prev == StateExecute {
			return
		}
	}
}
