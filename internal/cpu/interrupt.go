package cpu

import (
	"avrsim/internal/alu"
	"avrsim/internal/bitops"
	"avrsim/internal/datamem"
)

// generateInterrupt implements interrupt entry. It clears the global
// interrupt enable, pushes the full context in the exact order the exit
// path (RETI) expects to pop it, and jumps to vector. State is not forced
// to FETCH here; the next FETCH happens on the following AdvanceState tick
// regardless of what state this was called from.
func (c *CPU) generateInterrupt(vector byte, flagBit uint) {
	c.SR = bitops.Clear(c.SR, alu.BitI)

	c.stack.Push(c.PC)
	c.stack.Push(c.MAR)
	c.stack.Push(c.SR)
	c.stack.Push(byte(c.IR >> 16))
	c.stack.Push(byte(c.IR >> 8))
	c.stack.Push(byte(c.IR))
	c.stack.Push(byte(c.OpCode))
	c.stack.Push(c.Op1)
	c.stack.Push(c.Op2)
	c.stack.Push(byte(c.State))
	c.stack.Push(byte(flagBit))

	for i := 0; i < RegisterCount; i++ {
		c.stack.Push(c.Registers[i])
	}

	c.InterruptSource = vector
	c.PC = vector
}

// returnFromInterrupt implements RETI: pop the context generateInterrupt
// pushed, in reverse order, clear the originating PCIFR flag bit, and set
// the global interrupt enable.
func (c *CPU) returnFromInterrupt() {
	for i := RegisterCount - 1; i >= 0; i-- {
		v, _ := c.stack.Pop()
		c.Registers[i] = v
	}

	flagBit, _ := c.stack.Pop()
	state, _ := c.stack.Pop()
	op2, _ := c.stack.Pop()
	op1, _ := c.stack.Pop()
	opCode, _ := c.stack.Pop()
	irLow, _ := c.stack.Pop()
	irMid, _ := c.stack.Pop()
	irHigh, _ := c.stack.Pop()
	sr, _ := c.stack.Pop()
	mar, _ := c.stack.Pop()
	pc, _ := c.stack.Pop()

	c.State = State(state)
	c.Op2 = op2
	c.Op1 = op1
	c.OpCode = Opcode(opCode)
	c.IR = uint32(irHigh)<<16 | uint32(irMid)<<8 | uint32(irLow)
	c.SR = sr
	c.MAR = mar
	c.PC = pc

	pcifr := c.mem.Read(datamem.PCIFR)
	pcifr = bitops.Clear(pcifr, uint(flagBit))
	c.mem.Write(datamem.PCIFR, pcifr)

	c.SR = bitops.Set(c.SR, alu.BitI)
}
