package cpu

import (
	"avrsim/internal/alu"
	"avrsim/internal/bitops"
)

// execute dispatches on c.OpCode, carrying out the latched instruction.
// Unknown opcodes trigger a full reset — a catastrophic program-bug
// signal, not a recoverable fault.
func (c *CPU) execute() {
	switch c.OpCode {
	case OpNOP:
		// no effect

	case OpLDI:
		c.setReg(c.Op1, c.Op2)

	case OpMOV:
		c.setReg(c.Op1, c.reg(c.Op2))

	case OpOUT:
		c.mem.Write(dmAddr(c.Op1), c.reg(c.Op2))

	case OpIN:
		c.setReg(c.Op1, c.mem.Read(dmAddr(c.Op2)))

	case OpSTS:
		c.mem.Write(dmAddr(c.Op1), c.reg(c.Op2))
		if c.Op2 < RegisterCount-1 {
			c.mem.Write(dmAddr(c.Op1)+1, c.reg(c.Op2+1))
		}

	case OpLDS:
		c.setReg(c.Op1, c.mem.Read(dmAddr(c.Op2)))
		if c.Op1 < RegisterCount-1 {
			c.setReg(c.Op1+1, c.mem.Read(dmAddr(c.Op2)+1))
		}

	case OpCLR:
		c.setReg(c.Op1, 0)

	case OpORI:
		c.setReg(c.Op1, alu.Compute(alu.OpOR, c.reg(c.Op1), c.Op2, &c.SR))
	case OpANDI:
		c.setReg(c.Op1, alu.Compute(alu.OpAND, c.reg(c.Op1), c.Op2, &c.SR))
	case OpXORI:
		c.setReg(c.Op1, alu.Compute(alu.OpXOR, c.reg(c.Op1), c.Op2, &c.SR))

	case OpOR:
		c.setReg(c.Op1, alu.Compute(alu.OpOR, c.reg(c.Op1), c.reg(c.Op2), &c.SR))
	case OpAND:
		c.setReg(c.Op1, alu.Compute(alu.OpAND, c.reg(c.Op1), c.reg(c.Op2), &c.SR))
	case OpXOR:
		c.setReg(c.Op1, alu.Compute(alu.OpXOR, c.reg(c.Op1), c.reg(c.Op2), &c.SR))

	case OpADDI:
		c.setReg(c.Op1, alu.Compute(alu.OpADD, c.reg(c.Op1), c.Op2, &c.SR))
	case OpSUBI:
		c.setReg(c.Op1, alu.Compute(alu.OpSUB, c.reg(c.Op1), c.Op2, &c.SR))

	case OpADD:
		c.setReg(c.Op1, alu.Compute(alu.OpADD, c.reg(c.Op1), c.reg(c.Op2), &c.SR))
	case OpSUB:
		c.setReg(c.Op1, alu.Compute(alu.OpSUB, c.reg(c.Op1), c.reg(c.Op2), &c.SR))

	case OpINC:
		c.setReg(c.Op1, alu.Compute(alu.OpINC, c.reg(c.Op1), 0, &c.SR))
	case OpDEC:
		c.setReg(c.Op1, alu.Compute(alu.OpDEC, c.reg(c.Op1), 0, &c.SR))

	case OpLSL:
		c.setReg(c.Op1, alu.Compute(alu.OpLSL, c.reg(c.Op1), 0, &c.SR))
	case OpLSR:
		c.setReg(c.Op1, alu.Compute(alu.OpLSR, c.reg(c.Op1), 0, &c.SR))

	case OpCPI:
		alu.Compare(c.reg(c.Op1), c.Op2, &c.SR)
	case OpCP:
		alu.Compare(c.reg(c.Op1), c.reg(c.Op2), &c.SR)

	case OpJMP:
		c.PC = c.Op1

	case OpBREQ:
		if c.equal() {
			c.PC = c.Op1
		}
	case OpBRNE:
		if !c.equal() {
			c.PC = c.Op1
		}
	case OpBRGE:
		if !c.lower() {
			c.PC = c.Op1
		}
	case OpBRGT:
		if c.greater() {
			c.PC = c.Op1
		}
	case OpBRLE:
		if !c.greater() {
			c.PC = c.Op1
		}
	case OpBRLT:
		if c.lower() {
			c.PC = c.Op1
		}

	case OpCALL:
		c.stack.Push(c.PC)
		c.PC = c.Op1

	case OpRET:
		ret, _ := c.stack.Pop()
		c.PC = ret

	case OpRETI:
		c.returnFromInterrupt()

	case OpPUSH:
		c.stack.Push(c.reg(c.Op1))

	case OpPOP:
		v, _ := c.stack.Pop()
		c.setReg(c.Op1, v)

	case OpSEI:
		c.SR = bitops.Set(c.SR, alu.BitI)
	case OpCLI:
		c.SR = bitops.Clear(c.SR, alu.BitI)

	default:
		c.Reset()
	}
}

func dmAddr(b byte) uint16 { return uint16(b) }

func (c *CPU) reg(r byte) byte { return c.Register(r) }

func (c *CPU) setReg(r, v byte) {
	if int(r) >= RegisterCount {
		return
	}
	c.Registers[r] = v
}

// Branch predicates, derived only from SR. Signed ordering uses a
// simplified scheme where N alone marks "less than" rather than the usual
// N xor V convention; this is deliberate, not an oversight — see
// TestLowerIsNAlone in branch_test.go for the worked example that pins it
// down.
func (c *CPU) equal() bool   { return bitops.Read(c.SR, alu.BitZ) }
func (c *CPU) lower() bool   { return bitops.Read(c.SR, alu.BitN) }
func (c *CPU) greater() bool { return !c.equal() && !c.lower() }
