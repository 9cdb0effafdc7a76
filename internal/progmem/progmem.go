// Package progmem implements the simulator's program memory: a fixed-size,
// write-once indexed store of 32-bit encoded instruction words.
//
// It is populated once at boot by the assembler collaborator (see
// avrsim/internal/asm) and is read-only from the CPU's point of view
// thereafter — the simulator never supports self-modifying code.
package progmem

// AddressWidth is the number of addressable instruction slots.
const AddressWidth = 256

// Memory is a fixed-size, indexed store of 32-bit encoded instruction
// words. The zero value is a memory bank of all-NOP (0x000000) words.
type Memory struct {
	words [AddressWidth]uint32
}

// New returns an empty program memory bank.
func New() *Memory {
	return &Memory{}
}

// Write stores word at address. Addresses outside [0, AddressWidth) are
// silently ignored, mirroring the original source's assumption that this
// can never happen as long as the address width isn't increased.
func (m *Memory) Write(address byte, word uint32) {
	if int(address) >= AddressWidth {
		return
	}
	m.words[address] = word & 0x00FFFFFF
}

// Read returns the instruction word at address, or 0 (NOP-encoded) for an
// out-of-range address.
func (m *Memory) Read(address byte) uint32 {
	if int(address) >= AddressWidth {
		return 0
	}
	return m.words[address]
}

// Reset clears every instruction slot to 0x000000 (NOP).
func (m *Memory) Reset() {
	for i := range m.words {
		m.words[i] = 0
	}
}
