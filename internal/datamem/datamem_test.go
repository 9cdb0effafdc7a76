package datamem

import (
	"errors"
	"testing"
)

func TestWriteRead(t *testing.T) {
	m := New()
	if err := m.Write(PORTB, 0x5A); err != nil {
		t.Fatalf("Write(PORTB) returned error: %v", err)
	}
	if got := m.Read(PORTB); got != 0x5A {
		t.Fatalf("Read(PORTB) = 0x%02X, want 0x5A", got)
	}
}

func TestReadOutOfRangeReturnsZero(t *testing.T) {
	m := New()
	if got := m.Read(AddressWidth); got != 0 {
		t.Fatalf("Read out of range = 0x%02X, want 0", got)
	}
}

func TestWriteOutOfRangeRejected(t *testing.T) {
	m := New()
	err := m.Write(AddressWidth, 0xFF)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Write out of range: got err %v, want ErrOutOfRange", err)
	}
}

func TestReset(t *testing.T) {
	m := New()
	m.Write(DDRB, 0xFF)
	m.Reset()
	if got := m.Read(DDRB); got != 0 {
		t.Fatalf("after Reset, Read(DDRB) = 0x%02X, want 0", got)
	}
}
