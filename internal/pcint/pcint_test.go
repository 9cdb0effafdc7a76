package pcint

import (
	"testing"

	"avrsim/internal/datamem"
)

type stubSink struct {
	enabled bool
	fired   []struct {
		vector  byte
		flagBit uint
	}
}

func (s *stubSink) InterruptEnabled() bool { return s.enabled }

func (s *stubSink) Fire(vector byte, flagBit uint) {
	s.fired = append(s.fired, struct {
		vector  byte
		flagBit uint
	}{vector, flagBit})
}

func TestSampleSetsFlagWithoutFiringWhenGlobalDisabled(t *testing.T) {
	mem := datamem.New()
	mem.Write(datamem.PCMSK0, 1<<5)
	mon := New()

	mem.Write(datamem.PINB, 1<<5)
	sink := &stubSink{enabled: false}
	mon.Sample(mem, sink)

	if len(sink.fired) != 0 {
		t.Fatalf("interrupt fired with global I disabled, want none")
	}
	if pcifr := mem.Read(datamem.PCIFR); pcifr&(1<<datamem.PCIF0) == 0 {
		t.Fatalf("PCIFR bit PCIF0 not set despite masked pin change")
	}
}

func TestSampleFiresWhenMaskedAndEnabled(t *testing.T) {
	mem := datamem.New()
	mem.Write(datamem.PCMSK0, 1<<5)
	mon := New()

	mem.Write(datamem.PINB, 1<<5)
	sink := &stubSink{enabled: true}
	mon.Sample(mem, sink)

	if len(sink.fired) != 1 {
		t.Fatalf("got %d fires, want 1", len(sink.fired))
	}
	if sink.fired[0].vector != PCINT0Vect || sink.fired[0].flagBit != datamem.PCIF0 {
		t.Fatalf("fired with (vector=%d, flagBit=%d), want (%d, %d)",
			sink.fired[0].vector, sink.fired[0].flagBit, PCINT0Vect, datamem.PCIF0)
	}
}

func TestSampleIgnoresUnmaskedChange(t *testing.T) {
	mem := datamem.New()
	mon := New()

	mem.Write(datamem.PINB, 1<<2)
	sink := &stubSink{enabled: true}
	mon.Sample(mem, sink)

	if len(sink.fired) != 0 {
		t.Fatalf("unmasked pin change fired an interrupt")
	}
	if pcifr := mem.Read(datamem.PCIFR); pcifr != 0 {
		t.Fatalf("PCIFR changed for unmasked pin, got 0x%02X", pcifr)
	}
}

func TestSampleNoOpWhenPinUnchanged(t *testing.T) {
	mem := datamem.New()
	mem.Write(datamem.PCMSK0, 0xFF)
	mon := New()
	sink := &stubSink{enabled: true}

	mon.Sample(mem, sink)
	if len(sink.fired) != 0 {
		t.Fatalf("fired on first sample with PIN at 0, want none")
	}

	mon.Sample(mem, sink)
	if len(sink.fired) != 0 {
		t.Fatalf("fired on unchanged PIN, want none")
	}
}

func TestSampleEvaluatesMultipleChangedBitsInOrder(t *testing.T) {
	mem := datamem.New()
	mem.Write(datamem.PCMSK0, 0xFF)
	mon := New()

	mem.Write(datamem.PINB, 0x05) // bits 0 and 2
	sink := &stubSink{enabled: true}
	mon.Sample(mem, sink)

	if len(sink.fired) != 2 {
		t.Fatalf("got %d fires, want 2", len(sink.fired))
	}
}

func TestResetClearsLastValue(t *testing.T) {
	mem := datamem.New()
	mem.Write(datamem.PCMSK0, 0xFF)
	mon := New()

	mem.Write(datamem.PINB, 0x01)
	mon.Sample(mem, &stubSink{enabled: false})
	mon.Reset()

	// After Reset, LastValue is back to 0 even though PINB still reads 0x01,
	// so the next sample must detect a change again.
	sink := &stubSink{enabled: true}
	mon.Sample(mem, sink)
	if len(sink.fired) != 1 {
		t.Fatalf("got %d fires after Reset, want 1 (change re-detected)", len(sink.fired))
	}
}
