package osc

import (
	"math"
	"testing"
)

func TestNoteToIncrementMonotonic(t *testing.T) {
	prev := uint32(0)
	for n := 0; n <= 127; n++ {
		inc := NoteToIncrement(uint8(n), 16384)
		if inc < prev {
			t.Fatalf("increment for note %d (%d) below note %d (%d)", n, inc, n-1, prev)
		}
		prev = inc
	}
	if prev == math.MaxUint32 {
		t.Fatalf("note 127 saturated at 16384 Hz")
	}
}

func TestNoteToIncrementA4(t *testing.T) {
	// 440 * 2^32 / 16384 = 440 * 262144
	if got, want := NoteToIncrement(69, 16384), uint32(440*262144); got != want {
		t.Fatalf("A4 increment = %d, want %d", got, want)
	}
}

func TestNoteToIncrementSaturates(t *testing.T) {
	if got := NoteToIncrement(127, 1000); got != math.MaxUint32 {
		t.Fatalf("increment = %d, want saturation", got)
	}
	if got := NoteToIncrement(60, 0); got != 0 {
		t.Fatalf("zero rate increment = %d, want 0", got)
	}
}

func TestIncrementTableClamps(t *testing.T) {
	tbl := NewIncrementTable(16384)
	if tbl.Lookup(200) != tbl.Lookup(127) {
		t.Fatalf("note 200 not clamped to 127")
	}
	if tbl.Lookup(60) != NoteToIncrement(60, 16384) {
		t.Fatalf("table disagrees with NoteToIncrement")
	}
}

func TestSquareIndependentOfPhaseSource(t *testing.T) {
	for _, phase := range []uint32{0, 1, 0x7FFF_FFFF, 0x7FFF_0000, 0x8000_0000, 0xFFFF_FFFF, 0x1234_5678, 0xC000_0000} {
		angle := phase >> 16
		want := int16(-32768)
		if angle < 32768 {
			want = 32767
		}
		for i := 0; i < 3; i++ {
			if got := Render(phase, Square); got != want {
				t.Fatalf("square(%#x) = %d, want %d", phase, got, want)
			}
		}
	}
}

func TestWaveformBreakpoints(t *testing.T) {
	for _, tc := range []struct {
		name  string
		w     Waveform
		angle uint32
		want  int16
	}{
		{"tri start", Triangle, 0, -32768},
		{"tri quarter", Triangle, 16384, 0},
		{"tri top", Triangle, 32767, 32766},
		{"tri half", Triangle, 32768, 32766},
		{"tri end", Triangle, 65535, -32768},
		{"saw start", Saw, 0, -32768},
		{"saw end", Saw, 65535, -1},
		{"pulse high", Pulse, 100, 16384},
		{"pulse low", Pulse, 40000, -16384},
		{"sine zero", Sine, 0, 0},
		{"sine peak", Sine, 16384, 32767},
		{"sine trough", Sine, 49152, -32767},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tc.angle<<16, tc.w); got != tc.want {
				t.Fatalf("Render(%d, %v) = %d, want %d", tc.angle, tc.w, got, tc.want)
			}
		})
	}
}

func TestSawMonotonicWithinCycle(t *testing.T) {
	prev := Render(0, Saw)
	for a := uint32(1); a < 65536; a++ {
		s := Render(a<<16, Saw)
		if s < prev {
			t.Fatalf("saw decreased at angle %d", a)
		}
		prev = s
	}
}

func TestSineIgnoresLowAngleBits(t *testing.T) {
	if SineAt(0x1000) != SineAt(0x101F) {
		t.Fatalf("angles within one table slot should share a sample")
	}
}

func TestFromAnalogBands(t *testing.T) {
	for _, tc := range []struct {
		v    uint16
		want Waveform
	}{
		{0, Sine},
		{203, Sine},
		{204, Triangle},
		{407, Triangle},
		{408, Saw},
		{612, Pulse},
		{815, Pulse},
		{816, Square},
		{1023, Square},
	} {
		if got := FromAnalog(tc.v); got != tc.want {
			t.Errorf("FromAnalog(%d) = %v, want %v", tc.v, got, tc.want)
		}
	}
	for w := Sine; w < NumWaveforms; w++ {
		if got := FromAnalog(AnalogFor(w)); got != w {
			t.Errorf("AnalogFor(%v) selects %v", w, got)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	phase := uint32(0)
	for i := 0; i < b.N; i++ {
		_ = Render(phase, Waveform(i%int(NumWaveforms)))
		phase += 0x0123_4567
	}
}
