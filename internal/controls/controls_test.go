package controls

import (
	"sync"
	"testing"
)

func TestMapRangeMatchesEnvelopeRanges(t *testing.T) {
	for _, tc := range []struct {
		x, outMin, outMax, want int32
	}{
		{0, 256, 4096, 256},
		{ADCMax, 256, 4096, 4096},
		{512, 256, 4096, 2177},
		{0, 128, 2048, 128},
		{ADCMax, 128, 2048, 2048},
		{100, 128, 2048, 315},
	} {
		if got := MapRange(tc.x, 0, ADCMax, tc.outMin, tc.outMax); got != tc.want {
			t.Errorf("MapRange(%d, 0, %d, %d, %d) = %d, want %d", tc.x, ADCMax, tc.outMin, tc.outMax, got, tc.want)
		}
	}
}

func TestMapRangeDegenerateInput(t *testing.T) {
	if got := MapRange(5, 3, 3, 10, 20); got != 10 {
		t.Fatalf("degenerate range = %d, want 10", got)
	}
}

func TestPanelClampsAndDefaults(t *testing.T) {
	p := NewPanel()
	if got := p.Read(Cutoff); got != DefaultCutoff {
		t.Fatalf("default cutoff = %d, want %d", got, DefaultCutoff)
	}
	if got := p.Read(Resonance); got != ADCMax {
		t.Fatalf("default resonance = %d, want %d", got, ADCMax)
	}
	p.Set(Attack, 5000)
	if got := p.Read(Attack); got != ADCMax {
		t.Fatalf("attack = %d, want clamp to %d", got, ADCMax)
	}
	p.Set(NumInputs, 10)
	if got := p.Read(NumInputs); got != 0 {
		t.Fatalf("out-of-range input read = %d, want 0", got)
	}
}

func TestParseInputRoundTripsNames(t *testing.T) {
	for in := Input(0); in < NumInputs; in++ {
		got, ok := ParseInput(in.String())
		if !ok || got != in {
			t.Errorf("ParseInput(%q) = %v,%v", in.String(), got, ok)
		}
	}
	if _, ok := ParseInput("volume"); ok {
		t.Fatalf("unexpected input for volume")
	}
}

func TestKeysConcurrentPresses(t *testing.T) {
	var k Keys
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k.Press(i)
		}(i)
	}
	wg.Wait()
	for i := 0; i < 8; i++ {
		if !k.Pressed(i) {
			t.Fatalf("key %d not pressed", i)
		}
	}
	k.Lift(3)
	if k.Pressed(3) {
		t.Fatalf("key 3 still pressed after Lift")
	}
	if !k.Toggle(3) || k.Toggle(3) {
		t.Fatalf("toggle did not alternate")
	}
	if k.Pressed(40) {
		t.Fatalf("out-of-range key reported pressed")
	}
}
