package voice

import "testing"

func TestAttackClampsAtCeiling(t *testing.T) {
	v := Voice{Active: true, Stage: Attack}
	for tick := 1; tick <= 8; tick++ {
		v.StepEnvelope(4096, 2048)
		if tick < 8 {
			if v.Stage != Attack || v.Envelope != int32(tick*4096) {
				t.Fatalf("tick %d: stage %v env %d", tick, v.Stage, v.Envelope)
			}
			continue
		}
		if v.Stage != Sustain || v.Envelope != EnvelopeMax {
			t.Fatalf("tick 8: stage %v env %d, want sustain at %d", v.Stage, v.Envelope, EnvelopeMax)
		}
	}
}

func TestSustainHolds(t *testing.T) {
	v := Voice{Active: true, Stage: Sustain, Envelope: EnvelopeMax}
	for i := 0; i < 100; i++ {
		v.StepEnvelope(4096, 2048)
	}
	if v.Stage != Sustain || v.Envelope != EnvelopeMax || !v.Active {
		t.Fatalf("sustain drifted: %+v", v)
	}
}

func TestReleaseDeactivatesAtZero(t *testing.T) {
	p := NewPool(1)
	v := p.Allocate()
	p.Init(v, 60, 100, 1)
	v.Envelope = EnvelopeMax
	v.Stage = Sustain
	v.Release()
	for tick := 1; tick <= 16; tick++ {
		v.StepEnvelope(4096, 2048)
		if tick < 16 {
			if !v.Active || v.Envelope != int32(EnvelopeMax-tick*2048) {
				t.Fatalf("tick %d: active %v env %d", tick, v.Active, v.Envelope)
			}
			continue
		}
		if v.Active || v.Envelope != 0 || v.Stage != Idle {
			t.Fatalf("tick 16: %+v, want idle and inactive", *v)
		}
	}
	if got := p.Allocate(); got != v {
		t.Fatalf("released voice not reusable")
	}
}

func TestIdleIsNoOp(t *testing.T) {
	v := Voice{}
	v.StepEnvelope(4096, 2048)
	if v != (Voice{}) {
		t.Fatalf("idle voice changed: %+v", v)
	}
}

func TestPortamentoShift(t *testing.T) {
	for _, tc := range []struct {
		name            string
		current, target uint32
		want            uint32
	}{
		{"up", 1000, 2600, 1100},
		{"down", 2600, 1000, 2500},
		{"down floors", 1000, 999, 999},
		{"small up truncates", 1000, 1015, 1000},
		{"settled", 5000, 5000, 5000},
		{"large", 0, 0xFFFF_FFF0, 0x0FFF_FFFF},
		{"large down", 0xFFFF_FFF0, 0, 0xEFFF_FFF1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v := Voice{Increment: tc.current, TargetIncrement: tc.target}
			v.StepPortamento(4)
			if v.Increment != tc.want {
				t.Fatalf("increment = %#x, want %#x", v.Increment, tc.want)
			}
		})
	}
}

func TestPortamentoConverges(t *testing.T) {
	v := Voice{Increment: 0, TargetIncrement: 1 << 20}
	for i := 0; i < 4; i++ {
		v.StepPortamento(4)
	}
	// 1 - (15/16)^4 is about 22.8% of the distance.
	if v.Increment == 0 || v.Increment >= 1<<20 {
		t.Fatalf("increment = %d", v.Increment)
	}
	for i := 0; i < 400; i++ {
		v.StepPortamento(4)
	}
	if d := int64(v.TargetIncrement) - int64(v.Increment); d < 0 || d > 15 {
		t.Fatalf("glide stalled %d units away", d)
	}
}
