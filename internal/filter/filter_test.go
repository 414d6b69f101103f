package filter

import (
	"math"
	"testing"

	"github.com/cbegin/minisynth-go/internal/controls"
)

func TestStepChamberlinRecurrence(t *testing.T) {
	var st State
	// hp = 1000, band = 500, low = 250
	if got := st.Step(1000, 0.5, 0.5); got != 250 {
		t.Fatalf("first step = %v, want 250", got)
	}
	// hp = 1000 - 250 - 0.5*500 = 500, band = 750, low = 625
	if got := st.Step(1000, 0.5, 0.5); got != 625 {
		t.Fatalf("second step = %v, want 625", got)
	}
	if st.Band != 750 {
		t.Fatalf("band = %v, want 750", st.Band)
	}
	st.Reset()
	if st != (State{}) {
		t.Fatalf("reset left %+v", st)
	}
}

func TestStepZeroCoefficientBlocks(t *testing.T) {
	var st State
	for i := 0; i < 100; i++ {
		if got := st.Step(20000, 0, 0); got != 0 {
			t.Fatalf("Step with f=0 leaked %v", got)
		}
	}
}

func TestSoftClip(t *testing.T) {
	if got := SoftClip(0); got != 0 {
		t.Fatalf("SoftClip(0) = %v, want 0", got)
	}
	if got := SoftClip(32768); got != 16384 {
		t.Fatalf("SoftClip(32768) = %v, want 16384", got)
	}
	if got := SoftClip(-32768); got != -16384 {
		t.Fatalf("SoftClip(-32768) = %v, want -16384", got)
	}
	if got := SoftClip(1e12); got > 32767 || got < 32000 {
		t.Fatalf("SoftClip(1e12) = %v, want just under full scale", got)
	}
	if got := SoftClip(float32(math.NaN())); got != 0 {
		t.Fatalf("SoftClip(NaN) = %v, want 0", got)
	}
	prev := SoftClip(-40000)
	for x := float32(-40000); x <= 40000; x += 250 {
		y := SoftClip(x)
		if y < prev {
			t.Fatalf("SoftClip not monotonic at %v", x)
		}
		prev = y
	}
}

func TestCutoffMappingEndpoints(t *testing.T) {
	if got := CutoffHz(0, 80, 6000); math.Abs(got-80) > 1e-9 {
		t.Fatalf("cutoff(0) = %f, want 80", got)
	}
	if got := CutoffHz(controls.ADCMax, 80, 6000); math.Abs(got-6000) > 1e-6 {
		t.Fatalf("cutoff(max) = %f, want 6000", got)
	}
	if CutoffHz(5000, 80, 6000) != CutoffHz(controls.ADCMax, 80, 6000) {
		t.Fatalf("readings above full scale should clamp")
	}
	want := 2 * math.Sin(math.Pi*80/16384)
	if got := Coefficient(80, 16384); math.Abs(float64(got)-want) > 1e-6 {
		t.Fatalf("coefficient(80 Hz) = %f, want %f", got, want)
	}
}

func TestResonanceClamp(t *testing.T) {
	if got := ResonanceFromAnalog(0, 0.95); got != 0 {
		t.Fatalf("q(0) = %v", got)
	}
	if got := ResonanceFromAnalog(controls.ADCMax, 0.95); got != 0.95 {
		t.Fatalf("q(max) = %v, want 0.95", got)
	}
	if got := ResonanceFromAnalog(512, 0.95); math.Abs(float64(got)-512.0/1023) > 1e-6 {
		t.Fatalf("q(512) = %v", got)
	}
}

func TestNoteTableKeyTracking(t *testing.T) {
	tbl := NewNoteTable(DefaultConfig())
	if math.Abs(float64(tbl[0]-Coefficient(80, 16384))) > 1e-6 {
		t.Fatalf("note 0 coefficient = %v", tbl[0])
	}
	for n := 1; n < len(tbl); n++ {
		if tbl[n] < tbl[n-1] {
			t.Fatalf("table decreases at note %d", n)
		}
		if tbl[n] > maxNoteCoefficient {
			t.Fatalf("note %d coefficient %v above clamp", n, tbl[n])
		}
	}
	if tbl.Lookup(255) != tbl[127] {
		t.Fatalf("lookup should clamp note")
	}
}

func TestGlobalSettlesOnDC(t *testing.T) {
	f, err := New(Global, DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f.SetParams(800, controls.ADCMax)
	var out int16
	for i := 0; i < 4000; i++ {
		out = f.Mix(8192)
	}
	// 8192/32768 = 0.25 -> 0.25/1.25 = 0.2 -> 6553.6
	if out < 6552 || out > 6554 {
		t.Fatalf("settled output = %d, want ~6553", out)
	}
}

func TestGlobalSmoothsCoefficientSteps(t *testing.T) {
	f, err := New(Global, DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	g := f.(*global)
	g.SetParams(800, controls.ADCMax)
	g.Mix(0)
	if g.fSmooth >= g.f || g.fSmooth <= 0 {
		t.Fatalf("first sample f = %v, want a fraction of target %v", g.fSmooth, g.f)
	}
	if want := g.cfg.Smoothing * g.f; math.Abs(float64(g.fSmooth-want)) > 1e-7 {
		t.Fatalf("first sample f = %v, want %v", g.fSmooth, want)
	}
	for i := 0; i < 200; i++ {
		g.Mix(0)
	}
	if math.Abs(float64(g.fSmooth-g.f)) > 1e-5 || math.Abs(float64(g.qSmooth-g.q)) > 1e-5 {
		t.Fatalf("smoothing did not settle: f=%v/%v q=%v/%v", g.fSmooth, g.f, g.qSmooth, g.q)
	}
}

func TestGlobalZeroInputIsSilent(t *testing.T) {
	f, _ := New(Global, DefaultConfig())
	f.SetParams(600, 700)
	for i := 0; i < 100; i++ {
		if got := f.Mix(0); got != 0 {
			t.Fatalf("zero input produced %d", got)
		}
	}
}

func TestGlobalRecoversFromRunaway(t *testing.T) {
	f, _ := New(Global, DefaultConfig())
	// Full cutoff with heavy damping is outside the stable region of the recurrence.
	f.SetParams(controls.ADCMax, controls.ADCMax)
	for i := 0; i < 20000; i++ {
		f.Mix(32767)
	}
	g := f.(*global)
	if math.IsNaN(float64(g.state.Low)) || math.IsInf(float64(g.state.Low), 0) {
		t.Fatalf("integrator left non-finite: %v", g.state.Low)
	}
}

func TestGlobalVoicePassThrough(t *testing.T) {
	f, _ := New(Global, DefaultConfig())
	var st State
	if got := f.Voice(&st, 60, 1234); got != 1234 {
		t.Fatalf("global Voice = %d, want pass-through", got)
	}
	if st != (State{}) {
		t.Fatalf("global Voice touched voice state")
	}
}

func TestPerVoiceFiltersEachVoice(t *testing.T) {
	f, err := New(PerVoice, DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f.SetParams(0, controls.ADCMax)
	var a, b State
	var outA, outB int32
	for i := 0; i < 5000; i++ {
		outA = f.Voice(&a, 60, 10000)
		outB = f.Voice(&b, 100, -10000)
	}
	if outA < 9998 || outA > 10000 {
		t.Fatalf("voice A settled at %d, want ~10000", outA)
	}
	if outB > -9998 || outB < -10000 {
		t.Fatalf("voice B settled at %d, want ~-10000", outB)
	}
	if got := f.Mix(-32768); got != -32768 {
		t.Fatalf("per-voice Mix = %d, want pass-through", got)
	}
}

func TestPerVoiceFirstSampleUsesKeyTrackedCoefficient(t *testing.T) {
	f, _ := New(PerVoice, DefaultConfig())
	f.SetParams(controls.ADCMax, 0)
	var st State
	tbl := NewNoteTable(DefaultConfig())
	got := f.Voice(&st, 64, 10000)
	fc := tbl.Lookup(64)
	// band = f*in, low = f*band
	want := int32(fc * (fc * 10000))
	if got != want {
		t.Fatalf("first sample = %d, want %d", got, want)
	}
}

func TestOffPassesThrough(t *testing.T) {
	f, err := New(Off, DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f.SetParams(100, 100)
	var st State
	if f.Voice(&st, 1, -7) != -7 || f.Mix(32767) != 32767 {
		t.Fatalf("off topology altered the signal")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	for _, tc := range []struct {
		name string
		mod  func(*Config)
	}{
		{"rate", func(c *Config) { c.AudioRate = 0 }},
		{"range", func(c *Config) { c.CutoffMinHz = 7000 }},
		{"nyquist", func(c *Config) { c.CutoffMaxHz = 9000 }},
		{"smoothing", func(c *Config) { c.Smoothing = 0 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mod(&cfg)
			if _, err := New(Global, cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
	if _, err := New(Topology(9), DefaultConfig()); err == nil {
		t.Fatalf("expected error for unknown topology")
	}
}

func TestParseTopology(t *testing.T) {
	for _, top := range []Topology{Global, PerVoice, Off} {
		got, err := ParseTopology(top.String())
		if err != nil || got != top {
			t.Fatalf("ParseTopology(%q) = %v, %v", top.String(), got, err)
		}
	}
	if _, err := ParseTopology("ladder"); err == nil {
		t.Fatalf("expected error")
	}
}

func BenchmarkGlobalMix(b *testing.B) {
	f, _ := New(Global, DefaultConfig())
	f.SetParams(700, 900)
	for i := 0; i < b.N; i++ {
		f.Mix(int32(i%65536 - 32768))
	}
}
