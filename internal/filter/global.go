package filter

import "math"

// global filters the summed voices once per sample. The control tick writes
// the target coefficients; the audio path glides toward them.
type global struct {
	cfg     Config
	state   State
	f, q    float32
	fSmooth float32
	qSmooth float32
}

func newGlobal(cfg Config) *global {
	return &global{cfg: cfg}
}

func (g *global) SetParams(cutoffRaw, resonanceRaw uint16) {
	fc := CutoffHz(cutoffRaw, g.cfg.CutoffMinHz, g.cfg.CutoffMaxHz)
	g.f = Coefficient(fc, g.cfg.AudioRate)
	g.q = ResonanceFromAnalog(resonanceRaw, g.cfg.MaxResonance)
}

func (g *global) Voice(_ *State, _ uint8, in int32) int32 { return in }

func (g *global) Mix(mix int32) int16 {
	alpha := g.cfg.Smoothing
	g.fSmooth += alpha * (g.f - g.fSmooth)
	g.qSmooth += alpha * (g.q - g.qSmooth)
	out := g.state.Step(float32(mix), g.fSmooth, g.qSmooth)
	if math.IsNaN(float64(out)) || math.IsInf(float64(out), 0) {
		// A runaway resonance has overflowed the integrators.
		g.state.Reset()
		return 0
	}
	return int16(SoftClip(out))
}
