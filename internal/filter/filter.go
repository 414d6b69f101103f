package filter

import (
	"math"

	"github.com/pkg/errors"

	"github.com/cbegin/minisynth-go/internal/controls"
)

// Topology selects where the state-variable filter sits in the signal chain.
type Topology int

const (
	// Global filters the post-mix signal with audio-rate smoothed coefficients
	// and a soft clip on the output.
	Global Topology = iota
	// PerVoice filters each voice before mixing, with key-tracked cutoff and
	// unsmoothed resonance.
	PerVoice
	// Off passes the clamped mix straight through.
	Off
)

func (t Topology) String() string {
	switch t {
	case Global:
		return "global"
	case PerVoice:
		return "voice"
	case Off:
		return "off"
	default:
		return "unknown"
	}
}

// ParseTopology returns the topology with the given name.
func ParseTopology(name string) (Topology, error) {
	switch name {
	case "global":
		return Global, nil
	case "voice":
		return PerVoice, nil
	case "off":
		return Off, nil
	}
	return 0, errors.Errorf("unknown filter topology %q (expected global|voice|off)", name)
}

// Filter is one topology. SetParams runs at control rate; Voice and Mix run
// at audio rate and must not allocate.
type Filter interface {
	// SetParams recomputes cutoff and resonance from two knob readings.
	SetParams(cutoffRaw, resonanceRaw uint16)
	// Voice filters one voice sample. st is that voice's accumulator pair.
	Voice(st *State, note uint8, in int32) int32
	// Mix turns the clamped post-mix signal into the output sample.
	Mix(mix int32) int16
}

// Config holds the coefficient mapping shared by all topologies.
type Config struct {
	AudioRate    int
	CutoffMinHz  float64
	CutoffMaxHz  float64
	MaxResonance float32
	// Smoothing is the one-pole coefficient applied per audio sample to the
	// global topology's f and q.
	Smoothing float32
}

// DefaultConfig returns the 80 Hz..6 kHz mapping at 16384 Hz.
func DefaultConfig() Config {
	return Config{
		AudioRate:    16384,
		CutoffMinHz:  80,
		CutoffMaxHz:  6000,
		MaxResonance: 0.95,
		Smoothing:    0.2,
	}
}

func (c Config) validate() error {
	if c.AudioRate <= 0 {
		return errors.New("filter audio rate must be positive")
	}
	if c.CutoffMinHz <= 0 || c.CutoffMaxHz < c.CutoffMinHz {
		return errors.Errorf("invalid cutoff range %.1f..%.1f Hz", c.CutoffMinHz, c.CutoffMaxHz)
	}
	if c.CutoffMaxHz >= float64(c.AudioRate)/2 {
		return errors.Errorf("cutoff %.1f Hz is not below Nyquist for %d Hz", c.CutoffMaxHz, c.AudioRate)
	}
	if c.Smoothing <= 0 || c.Smoothing > 1 {
		return errors.Errorf("smoothing coefficient %.3f outside (0,1]", c.Smoothing)
	}
	return nil
}

// New builds the strategy for t.
func New(t Topology, cfg Config) (Filter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	switch t {
	case Global:
		return newGlobal(cfg), nil
	case PerVoice:
		return newPerVoice(cfg), nil
	case Off:
		return bypass{}, nil
	}
	return nil, errors.Errorf("unknown filter topology %d", int(t))
}

// State is the pair of integrators of one two-pole state-variable filter.
type State struct {
	Low  float32
	Band float32
}

// Step runs one sample through the Chamberlin recurrence and returns the lowpass output.
func (s *State) Step(in, f, q float32) float32 {
	hp := in - s.Low - q*s.Band
	s.Band += f * hp
	s.Low += f * s.Band
	return s.Low
}

// Reset clears both integrators.
func (s *State) Reset() {
	s.Low = 0
	s.Band = 0
}

// SoftClip compresses a sample in 16-bit units with x/(1+|x|) on the
// normalized value and clamps the result to the signed 16-bit range.
func SoftClip(x float32) float32 {
	const scale = 1.0 / 32768.0
	n := x * scale
	abs := n
	if abs < 0 {
		abs = -abs
	}
	y := (n / (1 + abs)) / scale
	return clampSample(y)
}

func clampSample(x float32) float32 {
	if x != x {
		return 0
	}
	if x > 32767 {
		return 32767
	}
	if x < -32768 {
		return -32768
	}
	return x
}

// CutoffHz maps a knob reading exponentially onto [minHz, maxHz].
func CutoffHz(raw uint16, minHz, maxHz float64) float64 {
	if raw > controls.ADCMax {
		raw = controls.ADCMax
	}
	return minHz * math.Pow(maxHz/minHz, float64(raw)/controls.ADCMax)
}

// Coefficient converts a cutoff frequency into the SVF frequency coefficient
// f = 2*sin(pi*fc/fs).
func Coefficient(fc float64, audioRate int) float32 {
	return float32(2 * math.Sin(math.Pi*fc/float64(audioRate)))
}

// ResonanceFromAnalog maps a knob reading onto [0, maxQ].
func ResonanceFromAnalog(raw uint16, maxQ float32) float32 {
	q := float32(raw) / controls.ADCMax
	if q < 0 {
		return 0
	}
	if q > maxQ {
		return maxQ
	}
	return q
}

type bypass struct{}

func (bypass) SetParams(uint16, uint16) {}

func (bypass) Voice(_ *State, _ uint8, in int32) int32 { return in }

func (bypass) Mix(mix int32) int16 { return int16(mix) }
