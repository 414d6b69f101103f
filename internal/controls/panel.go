package controls

import "sync/atomic"

// ADCMax is the full-scale reading of a 10-bit analog input.
const ADCMax = 1023

// Default filter knob positions. The resonance knob sets damping, so full scale
// is the least resonant setting.
const (
	DefaultCutoff    = 800
	DefaultResonance = ADCMax
)

// Input names one analog control.
type Input int

const (
	WaveformSelect Input = iota
	Attack
	Release
	Cutoff
	Resonance
	NumInputs
)

var inputNames = [NumInputs]string{"wave", "attack", "release", "cutoff", "resonance"}

func (in Input) String() string {
	if in < 0 || in >= NumInputs {
		return "unknown"
	}
	return inputNames[in]
}

// ParseInput returns the Input with the given name.
func ParseInput(name string) (Input, bool) {
	for i, n := range inputNames {
		if n == name {
			return Input(i), true
		}
	}
	return 0, false
}

// Reader supplies one 0..1023 reading per analog input.
type Reader interface {
	Read(in Input) uint16
}

// Panel is a Reader whose values may be set from any goroutine.
// Reads are lock-free so the control tick never blocks on a UI writer.
type Panel struct {
	values [NumInputs]atomic.Uint32
}

// NewPanel returns a panel at the default knob positions: sine wave, medium attack
// and release, cutoff near 1 kHz with the resonance knob fully damped.
func NewPanel() *Panel {
	p := &Panel{}
	p.Set(WaveformSelect, 0)
	p.Set(Attack, 512)
	p.Set(Release, 512)
	p.Set(Cutoff, DefaultCutoff)
	p.Set(Resonance, DefaultResonance)
	return p
}

// Set stores a reading, clamped to ADCMax. Unknown inputs are ignored.
func (p *Panel) Set(in Input, value uint16) {
	if in < 0 || in >= NumInputs {
		return
	}
	if value > ADCMax {
		value = ADCMax
	}
	p.values[in].Store(uint32(value))
}

func (p *Panel) Read(in Input) uint16 {
	if in < 0 || in >= NumInputs {
		return 0
	}
	return uint16(p.values[in].Load())
}

// MapRange linearly maps x from [inMin,inMax] to [outMin,outMax] with integer
// division truncating toward zero.
func MapRange(x, inMin, inMax, outMin, outMax int32) int32 {
	if inMax == inMin {
		return outMin
	}
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
