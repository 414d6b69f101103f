package minisynth

import (
	"github.com/pkg/errors"

	"github.com/cbegin/minisynth-go/internal/filter"
)

// Params holds the fixed configuration of a Synth. It is read once by New.
type Params struct {
	Voices      int
	AudioRate   int
	ControlRate int
	// PortamentoShift sets the glide speed; each control tick closes
	// 1/2^PortamentoShift of the remaining distance.
	PortamentoShift uint

	Topology filter.Topology

	// Envelope step ranges per control tick, mapped from the 0..1023 knobs.
	AttackMin, AttackMax   int32
	ReleaseMin, ReleaseMax int32

	CutoffMinHz, CutoffMaxHz float64
	MaxResonance             float32
	Smoothing                float32

	// KeyNotes are the notes played by the direct keyboard, one per key.
	KeyNotes []uint8
}

func DefaultParams() Params {
	return Params{
		Voices:          4,
		AudioRate:       16384,
		ControlRate:     64,
		PortamentoShift: 4,
		Topology:        defaultTopology,
		AttackMin:       256,
		AttackMax:       4096,
		ReleaseMin:      128,
		ReleaseMax:      2048,
		CutoffMinHz:     80,
		CutoffMaxHz:     6000,
		MaxResonance:    0.95,
		Smoothing:       0.2,
		KeyNotes:        []uint8{60, 62, 64, 65, 67},
	}
}

// Ratio is the number of audio ticks per control tick.
func (p Params) Ratio() int {
	if p.ControlRate <= 0 {
		return 0
	}
	return p.AudioRate / p.ControlRate
}

func (p Params) filterConfig() filter.Config {
	return filter.Config{
		AudioRate:    p.AudioRate,
		CutoffMinHz:  p.CutoffMinHz,
		CutoffMaxHz:  p.CutoffMaxHz,
		MaxResonance: p.MaxResonance,
		Smoothing:    p.Smoothing,
	}
}

// Validate reports the first invalid field.
func (p Params) Validate() error {
	switch {
	case p.Voices < 1:
		return errors.Errorf("voices must be at least 1, got %d", p.Voices)
	case p.AudioRate <= 0:
		return errors.Errorf("audio rate must be positive, got %d", p.AudioRate)
	case p.ControlRate <= 0:
		return errors.Errorf("control rate must be positive, got %d", p.ControlRate)
	case p.ControlRate > p.AudioRate || p.AudioRate%p.ControlRate != 0:
		return errors.Errorf("audio rate %d is not a multiple of control rate %d", p.AudioRate, p.ControlRate)
	case p.PortamentoShift > 31:
		return errors.Errorf("portamento shift %d out of range", p.PortamentoShift)
	case p.AttackMin <= 0 || p.AttackMax < p.AttackMin:
		return errors.Errorf("bad attack range %d..%d", p.AttackMin, p.AttackMax)
	case p.ReleaseMin <= 0 || p.ReleaseMax < p.ReleaseMin:
		return errors.Errorf("bad release range %d..%d", p.ReleaseMin, p.ReleaseMax)
	case len(p.KeyNotes) > 32:
		return errors.Errorf("at most 32 key notes, got %d", len(p.KeyNotes))
	}
	for _, n := range p.KeyNotes {
		if n > 127 {
			return errors.Errorf("key note %d out of range", n)
		}
	}
	return nil
}
