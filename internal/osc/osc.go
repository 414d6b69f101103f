package osc

import (
	"math"

	"github.com/cbegin/minisynth-go/internal/controls"
	"github.com/cbegin/minisynth-go/internal/pitch"
)

// Waveform selects the oscillator shape shared by every voice.
type Waveform uint8

const (
	Sine Waveform = iota
	Triangle
	Saw
	Pulse
	Square
	NumWaveforms
)

var waveNames = [NumWaveforms]string{"sine", "triangle", "saw", "pulse", "square"}

func (w Waveform) String() string {
	if w >= NumWaveforms {
		return "unknown"
	}
	return waveNames[w]
}

// ParseWaveform returns the waveform with the given name.
func ParseWaveform(name string) (Waveform, bool) {
	for i, n := range waveNames {
		if n == name {
			return Waveform(i), true
		}
	}
	return 0, false
}

// SineTableSize is the number of entries in the sine lookup table.
const SineTableSize = 2048

var sineTable [SineTableSize]int16

func init() {
	for i := range sineTable {
		sineTable[i] = int16(math.Round(32767 * math.Sin(2*math.Pi*float64(i)/SineTableSize)))
	}
}

// SineAt returns the table entry for a 16-bit angle. No interpolation.
func SineAt(angle uint16) int16 {
	return sineTable[angle>>5]
}

// Render produces one sample for a 32-bit phase. The top 16 bits of the phase
// are the angle within the cycle.
func Render(phase uint32, w Waveform) int16 {
	angle := uint16(phase >> 16)
	switch w {
	case Sine:
		return SineAt(angle)
	case Triangle:
		if angle < 32768 {
			return int16(int32(angle)*2 - 32768)
		}
		return int16((65535-int32(angle))*2 - 32768)
	case Saw:
		return int16(int32(angle>>1) - 32768)
	case Pulse:
		if angle < 32768 {
			return 16384
		}
		return -16384
	default:
		if angle < 32768 {
			return 32767
		}
		return -32768
	}
}

// FromAnalog quantizes a 0..1023 knob reading into one of five equal bands.
func FromAnalog(value uint16) Waveform {
	const segment = controls.ADCMax / 5
	switch {
	case value < segment:
		return Sine
	case value < segment*2:
		return Triangle
	case value < segment*3:
		return Saw
	case value < segment*4:
		return Pulse
	default:
		return Square
	}
}

// AnalogFor returns a knob reading in the middle of the band that selects w.
func AnalogFor(w Waveform) uint16 {
	const segment = controls.ADCMax / 5
	if w >= NumWaveforms {
		w = Square
	}
	return uint16(w)*segment + segment/2
}

// NoteToIncrement converts a note number into the 32-bit phase step added once
// per audio sample: frequency * 2^32 / audioRate. Out-of-range notes are clamped
// and the result saturates instead of wrapping.
func NoteToIncrement(note uint8, audioRate int) uint32 {
	if audioRate <= 0 {
		return 0
	}
	inc := pitch.Frequency(note) * (4294967296.0 / float64(audioRate))
	if inc >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(inc)
}

// IncrementTable is a precomputed NoteToIncrement for every note.
type IncrementTable [pitch.MaxNote + 1]uint32

// NewIncrementTable builds the table for audioRate.
func NewIncrementTable(audioRate int) *IncrementTable {
	t := &IncrementTable{}
	for n := range t {
		t[n] = NoteToIncrement(uint8(n), audioRate)
	}
	return t
}

// Lookup returns the increment for note, clamping notes above 127.
func (t *IncrementTable) Lookup(note uint8) uint32 {
	if note > pitch.MaxNote {
		note = pitch.MaxNote
	}
	return t[note]
}
