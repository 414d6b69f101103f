package pitch

import "math"

// MaxNote is the highest MIDI note number.
const MaxNote = 127

var table [MaxNote + 1]float64

func init() {
	for n := range table {
		table[n] = 440 * math.Pow(2, float64(n-69)/12)
	}
}

// Clamp limits a note number to 0..127.
func Clamp(note int) uint8 {
	if note < 0 {
		return 0
	}
	if note > MaxNote {
		return MaxNote
	}
	return uint8(note)
}

// Frequency returns the equal-tempered frequency of note in Hz (A4 = note 69 = 440 Hz).
// Notes above 127 are clamped.
func Frequency(note uint8) float64 {
	if note > MaxNote {
		note = MaxNote
	}
	return table[note]
}
