package filter

import (
	"math"

	"github.com/cbegin/minisynth-go/internal/pitch"
)

// maxNoteCoefficient keeps the key-tracked coefficient below the SVF stability edge.
const maxNoteCoefficient = 0.999

// NoteTable holds the key-tracked coefficient for every note. Cutoff rises
// exponentially from CutoffMinHz at note 0 to CutoffMaxHz at note 127.
type NoteTable [pitch.MaxNote + 1]float32

// NewNoteTable precomputes the table for cfg.
func NewNoteTable(cfg Config) *NoteTable {
	t := &NoteTable{}
	for n := range t {
		pos := float64(n) / pitch.MaxNote
		fc := cfg.CutoffMinHz * math.Pow(cfg.CutoffMaxHz/cfg.CutoffMinHz, pos)
		f := Coefficient(fc, cfg.AudioRate)
		if f > maxNoteCoefficient {
			f = maxNoteCoefficient
		}
		t[n] = f
	}
	return t
}

// Lookup returns the coefficient for note, clamping notes above 127.
func (t *NoteTable) Lookup(note uint8) float32 {
	if note > pitch.MaxNote {
		note = pitch.MaxNote
	}
	return t[note]
}

type perVoice struct {
	cfg   Config
	table *NoteTable
	q     float32
}

func newPerVoice(cfg Config) *perVoice {
	return &perVoice{cfg: cfg, table: NewNoteTable(cfg)}
}

// SetParams only reads resonance; cutoff follows the note.
func (p *perVoice) SetParams(_ uint16, resonanceRaw uint16) {
	p.q = ResonanceFromAnalog(resonanceRaw, p.cfg.MaxResonance)
}

func (p *perVoice) Voice(st *State, note uint8, in int32) int32 {
	return int32(st.Step(float32(in), p.table.Lookup(note), p.q))
}

func (p *perVoice) Mix(mix int32) int16 { return int16(mix) }
