package voice

import "github.com/cbegin/minisynth-go/internal/filter"

// Stage is the envelope state of a voice.
type Stage uint8

const (
	Idle Stage = iota
	Attack
	Sustain
	Release
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case Attack:
		return "attack"
	case Sustain:
		return "sustain"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// Voice is one oscillator, envelope and filter slot.
type Voice struct {
	Active bool
	Note   uint8
	// Phase is a 32-bit fixed-point cycle position that wraps at 2^32.
	Phase           uint32
	Increment       uint32
	TargetIncrement uint32
	// Envelope runs 0..EnvelopeMax.
	Envelope int32
	Stage    Stage
	Velocity uint8
	// Age is the allocation order; larger is newer.
	Age    uint64
	Filter filter.State
}

// Release starts the release stage. The voice stays active until its
// envelope reaches zero.
func (v *Voice) Release() {
	v.Stage = Release
}

// Pool is a fixed set of voices. Its size never changes after NewPool.
type Pool struct {
	voices     []Voice
	ageCounter uint64
}

// NewPool allocates n voice slots.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{voices: make([]Voice, n)}
}

func (p *Pool) Len() int { return len(p.voices) }

// At returns slot i.
func (p *Pool) At(i int) *Voice { return &p.voices[i] }

// Allocate returns the first inactive voice, or when every slot is busy the
// voice allocated earliest (smallest age). It never fails.
func (p *Pool) Allocate() *Voice {
	for i := range p.voices {
		if !p.voices[i].Active {
			return &p.voices[i]
		}
	}
	oldest := &p.voices[0]
	for i := range p.voices {
		if p.voices[i].Age < oldest.Age {
			oldest = &p.voices[i]
		}
	}
	return oldest
}

// Init starts note on v from silence at phase zero with no glide.
func (p *Pool) Init(v *Voice, note, velocity uint8, increment uint32) {
	v.Active = true
	v.Note = note
	v.Velocity = velocity
	v.Phase = 0
	v.TargetIncrement = increment
	v.Increment = increment
	v.Envelope = 0
	v.Stage = Attack
	p.ageCounter++
	v.Age = p.ageCounter
}

// FindByNote returns the first active voice playing note, or nil.
func (p *Pool) FindByNote(note uint8) *Voice {
	for i := range p.voices {
		v := &p.voices[i]
		if v.Active && v.Note == note {
			return v
		}
	}
	return nil
}

// ActiveCount returns the number of sounding voices.
func (p *Pool) ActiveCount() int {
	n := 0
	for i := range p.voices {
		if p.voices[i].Active {
			n++
		}
	}
	return n
}
