package minisynth

import (
	"io"

	"github.com/pkg/errors"

	"github.com/cbegin/minisynth-go/internal/controls"
	"github.com/cbegin/minisynth-go/internal/filter"
	"github.com/cbegin/minisynth-go/internal/midi"
	"github.com/cbegin/minisynth-go/internal/osc"
	"github.com/cbegin/minisynth-go/internal/pitch"
	"github.com/cbegin/minisynth-go/internal/voice"
)

// Synth is the complete engine state: the voice pool, the selected waveform,
// the MIDI parser and the filter. AudioTick and ControlTick must be called
// from a single goroutine; inputs from other goroutines arrive through the
// knob Reader, the MIDI ByteReader and the KeyReader.
type Synth struct {
	params     Params
	pool       *voice.Pool
	waveform   osc.Waveform
	parser     midi.Parser
	filter     filter.Filter
	increments *osc.IncrementTable

	knobs  controls.Reader
	midiIn io.ByteReader
	keys   controls.KeyReader
	// keyHeld is the key state seen on the previous control tick.
	keyHeld []bool

	attackStep  int32
	releaseStep int32
}

type Option func(*Synth)

// WithKnobs sets the source of the five analog readings. Without it the
// synth reads a fresh controls.Panel at its defaults.
func WithKnobs(r controls.Reader) Option {
	return func(s *Synth) {
		s.knobs = r
	}
}

// WithMIDIInput sets the byte stream drained on each control tick.
func WithMIDIInput(r io.ByteReader) Option {
	return func(s *Synth) {
		s.midiIn = r
	}
}

// WithKeys enables the direct keyboard scan.
func WithKeys(k controls.KeyReader) Option {
	return func(s *Synth) {
		s.keys = k
	}
}

func New(params Params, opts ...Option) (*Synth, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid synth params")
	}
	f, err := filter.New(params.Topology, params.filterConfig())
	if err != nil {
		return nil, errors.Wrap(err, "create filter")
	}
	s := &Synth{
		params:     params,
		pool:       voice.NewPool(params.Voices),
		filter:     f,
		increments: osc.NewIncrementTable(params.AudioRate),
		keyHeld:    make([]bool, len(params.KeyNotes)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.knobs == nil {
		s.knobs = controls.NewPanel()
	}
	s.readKnobs()
	return s, nil
}

func (s *Synth) Params() Params { return s.params }

// Waveform returns the shape selected on the last control tick.
func (s *Synth) Waveform() osc.Waveform { return s.waveform }

// Pool exposes the voices for inspection. Callers must stay on the tick goroutine.
func (s *Synth) Pool() *voice.Pool { return s.pool }

// NoteOn starts note on the first free voice, stealing the oldest if needed.
// The channel is ignored and notes above 127 play as 127.
func (s *Synth) NoteOn(_, note, velocity uint8) {
	note = pitch.Clamp(int(note))
	v := s.pool.Allocate()
	s.pool.Init(v, note, velocity, s.increments.Lookup(note))
}

// NoteOff releases the first sounding voice playing note.
func (s *Synth) NoteOff(_, note uint8) {
	if v := s.pool.FindByNote(pitch.Clamp(int(note))); v != nil {
		v.Release()
	}
}

// ControlChange is accepted and discarded.
func (s *Synth) ControlChange(_, _, _ uint8) {}

// FeedMIDI parses one byte immediately.
func (s *Synth) FeedMIDI(b byte) {
	s.parser.Feed(b, s)
}

// AudioTick produces one output sample. It visits every slot so its cost does
// not depend on how many voices sound.
func (s *Synth) AudioTick() int16 {
	var mix int32
	for i := 0; i < s.pool.Len(); i++ {
		v := s.pool.At(i)
		if !v.Active {
			continue
		}
		sample := int32(osc.Render(v.Phase, s.waveform)) * v.Envelope >> 15
		mix += s.filter.Voice(&v.Filter, v.Note, sample)
		v.Phase += v.Increment
	}
	if mix > 32767 {
		mix = 32767
	} else if mix < -32768 {
		mix = -32768
	}
	return s.filter.Mix(mix)
}

// ControlTick reads the knobs, steps every envelope and glide, drains pending
// MIDI and scans the keyboard.
func (s *Synth) ControlTick() {
	s.readKnobs()
	for i := 0; i < s.pool.Len(); i++ {
		v := s.pool.At(i)
		if !v.Active {
			continue
		}
		v.StepEnvelope(s.attackStep, s.releaseStep)
		v.StepPortamento(s.params.PortamentoShift)
	}
	s.drainMIDI()
	s.scanKeys()
}

func (s *Synth) readKnobs() {
	s.waveform = osc.FromAnalog(s.knobs.Read(controls.WaveformSelect))
	s.attackStep = controls.MapRange(int32(s.knobs.Read(controls.Attack)), 0, controls.ADCMax, s.params.AttackMin, s.params.AttackMax)
	s.releaseStep = controls.MapRange(int32(s.knobs.Read(controls.Release)), 0, controls.ADCMax, s.params.ReleaseMin, s.params.ReleaseMax)
	s.filter.SetParams(s.knobs.Read(controls.Cutoff), s.knobs.Read(controls.Resonance))
}

func (s *Synth) drainMIDI() {
	if s.midiIn == nil {
		return
	}
	for {
		b, err := s.midiIn.ReadByte()
		if err != nil {
			return
		}
		s.parser.Feed(b, s)
	}
}

// scanKeys plays a held key whose note is not sounding and releases the
// note of a key that was let go since the last tick.
func (s *Synth) scanKeys() {
	if s.keys == nil {
		return
	}
	for i, note := range s.params.KeyNotes {
		pressed := s.keys.Pressed(i)
		v := s.pool.FindByNote(note)
		switch {
		case pressed && v == nil:
			s.NoteOn(0, note, 127)
		case !pressed && s.keyHeld[i] && v != nil:
			s.NoteOff(0, note)
		}
		s.keyHeld[i] = pressed
	}
}
