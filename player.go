package minisynth

import (
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"

	intaudio "github.com/cbegin/minisynth-go/internal/audio"
	"github.com/cbegin/minisynth-go/internal/controls"
	"github.com/cbegin/minisynth-go/internal/diag"
	"github.com/cbegin/minisynth-go/internal/midi"
	"github.com/cbegin/minisynth-go/internal/osc"
)

type Backend string

const (
	// BackendEbiten streams through ebiten's audio context as stereo float32.
	BackendEbiten Backend = "ebiten"
	// BackendOto writes mono 16-bit PCM straight to oto.
	BackendOto Backend = "oto"
)

func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendEbiten, BackendOto:
		return b, nil
	}
	return "", errors.Errorf("unknown audio backend %q (expected ebiten|oto)", name)
}

type PlayerOption func(*playerConfig)

type playerConfig struct {
	params    Params
	backend   Backend
	scopeSize int
	sampleTap func([]int16)
	clock     diag.Clock
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{
		params:    DefaultParams(),
		backend:   BackendEbiten,
		scopeSize: diag.DefaultScopeSize,
	}
}

func WithParams(p Params) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.params = p
	}
}

func WithBackend(b Backend) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.backend = b
	}
}

// WithScopeSize sets how many recent samples the scope keeps.
func WithScopeSize(n int) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.scopeSize = n
	}
}

// WithSampleTap installs a callback invoked with each generated mono buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]int16)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

// WithClock sets the microsecond clock behind CPULoad. The default reads the
// monotonic wall clock.
func WithClock(clock diag.Clock) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.clock = clock
	}
}

type output interface {
	Play()
	Pause()
	IsPlaying() bool
	Stop() error
}

// Player runs a Synth in real time. Knobs, keys and MIDI may be driven from
// any goroutine; the engine itself only runs on the audio backend's goroutine.
type Player struct {
	mu      sync.Mutex
	backend Backend
	runner  *Runner
	queue   *midi.Queue
	panel   *controls.Panel
	keys    controls.Keys
	scope   *diag.Scope
	load    *diag.LoadMeter
	audio   output
}

func NewPlayer(opts ...PlayerOption) (*Player, error) {
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, err := ParseBackend(string(cfg.backend)); err != nil {
		return nil, err
	}
	p := &Player{
		backend: cfg.backend,
		queue:   midi.NewQueue(midi.DefaultQueueSize),
		panel:   controls.NewPanel(),
		scope:   diag.NewScope(cfg.scopeSize),
		load:    diag.NewLoadMeter(cfg.clock),
	}
	synth, err := New(cfg.params, WithKnobs(p.panel), WithMIDIInput(p.queue), WithKeys(&p.keys))
	if err != nil {
		return nil, err
	}
	runnerOpts := []RunnerOption{WithScope(p.scope), WithLoadMeter(p.load)}
	if cfg.sampleTap != nil {
		runnerOpts = append(runnerOpts, WithBlockTap(cfg.sampleTap))
	}
	p.runner = NewRunner(synth, runnerOpts...)
	return p, nil
}

func (p *Player) Params() Params { return p.runner.synth.params }

func (p *Player) Backend() Backend { return p.backend }

// Start opens the audio device on first use and begins playback.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		a, err := p.openOutput()
		if err != nil {
			return err
		}
		p.audio = a
	}
	p.audio.Play()
	return nil
}

func (p *Player) openOutput() (output, error) {
	rate := p.runner.synth.params.AudioRate
	switch p.backend {
	case BackendOto:
		a, err := intaudio.NewOtoPlayer(rate, p.runner)
		return a, errors.Wrap(err, "open oto output")
	default:
		a, err := intaudio.NewPlayer(rate, p.runner)
		return a, errors.Wrap(err, "open ebiten output")
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audio != nil && p.audio.IsPlaying()
}

// Stop closes the audio device. Start opens it again with the engine state intact.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return nil
	}
	err := p.audio.Stop()
	p.audio = nil
	return err
}

// MIDIInput is the raw byte sink read by the engine on each control tick.
// Each Write must carry whole messages.
func (p *Player) MIDIInput() io.Writer { return p.queue }

// SendMIDI queues raw MIDI bytes. A full queue drops them and returns midi.ErrFull.
func (p *Player) SendMIDI(msg []byte) error {
	_, err := p.queue.Write(msg)
	return err
}

func (p *Player) NoteOn(note, velocity uint8) error {
	return p.SendMIDI(midi.Message(midi.NoteOn, 0, note, velocity))
}

func (p *Player) NoteOff(note uint8) error {
	return p.SendMIDI(midi.Message(midi.NoteOff, 0, note, 0))
}

// SetKnob moves one analog control. Values clamp to controls.ADCMax.
func (p *Player) SetKnob(in controls.Input, value uint16) {
	p.panel.Set(in, value)
}

func (p *Player) Knob(in controls.Input) uint16 {
	return p.panel.Read(in)
}

// SetWaveform moves the waveform knob to the middle of w's band.
func (p *Player) SetWaveform(w osc.Waveform) {
	p.panel.Set(controls.WaveformSelect, osc.AnalogFor(w))
}

// Waveform reports the waveform the knob currently selects.
func (p *Player) Waveform() osc.Waveform {
	return osc.FromAnalog(p.panel.Read(controls.WaveformSelect))
}

func (p *Player) PressKey(i int) { p.keys.Press(i) }
func (p *Player) LiftKey(i int)  { p.keys.Lift(i) }

// ToggleKey flips a latched key and returns whether it is now held.
func (p *Player) ToggleKey(i int) bool { return p.keys.Toggle(i) }

func (p *Player) KeyHeld(i int) bool { return p.keys.Pressed(i) }

// Snapshot copies the most recent output samples into dst, oldest first.
func (p *Player) Snapshot(dst []int16) { p.scope.Snapshot(dst) }

// Spectrum returns the low-bin magnitudes of the most recent output.
func (p *Player) Spectrum() []float64 { return diag.ScopeSpectrum(p.scope) }

// CPULoad returns the smoothed share of each audio period spent rendering, in percent.
func (p *Player) CPULoad() float64 { return p.load.Percent() }
