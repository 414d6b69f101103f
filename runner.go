package minisynth

import "github.com/cbegin/minisynth-go/internal/diag"

// Runner drives a Synth at its two rates: one control tick, then Ratio audio
// ticks, repeated. It is the only caller of the Synth's tick methods.
type Runner struct {
	synth     *Synth
	ratio     int
	countdown int

	scope *diag.Scope
	load  *diag.LoadMeter
	tap   func([]int16)
}

type RunnerOption func(*Runner)

// WithScope records every output sample into sc.
func WithScope(sc *diag.Scope) RunnerOption {
	return func(r *Runner) {
		r.scope = sc
	}
}

// WithLoadMeter times each audio tick and samples the meter on every control tick.
func WithLoadMeter(m *diag.LoadMeter) RunnerOption {
	return func(r *Runner) {
		r.load = m
	}
}

// WithBlockTap is called with every rendered block. It runs on the audio
// goroutine and must not retain dst.
func WithBlockTap(tap func(dst []int16)) RunnerOption {
	return func(r *Runner) {
		r.tap = tap
	}
}

func NewRunner(s *Synth, opts ...RunnerOption) *Runner {
	r := &Runner{synth: s, ratio: s.params.Ratio()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Synth() *Synth { return r.synth }

// Next returns one sample, running a control tick first when one is due.
func (r *Runner) Next() int16 {
	if r.countdown == 0 {
		r.synth.ControlTick()
		if r.load != nil {
			r.load.SampleAndReset(r.synth.params.AudioRate)
		}
		r.countdown = r.ratio
	}
	r.countdown--
	if r.load != nil {
		r.load.Enter()
	}
	out := r.synth.AudioTick()
	if r.load != nil {
		r.load.Exit()
	}
	return out
}

// Process fills dst with consecutive samples.
func (r *Runner) Process(dst []int16) {
	for i := range dst {
		dst[i] = r.Next()
	}
	if r.scope != nil {
		r.scope.PushBlock(dst)
	}
	if r.tap != nil {
		r.tap(dst)
	}
}
