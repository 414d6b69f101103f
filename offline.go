package minisynth

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/pkg/errors"

	"github.com/cbegin/minisynth-go/internal/controls"
	"github.com/cbegin/minisynth-go/internal/midi"
)

// Event is a raw MIDI message delivered at an output frame. Like live input
// it takes effect on the first control tick at or after Frame.
type Event struct {
	Frame int
	Bytes []byte
}

// NoteEvents returns a NoteOn at start and a NoteOff at end for note.
func NoteEvents(note uint8, start, end int) []Event {
	return []Event{
		{Frame: start, Bytes: midi.Message(midi.NoteOn, 0, note, 127)},
		{Frame: end, Bytes: midi.Message(midi.NoteOff, 0, note, 0)},
	}
}

// RenderSamples runs a fresh synth for frames samples with the given knob
// positions and MIDI events. A nil knobs uses the panel defaults.
func RenderSamples(params Params, knobs controls.Reader, events []Event, frames int) ([]int16, error) {
	if frames < 0 {
		return nil, errors.Errorf("negative frame count %d", frames)
	}
	queue := midi.NewQueue(midi.DefaultQueueSize)
	opts := []Option{WithMIDIInput(queue)}
	if knobs != nil {
		opts = append(opts, WithKnobs(knobs))
	}
	s, err := New(params, opts...)
	if err != nil {
		return nil, err
	}
	pending := append([]Event(nil), events...)
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].Frame < pending[j].Frame })

	r := NewRunner(s)
	out := make([]int16, frames)
	for i := range out {
		for len(pending) > 0 && pending[0].Frame <= i {
			if _, err := queue.Write(pending[0].Bytes); err != nil {
				return nil, errors.Wrapf(err, "event at frame %d", pending[0].Frame)
			}
			pending = pending[1:]
		}
		out[i] = r.Next()
	}
	return out, nil
}

// wavHeaderSize is the size of the canonical RIFF header beep's encoder writes.
const wavHeaderSize = 44

// WriteWAV encodes mono 16-bit samples as a WAV file. beep lays out the
// header and reserves the data chunk; the PCM is then written verbatim so
// every sample, including -32768, survives unchanged.
func WriteWAV(w io.WriteSeeker, samples []int16, sampleRate int) error {
	if sampleRate <= 0 {
		return errors.New("sampleRate must be positive")
	}
	remaining := len(samples)
	silence := beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if remaining == 0 {
			return 0, false
		}
		n := min(len(buf), remaining)
		clear(buf[:n])
		remaining -= n
		return n, true
	})
	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 1,
		Precision:   2,
	}
	if err := wav.Encode(w, silence, format); err != nil {
		return errors.Wrap(err, "encode wav header")
	}
	if _, err := w.Seek(wavHeaderSize, io.SeekStart); err != nil {
		return errors.Wrap(err, "seek to wav data")
	}
	if err := binary.Write(w, binary.LittleEndian, samples); err != nil {
		return errors.Wrap(err, "write wav data")
	}
	_, err := w.Seek(0, io.SeekEnd)
	return errors.Wrap(err, "seek to wav end")
}
