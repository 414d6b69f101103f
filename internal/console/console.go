// Package console implements the line commands of the interactive prompt.
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/pkg/errors"

	"github.com/cbegin/minisynth-go/internal/controls"
	"github.com/cbegin/minisynth-go/internal/osc"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// Target is the live synth the commands act on.
type Target interface {
	NoteOn(note, velocity uint8) error
	NoteOff(note uint8) error
	SendMIDI(msg []byte) error
	SetKnob(in controls.Input, value uint16)
	Knob(in controls.Input) uint16
	SetWaveform(w osc.Waveform)
	Waveform() osc.Waveform
	ToggleKey(i int) bool
	CPULoad() float64
}

type Kind int

const (
	NoteOn Kind = iota
	NoteOff
	Knob
	Wave
	Raw
	Key
	Status
	Help
	Quit
)

// Command is one parsed input line.
type Command struct {
	Kind     Kind
	Note     uint8
	Velocity uint8
	Input    controls.Input
	Value    uint16
	Waveform osc.Waveform
	Bytes    []byte
	Key      int
}

var commands = []prompt.Suggest{
	{Text: "on", Description: "on <note> [velocity]: start a note (60 or c4)"},
	{Text: "off", Description: "off <note>: release a note"},
	{Text: "knob", Description: "knob <wave|attack|release|cutoff|resonance> <0-1023>"},
	{Text: "wave", Description: "wave <sine|triangle|saw|pulse|square>"},
	{Text: "raw", Description: "raw <hex bytes>: send MIDI bytes, e.g. raw 90 3c 7f"},
	{Text: "key", Description: "key <0-4>: toggle a keyboard key"},
	{Text: "status", Description: "show knobs and CPU load"},
	{Text: "help", Description: "list commands"},
	{Text: "quit", Description: "exit"},
}

// Parse reads one command line. Blank lines are an error.
func Parse(line string) (Command, error) {
	f := strings.Fields(strings.ToLower(line))
	if len(f) == 0 {
		return Command{}, errors.New("empty command")
	}
	args := f[1:]
	switch f[0] {
	case "on":
		if len(args) < 1 || len(args) > 2 {
			return Command{}, errors.New("usage: on <note> [velocity]")
		}
		note, err := ParseNote(args[0])
		if err != nil {
			return Command{}, err
		}
		vel := uint8(127)
		if len(args) == 2 {
			v, err := parse7(args[1], "velocity")
			if err != nil {
				return Command{}, err
			}
			vel = v
		}
		return Command{Kind: NoteOn, Note: note, Velocity: vel}, nil
	case "off":
		if len(args) != 1 {
			return Command{}, errors.New("usage: off <note>")
		}
		note, err := ParseNote(args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: NoteOff, Note: note}, nil
	case "knob":
		if len(args) != 2 {
			return Command{}, errors.New("usage: knob <name> <0-1023>")
		}
		in, ok := controls.ParseInput(args[0])
		if !ok {
			return Command{}, errors.Errorf("unknown knob %q", args[0])
		}
		v, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil || v > controls.ADCMax {
			return Command{}, errors.Errorf("knob value %q outside 0..%d", args[1], controls.ADCMax)
		}
		return Command{Kind: Knob, Input: in, Value: uint16(v)}, nil
	case "wave":
		if len(args) != 1 {
			return Command{}, errors.New("usage: wave <name>")
		}
		w, ok := osc.ParseWaveform(args[0])
		if !ok {
			return Command{}, errors.Errorf("unknown waveform %q", args[0])
		}
		return Command{Kind: Wave, Waveform: w}, nil
	case "raw":
		if len(args) == 0 {
			return Command{}, errors.New("usage: raw <hex bytes>")
		}
		bs := make([]byte, 0, len(args))
		for _, a := range args {
			v, err := strconv.ParseUint(strings.TrimPrefix(a, "0x"), 16, 8)
			if err != nil {
				return Command{}, errors.Errorf("bad byte %q", a)
			}
			bs = append(bs, byte(v))
		}
		return Command{Kind: Raw, Bytes: bs}, nil
	case "key":
		if len(args) != 1 {
			return Command{}, errors.New("usage: key <index>")
		}
		i, err := strconv.Atoi(args[0])
		if err != nil || i < 0 || i >= controls.MaxKeys {
			return Command{}, errors.Errorf("bad key %q", args[0])
		}
		return Command{Kind: Key, Key: i}, nil
	case "status":
		return Command{Kind: Status}, nil
	case "help", "?":
		return Command{Kind: Help}, nil
	case "quit", "exit":
		return Command{Kind: Quit}, nil
	}
	return Command{}, errors.Errorf("unknown command %q", f[0])
}

func parse7(s, what string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil || v > 127 {
		return 0, errors.Errorf("%s %q outside 0..127", what, s)
	}
	return uint8(v), nil
}

var noteOffsets = map[byte]int{'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11}

// ParseNote accepts a MIDI note number or a name such as c4, f#3 or bb2,
// with c4 = 60.
func ParseNote(s string) (uint8, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 127 {
			return 0, errors.Errorf("note %d outside 0..127", n)
		}
		return uint8(n), nil
	}
	s = strings.ToLower(s)
	if s == "" {
		return 0, errors.New("empty note")
	}
	base, ok := noteOffsets[s[0]]
	if !ok {
		return 0, errors.Errorf("bad note %q", s)
	}
	rest := s[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		base++
		rest = rest[1:]
	case strings.HasPrefix(rest, "b") && len(rest) > 1:
		base--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, errors.Errorf("bad note %q", s)
	}
	n := (octave+1)*12 + base
	if n < 0 || n > 127 {
		return 0, errors.Errorf("note %q outside 0..127", s)
	}
	return uint8(n), nil
}

// Exec runs cmd against t and writes any report to out. It returns ErrQuit
// for the quit command.
func Exec(cmd Command, t Target, out io.Writer) error {
	switch cmd.Kind {
	case NoteOn:
		return t.NoteOn(cmd.Note, cmd.Velocity)
	case NoteOff:
		return t.NoteOff(cmd.Note)
	case Knob:
		t.SetKnob(cmd.Input, cmd.Value)
	case Wave:
		t.SetWaveform(cmd.Waveform)
	case Raw:
		return t.SendMIDI(cmd.Bytes)
	case Key:
		state := "up"
		if t.ToggleKey(cmd.Key) {
			state = "down"
		}
		fmt.Fprintf(out, "key %d %s\n", cmd.Key, state)
	case Status:
		WriteStatus(out, t)
	case Help:
		for _, c := range commands {
			fmt.Fprintf(out, "  %-7s %s\n", c.Text, c.Description)
		}
	case Quit:
		return ErrQuit
	}
	return nil
}

// Run parses and executes one line.
func Run(line string, t Target, out io.Writer) error {
	cmd, err := Parse(line)
	if err != nil {
		return err
	}
	return Exec(cmd, t, out)
}

// WriteStatus prints the knob positions, the selected waveform and the load.
func WriteStatus(out io.Writer, t Target) {
	for in := controls.Input(0); in < controls.NumInputs; in++ {
		fmt.Fprintf(out, "%-10s %4d\n", in, t.Knob(in))
	}
	fmt.Fprintf(out, "%-10s %s\n", "waveform", t.Waveform())
	fmt.Fprintf(out, "%-10s %.1f%%\n", "cpu", t.CPULoad())
}

// Complete suggests command names for the first word and argument names for
// knob and wave.
func Complete(d prompt.Document) []prompt.Suggest {
	before := d.TextBeforeCursor()
	fields := strings.Fields(before)
	word := d.GetWordBeforeCursor()
	if len(fields) == 0 || (len(fields) == 1 && !strings.HasSuffix(before, " ")) {
		return prompt.FilterHasPrefix(commands, word, true)
	}
	atSecond := len(fields) == 1 || (len(fields) == 2 && !strings.HasSuffix(before, " "))
	if !atSecond {
		return nil
	}
	var names []prompt.Suggest
	switch fields[0] {
	case "knob":
		for in := controls.Input(0); in < controls.NumInputs; in++ {
			names = append(names, prompt.Suggest{Text: in.String()})
		}
	case "wave":
		for w := osc.Waveform(0); w < osc.NumWaveforms; w++ {
			names = append(names, prompt.Suggest{Text: w.String()})
		}
	}
	return prompt.FilterHasPrefix(names, word, true)
}
