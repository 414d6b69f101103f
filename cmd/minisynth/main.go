package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/cbegin/minisynth-go"
	"github.com/cbegin/minisynth-go/internal/console"
	"github.com/cbegin/minisynth-go/internal/controls"
	"github.com/cbegin/minisynth-go/internal/filter"
	"github.com/cbegin/minisynth-go/internal/midiport"
	"github.com/cbegin/minisynth-go/internal/osc"
)

func main() {
	var (
		backendName  = flag.String("backend", "ebiten", "audio backend: ebiten|oto")
		topologyName = flag.String("filter", "", "filter topology: global|voice|off (default: build setting)")
		voices       = flag.Int("voices", 4, "polyphony")
		midiDevice   = flag.Int("midi", -2, "portmidi input device id (-1 = default, -2 = none)")
		listMIDI     = flag.Bool("list-midi", false, "list MIDI inputs and exit")
		keys         = flag.Bool("keys", false, "play from the terminal keyboard (a s d f g)")
		useConsole   = flag.Bool("console", false, "interactive command prompt")
		renderPath   = flag.String("render", "", "render offline to this WAV file and exit")
		seconds      = flag.Float64("seconds", 2, "length of -render output")
		notesArg     = flag.String("notes", "60,64,67", "notes held during -render")
		wave         = flag.String("wave", "sine", "waveform: sine|triangle|saw|pulse|square")
		attack       = flag.Int("attack", 512, "attack knob 0-1023")
		release      = flag.Int("release", 512, "release knob 0-1023")
		cutoff       = flag.Int("cutoff", controls.DefaultCutoff, "cutoff knob 0-1023")
		resonance    = flag.Int("resonance", controls.DefaultResonance, "resonance knob 0-1023 (higher is more damped)")
	)
	flag.Parse()

	if *listMIDI {
		devs, err := midiport.Devices()
		if err != nil {
			log.Fatal(err)
		}
		for _, d := range devs {
			mark := " "
			if d.Default {
				mark = "*"
			}
			fmt.Printf("%s %2d %s (%s)\n", mark, d.ID, d.Name, d.Interface)
		}
		return
	}

	params := minisynth.DefaultParams()
	params.Voices = *voices
	if *topologyName != "" {
		top, err := filter.ParseTopology(*topologyName)
		if err != nil {
			log.Fatal(err)
		}
		params.Topology = top
	}

	w, ok := osc.ParseWaveform(strings.ToLower(*wave))
	if !ok {
		log.Fatalf("invalid -wave %q", *wave)
	}
	panel := controls.NewPanel()
	panel.Set(controls.WaveformSelect, osc.AnalogFor(w))
	panel.Set(controls.Attack, uint16(clampKnob(*attack)))
	panel.Set(controls.Release, uint16(clampKnob(*release)))
	panel.Set(controls.Cutoff, uint16(clampKnob(*cutoff)))
	panel.Set(controls.Resonance, uint16(clampKnob(*resonance)))

	if *renderPath != "" {
		if err := render(*renderPath, params, panel, *notesArg, *seconds); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s\n", *renderPath)
		return
	}

	backend, err := minisynth.ParseBackend(*backendName)
	if err != nil {
		log.Fatal(err)
	}
	pl, err := minisynth.NewPlayer(minisynth.WithParams(params), minisynth.WithBackend(backend))
	if err != nil {
		log.Fatal(err)
	}
	for in := controls.Input(0); in < controls.NumInputs; in++ {
		pl.SetKnob(in, panel.Read(in))
	}
	if err := pl.Start(); err != nil {
		log.Fatal(err)
	}
	defer pl.Stop()

	if *midiDevice >= -1 {
		in, err := midiport.Open(*midiDevice, pl.MIDIInput())
		if err != nil {
			log.Fatal(err)
		}
		defer midiport.Terminate()
		defer in.Close()
		log.Printf("listening for MIDI on device %d", *midiDevice)
	}

	switch {
	case *keys:
		if err := runKeyboard(pl); err != nil {
			log.Print(err)
		}
	case *useConsole:
		runConsole(pl)
	default:
		log.Printf("playing at %d Hz (%s backend, %s filter); Ctrl-C to stop", params.AudioRate, backend, params.Topology)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
	}
}

func runConsole(pl *minisynth.Player) {
	fmt.Println("type help for commands")
	for {
		line := prompt.Input("> ", console.Complete)
		if strings.TrimSpace(line) == "" {
			continue
		}
		err := console.Run(line, pl, os.Stdout)
		if err == console.ErrQuit {
			return
		}
		if err != nil {
			fmt.Println("error:", err)
		}
	}
}

func render(path string, params minisynth.Params, knobs controls.Reader, notesArg string, seconds float64) error {
	notes, err := parseNotes(notesArg)
	if err != nil {
		return err
	}
	frames := int(float64(params.AudioRate) * seconds)
	var events []minisynth.Event
	for _, n := range notes {
		events = append(events, minisynth.NoteEvents(n, 0, frames/2)...)
	}
	samples, err := minisynth.RenderSamples(params, knobs, events, frames)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := minisynth.WriteWAV(f, samples, params.AudioRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseNotes(s string) ([]uint8, error) {
	var out []uint8
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil && n >= 0 && n <= 127 {
			out = append(out, uint8(n))
			continue
		}
		n, err := console.ParseNote(part)
		if err != nil {
			return nil, fmt.Errorf("invalid -notes entry %q: %v", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func clampKnob(v int) int {
	if v < 0 {
		return 0
	}
	if v > controls.ADCMax {
		return controls.ADCMax
	}
	return v
}
