package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/cbegin/minisynth-go"
	"github.com/cbegin/minisynth-go/internal/controls"
	"github.com/cbegin/minisynth-go/internal/osc"
)

// Terminals report key presses but not releases, so each key latches.
var keyIndex = map[byte]int{'a': 0, 's': 1, 'd': 2, 'f': 3, 'g': 4}

const knobStep = 32

func runKeyboard(pl *minisynth.Player) error {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer term.Restore(fd, state)

	printf := func(format string, args ...any) {
		fmt.Printf(format+"\r\n", args...)
	}
	printf("a s d f g: toggle keys   1-5: select knob   + -: adjust   w: next wave   q: quit")

	selected := controls.Attack
	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return err
		}
		c := buf[0]
		switch {
		case c == 'q' || c == 3:
			return nil
		case c >= '1' && c <= '5':
			selected = controls.Input(c - '1')
			printf("knob %s = %d", selected, pl.Knob(selected))
		case c == '+' || c == '=' || c == '-':
			v := int(pl.Knob(selected))
			if c == '-' {
				v -= knobStep
			} else {
				v += knobStep
			}
			pl.SetKnob(selected, uint16(clampKnob(v)))
			printf("knob %s = %d", selected, pl.Knob(selected))
		case c == 'w':
			next := (pl.Waveform() + 1) % osc.NumWaveforms
			pl.SetWaveform(next)
			printf("wave %s", next)
		default:
			if i, ok := keyIndex[c]; ok {
				held := pl.ToggleKey(i)
				printf("key %c %v  cpu %.1f%%", c, held, pl.CPULoad())
			}
		}
	}
}
