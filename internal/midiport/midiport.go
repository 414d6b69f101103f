// Package midiport feeds a hardware MIDI input into a byte sink.
package midiport

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rakyll/portmidi"
)

const (
	bufferSize   = 1024
	pollInterval = time.Millisecond
)

// Device describes one MIDI input.
type Device struct {
	ID        int
	Name      string
	Interface string
	Default   bool
}

var (
	initOnce sync.Once
	initErr  error
)

func initialize() error {
	initOnce.Do(func() {
		initErr = errors.Wrap(portmidi.Initialize(), "initialize portmidi")
	})
	return initErr
}

// Terminate releases portmidi. Inputs must be closed first.
func Terminate() error {
	return errors.Wrap(portmidi.Terminate(), "terminate portmidi")
}

// Devices lists the available inputs.
func Devices() ([]Device, error) {
	if err := initialize(); err != nil {
		return nil, err
	}
	def := portmidi.DefaultInputDeviceID()
	var out []Device
	for i := 0; i < portmidi.CountDevices(); i++ {
		id := portmidi.DeviceID(i)
		info := portmidi.Info(id)
		if info == nil || !info.IsInputAvailable {
			continue
		}
		out = append(out, Device{ID: i, Name: info.Name, Interface: info.Interface, Default: id == def})
	}
	return out, nil
}

// Input copies channel messages from one device to a writer until closed.
type Input struct {
	stream *portmidi.Stream
	dst    io.Writer
	done   chan struct{}
	wg     sync.WaitGroup

	mu  sync.Mutex
	err error
}

// Open starts reading device id, or the default input when id is negative.
// Each message is written to dst as one three-byte Write.
func Open(id int, dst io.Writer) (*Input, error) {
	if err := initialize(); err != nil {
		return nil, err
	}
	dev := portmidi.DeviceID(id)
	if id < 0 {
		dev = portmidi.DefaultInputDeviceID()
		if dev < 0 {
			return nil, errors.New("no default MIDI input")
		}
	}
	stream, err := portmidi.NewInputStream(dev, bufferSize)
	if err != nil {
		return nil, errors.Wrapf(err, "open MIDI input %d", dev)
	}
	in := &Input{stream: stream, dst: dst, done: make(chan struct{})}
	in.wg.Add(1)
	go in.run()
	return in, nil
}

func (in *Input) run() {
	defer in.wg.Done()
	for {
		select {
		case <-in.done:
			return
		default:
		}
		ready, err := in.stream.Poll()
		if err != nil {
			in.setErr(errors.Wrap(err, "poll MIDI input"))
			return
		}
		if !ready {
			time.Sleep(pollInterval)
			continue
		}
		events, err := in.stream.Read(bufferSize)
		if err != nil {
			in.setErr(errors.Wrap(err, "read MIDI input"))
			return
		}
		for _, ev := range events {
			if msg, ok := Encode(ev); ok {
				// A full queue drops the message, like a serial overrun.
				in.dst.Write(msg[:])
			}
		}
	}
}

// Encode turns a portmidi event into wire bytes. System messages are skipped.
func Encode(ev portmidi.Event) ([3]byte, bool) {
	status := byte(ev.Status)
	if status < 0x80 || status >= 0xF0 {
		return [3]byte{}, false
	}
	return [3]byte{status, byte(ev.Data1) & 0x7F, byte(ev.Data2) & 0x7F}, true
}

func (in *Input) setErr(err error) {
	in.mu.Lock()
	in.err = err
	in.mu.Unlock()
}

// Err reports the error that stopped the reader, if any.
func (in *Input) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.err
}

// Close stops the reader and closes the device.
func (in *Input) Close() error {
	close(in.done)
	in.wg.Wait()
	return errors.Wrap(in.stream.Close(), "close MIDI input")
}
