package midi

import (
	"reflect"
	"testing"
)

type event struct {
	kind     string
	ch, a, b uint8
}

type recorder struct {
	events []event
}

func (r *recorder) NoteOn(ch, note, vel uint8) {
	r.events = append(r.events, event{"on", ch, note, vel})
}

func (r *recorder) NoteOff(ch, note uint8) {
	r.events = append(r.events, event{"off", ch, note, 0})
}

func (r *recorder) ControlChange(ch, cc, val uint8) {
	r.events = append(r.events, event{"cc", ch, cc, val})
}

func feed(p *Parser, h Handler, bs ...byte) {
	for _, b := range bs {
		p.Feed(b, h)
	}
}

func TestParserSequences(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input []byte
		want  []event
	}{
		{"note on", []byte{0x90, 60, 127}, []event{{"on", 0, 60, 127}}},
		{"running status velocity zero", []byte{0x90, 60, 127, 60, 0}, []event{{"on", 0, 60, 127}, {"off", 0, 60, 0}}},
		{"note off", []byte{0x83, 64, 40}, []event{{"off", 3, 64, 0}}},
		{"control change", []byte{0xB1, 7, 100}, []event{{"cc", 1, 7, 100}}},
		{"running note ons", []byte{0x92, 60, 1, 62, 2, 64, 3}, []event{{"on", 2, 60, 1}, {"on", 2, 62, 2}, {"on", 2, 64, 3}}},
		{"data before status", []byte{60, 100, 0x90, 61, 100}, []event{{"on", 0, 61, 100}}},
		{"status mid message", []byte{0x90, 60, 0x80, 62, 0}, []event{{"off", 0, 62, 0}}},
		{"unknown status holds", []byte{0xE0, 1, 2, 3, 4, 5}, nil},
		{"unknown then note", []byte{0xC0, 5, 9, 9, 0x90, 70, 80}, []event{{"on", 0, 70, 80}}},
		{"realtime status resets", []byte{0x90, 60, 0xF8, 100}, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var p Parser
			var r recorder
			feed(&p, &r, tc.input...)
			if !reflect.DeepEqual(r.events, tc.want) {
				t.Fatalf("events = %+v, want %+v", r.events, tc.want)
			}
		})
	}
}

func TestParserReset(t *testing.T) {
	var p Parser
	var r recorder
	feed(&p, &r, 0x90, 60, 100)
	p.Reset()
	feed(&p, &r, 61, 100)
	if len(r.events) != 1 {
		t.Fatalf("running status survived reset: %+v", r.events)
	}
}

func TestMessage(t *testing.T) {
	got := Message(NoteOn, 0x13, 200, 64)
	if want := []byte{0x93, 200 & 0x7F, 64}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Message = % x, want % x", got, want)
	}
}

func BenchmarkParser(b *testing.B) {
	var p Parser
	var r recorder
	msg := []byte{0x90, 60, 100, 60, 0}
	for i := 0; i < b.N; i++ {
		feed(&p, &r, msg...)
		r.events = r.events[:0]
	}
}
