package midi

// Status families, upper nibble of a status byte.
const (
	NoteOff       = 0x80
	NoteOn        = 0x90
	ControlChange = 0xB0
)

// Handler receives decoded channel messages.
type Handler interface {
	NoteOn(channel, note, velocity uint8)
	NoteOff(channel, note uint8)
	ControlChange(channel, controller, value uint8)
}

// Parser decodes a running-status byte stream. The zero value is ready to use.
type Parser struct {
	buf   [3]byte
	index uint8
}

// Feed consumes one byte and dispatches to h when a message completes.
//
// A status byte restarts the buffer at index 1, so data bytes that follow
// without a new status reuse it. Data bytes before any status are dropped.
// Statuses outside NoteOn, NoteOff and ControlChange are held but never
// dispatched; their data bytes are dropped once the buffer is full.
func (p *Parser) Feed(b byte, h Handler) {
	if b&0x80 != 0 {
		p.buf[0] = b
		p.index = 1
		return
	}
	if p.index == 0 || int(p.index) >= len(p.buf) {
		return
	}
	p.buf[p.index] = b
	p.index++
	if p.index < 3 {
		return
	}

	status := p.buf[0] & 0xF0
	channel := p.buf[0] & 0x0F
	switch status {
	case NoteOn:
		p.index = 1
		if p.buf[2] == 0 {
			h.NoteOff(channel, p.buf[1])
		} else {
			h.NoteOn(channel, p.buf[1], p.buf[2])
		}
	case NoteOff:
		p.index = 1
		h.NoteOff(channel, p.buf[1])
	case ControlChange:
		p.index = 1
		h.ControlChange(channel, p.buf[1], p.buf[2])
	}
}

// Reset forgets the running status.
func (p *Parser) Reset() {
	p.index = 0
}

// Message encodes a three-byte channel message.
func Message(status, channel, data1, data2 uint8) []byte {
	return []byte{status&0xF0 | channel&0x0F, data1 & 0x7F, data2 & 0x7F}
}
