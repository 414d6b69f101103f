package audio

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
)

// OtoPlayer writes a SampleSource straight to the device as mono 16-bit PCM
// at the synth's own rate.
type OtoPlayer struct {
	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
	source SampleSource
	buf    []int16
}

var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoRate int
	otoErr  error
)

func sharedOtoContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		otoRate = sampleRate
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   40 * time.Millisecond,
		})
		if err != nil {
			otoErr = errors.Wrap(err, "create oto context")
			return
		}
		<-ready
		otoCtx = ctx
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoRate != sampleRate {
		return nil, errors.Errorf("oto context already initialized at %d Hz (requested %d Hz)", otoRate, sampleRate)
	}
	return otoCtx, nil
}

func NewOtoPlayer(sampleRate int, source SampleSource) (*OtoPlayer, error) {
	ctx, err := sharedOtoContext(sampleRate)
	if err != nil {
		return nil, err
	}
	p := &OtoPlayer{ctx: ctx, source: source}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Read is called by oto on its own goroutine.
func (p *OtoPlayer) Read(b []byte) (int, error) {
	n := len(b) / 2
	if n == 0 {
		return 0, nil
	}
	if cap(p.buf) < n {
		p.buf = make([]int16, n)
	}
	p.buf = p.buf[:n]
	p.source.Process(p.buf)
	for i, s := range p.buf {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(s))
	}
	return n * 2, nil
}

func (p *OtoPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.player.Play()
}

func (p *OtoPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.player.Pause()
}

func (p *OtoPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player.IsPlaying()
}

func (p *OtoPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.player.Pause()
	return errors.Wrap(p.player.Close(), "close oto player")
}
