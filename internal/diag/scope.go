package diag

import "sync"

// DefaultScopeSize is the number of recent output samples kept for display.
const DefaultScopeSize = 256

// Scope is a ring of the most recent output samples. Push runs on the audio
// goroutine; Snapshot may be called from any other.
type Scope struct {
	mu    sync.Mutex
	buf   []int16
	index int
}

func NewScope(size int) *Scope {
	if size < 1 {
		size = DefaultScopeSize
	}
	return &Scope{buf: make([]int16, size)}
}

func (s *Scope) Size() int { return len(s.buf) }

// Push records one sample, overwriting the oldest.
func (s *Scope) Push(sample int16) {
	s.mu.Lock()
	s.buf[s.index] = sample
	s.index++
	if s.index == len(s.buf) {
		s.index = 0
	}
	s.mu.Unlock()
}

// PushBlock records samples in order under one lock.
func (s *Scope) PushBlock(samples []int16) {
	s.mu.Lock()
	for _, v := range samples {
		s.buf[s.index] = v
		s.index++
		if s.index == len(s.buf) {
			s.index = 0
		}
	}
	s.mu.Unlock()
}

// Snapshot copies the len(dst) most recent samples into dst, oldest first.
// It does nothing when dst is empty or longer than the ring.
func (s *Scope) Snapshot(dst []int16) {
	n := len(dst)
	if n == 0 || n > len(s.buf) {
		return
	}
	s.mu.Lock()
	start := s.index - n
	if start < 0 {
		start += len(s.buf)
	}
	for i := range dst {
		pos := start + i
		if pos >= len(s.buf) {
			pos -= len(s.buf)
		}
		dst[i] = s.buf[pos]
	}
	s.mu.Unlock()
}
