package scanner

import (
	"context"
	"sync/atomic"
)

// Pipeline turns a live frame stream into at most one decoded payload
// per processing cycle. The session is either scanning (idle) or locked
// while a payload is being handled; frames arriving while locked are
// dropped rather than queued, so a slow check-in never builds up a
// frame backlog.
type Pipeline struct {
	decoder SymbolDecoder
	claims  chan string
	locked  atomic.Bool
}

func NewPipeline(decoder SymbolDecoder) *Pipeline {
	return &Pipeline{
		decoder: decoder,
		claims:  make(chan string, 1),
	}
}

// Claims delivers decoded payload text. At most one payload is in
// flight between a delivery and the following Resume call.
func (p *Pipeline) Claims() <-chan string {
	return p.claims
}

// Busy reports whether a decoded payload is currently being processed.
func (p *Pipeline) Busy() bool {
	return p.locked.Load()
}

// Resume unlocks the session after a terminal outcome. No frame is
// replayed; scanning continues with the next arriving frame.
func (p *Pipeline) Resume() {
	p.locked.Store(false)
}

// Process attempts a symbol decode on one frame. While the session is
// locked the frame is discarded without a decode attempt.
func (p *Pipeline) Process(f Frame) {
	if p.locked.Load() {
		return
	}
	text, ok := p.decoder.Decode(f)
	if !ok {
		return
	}
	if !p.locked.CompareAndSwap(false, true) {
		return
	}
	// The lock guarantees the claims buffer has room: it is drained
	// before Resume stores false again.
	p.claims <- text
}

// Run drains the frame channel on the caller's goroutine until ctx is
// cancelled or the channel closes. This is the dedicated frame-decode
// loop; nothing else should run on it.
func (p *Pipeline) Run(ctx context.Context, frames <-chan Frame) {
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			p.Process(f)
		}
	}
}
