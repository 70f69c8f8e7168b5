package scanner

import (
	"context"
	"testing"
	"time"
)

type decoderFunc func(Frame) (string, bool)

func (f decoderFunc) Decode(fr Frame) (string, bool) { return f(fr) }

func TestPipelineAtMostOneInFlight(t *testing.T) {
	attempts := 0
	p := NewPipeline(decoderFunc(func(Frame) (string, bool) {
		attempts++
		return "payload", true
	}))

	// Three decodable frames arrive before anyone resumes the session.
	p.Process(Frame{})
	p.Process(Frame{})
	p.Process(Frame{})

	if attempts != 1 {
		t.Errorf("decode attempts = %d, want 1 (locked frames must be dropped undecoded)", attempts)
	}
	select {
	case got := <-p.Claims():
		if got != "payload" {
			t.Errorf("claim = %q, want %q", got, "payload")
		}
	default:
		t.Fatal("no claim delivered")
	}
	select {
	case got := <-p.Claims():
		t.Fatalf("second claim %q delivered before Resume", got)
	default:
	}
	if !p.Busy() {
		t.Error("Busy() = false while a claim is being processed")
	}
}

func TestPipelineResume(t *testing.T) {
	p := NewPipeline(decoderFunc(func(Frame) (string, bool) {
		return "next", true
	}))

	p.Process(Frame{})
	<-p.Claims()
	p.Resume()

	if p.Busy() {
		t.Error("Busy() = true after Resume")
	}

	p.Process(Frame{})
	select {
	case got := <-p.Claims():
		if got != "next" {
			t.Errorf("claim = %q, want %q", got, "next")
		}
	default:
		t.Fatal("no claim delivered after Resume")
	}
}

func TestPipelineSilentOnNoSymbol(t *testing.T) {
	p := NewPipeline(decoderFunc(func(Frame) (string, bool) {
		return "", false
	}))

	p.Process(Frame{})
	p.Process(Frame{})

	if p.Busy() {
		t.Error("Busy() = true after frames without symbols")
	}
	select {
	case got := <-p.Claims():
		t.Fatalf("unexpected claim %q", got)
	default:
	}
}

func TestPipelineRunStopsOnCancel(t *testing.T) {
	p := NewPipeline(decoderFunc(func(Frame) (string, bool) {
		return "", false
	}))
	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan Frame)

	done := make(chan struct{})
	go func() {
		p.Run(ctx, frames)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}

func TestPipelineRunStopsOnClosedStream(t *testing.T) {
	p := NewPipeline(decoderFunc(func(Frame) (string, bool) {
		return "", false
	}))
	frames := make(chan Frame)

	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), frames)
		close(done)
	}()

	frames <- Frame{}
	close(frames)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop when the frame stream closed")
	}
}
