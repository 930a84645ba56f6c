package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/viptransport/booking-api/internal/core/ports"
)

type captureSender struct {
	mu   sync.Mutex
	sent []ports.SendEmailParams
	err  error
	done chan struct{}
}

func newCaptureSender(expected int) *captureSender {
	return &captureSender{done: make(chan struct{}, expected)}
}

func (s *captureSender) SendEmail(_ context.Context, params ports.SendEmailParams) error {
	s.mu.Lock()
	s.sent = append(s.sent, params)
	s.mu.Unlock()
	s.done <- struct{}{}
	return s.err
}

func (s *captureSender) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-s.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
}

func TestDispatcherDeliversEnqueuedMail(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := newCaptureSender(1)
	d := NewDispatcher(2, sender, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(ports.SendEmailParams{To: "alice@example.com", Subject: "hi", Tag: "password-reset"})
	sender.wait(t, 1)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 {
		t.Fatalf("delivered %d emails, want 1", len(sender.sent))
	}
	if sender.sent[0].To != "alice@example.com" {
		t.Errorf("To = %q, want alice@example.com", sender.sent[0].To)
	}
}

func TestDispatcherSurvivesSendFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := newCaptureSender(2)
	sender.err = errors.New("provider down")
	d := NewDispatcher(1, sender, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(ports.SendEmailParams{To: "alice@example.com", Tag: "password-reset"})
	d.Enqueue(ports.SendEmailParams{To: "alice@example.com", Tag: "password-reset"})
	sender.wait(t, 2)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 2 {
		t.Fatalf("worker stopped after a failure: delivered %d, want 2", len(sender.sent))
	}
}

func TestDispatcherDrainsBufferedMailOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := newCaptureSender(2)
	d := NewDispatcher(1, sender, zerolog.Nop())

	// Mail accepted before the shutdown signal must still go out.
	d.Enqueue(ports.SendEmailParams{To: "alice@example.com", Tag: "password-reset"})
	d.Enqueue(ports.SendEmailParams{To: "alice@example.com", Tag: "password-reset"})
	d.Start(ctx)
	sender.wait(t, 2)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 2 {
		t.Fatalf("delivered %d emails, want 2", len(sender.sent))
	}
}

func TestDispatcherShardIsStablePerRecipient(t *testing.T) {
	d := NewDispatcher(4, newCaptureSender(0), zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 100; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard changed between calls: %d then %d", first, got)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard %d out of range", first)
	}
}

func TestDispatcherDefaultsWorkerCount(t *testing.T) {
	d := NewDispatcher(0, newCaptureSender(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("workers = %d, want %d", len(d.workers), defaultWorkers)
	}
}
