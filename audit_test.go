package loginguard

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(2)
	sink.Emit(context.Background(), Event{EventType: "first"})
	sink.Emit(context.Background(), Event{EventType: "second"})

	if ev := <-sink.Events(); ev.EventType != "first" {
		t.Fatalf("expected the first event, got %q", ev.EventType)
	}
	if ev := <-sink.Events(); ev.EventType != "second" {
		t.Fatalf("expected the second event, got %q", ev.EventType)
	}
}

func TestChannelSink_FullBufferHonorsContext(t *testing.T) {
	sink := NewChannelSink(1)
	sink.Emit(context.Background(), Event{EventType: "fills"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		sink.Emit(ctx, Event{EventType: "blocked"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("emit must return once the context is cancelled")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{
		EventType:  EventSessionCreated,
		Identifier: "al*ce",
	})

	var decoded Event
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not one JSON line: %v", err)
	}
	if decoded.EventType != EventSessionCreated || decoded.Identifier != "al*ce" {
		t.Fatalf("unexpected decoded event: %+v", decoded)
	}
	if buf.Bytes()[buf.Len()-1] != '\n' {
		t.Fatal("each event must end with a newline")
	}
}

func TestDispatcher_DeliversAndDrainsOnClose(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16, DropIfFull: true}, sink)

	for i := 0; i < 5; i++ {
		d.emit(context.Background(), Event{EventType: EventAttemptRecorded})
	}
	d.close()

	for i := 0; i < 5; i++ {
		select {
		case <-sink.Events():
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d was never delivered", i)
		}
	}

	// Closed dispatchers drop silently.
	d.emit(context.Background(), Event{EventType: EventAttemptRecorded})
	select {
	case ev := <-sink.Events():
		t.Fatalf("no event expected after close, got %q", ev.EventType)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDispatcher_DisabledIsNil(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("a disabled dispatcher must be nil")
	}

	// Nil receivers are safe on every method.
	d.emit(context.Background(), Event{EventType: EventAttemptRecorded})
	d.close()
	if d.droppedCount() != 0 {
		t.Fatal("a nil dispatcher has no drops")
	}
}

func TestDispatcher_CountsDrops(t *testing.T) {
	// A sink that never accepts keeps the buffer full once the run loop
	// blocks on it.
	blocked := make(chan struct{})
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, blockingSink{blocked})
	t.Cleanup(d.close)
	t.Cleanup(func() { close(blocked) })

	deadline := time.Now().Add(2 * time.Second)
	for d.droppedCount() == 0 {
		d.emit(context.Background(), Event{EventType: EventAttemptRecorded})
		if time.Now().After(deadline) {
			t.Fatal("overflow was never counted")
		}
	}
}

type blockingSink struct {
	release <-chan struct{}
}

func (s blockingSink) Emit(ctx context.Context, event Event) {
	<-s.release
}
