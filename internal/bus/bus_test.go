package bus_test

import (
	"testing"

	"sentinel/internal/bus"
	"sentinel/internal/catalog"
)

func msg(id string) bus.Message {
	return bus.Message{
		Topic: bus.TopicNewSecurityEvent,
		Event: catalog.Event{ID: id, CameraID: "cam-01", Type: catalog.DetectionPerson},
	}
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	b := bus.New()
	defer b.Close()

	ch1 := make(chan bus.Message, 1)
	ch2 := make(chan bus.Message, 1)
	if err := b.Subscribe("api", ch1); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := b.Subscribe("notifier", ch2); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	b.Publish(msg("evt-1"))

	for _, ch := range []chan bus.Message{ch1, ch2} {
		select {
		case got := <-ch:
			if got.Event.ID != "evt-1" {
				t.Fatalf("unexpected event: %#v", got.Event)
			}
		default:
			t.Fatal("subscriber did not receive message")
		}
	}
}

func TestPublishDropsWhenSubscriberFull(t *testing.T) {
	b := bus.New()
	defer b.Close()

	ch := make(chan bus.Message, 1)
	if err := b.Subscribe("slow", ch); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	b.Publish(msg("evt-1"))
	b.Publish(msg("evt-2")) // channel full, must not block

	stats := b.Stats()
	if stats.Published != 2 {
		t.Fatalf("expected 2 published, got %d", stats.Published)
	}
	if stats.Sent != 1 || stats.Dropped != 1 {
		t.Fatalf("expected 1 sent / 1 dropped, got %+v", stats)
	}
}

func TestPublishWithoutSubscribersIsHarmless(t *testing.T) {
	b := bus.New()
	defer b.Close()

	b.Publish(msg("evt-1"))

	if stats := b.Stats(); stats.Published != 1 || stats.Sent != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSubscribeDuplicateAndUnsubscribe(t *testing.T) {
	b := bus.New()
	defer b.Close()

	ch := make(chan bus.Message, 1)
	if err := b.Subscribe("api", ch); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := b.Subscribe("api", ch); err != bus.ErrSubscriberExists {
		t.Fatalf("expected ErrSubscriberExists, got %v", err)
	}
	if err := b.Unsubscribe("api"); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if err := b.Unsubscribe("api"); err != bus.ErrSubscriberNotFound {
		t.Fatalf("expected ErrSubscriberNotFound, got %v", err)
	}
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	b := bus.New()
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	b.Publish(msg("evt-1"))
	if err := b.Close(); err != bus.ErrClosed {
		t.Fatalf("expected ErrClosed on second close, got %v", err)
	}
}
