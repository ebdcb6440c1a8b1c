package network

import (
	"testing"

	"dungeon-sim/pkg/api"
)

func TestBroadcaster_RegisterBroadcast(t *testing.T) {
	b := NewBroadcaster(1)
	a := b.Register("a")
	c := b.Register("c")

	b.PublishState(&api.StateView{Tick: 3})

	for name, ch := range map[string]chan api.ServerResponse{"a": a, "c": c} {
		select {
		case msg := <-ch:
			if msg.Type != "STATE" || msg.State.Tick != 3 {
				t.Errorf("%s got %+v", name, msg)
			}
		default:
			t.Errorf("%s received nothing", name)
		}
	}
}

func TestBroadcaster_FullChannelDoesNotBlock(t *testing.T) {
	b := NewBroadcaster(1)
	ch := b.Register("slow")

	b.Broadcast(api.ServerResponse{Type: "STATE"})
	b.Broadcast(api.ServerResponse{Type: "STATE"})

	if len(ch) != 1 {
		t.Errorf("buffered = %d, want 1", len(ch))
	}
}

func TestBroadcaster_Unregister(t *testing.T) {
	b := NewBroadcaster(4)
	ch := b.Register("x")
	b.Unregister("x")

	if _, ok := <-ch; ok {
		t.Error("channel must be closed after Unregister")
	}
	if b.HasSubscriber("x") || b.SubscriberCount() != 0 {
		t.Error("subscriber still registered")
	}
	b.SendTo("x", api.ServerResponse{})
}
