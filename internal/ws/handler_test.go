package ws

import (
	"context"
	"testing"
	"time"

	"github.com/AnJayAx/Personality-Parade/internal/content"
	"github.com/AnJayAx/Personality-Parade/internal/flavor"
	"github.com/AnJayAx/Personality-Parade/internal/hub"
	"github.com/AnJayAx/Personality-Parade/internal/room"
	"github.com/AnJayAx/Personality-Parade/internal/types"
)

func stoppedHub(t *testing.T) *hub.Hub {
	t.Helper()

	pool := content.NewPool([]content.Category{
		{Name: "Foodie types", Roles: []content.Role{{ID: 1, Label: "Hawker Hero"}}},
	})
	h := hub.NewHub(context.Background(), hub.Deps{
		Pool:     pool,
		Gen:      flavor.Canned{},
		Settings: room.DefaultSettings(),
	})

	h.Inbox() <- hub.ShutdownHub{}
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hub never shut down")
	}
	return h
}

// Once the hub loop has exited nothing drains its inbox; commands arriving on
// a connection that is still open must come back promptly instead of hanging
// into the server's shutdown timeout.
func TestDispatchReturnsOnStoppedHub(t *testing.T) {
	h := stoppedHub(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		outbox := make(chan room.Event, 8)
		idx := 0
		dispatch(h, "conn-1", outbox, types.ClientMessage{Type: types.MsgCreateRoom})
		dispatch(h, "conn-1", outbox, types.ClientMessage{Type: types.MsgRejoinAsHost, RoomID: "ABCD"})
		dispatch(h, "conn-1", outbox, types.ClientMessage{Type: types.MsgStartGame, RoomID: "ABCD"})
		dispatch(h, "conn-1", outbox, types.ClientMessage{Type: types.MsgVoteCategory, RoomID: "ABCD", CategoryIndex: &idx})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on a stopped hub")
	}
}

func TestDeliverReportsRoomNotFoundOnStoppedHub(t *testing.T) {
	h := stoppedHub(t)

	outbox := make(chan room.Event, 8)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		deliver(h, outbox, "abcd", room.Start{ConnID: "conn-1"})
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("deliver blocked on a stopped hub")
	}

	select {
	case ev := <-outbox:
		if ev.Type != room.EvtError {
			t.Fatalf("event = %q, want %q", ev.Type, room.EvtError)
		}
		if got := ev.Payload.(room.ErrorPayload).Message; got != "Room not found" {
			t.Fatalf("message = %q, want Room not found", got)
		}
	default:
		t.Fatal("expected an error event on the outbox")
	}
}
