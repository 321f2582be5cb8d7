package hub

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AnJayAx/Personality-Parade/internal/content"
	"github.com/AnJayAx/Personality-Parade/internal/flavor"
	"github.com/AnJayAx/Personality-Parade/internal/room"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	pool := content.NewPool([]content.Category{
		{Name: "Foodie types", Roles: []content.Role{{ID: 1, Label: "Hawker Hero"}}},
	})
	settings := room.DefaultSettings()
	settings.CategoryChoices = 1

	h := NewHub(context.Background(), Deps{
		Pool:     pool,
		Gen:      flavor.Canned{},
		Settings: settings,
	})
	t.Cleanup(func() { h.Inbox() <- ShutdownHub{} })
	return h
}

func createRoom(t *testing.T, h *Hub, connID string) (*room.Room, chan room.Event) {
	t.Helper()
	out := make(chan room.Event, 64)
	reply := make(chan *room.Room, 1)
	h.Inbox() <- CreateRoom{ConnID: connID, Outbox: out, Reply: reply}

	rm := recvRoom(t, reply)
	require.NotNil(t, rm)
	return rm, out
}

func getRoom(t *testing.T, h *Hub, code string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- GetRoom{Code: code, Reply: reply}
	return recvRoom(t, reply)
}

func recvRoom(t *testing.T, reply chan *room.Room) *room.Room {
	t.Helper()
	select {
	case rm := <-reply:
		return rm
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for hub reply")
		return nil
	}
}

func recvEvent(t *testing.T, ch <-chan room.Event, evType string) room.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Type == evType {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", evType)
			return room.Event{}
		}
	}
}

func TestCreateThenGetSameRoom(t *testing.T) {
	h := newTestHub(t)

	rm, out := createRoom(t, h, "host-1")

	created := recvEvent(t, out, room.EvtRoomCreated).Payload.(room.RoomCreatedPayload)
	require.Len(t, created.RoomID, 4)
	for _, ch := range created.RoomID {
		require.Contains(t, codeAlphabet, string(ch))
	}

	require.Same(t, rm, getRoom(t, h, created.RoomID))
}

func TestGetUnknownCodeIsNil(t *testing.T) {
	h := newTestHub(t)
	require.Nil(t, getRoom(t, h, "ZZZZ"))
}

func TestRoomCodesAreUnique(t *testing.T) {
	h := newTestHub(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		_, out := createRoom(t, h, "host")
		created := recvEvent(t, out, room.EvtRoomCreated).Payload.(room.RoomCreatedPayload)
		require.False(t, seen[created.RoomID], "duplicate code %s", created.RoomID)
		seen[created.RoomID] = true
	}
}

func TestRebindExistingRoomKeepsState(t *testing.T) {
	h := newTestHub(t)
	rm, out := createRoom(t, h, "host-1")
	created := recvEvent(t, out, room.EvtRoomCreated).Payload.(room.RoomCreatedPayload)

	playerOut := make(chan room.Event, 64)
	require.True(t, rm.Deliver(room.Join{ConnID: "p1", Name: "Alice", Outbox: playerOut}))
	recvEvent(t, playerOut, room.EvtJoinedRoom)

	newOut := make(chan room.Event, 64)
	reply := make(chan *room.Room, 1)
	h.Inbox() <- RebindHost{Code: created.RoomID, ConnID: "host-2", Outbox: newOut, Reply: reply}
	require.Same(t, rm, recvRoom(t, reply))

	joined := recvEvent(t, newOut, room.EvtHostJoined).Payload.(room.HostJoinedPayload)
	require.Equal(t, created.RoomID, joined.RoomID)
	require.Len(t, joined.Players, 1, "existing roster survives a host rebind")
}

func TestRebindUnknownCodeFabricatesEmptyRoom(t *testing.T) {
	h := newTestHub(t)

	out := make(chan room.Event, 64)
	reply := make(chan *room.Room, 1)
	h.Inbox() <- RebindHost{Code: "QQQQ", ConnID: "host-1", Outbox: out, Reply: reply}
	rm := recvRoom(t, reply)
	require.NotNil(t, rm)

	joined := recvEvent(t, out, room.EvtHostJoined).Payload.(room.HostJoinedPayload)
	require.Equal(t, "QQQQ", joined.RoomID)
	require.Empty(t, joined.Players)

	require.Same(t, rm, getRoom(t, h, "QQQQ"))
}

func TestHostDisconnectRemovesRoomFromRegistry(t *testing.T) {
	h := newTestHub(t)
	_, out := createRoom(t, h, "host-1")
	created := recvEvent(t, out, room.EvtRoomCreated).Payload.(room.RoomCreatedPayload)

	h.Inbox() <- Disconnect{ConnID: "host-1"}

	recvEvent(t, out, room.EvtRoomClosed)
	require.Eventually(t, func() bool {
		return getRoom(t, h, created.RoomID) == nil
	}, 2*time.Second, 10*time.Millisecond, "registry forgets the torn-down code")
}

func TestDisconnectOfStrangerLeavesRoomsAlone(t *testing.T) {
	h := newTestHub(t)
	rm, out := createRoom(t, h, "host-1")
	created := recvEvent(t, out, room.EvtRoomCreated).Payload.(room.RoomCreatedPayload)

	h.Inbox() <- Disconnect{ConnID: "nobody"}

	// The room is still registered and still accepts commands.
	require.Eventually(t, func() bool {
		return getRoom(t, h, created.RoomID) == rm
	}, time.Second, 10*time.Millisecond)
	require.True(t, rm.Deliver(room.GetState{Reply: make(chan room.View, 1)}))
}

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, codeLength)
		for _, ch := range code {
			require.True(t, strings.ContainsRune(codeAlphabet, ch), "unexpected glyph %q", ch)
		}
	}
}
