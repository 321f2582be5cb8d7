// Package hub is the process-wide room registry. A single loop goroutine owns
// the code -> room map, so creation, lookup, host rebinding, and teardown are
// naturally serialized; disconnects fan out to every room, which decide for
// themselves whether the departure ends their session.
package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/AnJayAx/Personality-Parade/internal/content"
	"github.com/AnJayAx/Personality-Parade/internal/flavor"
	"github.com/AnJayAx/Personality-Parade/internal/room"
)

type HubMsg interface{ isHubMsg() }

// CreateRoom allocates a fresh room under a generated code, owned by the
// requesting connection. The connection gets a roomCreated event.
type CreateRoom struct {
	ConnID string
	Outbox chan<- room.Event
	Reply  chan *room.Room
}

// GetRoom looks up a live room. Reply receives nil when the code is unknown.
type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

// RebindHost reassigns a room's owning connection. If the code is unknown a
// brand-new empty room is fabricated under that exact code; any prior session
// under it is gone.
type RebindHost struct {
	Code   string
	ConnID string
	Outbox chan<- room.Event
	Reply  chan *room.Room
}

// Disconnect removes a connection from every room that knows it.
type Disconnect struct{ ConnID string }

// ShutdownHub closes every room and stops the hub.
type ShutdownHub struct{}

// removeRoom is sent by a room's OnClose hook after teardown.
type removeRoom struct{ Code string }

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RebindHost) isHubMsg()  {}
func (Disconnect) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}
func (removeRoom) isHubMsg()  {}

// Deps are shared by every room the hub spawns.
type Deps struct {
	Pool     *content.Pool
	Gen      flavor.Generator
	Logger   *zap.Logger
	Settings room.Settings
}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	deps   Deps
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, deps Deps) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		deps:   deps,
		log:    deps.Logger.Named("hub"),
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub has shut down and stopped draining its inbox.
// Senders must select on it or risk blocking forever.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				msg.Reply <- h.createRoom(msg)

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case RebindHost:
				rm := h.rooms[msg.Code]
				if rm == nil {
					h.log.Info("rebind to unknown code, creating room", zap.String("room", msg.Code))
					rm = h.spawn(msg.Code, msg.ConnID, msg.Outbox)
				}
				rm.Deliver(room.RebindHost{ConnID: msg.ConnID, Outbox: msg.Outbox})
				msg.Reply <- rm

			case Disconnect:
				for _, rm := range h.rooms {
					rm.Deliver(room.Leave{ConnID: msg.ConnID})
				}

			case removeRoom:
				delete(h.rooms, msg.Code)

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Deliver(room.Shutdown{})
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}

func (h *Hub) createRoom(msg CreateRoom) *room.Room {
	var code string
	for {
		c, err := generateCode()
		if err != nil {
			h.log.Error("room code generation failed", zap.Error(err))
			return nil
		}
		if _, taken := h.rooms[c]; !taken {
			code = c
			break
		}
		h.log.Debug("room code collision, regenerating", zap.String("code", c))
	}

	rm := h.spawn(code, msg.ConnID, msg.Outbox)

	// Creation acknowledgment goes straight to the owner; every later event
	// comes from the room itself.
	select {
	case msg.Outbox <- room.Event{Type: room.EvtRoomCreated, Payload: room.RoomCreatedPayload{RoomID: code}}:
	default:
	}

	h.log.Info("room created", zap.String("room", code))
	return rm
}

func (h *Hub) spawn(code, hostID string, outbox chan<- room.Event) *room.Room {
	rm := room.New(h.ctx, code, hostID, outbox, room.Deps{
		Pool:     h.deps.Pool,
		Gen:      h.deps.Gen,
		Logger:   h.deps.Logger,
		Settings: h.deps.Settings,
		OnClose: func(code string) {
			// Called from the room loop; don't let a full hub inbox wedge it.
			go func() {
				select {
				case h.inbox <- removeRoom{Code: code}:
				case <-h.ctx.Done():
				}
			}()
		},
	})
	h.rooms[code] = rm
	return rm
}
