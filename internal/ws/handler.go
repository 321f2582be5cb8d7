// Package ws bridges websocket connections to the hub and rooms. Each
// connection gets a stable uuid identity and an outbox channel; a writer
// goroutine drains the outbox while the reader loop turns wire messages into
// room commands.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnJayAx/Personality-Parade/internal/hub"
	"github.com/AnJayAx/Personality-Parade/internal/room"
	"github.com/AnJayAx/Personality-Parade/internal/types"
)

const (
	outboxSize   = 32
	writeTimeout = 3 * time.Second
)

func Handler(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// Controllers are phones on arbitrary networks.
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		outbox := make(chan room.Event, outboxSize)
		log := logger.With(zap.String("conn", connID))

		// Every room that knows this connection decides what the departure
		// means for it (roster update, or full teardown for a host). A hub
		// that already shut down stops draining its inbox, so don't block
		// on it.
		defer func() {
			select {
			case h.Inbox() <- hub.Disconnect{ConnID: connID}:
			case <-h.Done():
			}
		}()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case ev := <-outbox:
					payload, err := json.Marshal(types.ServerMessage{Type: ev.Type, Payload: ev.Payload})
					if err != nil {
						log.Error("event marshal failed", zap.String("event", ev.Type), zap.Error(err))
						continue
					}
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		log.Debug("websocket connected")

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("websocket read ended", zap.Error(err))
				}
				return
			}

			var msg types.ClientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				sendError(outbox, "Invalid message")
				continue
			}

			dispatch(h, connID, outbox, msg)
		}
	}
}

// dispatch resolves a client message to a hub or room command. Unknown rooms
// and malformed commands come back as error events on this connection only.
func dispatch(h *hub.Hub, connID string, outbox chan room.Event, msg types.ClientMessage) {
	switch msg.Type {
	case types.MsgCreateRoom:
		reply := make(chan *room.Room, 1)
		select {
		case h.Inbox() <- hub.CreateRoom{ConnID: connID, Outbox: outbox, Reply: reply}:
		case <-h.Done():
			sendError(outbox, "Failed to create room")
			return
		}
		select {
		case rm := <-reply:
			if rm == nil {
				sendError(outbox, "Failed to create room")
			}
		case <-h.Done():
		}

	case types.MsgRejoinAsHost:
		if msg.RoomID == "" {
			sendError(outbox, "Room code required")
			return
		}
		reply := make(chan *room.Room, 1)
		select {
		case h.Inbox() <- hub.RebindHost{Code: strings.ToUpper(msg.RoomID), ConnID: connID, Outbox: outbox, Reply: reply}:
		case <-h.Done():
			return
		}
		select {
		case <-reply:
		case <-h.Done():
		}

	case types.MsgJoinRoom:
		deliver(h, outbox, msg.RoomID, room.Join{
			ConnID: connID,
			Name:   msg.Name,
			Avatar: msg.Avatar,
			Outbox: outbox,
		})

	case types.MsgStartGame:
		deliver(h, outbox, msg.RoomID, room.Start{ConnID: connID})

	case types.MsgVoteCategory:
		if msg.CategoryIndex == nil {
			sendError(outbox, "Category index required")
			return
		}
		deliver(h, outbox, msg.RoomID, room.VoteCategory{ConnID: connID, Index: *msg.CategoryIndex})

	case types.MsgSubmitAssignments:
		deliver(h, outbox, msg.RoomID, room.SubmitAssignments{ConnID: connID, Pairs: msg.Assignments})

	case types.MsgNextRound:
		deliver(h, outbox, msg.RoomID, room.NextRound{ConnID: connID})

	default:
		sendError(outbox, "Unknown message type")
	}
}

// deliver routes a command to the room for the given code, reporting a
// not-found error back to the sender when the code is unknown or the room has
// already been torn down.
func deliver(h *hub.Hub, outbox chan room.Event, code string, cmd room.Msg) {
	code = strings.ToUpper(code)

	reply := make(chan *room.Room, 1)
	select {
	case h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}:
	case <-h.Done():
		sendError(outbox, "Room not found")
		return
	}

	var rm *room.Room
	select {
	case rm = <-reply:
	case <-h.Done():
	}
	if rm == nil || !rm.Deliver(cmd) {
		sendError(outbox, "Room not found")
	}
}

func sendError(outbox chan room.Event, message string) {
	select {
	case outbox <- room.Event{Type: room.EvtError, Payload: room.ErrorPayload{Message: message}}:
	default:
	}
}
