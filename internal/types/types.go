// Package types defines the websocket wire format between controllers, the
// host display, and the coordinator.
package types

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/AnJayAx/Personality-Parade/internal/tally"
)

// Client -> server message types.
const (
	MsgCreateRoom        = "createRoom"
	MsgRejoinAsHost      = "rejoinAsHost"
	MsgJoinRoom          = "joinRoom"
	MsgStartGame         = "startGame"
	MsgVoteCategory      = "voteCategory"
	MsgSubmitAssignments = "submitAssignments"
	MsgNextRound         = "nextRound"
)

// ClientMessage is any inbound command. Fields beyond Type are set depending
// on the command; CategoryIndex is a pointer so index 0 survives decoding.
type ClientMessage struct {
	Type          string         `json:"type"`
	RoomID        string         `json:"roomId,omitempty"`
	Name          string         `json:"name,omitempty"`
	Avatar        string         `json:"avatar,omitempty"`
	CategoryIndex *int           `json:"categoryIndex,omitempty"`
	Assignments   AssignmentList `json:"assignments,omitempty"`
}

// ServerMessage is any outbound event: the event name plus its payload.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// AssignmentList is a voter's {targetPlayerId: roleId} object, decoded with
// key order preserved. Role-assignment tie-breaks depend on the order a voter
// recorded nominations, and a plain map would throw that away.
type AssignmentList []tally.Pair

func (l *AssignmentList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("assignments must be an object")
	}

	var pairs []tally.Pair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		target, ok := keyTok.(string)
		if !ok {
			return errors.New("assignment target must be a string")
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return errors.New("assignment role must be a number")
		}
		roleID, err := num.Int64()
		if err != nil {
			return err
		}

		pairs = append(pairs, tally.Pair{Target: target, Role: int(roleID)})
	}

	if _, err := dec.Token(); err != nil { // closing brace
		return err
	}

	*l = pairs
	return nil
}

func (l AssignmentList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pair := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pair.Target)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(pair.Role)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
