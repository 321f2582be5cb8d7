package room

import (
	"github.com/AnJayAx/Personality-Parade/internal/content"
	"github.com/AnJayAx/Personality-Parade/internal/tally"
)

// Msg is a command delivered to a room's inbox. Everything that can mutate a
// room arrives as one of these, so all mutations are serialized on the room's
// loop goroutine.
type Msg interface{ isRoomMsg() }

// Join adds a connection as a player. Outbox is where the player receives
// events; rejections are sent there too, since the sender may not be a member.
type Join struct {
	ConnID string
	Name   string
	Avatar string
	Outbox chan<- Event
}

// RebindHost reassigns room ownership to a new connection.
type RebindHost struct {
	ConnID string
	Outbox chan<- Event
}

// Start begins the first category vote. Host only.
type Start struct{ ConnID string }

// VoteCategory records one player's category ballot for the round.
type VoteCategory struct {
	ConnID string
	Index  int
}

// SubmitAssignments records one player's role nominations for the round,
// in the order the player recorded them.
type SubmitAssignments struct {
	ConnID string
	Pairs  []tally.Pair
}

// NextRound advances past a reveal. Host only.
type NextRound struct{ ConnID string }

// Leave removes a disconnected connection. Fanned out by the registry to
// every room; rooms that never saw the connection ignore it.
type Leave struct{ ConnID string }

// Shutdown closes the room and notifies remaining connections.
type Shutdown struct{}

// countdownFired is the assignment countdown elapsing. Carries the round it
// was armed for so a stale timer can never resolve a later round.
type countdownFired struct{ round int }

// GetState asks the loop for a consistent snapshot. Test-only: it reflects
// internal state without data races.
type GetState struct{ Reply chan View }

// View is a read-only copy of room state.
type View struct {
	Code        string
	Phase       Phase
	HostID      string
	Round       int
	Players     []Player
	Options     []content.Category
	Current     *content.Category
	Results     map[int]RoleResult
	Votes       int
	Submissions int
	TimerArmed  bool
}

func (Join) isRoomMsg()              {}
func (RebindHost) isRoomMsg()        {}
func (Start) isRoomMsg()             {}
func (VoteCategory) isRoomMsg()      {}
func (SubmitAssignments) isRoomMsg() {}
func (NextRound) isRoomMsg()         {}
func (Leave) isRoomMsg()             {}
func (Shutdown) isRoomMsg()          {}
func (countdownFired) isRoomMsg()    {}
func (GetState) isRoomMsg()          {}
