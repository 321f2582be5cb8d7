package room

import "github.com/AnJayAx/Personality-Parade/internal/content"

// Event is an outbound notification delivered to connection outboxes. The
// websocket layer marshals it as {type, payload}.
type Event struct {
	Type    string
	Payload any
}

// Event types emitted by a room (and, for roomCreated, by the registry).
const (
	EvtRoomCreated        = "roomCreated"
	EvtHostJoined         = "hostJoined"
	EvtJoinedRoom         = "joinedRoom"
	EvtPlayerJoined       = "playerJoined"
	EvtPlayerLeft         = "playerLeft"
	EvtGameStarted        = "gameStarted"
	EvtCategoryVoteUpdate = "categoryVoteUpdate"
	EvtCategorySelected   = "categorySelected"
	EvtAssignmentProgress = "assignmentProgress"
	EvtResultsReady       = "resultsReady"
	EvtGameSummary        = "gameSummary"
	EvtRoomClosed         = "roomClosed"
	EvtError              = "error"
)

// Player is one connected participant. Score only ever increases; EarnedRoles
// is append-only and may repeat a label across rounds.
type Player struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Avatar      string   `json:"avatar"`
	Score       int      `json:"score"`
	EarnedRoles []string `json:"earnedRoles"`
}

// RoleResult is one entry of a round's reveal payload.
type RoleResult struct {
	RoleID       int            `json:"roleId"`
	RoleLabel    string         `json:"roleLabel"`
	WinnerID     string         `json:"winnerId"`
	WinnerName   string         `json:"winnerName"`
	WinnerAvatar string         `json:"winnerAvatar"`
	Votes        int            `json:"votes"`
	Description  string         `json:"description"`
	VoteCounts   map[string]int `json:"voteCounts"`
}

// PlayerSummary is a player plus their end-of-game title.
type PlayerSummary struct {
	Player
	Title string `json:"title"`
}

type RoomCreatedPayload struct {
	RoomID string `json:"roomId"`
}

type HostJoinedPayload struct {
	RoomID  string   `json:"roomId"`
	Players []Player `json:"players"`
}

type JoinedRoomPayload struct {
	RoomID  string   `json:"roomId"`
	Player  Player   `json:"player"`
	Players []Player `json:"players"`
}

type PlayerJoinedPayload struct {
	Player  Player   `json:"player"`
	Players []Player `json:"players"`
}

type PlayerLeftPayload struct {
	PlayerID string   `json:"playerId"`
	Players  []Player `json:"players"`
}

type GameStartedPayload struct {
	Phase           Phase              `json:"phase"`
	CategoryOptions []content.Category `json:"categoryOptions"`
	Round           int                `json:"round,omitempty"`
}

type CategoryVoteUpdatePayload struct {
	Voted int `json:"voted"`
	Total int `json:"total"`
}

type CategorySelectedPayload struct {
	Category content.Category `json:"category"`
	Phase    Phase            `json:"phase"`
}

type AssignmentProgressPayload struct {
	Submitted int `json:"submitted"`
	Total     int `json:"total"`
}

type ResultsReadyPayload struct {
	Results map[int]RoleResult `json:"results"`
	Players []Player           `json:"players"`
	Phase   Phase              `json:"phase"`
}

type GameSummaryPayload struct {
	Summaries []PlayerSummary `json:"summaries"`
	Phase     Phase           `json:"phase"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
