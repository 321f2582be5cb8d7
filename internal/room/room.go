// Package room implements the per-session coordinator: one goroutine per room
// consumes a serialized command inbox, owns the phase state machine and the
// assignment countdown, and derives every outbound broadcast from the state it
// just committed. Phase transitions always commit before any flavor-text call
// is made, so a duplicate trigger (countdown racing a full submission) sees
// the updated phase and becomes a no-op.
package room

import (
	"context"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/AnJayAx/Personality-Parade/internal/content"
	"github.com/AnJayAx/Personality-Parade/internal/flavor"
	"github.com/AnJayAx/Personality-Parade/internal/tally"
)

// Phase is a room's current stage.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseCategory Phase = "category"
	PhaseAssign   Phase = "assign"
	PhaseReveal   Phase = "reveal"
	PhaseSummary  Phase = "summary"
)

// Settings are the per-room game parameters.
type Settings struct {
	MinPlayers      int
	MaxPlayers      int
	TotalRounds     int
	CategoryChoices int
	AssignTimeout   time.Duration
	FlavorTimeout   time.Duration
}

// DefaultSettings returns the standard 4-round, 8-player game.
func DefaultSettings() Settings {
	return Settings{
		MinPlayers:      2,
		MaxPlayers:      8,
		TotalRounds:     4,
		CategoryChoices: 5,
		AssignTimeout:   60 * time.Second,
		FlavorTimeout:   10 * time.Second,
	}
}

// Deps are the collaborators a room needs.
type Deps struct {
	Pool     *content.Pool
	Gen      flavor.Generator
	Logger   *zap.Logger
	Settings Settings
	// OnClose is called once when the room tears down, so the registry can
	// forget it. Must not block.
	OnClose func(code string)
}

// Room is one game session. All fields below the inbox are owned by the loop
// goroutine and must not be touched from outside.
type Room struct {
	inbox  chan Msg
	ctx    context.Context
	cancel context.CancelFunc

	code string
	deps Deps
	log  *zap.Logger

	hostID      string
	phase       Phase
	players     []*Player
	conns       map[string]chan<- Event
	options     []content.Category
	current     *content.Category
	votes       map[string]int
	submissions []tally.Submission
	submitted   map[string]bool
	results     map[int]RoleResult
	round       int
	timer       *time.Timer
	closed      bool
}

// New spawns a room in the lobby phase, owned by the given host connection.
func New(parent context.Context, code, hostID string, hostOutbox chan<- Event, deps Deps) *Room {
	ctx, cancel := context.WithCancel(parent)
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := &Room{
		inbox:     make(chan Msg, 64),
		ctx:       ctx,
		cancel:    cancel,
		code:      code,
		deps:      deps,
		log:       deps.Logger.With(zap.String("room", code)),
		hostID:    hostID,
		phase:     PhaseLobby,
		conns:     map[string]chan<- Event{hostID: hostOutbox},
		votes:     make(map[string]int),
		submitted: make(map[string]bool),
	}

	go r.loop()
	return r
}

// Code returns the room's identifier.
func (r *Room) Code() string { return r.code }

// Deliver queues a command for the room. It reports false once the room has
// been torn down, at which point the command is dropped.
func (r *Room) Deliver(m Msg) bool {
	select {
	case <-r.ctx.Done():
		return false
	default:
	}

	select {
	case r.inbox <- m:
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case RebindHost:
				r.handleRebindHost(msg)
			case Start:
				r.handleStart(msg)
			case VoteCategory:
				r.handleVoteCategory(msg)
			case SubmitAssignments:
				r.handleSubmitAssignments(msg)
			case NextRound:
				r.handleNextRound(msg)
			case Leave:
				r.handleLeave(msg)
			case countdownFired:
				r.handleCountdown(msg)
			case GetState:
				msg.Reply <- r.view()
			case Shutdown:
				r.close()
			}

			if r.closed {
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	if r.phase != PhaseLobby {
		r.emit(msg.Outbox, Event{EvtError, ErrorPayload{ErrGameAlreadyStarted.Error()}})
		return
	}
	if p := r.playerByID(msg.ConnID); p != nil {
		// Repeat join from a connection already on the roster. Refresh the
		// outbox and replay the join acknowledgment; duplicating the entry
		// would leave the category ballot waiting on a vote that can never
		// arrive, since votes are keyed by connection.
		r.conns[msg.ConnID] = msg.Outbox
		r.emit(msg.Outbox, Event{EvtJoinedRoom, JoinedRoomPayload{RoomID: r.code, Player: snapshotPlayer(p), Players: r.roster()}})
		return
	}
	if len(r.players) >= r.deps.Settings.MaxPlayers {
		r.emit(msg.Outbox, Event{EvtError, ErrorPayload{ErrRoomFull.Error()}})
		return
	}

	name := msg.Name
	if name == "" {
		name = "Player " + strconv.Itoa(len(r.players)+1)
	}
	avatar := msg.Avatar
	if avatar == "" {
		avatar = "😊"
	}

	p := &Player{ID: msg.ConnID, Name: name, Avatar: avatar, EarnedRoles: []string{}}
	r.players = append(r.players, p)
	r.conns[msg.ConnID] = msg.Outbox

	roster := r.roster()
	r.broadcast(Event{EvtPlayerJoined, PlayerJoinedPayload{Player: *p, Players: roster}})
	r.emit(msg.Outbox, Event{EvtJoinedRoom, JoinedRoomPayload{RoomID: r.code, Player: *p, Players: roster}})
	r.log.Info("player joined", zap.String("player", name), zap.Int("players", len(r.players)))
}

func (r *Room) handleRebindHost(msg RebindHost) {
	r.hostID = msg.ConnID
	r.conns[msg.ConnID] = msg.Outbox
	r.emit(msg.Outbox, Event{EvtHostJoined, HostJoinedPayload{RoomID: r.code, Players: r.roster()}})
	r.log.Info("host rebound", zap.String("host", msg.ConnID))
}

func (r *Room) handleStart(msg Start) {
	switch {
	case r.phase != PhaseLobby:
		r.reject(msg.ConnID, ErrGameAlreadyStarted)
	case msg.ConnID != r.hostID:
		r.reject(msg.ConnID, ErrNotAuthorized)
	case len(r.players) < r.deps.Settings.MinPlayers:
		r.reject(msg.ConnID, ErrNotEnoughPlayers)
	default:
		r.startCategoryVote(0)
		r.log.Info("game started", zap.Int("players", len(r.players)))
	}
}

// startCategoryVote samples fresh options and opens the ballot for the given
// round number.
func (r *Room) startCategoryVote(round int) {
	r.round = round
	r.options = r.deps.Pool.Sample(r.deps.Settings.CategoryChoices)
	r.current = nil
	r.votes = make(map[string]int)
	r.phase = PhaseCategory

	payload := GameStartedPayload{Phase: PhaseCategory, CategoryOptions: r.options}
	if round > 0 {
		payload.Round = round + 1
	}
	r.broadcast(Event{EvtGameStarted, payload})
}

func (r *Room) handleVoteCategory(msg VoteCategory) {
	switch {
	case r.phase != PhaseCategory:
		r.reject(msg.ConnID, ErrWrongPhase)
	case r.playerByID(msg.ConnID) == nil:
		r.reject(msg.ConnID, ErrNotInRoom)
	case hasVoted(r.votes, msg.ConnID):
		r.reject(msg.ConnID, ErrAlreadyVoted)
	case msg.Index < 0 || msg.Index >= len(r.options):
		r.reject(msg.ConnID, ErrInvalidCategory)
	default:
		r.votes[msg.ConnID] = msg.Index
		if len(r.votes) == len(r.players) {
			r.resolveCategory()
		} else {
			r.broadcast(Event{EvtCategoryVoteUpdate, CategoryVoteUpdatePayload{
				Voted: len(r.votes),
				Total: len(r.players),
			}})
		}
	}
}

func (r *Room) resolveCategory() {
	winner, ok := tally.WinningCategory(r.votes)
	if !ok {
		return
	}

	chosen := r.options[winner]
	r.current = &chosen
	r.votes = make(map[string]int)
	r.submissions = nil
	r.submitted = make(map[string]bool)
	r.phase = PhaseAssign

	r.broadcast(Event{EvtCategorySelected, CategorySelectedPayload{Category: chosen, Phase: PhaseAssign}})
	r.armCountdown()
	r.log.Info("category selected", zap.String("category", chosen.Name), zap.Int("round", r.round+1))
}

func (r *Room) handleSubmitAssignments(msg SubmitAssignments) {
	switch {
	case r.phase != PhaseAssign:
		r.reject(msg.ConnID, ErrWrongPhase)
	case r.playerByID(msg.ConnID) == nil:
		r.reject(msg.ConnID, ErrNotInRoom)
	case r.submitted[msg.ConnID]:
		r.reject(msg.ConnID, ErrAlreadySubmitted)
	default:
		r.submissions = append(r.submissions, tally.Submission{Voter: msg.ConnID, Pairs: msg.Pairs})
		r.submitted[msg.ConnID] = true

		r.broadcast(Event{EvtAssignmentProgress, AssignmentProgressPayload{
			Submitted: len(r.submissions),
			Total:     len(r.players),
		}})

		if len(r.submissions) >= len(r.players) {
			r.resolveReveal()
		}
	}
}

func (r *Room) handleCountdown(msg countdownFired) {
	// The countdown races full submission; whichever loses must be a no-op.
	if r.phase != PhaseAssign || msg.round != r.round {
		r.log.Debug("stale countdown ignored", zap.Int("firedRound", msg.round))
		return
	}
	r.log.Info("assignment countdown elapsed",
		zap.Int("submitted", len(r.submissions)),
		zap.Int("players", len(r.players)))
	r.resolveReveal()
}

// resolveReveal tallies whatever was submitted, awards points, and commits the
// reveal. The phase change happens before any flavor call so a queued
// duplicate trigger sees it.
func (r *Room) resolveReveal() {
	r.stopCountdown()

	roleIDs := make([]int, len(r.current.Roles))
	for i, role := range r.current.Roles {
		roleIDs[i] = role.ID
	}
	outcome := tally.Roles(roleIDs, r.submissions)

	r.phase = PhaseReveal

	results := make(map[int]RoleResult, len(outcome))
	for _, role := range r.current.Roles {
		res, ok := outcome[role.ID]
		if !ok {
			continue // nobody nominated this role
		}

		winner := r.playerByID(res.Winner)
		if winner == nil {
			continue // winner disconnected before the tally
		}

		winner.Score += res.Votes
		winner.EarnedRoles = append(winner.EarnedRoles, role.Label)

		results[role.ID] = RoleResult{
			RoleID:       role.ID,
			RoleLabel:    role.Label,
			WinnerID:     winner.ID,
			WinnerName:   winner.Name,
			WinnerAvatar: winner.Avatar,
			Votes:        res.Votes,
			VoteCounts:   res.Counts,
		}
	}

	// Flavor text comes last, in category-role order; a failed call gets the
	// deterministic fallback and never blocks the rest.
	for _, role := range r.current.Roles {
		entry, ok := results[role.ID]
		if !ok {
			continue
		}
		entry.Description = r.describe(entry.WinnerName, role.Label)
		results[role.ID] = entry
	}

	r.results = results
	r.broadcast(Event{EvtResultsReady, ResultsReadyPayload{
		Results: results,
		Players: r.roster(),
		Phase:   PhaseReveal,
	}})
	r.log.Info("round revealed", zap.Int("round", r.round+1), zap.Int("rolesWon", len(results)))
}

func (r *Room) handleNextRound(msg NextRound) {
	switch {
	case msg.ConnID != r.hostID:
		r.reject(msg.ConnID, ErrNotAuthorized)
	case r.phase != PhaseReveal:
		r.reject(msg.ConnID, ErrWrongPhase)
	case r.round+1 >= r.deps.Settings.TotalRounds:
		r.finishGame()
	default:
		r.startCategoryVote(r.round + 1)
	}
}

// finishGame commits the terminal phase, then collects titles and broadcasts
// the scoreboard.
func (r *Room) finishGame() {
	r.phase = PhaseSummary

	summaries := make([]PlayerSummary, 0, len(r.players))
	for _, p := range r.players {
		summaries = append(summaries, PlayerSummary{
			Player: snapshotPlayer(p),
			Title:  r.title(p.Name, p.EarnedRoles),
		})
	}

	// Descending score; equal scores keep roster order.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Score > summaries[j].Score
	})

	r.broadcast(Event{EvtGameSummary, GameSummaryPayload{Summaries: summaries, Phase: PhaseSummary}})
	r.log.Info("game finished", zap.Int("players", len(summaries)))
}

func (r *Room) handleLeave(msg Leave) {
	_, known := r.conns[msg.ConnID]
	delete(r.conns, msg.ConnID)

	removed := false
	for i, p := range r.players {
		if p.ID == msg.ConnID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			removed = true
			break
		}
	}

	if removed {
		r.broadcast(Event{EvtPlayerLeft, PlayerLeftPayload{PlayerID: msg.ConnID, Players: r.roster()}})
		r.log.Info("player left", zap.String("conn", msg.ConnID), zap.Int("players", len(r.players)))

		// The category phase has no countdown, so a departed non-voter would
		// otherwise stall the ballot forever. Drop their entry and re-check
		// completion against the shrunken roster.
		if r.phase == PhaseCategory {
			delete(r.votes, msg.ConnID)
			if len(r.players) > 0 && len(r.votes) == len(r.players) {
				r.resolveCategory()
			}
		}
	}

	// Host gone or room emptied out: the session is over, whatever the phase.
	if msg.ConnID == r.hostID || (removed && len(r.players) == 0) {
		if known || removed {
			r.close()
		}
	}
}

// close tears the room down: notify everyone, disarm the countdown, tell the
// registry to forget the code, and stop the loop.
func (r *Room) close() {
	if r.closed {
		return
	}
	r.closed = true

	r.broadcast(Event{EvtRoomClosed, struct{}{}})
	r.stopCountdown()
	if r.deps.OnClose != nil {
		r.deps.OnClose(r.code)
	}
	r.cancel()
	r.log.Info("room closed")
}

func (r *Room) armCountdown() {
	r.stopCountdown()
	round := r.round
	r.timer = time.AfterFunc(r.deps.Settings.AssignTimeout, func() {
		r.Deliver(countdownFired{round: round})
	})
}

func (r *Room) stopCountdown() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Room) describe(playerName, roleLabel string) string {
	ctx, cancel := context.WithTimeout(r.ctx, r.deps.Settings.FlavorTimeout)
	defer cancel()

	text, err := r.deps.Gen.Describe(ctx, playerName, roleLabel)
	if err != nil {
		r.log.Warn("description generation failed", zap.String("role", roleLabel), zap.Error(err))
		return flavor.FallbackDescription(playerName, roleLabel)
	}
	return text
}

func (r *Room) title(playerName string, earnedRoles []string) string {
	ctx, cancel := context.WithTimeout(r.ctx, r.deps.Settings.FlavorTimeout)
	defer cancel()

	text, err := r.deps.Gen.Title(ctx, playerName, earnedRoles)
	if err != nil {
		r.log.Warn("title generation failed", zap.String("player", playerName), zap.Error(err))
		return flavor.FallbackTitle(earnedRoles)
	}
	return text
}

func (r *Room) playerByID(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// roster copies the player list so outbox consumers can marshal it while the
// loop keeps mutating the originals.
func (r *Room) roster() []Player {
	out := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, snapshotPlayer(p))
	}
	return out
}

func snapshotPlayer(p *Player) Player {
	copied := *p
	copied.EarnedRoles = append([]string(nil), p.EarnedRoles...)
	return copied
}

func (r *Room) broadcast(ev Event) {
	for id, outbox := range r.conns {
		r.emitTo(id, outbox, ev)
	}
}

func (r *Room) emit(outbox chan<- Event, ev Event) {
	r.emitTo("", outbox, ev)
}

func (r *Room) emitTo(connID string, outbox chan<- Event, ev Event) {
	select {
	case outbox <- ev:
	default:
		// Outbox full means a wedged client; drop the event rather than
		// stalling the whole room.
		r.log.Warn("event dropped, outbox full",
			zap.String("conn", connID),
			zap.String("event", ev.Type))
	}
}

// reject sends a validation error to the offending connection only.
func (r *Room) reject(connID string, err error) {
	if outbox, ok := r.conns[connID]; ok {
		r.emit(outbox, Event{EvtError, ErrorPayload{err.Error()}})
	}
	r.log.Debug("command rejected", zap.String("conn", connID), zap.String("reason", err.Error()))
}

func (r *Room) view() View {
	v := View{
		Code:        r.code,
		Phase:       r.phase,
		HostID:      r.hostID,
		Round:       r.round,
		Players:     r.roster(),
		Options:     r.options,
		Current:     r.current,
		Results:     r.results,
		Votes:       len(r.votes),
		Submissions: len(r.submissions),
		TimerArmed:  r.timer != nil,
	}
	return v
}

func hasVoted(votes map[string]int, id string) bool {
	_, ok := votes[id]
	return ok
}
