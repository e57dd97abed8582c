package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"warden/internal/app"
	"warden/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the runtime state of one warden session.
type MatchState struct {
	Tick      int64
	Roster    *matchRoster
	Router    *app.Router
	outbox    *outbox
	scheduler *tickScheduler
	console   *consoleBuffer

	// locales keeps the "lang" join metadata between MatchJoinAttempt and MatchJoin.
	locales map[string]string

	rosterDirty bool
	lastHolder  string
	lastLabel   string
}

type matchHandler struct {
	module *module
}

func newMatchHandler(m *module) *matchHandler {
	return &matchHandler{module: m}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if matchID, ok := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string); ok {
		logger = logger.WithField("match_id", matchID)
	}
	logger.Debug("MatchInit: Initializing warden match.")

	cfg := mh.module.cfg
	state := &MatchState{
		Roster:    newMatchRoster(),
		outbox:    &outbox{},
		scheduler: newTickScheduler(cfg.TickRate),
		console:   &consoleBuffer{},
		locales:   make(map[string]string),
	}

	var accounts accountReader
	if nk != nil {
		accounts = nk
	}
	state.Router = app.NewRouter(app.RouterConfig{
		Roster: state.Roster,
		Messages: &messagingAdapter{
			roster:        state.Roster,
			renderer:      mh.module.renderer,
			outbox:        state.outbox,
			console:       state.console,
			defaultLocale: cfg.DefaultLocale,
			noticeMillis:  cfg.NoticeMillis,
			logger:        logger,
		},
		Visual:         &visualAdapter{roster: state.Roster, outbox: state.outbox, logger: logger},
		Permissions:    &permissionAdapter{accounts: accounts, grants: mh.module.grants, logger: logger},
		Scheduler:      state.scheduler,
		Enabled:        mh.module.enabled,
		Logger:         logger,
		IncentiveDelay: cfg.IncentiveDelay(),
	})

	label, err := buildLabel(0, false)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.lastLabel = label

	return state, cfg.TickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if _, rejoin := matchState.Roster.ByID(presence.GetUserId()); !rejoin && matchState.Roster.size() >= MaxParticipants {
		return state, false, "Match full"
	}
	if lang := metadata["lang"]; lang != "" {
		matchState.locales[presence.GetUserId()] = lang
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		id := p.GetUserId()
		matchState.Roster.add(p, matchState.locales[id])
		delete(matchState.locales, id)
		logger.Debug("MatchJoin: User %s joined.", id)
	}
	matchState.rosterDirty = true

	mh.finish(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		id := p.GetUserId()
		// The router needs the leaving participant in the roster to announce them.
		matchState.Router.OnDisconnect(id)
		matchState.Roster.remove(id)
		logger.Debug("MatchLeave: User %s left.", id)
	}
	matchState.rosterDirty = true

	if matchState.Roster.size() == 0 {
		logger.Info("MatchLeave: Terminating empty match.")
		matchState.Router.Close()
		return nil
	}

	mh.finish(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpClaim:
			mh.handleClaim(matchState, logger, msg)
		case OpRelease:
			mh.handleRelease(matchState, logger, msg)
		case OpAdminRemove:
			mh.handleAdminRemove(ctx, matchState, logger, msg)
		case OpAdminSet:
			mh.handleAdminSet(ctx, matchState, logger, msg)
		case OpJoinTeam:
			mh.handleJoinTeam(matchState, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	matchState.scheduler.advance(tick)

	mh.finish(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) handleClaim(state *MatchState, logger runtime.Logger, msg runtime.MatchData) {
	if err := state.Router.Claim(msg.GetUserId()); err != nil {
		logger.Debug("Claim by %s rejected: %v", msg.GetUserId(), err)
	}
}

func (mh *matchHandler) handleRelease(state *MatchState, logger runtime.Logger, msg runtime.MatchData) {
	if err := state.Router.Release(msg.GetUserId()); err != nil {
		logger.Debug("Release by %s rejected: %v", msg.GetUserId(), err)
	}
}

func (mh *matchHandler) handleAdminRemove(ctx context.Context, state *MatchState, logger runtime.Logger, msg runtime.MatchData) {
	actor := app.Actor{ID: msg.GetUserId(), Name: msg.GetUsername()}
	if _, err := state.Router.AdminRemove(ctx, actor); err != nil {
		logger.Debug("Admin remove by %s rejected: %v", actor.ID, err)
	}
}

func (mh *matchHandler) handleAdminSet(ctx context.Context, state *MatchState, logger runtime.Logger, msg runtime.MatchData) {
	payload, err := decodePayload(msg.GetData())
	if err != nil {
		logger.Warn("Admin set: invalid payload from %s: %v", msg.GetUserId(), err)
		return
	}
	actor := app.Actor{ID: msg.GetUserId(), Name: msg.GetUsername()}
	if err := state.Router.AdminSet(ctx, actor, stringField(payload, "target")); err != nil {
		logger.Debug("Admin set by %s rejected: %v", actor.ID, err)
	}
}

func (mh *matchHandler) handleJoinTeam(state *MatchState, logger runtime.Logger, msg runtime.MatchData) {
	payload, err := decodePayload(msg.GetData())
	if err != nil {
		logger.Warn("Join team: invalid payload from %s: %v", msg.GetUserId(), err)
		return
	}
	team, ok := domain.ParseTeam(stringField(payload, "team"))
	if !ok {
		logger.Debug("Join team: unknown team from %s.", msg.GetUserId())
		return
	}
	mh.moveToTeam(state, logger, msg.GetUserId(), team, true)
}

// moveToTeam applies a team change. Player requests go through the ratio gate;
// host-reported changes already happened and are only recorded.
func (mh *matchHandler) moveToTeam(state *MatchState, logger runtime.Logger, id string, team domain.Team, gated bool) {
	current, ok := state.Roster.ByID(id)
	if !ok {
		return
	}
	if gated && !state.Router.InterceptJoinTeam(id, team) {
		return
	}
	if current.Team == team {
		return
	}
	state.Roster.setTeam(id, team)
	state.rosterDirty = true

	data, err := encodePayload(map[string]interface{}{
		"user_id": id,
		"team":    team.String(),
	})
	if err != nil {
		logger.Error("Join team: failed to encode team change: %v", err)
	} else {
		state.outbox.push(OpTeamChanged, data, nil)
	}

	state.Router.OnTeamChange(id, team)
}

// finish sends queued messages and refreshes the roster view and match label when they changed.
func (mh *matchHandler) finish(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	holder, _ := state.Router.Holder()
	if holder != state.lastHolder {
		state.lastHolder = holder
		state.rosterDirty = true
	}

	if state.rosterDirty {
		state.rosterDirty = false
		if data, err := encodePayload(state.Roster.snapshot(holder)); err != nil {
			logger.Error("Roster: failed to encode snapshot: %v", err)
		} else {
			state.outbox.push(OpRoster, data, nil)
		}
	}

	state.outbox.flush(dispatcher, logger)

	label, err := buildLabel(state.Roster.size(), holder != "")
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.lastLabel {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.lastLabel = label
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating, grace %d seconds.", graceSeconds)
	if matchState, ok := state.(*MatchState); ok {
		matchState.Router.Close()
		mh.finish(matchState, dispatcher, logger)
	}
	return state
}

// signalRequest is the payload of MatchSignal, sent by the host event and console RPCs.
type signalRequest struct {
	Kind      string `json:"kind"`
	UserID    string `json:"user_id,omitempty"`
	Team      string `json:"team,omitempty"`
	Command   string `json:"command,omitempty"`
	Target    string `json:"target,omitempty"`
	Actor     string `json:"actor,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// signalResponse is returned to the RPC that raised the signal.
type signalResponse struct {
	RequestID string   `json:"request_id,omitempty"`
	OK        bool     `json:"ok"`
	Error     string   `json:"error,omitempty"`
	Removed   *bool    `json:"removed,omitempty"`
	Lines     []string `json:"lines,omitempty"`
}

var errUnknownSignal = errors.New("unknown signal")

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, ""
	}

	var req signalRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		logger.Warn("MatchSignal: invalid payload: %v", err)
		return matchState, encodeSignalResponse(signalResponse{Error: "invalid payload"})
	}

	resp := mh.handleSignal(ctx, matchState, logger, req)
	resp.RequestID = req.RequestID
	resp.Lines = matchState.console.drain()

	mh.finish(matchState, dispatcher, logger)
	return matchState, encodeSignalResponse(resp)
}

func (mh *matchHandler) handleSignal(ctx context.Context, state *MatchState, logger runtime.Logger, req signalRequest) signalResponse {
	switch req.Kind {
	case SignalRoundStart:
		state.Router.OnRoundStart()
	case SignalRoundEnd:
		state.Router.OnRoundEnd()
	case SignalPlayerDeath:
		state.Router.OnDeath(req.UserID)
	case SignalPlayerTeam:
		team, ok := domain.ParseTeam(req.Team)
		if !ok {
			return signalResponse{Error: "unknown team"}
		}
		if _, connected := state.Roster.ByID(req.UserID); !connected {
			return signalResponse{Error: app.ErrTargetNotFound.Error()}
		}
		mh.moveToTeam(state, logger, req.UserID, team, false)
	case SignalSync:
		state.Router.Sync()
	case SignalConsole:
		return mh.handleConsole(ctx, state, req)
	default:
		logger.Warn("MatchSignal: unknown kind %q", req.Kind)
		return signalResponse{Error: errUnknownSignal.Error()}
	}
	return signalResponse{OK: true}
}

func (mh *matchHandler) handleConsole(ctx context.Context, state *MatchState, req signalRequest) signalResponse {
	actor := app.ConsoleActor()
	if req.Actor != "" {
		actor.Name = req.Actor
	}

	switch req.Command {
	case ConsoleRemove:
		removed, err := state.Router.AdminRemove(ctx, actor)
		if err != nil {
			return signalResponse{Error: err.Error()}
		}
		return signalResponse{OK: true, Removed: &removed}
	case ConsoleSet:
		if err := state.Router.AdminSet(ctx, actor, req.Target); err != nil {
			return signalResponse{Error: err.Error()}
		}
		return signalResponse{OK: true}
	default:
		return signalResponse{Error: "unknown console command"}
	}
}

func encodeSignalResponse(resp signalResponse) string {
	b, err := json.Marshal(resp)
	if err != nil {
		return ""
	}
	return string(b)
}
