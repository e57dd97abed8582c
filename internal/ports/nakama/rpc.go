package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"warden/internal/app"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// gRPC status codes used by runtime.NewError.
const (
	codeInvalidArgument  = 3
	codePermissionDenied = 7
	codeInternal         = 13
)

var (
	errInvalidPayload = runtime.NewError("invalid payload", codeInvalidArgument)
	errMissingMatchID = runtime.NewError("match_id is required", codeInvalidArgument)
	errUnauthorized   = runtime.NewError("console token rejected", codePermissionDenied)
	errInternal       = runtime.NewError("internal error", codeInternal)
)

// matchDirectory is the slice of runtime.NakamaModule the RPCs need.
type matchDirectory interface {
	MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error)
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
	MatchSignal(ctx context.Context, id string, data string) (string, error)
}

// FindMatchResponse is returned by the find match RPC.
type FindMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

type setEnabledRequest struct {
	Token   string `json:"token"`
	Enabled *bool  `json:"enabled"`
}

type setEnabledResponse struct {
	Enabled  bool `json:"enabled"`
	Previous bool `json:"previous"`
	Synced   int  `json:"synced"`
}

type hostEventRequest struct {
	Token   string `json:"token"`
	MatchID string `json:"match_id"`
	Kind    string `json:"kind"`
	UserID  string `json:"user_id"`
	Team    string `json:"team"`
}

type consoleRequest struct {
	Token     string `json:"token"`
	MatchID   string `json:"match_id"`
	Command   string `json:"command"`
	Target    string `json:"target"`
	RequestID string `json:"request_id"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func (m *module) RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcFindMatch: func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
			return m.findMatch(ctx, logger, nk, payload)
		},
		RpcSetEnabled: func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
			return m.setEnabled(ctx, logger, nk, payload)
		},
		RpcHostEvent: func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
			return m.hostEvent(ctx, logger, nk, payload)
		},
		RpcConsole: func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
			return m.consoleCommand(ctx, logger, nk, payload)
		},
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

// findMatch joins the first open warden match or creates a new one.
func (m *module) findMatch(ctx context.Context, logger runtime.Logger, nk matchDirectory, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	query := "+label.open:T +label.game:" + GameLabel
	matches, err := nk.MatchList(ctx, 10, true, "", nil, nil, query)
	if err != nil {
		logger.Error("RpcFindMatch [User:%s]: Failed to list matches: %v", userID, err)
		return "", errInternal
	}

	resp := FindMatchResponse{}
	if len(matches) > 0 {
		resp.MatchID = matches[0].GetMatchId()
		logger.Info("RpcFindMatch [User:%s]: Found existing match %s", userID, resp.MatchID)
	} else {
		matchID, err := nk.MatchCreate(ctx, MatchNameWarden, map[string]interface{}{})
		if err != nil {
			logger.Error("RpcFindMatch [User:%s]: Failed to create match: %v", userID, err)
			return "", errInternal
		}
		resp = FindMatchResponse{MatchID: matchID, IsNew: true}
		logger.Info("RpcFindMatch [User:%s]: Created new match %s", userID, matchID)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", errInternal
	}
	return string(b), nil
}

// setEnabled flips the module switch and asks every warden match to apply it right away.
func (m *module) setEnabled(ctx context.Context, logger runtime.Logger, nk matchDirectory, payload string) (string, error) {
	var req setEnabledRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.Enabled == nil {
		return "", errInvalidPayload
	}
	subject, err := m.authorize(logger, req.Token)
	if err != nil {
		return "", err
	}

	previous := m.enabled.Set(*req.Enabled)
	logger.Info("RpcSetEnabled [%s]: warden enabled %t -> %t", subject, previous, *req.Enabled)

	resp := setEnabledResponse{Enabled: *req.Enabled, Previous: previous}
	if previous != *req.Enabled {
		resp.Synced = m.syncMatches(ctx, logger, nk)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", errInternal
	}
	return string(b), nil
}

func (m *module) syncMatches(ctx context.Context, logger runtime.Logger, nk matchDirectory) int {
	matches, err := nk.MatchList(ctx, 100, true, "", nil, nil, "+label.game:"+GameLabel)
	if err != nil {
		logger.Error("RpcSetEnabled: Failed to list matches: %v", err)
		return 0
	}
	data := encodeSignalRequest(signalRequest{Kind: SignalSync})
	synced := 0
	for _, match := range matches {
		if _, err := nk.MatchSignal(ctx, match.GetMatchId(), data); err != nil {
			logger.Warn("RpcSetEnabled: Failed to signal match %s: %v", match.GetMatchId(), err)
			continue
		}
		synced++
	}
	return synced
}

// hostEvent forwards a round or player lifecycle event to a match.
func (m *module) hostEvent(ctx context.Context, logger runtime.Logger, nk matchDirectory, payload string) (string, error) {
	var req hostEventRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", errInvalidPayload
	}
	if _, err := m.authorize(logger, req.Token); err != nil {
		return "", err
	}
	if req.MatchID == "" {
		return "", errMissingMatchID
	}

	switch req.Kind {
	case SignalRoundStart, SignalRoundEnd:
	case SignalPlayerDeath, SignalPlayerTeam:
		if req.UserID == "" {
			return "", runtime.NewError("user_id is required", codeInvalidArgument)
		}
	default:
		return "", runtime.NewError("unknown event kind", codeInvalidArgument)
	}

	return m.signal(ctx, logger, nk, req.MatchID, signalRequest{
		Kind:   req.Kind,
		UserID: req.UserID,
		Team:   req.Team,
	})
}

// consoleCommand runs !rw or !sw on behalf of the server console.
func (m *module) consoleCommand(ctx context.Context, logger runtime.Logger, nk matchDirectory, payload string) (string, error) {
	var req consoleRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", errInvalidPayload
	}
	subject, err := m.authorize(logger, req.Token)
	if err != nil {
		return "", err
	}
	if req.MatchID == "" {
		return "", errMissingMatchID
	}

	command := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(req.Command)), "!")
	if command != ConsoleRemove && command != ConsoleSet {
		return "", runtime.NewError("unknown console command", codeInvalidArgument)
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	logger.WithField("request_id", req.RequestID).Info("RpcConsole [%s]: %s %s", subject, command, req.Target)
	return m.signal(ctx, logger, nk, req.MatchID, signalRequest{
		Kind:      SignalConsole,
		Command:   command,
		Target:    req.Target,
		Actor:     app.ConsoleName,
		RequestID: req.RequestID,
	})
}

func (m *module) authorize(logger runtime.Logger, token string) (string, error) {
	subject, err := m.console.Verify(token)
	if err != nil {
		if errors.Is(err, app.ErrConsoleNotConfigured) {
			logger.Warn("Console RPC called but no console secret is configured.")
		} else {
			logger.Debug("Console token rejected: %v", err)
		}
		return "", errUnauthorized
	}
	return subject, nil
}

func (m *module) signal(ctx context.Context, logger runtime.Logger, nk matchDirectory, matchID string, req signalRequest) (string, error) {
	result, err := nk.MatchSignal(ctx, matchID, encodeSignalRequest(req))
	if err != nil {
		logger.Error("Failed to signal match %s: %v", matchID, err)
		return "", runtime.NewError("match not found", codeInvalidArgument)
	}
	return result, nil
}

func encodeSignalRequest(req signalRequest) string {
	b, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	return string(b)
}
