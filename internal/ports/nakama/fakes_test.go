package nakama

import (
	"context"
	"errors"

	"warden/internal/config"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/types/known/structpb"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode    int64
	data      []byte
	presences []runtime.Presence
}

// payload decodes the message body.
func (m sentMessage) payload() *structpb.Struct {
	s, err := decodePayload(m.data)
	if err != nil {
		return &structpb.Struct{}
	}
	return s
}

func (m sentMessage) recipients() []string {
	ids := make([]string, 0, len(m.presences))
	for _, p := range m.presences {
		ids = append(ids, p.GetUserId())
	}
	return ids
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	sent   []sentMessage
	labels []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.sent = append(md.sent, sentMessage{opCode: opCode, data: append([]byte(nil), data...), presences: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) byOp(opCode int64) []sentMessage {
	var out []sentMessage
	for _, m := range md.sent {
		if m.opCode == opCode {
			out = append(out, m)
		}
	}
	return out
}

// texts returns the OpNotice texts sent on channel.
func (md *mockDispatcher) texts(channel string) []string {
	var out []string
	for _, m := range md.byOp(OpNotice) {
		p := m.payload()
		if stringField(p, "channel") == channel {
			out = append(out, stringField(p, "text"))
		}
	}
	return out
}

func (md *mockDispatcher) reset() {
	md.sent = nil
	md.labels = nil
}

type testPresence struct {
	userID   string
	username string
}

func (p testPresence) GetHidden() bool                   { return false }
func (p testPresence) GetPersistence() bool              { return false }
func (p testPresence) GetUsername() string               { return p.username }
func (p testPresence) GetStatus() string                 { return "" }
func (p testPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }
func (p testPresence) GetUserId() string                 { return p.userID }
func (p testPresence) GetSessionId() string              { return "session-" + p.userID }
func (p testPresence) GetNodeId() string                 { return "node-1" }

type testMatchData struct {
	testPresence
	opCode int64
	data   []byte
}

func (m testMatchData) GetOpCode() int64      { return m.opCode }
func (m testMatchData) GetData() []byte       { return m.data }
func (m testMatchData) GetReliable() bool     { return true }
func (m testMatchData) GetReceiveTime() int64 { return 0 }

func command(from testPresence, opCode int64, data string) runtime.MatchData {
	return testMatchData{testPresence: from, opCode: opCode, data: []byte(data)}
}

// fakeAccounts serves account metadata by user id.
type fakeAccounts struct {
	metadata map[string]string
	err      error
	calls    int
}

func (f *fakeAccounts) AccountGetId(ctx context.Context, userID string) (*api.Account, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	meta, ok := f.metadata[userID]
	if !ok {
		return nil, errors.New("account not found")
	}
	return &api.Account{User: &api.User{Id: userID, Metadata: meta}}, nil
}

// fakeMatches implements matchDirectory.
type fakeMatches struct {
	listed  []*api.Match
	listErr error
	queries []string
	created []string
	signals map[string][]string
	replies map[string]string
	missing map[string]bool
}

func (f *fakeMatches) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.queries = append(f.queries, query)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeMatches) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	id := "created-" + module
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeMatches) MatchSignal(ctx context.Context, id string, data string) (string, error) {
	if f.missing[id] {
		return "", errors.New("match not found")
	}
	if f.signals == nil {
		f.signals = make(map[string][]string)
	}
	f.signals[id] = append(f.signals[id], data)
	return f.replies[id], nil
}

func testRuntimeConfig() config.RuntimeConfig {
	return config.RuntimeConfig{
		Enabled:               true,
		IncentiveDelaySeconds: 5,
		TickRate:              10,
		NoticeMillis:          5000,
		DefaultLocale:         "en",
		ConsoleSecret:         "console-secret",
		ConsoleIssuer:         "warden",
	}
}

func newTestModule() *module {
	return newModule(testRuntimeConfig(), &config.WardenConfig{
		Permissions: map[string][]string{"admin": {"*"}},
	})
}
