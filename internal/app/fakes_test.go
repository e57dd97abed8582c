package app

import (
	"context"
	"sync"
	"time"

	"warden/internal/domain"
	"warden/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
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

type fakeRoster struct {
	mu           sync.Mutex
	participants []domain.Participant
}

func newFakeRoster(ps ...domain.Participant) *fakeRoster {
	return &fakeRoster{participants: ps}
}

func (f *fakeRoster) AllConnected() []domain.Participant {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Participant(nil), f.participants...)
}

func (f *fakeRoster) ByID(id domain.ParticipantID) (domain.Participant, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.participants {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Participant{}, false
}

func (f *fakeRoster) setTeam(id domain.ParticipantID, team domain.Team) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.participants {
		if f.participants[i].ID == id {
			f.participants[i].Team = team
		}
	}
}

func (f *fakeRoster) remove(id domain.ParticipantID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.participants {
		if f.participants[i].ID == id {
			f.participants = append(f.participants[:i], f.participants[i+1:]...)
			return
		}
	}
}

// setRender lets the fake roster follow visual updates the way the host does.
func (f *fakeRoster) setRender(id domain.ParticipantID, c domain.Color) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.participants {
		if f.participants[i].ID == id {
			f.participants[i].Render = c
		}
	}
}

type sentMessage struct {
	kind   string // "notify", "reply", "broadcast"
	target domain.ParticipantID
	key    string
	args   []any
}

type recordingMessages struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (m *recordingMessages) NotifyAll(key string, args ...any) {
	m.record(sentMessage{kind: "notify", key: key, args: args})
}

func (m *recordingMessages) Reply(target domain.ParticipantID, key string, args ...any) {
	m.record(sentMessage{kind: "reply", target: target, key: key, args: args})
}

func (m *recordingMessages) Broadcast(key string, args ...any) {
	m.record(sentMessage{kind: "broadcast", key: key, args: args})
}

func (m *recordingMessages) record(msg sentMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
}

func (m *recordingMessages) count(kind, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.sent {
		if msg.kind == kind && msg.key == key {
			n++
		}
	}
	return n
}

func (m *recordingMessages) last() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMessage{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *recordingMessages) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

type visualCall struct {
	id      domain.ParticipantID
	color   domain.Color
	cleared bool
}

// recordingVisual records calls and mirrors them into the roster like the host tick would.
type recordingVisual struct {
	roster *fakeRoster
	calls  []visualCall
}

func (v *recordingVisual) Apply(id domain.ParticipantID, c domain.Color) {
	v.calls = append(v.calls, visualCall{id: id, color: c})
	if v.roster != nil {
		v.roster.setRender(id, c)
	}
}

func (v *recordingVisual) Clear(id domain.ParticipantID, fallback domain.Color) {
	v.calls = append(v.calls, visualCall{id: id, color: fallback, cleared: true})
	if v.roster != nil {
		v.roster.setRender(id, fallback)
	}
}

type fakePermissions struct {
	grants map[string][]string
}

func (f fakePermissions) HasPermission(ctx context.Context, id domain.ParticipantID, capability string) bool {
	for _, c := range f.grants[id] {
		if c == capability {
			return true
		}
	}
	return false
}

type manualTimer struct {
	delay    time.Duration
	fn       func()
	canceled bool
	fired    bool
}

func (t *manualTimer) Cancel() {
	t.canceled = true
}

// manualScheduler only runs callbacks when the test says so.
type manualScheduler struct {
	timers []*manualTimer
}

func (s *manualScheduler) After(delay time.Duration, fn func()) ports.Timer {
	t := &manualTimer{delay: delay, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// fireDue runs every timer that has not been canceled or fired.
func (s *manualScheduler) fireDue() {
	for _, t := range s.timers {
		if t.canceled || t.fired {
			continue
		}
		t.fired = true
		t.fn()
	}
}

// fireAnyway runs a timer's callback even if it was canceled, as if the
// callback had already been queued when Cancel was called.
func (s *manualScheduler) fireAnyway(i int) {
	t := s.timers[i]
	t.fired = true
	t.fn()
}

type harness struct {
	roster    *fakeRoster
	messages  *recordingMessages
	visual    *recordingVisual
	scheduler *manualScheduler
	enabled   *EnabledFlag
	router    *Router
}

func newHarness(ps ...domain.Participant) *harness {
	h := &harness{
		roster:    newFakeRoster(ps...),
		messages:  &recordingMessages{},
		scheduler: &manualScheduler{},
		enabled:   NewEnabledFlag(true),
	}
	h.visual = &recordingVisual{roster: h.roster}
	h.router = NewRouter(RouterConfig{
		Roster:   h.roster,
		Messages: h.messages,
		Visual:   h.visual,
		Permissions: fakePermissions{grants: map[string][]string{
			"admin": {CapabilityRemove, CapabilitySet},
		}},
		Scheduler: h.scheduler,
		Enabled:   h.enabled,
		Logger:    noopLogger{},
	})
	return h
}

func player(id, name string, team domain.Team) domain.Participant {
	return domain.Participant{
		ID:          id,
		DisplayName: name,
		Team:        team,
		Valid:       true,
		Render:      domain.Color{R: 200, G: 180, B: 160, A: 128},
	}
}
