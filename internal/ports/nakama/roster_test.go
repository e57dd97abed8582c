package nakama

import (
	"testing"

	"warden/internal/domain"
)

func TestMatchRoster_JoinOrderAndRemoval(t *testing.T) {
	r := newMatchRoster()
	r.add(testPresence{userID: "a", username: "Alpha"}, "")
	r.add(testPresence{userID: "b", username: "Bravo"}, "es")
	r.add(testPresence{userID: "c", username: "Charlie"}, "")

	r.remove("b")
	r.remove("missing")

	got := r.AllConnected()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("AllConnected() = %+v, want [a c]", got)
	}
	if r.size() != 2 || len(r.presences()) != 2 {
		t.Fatalf("size = %d, presences = %d, want 2", r.size(), len(r.presences()))
	}
	if _, ok := r.ByID("b"); ok {
		t.Fatalf("expected b removed")
	}
}

func TestMatchRoster_RejoinKeepsState(t *testing.T) {
	r := newMatchRoster()
	r.add(testPresence{userID: "a", username: "Alpha"}, "es")
	r.setTeam("a", domain.TeamCT)
	r.setRender("a", domain.WardenBlue(255))

	p := r.add(testPresence{userID: "a", username: "Alpha"}, "")

	if p.Team != domain.TeamCT || p.Render != domain.WardenBlue(255) || p.Locale != "es" {
		t.Fatalf("rejoined participant = %+v, want state kept", p)
	}
	if r.size() != 1 {
		t.Fatalf("size = %d, want 1", r.size())
	}
}

func TestMatchRoster_UnknownParticipant(t *testing.T) {
	r := newMatchRoster()
	if r.setTeam("ghost", domain.TeamT) || r.setRender("ghost", domain.OpaqueWhite) {
		t.Fatalf("expected updates for unknown participants to report false")
	}
	if _, ok := r.presence("ghost"); ok {
		t.Fatalf("expected no presence for unknown participant")
	}
}

func TestVisualAdapter_IgnoresUnknownParticipant(t *testing.T) {
	r := newMatchRoster()
	out := &outbox{}
	v := &visualAdapter{roster: r, outbox: out, logger: noopLogger{}}

	v.Apply("ghost", domain.WardenBlue(255))
	if out.len() != 0 {
		t.Fatalf("expected no render update for unknown participant")
	}

	r.add(testPresence{userID: "a", username: "Alpha"}, "")
	v.Clear("a", domain.OpaqueWhite)
	if out.len() != 1 {
		t.Fatalf("outbox len = %d, want 1", out.len())
	}
}
