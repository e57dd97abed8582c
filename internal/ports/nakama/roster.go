package nakama

import (
	"warden/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

type rosterEntry struct {
	participant domain.Participant
	presence    runtime.Presence
}

// matchRoster is the participant list of a single match. It is only touched
// from the match loop goroutine, so it carries no lock of its own.
type matchRoster struct {
	order   []string
	entries map[string]*rosterEntry
}

func newMatchRoster() *matchRoster {
	return &matchRoster{entries: make(map[string]*rosterEntry)}
}

// add registers a presence. A rejoin keeps the existing entry and refreshes the presence.
func (r *matchRoster) add(presence runtime.Presence, locale string) domain.Participant {
	id := presence.GetUserId()
	if e, ok := r.entries[id]; ok {
		e.presence = presence
		e.participant.Valid = true
		if locale != "" {
			e.participant.Locale = locale
		}
		return e.participant
	}

	p := domain.Participant{
		ID:          id,
		Team:        domain.TeamNone,
		DisplayName: presence.GetUsername(),
		Valid:       true,
		Render:      domain.OpaqueWhite,
		Locale:      locale,
	}
	r.entries[id] = &rosterEntry{participant: p, presence: presence}
	r.order = append(r.order, id)
	return p
}

func (r *matchRoster) remove(id string) {
	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *matchRoster) setTeam(id string, team domain.Team) bool {
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	e.participant.Team = team
	return true
}

func (r *matchRoster) setRender(id string, c domain.Color) bool {
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	e.participant.Render = c
	return true
}

func (r *matchRoster) size() int {
	return len(r.order)
}

// presences returns the presences of every participant in join order.
func (r *matchRoster) presences() []runtime.Presence {
	out := make([]runtime.Presence, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].presence)
	}
	return out
}

func (r *matchRoster) presence(id string) (runtime.Presence, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.presence, true
}

// AllConnected implements ports.RosterPort.
func (r *matchRoster) AllConnected() []domain.Participant {
	out := make([]domain.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].participant)
	}
	return out
}

// ByID implements ports.RosterPort.
func (r *matchRoster) ByID(id domain.ParticipantID) (domain.Participant, bool) {
	e, ok := r.entries[id]
	if !ok {
		return domain.Participant{}, false
	}
	return e.participant, true
}

// snapshot renders the roster for OpRoster broadcasts.
func (r *matchRoster) snapshot(holder string) map[string]interface{} {
	players := make([]interface{}, 0, len(r.order))
	for _, p := range r.AllConnected() {
		players = append(players, map[string]interface{}{
			"user_id":      p.ID,
			"display_name": p.DisplayName,
			"team":         p.Team.String(),
			"render":       p.Render.String(),
			"warden":       p.ID == holder,
		})
	}
	return map[string]interface{}{
		"players": players,
		"warden":  holder,
	}
}
