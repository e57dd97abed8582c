package domain

import "strings"

// Team is the side a participant is playing on. Values follow the Source engine
// team numbering so host events can be forwarded without translation.
type Team uint8

const (
	// TeamNone is an unassigned participant.
	TeamNone Team = 0
	// TeamSpectator is a participant watching the round.
	TeamSpectator Team = 1
	// TeamT is the prisoner side.
	TeamT Team = 2
	// TeamCT is the guard side, the only team the warden can be picked from.
	TeamCT Team = 3
)

func (t Team) String() string {
	switch t {
	case TeamSpectator:
		return "spectator"
	case TeamT:
		return "t"
	case TeamCT:
		return "ct"
	default:
		return "none"
	}
}

// ParseTeam accepts either the numeric form used by "jointeam <n>" or a team name.
func ParseTeam(s string) (Team, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "none":
		return TeamNone, true
	case "1", "spec", "spectator":
		return TeamSpectator, true
	case "2", "t":
		return TeamT, true
	case "3", "ct":
		return TeamCT, true
	}
	return TeamNone, false
}
