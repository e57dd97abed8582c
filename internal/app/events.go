package app

// ClearReason identifies the lifecycle event that took the role away from its holder.
type ClearReason string

const (
	ReasonDeath      ClearReason = "death"
	ReasonDisconnect ClearReason = "disconnect"
	ReasonTeamChange ClearReason = "team_change"
)

// announcementKey returns the catalog key broadcast when the holder loses the role for this reason.
func (r ClearReason) announcementKey() string {
	switch r {
	case ReasonDeath:
		return KeyLogDied
	case ReasonDisconnect:
		return KeyLogDisconnected
	default:
		return KeyLogTeamChange
	}
}

// Actor is whoever issued an admin command. An empty ID means the server console.
type Actor struct {
	ID   string
	Name string
}

// ConsoleActor returns the actor used for commands issued outside the match.
func ConsoleActor() Actor {
	return Actor{Name: ConsoleName}
}

// IsConsole reports whether the actor is the server console rather than a participant.
func (a Actor) IsConsole() bool {
	return a.ID == ""
}
