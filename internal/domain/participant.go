package domain

// ParticipantID identifies a connected participant. It is only meaningful while
// the participant is connected; holders keep the id, never the participant itself.
type ParticipantID = string

// Participant is a read-only snapshot of a connected player.
type Participant struct {
	ID          ParticipantID
	Team        Team
	DisplayName string
	Valid       bool
	Render      Color
	Locale      string
}
