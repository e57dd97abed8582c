package ports

import "warden/internal/domain"

// RosterPort gives read-only access to the participants currently connected to a session.
type RosterPort interface {
	// AllConnected returns a snapshot of connected participants in join order.
	AllConnected() []domain.Participant

	// ByID returns the participant with the given id, or false if they are no longer connected.
	ByID(id domain.ParticipantID) (domain.Participant, bool)
}
