package ports

import "warden/internal/domain"

// MessagingPort delivers localized user-facing text. Callers pass a catalog key
// and positional arguments; rendering happens on the other side of the port.
type MessagingPort interface {
	// NotifyAll shows a short-lived announcement to every connected participant.
	NotifyAll(key string, args ...any)

	// Reply answers the participant that issued a command.
	Reply(target domain.ParticipantID, key string, args ...any)

	// Broadcast posts a chat line to every connected participant.
	Broadcast(key string, args ...any)
}
