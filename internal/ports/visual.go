package ports

import "warden/internal/domain"

// VisualPort changes participant render colors. Calls are fire-and-forget: the
// host applies them on its own tick and unknown participants are ignored.
type VisualPort interface {
	// Apply sets the participant's render color.
	Apply(id domain.ParticipantID, color domain.Color)

	// Clear drops any override and renders the participant with the fallback color.
	Clear(id domain.ParticipantID, fallback domain.Color)
}
