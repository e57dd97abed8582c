package ports

import (
	"context"

	"warden/internal/domain"
)

// PermissionPort answers capability checks for admin commands.
type PermissionPort interface {
	// HasPermission reports whether the participant holds the capability.
	// Lookup failures are reported as false.
	HasPermission(ctx context.Context, id domain.ParticipantID, capability string) bool
}
