package nakama

import (
	"context"
	"encoding/json"

	"warden/internal/config"
	"warden/internal/domain"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// accountReader is the slice of runtime.NakamaModule the permission lookup needs.
type accountReader interface {
	AccountGetId(ctx context.Context, userID string) (*api.Account, error)
}

type accountPermissions struct {
	Permissions []string `json:"permissions"`
}

// permissionAdapter grants capabilities from the warden config file first and
// then from the "permissions" list in the user's account metadata.
type permissionAdapter struct {
	accounts accountReader
	grants   *config.WardenConfig
	logger   runtime.Logger
}

// HasPermission implements ports.PermissionPort.
func (a *permissionAdapter) HasPermission(ctx context.Context, id domain.ParticipantID, capability string) bool {
	if a.grants.HasGrant(id, capability) {
		return true
	}
	if a.accounts == nil {
		return false
	}

	account, err := a.accounts.AccountGetId(ctx, id)
	if err != nil {
		a.logger.Warn("Permissions: failed to read account %s: %v", id, err)
		return false
	}
	if account.GetUser() == nil || account.GetUser().GetMetadata() == "" {
		return false
	}

	var meta accountPermissions
	if err := json.Unmarshal([]byte(account.GetUser().GetMetadata()), &meta); err != nil {
		a.logger.Warn("Permissions: invalid metadata for %s: %v", id, err)
		return false
	}
	for _, granted := range meta.Permissions {
		if granted == capability || granted == "*" {
			return true
		}
	}
	return false
}
