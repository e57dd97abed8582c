package app

import "time"

// DefaultIncentiveDelay is how long after round start the server waits before
// nudging guards to claim an empty warden slot.
const DefaultIncentiveDelay = 5 * time.Second

// Capabilities checked before admin commands run.
const (
	CapabilityRemove = "warden.command.remove"
	CapabilitySet    = "warden.command.set"
)

// Message catalog keys. Adapters render them per participant locale.
const (
	KeyInfoCurrent      = "warden.info.current"
	KeyErrorActive      = "warden.error.active"
	KeyErrorTeamCT      = "warden.error.team_ct"
	KeyErrorNotWarden   = "warden.error.not_warden"
	KeyErrorTargetNotCT = "warden.error.target_not_ct"
	KeyErrorRatioFull   = "warden.error.ratio_full"
	KeySuccessBecome    = "warden.success.become"
	KeySuccessUnwarden  = "warden.success.unwarden"
	KeyLogBecome        = "warden.log.become"
	KeyLogUnwarden      = "warden.log.unwarden"
	KeyLogDied          = "warden.log.died"
	KeyLogDisconnected  = "warden.log.disconnected"
	KeyLogTeamChange    = "warden.log.team_change"
	KeyAdminRemoved     = "warden.admin.removed"
	KeyAdminSet         = "warden.admin.set"
	KeyUsageSetWarden   = "warden.command.usage.sw"
	KeyIncentiveNone    = "warden.incentive.none"
	KeyPermissionDenied = "command.error.permission"
	KeyPlayerNotFound   = "command.error.player_not_found"
)

// ConsoleName is the actor name used when a command comes from the server console.
const ConsoleName = "Console"
