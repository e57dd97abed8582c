package nakama

const (
	// MatchNameWarden is the authoritative match handler name registered with Nakama.
	MatchNameWarden = "warden_match"

	// GameLabel identifies warden matches in match listings.
	GameLabel = "warden"

	// MaxParticipants caps the roster of a single session.
	MaxParticipants = 64
)

// RPC ids.
const (
	RpcFindMatch  = "warden_find_match"
	RpcSetEnabled = "warden_set_enabled"
	RpcHostEvent  = "warden_host_event"
	RpcConsole    = "warden_console"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpClaim       int64 = 1 // !w
	OpRelease     int64 = 2 // !uw
	OpAdminRemove int64 = 3 // !rw
	OpAdminSet    int64 = 4 // !sw <player>
	OpJoinTeam    int64 = 5 // jointeam <n>

	// Server -> Client events
	OpNotice      int64 = 101
	OpRender      int64 = 102
	OpRoster      int64 = 103
	OpTeamChanged int64 = 104
)

// Notice channels carried in OpNotice payloads.
const (
	ChannelCenter = "center"
	ChannelChat   = "chat"
	ChannelReply  = "reply"
)

// Signal kinds delivered through MatchSignal.
const (
	SignalRoundStart  = "round_start"
	SignalRoundEnd    = "round_end"
	SignalPlayerDeath = "player_death"
	SignalPlayerTeam  = "player_team"
	SignalSync        = "sync"
	SignalConsole     = "console"
)

// Console commands carried by SignalConsole.
const (
	ConsoleRemove = "rw"
	ConsoleSet    = "sw"
)
