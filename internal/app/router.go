package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"warden/internal/domain"
	"warden/internal/ports"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	ErrPluginDisabled    = errors.New("warden is disabled")
	ErrAlreadyHasHolder  = errors.New("a warden is already assigned")
	ErrRequesterNotCT    = errors.New("requester is not on CT")
	ErrNotCurrentHolder  = errors.New("requester is not the warden")
	ErrTargetNotCT       = errors.New("target is not on CT")
	ErrTargetNotFound    = errors.New("target not found")
	ErrMissingTarget     = errors.New("target name is required")
	ErrMissingPermission = errors.New("missing permission")
)

// RouterConfig carries the collaborators a Router talks to.
type RouterConfig struct {
	Roster         ports.RosterPort
	Messages       ports.MessagingPort
	Visual         ports.VisualPort
	Permissions    ports.PermissionPort
	Scheduler      ports.SchedulerPort
	Enabled        *EnabledFlag
	Logger         runtime.Logger
	IncentiveDelay time.Duration
}

// Router maps session events and player commands onto the warden role state.
// Every entry point takes the same lock, so role changes, the incentive timer
// and its callback never interleave.
type Router struct {
	mu sync.Mutex

	roster      ports.RosterPort
	messages    ports.MessagingPort
	visual      ports.VisualPort
	permissions ports.PermissionPort
	logger      runtime.Logger

	enabled    *EnabledFlag
	wasEnabled bool

	role      RoleState
	incentive *IncentiveTimer
	roundID   string
}

// NewRouter builds a Router with an empty role and an idle incentive timer.
func NewRouter(cfg RouterConfig) *Router {
	return &Router{
		roster:      cfg.Roster,
		messages:    cfg.Messages,
		visual:      cfg.Visual,
		permissions: cfg.Permissions,
		logger:      cfg.Logger,
		enabled:     cfg.Enabled,
		wasEnabled:  cfg.Enabled.Enabled(),
		incentive:   NewIncentiveTimer(cfg.Scheduler, cfg.IncentiveDelay),
	}
}

// Holder returns the current warden, if any.
func (r *Router) Holder() (domain.ParticipantID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.role.Holder()
}

// IncentiveState reports whether the round-start reminder is still pending.
func (r *Router) IncentiveState() TimerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.incentive.State()
}

// Close drops the role and the pending reminder. Used when the session goes away.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wipeLocked()
}

// Sync applies an enable-state change without waiting for the next event.
func (r *Router) Sync() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateLocked()
}

// gateLocked reports whether the module is enabled, wiping state once on the
// enabled to disabled transition.
func (r *Router) gateLocked() bool {
	on := r.enabled.Enabled()
	if r.wasEnabled && !on {
		r.logger.Info("Warden disabled, cleaning up state.")
		r.wipeLocked()
	}
	r.wasEnabled = on
	return on
}

func (r *Router) wipeLocked() {
	if id, ok := r.role.clear(r.visual); ok {
		r.logger.Debug("Warden %s cleared by wipe.", id)
	}
	r.incentive.Cancel()
}

func (r *Router) log() runtime.Logger {
	if r.roundID == "" {
		return r.logger
	}
	return r.logger.WithField("round_id", r.roundID)
}

// participantLocked returns a connected, valid participant.
func (r *Router) participantLocked(id domain.ParticipantID) (domain.Participant, bool) {
	if id == "" {
		return domain.Participant{}, false
	}
	p, ok := r.roster.ByID(id)
	if !ok || !p.Valid {
		return domain.Participant{}, false
	}
	return p, true
}

func (r *Router) holderNameLocked() (string, bool) {
	id, ok := r.role.Holder()
	if !ok {
		return "", false
	}
	p, ok := r.participantLocked(id)
	if !ok || p.DisplayName == "" {
		return "", false
	}
	return p.DisplayName, true
}

// InterceptJoinTeam decides whether a join-team request goes through. Only
// requests for CT are gated; a rejected requester is told the guard side is full.
func (r *Router) InterceptJoinTeam(requester domain.ParticipantID, team domain.Team) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gateLocked() || team != domain.TeamCT {
		return true
	}

	counts := domain.CountTeams(r.roster.AllConnected())
	if domain.Admit(counts) {
		return true
	}

	r.messages.Reply(requester, KeyErrorRatioFull)
	r.log().Debug("Blocked %s from joining CT (t=%d, ct=%d, allowed=%d).", requester, counts.T, counts.CT, domain.AllowedCTs(counts.T))
	return false
}

// OnRoundStart arms the incentive reminder for the new round. The role is untouched.
func (r *Router) OnRoundStart() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gateLocked() {
		return
	}
	r.roundID = uuid.NewString()
	r.incentive.Arm(r.fireIncentive)
	r.log().Debug("Round started, incentive armed for %s.", r.incentive.Delay())
}

func (r *Router) fireIncentive(tok *incentiveToken) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.incentive.take(tok) {
		return
	}
	if !r.gateLocked() {
		return
	}
	if _, ok := r.role.Holder(); ok {
		return
	}
	r.messages.Broadcast(KeyIncentiveNone)
	r.log().Debug("No warden after %s, incentive sent.", r.incentive.Delay())
}

// OnRoundEnd restores and clears the role and drops any pending reminder. Nothing is announced.
func (r *Router) OnRoundEnd() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gateLocked() {
		return
	}
	if id, ok := r.role.clear(r.visual); ok {
		r.log().Info("Round ended, warden %s cleared.", id)
	}
	r.incentive.Cancel()
	r.roundID = ""
}

// OnDeath clears the role if the victim was the warden.
func (r *Router) OnDeath(victim domain.ParticipantID) {
	r.clearOnLifecycleEvent(victim, ReasonDeath)
}

// OnDisconnect clears the role if the departing participant was the warden.
// Call it before the participant is removed from the roster so the announcement can name them.
func (r *Router) OnDisconnect(id domain.ParticipantID) {
	r.clearOnLifecycleEvent(id, ReasonDisconnect)
}

// OnTeamChange clears the role if the warden moved to any team other than CT.
func (r *Router) OnTeamChange(id domain.ParticipantID, team domain.Team) {
	if team == domain.TeamCT {
		return
	}
	r.clearOnLifecycleEvent(id, ReasonTeamChange)
}

func (r *Router) clearOnLifecycleEvent(id domain.ParticipantID, reason ClearReason) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gateLocked() || !r.role.IsHolder(id) {
		return
	}

	name, named := r.holderNameLocked()
	r.role.clear(r.visual)
	if named {
		r.messages.NotifyAll(reason.announcementKey(), name)
	}
	r.log().WithField("reason", string(reason)).Info("Warden %s lost the role.", id)
}

// Claim makes the requester the warden if the slot is free and they are on CT.
func (r *Router) Claim(requester domain.ParticipantID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gateLocked() {
		return ErrPluginDisabled
	}
	p, ok := r.participantLocked(requester)
	if !ok {
		return nil
	}

	if _, taken := r.role.Holder(); taken {
		if name, named := r.holderNameLocked(); named && p.Team != domain.TeamCT {
			r.messages.Reply(p.ID, KeyInfoCurrent, name)
		} else {
			r.messages.Reply(p.ID, KeyErrorActive)
		}
		return ErrAlreadyHasHolder
	}

	if p.Team != domain.TeamCT {
		r.messages.Reply(p.ID, KeyErrorTeamCT)
		return ErrRequesterNotCT
	}

	r.role.grant(p, r.visual)
	r.incentive.Cancel()
	r.messages.Reply(p.ID, KeySuccessBecome)
	r.messages.NotifyAll(KeyLogBecome, p.DisplayName)
	r.log().Info("Player %s became warden.", p.DisplayName)
	return nil
}

// Release gives up the role. Only the current warden can release it.
func (r *Router) Release(requester domain.ParticipantID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gateLocked() {
		return ErrPluginDisabled
	}
	if !r.role.IsHolder(requester) {
		r.messages.Reply(requester, KeyErrorNotWarden)
		return ErrNotCurrentHolder
	}

	name := requester
	if p, ok := r.participantLocked(requester); ok && p.DisplayName != "" {
		name = p.DisplayName
	}

	r.role.clear(r.visual)
	r.messages.Reply(requester, KeySuccessUnwarden)
	r.messages.NotifyAll(KeyLogUnwarden, name)
	r.log().Info("Player %s is no longer warden.", name)
	return nil
}

// AdminRemove takes the role away from whoever holds it. The removal is
// announced even when nobody was warden; removed reports whether someone was.
func (r *Router) AdminRemove(ctx context.Context, actor Actor) (removed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gateLocked() {
		return false, ErrPluginDisabled
	}
	if !r.authorizedLocked(ctx, actor, CapabilityRemove) {
		r.messages.Reply(actor.ID, KeyPermissionDenied)
		return false, ErrMissingPermission
	}

	adminName := r.actorNameLocked(actor)
	_, removed = r.role.clear(r.visual)

	r.messages.Reply(actor.ID, KeyAdminRemoved, adminName)
	r.messages.NotifyAll(KeyAdminRemoved, adminName)
	r.log().Info("Admin %s removed the warden.", adminName)
	return removed, nil
}

// AdminSet makes the first connected participant whose name contains
// targetName the warden, replacing any current holder.
func (r *Router) AdminSet(ctx context.Context, actor Actor, targetName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gateLocked() {
		return ErrPluginDisabled
	}
	if !r.authorizedLocked(ctx, actor, CapabilitySet) {
		r.messages.Reply(actor.ID, KeyPermissionDenied)
		return ErrMissingPermission
	}

	targetName = strings.TrimSpace(targetName)
	if targetName == "" {
		r.messages.Reply(actor.ID, KeyUsageSetWarden)
		return ErrMissingTarget
	}

	target, ok := r.findByNameLocked(targetName)
	if !ok {
		r.messages.Reply(actor.ID, KeyPlayerNotFound, targetName)
		return ErrTargetNotFound
	}
	if target.Team != domain.TeamCT {
		r.messages.Reply(actor.ID, KeyErrorTargetNotCT, target.DisplayName)
		return ErrTargetNotCT
	}

	adminName := r.actorNameLocked(actor)
	r.role.grant(target, r.visual)
	r.incentive.Cancel()

	r.messages.Reply(actor.ID, KeyAdminSet, adminName, target.DisplayName)
	r.messages.NotifyAll(KeyAdminSet, adminName, target.DisplayName)
	r.log().Info("Admin %s set %s as warden.", adminName, target.DisplayName)
	return nil
}

func (r *Router) authorizedLocked(ctx context.Context, actor Actor, capability string) bool {
	if actor.IsConsole() {
		return true
	}
	if r.permissions == nil {
		return false
	}
	return r.permissions.HasPermission(ctx, actor.ID, capability)
}

func (r *Router) actorNameLocked(actor Actor) string {
	if actor.IsConsole() {
		if actor.Name != "" {
			return actor.Name
		}
		return ConsoleName
	}
	if p, ok := r.participantLocked(actor.ID); ok && p.DisplayName != "" {
		return p.DisplayName
	}
	if actor.Name != "" {
		return actor.Name
	}
	return actor.ID
}

// findByNameLocked returns the first connected participant, in roster order,
// whose display name contains needle ignoring case.
func (r *Router) findByNameLocked(needle string) (domain.Participant, bool) {
	needle = strings.ToLower(needle)
	for _, p := range r.roster.AllConnected() {
		if !p.Valid {
			continue
		}
		if strings.Contains(strings.ToLower(p.DisplayName), needle) {
			return p, true
		}
	}
	return domain.Participant{}, false
}
