package app

import (
	"warden/internal/domain"
	"warden/internal/ports"
)

// RoleState tracks the current warden and the render color they had before
// being tinted. savedColor is only ever set while holder is set.
type RoleState struct {
	holder     *domain.ParticipantID
	savedColor *domain.Color
}

// Holder returns the current warden, if any.
func (s *RoleState) Holder() (domain.ParticipantID, bool) {
	if s.holder == nil {
		return "", false
	}
	return *s.holder, true
}

// IsHolder reports whether id currently holds the role.
func (s *RoleState) IsHolder(id domain.ParticipantID) bool {
	return s.holder != nil && *s.holder == id
}

// SavedColor returns the color that will be restored when the role is cleared.
func (s *RoleState) SavedColor() (domain.Color, bool) {
	if s.savedColor == nil {
		return domain.Color{}, false
	}
	return *s.savedColor, true
}

// grant makes p the warden. A previous holder is restored first. Granting the
// role to the current holder keeps the color captured on the first grant.
func (s *RoleState) grant(p domain.Participant, visual ports.VisualPort) {
	if s.IsHolder(p.ID) {
		alpha := p.Render.A
		if s.savedColor != nil {
			alpha = s.savedColor.A
		}
		visual.Apply(p.ID, domain.WardenBlue(alpha))
		return
	}
	s.clear(visual)

	id := p.ID
	saved := p.Render
	s.holder = &id
	s.savedColor = &saved
	visual.Apply(id, domain.WardenBlue(saved.A))
}

// clear restores the holder's color and empties the role. It returns the
// former holder, or false if there was none.
func (s *RoleState) clear(visual ports.VisualPort) (domain.ParticipantID, bool) {
	if s.holder == nil {
		s.savedColor = nil
		return "", false
	}
	id := *s.holder
	if s.savedColor != nil {
		visual.Apply(id, *s.savedColor)
	} else {
		visual.Clear(id, domain.OpaqueWhite)
	}
	s.holder = nil
	s.savedColor = nil
	return id, true
}
