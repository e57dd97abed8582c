package nakama

import (
	"warden/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// visualAdapter writes render colors into the roster right away and queues
// an OpRender update for clients. Unknown participants are ignored.
type visualAdapter struct {
	roster *matchRoster
	outbox *outbox
	logger runtime.Logger
}

// Apply implements ports.VisualPort.
func (v *visualAdapter) Apply(id domain.ParticipantID, color domain.Color) {
	v.set(id, color, true)
}

// Clear implements ports.VisualPort.
func (v *visualAdapter) Clear(id domain.ParticipantID, fallback domain.Color) {
	v.set(id, fallback, false)
}

func (v *visualAdapter) set(id domain.ParticipantID, color domain.Color, override bool) {
	if !v.roster.setRender(id, color) {
		return
	}
	data, err := encodePayload(map[string]interface{}{
		"user_id":  id,
		"r":        int(color.R),
		"g":        int(color.G),
		"b":        int(color.B),
		"a":        int(color.A),
		"override": override,
	})
	if err != nil {
		v.logger.Error("Visual: failed to encode render update: %v", err)
		return
	}
	v.outbox.push(OpRender, data, nil)
}
