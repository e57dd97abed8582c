package nakama

import (
	"github.com/heroiclabs/nakama-common/runtime"
)

type outboundMessage struct {
	opCode int64
	data   []byte
	// presences is nil for a match-wide broadcast.
	presences []runtime.Presence
}

// outbox queues server messages produced while handling an event and sends
// them once the handler is done, in the order they were queued.
type outbox struct {
	pending []outboundMessage
}

func (o *outbox) push(opCode int64, data []byte, presences []runtime.Presence) {
	o.pending = append(o.pending, outboundMessage{opCode: opCode, data: data, presences: presences})
}

func (o *outbox) len() int {
	return len(o.pending)
}

func (o *outbox) flush(dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	pending := o.pending
	o.pending = nil
	for _, msg := range pending {
		if err := dispatcher.BroadcastMessage(msg.opCode, msg.data, msg.presences, nil, true); err != nil {
			logger.Error("Outbox: failed to send opcode %d: %v", msg.opCode, err)
		}
	}
}
