package nakama

import (
	"warden/internal/domain"
	"warden/internal/i18n"

	"github.com/heroiclabs/nakama-common/runtime"
)

// consoleBuffer collects replies addressed to the server console during one signal.
type consoleBuffer struct {
	lines []string
}

func (b *consoleBuffer) drain() []string {
	lines := b.lines
	b.lines = nil
	return lines
}

// messagingAdapter renders message keys per participant locale and queues OpNotice payloads.
type messagingAdapter struct {
	roster        *matchRoster
	renderer      *i18n.Renderer
	outbox        *outbox
	console       *consoleBuffer
	defaultLocale string
	noticeMillis  int
	logger        runtime.Logger
}

// NotifyAll implements ports.MessagingPort.
func (m *messagingAdapter) NotifyAll(key string, args ...any) {
	m.toAll(ChannelCenter, key, args)
}

// Broadcast implements ports.MessagingPort.
func (m *messagingAdapter) Broadcast(key string, args ...any) {
	m.toAll(ChannelChat, key, args)
}

// Reply implements ports.MessagingPort. An empty target is the server console.
func (m *messagingAdapter) Reply(target domain.ParticipantID, key string, args ...any) {
	if target == "" {
		m.console.lines = append(m.console.lines, m.renderer.Render(m.defaultLocale, key, args...))
		return
	}
	p, ok := m.roster.ByID(target)
	if !ok {
		return
	}
	presence, _ := m.roster.presence(target)
	m.queue(ChannelReply, m.renderer.Render(p.Locale, key, args...), []runtime.Presence{presence})
}

// toAll sends one message per distinct locale, addressed to the participants using it.
func (m *messagingAdapter) toAll(channel, key string, args []any) {
	var locales []string
	byLocale := make(map[string][]runtime.Presence)
	for _, p := range m.roster.AllConnected() {
		presence, ok := m.roster.presence(p.ID)
		if !ok {
			continue
		}
		if _, seen := byLocale[p.Locale]; !seen {
			locales = append(locales, p.Locale)
		}
		byLocale[p.Locale] = append(byLocale[p.Locale], presence)
	}
	for _, locale := range locales {
		m.queue(channel, m.renderer.Render(locale, key, args...), byLocale[locale])
	}
}

func (m *messagingAdapter) queue(channel, text string, presences []runtime.Presence) {
	fields := map[string]interface{}{
		"channel": channel,
		"text":    text,
	}
	if channel == ChannelCenter {
		fields["duration_ms"] = m.noticeMillis
	}
	data, err := encodePayload(fields)
	if err != nil {
		m.logger.Error("Messaging: failed to encode notice: %v", err)
		return
	}
	m.outbox.push(OpNotice, data, presences)
}
