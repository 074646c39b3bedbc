package messaging

import "errors"

// ErrMissingPhone is returned when a webhook payload has no contact id.
var ErrMissingPhone = errors.New("messaging: phone is required")

// EventKind discriminates the closed set of inbound webhook events.
type EventKind string

const (
	// EventText is a typed message from the contact.
	EventText EventKind = "text"
	// EventAudio is a voice message to be transcribed.
	EventAudio EventKind = "audio"
	// EventOperatorEcho is a message sent by a human operator from the
	// business side (fromMe); it pauses the bot for this contact.
	EventOperatorEcho EventKind = "operator_echo"
	// EventUnsupported is any payload carrying neither text nor audio.
	EventUnsupported EventKind = "unsupported"
)

// InboundEvent is the normalized form of one provider webhook delivery.
type InboundEvent struct {
	Kind      EventKind
	Phone     string
	MessageID string
	Text      string
	AudioURL  string
}

// WebhookPayload mirrors the provider's message-received webhook body. Only
// the fields the orchestrator consumes are declared.
type WebhookPayload struct {
	Phone     string `json:"phone"`
	FromMe    bool   `json:"fromMe"`
	MessageID string `json:"messageId"`
	Text      *struct {
		Message string `json:"message"`
	} `json:"text"`
	Audio *struct {
		AudioURL string `json:"audioUrl"`
	} `json:"audio"`
}

// ParseWebhook turns a raw payload into a tagged InboundEvent. A missing
// phone is the only input-validation failure; everything else degrades to
// EventUnsupported.
func ParseWebhook(payload WebhookPayload) (InboundEvent, error) {
	if payload.Phone == "" {
		return InboundEvent{}, ErrMissingPhone
	}

	ev := InboundEvent{
		Phone:     payload.Phone,
		MessageID: payload.MessageID,
	}

	switch {
	case payload.FromMe:
		ev.Kind = EventOperatorEcho
	case payload.Text != nil && payload.Text.Message != "":
		ev.Kind = EventText
		ev.Text = payload.Text.Message
	case payload.Audio != nil && payload.Audio.AudioURL != "":
		ev.Kind = EventAudio
		ev.AudioURL = payload.Audio.AudioURL
	default:
		ev.Kind = EventUnsupported
	}
	return ev, nil
}
