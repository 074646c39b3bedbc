package conversation

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is a single turn passed to the completion endpoint.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RawReply is what the completion endpoint produced, before classification.
// Exactly one of the two shapes is set: Object is non-nil when the reply text
// parsed as a JSON object, otherwise Text carries the plain reply.
type RawReply struct {
	Text   string
	Object map[string]any
}

// IsObject reports whether the model returned a JSON object.
func (r RawReply) IsObject() bool {
	return r.Object != nil
}
