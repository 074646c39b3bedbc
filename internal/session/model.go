package session

import "time"

const (
	// MaxHistoryEntries caps the stored transcript; older entries drop first.
	MaxHistoryEntries = 20

	// HistoryTTL is how long a session's history stays usable. Sessions older
	// than this are read as empty; the stored row is only replaced on the
	// next write.
	HistoryTTL = 24 * time.Hour
)

// Entry is a single turn in a contact's transcript.
type Entry struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Session is the per-contact conversational state. One row per contact
// identifier (the WhatsApp phone number).
type Session struct {
	ContactID     string
	History       []Entry
	LastUpdatedAt time.Time
	SnoozedUntil  *time.Time
}

// Stale reports whether the history is past its TTL and should be read as empty.
func (s *Session) Stale(now time.Time) bool {
	return now.Sub(s.LastUpdatedAt) > HistoryTTL
}

// Snoozed reports whether automated replies are currently suppressed.
func (s *Session) Snoozed(now time.Time) bool {
	return s.SnoozedUntil != nil && s.SnoozedUntil.After(now)
}

// AppendPair appends one user/assistant exchange and truncates to the most
// recent MaxHistoryEntries entries. History only ever grows in pairs.
func AppendPair(history []Entry, userContent, assistantContent string) []Entry {
	history = append(history,
		Entry{Role: "user", Content: userContent},
		Entry{Role: "assistant", Content: assistantContent},
	)
	if len(history) > MaxHistoryEntries {
		history = history[len(history)-MaxHistoryEntries:]
	}
	return history
}
