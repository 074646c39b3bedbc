package conversation

import (
	"fmt"

	"github.com/inovatech/concierge/internal/leads"
)

// ClassKind discriminates what an AI reply turned out to be.
type ClassKind string

const (
	// ClassLead means the reply carried all four intake fields.
	ClassLead ClassKind = "lead"
	// ClassText means the reply is a plain conversational message.
	ClassText ClassKind = "text"
	// ClassUnrecognized means the reply shape matched neither.
	ClassUnrecognized ClassKind = "unrecognized"
)

// Classification is the outcome of inspecting a RawReply.
type Classification struct {
	Kind ClassKind
	Text string
	Lead *leads.Candidate
}

var requiredLeadKeys = []string{"nome", "email", "telefone", "servico"}

// Classify decides whether a reply is a completed lead, plain text, or
// neither. A lead requires all four keys present and non-null; extra keys are
// ignored, and any missing key disqualifies even a three-of-four match.
func Classify(reply RawReply) Classification {
	if reply.IsObject() {
		candidate, ok := leadCandidate(reply.Object)
		if ok {
			return Classification{Kind: ClassLead, Lead: candidate}
		}
		return Classification{Kind: ClassUnrecognized}
	}
	if reply.Text != "" {
		return Classification{Kind: ClassText, Text: reply.Text}
	}
	return Classification{Kind: ClassUnrecognized}
}

func leadCandidate(object map[string]any) (*leads.Candidate, bool) {
	values := make(map[string]string, len(requiredLeadKeys))
	for _, key := range requiredLeadKeys {
		raw, ok := object[key]
		if !ok || raw == nil {
			return nil, false
		}
		values[key] = stringify(raw)
	}
	return &leads.Candidate{
		Nome:     values["nome"],
		Email:    values["email"],
		Telefone: values["telefone"],
		Servico:  values["servico"],
	}, true
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
