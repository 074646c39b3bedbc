package leads

import (
	"strings"
	"time"
)

// Lead is a completed quote request captured from a conversation. Immutable
// once created; there is no update path.
type Lead struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	Telefone  string    `json:"telefone"`
	Servico   string    `json:"servico"`
	CreatedAt time.Time `json:"created_at"`
}

// Candidate carries the four intake fields extracted from an AI reply,
// before an id is assigned.
type Candidate struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Servico  string `json:"servico"`
}

// Validate checks that all four intake fields are present.
func (c *Candidate) Validate() error {
	if strings.TrimSpace(c.Nome) == "" {
		return ErrMissingNome
	}
	if strings.TrimSpace(c.Email) == "" {
		return ErrMissingEmail
	}
	if strings.TrimSpace(c.Telefone) == "" {
		return ErrMissingTelefone
	}
	if strings.TrimSpace(c.Servico) == "" {
		return ErrMissingServico
	}
	return nil
}
