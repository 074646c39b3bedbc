package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the write contract for captured leads.
type Repository interface {
	Create(ctx context.Context, c *Candidate) (*Lead, error)
}

// InMemoryRepository keeps leads in memory for development and tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{leads: make(map[string]*Lead)}
}

var _ Repository = (*InMemoryRepository)(nil)

// Create validates the candidate and stores a new lead with a generated id.
func (r *InMemoryRepository) Create(ctx context.Context, c *Candidate) (*Lead, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	lead := &Lead{
		ID:        uuid.New().String(),
		Nome:      c.Nome,
		Email:     c.Email,
		Telefone:  c.Telefone,
		Servico:   c.Servico,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.mu.Unlock()

	return lead, nil
}

// All returns a snapshot of stored leads, for tests.
func (r *InMemoryRepository) All() []*Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, l)
	}
	return out
}
