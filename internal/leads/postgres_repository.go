package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
)

var repoTracer = otel.Tracer("concierge.internal.leads.repository")

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// NewPostgresRepositoryWithQuerier is used by tests to inject a mock pool.
func NewPostgresRepositoryWithQuerier(q querier) *PostgresRepository {
	if q == nil {
		panic("leads: querier required")
	}
	return &PostgresRepository{pool: q}
}

var _ Repository = (*PostgresRepository)(nil)

// Create inserts a new row with a generated id.
func (r *PostgresRepository) Create(ctx context.Context, c *Candidate) (*Lead, error) {
	ctx, span := repoTracer.Start(ctx, "leads.create")
	defer span.End()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO orcamentos (id, nome, email, telefone, servico)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		c.Nome,
		c.Email,
		c.Telefone,
		c.Servico,
	).Scan(&createdAt); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:        id.String(),
		Nome:      c.Nome,
		Email:     c.Email,
		Telefone:  c.Telefone,
		Servico:   c.Servico,
		CreatedAt: createdAt,
	}, nil
}
