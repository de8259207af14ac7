package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drewhammond/folio-api/internal/generator"
)

// ErrResponseExists is returned when a second response write is
// attempted for the same id. Responses are created at most once.
var ErrResponseExists = errors.New("response already exists")

// Postgres is the PostgreSQL-backed RecordStore. Records are stored as
// JSONB documents keyed by their deterministic ids, with the few columns
// the API filters on lifted out alongside.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Pool exposes the underlying pool for collaborators that share the
// connection (content repository).
func (s *Postgres) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the connection pool.
func (s *Postgres) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveRequest upserts a request record.
func (s *Postgres) SaveRequest(ctx context.Context, req *generator.GeneratorRequest) error {
	doc, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO generator_requests (id, status, generate_type, provider, document, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET status = $2, document = $5, updated_at = NOW()`,
		req.ID, string(req.Status), string(req.GenerateType), string(req.Provider), doc, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save request %s: %w", req.ID, err)
	}
	return nil
}

// GetRequest returns a request by id, or nil if absent.
func (s *Postgres) GetRequest(ctx context.Context, id string) (*generator.GeneratorRequest, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM generator_requests WHERE id = $1`, id,
	).Scan(&doc)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get request %s: %w", id, err)
	}

	var req generator.GeneratorRequest
	if err := json.Unmarshal(doc, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request %s: %w", id, err)
	}
	return &req, nil
}

// SaveResponse writes a response record once. A conflicting id means the
// response was already finalized.
func (s *Postgres) SaveResponse(ctx context.Context, resp *generator.GeneratorResponse) error {
	doc, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO generator_responses (id, request_id, success, document, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		resp.ID, resp.RequestID, resp.Result.Success, doc, resp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save response %s: %w", resp.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrResponseExists
	}
	return nil
}

// GetResponse returns a response by id, or nil if absent.
func (s *Postgres) GetResponse(ctx context.Context, id string) (*generator.GeneratorResponse, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM generator_responses WHERE id = $1`, id,
	).Scan(&doc)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get response %s: %w", id, err)
	}

	var resp generator.GeneratorResponse
	if err := json.Unmarshal(doc, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response %s: %w", id, err)
	}
	return &resp, nil
}
