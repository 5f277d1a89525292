package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dimaboro-code/onAI/internal/models"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS messages (
	id BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	content TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('user', 'assistant'))
)`

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureSchema creates the messages table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, pgSchema)
	return err
}

// Append inserts a new turn and returns it with the assigned id and timestamp.
func (s *PostgresStore) Append(ctx context.Context, content string, role models.Role) (*models.Turn, error) {
	turn := &models.Turn{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (content, role)
		VALUES ($1, $2)
		RETURNING id, created_at, content, role
	`, content, string(role)).Scan(
		&turn.ID,
		&turn.CreatedAt,
		&turn.Content,
		&turn.Role,
	)
	if err != nil {
		return nil, err
	}
	return turn, nil
}

// ReadAll retrieves every turn ascending by insertion order. Ids are
// store-assigned and monotonic, so they order correctly even when two
// concurrent appends commit with skewed timestamps.
func (s *PostgresStore) ReadAll(ctx context.Context) ([]models.Turn, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, created_at, content, role
		FROM messages
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []models.Turn
	for rows.Next() {
		var turn models.Turn
		err := rows.Scan(
			&turn.ID,
			&turn.CreatedAt,
			&turn.Content,
			&turn.Role,
		)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}

	return turns, rows.Err()
}

// Clear deletes every turn.
func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM messages`)
	return err
}

// DeleteByID deletes a single turn by id.
func (s *PostgresStore) DeleteByID(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}
