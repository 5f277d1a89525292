package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dimaboro-code/onAI/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TIMESTAMP NOT NULL,
	content TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('user', 'assistant'))
)`

// SQLiteStore is the embedded-database sibling of PostgresStore, used in
// development and in tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a SQLite database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_loc=UTC")
	if err != nil {
		return nil, err
	}

	// Serialize writers; SQLite allows only one at a time anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the messages table if it does not exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchema)
	return err
}

// Append inserts a new turn and returns it with the assigned id and timestamp.
func (s *SQLiteStore) Append(ctx context.Context, content string, role models.Role) (*models.Turn, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (created_at, content, role)
		VALUES (?, ?, ?)
	`, now, content, string(role))
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Turn{
		ID:        id,
		CreatedAt: now,
		Content:   content,
		Role:      role,
	}, nil
}

// ReadAll retrieves every turn ascending by insertion order. The id, not
// created_at, is the order key: timestamps are assigned before the writer
// lock is acquired, so they can commit out of order under concurrency.
func (s *SQLiteStore) ReadAll(ctx context.Context) ([]models.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
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
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages`)
	return err
}

// DeleteByID deletes a single turn by id.
func (s *SQLiteStore) DeleteByID(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	return err
}
