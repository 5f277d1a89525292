package store

import (
	"context"

	"github.com/dimaboro-code/onAI/internal/models"
)

// ConversationStore defines the interface for the persistent conversation log.
// Both PostgresStore and SQLiteStore implement this interface.
type ConversationStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// EnsureSchema creates the messages table if it does not exist.
	EnsureSchema(ctx context.Context) error

	// Append inserts a turn with a store-assigned id and creation timestamp.
	Append(ctx context.Context, content string, role models.Role) (*models.Turn, error)

	// ReadAll returns every turn ascending by creation order.
	ReadAll(ctx context.Context) ([]models.Turn, error)

	// Clear deletes every turn.
	Clear(ctx context.Context) error

	// DeleteByID deletes a single turn. Unused by the relay pipeline.
	DeleteByID(ctx context.Context, id int64) error
}
