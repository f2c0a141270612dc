// internal/store/chats.go

// Package store holds the document-store access layer: point reads of chats
// and user profiles, and the append-only in-app notification write.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"notify-fanout/internal/models"

	"github.com/lib/pq"
)

// ChatStore reads chat documents. Read-only to the pipeline.
type ChatStore struct {
	db *sql.DB
}

func NewChatStore(db *sql.DB) *ChatStore {
	return &ChatStore{db: db}
}

// GetChat returns the chat with the given id, or (nil, nil) when absent.
func (s *ChatStore) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	var users pq.StringArray
	err := s.db.QueryRowContext(ctx,
		`SELECT users FROM chats WHERE id = $1`, id,
	).Scan(&users)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chat %s: %w", id, err)
	}

	return &models.Chat{ID: id, Users: []string(users)}, nil
}
