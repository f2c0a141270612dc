// internal/store/notifications.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"notify-fanout/internal/models"

	"github.com/google/uuid"
)

// NotificationStore appends in-app notification records to a recipient's
// inbox. One row per (recipient, event occurrence); no deduplication under
// redelivery.
type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Append inserts one unread record with a server-assigned creation timestamp.
func (s *NotificationStore) Append(ctx context.Context, userID string, content models.NotificationContent) error {
	metadata := content.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal notification metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, title, body, type, is_read, created_at, metadata)
		 VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), $6)`,
		uuid.New().String(), userID, content.Title, content.Body, content.Type, meta,
	)
	if err != nil {
		return fmt.Errorf("insert notification for %s: %w", userID, err)
	}
	return nil
}
