// internal/pipeline/pipeline.go

// Package pipeline contains the dispatch core: recipient resolution, content
// composition, and the per-event coordinator that fans delivery out across
// recipients.
package pipeline

import (
	"context"

	"notify-fanout/internal/models"
	"notify-fanout/internal/push"
)

// ChatReader does point reads of chat documents. Absence is (nil, nil).
type ChatReader interface {
	GetChat(ctx context.Context, id string) (*models.Chat, error)
}

// ProfileReader does point reads of user profiles. Absence is (nil, nil).
type ProfileReader interface {
	GetProfile(ctx context.Context, id string) (*models.UserProfile, error)
}

// RecordAppender writes one in-app notification record per call.
type RecordAppender interface {
	Append(ctx context.Context, userID string, content models.NotificationContent) error
}

// PushSender attempts best-effort push delivery and reports the outcome.
type PushSender interface {
	Dispatch(ctx context.Context, profile *models.UserProfile, content models.NotificationContent) push.Result
}

// Outcome statuses
const (
	StatusDropped   = "dropped"
	StatusCompleted = "completed"
)

// Drop reasons
const (
	DropReasonFiltered      = "filtered"
	DropReasonMalformed     = "malformed"
	DropReasonNoRecipient   = "no_recipient"
	DropReasonResolveFailed = "resolve_failed"
	DropReasonPanic         = "panic"
)

// Delivery is the per-recipient result of one dispatch.
type Delivery struct {
	UserID string
	Stored bool
	Push   push.Result
}

// Outcome is the terminal result of one event occurrence. The coordinator
// never reports a hard failure: every path ends in dropped or completed.
type Outcome struct {
	Status     string
	DropReason string
	Deliveries []Delivery
}

// Resolution carries the recipient set and the context needed to personalize
// the notification.
type Resolution struct {
	Recipients []string
	SenderName string
}
