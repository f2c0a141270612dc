// internal/pipeline/resolver.go
package pipeline

import (
	"context"

	"notify-fanout/internal/common/logger"
	"notify-fanout/internal/events"
)

// defaultSenderName is the placeholder shown when the sender's profile is
// missing or unreadable.
const defaultSenderName = "Birisi"

// Resolver determines the recipient set for an event. A (nil, nil) return
// signals a no-op: the event terminates with no side effects and no error.
type Resolver struct {
	chats    ChatReader
	profiles ProfileReader
	logger   logger.Logger
}

func NewResolver(chats ChatReader, profiles ProfileReader, log logger.Logger) *Resolver {
	return &Resolver{
		chats:    chats,
		profiles: profiles,
		logger:   log.WithFields(map[string]interface{}{"component": "resolver"}),
	}
}

func (r *Resolver) Resolve(ctx context.Context, evt events.Event) (*Resolution, error) {
	switch e := evt.(type) {
	case events.MessageEvent:
		return r.resolveMessage(ctx, e)

	case events.ActionEvent:
		// Recipient is unconditional here; the like/superlike filter has
		// already happened in the coordinator.
		return &Resolution{Recipients: []string{e.ToUserID}}, nil

	case events.MatchEvent:
		return &Resolution{Recipients: append([]string(nil), e.UserIDs...)}, nil
	}

	return nil, nil
}

func (r *Resolver) resolveMessage(ctx context.Context, e events.MessageEvent) (*Resolution, error) {
	chat, err := r.chats.GetChat(ctx, e.ChatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		r.logger.Debug("chat not found, dropping event", map[string]interface{}{
			"chatId": e.ChatID,
		})
		return nil, nil
	}

	recipient := chat.OtherUser(e.SenderID)
	if recipient == "" {
		return nil, nil
	}

	// Sender name lookup failures are tolerated, not propagated.
	senderName := defaultSenderName
	sender, err := r.profiles.GetProfile(ctx, e.SenderID)
	if err != nil {
		r.logger.Warn("sender profile lookup failed, using placeholder", map[string]interface{}{
			"senderId": e.SenderID,
			"error":    err.Error(),
		})
	} else if sender != nil && sender.Name != "" {
		senderName = sender.Name
	}

	return &Resolution{
		Recipients: []string{recipient},
		SenderName: senderName,
	}, nil
}
