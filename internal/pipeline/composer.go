// internal/pipeline/composer.go
package pipeline

import (
	"notify-fanout/internal/events"
	"notify-fanout/internal/models"
)

// Fixed localized copy. Titles and bodies here are never user-supplied.
const (
	likeTitle      = "Biri seni begendi!"
	superlikeTitle = "Biri seni cok begendi!"
	likeBody       = "Yeni bir hayranin var, hemen bak!"
	matchTitle     = "Yeni Eslesme!"
	matchBody      = "Biriyle eslestin, hemen sohbete basla!"
)

// Message previews longer than previewMax runes are cut to previewCut + "...".
const (
	previewMax = 50
	previewCut = 47
)

// Compose produces the channel-agnostic notification content for an event.
// It is pure and deterministic given its inputs.
func Compose(evt events.Event, res *Resolution) models.NotificationContent {
	switch e := evt.(type) {
	case events.MessageEvent:
		return models.NotificationContent{
			Title: res.SenderName,
			Body:  preview(e.Text),
			Type:  models.TypeMessage,
			Metadata: map[string]string{
				"chatId":   e.ChatID,
				"senderId": e.SenderID,
			},
		}

	case events.ActionEvent:
		title := likeTitle
		if e.Type == events.ActionSuperlike {
			title = superlikeTitle
		}
		return models.NotificationContent{
			Title: title,
			Body:  likeBody,
			Type:  models.TypeLike,
			Metadata: map[string]string{
				"fromUserId": e.FromUserID,
			},
		}

	case events.MatchEvent:
		return models.NotificationContent{
			Title: matchTitle,
			Body:  matchBody,
			Type:  models.TypeMatch,
			Metadata: map[string]string{
				"matchId": e.MatchID,
			},
		}
	}

	return models.NotificationContent{}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewMax {
		return string(runes[:previewCut]) + "..."
	}
	return text
}
