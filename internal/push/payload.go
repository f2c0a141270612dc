// internal/push/payload.go
package push

import (
	"encoding/json"

	"notify-fanout/internal/models"
)

// clickAction routes taps into the client's notification handler.
const clickAction = "FLUTTER_NOTIFICATION_CLICK"

const androidChannelID = "high_importance_channel"

type gcmNotification struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	ChannelID string `json:"android_channel_id"`
	Sound     string `json:"sound"`
}

type gcmMessage struct {
	Priority     string            `json:"priority"`
	Notification gcmNotification   `json:"notification"`
	Data         map[string]string `json:"data"`
}

type apsAlert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type aps struct {
	Alert apsAlert `json:"alert"`
	Sound string   `json:"sound"`
	Badge int      `json:"badge"`
}

// buildMessage shapes the SNS json-structure envelope with platform-specific
// sections. The data payload duplicates title/body for clients that read from
// data instead of the system tray.
func buildMessage(content models.NotificationContent) (string, error) {
	data := map[string]string{
		"type":         content.Type,
		"click_action": clickAction,
		"title":        content.Title,
		"body":         content.Body,
	}
	for k, v := range content.Metadata {
		data[k] = v
	}

	gcm, err := json.Marshal(gcmMessage{
		Priority: "high",
		Notification: gcmNotification{
			Title:     content.Title,
			Body:      content.Body,
			ChannelID: androidChannelID,
			Sound:     "default",
		},
		Data: data,
	})
	if err != nil {
		return "", err
	}

	apnsPayload := map[string]interface{}{
		"aps": aps{
			Alert: apsAlert{Title: content.Title, Body: content.Body},
			Sound: "default",
			Badge: 1,
		},
	}
	for k, v := range data {
		apnsPayload[k] = v
	}
	apns, err := json.Marshal(apnsPayload)
	if err != nil {
		return "", err
	}

	envelope := map[string]string{
		"default": content.Body,
		"GCM":     string(gcm),
		"APNS":    string(apns),
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
