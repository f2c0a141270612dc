// internal/push/push_test.go
package push

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"notify-fanout/internal/common/logger"
	"notify-fanout/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Mock Implementations
// ==========================

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	calls       int
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls++
	return m.PublishFunc(ctx, params, optFns...)
}

func testContent() models.NotificationContent {
	return models.NotificationContent{
		Title: "Ayşe",
		Body:  "selam",
		Type:  models.TypeMessage,
		Metadata: map[string]string{
			"chatId":   "c1",
			"senderId": "u1",
		},
	}
}

// ==========================
// Dispatch Tests
// ==========================

func TestDispatch_Sent(t *testing.T) {
	var captured *sns.PublishInput
	mock := &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			captured = params
			return &sns.PublishOutput{}, nil
		},
	}
	d := NewDispatcher(mock, logger.NewTestLogger(t))

	profile := &models.UserProfile{ID: "u2", Name: "Mehmet", PushToken: "arn:aws:sns:endpoint/u2"}
	result := d.Dispatch(context.Background(), profile, testContent())

	assert.Equal(t, ResultSent, result)
	assert.NotNil(t, captured)
	assert.Equal(t, "arn:aws:sns:endpoint/u2", *captured.TargetArn)
	assert.Equal(t, "json", *captured.MessageStructure)
}

func TestDispatch_PayloadShape(t *testing.T) {
	var message string
	mock := &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			message = *params.Message
			return &sns.PublishOutput{}, nil
		},
	}
	d := NewDispatcher(mock, logger.NewTestLogger(t))

	profile := &models.UserProfile{ID: "u2", PushToken: "arn:u2"}
	assert.Equal(t, ResultSent, d.Dispatch(context.Background(), profile, testContent()))

	var envelope map[string]string
	assert.NoError(t, json.Unmarshal([]byte(message), &envelope))
	assert.Equal(t, "selam", envelope["default"])

	var gcm gcmMessage
	assert.NoError(t, json.Unmarshal([]byte(envelope["GCM"]), &gcm))
	assert.Equal(t, "high", gcm.Priority)
	assert.Equal(t, "Ayşe", gcm.Notification.Title)
	assert.Equal(t, "selam", gcm.Notification.Body)
	assert.Equal(t, "high_importance_channel", gcm.Notification.ChannelID)
	assert.Equal(t, "default", gcm.Notification.Sound)

	// Data payload carries type, metadata, routing hint and duplicated
	// title/body for clients reading from data instead of the tray.
	assert.Equal(t, "message", gcm.Data["type"])
	assert.Equal(t, "c1", gcm.Data["chatId"])
	assert.Equal(t, "u1", gcm.Data["senderId"])
	assert.Equal(t, "FLUTTER_NOTIFICATION_CLICK", gcm.Data["click_action"])
	assert.Equal(t, "Ayşe", gcm.Data["title"])
	assert.Equal(t, "selam", gcm.Data["body"])

	var apns map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(envelope["APNS"]), &apns))
	aps := apns["aps"].(map[string]interface{})
	assert.Equal(t, "default", aps["sound"])
	assert.Equal(t, float64(1), aps["badge"])
	alert := aps["alert"].(map[string]interface{})
	assert.Equal(t, "Ayşe", alert["title"])
	assert.Equal(t, "selam", alert["body"])
	assert.Equal(t, "c1", apns["chatId"])
}

func TestDispatch_SkippedWithoutToken(t *testing.T) {
	mock := &MockSNSService{
		PublishFunc: func(_ context.Context, _ *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			t.Fatal("publish must not be called without a token")
			return nil, nil
		},
	}
	d := NewDispatcher(mock, logger.NewTestLogger(t))

	tests := []struct {
		name    string
		profile *models.UserProfile
	}{
		{name: "nil profile", profile: nil},
		{name: "empty token", profile: &models.UserProfile{ID: "u2", Name: "Mehmet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := d.Dispatch(context.Background(), tt.profile, testContent())
			assert.Equal(t, ResultSkipped, result)
		})
	}
	assert.Zero(t, mock.calls)
}

func TestDispatch_GatewayErrorIsFailedNotFatal(t *testing.T) {
	mock := &MockSNSService{
		PublishFunc: func(_ context.Context, _ *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("EndpointDisabled: endpoint is disabled")
		},
	}
	d := NewDispatcher(mock, logger.NewTestLogger(t))

	profile := &models.UserProfile{ID: "u2", PushToken: "arn:stale"}
	result := d.Dispatch(context.Background(), profile, testContent())

	assert.Equal(t, ResultFailed, result)
	assert.Equal(t, 1, mock.calls)
}
