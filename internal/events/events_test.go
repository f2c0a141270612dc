// internal/events/events_test.go
package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode_MessageEvent(t *testing.T) {
	raw := Raw{
		Kind:    KindMessage,
		ChatID:  "c1",
		Payload: []byte(`{"senderId":"u1","text":"merhaba"}`),
	}

	evt, err := Decode(raw)
	assert.NoError(t, err)

	msg, ok := evt.(MessageEvent)
	assert.True(t, ok)
	assert.Equal(t, "c1", msg.ChatID)
	assert.Equal(t, "u1", msg.SenderID)
	assert.Equal(t, "merhaba", msg.Text)
}

func TestDecode_ActionEvent(t *testing.T) {
	raw := Raw{
		Kind:    KindAction,
		Payload: []byte(`{"type":"superlike","fromUserId":"u1","toUserId":"u2"}`),
	}

	evt, err := Decode(raw)
	assert.NoError(t, err)

	action, ok := evt.(ActionEvent)
	assert.True(t, ok)
	assert.Equal(t, ActionSuperlike, action.Type)
	assert.Equal(t, "u1", action.FromUserID)
	assert.Equal(t, "u2", action.ToUserID)
}

func TestDecode_MatchEvent(t *testing.T) {
	raw := Raw{
		Kind:    KindMatch,
		MatchID: "m1",
		Payload: []byte(`{"users":["u1","u2"]}`),
	}

	evt, err := Decode(raw)
	assert.NoError(t, err)

	match, ok := evt.(MatchEvent)
	assert.True(t, ok)
	assert.Equal(t, "m1", match.MatchID)
	assert.Equal(t, []string{"u1", "u2"}, match.UserIDs)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
	}{
		{
			name: "unknown kind",
			raw:  Raw{Kind: "presence", Payload: []byte(`{}`)},
		},
		{
			name: "message missing chatId path param",
			raw:  Raw{Kind: KindMessage, Payload: []byte(`{"senderId":"u1","text":"hi"}`)},
		},
		{
			name: "message missing senderId",
			raw:  Raw{Kind: KindMessage, ChatID: "c1", Payload: []byte(`{"text":"hi"}`)},
		},
		{
			name: "message senderId wrong type",
			raw:  Raw{Kind: KindMessage, ChatID: "c1", Payload: []byte(`{"senderId":7,"text":"hi"}`)},
		},
		{
			name: "action missing toUserId",
			raw:  Raw{Kind: KindAction, Payload: []byte(`{"type":"like","fromUserId":"u1"}`)},
		},
		{
			name: "match missing matchId path param",
			raw:  Raw{Kind: KindMatch, Payload: []byte(`{"users":["u1","u2"]}`)},
		},
		{
			name: "match users wrong type",
			raw:  Raw{Kind: KindMatch, MatchID: "m1", Payload: []byte(`{"users":"u1"}`)},
		},
		{
			name: "empty payload",
			raw:  Raw{Kind: KindAction},
		},
		{
			name: "invalid json",
			raw:  Raw{Kind: KindAction, Payload: []byte(`{"type":`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := Decode(tt.raw)
			assert.Nil(t, evt)
			assert.True(t, errors.Is(err, ErrMalformed), "expected ErrMalformed, got %v", err)
		})
	}
}

func TestDecode_MatchCardinalityIsNotStructural(t *testing.T) {
	// A match with the wrong number of users still decodes; the coordinator
	// filters it before any side effect.
	raw := Raw{
		Kind:    KindMatch,
		MatchID: "m1",
		Payload: []byte(`{"users":["u1","u2","u3"]}`),
	}

	evt, err := Decode(raw)
	assert.NoError(t, err)
	assert.Len(t, evt.(MatchEvent).UserIDs, 3)
}
