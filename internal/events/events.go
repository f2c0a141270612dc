// internal/events/events.go

// Package events defines the domain events consumed by the dispatch pipeline
// and the defensive decoding of raw change-feed entries into typed values.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Event kinds as they appear on the change feed.
const (
	KindMessage = "message"
	KindAction  = "action"
	KindMatch   = "match"
)

// Action subtypes. Only like and superlike trigger a notification; everything
// else is filtered by the coordinator before any side effect.
const (
	ActionLike      = "like"
	ActionSuperlike = "superlike"
	ActionPass      = "pass"
)

// ErrMalformed marks an entry that fails structural validation. Malformed
// input is discarded, not retried.
var ErrMalformed = errors.New("malformed event")

// Raw is one change-feed entry as delivered: an event kind, the path
// parameters of the triggering document, and its schema-less field set.
type Raw struct {
	Kind    string
	ChatID  string
	MatchID string
	Payload []byte
}

// Event is the tagged union of the three domain event variants.
type Event interface {
	Kind() string
}

// MessageEvent fires when a new message document is created in a chat.
type MessageEvent struct {
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
}

func (MessageEvent) Kind() string { return KindMessage }

// ActionEvent fires when one user acts on another (like, superlike, pass, ...).
type ActionEvent struct {
	Type       string `json:"type"`
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
}

func (ActionEvent) Kind() string { return KindAction }

// MatchEvent fires when a mutual match document is created.
type MatchEvent struct {
	MatchID string   `json:"matchId"`
	UserIDs []string `json:"users"`
}

func (MatchEvent) Kind() string { return KindMatch }

// Decode validates a raw entry against the schema for its kind and returns
// the typed event. Any structural problem yields ErrMalformed.
func Decode(raw Raw) (Event, error) {
	switch raw.Kind {
	case KindMessage:
		if raw.ChatID == "" {
			return nil, fmt.Errorf("%w: missing chatId", ErrMalformed)
		}
		if err := validatePayload(messageSchema, raw.Payload); err != nil {
			return nil, err
		}
		var evt MessageEvent
		if err := json.Unmarshal(raw.Payload, &evt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		evt.ChatID = raw.ChatID
		return evt, nil

	case KindAction:
		if err := validatePayload(actionSchema, raw.Payload); err != nil {
			return nil, err
		}
		var evt ActionEvent
		if err := json.Unmarshal(raw.Payload, &evt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return evt, nil

	case KindMatch:
		if raw.MatchID == "" {
			return nil, fmt.Errorf("%w: missing matchId", ErrMalformed)
		}
		if err := validatePayload(matchSchema, raw.Payload); err != nil {
			return nil, err
		}
		var evt MatchEvent
		if err := json.Unmarshal(raw.Payload, &evt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		evt.MatchID = raw.MatchID
		return evt, nil

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformed, raw.Kind)
	}
}
