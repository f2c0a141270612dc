// internal/feed/consumer.go

// Package feed consumes the change feed (a redis stream) and hands decoded
// events to the dispatch coordinator. Delivery is at-least-once: entries are
// acked after dispatch, and malformed entries are acked too, since malformed
// input is discarded rather than retried.
package feed

import (
	"context"
	"errors"
	"strings"
	"time"

	cerrors "notify-fanout/internal/common/errors"
	"notify-fanout/internal/common/logger"
	"notify-fanout/internal/common/metrics"
	"notify-fanout/internal/events"
	"notify-fanout/internal/pipeline"

	"github.com/redis/go-redis/v9"
)

// Dispatcher is the coordinator surface the consumer drives.
type Dispatcher interface {
	Dispatch(ctx context.Context, evt events.Event) *pipeline.Outcome
}

type Config struct {
	Stream    string
	Group     string
	Consumer  string
	BatchSize int
	Block     time.Duration
}

type Consumer struct {
	client     *redis.Client
	cfg        Config
	dispatcher Dispatcher
	logger     logger.Logger
}

func NewConsumer(client *redis.Client, cfg Config, dispatcher Dispatcher, log logger.Logger) *Consumer {
	return &Consumer{
		client:     client,
		cfg:        cfg,
		dispatcher: dispatcher,
		logger: log.WithFields(map[string]interface{}{
			"component": "feed",
			"stream":    cfg.Stream,
			"group":     cfg.Group,
		}),
	}
}

// Run consumes the stream until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	c.logger.Info("feed consumer started", map[string]interface{}{
		"consumer": c.cfg.Consumer,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.Consumer,
			Streams:  []string{c.cfg.Stream, ">"},
			Count:    int64(c.cfg.BatchSize),
			Block:    c.cfg.Block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			se := cerrors.NewFeedReadFailedError(err)
			c.logger.Error("feed read failed", map[string]interface{}{
				"code":  string(se.Code),
				"error": err.Error(),
			})
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				c.handle(ctx, msg)
			}
		}
	}
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) {
	raw := rawFromValues(msg.Values)

	evt, err := events.Decode(raw)
	if err != nil {
		c.logger.Debug("dropping malformed feed entry", map[string]interface{}{
			"entryId": msg.ID,
			"kind":    raw.Kind,
			"error":   err.Error(),
		})
		metrics.EventsDropped.WithLabelValues(pipeline.DropReasonMalformed).Inc()
	} else {
		c.dispatcher.Dispatch(ctx, evt)
	}

	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID).Err(); err != nil {
		c.logger.Warn("feed ack failed", map[string]interface{}{
			"entryId": msg.ID,
			"error":   err.Error(),
		})
	}
}

func rawFromValues(values map[string]interface{}) events.Raw {
	str := func(key string) string {
		if v, ok := values[key].(string); ok {
			return v
		}
		return ""
	}
	return events.Raw{
		Kind:    str("kind"),
		ChatID:  str("chatId"),
		MatchID: str("matchId"),
		Payload: []byte(str("payload")),
	}
}
