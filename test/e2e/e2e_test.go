// test/e2e/e2e_test.go

// End-to-end dispatch flow: feed entry in, in-app record and push out,
// exercising the real consumer, coordinator, stores and push dispatcher
// against in-process backends.
package e2e

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notify-fanout/internal/common/logger"
	"notify-fanout/internal/feed"
	"notify-fanout/internal/pipeline"
	"notify-fanout/internal/push"
	"notify-fanout/internal/store"
)

type capturingSNS struct {
	mu     sync.Mutex
	inputs []*sns.PublishInput
}

func (c *capturingSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs = append(c.inputs, params)
	return &sns.PublishOutput{}, nil
}

func (c *capturingSNS) published() []*sns.PublishInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*sns.PublishInput(nil), c.inputs...)
}

func TestMessageEventEndToEnd(t *testing.T) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	dbmock.MatchExpectationsInOrder(false)

	dbmock.ExpectQuery(`SELECT users FROM chats WHERE id = \$1`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"users"}).AddRow("{u1,u2}"))
	dbmock.ExpectQuery(`SELECT name, push_token FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "push_token"}).AddRow("Ayşe", nil))
	dbmock.ExpectQuery(`SELECT name, push_token FROM users WHERE id = \$1`).
		WithArgs("u2").
		WillReturnRows(sqlmock.NewRows([]string{"name", "push_token"}).AddRow("Mehmet", "arn:device-u2"))
	dbmock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(sqlmock.AnyArg(), "u2", "Ayşe", "selam", "message", []byte(`{"chatId":"c1","senderId":"u1"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	log := logger.NewTestLogger(t)
	chats := store.NewChatStore(db)
	profiles := store.NewProfileStore(db, nil, 0, log)
	records := store.NewNotificationStore(db)
	snsMock := &capturingSNS{}
	pusher := push.NewDispatcher(snsMock, log)

	resolver := pipeline.NewResolver(chats, profiles, log)
	coordinator := pipeline.NewCoordinator(resolver, records, profiles, pusher, log)

	consumer := feed.NewConsumer(client, feed.Config{
		Stream:    "events",
		Group:     "dispatchers",
		Consumer:  "e2e-1",
		BatchSize: 16,
		Block:     50 * time.Millisecond,
	}, coordinator, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = consumer.Run(ctx) }()

	_, err = mr.XAdd("events", "*", []string{
		"kind", "message",
		"chatId", "c1",
		"payload", `{"senderId":"u1","text":"selam"}`,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(snsMock.published()) == 1
	}, 3*time.Second, 10*time.Millisecond)

	published := snsMock.published()[0]
	assert.Equal(t, "arn:device-u2", *published.TargetArn)
	assert.Equal(t, "json", *published.MessageStructure)
	assert.Contains(t, *published.Message, "Ayşe")
	assert.Contains(t, *published.Message, "selam")

	assert.Eventually(t, func() bool {
		return dbmock.ExpectationsWereMet() == nil
	}, 3*time.Second, 10*time.Millisecond)

	// Entry acked after dispatch.
	assert.Eventually(t, func() bool {
		pending, err := client.XPending(context.Background(), "events", "dispatchers").Result()
		return err == nil && pending.Count == 0
	}, 3*time.Second, 10*time.Millisecond)
}
