package broker

import (
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/infrastructure/config"
	"buttonhandler/pkg/logger"
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRaw(t *testing.T) {
	r := newRedis(logger.NewNop(), nil, "q", time.Second)

	var got []*event.Event
	handler := func(_ context.Context, ev *event.Event) { got = append(got, ev) }

	r.handleRaw(context.Background(), []byte(`{"event_id":"e1","user":{"uuid":42,"name":"Иван"},"peer":{"bpid":2000000001},"button":{"beid":"b1","cmid":15,"payload":{"action_name":"game_roll","keyboard_owner":42}}}`), handler)
	r.handleRaw(context.Background(), []byte(`{broken`), handler)

	require.Len(t, got, 1, "битое событие пропускается")
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, int64(15), got[0].Button.MessageID)
	assert.Equal(t, "game_roll", got[0].Button.Payload.ActionName())
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), logger.NewNop(), config.Broker{URL: "http://nope"})
	assert.Error(t, err)
}

func TestListen_StopsOnCancel(t *testing.T) {
	// порт без сервера: каждый BLPOP падает, цикл должен выйти по отмене контекста
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 10 * time.Millisecond})
	defer client.Close()

	r := newRedis(logger.NewNop(), client, "q", 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- r.Listen(ctx, func(context.Context, *event.Event) {}) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Listen не завершился после отмены контекста")
	}
}
