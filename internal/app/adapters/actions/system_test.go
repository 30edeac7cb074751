package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorAndReject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name Name
		want string
	}{
		{Error, textError},
		{RejectAccess, textRejectAccess},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			t.Parallel()

			e := newEnv(t)
			ok, err := e.run(click(tt.name, nil))
			require.NoError(t, err)
			assert.False(t, ok, "действие ничего не меняет")
			assert.Equal(t, []string{tt.want}, e.msg.snackbars())
			assert.Empty(t, e.msg.byKind("edit"))
			assert.Empty(t, e.msg.byKind("delete"))
		})
	}
}

func TestCloseMenu(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name Name
		want string
	}{
		{CloseMenu, textMenuClosed},
		{CancelCommand, textCommandCancel},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			t.Parallel()

			e := newEnv(t)
			ctx := context.Background()
			ev := click(tt.name, nil)

			ok, err := e.sessions.Acquire(ctx, menuKey(ev), testUser, e.now, e.now.Add(time.Minute))
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = e.run(ev)
			require.NoError(t, err)
			assert.True(t, ok)

			deletes := e.msg.byKind("delete")
			require.Len(t, deletes, 1)
			assert.Equal(t, testPeer, deletes[0].peerID)
			assert.Equal(t, testMsg, deletes[0].msgID)
			assert.Equal(t, []string{tt.want}, e.msg.snackbars())

			_, live, err := e.sessions.Owner(ctx, menuKey(ev), e.now)
			require.NoError(t, err)
			assert.False(t, live, "сессия меню должна быть освобождена")
		})
	}
}

func TestCloseMenu_DeleteFails(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.msg.deleteErr = errors.New("message not found")

	ok, err := e.run(click(CloseMenu, nil))
	require.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, e.msg.snackbars(), "при ошибке удаления ответ не отправляется")
}
