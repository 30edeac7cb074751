package event_test

import (
	"buttonhandler/internal/app/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"event_id": "e-1",
		"user": {"uuid": 42, "name": "Вася"},
		"peer": {"bpid": 2000000100, "name": "Беседа"},
		"button": {"beid": "b-1", "cmid": 17, "payload": {
			"action_name": "change_delay",
			"keyboard_owner": 42,
			"sub_action": "add_time",
			"time": 10,
			"setting": "slow_mode",
			"page": "2"
		}}
	}`)

	ev, err := event.Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(42), ev.User.ID)
	assert.Equal(t, int64(2000000100), ev.Peer.ID)
	assert.Equal(t, int64(17), ev.Button.MessageID)
	assert.Equal(t, "b-1", ev.Button.EventID)
	assert.Equal(t, "[id42|Вася]", ev.Tag())

	p := ev.Button.Payload
	assert.Equal(t, "change_delay", p.ActionName())
	owner, ok := p.KeyboardOwner()
	assert.True(t, ok)
	assert.Equal(t, int64(42), owner)
	assert.Equal(t, "add_time", p.SubAction())
	assert.Equal(t, "slow_mode", p.SettingName())
	assert.Equal(t, 2, p.Page())

	delta, ok := p.Int(event.KeyTime)
	assert.True(t, ok)
	assert.Equal(t, 10, delta)
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	_, err := event.Decode([]byte(`{"user":`))
	assert.Error(t, err)
}

func TestPayload_Accessors(t *testing.T) {
	t.Parallel()

	p := event.Payload{
		"action_context": "change_status",
		"sub_action":     "ignored",
		"setting_name":   "account_age",
		"setting":        "ignored",
		"page":           "0",
		"float":          float64(3),
		"fraction":       1.5,
		"text":           "abc",
	}

	assert.Equal(t, "change_status", p.SubAction())
	assert.Equal(t, "account_age", p.SettingName())
	assert.Equal(t, 1, p.Page(), "страница меньше единицы приводится к первой")

	n, ok := p.Int64("float")
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)

	_, ok = p.Int64("fraction")
	assert.False(t, ok)

	_, ok = p.Int64("text")
	assert.False(t, ok)

	_, ok = p.KeyboardOwner()
	assert.False(t, ok)
	assert.Equal(t, "", p.ActionName())
}
