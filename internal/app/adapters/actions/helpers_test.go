package actions

import (
	"buttonhandler/internal/app/adapters/storage"
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/domain/keyboard"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const (
	testPeer = int64(200)
	testUser = int64(42)
	testMsg  = int64(15)
)

type sent struct {
	kind   string
	peerID int64
	msgID  int64
	text   string
	kb     *keyboard.Keyboard
}

// fakeMessenger записывает все вызовы к платформе.
type fakeMessenger struct {
	mu        sync.Mutex
	calls     []sent
	editErr   error
	deleteErr error
}

func (f *fakeMessenger) Edit(_ context.Context, peerID, messageID int64, text string, kb *keyboard.Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.editErr != nil {
		return f.editErr
	}
	f.calls = append(f.calls, sent{kind: "edit", peerID: peerID, msgID: messageID, text: text, kb: kb})
	return nil
}

func (f *fakeMessenger) Delete(_ context.Context, peerID, messageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.calls = append(f.calls, sent{kind: "delete", peerID: peerID, msgID: messageID})
	return nil
}

func (f *fakeMessenger) Snackbar(_ context.Context, ev *event.Event, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, sent{kind: "snackbar", peerID: ev.Peer.ID, msgID: ev.Button.MessageID, text: text})
	return nil
}

func (f *fakeMessenger) byKind(kind string) []sent {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []sent
	for _, c := range f.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeMessenger) snackbars() []string {
	var out []string
	for _, c := range f.byKind("snackbar") {
		out = append(out, c.text)
	}
	return out
}

func (f *fakeMessenger) lastEdit(t *testing.T) sent {
	t.Helper()

	edits := f.byKind("edit")
	require.NotEmpty(t, edits, "сообщение должно быть отредактировано")
	return edits[len(edits)-1]
}

type testEnv struct {
	deps        Deps
	msg         *fakeMessenger
	db          *sqlx.DB
	settings    *storage.Settings
	permissions *storage.Permissions
	marks       *storage.Marks
	sessions    *storage.Sessions
	now         time.Time
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := storage.Open(context.Background(), storage.DriverSQLite, filepath.Join(t.TempDir(), "actions.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	e := &testEnv{
		msg:         &fakeMessenger{},
		db:          db,
		settings:    storage.NewSettings(db),
		permissions: storage.NewPermissions(db),
		marks:       storage.NewMarks(db),
		sessions:    storage.NewSessions(db),
		now:         time.Now(),
	}
	e.deps = Deps{
		Messenger:   e.msg,
		Settings:    e.settings,
		Permissions: e.permissions,
		Marks:       e.marks,
		Sessions:    e.sessions,
		SessionTTL:  5 * time.Minute,
		Now:         func() time.Time { return e.now },
		Rand:        func(n int) int { return 0 },
	}
	return e
}

func (e *testEnv) markPeer(t *testing.T) {
	t.Helper()

	ok, err := e.marks.Set(context.Background(), testPeer, "Беседа", "CHAT")
	require.NoError(t, err)
	require.True(t, ok)
}

func (e *testEnv) run(ev *event.Event) (bool, error) {
	c, err := NewRegistry().Lookup(ev.Button.Payload.ActionName())
	if err != nil {
		return false, err
	}
	return c(e.deps).Execute(context.Background(), ev)
}

func click(name Name, payload event.Payload) *event.Event {
	p := event.Payload{event.KeyActionName: string(name), event.KeyKeyboardOwner: testUser}
	for k, v := range payload {
		p[k] = v
	}

	return &event.Event{
		ID:   "event-1",
		User: event.User{ID: testUser, Name: "Иван"},
		Peer: event.Peer{ID: testPeer, Name: "Беседа"},
		Button: event.Button{
			EventID:   "beid-1",
			MessageID: testMsg,
			Payload:   p,
		},
	}
}

func labels(kb *keyboard.Keyboard) [][]string {
	var out [][]string
	for _, row := range kb.Rows() {
		var r []string
		for _, b := range row {
			r = append(r, b.Label)
		}
		out = append(out, r)
	}
	return out
}
