package actions

import (
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/domain/keyboard"
	"buttonhandler/internal/app/ports"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrSessionTaken - меню открыто другим пользователем.
	ErrSessionTaken = errors.New("menu session is owned by another user")
)

// Name - значение action_name в payload кнопки.
type Name string

const (
	Error             Name = "error"
	RejectAccess      Name = "reject_access"
	NotMessageOwner   Name = "not_msg_owner"
	CloseMenu         Name = "close_menu"
	CancelCommand     Name = "cancel_command"
	SetMark           Name = "set_mark"
	UpdatePeerData    Name = "update_peer_data"
	DropMark          Name = "drop_mark"
	SetPermission     Name = "set_permission"
	DropPermission    Name = "drop_permission"
	GameRoll          Name = "game_roll"
	GameCoinflip      Name = "game_coinflip"
	SystemsSettings   Name = "systems_settings"
	FiltersSettings   Name = "filters_settings"
	ChangeDelay       Name = "change_delay"
	ChangePunishment  Name = "change_punishment"
	SystemsPunishment Name = "systems_punishment"
	FiltersPunishment Name = "filters_punishment"
)

const menuSessionSetting = "menu_session"

// Deps - всё, что нужно действиям. Собирается один раз, действия создаются на каждое нажатие.
type Deps struct {
	Messenger   ports.MessengerPort
	Settings    ports.SettingsPort
	Permissions ports.PermissionsPort
	Marks       ports.MarksPort
	Sessions    ports.SessionsPort

	// SessionTTL - время жизни меню, если у беседы нет настройки menu_session.
	SessionTTL time.Duration
	Now        func() time.Time
	// Rand возвращает число из [0, n).
	Rand func(n int) int
}

func (d Deps) withDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Rand == nil {
		d.Rand = rand.IntN
	}
	return d
}

type base struct {
	Deps
}

func newBase(d Deps) base {
	return base{Deps: d.withDefaults()}
}

func (b *base) snackbar(ctx context.Context, ev *event.Event, text string) error {
	if err := b.Messenger.Snackbar(ctx, ev, text); err != nil {
		return fmt.Errorf("snackbar: %w", err)
	}
	return nil
}

// render закрепляет меню за нажавшим пользователем и перерисовывает сообщение.
func (b *base) render(ctx context.Context, ev *event.Event, text string, kb *keyboard.Keyboard) error {
	now := b.Now()
	acquired, err := b.Sessions.Acquire(ctx, menuKey(ev), ev.User.ID, now, now.Add(b.sessionTTL(ctx, ev.Peer.ID)))
	if err != nil {
		return fmt.Errorf("acquire menu session: %w", err)
	}
	if !acquired {
		return ErrSessionTaken
	}

	if err := b.Messenger.Edit(ctx, ev.Peer.ID, ev.Button.MessageID, text, kb); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// sessionTTL берёт menu_session беседы в минутах. Ошибка чтения не критична, её покажет Acquire.
func (b *base) sessionTTL(ctx context.Context, bpid int64) time.Duration {
	minutes, err := b.Settings.Delay(ctx, bpid, menuSessionSetting)
	if err != nil {
		return b.SessionTTL
	}
	return time.Duration(minutes) * time.Minute
}

// closeMessage удаляет сообщение с меню и освобождает его сессию.
func (b *base) closeMessage(ctx context.Context, ev *event.Event, text string) error {
	if err := b.Messenger.Delete(ctx, ev.Peer.ID, ev.Button.MessageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	return errors.Join(
		b.snackbar(ctx, ev, text),
		b.Sessions.Release(ctx, menuKey(ev)),
	)
}

func menuKey(ev *event.Event) ports.MenuKey {
	return ports.MenuKey{PeerID: ev.Peer.ID, MessageID: ev.Button.MessageID}
}

func closeButton(kb *keyboard.Keyboard, label string) *keyboard.Keyboard {
	return kb.AddRow().AddButton(label, keyboard.Secondary, event.Payload{event.KeyActionName: string(CloseMenu)})
}
