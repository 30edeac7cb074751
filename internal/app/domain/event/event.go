package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Event - нажатие на callback-кнопку, пришедшее из брокера.
type Event struct {
	ID     string `json:"event_id"`
	User   User   `json:"user"`
	Peer   Peer   `json:"peer"`
	Button Button `json:"button"`
}

type User struct {
	ID   int64  `json:"uuid"`
	Name string `json:"name"`
}

type Peer struct {
	ID   int64  `json:"bpid"`
	Name string `json:"name"`
}

type Button struct {
	EventID   string  `json:"beid"`
	MessageID int64   `json:"cmid"`
	Payload   Payload `json:"payload"`
}

// Decode разбирает событие так, чтобы числа в payload не теряли точность.
func Decode(raw []byte) (*Event, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var ev Event
	if err := dec.Decode(&ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &ev, nil
}

// Tag - упоминание пользователя в тексте сообщения.
func (e *Event) Tag() string {
	return fmt.Sprintf("[id%d|%s]", e.User.ID, e.User.Name)
}

// Payload - полезная нагрузка кнопки. Значения могут прийти как числами, так и строками.
type Payload map[string]any

const (
	KeyActionName    = "action_name"
	KeyKeyboardOwner = "keyboard_owner"
	KeyActionContext = "action_context"
	KeySubAction     = "sub_action"
	KeySettingName   = "setting_name"
	KeySetting       = "setting"
	KeyPage          = "page"
	KeyMark          = "mark"
	KeyTarget        = "target"
	KeyPermission    = "permission"
	KeyTime          = "time"
	KeyPoints        = "points"
	KeySystemName    = "system_name"
	KeyFilterName    = "filter_name"
)

func (p Payload) ActionName() string {
	return p.String(KeyActionName)
}

func (p Payload) KeyboardOwner() (int64, bool) {
	return p.Int64(KeyKeyboardOwner)
}

// SubAction возвращает контекст нажатия, старые клавиатуры пишут его в action_context.
func (p Payload) SubAction() string {
	if v := p.String(KeyActionContext); v != "" {
		return v
	}
	return p.String(KeySubAction)
}

func (p Payload) SettingName() string {
	if v := p.String(KeySettingName); v != "" {
		return v
	}
	return p.String(KeySetting)
}

// Page возвращает номер страницы меню, по умолчанию первую.
func (p Payload) Page() int {
	page, ok := p.Int64(KeyPage)
	if !ok || page < 1 {
		return 1
	}
	return int(page)
}

func (p Payload) String(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (p Payload) Int64(key string) (int64, bool) {
	switch v := p[key].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		return int64(v), v == float64(int64(v))
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func (p Payload) Int(key string) (int, bool) {
	n, ok := p.Int64(key)
	return int(n), ok
}
