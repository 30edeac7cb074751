package keyboard

import (
	"buttonhandler/internal/app/domain/event"
	"encoding/json"
	"fmt"
)

type Color string

const (
	Primary   Color = "primary"
	Secondary Color = "secondary"
	Positive  Color = "positive"
	Negative  Color = "negative"
)

// Button - callback-кнопка, payload которой возвращается боту при нажатии.
type Button struct {
	Label   string
	Color   Color
	Payload event.Payload
}

// Keyboard - inline-клавиатура, привязанная к владельцу. Владелец дописывается
// в payload каждой кнопки, чтобы проверить его при следующем нажатии.
type Keyboard struct {
	owner int64
	rows  [][]Button
}

func New(owner int64) *Keyboard {
	return &Keyboard{owner: owner}
}

func (k *Keyboard) Owner() int64 {
	return k.owner
}

func (k *Keyboard) AddRow() *Keyboard {
	k.rows = append(k.rows, nil)
	return k
}

func (k *Keyboard) AddButton(label string, color Color, payload event.Payload) *Keyboard {
	if len(k.rows) == 0 {
		k.AddRow()
	}

	p := make(event.Payload, len(payload)+1)
	for key, v := range payload {
		p[key] = v
	}
	p[event.KeyKeyboardOwner] = k.owner

	last := len(k.rows) - 1
	k.rows[last] = append(k.rows[last], Button{Label: label, Color: color, Payload: p})
	return k
}

func (k *Keyboard) Rows() [][]Button {
	return k.rows
}

type wireAction struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Payload string `json:"payload"`
}

type wireButton struct {
	Action wireAction `json:"action"`
	Color  Color      `json:"color"`
}

type wireKeyboard struct {
	OneTime bool           `json:"one_time"`
	Inline  bool           `json:"inline"`
	Buttons [][]wireButton `json:"buttons"`
}

// JSON возвращает клавиатуру в формате API платформы.
func (k *Keyboard) JSON() (string, error) {
	wk := wireKeyboard{
		Inline:  true,
		Buttons: make([][]wireButton, 0, len(k.rows)),
	}

	for _, row := range k.rows {
		wr := make([]wireButton, 0, len(row))
		for _, b := range row {
			payload, err := json.Marshal(b.Payload)
			if err != nil {
				return "", fmt.Errorf("marshal payload of %q: %w", b.Label, err)
			}

			wr = append(wr, wireButton{
				Action: wireAction{Type: "callback", Label: b.Label, Payload: string(payload)},
				Color:  b.Color,
			})
		}
		wk.Buttons = append(wk.Buttons, wr)
	}

	data, err := json.Marshal(wk)
	if err != nil {
		return "", fmt.Errorf("marshal keyboard: %w", err)
	}
	return string(data), nil
}
