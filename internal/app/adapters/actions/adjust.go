package actions

import (
	"buttonhandler/internal/app/domain/declension"
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/domain/keyboard"
	"buttonhandler/internal/app/domain/setting"
	"buttonhandler/internal/app/ports"
	"context"
	"fmt"
)

// adjustMenu - меню изменения числового значения настройки двумя шагами.
type adjustMenu struct {
	base
	name      Name
	amountKey string
	add, sub  string
	steps     [2]int
	unit      string

	addSnack, subSnack, menuSnack string

	allowed func(def setting.Definition) bool
	get     func(ctx context.Context, bpid int64, name string) (int, error)
	adjust  func(ctx context.Context, bpid int64, name string, delta int) (int, error)
	text    func(def setting.Definition, v int) string
}

func newChangeDelay(d Deps) ports.ActionPort {
	m := &adjustMenu{
		base:      newBase(d),
		name:      ChangeDelay,
		amountKey: event.KeyTime,
		add:       "add_time",
		sub:       "subtract_time",
		steps:     [2]int{1, 10},
		unit:      "ед.",
		addSnack:  "⚠️ Время увеличено.",
		subSnack:  "⚠️ Время уменьшено.",
		menuSnack: "⚙️ Меню установки задержки.",
		allowed:   setting.Definition.HasDelay,
		text: func(def setting.Definition, v int) string {
			return fmt.Sprintf("%s %d %s", def.DelayText, v, def.Unit.Forms().For(v))
		},
	}
	m.get = func(ctx context.Context, bpid int64, name string) (int, error) {
		return m.Settings.Delay(ctx, bpid, name)
	}
	m.adjust = func(ctx context.Context, bpid int64, name string, delta int) (int, error) {
		return m.Settings.AdjustDelay(ctx, bpid, name, delta)
	}
	return m
}

func newChangePunishment(d Deps) ports.ActionPort {
	m := &adjustMenu{
		base:      newBase(d),
		name:      ChangePunishment,
		amountKey: event.KeyPoints,
		add:       "add_points",
		sub:       "subtract_points",
		steps:     [2]int{1, 3},
		unit:      "пред.",
		addSnack:  "⚠️ Наказание увеличено.",
		subSnack:  "⚠️ Наказание уменьшено.",
		menuSnack: "⚙️ Меню установки наказания.",
		allowed:   func(setting.Definition) bool { return true },
		text: func(def setting.Definition, v int) string {
			return fmt.Sprintf("⚙️ Наказание для настройки \"%s\" установлено на: %d %s.", def.Label, v, declension.Warnings.For(v))
		},
	}
	m.get = func(ctx context.Context, bpid int64, name string) (int, error) {
		return m.Settings.Points(ctx, bpid, name)
	}
	m.adjust = func(ctx context.Context, bpid int64, name string, delta int) (int, error) {
		return m.Settings.AdjustPoints(ctx, bpid, name, delta)
	}
	return m
}

func (m *adjustMenu) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	payload := ev.Button.Payload

	name := payload.SettingName()
	def, ok := setting.Lookup(name)
	if !ok || !m.allowed(def) {
		return false, fmt.Errorf("%w: setting %q", ErrInvalidPayload, name)
	}

	var (
		value int
		snack string
		err   error
	)
	switch sub := payload.SubAction(); sub {
	case "":
		value, err = m.get(ctx, ev.Peer.ID, name)
		snack = m.menuSnack
	case m.add, m.sub:
		amount, ok := payload.Int(m.amountKey)
		if !ok || amount < 0 {
			return false, fmt.Errorf("%w: %s", ErrInvalidPayload, m.amountKey)
		}

		delta := amount
		snack = m.addSnack
		if sub == m.sub {
			delta, snack = -amount, m.subSnack
		}
		value, err = m.adjust(ctx, ev.Peer.ID, name, delta)
	default:
		return false, fmt.Errorf("%w: %s %q", ErrInvalidPayload, event.KeyActionContext, sub)
	}
	if err != nil {
		return false, fmt.Errorf("%s %s: %w", m.name, name, err)
	}

	kb := keyboard.New(ev.User.ID)
	for _, step := range m.steps {
		kb.AddRow().
			AddButton(fmt.Sprintf("- %d %s", step, m.unit), keyboard.Negative, m.payload(name, m.sub, step)).
			AddButton(fmt.Sprintf("+ %d %s", step, m.unit), keyboard.Positive, m.payload(name, m.add, step))
	}
	closeButton(kb, closeLabel)

	if err := m.render(ctx, ev, m.text(def, value), kb); err != nil {
		return false, err
	}
	return true, m.snackbar(ctx, ev, snack)
}

func (m *adjustMenu) payload(name, sub string, step int) event.Payload {
	return event.Payload{
		event.KeyActionName:    string(m.name),
		event.KeyActionContext: sub,
		event.KeySettingName:   name,
		m.amountKey:            step,
	}
}
