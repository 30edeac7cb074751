package actions

import (
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/domain/keyboard"
	"buttonhandler/internal/app/domain/setting"
	"buttonhandler/internal/app/ports"
	"context"
	"fmt"
	"strconv"
)

const (
	changeStatus = "change_status"

	prevLabel  = "<--"
	nextLabel  = "-->"
	closeLabel = "Закрыть"
)

// toggleMenu - постраничное меню включения настроек одного назначения.
type toggleMenu struct {
	base
	name    Name
	dest    setting.Destination
	nameKey string
	pages   [][]string

	title     string
	menuText  string
	on, off   string
	toggleMsg func(st setting.Status) string
}

func newSystemsSettings(d Deps) ports.ActionPort {
	return &toggleMenu{
		base:      newBase(d),
		name:      SystemsSettings,
		dest:      setting.System,
		nameKey:   event.KeySystemName,
		pages:     setting.SystemPages,
		title:     "⚙️ Включение\\Выключение систем модерации:",
		menuText:  "⚙️ Меню систем модерации",
		on:        "Вкл.",
		off:       "Выкл.",
		toggleMsg: statusMessage,
	}
}

func newFiltersSettings(d Deps) ports.ActionPort {
	return &toggleMenu{
		base:      newBase(d),
		name:      FiltersSettings,
		dest:      setting.Filter,
		nameKey:   event.KeyFilterName,
		pages:     setting.FilterPages,
		title:     "⚙️ Включение\\Выключение фильтров сообщений:",
		menuText:  "⚙️ Меню фильтров сообщений",
		on:        "Запр.",
		off:       "Раз.",
		toggleMsg: statusMessage,
	}
}

// statusMessage сообщает состояние настройки после переключения.
func statusMessage(st setting.Status) string {
	if st == setting.Active {
		return "⚠️ Система Включена."
	}
	return "⚠️ Система Выключена."
}

func (m *toggleMenu) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	payload := ev.Button.Payload
	page := clampPage(payload.Page(), len(m.pages))

	statuses, err := m.Settings.Statuses(ctx, ev.Peer.ID, m.dest)
	if err != nil {
		return false, fmt.Errorf("load statuses: %w", err)
	}

	snack := fmt.Sprintf("%s (%d/%d).", m.menuText, page, len(m.pages))
	if payload.SubAction() == changeStatus {
		name := payload.String(m.nameKey)
		if name == "" {
			return false, fmt.Errorf("%w: no %s", ErrInvalidPayload, m.nameKey)
		}

		st, err := m.Settings.ToggleStatus(ctx, ev.Peer.ID, m.dest, name)
		if err != nil {
			return false, fmt.Errorf("toggle %s: %w", name, err)
		}
		statuses[name] = st
		snack = m.toggleMsg(st)
	}

	kb := keyboard.New(ev.User.ID)
	for _, name := range m.pages[page-1] {
		def, _ := setting.Lookup(name)
		st, ok := statuses[name]
		if !ok {
			st = def.DefaultStatus
		}

		label, color := def.Label+": "+m.off, keyboard.Negative
		if st == setting.Active {
			label, color = def.Label+": "+m.on, keyboard.Positive
		}

		kb.AddRow().AddButton(label, color, event.Payload{
			event.KeyActionName:    string(m.name),
			event.KeyActionContext: changeStatus,
			m.nameKey:              name,
			event.KeyPage:          strconv.Itoa(page),
		})
	}
	pageButtons(kb, m.name, page, len(m.pages))
	closeButton(kb, closeLabel)

	if err := m.render(ctx, ev, m.title, kb); err != nil {
		return false, err
	}
	return true, m.snackbar(ctx, ev, snack)
}

// navigator - постраничный список настроек, ведущий в меню наказаний.
type navigator struct {
	base
	name     Name
	pages    [][]string
	title    string
	menuText string
}

func newSystemsPunishment(d Deps) ports.ActionPort {
	return &navigator{
		base:     newBase(d),
		name:     SystemsPunishment,
		pages:    setting.SystemPages,
		title:    "⚙️ Выберете необходимую систему:",
		menuText: "⚙️ Меню систем модерации",
	}
}

func newFiltersPunishment(d Deps) ports.ActionPort {
	return &navigator{
		base:     newBase(d),
		name:     FiltersPunishment,
		pages:    setting.FilterPages,
		title:    "⚙️ Выберете необходимый фильтр:",
		menuText: "⚙️ Меню фильтров сообщений",
	}
}

func (n *navigator) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	page := clampPage(ev.Button.Payload.Page(), len(n.pages))

	kb := keyboard.New(ev.User.ID)
	for _, name := range n.pages[page-1] {
		def, _ := setting.Lookup(name)
		kb.AddRow().AddButton(def.Label, keyboard.Primary, event.Payload{
			event.KeyActionName:  string(ChangePunishment),
			event.KeySettingName: name,
			event.KeyPage:        strconv.Itoa(page),
		})
	}
	pageButtons(kb, n.name, page, len(n.pages))
	closeButton(kb, closeLabel)

	if err := n.render(ctx, ev, n.title, kb); err != nil {
		return false, err
	}
	return true, n.snackbar(ctx, ev, fmt.Sprintf("%s (%d/%d).", n.menuText, page, len(n.pages)))
}

// pageButtons добавляет ряд со стрелками, если страниц больше одной.
func pageButtons(kb *keyboard.Keyboard, name Name, page, total int) {
	if total < 2 {
		return
	}

	kb.AddRow()
	if page > 1 {
		kb.AddButton(prevLabel, keyboard.Secondary, event.Payload{
			event.KeyActionName: string(name),
			event.KeyPage:       strconv.Itoa(page - 1),
		})
	}
	if page < total {
		kb.AddButton(nextLabel, keyboard.Secondary, event.Payload{
			event.KeyActionName: string(name),
			event.KeyPage:       strconv.Itoa(page + 1),
		})
	}
}

func clampPage(page, total int) int {
	switch {
	case page < 1:
		return 1
	case page > total:
		return total
	default:
		return page
	}
}
