package setting

import (
	"buttonhandler/internal/app/domain/declension"
	"fmt"
)

type Destination string

const (
	System Destination = "system"
	Filter Destination = "filter"
)

type Status bool

const (
	Inactive Status = false
	Active   Status = true
)

func (s Status) Toggle() Status {
	return !s
}

const (
	MinPoints = 0
	MaxPoints = 10
	MinDelay  = 0
)

// Unit - единица измерения задержки.
type Unit int

const (
	NoUnit Unit = iota
	UnitMinutes
	UnitDays
)

func (u Unit) Forms() declension.Forms {
	switch u {
	case UnitMinutes:
		return declension.Minutes
	case UnitDays:
		return declension.Days
	default:
		return declension.Forms{}
	}
}

// Definition - описание настройки и её значения по умолчанию.
type Definition struct {
	Name        string
	Destination Destination
	Label       string
	Unit        Unit
	// DelayText - подпись в меню установки задержки, пусто если задержки у настройки нет.
	DelayText     string
	DefaultStatus Status
	DefaultDelay  int
	DefaultPoints int
}

func (d Definition) HasDelay() bool {
	return d.DelayText != ""
}

var catalog = []Definition{
	// системы модерации
	{Name: "account_age", Destination: System, Label: "Возраст аккаунта", Unit: UnitDays,
		DelayText: "⚙️ Критерий новизны аккаунта для данного чата установлен на:", DefaultDelay: 7},
	{Name: "curse_words", Destination: System, Label: "Запрещенные слова"},
	{Name: "open_pm", Destination: System, Label: "Открытое ЛС"},
	{Name: "slow_mode", Destination: System, Label: "Медленный режим", Unit: UnitMinutes,
		DelayText: "⚙️ Задержка для данного чата установлена на:", DefaultDelay: 1},
	{Name: "link_filter", Destination: System, Label: "Фильтрация URL"},
	{Name: "hard_link_filter", Destination: System, Label: "Усиленная фильтрация URL"},
	{Name: "menu_session", Destination: System, Label: "Сессия меню", Unit: UnitMinutes,
		DelayText: "⚙️ Время жизни сессии меню установлена на:", DefaultDelay: 10},
	{Name: "red_zone", Destination: System, Label: "Красная зона", Unit: UnitDays,
		DelayText: "⚙️ Время истечения срока наказания для красной зоны установлено на:", DefaultDelay: 30},
	{Name: "yellow_zone", Destination: System, Label: "Жёлтая зона", Unit: UnitDays,
		DelayText: "⚙️ Время истечения срока наказания для жёлтой зоны установлено на:", DefaultDelay: 14},
	{Name: "green_zone", Destination: System, Label: "Зелёная зона", Unit: UnitDays,
		DelayText: "⚙️ Время истечения срока наказания для зелёной зоны установлено на:", DefaultDelay: 7},

	// фильтры сообщений
	{Name: "app_action", Destination: Filter, Label: "Приложения"},
	{Name: "audio", Destination: Filter, Label: "Музыка"},
	{Name: "audio_message", Destination: Filter, Label: "Аудио"},
	{Name: "doc", Destination: Filter, Label: "Файлы"},
	{Name: "forward", Destination: Filter, Label: "Пересыл"},
	{Name: "reply", Destination: Filter, Label: "Ответ"},
	{Name: "graffiti", Destination: Filter, Label: "Граффити"},
	{Name: "sticker", Destination: Filter, Label: "Стикеры"},
	{Name: "link", Destination: Filter, Label: "Линки"},
	{Name: "photo", Destination: Filter, Label: "Изображения"},
	{Name: "poll", Destination: Filter, Label: "Опросы"},
	{Name: "video", Destination: Filter, Label: "Видео"},
	{Name: "wall", Destination: Filter, Label: "Записи"},
	{Name: "geo", Destination: Filter, Label: "Геопозиция"},
}

const defaultPoints = 1

var byName = func() map[string]Definition {
	m := make(map[string]Definition, len(catalog))
	for i := range catalog {
		catalog[i].DefaultStatus = Inactive
		catalog[i].DefaultPoints = defaultPoints
		if _, ok := m[catalog[i].Name]; ok {
			panic(fmt.Sprintf("duplicate setting %q", catalog[i].Name))
		}
		m[catalog[i].Name] = catalog[i]
	}
	return m
}()

// Catalog возвращает копию всех известных настроек в порядке объявления.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(name string) (Definition, bool) {
	d, ok := byName[name]
	return d, ok
}

// Pages - разбивка настроек по страницам меню.
var (
	SystemPages = [][]string{
		{"account_age", "curse_words", "open_pm", "slow_mode"},
		{"link_filter", "hard_link_filter"},
	}
	FilterPages = [][]string{
		{"app_action", "audio", "audio_message", "doc"},
		{"forward", "reply", "graffiti", "sticker"},
		{"link", "photo", "poll", "video"},
		{"wall", "geo"},
	}
)

// ClampDelay не даёт задержке уйти в минус.
func ClampDelay(v int) int {
	if v < MinDelay {
		return MinDelay
	}
	return v
}

// ClampPoints держит количество предупреждений в [0, 10].
func ClampPoints(v int) int {
	switch {
	case v < MinPoints:
		return MinPoints
	case v > MaxPoints:
		return MaxPoints
	default:
		return v
	}
}
