package actions

import (
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/domain/keyboard"
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	rollMax   = 100
	hideLabel = "Скрыть"
)

var (
	keycaps  = [10]string{"0️⃣", "1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣"}
	coinSide = [2]string{"Орёл 🪙", "Решка 🪙"}
)

// keycapNumber записывает число цифрами-эмодзи.
func keycapNumber(n int) string {
	var sb strings.Builder
	for _, d := range strconv.Itoa(n) {
		if d == '-' {
			continue
		}
		sb.WriteString(keycaps[d-'0'])
	}
	return sb.String()
}

type GameRollAction struct {
	base
}

func (a *GameRollAction) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	n := a.Rand(rollMax + 1)

	kb := closeButton(keyboard.New(ev.User.ID), hideLabel)
	text := fmt.Sprintf("%s выбивает число: %s", ev.Tag(), keycapNumber(n))
	if err := a.render(ctx, ev, text, kb); err != nil {
		return false, err
	}

	return true, a.snackbar(ctx, ev, "🎲 Рулетка прокручена!")
}

type GameCoinflipAction struct {
	base
}

func (a *GameCoinflipAction) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	side := coinSide[a.Rand(len(coinSide))]

	kb := closeButton(keyboard.New(ev.User.ID), hideLabel)
	text := fmt.Sprintf("%s подбрасывает монетку: %s", ev.Tag(), side)
	if err := a.render(ctx, ev, text, kb); err != nil {
		return false, err
	}

	return true, a.snackbar(ctx, ev, "🎲 Монета брошена!")
}
