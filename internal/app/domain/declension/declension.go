package declension

// Forms - формы существительного для согласования с числительным.
type Forms struct {
	One  string // 1, 21, 101
	Few  string // 2-4, 22-24
	Many string // 0, 5-20, 25-30, 11-14
}

var (
	Minutes  = Forms{One: "минуту", Few: "минуты", Many: "минут"}
	Days     = Forms{One: "день", Few: "дня", Many: "дней"}
	Warnings = Forms{One: "предупреждение", Few: "предупреждения", Many: "предупреждений"}
)

func (f Forms) For(n int) string {
	if n < 0 {
		n = -n
	}

	if tail := n % 100; tail >= 11 && tail <= 14 {
		return f.Many
	}

	switch n % 10 {
	case 1:
		return f.One
	case 2, 3, 4:
		return f.Few
	default:
		return f.Many
	}
}
