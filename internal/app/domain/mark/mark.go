package mark

import (
	"fmt"
	"strings"
)

// Mark - метка беседы.
type Mark string

const (
	Chat Mark = "CHAT"
	Log  Mark = "LOG"
)

func Parse(s string) (Mark, error) {
	switch m := Mark(strings.ToUpper(strings.TrimSpace(s))); m {
	case Chat, Log:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mark %q", s)
	}
}

func (m Mark) String() string {
	return string(m)
}
