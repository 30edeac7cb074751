package ports

import "time"

type TimersPort interface {
	AddTimer(id string, interval time.Duration, task func())
	RemoveTimer(id string)
	Stop()
}
