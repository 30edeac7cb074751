package timers

import (
	"sync"
	"time"
)

type Timer struct {
	ID       string
	Interval time.Duration
	Task     func()
	rounds   int // сколько полных оборотов колеса осталось до запуска
}

type slot struct {
	timers map[string]*Timer
}

// TimingWheel запускает повторяющиеся задачи с точностью до одного тика.
type TimingWheel struct {
	tickDuration time.Duration
	slots        []*slot
	currentPos   int
	slotsCount   int
	mutex        sync.Mutex
	ticker       *time.Ticker
	done         chan struct{}
	stopOnce     sync.Once
}

func NewTimingWheel(tickDuration time.Duration, slotsCount int) *TimingWheel {
	if slotsCount < 1 {
		slotsCount = 1
	}

	tw := &TimingWheel{
		tickDuration: tickDuration,
		slotsCount:   slotsCount,
		slots:        make([]*slot, slotsCount),
		currentPos:   0,
		done:         make(chan struct{}),
	}

	for i := range tw.slots {
		tw.slots[i] = &slot{timers: make(map[string]*Timer)}
	}

	tw.ticker = time.NewTicker(tickDuration)
	go tw.start()
	return tw
}

func (tw *TimingWheel) start() {
	for {
		select {
		case <-tw.done:
			return
		case <-tw.ticker.C:
			tw.tick()
		}
	}
}

func (tw *TimingWheel) tick() {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	tw.currentPos = (tw.currentPos + 1) % tw.slotsCount
	currentSlot := tw.slots[tw.currentPos]

	var fired []*Timer
	for id, timer := range currentSlot.timers {
		if timer.rounds > 0 {
			timer.rounds--
			continue
		}

		go timer.Task() // запуск задачи
		delete(currentSlot.timers, id)
		fired = append(fired, timer)
	}

	// переставляем после обхода, таймер на полный оборот попадает в этот же слот
	for _, timer := range fired {
		tw.placeLocked(timer)
	}
}

// placeLocked ставит таймер через Interval от текущей позиции.
func (tw *TimingWheel) placeLocked(t *Timer) {
	ticks := int(t.Interval / tw.tickDuration)
	if ticks < 1 {
		ticks = 1
	}

	t.rounds = (ticks - 1) / tw.slotsCount
	pos := (tw.currentPos + ticks) % tw.slotsCount
	tw.slots[pos].timers[t.ID] = t
}

func (tw *TimingWheel) AddTimer(id string, interval time.Duration, task func()) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	tw.removeLocked(id)
	tw.placeLocked(&Timer{
		ID:       id,
		Interval: interval,
		Task:     task,
	})
}

func (tw *TimingWheel) RemoveTimer(id string) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	tw.removeLocked(id)
}

func (tw *TimingWheel) removeLocked(id string) {
	for _, s := range tw.slots {
		delete(s.timers, id)
	}
}

func (tw *TimingWheel) UpdateTimer(id string, newInterval time.Duration) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	for _, s := range tw.slots {
		if t, ok := s.timers[id]; ok {
			delete(s.timers, id)
			t.Interval = newInterval
			tw.placeLocked(t)
			return
		}
	}
}

// Stop останавливает колесо, уже запущенные задачи дорабатывают сами.
func (tw *TimingWheel) Stop() {
	tw.stopOnce.Do(func() {
		tw.ticker.Stop()
		close(tw.done)
	})
}
