// Package timer реализует секундомер сессии с явными start/pause/reset.
package timer

import (
	"sync"
	"time"
)

// Timer - секундомер. Нулевое значение не готово к использованию, создавайте через New или StartedAt.
type Timer struct {
	mu        sync.Mutex
	now       func() time.Time
	running   bool
	startedAt time.Time
	elapsed   time.Duration // накоплено до последней паузы
}

// New создает остановленный таймер. now == nil означает time.Now.
func New(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now}
}

// StartedAt создает запущенный таймер, отсчитывающий время от start
func StartedAt(start time.Time, now func() time.Time) *Timer {
	t := New(now)
	t.running = true
	t.startedAt = start
	return t
}

// Start запускает таймер. Повторный вызов на запущенном таймере ничего не делает.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.startedAt = t.now()
}

// Pause останавливает таймер, сохраняя накопленное время
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.elapsed += t.now().Sub(t.startedAt)
	t.running = false
}

// Reset останавливает таймер и обнуляет накопленное время
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.elapsed = 0
	t.startedAt = time.Time{}
}

// Running сообщает, идет ли отсчет
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Elapsed возвращает накопленное время, включая текущий отрезок
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	d := t.elapsed
	if t.running {
		d += t.now().Sub(t.startedAt)
	}
	if d < 0 {
		return 0
	}
	return d
}

// ElapsedSeconds возвращает накопленное время в целых секундах
func (t *Timer) ElapsedSeconds() int {
	return int(t.Elapsed() / time.Second)
}
