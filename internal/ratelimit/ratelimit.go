package ratelimit

import (
	"sync"
	"time"
)

// Limiter реализует простой кулдаун между сообщениями одного пользователя.
type Limiter struct {
	mu     sync.Mutex
	last   map[int64]time.Time
	period time.Duration
	now    func() time.Time
}

func NewLimiter(period time.Duration) *Limiter {
	return &Limiter{
		last:   make(map[int64]time.Time),
		period: period,
		now:    time.Now,
	}
}

// Allow проверяет, прошел ли кулдаун пользователя. При разрешении текущее
// время фиксируется атомарно с проверкой, поэтому два параллельных сообщения
// не могут пройти одновременно. Если запрещено, вторым значением возвращается
// оставшееся время ожидания.
func (l *Limiter) Allow(userID int64) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	last, exists := l.last[userID]
	if !exists || now.Sub(last) >= l.period {
		l.last[userID] = now
		return true, 0
	}

	return false, l.period - now.Sub(last)
}

// Cleanup удаляет записи пользователей, не писавших дольше maxAge.
func (l *Limiter) Cleanup(maxAge time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for userID, last := range l.last {
		if now.Sub(last) > maxAge {
			delete(l.last, userID)
			removed++
		}
	}
	return removed
}
