package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestAllowThenDenyWithinPeriod(t *testing.T) {
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(5 * time.Second)
	l.now = func() time.Time { return current }

	ok, _ := l.Allow(1)
	if !ok {
		t.Fatalf("первое сообщение должно проходить")
	}

	current = current.Add(2 * time.Second)
	ok, wait := l.Allow(1)
	if ok {
		t.Fatalf("сообщение в пределах кулдауна должно отклоняться")
	}
	if wait != 3*time.Second {
		t.Fatalf("ожидалось 3s ожидания, получено %v", wait)
	}
}

func TestAllowAfterPeriod(t *testing.T) {
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(5 * time.Second)
	l.now = func() time.Time { return current }

	if ok, _ := l.Allow(1); !ok {
		t.Fatalf("первое сообщение должно проходить")
	}

	current = current.Add(5 * time.Second)
	if ok, _ := l.Allow(1); !ok {
		t.Fatalf("сообщение после кулдауна должно проходить")
	}
}

func TestUsersIndependent(t *testing.T) {
	l := NewLimiter(5 * time.Second)

	if ok, _ := l.Allow(1); !ok {
		t.Fatalf("пользователь 1 должен проходить")
	}
	if ok, _ := l.Allow(2); !ok {
		t.Fatalf("кулдаун пользователя 1 не должен влиять на пользователя 2")
	}
}

func TestConcurrentAllowSingleWinner(t *testing.T) {
	l := NewLimiter(5 * time.Second)

	const goroutines = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow(42); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 1 {
		t.Fatalf("ровно одно из параллельных сообщений должно пройти, прошло %d", allowed)
	}
}

func TestCleanup(t *testing.T) {
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(5 * time.Second)
	l.now = func() time.Time { return current }

	l.Allow(1)
	l.Allow(2)

	current = current.Add(time.Hour)
	l.Allow(3)

	if removed := l.Cleanup(30 * time.Minute); removed != 2 {
		t.Fatalf("ожидалось удаление 2 записей, удалено %d", removed)
	}
}
