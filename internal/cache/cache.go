package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type key struct {
	userID      int64
	fingerprint string
}

type entry struct {
	reply     string
	createdAt time.Time
}

// ResponseCache запоминает ответы модели на повторяющиеся сообщения.
// Устаревшие записи считаются отсутствующими при чтении и удаляются
// периодическим вызовом Sweep.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[key]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		entries: make(map[key]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func (c *ResponseCache) Get(userID int64, content string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key{userID: userID, fingerprint: fingerprint(content)}]
	if !ok {
		return "", false
	}
	if c.now().Sub(e.createdAt) >= c.ttl {
		return "", false
	}
	return e.reply, true
}

func (c *ResponseCache) Put(userID int64, content, reply string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key{userID: userID, fingerprint: fingerprint(content)}] = entry{
		reply:     reply,
		createdAt: c.now(),
	}
}

// Sweep удаляет все устаревшие записи и возвращает их количество.
func (c *ResponseCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.createdAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
