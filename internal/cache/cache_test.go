package cache

import (
	"testing"
	"time"
)

func TestGetMissOnEmptyCache(t *testing.T) {
	c := NewResponseCache(time.Hour)
	if _, ok := c.Get(1, "привет"); ok {
		t.Fatalf("пустой кеш не должен отдавать записи")
	}
}

func TestPutThenGet(t *testing.T) {
	c := NewResponseCache(time.Hour)
	c.Put(1, "привет", "здравствуйте")

	reply, ok := c.Get(1, "привет")
	if !ok {
		t.Fatalf("запись должна находиться в кеше")
	}
	if reply != "здравствуйте" {
		t.Fatalf("получен неверный ответ: %q", reply)
	}
}

func TestExpiredEntryTreatedAsMiss(t *testing.T) {
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewResponseCache(time.Hour)
	c.now = func() time.Time { return current }

	c.Put(1, "привет", "здравствуйте")

	current = current.Add(time.Hour)
	if _, ok := c.Get(1, "привет"); ok {
		t.Fatalf("устаревшая запись должна считаться отсутствующей")
	}
}

func TestEntriesScopedPerUser(t *testing.T) {
	c := NewResponseCache(time.Hour)
	c.Put(1, "привет", "ответ для 1")

	if _, ok := c.Get(2, "привет"); ok {
		t.Fatalf("запись одного пользователя не должна отдаваться другому")
	}
}

func TestPutOverwrites(t *testing.T) {
	c := NewResponseCache(time.Hour)
	c.Put(1, "привет", "старый")
	c.Put(1, "привет", "новый")

	reply, _ := c.Get(1, "привет")
	if reply != "новый" {
		t.Fatalf("ожидалась перезапись, получено %q", reply)
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewResponseCache(time.Hour)
	c.now = func() time.Time { return current }

	c.Put(1, "старое", "ответ")

	current = current.Add(30 * time.Minute)
	c.Put(1, "свежее", "ответ")

	current = current.Add(45 * time.Minute)
	if removed := c.Sweep(); removed != 1 {
		t.Fatalf("ожидалось удаление 1 записи, удалено %d", removed)
	}
	if c.Len() != 1 {
		t.Fatalf("в кеше должна остаться 1 запись, осталось %d", c.Len())
	}
}
