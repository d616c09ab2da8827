package classification

import (
	"fmt"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	cache := NewCache(10, time.Hour)

	if _, found := cache.Get("образец"); found {
		t.Error("empty cache must miss")
	}

	cache.Set("образец", "мебель")
	got, found := cache.Get("образец")
	if !found || got != "мебель" {
		t.Errorf("Get = %q, %v; want %q, true", got, found, "мебель")
	}

	hits, misses := cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses; want 1, 1", hits, misses)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	cache := NewCache(10, time.Millisecond)
	cache.Set("образец", "мебель")

	time.Sleep(5 * time.Millisecond)

	if _, found := cache.Get("образец"); found {
		t.Error("expired entry must miss")
	}
}

func TestCache_ExpiredEntryFreesCapacity(t *testing.T) {
	cache := NewCache(2, time.Millisecond)
	cache.Set("образец-0", "мебель")
	cache.Set("образец-1", "инструменты")

	time.Sleep(5 * time.Millisecond)

	// Промах по просроченной записи освобождает место
	if _, found := cache.Get("образец-0"); found {
		t.Fatal("expired entry must miss")
	}
	if cache.Len() != 1 {
		t.Errorf("expired entry must be removed, Len = %d, want 1", cache.Len())
	}

	// Освободившееся место занимает новая запись без вытеснения
	cache.Set("образец-2", "сантехника")
	if cache.Len() != 2 {
		t.Errorf("Len = %d, want 2", cache.Len())
	}
}

func TestCache_EvictsOldestWhenFull(t *testing.T) {
	cache := NewCache(3, time.Hour)
	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("образец-%d", i), "мебель")
	}
	if cache.Len() != 3 {
		t.Fatalf("Len = %d, want 3", cache.Len())
	}

	cache.Set("образец-3", "инструменты")

	if cache.Len() != 3 {
		t.Errorf("cache must stay bounded, Len = %d", cache.Len())
	}
	if _, found := cache.Get("образец-0"); found {
		t.Error("oldest entry must be evicted")
	}
	if _, found := cache.Get("образец-3"); !found {
		t.Error("newest entry must be present")
	}
}

func TestCache_UpdateDoesNotGrow(t *testing.T) {
	cache := NewCache(2, time.Hour)
	cache.Set("образец", "мебель")
	cache.Set("образец", "инструменты")

	if cache.Len() != 1 {
		t.Errorf("updating the same key must not grow cache, Len = %d", cache.Len())
	}
	if got, _ := cache.Get("образец"); got != "инструменты" {
		t.Errorf("last write must win, got %q", got)
	}
}
