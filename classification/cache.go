package classification

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Cache ограниченный кэш классификаций, ключ — содержимое сэмпла.
// Вместо неограниченного роста применяются лимит записей и TTL;
// при переполнении вытесняется самая старая запись.
// Конкурентная классификация одного и того же сэмпла допустима:
// дубль внешнего вызова безвреден, выигрывает последняя запись.
type Cache struct {
	maxEntries int
	ttl        time.Duration

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string // ключи в порядке добавления

	hits   int64
	misses int64
}

type cacheEntry struct {
	category string
	storedAt time.Time
}

// NewCache создает новый кэш классификаций
func NewCache(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*cacheEntry),
	}
}

// cacheKey контентный ключ кэша по тексту сэмпла
func cacheKey(sampleText string) string {
	sum := sha256.Sum256([]byte(sampleText))
	return hex.EncodeToString(sum[:])
}

// Get возвращает категорию для сэмпла, если запись свежая
func (c *Cache) Get(sampleText string) (string, bool) {
	key := cacheKey(sampleText)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.misses++
		return "", false
	}
	if time.Since(entry.storedAt) > c.ttl {
		// Просроченная запись не должна занимать место до вытеснения
		c.removeLocked(key)
		c.misses++
		return "", false
	}

	c.hits++
	return entry.category, true
}

// Set сохраняет категорию для сэмпла, вытесняя самую старую запись
// при переполнении
func (c *Cache) Set(sampleText, category string) {
	key := cacheKey(sampleText)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}

	c.entries[key] = &cacheEntry{
		category: category,
		storedAt: time.Now(),
	}
}

// removeLocked удаляет запись и ее ключ из порядка добавления.
// Вызывается под c.mu.
func (c *Cache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Stats возвращает счетчики попаданий и промахов
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Len текущее количество записей в кэше
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
