package calendar

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
)

// События кэша для метрик
const (
	EventStore      = "store"
	EventStaleServe = "stale_serve"
	EventMiss       = "miss"
	EventDiscard    = "discard"
)

// Key выбор календаря: фича, филиал, месяц и первый день недели
type Key struct {
	Feature   domain.Feature
	BranchID  int64
	Month     time.Month
	Year      int
	WeekStart slotengine.WeekStart
}

type branchKey struct {
	feature  domain.Feature
	branchID int64
}

// Entry последний успешно загруженный календарь
type Entry struct {
	Calendar   *slotengine.MonthCalendar
	Generation uint64
	FetchedAt  time.Time
}

// Cache хранит последние успешно загруженные календари.
// Каждая загрузка получает поколение через Begin; результат сохраняется,
// только если он новее сохраненного и новее последней инвалидации филиала.
type Cache struct {
	mu          sync.Mutex
	entries     *lru.Cache[Key, *Entry]
	generation  uint64
	invalidated map[branchKey]uint64
	metrics     MetricsRecorder
	now         func() time.Time
}

// NewCache создает кэш на size календарей
func NewCache(size int, metrics MetricsRecorder) (*Cache, error) {
	entries, err := lru.New[Key, *Entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar cache: %w", err)
	}

	return &Cache{
		entries:     entries,
		invalidated: make(map[branchKey]uint64),
		metrics:     metrics,
		now:         time.Now,
	}, nil
}

// Begin выдает поколение для новой загрузки календаря
func (c *Cache) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	return c.generation
}

// Put сохраняет календарь, загруженный в поколении generation.
// Возвращает false, если результат устарел и был отброшен.
func (c *Cache) Put(key Key, generation uint64, cal *slotengine.MonthCalendar) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation <= c.invalidated[branchKey{feature: key.Feature, branchID: key.BranchID}] {
		c.event(EventDiscard)
		return false
	}

	if current, ok := c.entries.Peek(key); ok && current.Generation >= generation {
		c.event(EventDiscard)
		return false
	}

	c.entries.Add(key, &Entry{
		Calendar:   cal,
		Generation: generation,
		FetchedAt:  c.now(),
	})
	c.event(EventStore)
	return true
}

// Get возвращает последний сохраненный календарь
func (c *Cache) Get(key Key) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Get(key)
	if !ok {
		c.event(EventMiss)
		return nil, false
	}
	return entry, true
}

// InvalidateBranch удаляет все календари филиала и отбрасывает загрузки,
// начатые до инвалидации
func (c *Cache) InvalidateBranch(feature domain.Feature, branchID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidated[branchKey{feature: feature, branchID: branchID}] = c.generation

	removed := 0
	for _, key := range c.entries.Keys() {
		if key.Feature == feature && key.BranchID == branchID {
			c.entries.Remove(key)
			removed++
		}
	}
	return removed
}

// Len количество сохраненных календарей
func (c *Cache) Len() int {
	return c.entries.Len()
}

func (c *Cache) event(name string) {
	if c.metrics != nil {
		c.metrics.CalendarCacheEvent(name)
	}
}
