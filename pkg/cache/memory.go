package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const (
	defaultMemorySize = 1000
	lockSweepInterval = time.Minute
)

type memEntry struct {
	key   string
	value []byte
}

// MemoryCache is a bounded in-process Service. When full, the least
// recently read or written entry is evicted.
type MemoryCache struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List
	items   map[string]*list.Element
	locks   *lockTable

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache holds up to maxSize entries; maxSize <= 0 uses 1000.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = defaultMemorySize
	}
	mc := &MemoryCache{
		maxSize: maxSize,
		order:   list.New(),
		items:   make(map[string]*list.Element, maxSize),
		locks:   newLockTable(),
		stop:    make(chan struct{}),
	}
	go mc.sweepLocks(lockSweepInterval)
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	v := append([]byte(nil), value...)

	mc.mu.Lock()
	defer mc.mu.Unlock()
	if el, ok := mc.items[key]; ok {
		el.Value.(*memEntry).value = v
		mc.order.MoveToFront(el)
		return nil
	}
	if mc.order.Len() >= mc.maxSize {
		if oldest := mc.order.Back(); oldest != nil {
			mc.order.Remove(oldest)
			delete(mc.items, oldest.Value.(*memEntry).key)
		}
	}
	mc.items[key] = mc.order.PushFront(&memEntry{key: key, value: v})
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	el, ok := mc.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	mc.order.MoveToFront(el)
	return append([]byte(nil), el.Value.(*memEntry).value...), nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, key := range keys {
		if el, ok := mc.items[key]; ok {
			mc.order.Remove(el)
			delete(mc.items, key)
		}
	}
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	mc.mu.Lock()
	_, ok := mc.items[key]
	mc.mu.Unlock()
	return ok, nil
}

func (mc *MemoryCache) TryLock(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	token, ok := mc.locks.tryLock(key, ttl)
	return token, ok, nil
}

func (mc *MemoryCache) Unlock(_ context.Context, key, token string) error {
	return mc.locks.unlock(key, token)
}

// Len reports the number of entries.
func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.order.Len()
}

func (mc *MemoryCache) sweepLocks(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			mc.locks.purgeExpired()
		case <-mc.stop:
			return
		}
	}
}

// Close stops the background lock sweeper. Entries stay readable.
func (mc *MemoryCache) Close() error {
	mc.stopOnce.Do(func() { close(mc.stop) })
	return nil
}
