package cachex

import (
	"path"
	"sync"
	"time"
)

// localEntry 表示进程内缓存条目。
type localEntry struct {
	value     []byte
	expiresAt time.Time
}

// localStore 是互斥锁保护的进程内 TTL 缓存。
// 读取返回副本，避免调用方修改底层字节切片。
type localStore struct {
	mu         sync.Mutex
	entries    map[string]localEntry
	maxEntries int
}

func newLocalStore(maxEntries int) *localStore {
	return &localStore{
		entries:    make(map[string]localEntry),
		maxEntries: maxEntries,
	}
}

func (s *localStore) get(key string, now time.Time) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if now.After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true
}

func (s *localStore) set(key string, value []byte, ttl time.Duration, now time.Time) {
	if ttl <= 0 {
		return
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictLocked(now)
	}
	s.entries[key] = localEntry{value: stored, expiresAt: now.Add(ttl)}
}

// evictLocked 先清理过期条目；仍然超限时淘汰最早过期的条目。
func (s *localStore) evictLocked(now time.Time) {
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
	for s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		for key, entry := range s.entries {
			if oldestKey == "" || entry.expiresAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.expiresAt
			}
		}
		if oldestKey == "" {
			return
		}
		delete(s.entries, oldestKey)
	}
}

func (s *localStore) delete(keys ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, key := range keys {
		if _, ok := s.entries[key]; ok {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *localStore) deletePattern(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key := range s.entries {
		if ok, err := path.Match(pattern, key); err == nil && ok {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *localStore) purgeExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func (s *localStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
