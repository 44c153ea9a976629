package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // ゼロ値は無期限
}

// Memory はミューテックスで保護したマップによるインメモリキャッシュ実装。
// テストおよびRedisを用意しない構成で使用する。
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemory はインメモリキャッシュを生成する。
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
	}
}

// Get はキーに対応する値を返す。未登録または期限切れの場合はnilを返す。
// 期限切れエントリは次のSet/Invalidateまで残るが、Getからは見えない。
func (c *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.value, nil
}

// Set は値をTTL付きで保存する。ttlが0以下の場合は無期限として扱う。
func (c *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	return nil
}

// Invalidate は指定キーを削除する。
func (c *Memory) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// InvalidatePrefix は指定プレフィックスで始まる全キーを削除する。
func (c *Memory) InvalidatePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// compile-time interface check
var _ Cache = (*Memory)(nil)
