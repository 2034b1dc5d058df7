package searchstate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipe-catalog/internal/pkg/common"
)

type entry struct {
	state     State
	expiresAt time.Time
	seq       uint64 // 寫入順序
}

// MemoryStore 記憶體暫存，含 TTL、滿時淘汰最早寫入的項目與定期清理
// 項目只會被 Pop 讀取一次，因此依寫入順序淘汰
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	maxSize   int
	ttl       time.Duration
	nextSeq   uint64
	evictions int64
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewMemoryStore 創建記憶體暫存；cleanupInterval <= 0 時不啟動清理協程
func NewMemoryStore(maxSize int, ttl, cleanupInterval time.Duration) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	m := &MemoryStore{
		entries: make(map[string]entry),
		maxSize: maxSize,
		ttl:     ttl,
		stop:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go m.startCleanup(cleanupInterval)
	}

	common.LogInfo("搜尋暫存已初始化",
		zap.Int("最大容量", maxSize),
		zap.Duration("存活時間", ttl),
	)
	return m
}

// Save 寫入暫存，覆蓋同一 key 的舊值
// 已滿時先清理過期項目，仍滿則淘汰最早寫入的項目
func (m *MemoryStore) Save(ctx context.Context, key string, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxSize {
		if m.cleanup() == 0 {
			m.evictOldest()
		}
	}

	m.nextSeq++
	m.entries[key] = entry{state: st, expiresAt: time.Now().Add(m.ttl), seq: m.nextSeq}
	return nil
}

// Pop 取出並刪除暫存
func (m *MemoryStore) Pop(ctx context.Context, key string) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return State{}, false, nil
	}
	delete(m.entries, key)

	if time.Now().After(e.expiresAt) {
		m.evictions++
		return State{}, false, nil
	}
	return e.state, true, nil
}

// Len 目前暫存數量
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

// cleanup 清理過期項目，呼叫前須持有鎖
func (m *MemoryStore) cleanup() int {
	now := time.Now()
	count := 0
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
			count++
		}
	}
	if count > 0 {
		m.evictions += int64(count)
		common.LogDebug("已清理過期搜尋暫存",
			zap.Int("count", count),
			zap.Int("remaining_size", len(m.entries)),
		)
	}
	return count
}

// evictOldest 淘汰最早寫入的項目，呼叫前須持有鎖
func (m *MemoryStore) evictOldest() {
	var oldestKey string
	var oldest uint64
	for key, e := range m.entries {
		if oldestKey == "" || e.seq < oldest {
			oldestKey = key
			oldest = e.seq
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
		m.evictions++
		common.LogDebug("搜尋暫存已滿，淘汰最早項目", zap.Int("max_size", m.maxSize))
	}
}

// Close 停止清理協程並清空暫存
func (m *MemoryStore) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
	common.LogInfo("搜尋暫存已關閉", zap.Int64("淘汰次數", m.evictions))
	return nil
}
