package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/search"
)

// MemoryStore 記憶體儲存，供開發與測試使用
type MemoryStore struct {
	mu         sync.RWMutex
	recipes    map[int64]recipe.Recipe
	users      map[string]User
	nextID     int64
	nextUserID int64
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes: make(map[int64]recipe.Recipe),
		users:   make(map[string]User),
	}
}

// Find 依篩選條件查詢
func (s *MemoryStore) Find(ctx context.Context, filter search.Filter) ([]recipe.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	all := make([]recipe.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		all = append(all, r)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return filter.Apply(all), nil
}

// Get 依 ID 取得食譜
func (s *MemoryStore) Get(ctx context.Context, id int64) (*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

// Create 新增食譜並指派 ID
func (s *MemoryStore) Create(ctx context.Context, r *recipe.Recipe) error {
	if err := recipe.Prepare(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r.ID = s.nextID
	s.recipes[r.ID] = *r
	return nil
}

// Update 更新食譜
func (s *MemoryStore) Update(ctx context.Context, r *recipe.Recipe) error {
	if err := recipe.Prepare(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[r.ID]; !ok {
		return ErrNotFound
	}
	s.recipes[r.ID] = *r
	return nil
}

// Delete 刪除食譜
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return ErrNotFound
	}
	delete(s.recipes, id)
	return nil
}

// Ping 記憶體儲存永遠可用
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close 清空資料
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = make(map[int64]recipe.Recipe)
	s.users = make(map[string]User)
	return nil
}

// FindUser 依帳號取得使用者（不分大小寫）
func (s *MemoryStore) FindUser(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.ToLower(username)]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// CreateUser 新增使用者
func (s *MemoryStore) CreateUser(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Username)
	if _, exists := s.users[key]; exists {
		return ErrDuplicateUser
	}
	s.nextUserID++
	u.ID = s.nextUserID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[key] = *u
	return nil
}
