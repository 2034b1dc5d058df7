package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/search"
	"recipe-catalog/internal/infrastructure/config"
)

// 儲存層錯誤
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateUser = errors.New("user already exists")
	ErrUnknownDriver = errors.New("unknown store driver")
)

// RecipeStore 食譜儲存介面
// 所有寫入都先經過 recipe.Prepare，難度依當下欄位重新計算後落地
type RecipeStore interface {
	// Find 依篩選條件查詢，結果依 ID 遞增排序
	Find(ctx context.Context, filter search.Filter) ([]recipe.Recipe, error)
	Get(ctx context.Context, id int64) (*recipe.Recipe, error)
	Create(ctx context.Context, r *recipe.Recipe) error
	Update(ctx context.Context, r *recipe.Recipe) error
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}

// User 登入使用者
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserStore 使用者儲存介面
type UserStore interface {
	FindUser(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
}

// Store 同時提供食譜與使用者
type Store interface {
	RecipeStore
	UserStore
}

// Open 依設定開啟對應的儲存後端
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "postgres":
		return NewPostgresStore(cfg.PostgresDSN)
	case "mongo":
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
