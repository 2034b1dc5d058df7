package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"recipe-catalog/internal/core/store"
	"recipe-catalog/internal/pkg/common"
)

// ErrInvalidCredentials 帳號或密碼錯誤
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service 使用者登入驗證
type Service struct {
	users store.UserStore
	cost  int
}

// NewService 創建驗證服務
func NewService(users store.UserStore) *Service {
	return &Service{users: users, cost: bcrypt.DefaultCost}
}

// WithCost 指定 bcrypt cost
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

// Register 建立新使用者
func (s *Service) Register(ctx context.Context, username, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &store.User{Username: username, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate 驗證帳號密碼；帳號不存在與密碼錯誤回傳同一錯誤
func (s *Service) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	u, err := s.users.FindUser(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// EnsureUsers 依 "name:password" 清單建立尚未存在的使用者，回傳新建數量
func (s *Service) EnsureUsers(ctx context.Context, seeds []string) (int, error) {
	created := 0
	for _, seed := range seeds {
		name, password, ok := strings.Cut(seed, ":")
		if !ok {
			return created, fmt.Errorf("invalid user seed %q", seed)
		}

		_, err := s.Register(ctx, name, password)
		switch {
		case err == nil:
			created++
			common.LogInfo("已建立使用者", zap.String("username", name))
		case errors.Is(err, store.ErrDuplicateUser):
		default:
			return created, err
		}
	}
	return created, nil
}
