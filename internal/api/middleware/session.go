package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"
)

const (
	sessionUserKey   = "username"
	sessionSearchKey = "search_key"

	// ContextUserKey gin context 中登入帳號的鍵
	ContextUserKey = "username"
)

// Sessions 以 cookie session 保存登入狀態與搜尋暫存 key
type Sessions struct {
	store sessions.Store
	name  string
}

// NewSessions 創建 cookie session 管理
func NewSessions(cfg config.SessionConfig) *Sessions {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store, name: cfg.Name}
}

// get 取得 session；cookie 無法解碼時回傳新的 session
func (s *Sessions) get(c *gin.Context) *sessions.Session {
	session, err := s.store.Get(c.Request, s.name)
	if err != nil {
		common.LogDebug("session 無法解碼，改用新的 session", zap.Error(err))
	}
	return session
}

// CurrentUser 目前登入的帳號
func (s *Sessions) CurrentUser(c *gin.Context) (string, bool) {
	username, ok := s.get(c).Values[sessionUserKey].(string)
	return username, ok && username != ""
}

// Login 記錄登入帳號
func (s *Sessions) Login(c *gin.Context, username string) error {
	session := s.get(c)
	session.Values[sessionUserKey] = username
	return session.Save(c.Request, c.Writer)
}

// Logout 清除 session
func (s *Sessions) Logout(c *gin.Context) error {
	session := s.get(c)
	delete(session.Values, sessionUserKey)
	delete(session.Values, sessionSearchKey)
	session.Options.MaxAge = -1
	return session.Save(c.Request, c.Writer)
}

// SearchKey 取得本 session 的搜尋暫存 key，沒有時建立
func (s *Sessions) SearchKey(c *gin.Context) (string, error) {
	session := s.get(c)
	if key, ok := session.Values[sessionSearchKey].(string); ok && key != "" {
		return key, nil
	}

	key := common.GenerateUUID()
	session.Values[sessionSearchKey] = key
	if err := session.Save(c.Request, c.Writer); err != nil {
		return "", err
	}
	return key, nil
}

// LoadUser 將登入帳號放入 gin context
func (s *Sessions) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if username, ok := s.CurrentUser(c); ok {
			c.Set(ContextUserKey, username)
		}
		c.Next()
	}
}

// CurrentUsername 由 gin context 取得登入帳號
func CurrentUsername(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}

// RequireLogin 頁面需登入，未登入導向登入頁並帶上 next
func RequireLogin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUsername(c) == "" {
			target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAPILogin API 需登入，未登入回 401
func RequireAPILogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUsername(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.ErrUnauthorized.Response(false))
			return
		}
		c.Next()
	}
}

// SafeNext 只接受站內相對路徑，避免開放式轉址
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
