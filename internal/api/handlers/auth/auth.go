package auth

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-catalog/internal/api/middleware"
	"recipe-catalog/internal/core/auth"
	"recipe-catalog/internal/pkg/common"
)

// 登入後預設導向的頁面
const defaultNext = "/recipes"

// Credentials 登入表單與 JSON 請求
type Credentials struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Handler 登入登出處理器
type Handler struct {
	auth     *auth.Service
	sessions *middleware.Sessions
}

// NewHandler 創建新的登入處理器
func NewHandler(svc *auth.Service, sessions *middleware.Sessions) *Handler {
	return &Handler{auth: svc, sessions: sessions}
}

// LoginPage 顯示登入頁，已登入時直接導向列表
func (h *Handler) LoginPage(c *gin.Context) {
	if middleware.CurrentUsername(c) != "" {
		c.Redirect(http.StatusFound, defaultNext)
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{
		"username": "",
		"next":     c.Query("next"),
	})
}

// Login 處理登入表單
func (h *Handler) Login(c *gin.Context) {
	next := middleware.SafeNext(c.PostForm("next"), defaultNext)
	if middleware.CurrentUsername(c) != "" {
		c.Redirect(http.StatusFound, next)
		return
	}

	var creds Credentials
	if err := c.ShouldBind(&creds); err != nil {
		h.renderLoginError(c, creds, next, "Please enter a username and password.")
		return
	}

	u, err := h.auth.Authenticate(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			common.LogError("登入失敗", zap.String("request_id", requestid.Get(c)), zap.Error(err))
		}
		h.renderLoginError(c, creds, next, "Invalid username or password.")
		return
	}

	if err := h.sessions.Login(c, u.Username); err != nil {
		common.LogError("無法寫入 session", zap.Error(err))
		h.renderLoginError(c, creds, next, "Login failed, please try again.")
		return
	}

	common.LogInfo("使用者登入", zap.String("username", u.Username))
	c.Redirect(http.StatusFound, next)
}

func (h *Handler) renderLoginError(c *gin.Context, creds Credentials, next, message string) {
	c.HTML(http.StatusUnauthorized, "login.html", gin.H{
		"username": creds.Username,
		"next":     next,
		"error":    message,
	})
}

// Logout 登出並回到首頁
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c); err != nil {
		common.LogWarn("登出時無法清除 session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/")
}

// APILogin JSON 登入，成功後以 cookie 保存 session
func (h *Handler) APILogin(c *gin.Context) {
	var creds Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrInvalidRequest.Response(false))
		return
	}

	u, err := h.auth.Authenticate(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			resp := common.ErrUnauthorized.Response(false)
			resp.Error = "Invalid username or password"
			c.JSON(http.StatusUnauthorized, resp)
			return
		}
		common.LogError("登入失敗", zap.String("request_id", requestid.Get(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response(false))
		return
	}

	if err := h.sessions.Login(c, u.Username); err != nil {
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Wrap(err).Response(false))
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": u.Username})
}

// APILogout JSON 登出
func (h *Handler) APILogout(c *gin.Context) {
	if err := h.sessions.Logout(c); err != nil {
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Wrap(err).Response(false))
		return
	}
	c.Status(http.StatusNoContent)
}
