package recipe

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-catalog/internal/api/middleware"
	"recipe-catalog/internal/core/image"
	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/searchstate"
	"recipe-catalog/internal/core/store"
	"recipe-catalog/internal/pkg/common"
)

// Options 建立 Handler 所需的依賴
type Options struct {
	Store       store.RecipeStore
	States      searchstate.Store
	Sessions    *middleware.Sessions
	Images      *image.Service
	ColorScheme string
	Debug       bool
}

// Handler 食譜頁面與 API 處理器
type Handler struct {
	store    store.RecipeStore
	states   searchstate.Store
	sessions *middleware.Sessions
	images   *image.Service
	scheme   string
	debug    bool
}

// NewHandler 創建新的食譜處理器
func NewHandler(opts Options) *Handler {
	return &Handler{
		store:    opts.Store,
		states:   opts.States,
		sessions: opts.Sessions,
		images:   opts.Images,
		scheme:   opts.ColorScheme,
		debug:    opts.Debug,
	}
}

// parseID 解析路徑中的食譜 ID
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// respondError 將錯誤轉為 JSON 響應
func (h *Handler) respondError(c *gin.Context, err error) {
	var verrs recipe.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		resp := common.ErrValidation.Response(false)
		resp.Fields = verrs
		c.JSON(http.StatusBadRequest, resp)
		return
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, common.ErrNotFound.Wrap(err).Response(h.debug))
		return
	}

	ce := common.AsCustomError(err)
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("API 請求失敗",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestid.Get(c)),
			zap.Error(err),
		)
	}
	c.JSON(ce.Status, ce.Response(h.debug))
}

// renderError 以 HTML 錯誤頁回應
func (h *Handler) renderError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		NotFound(c)
		return
	}
	common.LogError("頁面處理失敗",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
		zap.Error(err),
	)
	ce := common.AsCustomError(err)
	c.HTML(ce.Status, "error.html", gin.H{
		"user":    middleware.CurrentUsername(c),
		"message": ce.Message,
	})
}

// NotFound 404 頁面
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{
		"user": middleware.CurrentUsername(c),
		"path": c.Request.URL.Path,
	})
}
