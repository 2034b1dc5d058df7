package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe-catalog/internal/api/middleware"
	"recipe-catalog/internal/core/search"
)

// Home 首頁
func Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{
		"user": middleware.CurrentUsername(c),
	})
}

// ListPage 食譜列表
func (h *Handler) ListPage(c *gin.Context) {
	records, err := h.store.Find(c.Request.Context(), search.All())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "list.html", gin.H{
		"user":    middleware.CurrentUsername(c),
		"recipes": records,
	})
}

// DetailPage 食譜詳細頁，不存在時顯示 404
func (h *Handler) DetailPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		NotFound(c)
		return
	}
	r, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "detail.html", gin.H{
		"user":   middleware.CurrentUsername(c),
		"recipe": r,
	})
}
