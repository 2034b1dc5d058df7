package recipe

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/search"
	"recipe-catalog/internal/metrics"
	"recipe-catalog/internal/pkg/common"
)

// imageFormField 上傳圖片的表單欄位
const imageFormField = "recipe_image"

// List 列出所有食譜
func (h *Handler) List(c *gin.Context) {
	records, err := h.store.Find(c.Request.Context(), search.All())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"recipes": records,
	})
}

// Get 取得單一食譜
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.respondError(c, common.ErrNotFound)
		return
	}
	r, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Create 新增食譜
func (h *Handler) Create(c *gin.Context) {
	var in recipe.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	r := recipe.NewFromInput(in)
	if err := h.store.Create(c.Request.Context(), &r); err != nil {
		h.respondError(c, err)
		return
	}
	metrics.RecordWrite("create")

	common.LogInfo("食譜已新增",
		zap.Int64("id", r.ID),
		zap.String("name", r.Name),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusCreated, r)
}

// Update 更新食譜，難度依新內容重新計算
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.respondError(c, common.ErrNotFound)
		return
	}

	var in recipe.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	r, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	in.ApplyTo(r)
	if err := h.store.Update(c.Request.Context(), r); err != nil {
		h.respondError(c, err)
		return
	}
	metrics.RecordWrite("update")

	c.JSON(http.StatusOK, r)
}

// Delete 刪除食譜與其上傳的圖片
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.respondError(c, common.ErrNotFound)
		return
	}

	r, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	metrics.RecordWrite("delete")

	if err := h.images.Remove(r.Image); err != nil {
		common.LogImageProcessing("warn", zap.String("ref", r.Image), zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// UploadImage 上傳食譜圖片並取代原本的圖片
func (h *Handler) UploadImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.respondError(c, common.ErrNotFound)
		return
	}

	file, err := c.FormFile(imageFormField)
	if err != nil {
		h.respondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	r, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	src, err := file.Open()
	if err != nil {
		h.respondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	defer src.Close()

	ref, err := h.images.Save(src)
	if err != nil {
		h.respondError(c, err)
		return
	}

	previous := r.Image
	r.Image = ref
	if err := h.store.Update(c.Request.Context(), r); err != nil {
		_ = h.images.Remove(ref)
		h.respondError(c, err)
		return
	}
	metrics.RecordWrite("image")

	if previous != ref {
		if err := h.images.Remove(previous); err != nil {
			common.LogImageProcessing("warn", zap.String("ref", previous), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, r)
}
