package recipe

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-catalog/internal/api/middleware"
	"recipe-catalog/internal/core/chart"
	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/search"
	"recipe-catalog/internal/core/searchstate"
	"recipe-catalog/internal/metrics"
	"recipe-catalog/internal/pkg/common"
)

// searchResult 一次搜尋的結果
type searchResult struct {
	Rows    []search.Row
	Charts  map[string]string
	Outcome searchstate.Outcome
}

// runSearch 建立篩選、查詢、彙整並繪製圖表
func (h *Handler) runSearch(ctx context.Context, criteria search.Criteria, requestID string) (searchResult, error) {
	start := time.Now()

	records, err := h.store.Find(ctx, search.BuildFilter(criteria))
	if err != nil {
		return searchResult{}, err
	}
	rows := search.Aggregate(records)

	var charts map[string]string
	if len(rows) > 0 {
		charts, err = h.renderCharts(rows)
		if err != nil {
			return searchResult{}, err
		}
	}

	st := searchstate.NewState(nil, rows, charts)
	duration := time.Since(start)
	metrics.RecordSearch(string(criteria.Mode), string(st.Outcome), duration)
	common.LogSearch(string(criteria.Mode), len(rows), duration, requestID)

	return searchResult{Rows: st.Rows, Charts: charts, Outcome: st.Outcome}, nil
}

// renderCharts 繪製所有圖表，任一失敗即回傳錯誤
func (h *Handler) renderCharts(rows []search.Row) (map[string]string, error) {
	images, err := chart.RenderAll(rows, h.scheme)
	if err != nil {
		kind := "unknown"
		var rerr *chart.RenderError
		if errors.As(err, &rerr) {
			kind = string(rerr.Kind)
		}
		metrics.RecordChartError(kind)
		common.LogError("圖表生成失敗",
			zap.String("kind", kind),
			zap.Int("rows", len(rows)),
			zap.Error(err),
		)
		return nil, common.ErrChartFailed.Wrap(err)
	}

	charts := make(map[string]string, len(images))
	for kind, img := range images {
		charts[string(kind)] = img
	}
	return charts, nil
}

// SearchPage 顯示搜尋表單，並取出上一次送出的結果
func (h *Handler) SearchPage(c *gin.Context) {
	data := gin.H{
		"user":         middleware.CurrentUsername(c),
		"form":         map[string]string{},
		"difficulties": recipe.Difficulties,
		"outcome":      "",
	}

	key, err := h.sessions.SearchKey(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	st, ok, err := h.states.Pop(c.Request.Context(), key)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if ok {
		data["form"] = st.Form
		data["rows"] = st.Rows
		data["charts"] = st.Charts
		data["outcome"] = string(st.Outcome)
	}

	c.HTML(http.StatusOK, "search.html", data)
}

// SubmitSearch 處理搜尋表單，結果暫存後轉址回搜尋頁
func (h *Handler) SubmitSearch(c *gin.Context) {
	var form SearchForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderSearchErrors(c, form, recipe.ValidationErrors{"__all__": "Invalid form submission."})
		return
	}
	form.normalize()

	criteria, err := form.Criteria()
	if err != nil {
		var verrs recipe.ValidationErrors
		if errors.As(err, &verrs) {
			h.renderSearchErrors(c, form, verrs)
			return
		}
		h.renderError(c, err)
		return
	}

	result, err := h.runSearch(c.Request.Context(), criteria, requestid.Get(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	key, err := h.sessions.SearchKey(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	st := searchstate.NewState(form.Values(), result.Rows, result.Charts)
	if err := h.states.Save(c.Request.Context(), key, st); err != nil {
		h.renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/search#"+st.Outcome.Anchor())
}

// renderSearchErrors 表單驗證失敗時回填並顯示錯誤
func (h *Handler) renderSearchErrors(c *gin.Context, form SearchForm, errs recipe.ValidationErrors) {
	c.HTML(http.StatusBadRequest, "search.html", gin.H{
		"user":         middleware.CurrentUsername(c),
		"form":         form.Values(),
		"errors":       errs,
		"difficulties": recipe.Difficulties,
		"outcome":      "",
	})
}

// Search JSON API 搜尋
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	criteria, err := req.Form().Criteria()
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.runSearch(c.Request.Context(), criteria, requestid.Get(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mode":    criteria.Mode,
		"matched": len(result.Rows),
		"outcome": result.Outcome,
		"rows":    result.Rows,
		"charts":  result.Charts,
	})
}
