// Package metrics 食譜搜尋與寫入的 Prometheus 指標
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal 搜尋次數，依模式與結果分類
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_searches_total",
			Help: "Total recipe searches by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	// SearchDuration 搜尋耗時（含查詢、彙整與圖表）
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipe_search_duration_seconds",
			Help:    "Recipe search duration including chart rendering",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// ChartErrors 圖表產生失敗次數
	ChartErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_chart_errors_total",
			Help: "Chart rendering failures by chart kind",
		},
		[]string{"kind"},
	)

	// StoreWrites 食譜寫入次數
	StoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_store_writes_total",
			Help: "Recipe store writes by operation",
		},
		[]string{"op"},
	)
)

// RecordSearch 記錄一次搜尋
func RecordSearch(mode, outcome string, duration time.Duration) {
	SearchesTotal.WithLabelValues(mode, outcome).Inc()
	SearchDuration.Observe(duration.Seconds())
}

// RecordChartError 記錄圖表失敗
func RecordChartError(kind string) {
	ChartErrors.WithLabelValues(kind).Inc()
}

// RecordWrite 記錄寫入（create / update / delete / image）
func RecordWrite(op string) {
	StoreWrites.WithLabelValues(op).Inc()
}
