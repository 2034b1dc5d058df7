package searchstate

import (
	"context"
	"fmt"

	"recipe-catalog/internal/core/search"
	"recipe-catalog/internal/infrastructure/config"
)

// Outcome 搜尋結果類型；沒有暫存代表尚未搜尋
type Outcome string

const (
	OutcomeResults   Outcome = "results"
	OutcomeNoResults Outcome = "no_results"
)

// Anchor 結果頁要捲動到的區塊
func (o Outcome) Anchor() string {
	if o == OutcomeNoResults {
		return "no-recipes-found"
	}
	return "search-results"
}

// State 一次搜尋送出後，轉址到結果頁前暫存的內容
type State struct {
	Form    map[string]string `json:"form"`
	Rows    []search.Row      `json:"rows"`
	Charts  map[string]string `json:"charts,omitempty"` // 圖表種類 → base64 PNG
	Outcome Outcome           `json:"outcome"`
}

// NewState 依結果筆數決定 Outcome
func NewState(form map[string]string, rows []search.Row, charts map[string]string) State {
	outcome := OutcomeResults
	if len(rows) == 0 {
		outcome = OutcomeNoResults
	}
	if rows == nil {
		rows = []search.Row{}
	}
	return State{Form: form, Rows: rows, Charts: charts, Outcome: outcome}
}

// Store 每個 session 一份的暫存，讀取一次即刪除
type Store interface {
	Save(ctx context.Context, key string, st State) error
	Pop(ctx context.Context, key string) (State, bool, error)
	Close() error
}

// Open 依設定建立暫存後端
func Open(cfg config.SearchStateConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(cfg.MaxSize, cfg.TTL, cfg.CleanupInterval), nil
	case "redis":
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown search state backend %q", cfg.Backend)
	}
}
