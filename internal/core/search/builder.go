package search

import (
	"strings"
)

// Mode 搜尋模式
type Mode string

const (
	// ModeFiltered 套用所有填寫的條件
	ModeFiltered Mode = "filtered"
	// ModeShowAll 忽略條件，列出全部食譜
	ModeShowAll Mode = "show_all"
)

// ParseMode 解析表單送出的動作
// "search" 與 "filtered" 視為篩選，其餘一律列出全部
func ParseMode(action string) Mode {
	switch strings.TrimSpace(action) {
	case "search", string(ModeFiltered):
		return ModeFiltered
	default:
		return ModeShowAll
	}
}

// Criteria 搜尋條件
type Criteria struct {
	Mode            Mode   `json:"mode"`
	NameTerm        string `json:"name_term,omitempty"`
	IngredientsTerm string `json:"ingredients_term,omitempty"`
	CookingTimeMax  *int   `json:"cooking_time_max,omitempty"`
	Difficulty      string `json:"difficulty,omitempty"`
}

// SplitTerms 將逗號分隔的搜尋詞拆開並去除空白項
func SplitTerms(raw string) []string {
	parts := strings.Split(raw, ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		if term := strings.TrimSpace(part); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// BuildFilter 依條件組出篩選，不執行查詢
func BuildFilter(c Criteria) Filter {
	if c.Mode == ModeShowAll {
		return All()
	}

	f := All()

	if p := Translate(c.NameTerm); p != nil {
		f = f.And(p.Bind(FieldName))
	}

	// 多個食材之間為 AND：每個都要符合
	for _, term := range SplitTerms(c.IngredientsTerm) {
		if p := Translate(term); p != nil {
			f = f.And(p.Bind(FieldIngredients))
		}
	}

	if c.CookingTimeMax != nil {
		f = f.And(AtMost(FieldCookingTime, *c.CookingTimeMax))
	}

	if d := strings.TrimSpace(c.Difficulty); d != "" {
		f = f.And(Eq(FieldDifficulty, d))
	}

	return f
}
