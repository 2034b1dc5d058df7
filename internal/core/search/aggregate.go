package search

import (
	"recipe-catalog/internal/core/recipe"
)

// Row 搜尋結果摘要，供列表顯示與圖表使用
type Row struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	CookingTime      int    `json:"cooking_time"`
	Difficulty       string `json:"difficulty"`
	Ingredients      string `json:"ingredients"`
	IngredientCount  int    `json:"ingredient_count"`
	ShortDescription string `json:"short_description"`
	ImageReference   string `json:"recipe_image"`
}

// Aggregate 將食譜轉為摘要列，保留輸入順序
// 食材數量在此重新計算，不信任儲存值
func Aggregate(records []recipe.Recipe) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			ID:               r.ID,
			Name:             r.Name,
			CookingTime:      r.CookingTime,
			Difficulty:       string(r.Difficulty()),
			Ingredients:      r.Ingredients,
			IngredientCount:  recipe.CountIngredients(r.Ingredients),
			ShortDescription: r.ShortDescription,
			ImageReference:   r.ImageReference(),
		})
	}
	return rows
}
