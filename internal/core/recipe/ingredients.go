package recipe

import "strings"

// ParseIngredients 將逗號分隔的食材字串轉為清單
// 去除前後空白、丟棄空項目，保留原順序與重複項
func ParseIngredients(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	ingredients := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			ingredients = append(ingredients, item)
		}
	}
	return ingredients
}

// CountIngredients 回傳解析後的食材數量
func CountIngredients(raw string) int {
	return len(ParseIngredients(raw))
}
