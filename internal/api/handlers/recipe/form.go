package recipe

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/search"
)

// 搜尋表單欄位限制
const (
	maxNameTermLength        = 120
	maxIngredientsTermLength = 200
)

// SearchForm 搜尋表單
type SearchForm struct {
	RecipeName     string `form:"recipe_name" json:"recipe_name"`
	Ingredients    string `form:"ingredients" json:"ingredients"`
	CookingTimeMax string `form:"cooking_time_max" json:"cooking_time_max"`
	Difficulty     string `form:"difficulty" json:"difficulty"`
	SearchAction   string `form:"search_action" json:"search_action"`
}

// SearchRequest JSON API 的搜尋請求
type SearchRequest struct {
	Mode           string `json:"mode"`
	RecipeName     string `json:"recipe_name"`
	Ingredients    string `json:"ingredients"`
	CookingTimeMax *int   `json:"cooking_time_max"`
	Difficulty     string `json:"difficulty"`
}

// Form 轉為與 HTML 表單相同的格式
func (r SearchRequest) Form() SearchForm {
	f := SearchForm{
		RecipeName:   r.RecipeName,
		Ingredients:  r.Ingredients,
		Difficulty:   r.Difficulty,
		SearchAction: r.Mode,
	}
	if r.CookingTimeMax != nil {
		f.CookingTimeMax = strconv.Itoa(*r.CookingTimeMax)
	}
	return f
}

// normalize 去除前後空白
func (f *SearchForm) normalize() {
	f.RecipeName = strings.TrimSpace(f.RecipeName)
	f.Ingredients = strings.TrimSpace(f.Ingredients)
	f.CookingTimeMax = strings.TrimSpace(f.CookingTimeMax)
	f.Difficulty = strings.TrimSpace(f.Difficulty)
	f.SearchAction = strings.TrimSpace(f.SearchAction)
}

// Values 以欄位名稱輸出，供頁面回填
func (f SearchForm) Values() map[string]string {
	return map[string]string{
		"recipe_name":      f.RecipeName,
		"ingredients":      f.Ingredients,
		"cooking_time_max": f.CookingTimeMax,
		"difficulty":       f.Difficulty,
	}
}

// Criteria 驗證並轉為搜尋條件
// show_all 模式忽略其他欄位，不做驗證
func (f SearchForm) Criteria() (search.Criteria, error) {
	f.normalize()
	c := search.Criteria{Mode: search.ParseMode(f.SearchAction)}
	if c.Mode == search.ModeShowAll {
		return c, nil
	}

	errs := recipe.ValidationErrors{}
	if utf8.RuneCountInString(f.RecipeName) > maxNameTermLength {
		errs["recipe_name"] = fmt.Sprintf("Ensure this value has at most %d characters.", maxNameTermLength)
	}
	if utf8.RuneCountInString(f.Ingredients) > maxIngredientsTermLength {
		errs["ingredients"] = fmt.Sprintf("Ensure this value has at most %d characters.", maxIngredientsTermLength)
	}
	if f.CookingTimeMax != "" {
		n, err := strconv.Atoi(f.CookingTimeMax)
		switch {
		case err != nil:
			errs["cooking_time_max"] = "Enter a whole number."
		case n < recipe.MinCookingTime:
			errs["cooking_time_max"] = fmt.Sprintf("Ensure this value is greater than or equal to %d.", recipe.MinCookingTime)
		case n > recipe.MaxCookingTime:
			errs["cooking_time_max"] = fmt.Sprintf("Ensure this value is less than or equal to %d.", recipe.MaxCookingTime)
		default:
			c.CookingTimeMax = &n
		}
	}
	if f.Difficulty != "" {
		d, ok := recipe.ParseDifficulty(f.Difficulty)
		if !ok {
			errs["difficulty"] = fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", f.Difficulty)
		}
		c.Difficulty = string(d)
	}
	if len(errs) > 0 {
		return search.Criteria{}, errs
	}

	c.NameTerm = f.RecipeName
	c.IngredientsTerm = f.Ingredients
	return c, nil
}
