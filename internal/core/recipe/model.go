package recipe

import (
	"encoding/json"
	"strings"
)

// UploadDir 上傳圖片所在的子目錄，參照格式為 "recipes/<uuid>.jpg"
const UploadDir = "recipes"

// DefaultImage 未上傳圖片時的預設圖片
const DefaultImage = UploadDir + "/no_picture.png"

// 欄位長度與範圍限制
const (
	MaxNameLength        = 120
	MaxDescriptionLength = 300
	MinCookingTime       = 1
	MaxCookingTime       = 1440
)

// Recipe 食譜
// 難度不是欄位，由 Difficulty() 依烹調時間與食材數量即時計算
type Recipe struct {
	ID               int64  `json:"id"`
	Name             string `json:"name" validate:"notblank,max=120"`
	ShortDescription string `json:"short_description" validate:"max=300"`
	Ingredients      string `json:"ingredients" validate:"notblank"`
	CookingTime      int    `json:"cooking_time" validate:"min=1,max=1440"`
	Likes            int    `json:"likes" validate:"min=0"`
	Comments         string `json:"comments"`
	References       string `json:"references" validate:"omitempty,url"`
	Image            string `json:"recipe_image" validate:"omitempty,imageref"`
}

// IngredientList 回傳解析後的食材清單
func (r Recipe) IngredientList() []string {
	return ParseIngredients(r.Ingredients)
}

// Difficulty 依目前的烹調時間與食材數量計算難度
func (r Recipe) Difficulty() Difficulty {
	return Classify(r.CookingTime, len(r.IngredientList()))
}

// ImageReference 回傳圖片參照，空值時使用預設圖片
func (r Recipe) ImageReference() string {
	if strings.TrimSpace(r.Image) == "" {
		return DefaultImage
	}
	return r.Image
}

func (r Recipe) String() string {
	return r.Name
}

// MarshalJSON 輸出時附帶計算後的難度
func (r Recipe) MarshalJSON() ([]byte, error) {
	type plain Recipe
	return json.Marshal(struct {
		plain
		Difficulty Difficulty `json:"difficulty"`
	}{
		plain:      plain(r),
		Difficulty: r.Difficulty(),
	})
}

// Input 使用者可編輯的欄位
// likes、comments 與難度不可經由一般輸入修改
type Input struct {
	Name             string `json:"name" form:"name"`
	ShortDescription string `json:"short_description" form:"short_description"`
	Ingredients      string `json:"ingredients" form:"ingredients"`
	CookingTime      int    `json:"cooking_time" form:"cooking_time"`
	References       string `json:"references" form:"references"`
	Image            string `json:"recipe_image" form:"recipe_image"`
}

// NewFromInput 由使用者輸入建立新食譜
func NewFromInput(in Input) Recipe {
	r := Recipe{}
	in.ApplyTo(&r)
	return r
}

// ApplyTo 將使用者輸入套用到既有食譜，保留不可編輯欄位
func (in Input) ApplyTo(r *Recipe) {
	r.Name = in.Name
	r.ShortDescription = in.ShortDescription
	r.Ingredients = in.Ingredients
	r.CookingTime = in.CookingTime
	r.References = in.References
	if in.Image != "" {
		r.Image = in.Image
	}
}
