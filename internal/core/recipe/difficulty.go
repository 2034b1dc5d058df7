package recipe

// Difficulty 食譜難度
type Difficulty string

const (
	DifficultyEasy         Difficulty = "Easy"
	DifficultyMedium       Difficulty = "Medium"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyHard         Difficulty = "Hard"
)

// 難度分界
const (
	quickCookingTime   = 10
	manyIngredientsMin = 4
)

// Difficulties 所有難度，依由易到難排序
var Difficulties = []Difficulty{
	DifficultyEasy,
	DifficultyMedium,
	DifficultyIntermediate,
	DifficultyHard,
}

// Classify 依烹調時間（分鐘）與食材數量判定難度
func Classify(cookingTime, ingredientCount int) Difficulty {
	quick := cookingTime < quickCookingTime
	few := ingredientCount < manyIngredientsMin

	switch {
	case quick && few:
		return DifficultyEasy
	case quick:
		return DifficultyMedium
	case few:
		return DifficultyIntermediate
	default:
		return DifficultyHard
	}
}

// ParseDifficulty 檢查字串是否為合法難度
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}
