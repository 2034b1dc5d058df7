package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/search"
	"recipe-catalog/internal/pkg/common"
)

// SampleRecipes 範例食譜
func SampleRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{
			Name:             "Pasta al Pesto",
			ShortDescription: "Quick pasta tossed in basil pesto.",
			Ingredients:      "pasta, pesto, cheese, garlic",
			CookingTime:      10,
		},
		{
			Name:             "Pizza Margherita",
			ShortDescription: "Classic Neapolitan pizza.",
			Ingredients:      "dough, tomato, cheese, basil",
			CookingTime:      5,
		},
		{
			Name:             "Summer Salad",
			ShortDescription: "Fresh salad for warm days.",
			Ingredients:      "lettuce, tomato, cucumber, olive oil",
			CookingTime:      15,
		},
	}
}

// Seed 儲存為空時寫入範例食譜，回傳寫入筆數
func Seed(ctx context.Context, s RecipeStore) (int, error) {
	existing, err := s.Find(ctx, search.All())
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	samples := SampleRecipes()
	for i := range samples {
		if err := s.Create(ctx, &samples[i]); err != nil {
			return i, fmt.Errorf("failed to seed %q: %w", samples[i].Name, err)
		}
	}

	common.LogInfo("已寫入範例食譜", zap.Int("count", len(samples)))
	return len(samples), nil
}
