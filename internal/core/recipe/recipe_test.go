package recipe

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestParseIngredients(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"two items", "Ingredient1, Ingredient2", []string{"Ingredient1", "Ingredient2"}},
		{"extra spaces", "  Ingredient1 , Ingredient2  ", []string{"Ingredient1", "Ingredient2"}},
		{"single", "Single Ingredient", []string{"Single Ingredient"}},
		{"empties dropped", "A, , B,  ,C", []string{"A", "B", "C"}},
		{"duplicates kept", "salt, pepper, salt", []string{"salt", "pepper", "salt"}},
		{"only commas", ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIngredients(tt.raw)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseIngredients(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		cookingTime int
		count       int
		want        Difficulty
	}{
		{9, 3, DifficultyEasy},
		{9, 4, DifficultyMedium},
		{10, 3, DifficultyIntermediate},
		{10, 4, DifficultyHard},
		{0, 0, DifficultyEasy},
		{5, 3, DifficultyEasy},
		{8, 5, DifficultyMedium},
		{15, 2, DifficultyIntermediate},
		{20, 5, DifficultyHard},
	}

	for _, tt := range tests {
		if got := Classify(tt.cookingTime, tt.count); got != tt.want {
			t.Errorf("Classify(%d, %d) = %s, want %s", tt.cookingTime, tt.count, got, tt.want)
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	for ct := 0; ct <= 30; ct++ {
		for n := 0; n <= 8; n++ {
			if _, ok := ParseDifficulty(string(Classify(ct, n))); !ok {
				t.Fatalf("Classify(%d, %d) returned unknown label", ct, n)
			}
		}
	}
}

func TestRecipeDifficultyFollowsInputs(t *testing.T) {
	r := Recipe{Name: "Auto", Ingredients: "a, b, c, d", CookingTime: 25}
	if got := r.Difficulty(); got != DifficultyHard {
		t.Fatalf("expected Hard, got %s", got)
	}

	r.CookingTime = 5
	if got := r.Difficulty(); got != DifficultyMedium {
		t.Fatalf("expected Medium after edit, got %s", got)
	}

	r.Ingredients = "a"
	if got := r.Difficulty(); got != DifficultyEasy {
		t.Fatalf("expected Easy after edit, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	valid := Recipe{Name: "Valid Recipe", Ingredients: "Ingredient1, Ingredient2", CookingTime: 30}

	tests := []struct {
		name      string
		mutate    func(r *Recipe)
		wantField string
	}{
		{"valid", func(r *Recipe) {}, ""},
		{"empty name", func(r *Recipe) { r.Name = "" }, "name"},
		{"whitespace name", func(r *Recipe) { r.Name = "   " }, "name"},
		{"name too long", func(r *Recipe) { r.Name = strings.Repeat("A", 121) }, "name"},
		{"name at limit", func(r *Recipe) { r.Name = strings.Repeat("A", 120) }, ""},
		{"empty ingredients", func(r *Recipe) { r.Ingredients = "" }, "ingredients"},
		{"whitespace ingredients", func(r *Recipe) { r.Ingredients = "   " }, "ingredients"},
		{"zero cooking time", func(r *Recipe) { r.CookingTime = 0 }, "cooking_time"},
		{"negative cooking time", func(r *Recipe) { r.CookingTime = -5 }, "cooking_time"},
		{"cooking time too high", func(r *Recipe) { r.CookingTime = 1441 }, "cooking_time"},
		{"cooking time min", func(r *Recipe) { r.CookingTime = 1 }, ""},
		{"cooking time max", func(r *Recipe) { r.CookingTime = 1440 }, ""},
		{"description at limit", func(r *Recipe) { r.ShortDescription = strings.Repeat("A", 300) }, ""},
		{"description too long", func(r *Recipe) { r.ShortDescription = strings.Repeat("A", 301) }, "short_description"},
		{"bad reference", func(r *Recipe) { r.References = "not a url" }, "references"},
		{"good reference", func(r *Recipe) { r.References = "https://example.com/recipe" }, ""},
		{"default image", func(r *Recipe) { r.Image = DefaultImage }, ""},
		{"uploaded image", func(r *Recipe) { r.Image = "recipes/3f2504e0-4f89-11d3-9a0c-0305e82c3301.jpg" }, ""},
		{"external image", func(r *Recipe) { r.Image = "https://example.com/pasta.jpg" }, ""},
		{"image path traversal", func(r *Recipe) { r.Image = "recipes/../../victim.txt" }, "recipe_image"},
		{"image nested dir", func(r *Recipe) { r.Image = "recipes/sub/3f2504e0-4f89-11d3-9a0c-0305e82c3301.jpg" }, "recipe_image"},
		{"image not uuid", func(r *Recipe) { r.Image = "recipes/pasta.jpg" }, "recipe_image"},
		{"image absolute path", func(r *Recipe) { r.Image = "/etc/passwd" }, "recipe_image"},
		{"image url without host", func(r *Recipe) { r.Image = "https://" }, "recipe_image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := Validate(r)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			verrs, ok := err.(ValidationErrors)
			if !ok {
				t.Fatalf("expected ValidationErrors, got %T (%v)", err, err)
			}
			if _, found := verrs[tt.wantField]; !found {
				t.Fatalf("expected error on %s, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestPrepareSetsDefaultImage(t *testing.T) {
	r := Recipe{Name: "Minimal Recipe", Ingredients: "Ingredient1", CookingTime: 5}
	if err := Prepare(&r); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if r.Image != DefaultImage {
		t.Fatalf("expected default image, got %q", r.Image)
	}
	if r.Likes != 0 {
		t.Fatalf("expected likes 0, got %d", r.Likes)
	}
	if r.Difficulty() != DifficultyEasy {
		t.Fatalf("expected Easy, got %s", r.Difficulty())
	}
}

func TestInputCannotTouchReadonlyFields(t *testing.T) {
	r := Recipe{ID: 7, Name: "Old", Ingredients: "a", CookingTime: 5, Likes: 12, Comments: "kept"}
	Input{Name: "New", Ingredients: "a, b", CookingTime: 12}.ApplyTo(&r)

	if r.ID != 7 || r.Likes != 12 || r.Comments != "kept" {
		t.Fatalf("readonly fields changed: %+v", r)
	}
	if r.Name != "New" || r.CookingTime != 12 {
		t.Fatalf("editable fields not applied: %+v", r)
	}
}

func TestMarshalJSONIncludesDifficulty(t *testing.T) {
	r := Recipe{ID: 1, Name: "Pasta", Ingredients: "pasta, pesto, cheese, garlic", CookingTime: 10}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["difficulty"] != "Hard" {
		t.Fatalf("expected difficulty Hard, got %v", out["difficulty"])
	}
	if out["name"] != "Pasta" {
		t.Fatalf("expected name Pasta, got %v", out["name"])
	}
}

func TestString(t *testing.T) {
	r := Recipe{Name: "Test Recipe"}
	if r.String() != "Test Recipe" {
		t.Fatalf("got %q", r.String())
	}
}
