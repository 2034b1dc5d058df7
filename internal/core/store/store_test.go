package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/search"
	"recipe-catalog/internal/infrastructure/config"
)

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	n, err := Seed(context.Background(), s)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 seeded recipes, got %d", n)
	}
	return s
}

func names(rs []recipe.Recipe) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	r := &recipe.Recipe{Name: "Omelette", Ingredients: "eggs, butter", CookingTime: 5}
	if err := s.Create(ctx, r); err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.ID != 1 {
		t.Fatalf("expected id 1, got %d", r.ID)
	}
	if r.Image != recipe.DefaultImage {
		t.Fatalf("expected default image, got %q", r.Image)
	}

	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Difficulty() != recipe.DifficultyEasy {
		t.Fatalf("expected Easy, got %s", got.Difficulty())
	}

	got.CookingTime = 30
	got.Ingredients = "eggs, butter, milk, cheese, ham"
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := s.Get(ctx, r.ID)
	if again.Difficulty() != recipe.DifficultyHard {
		t.Fatalf("expected Hard after update, got %s", again.Difficulty())
	}

	if err := s.Delete(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	s := NewMemoryStore()
	err := s.Create(context.Background(), &recipe.Recipe{Name: "  ", Ingredients: "x", CookingTime: 5})
	var verrs recipe.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := verrs["name"]; !ok {
		t.Fatalf("expected name error, got %v", verrs)
	}

	if err := s.Update(context.Background(), &recipe.Recipe{ID: 99, Name: "x", Ingredients: "y", CookingTime: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreFind(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	max := 10

	tests := []struct {
		name     string
		criteria search.Criteria
		want     []string
	}{
		{"show all", search.Criteria{Mode: search.ModeShowAll, NameTerm: "zzz"}, []string{"Pasta al Pesto", "Pizza Margherita", "Summer Salad"}},
		{"name contains", search.Criteria{Mode: search.ModeFiltered, NameTerm: "pasta"}, []string{"Pasta al Pesto"}},
		{"name wildcard", search.Criteria{Mode: search.ModeFiltered, NameTerm: "P*a*"}, []string{"Pasta al Pesto", "Pizza Margherita"}},
		{"ingredients and", search.Criteria{Mode: search.ModeFiltered, IngredientsTerm: "tomato, cheese"}, []string{"Pizza Margherita"}},
		{"time limit", search.Criteria{Mode: search.ModeFiltered, CookingTimeMax: &max}, []string{"Pasta al Pesto", "Pizza Margherita"}},
		{"difficulty", search.Criteria{Mode: search.ModeFiltered, Difficulty: "Hard"}, []string{"Pasta al Pesto", "Summer Salad"}},
		{"no match", search.Criteria{Mode: search.ModeFiltered, NameTerm: "curry"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Find(ctx, search.BuildFilter(tt.criteria))
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if strings.Join(names(got), "|") != strings.Join(tt.want, "|") {
				t.Fatalf("got %v, want %v", names(got), tt.want)
			}
		})
	}
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	s := seededStore(t)
	n, err := Seed(context.Background(), s)
	if err != nil || n != 0 {
		t.Fatalf("expected no-op seed, got n=%d err=%v", n, err)
	}
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.CreateUser(ctx, &User{Username: "Chef", PasswordHash: "h"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := s.CreateUser(ctx, &User{Username: "chef", PasswordHash: "h"}); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}

	u, err := s.FindUser(ctx, "CHEF")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if u.Username != "Chef" || u.ID != 1 {
		t.Fatalf("unexpected user %+v", u)
	}

	if _, err := s.FindUser(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "sqlite"})
	if !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}

	s, err := Open(context.Background(), config.StoreConfig{})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", s)
	}
}

func TestBuildSQLClauses(t *testing.T) {
	max := 20
	f := search.BuildFilter(search.Criteria{
		Mode:            search.ModeFiltered,
		NameTerm:        "50%_off",
		IngredientsTerm: "tom*",
		CookingTimeMax:  &max,
		Difficulty:      "Easy",
	})

	clauses, err := buildSQLClauses(f)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(clauses) != 4 {
		t.Fatalf("expected 4 clauses, got %d", len(clauses))
	}

	if clauses[0].Query != `name ILIKE ? ESCAPE '\'` {
		t.Errorf("unexpected name clause %q", clauses[0].Query)
	}
	if clauses[0].Args[0] != `%50\%\_off%` {
		t.Errorf("unexpected escaped arg %v", clauses[0].Args[0])
	}
	if clauses[1].Query != "ingredients ~* ?" {
		t.Errorf("unexpected ingredients clause %q", clauses[1].Query)
	}
	if clauses[2].Query != "cooking_time <= ?" || clauses[2].Args[0] != 20 {
		t.Errorf("unexpected time clause %+v", clauses[2])
	}
	if clauses[3].Query != "difficulty = ?" || clauses[3].Args[0] != "Easy" {
		t.Errorf("unexpected difficulty clause %+v", clauses[3])
	}
}

func TestBuildSQLClausesShowAll(t *testing.T) {
	clauses, err := buildSQLClauses(search.BuildFilter(search.Criteria{Mode: search.ModeShowAll, NameTerm: "x"}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(clauses) != 0 {
		t.Fatalf("expected no clauses, got %v", clauses)
	}
}

func TestBuildSQLClausesUnsupported(t *testing.T) {
	_, err := buildSQLClauses(search.All().And(search.Predicate{Field: "likes", Op: search.OpEq}))
	if err == nil {
		t.Fatal("expected error for unsupported field")
	}
}

func TestBuildBSONFilter(t *testing.T) {
	max := 15
	f := search.BuildFilter(search.Criteria{
		Mode:           search.ModeFiltered,
		NameTerm:       "a.b",
		CookingTimeMax: &max,
	})

	got, err := buildBSONFilter(f)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	conds, ok := got["$and"].([]bson.M)
	if !ok || len(conds) != 2 {
		t.Fatalf("unexpected filter %v", got)
	}

	name := conds[0]["name"].(bson.M)
	if name["$regex"] != `a\.b` || name["$options"] != "i" {
		t.Errorf("unexpected name condition %v", name)
	}
	ct := conds[1]["cooking_time"].(bson.M)
	if ct["$lte"] != 15 {
		t.Errorf("unexpected cooking_time condition %v", ct)
	}

	empty, err := buildBSONFilter(search.All())
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty filter, got %v %v", empty, err)
	}
}
