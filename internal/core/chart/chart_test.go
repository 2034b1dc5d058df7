package chart

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"testing"

	"recipe-catalog/internal/core/search"
)

func sampleRows() []search.Row {
	return []search.Row{
		{ID: 1, Name: "Pasta al Pesto", CookingTime: 10, Difficulty: "Hard", IngredientCount: 4},
		{ID: 2, Name: "Pizza Margherita", CookingTime: 5, Difficulty: "Medium", IngredientCount: 4},
		{ID: 3, Name: "Summer Salad", CookingTime: 15, Difficulty: "Hard", IngredientCount: 4},
	}
}

func decodePNG(t *testing.T, encoded string) {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("invalid png: %v", err)
	}
}

func TestRenderKinds(t *testing.T) {
	for _, kind := range []Kind{KindBar, KindPie, KindLine} {
		t.Run(string(kind), func(t *testing.T) {
			img, err := Render(kind, sampleRows(), "brand")
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			decodePNG(t, img)
		})
	}
}

func TestRenderUnknownKindIsNotAnError(t *testing.T) {
	img, err := Render(Kind("scatter3d"), sampleRows(), "default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decodePNG(t, img)
}

func TestRenderEmptyRows(t *testing.T) {
	_, err := Render(KindBar, nil, "default")
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}

	_, err = RenderAll([]search.Row{}, "default")
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows from RenderAll, got %v", err)
	}
	var rerr *RenderError
	if !errors.As(err, &rerr) || rerr.Kind != KindBar {
		t.Fatalf("expected RenderError for bar chart, got %v", err)
	}
}

func TestRenderAll(t *testing.T) {
	charts, err := RenderAll(sampleRows(), "brand")
	if err != nil {
		t.Fatalf("render all: %v", err)
	}
	for _, kind := range Kinds {
		if charts[kind] == "" {
			t.Fatalf("missing %s chart", kind)
		}
	}
}

func TestManyBarsCycleColours(t *testing.T) {
	rows := make([]search.Row, 0, 12)
	for i := 0; i < 12; i++ {
		rows = append(rows, search.Row{ID: int64(i), Name: "r", CookingTime: i + 1, Difficulty: "Easy", IngredientCount: 1})
	}
	if _, err := Render(KindBar, rows, "brand"); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestGetSchemeFallback(t *testing.T) {
	got := GetScheme("no-such-scheme")
	if got.LineColor != Schemes[DefaultScheme].LineColor {
		t.Fatalf("expected default scheme, got %+v", got)
	}
	if GetScheme("brand").LineColor != "#f37f20" {
		t.Fatal("brand scheme not returned")
	}
}

func TestCountDifficulties(t *testing.T) {
	rows := []search.Row{
		{Difficulty: "Easy"},
		{Difficulty: "Hard"},
		{Difficulty: "Hard"},
		{Difficulty: "Medium"},
	}
	got := CountDifficulties(rows)
	want := []LabelCount{{"Hard", 2}, {"Easy", 1}, {"Medium", 1}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
