package web

import (
	"embed"
	"html/template"

	"recipe-catalog/internal/core/image"
	"recipe-catalog/internal/core/recipe"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap 頁面共用的樣板函式
func FuncMap(mediaPrefix string) template.FuncMap {
	return template.FuncMap{
		"split": recipe.ParseIngredients,
		"mediaURL": func(ref string) string {
			return image.URL(ref, mediaPrefix)
		},
		// 圖表由伺服器產生，直接以 data URL 嵌入
		"pngData": func(encoded string) template.URL {
			return template.URL("data:image/png;base64," + encoded)
		},
	}
}

// Templates 載入內嵌的 HTML 樣板
func Templates(mediaPrefix string) (*template.Template, error) {
	return template.New("").Funcs(FuncMap(mediaPrefix)).ParseFS(templateFS, "templates/*.html")
}
