package chart

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultScheme 未知配色時使用的配色名稱
const DefaultScheme = "default"

// fallbackSliceColor 配色中沒有對應難度時的圓餅顏色
const fallbackSliceColor = "#CCCCCC"

// Scheme 圖表配色
type Scheme struct {
	BarColors   []string          `json:"bar_colors"`
	PieColors   map[string]string `json:"pie_colors"`
	LineColor   string            `json:"line_color"`
	MarkerColor string            `json:"marker_color"`
}

// Schemes 預設配色表
var Schemes = map[string]Scheme{
	"default": {
		BarColors:   []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD", "#98D8C8"},
		PieColors:   map[string]string{"Easy": "#90EE90", "Medium": "#FFD700", "Intermediate": "#FF8C00", "Hard": "#FF4500"},
		LineColor:   "#2E86AB",
		MarkerColor: "#A23B72",
	},
	"pastel": {
		BarColors:   []string{"#FFB3BA", "#FFDFBA", "#FFFFBA", "#BAFFC9", "#BAE1FF", "#E1BAFF", "#FFBAE1"},
		PieColors:   map[string]string{"Easy": "#B8E6B8", "Medium": "#FFE4B5", "Intermediate": "#FFB5B5", "Hard": "#D4A5FF"},
		LineColor:   "#87CEEB",
		MarkerColor: "#DDA0DD",
	},
	"brand": {
		BarColors:   []string{"#f37f20", "#6fc3aa", "#a9c57c", "#c0a659", "#d7b25b"},
		PieColors:   map[string]string{"Easy": "#c0a659", "Medium": "#a9c57c", "Intermediate": "#6fc3aa", "Hard": "#f37f20"},
		LineColor:   "#f37f20",
		MarkerColor: "#6fc3aa",
	},
	"monochrome": {
		BarColors:   []string{"#2C3E50", "#34495E", "#7F8C8D", "#95A5A6", "#BDC3C7", "#D5DBDB", "#ECF0F1"},
		PieColors:   map[string]string{"Easy": "#27AE60", "Medium": "#F39C12", "Intermediate": "#E67E22", "Hard": "#E74C3C"},
		LineColor:   "#2C3E50",
		MarkerColor: "#E74C3C",
	},
}

// GetScheme 取得配色，未知名稱回傳預設配色
func GetScheme(name string) Scheme {
	if s, ok := Schemes[name]; ok {
		return s
	}
	return Schemes[DefaultScheme]
}

// SchemeExists 是否為已知配色
func SchemeExists(name string) bool {
	_, ok := Schemes[name]
	return ok
}

// barColor 依序循環取用長條顏色
func (s Scheme) barColor(i int) color.Color {
	if len(s.BarColors) == 0 {
		return parseColor(fallbackSliceColor)
	}
	return parseColor(s.BarColors[i%len(s.BarColors)])
}

func (s Scheme) sliceColor(label string) color.Color {
	if hex, ok := s.PieColors[label]; ok {
		return parseColor(hex)
	}
	return parseColor(fallbackSliceColor)
}

// parseColor 解析 #RRGGBB，格式錯誤時回傳灰色
func parseColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Gray{Y: 0xCC}
	}
	return c
}
