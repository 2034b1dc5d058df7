package chart

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"recipe-catalog/internal/core/search"
)

// LabelCount 難度出現次數
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CountDifficulties 統計難度出現次數，依次數遞減、同次數依首次出現排序
func CountDifficulties(rows []search.Row) []LabelCount {
	index := make(map[string]int)
	counts := make([]LabelCount, 0, 4)
	for _, row := range rows {
		if i, ok := index[row.Difficulty]; ok {
			counts[i].Count++
			continue
		}
		index[row.Difficulty] = len(counts)
		counts = append(counts, LabelCount{Label: row.Difficulty, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

type pieSlice struct {
	label string
	value float64
	color color.Color
}

// pieChart 圓餅圖，自 0 度起逆時針繪製
type pieChart struct {
	slices []pieSlice
}

// Plot 實作 plot.Plotter
func (pc *pieChart) Plot(c draw.Canvas, plt *plot.Plot) {
	var total float64
	for _, s := range pc.slices {
		total += s.value
	}
	if total <= 0 {
		return
	}

	center := vg.Point{
		X: (c.Min.X + c.Max.X) / 2,
		Y: (c.Min.Y + c.Max.Y) / 2,
	}
	radius := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < radius {
		radius = h
	}
	radius = radius / 2 * 0.8

	labelStyle := plt.Title.TextStyle
	labelStyle.XAlign = text.XCenter
	labelStyle.YAlign = text.YCenter

	start := 0.0
	for _, s := range pc.slices {
		sweep := 2 * math.Pi * s.value / total

		var path vg.Path
		path.Move(center)
		path.Line(vg.Point{
			X: center.X + radius*vg.Length(math.Cos(start)),
			Y: center.Y + radius*vg.Length(math.Sin(start)),
		})
		path.Arc(center, radius, start, sweep)
		path.Close()

		c.SetColor(s.color)
		c.Fill(path)

		mid := start + sweep/2
		pct := vg.Point{
			X: center.X + radius*0.6*vg.Length(math.Cos(mid)),
			Y: center.Y + radius*0.6*vg.Length(math.Sin(mid)),
		}
		c.FillText(labelStyle, pct, fmt.Sprintf("%.1f%%", 100*s.value/total))

		outer := vg.Point{
			X: center.X + radius*1.12*vg.Length(math.Cos(mid)),
			Y: center.Y + radius*1.12*vg.Length(math.Sin(mid)),
		}
		c.FillText(labelStyle, outer, s.label)

		start += sweep
	}
}
