package chart

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"recipe-catalog/internal/core/search"
)

// Kind 圖表類型
type Kind string

const (
	KindBar  Kind = "bar"  // 各食譜烹調時間
	KindPie  Kind = "pie"  // 難度分布
	KindLine Kind = "line" // 烹調時間對食材數量
)

// Kinds 搜尋頁面產生的圖表
var Kinds = []Kind{KindBar, KindPie, KindLine}

// 圖片尺寸
const (
	figureWidth  = 8 * vg.Inch
	figureHeight = 5 * vg.Inch
)

// ErrNoRows 沒有資料列可繪製（缺少 name、cooking_time、difficulty、ingredient_count 欄位）
var ErrNoRows = errors.New("chart: no rows to plot")

// RenderError 某一類圖表繪製失敗
type RenderError struct {
	Kind Kind
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("chart %s: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Render 繪製單一圖表並回傳 base64 PNG
// 未知圖表類型不視為錯誤，回傳空白畫布
func Render(kind Kind, rows []search.Row, schemeName string) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}

	scheme := GetScheme(schemeName)
	p := plot.New()

	var err error
	switch kind {
	case KindBar:
		err = drawBar(p, rows, scheme)
	case KindPie:
		drawPie(p, rows, scheme)
	case KindLine:
		err = drawLine(p, rows, scheme)
	}
	if err != nil {
		return "", fmt.Errorf("failed to draw %s chart: %w", kind, err)
	}

	return encodePNG(p)
}

// RenderAll 一次產生長條、圓餅與折線圖，任一失敗回傳 *RenderError
func RenderAll(rows []search.Row, schemeName string) (map[Kind]string, error) {
	charts := make(map[Kind]string, len(Kinds))
	for _, kind := range Kinds {
		img, err := Render(kind, rows, schemeName)
		if err != nil {
			return nil, &RenderError{Kind: kind, Err: err}
		}
		charts[kind] = img
	}
	return charts, nil
}

func drawBar(p *plot.Plot, rows []search.Row, scheme Scheme) error {
	p.Title.Text = "Recipe Cooking Times"
	p.X.Label.Text = "Recipe Name"
	p.Y.Label.Text = "Cooking Time (minutes)"

	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Name

		bar, err := plotter.NewBarChart(plotter.Values{float64(row.CookingTime)}, vg.Points(30))
		if err != nil {
			return err
		}
		bar.XMin = float64(i)
		bar.Color = scheme.barColor(i)
		bar.LineStyle.Width = 0
		p.Add(bar)
	}

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	return nil
}

func drawPie(p *plot.Plot, rows []search.Row, scheme Scheme) {
	p.Title.Text = "Recipe Difficulty Distribution"
	p.HideAxes()

	counts := CountDifficulties(rows)
	slices := make([]pieSlice, 0, len(counts))
	for _, c := range counts {
		slices = append(slices, pieSlice{
			label: c.Label,
			value: float64(c.Count),
			color: scheme.sliceColor(c.Label),
		})
	}
	p.Add(&pieChart{slices: slices})
}

func drawLine(p *plot.Plot, rows []search.Row, scheme Scheme) error {
	p.Title.Text = "Cooking Time vs Number of Ingredients"
	p.X.Label.Text = "Number of Ingredients"
	p.Y.Label.Text = "Cooking Time (minutes)"

	pts := make(plotter.XYs, len(rows))
	for i, row := range rows {
		pts[i].X = float64(row.IngredientCount)
		pts[i].Y = float64(row.CookingTime)
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Color = parseColor(scheme.LineColor)
	line.LineStyle.Width = vg.Points(3)
	points.GlyphStyle.Color = parseColor(scheme.MarkerColor)
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Radius = vg.Points(4)

	p.Add(line, points)
	return nil
}

func encodePNG(p *plot.Plot) (string, error) {
	w, err := p.WriterTo(figureWidth, figureHeight, "png")
	if err != nil {
		return "", fmt.Errorf("failed to create png writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
