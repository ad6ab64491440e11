package figure

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	defaultWidth  = 1000
	defaultHeight = 800
)

// pointStyle renders points only, no connecting line
func pointStyle(hex string) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    drawing.ColorFromHex(strings.TrimPrefix(hex, "#")),
	}
}

// RenderPNG draws fig as a static scatter chart. Figures without points
// render as a placeholder image carrying the title, never as an error.
func RenderPNG(w io.Writer, fig Figure) error {
	width, height := fig.Layout.Width, fig.Layout.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	var series []chart.Series
	for i, t := range fig.Data {
		if len(t.X) == 0 || len(t.X) != len(t.Y) {
			continue
		}
		col := t.Marker.Color
		if col == "" {
			col = Color(i)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    t.Name,
			XValues: t.X,
			YValues: t.Y,
			Style:   pointStyle(col),
		})
	}

	if len(series) == 0 {
		return png.Encode(w, placeholder(width, height, fig.Layout.Title.Text+" (no data)"))
	}

	xr, yr := fig.bounds()
	ch := chart.Chart{
		Title:      fig.Layout.Title.Text,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: fig.Layout.XAxis.Title.Text, Range: xr},
		YAxis:      chart.YAxis{Name: fig.Layout.YAxis.Title.Text, Range: yr},
		Series:     series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// bounds returns padded axis ranges covering every point; go-chart rejects
// zero-width ranges, which a single point would otherwise produce.
func (f Figure) bounds() (*chart.ContinuousRange, *chart.ContinuousRange) {
	if xr, yr := f.Layout.XAxis.Range, f.Layout.YAxis.Range; len(xr) == 2 && len(yr) == 2 {
		return &chart.ContinuousRange{Min: xr[0], Max: xr[1]}, &chart.ContinuousRange{Min: yr[0], Max: yr[1]}
	}

	first := true
	var minX, maxX, minY, maxY float64
	for _, t := range f.Data {
		for i := range t.X {
			x, y := t.X[i], t.Y[i]
			if first {
				minX, maxX, minY, maxY = x, x, y, y
				first = false
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	return padRange(minX, maxX), padRange(minY, maxY)
}

func padRange(lo, hi float64) *chart.ContinuousRange {
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func placeholder(w, h int, text string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 250, G: 250, B: 250, A: 255}), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 60, G: 60, B: 60, A: 255}),
		Face: face,
	}
	tw := dr.MeasureString(text).Ceil()
	x := (w - tw) / 2
	if x < 8 {
		x = 8
	}
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(h / 2)}
	dr.DrawString(text)
	return img
}
