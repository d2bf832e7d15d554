package leaderboardservice

import (
	"bytes"
	"math"

	resultstypes "github.com/Black-And-White-Club/wallchart/app/modules/results/domain/types"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colours used by RenderLeaderboardChart.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Leader     drawing.Color
	TextColor  drawing.Color
}

// DefaultPalette is a dark pitch-green palette with a gold leader bar.
var DefaultPalette = ChartPalette{
	Background: drawing.Color{R: 0x12, G: 0x2b, B: 0x1c, A: 0xff},
	Bar:        drawing.Color{R: 0x3f, G: 0x9b, B: 0x5f, A: 0xff},
	Leader:     drawing.Color{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff},
	TextColor:  drawing.Color{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff},
}

// RenderLeaderboardChart produces a PNG bar chart of player points in the
// order given. Players level with the top score get the leader colour.
func RenderLeaderboardChart(standings []resultstypes.Standing, palette ChartPalette) ([]byte, error) {
	if len(standings) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	top := 0
	for _, s := range standings {
		top = max(top, s.Points)
	}

	bars := make([]chart.Value, len(standings))
	for i, s := range standings {
		fill := palette.Bar
		if s.Points == top {
			fill = palette.Leader
		}
		bars[i] = chart.Value{
			Label: s.Player,
			Value: float64(s.Points),
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
			},
		}
	}

	graph := chart.BarChart{
		Title: "Leaderboard",
		TitleStyle: chart.Style{
			FontColor: palette.TextColor,
		},
		Width:    max(400, 80*len(bars)),
		Height:   400,
		BarWidth: 40,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Style{
			FontColor: palette.TextColor,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			// A zero-height range cannot be drawn, so an all-zero board
			// still gets an axis up to one.
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(float64(top), 1)},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No players found"
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
