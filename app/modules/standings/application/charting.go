package standingsservice

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colours used by GenerateStandingsChart.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Leader     drawing.Color
	Text       drawing.Color
}

// DefaultPalette is a dark background with green bars and a gold leader.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("1b1f1d"),
	Bar:        drawing.ColorFromHex("2f6f4f"),
	Leader:     drawing.ColorFromHex("c9a227"),
	Text:       drawing.ColorFromHex("e8e6e3"),
}

// GenerateStandingsChart produces a PNG bar chart of points per team in table order.
func GenerateStandingsChart(view StandingsView, palette ChartPalette) ([]byte, error) {
	if len(view.Standings) == 0 {
		return nil, ErrNoChartData
	}

	maxPoints := 0.0
	bars := make([]chart.Value, 0, len(view.Standings))
	for _, st := range view.Standings {
		points := float64(st.Points)
		maxPoints = max(maxPoints, points)

		fill := palette.Bar
		if st.Position == 1 {
			fill = palette.Leader
		}
		bars = append(bars, chart.Value{
			Label: st.Name,
			Value: points,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
				StrokeWidth: 1,
			},
		})
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("%s standings", view.Division),
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      max(400, 90*len(bars)),
		Height:     400,
		BarWidth:   50,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis:  chart.Style{FontColor: palette.Text},
		YAxis: chart.YAxis{
			Name:  "Points",
			Style: chart.Style{FontColor: palette.Text},
			Range: &chart.ContinuousRange{Min: 0, Max: max(maxPoints, 1)},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render standings chart: %w", err)
	}
	return buffer.Bytes(), nil
}
