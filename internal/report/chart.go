package report

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pavelanni/wellness/internal/assessment"
)

// BandChart builds a bar chart of assessment counts per band, least severe
// first. labels maps each band to its display name; missing entries fall back
// to the band value.
func BandChart(title string, dist map[assessment.Band]int, labels map[assessment.Band]string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	x := make([]string, 0, len(assessment.Bands))
	items := make([]opts.BarData, 0, len(assessment.Bands))
	for _, b := range assessment.Bands {
		name := labels[b]
		if name == "" {
			name = string(b)
		}
		x = append(x, name)
		items = append(items, opts.BarData{Value: dist[b]})
	}
	bar.SetXAxis(x).AddSeries(title, items)
	return bar
}

// RenderBandChart writes the chart as a self-contained HTML page.
func RenderBandChart(w io.Writer, title string, dist map[assessment.Band]int, labels map[assessment.Band]string) error {
	return BandChart(title, dist, labels).Render(w)
}
