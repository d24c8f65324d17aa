// Package preview renders a chart descriptor as terminal sparklines.
package preview

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/compat"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	lipglossv1 "github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kpumuk/lazychart/internal/chart"
	"github.com/kpumuk/lazychart/internal/mathutil"
)

const (
	// DefaultWidth is the column budget used when none is given.
	DefaultWidth = 80
	// DefaultRows is the sparkline height of each series.
	DefaultRows = 4

	fullScale = 100
)

// Styles holds styles for preview output.
type Styles struct {
	Title  lipgloss.Style
	Axis   lipgloss.Style
	Muted  lipgloss.Style
	Series []lipglossv1.Style
}

// DefaultStyles returns default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(compat.AdaptiveColor{
			Light: lipgloss.Color("#B2003C"),
			Dark:  lipgloss.Color("#F73D68"),
		}),
		Axis: lipgloss.NewStyle().Foreground(compat.AdaptiveColor{
			Light: lipgloss.Color("#6B7280"),
			Dark:  lipgloss.Color("#9CA3AF"),
		}),
		Muted: lipgloss.NewStyle().Foreground(compat.AdaptiveColor{
			Light: lipgloss.Color("#6B7280"),
			Dark:  lipgloss.Color("#9CA3AF"),
		}),
		Series: []lipglossv1.Style{
			lipglossv1.NewStyle().Foreground(lipglossv1.Color("204")),
			lipglossv1.NewStyle().Foreground(lipglossv1.Color("33")),
			lipglossv1.NewStyle().Foreground(lipglossv1.Color("78")),
			lipglossv1.NewStyle().Foreground(lipglossv1.Color("214")),
		},
	}
}

// Options configures Render.
type Options struct {
	Width  int
	Rows   int
	Styles Styles
}

// Render draws every data series of desc as a sparkline scaled to the
// buffered high watermark, followed by the date label line.
func Render(desc *chart.Descriptor, opts Options) string {
	if desc == nil {
		return ""
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	rows := opts.Rows
	if rows <= 0 {
		rows = DefaultRows
	}
	styles := opts.Styles
	if len(styles.Series) == 0 {
		styles = DefaultStyles()
	}

	yLabels := BuildValueYAxisLabels(desc.HighWater, rows)
	labelWidth := MaxLabelWidth(yLabels)
	plotWidth := max(width-labelWidth-1, 1)

	var b strings.Builder
	if desc.Title != "" {
		b.WriteString(styles.Title.Render(ansi.Truncate(desc.Title, width, "…")))
		b.WriteByte('\n')
	}

	columns := 0
	for i, data := range desc.Data {
		values := RemapSeries(clampScale(data), plotWidth)
		if len(values) == 0 {
			continue
		}
		columns = max(columns, len(values))

		sl := sparkline.New(len(values), rows,
			sparkline.WithMaxValue(fullScale),
			sparkline.WithStyle(styles.Series[i%len(styles.Series)]),
		)
		sl.PushAll(values)
		sl.Draw()

		lines := strings.Split(sl.View(), "\n")
		for _, line := range ApplyYAxisLabels(lines, yLabels, labelWidth, styles.Axis) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	if columns > 0 {
		b.WriteString(strings.Repeat(" ", labelWidth+1))
		b.WriteString(styles.Muted.Render(strings.TrimRight(BuildBucketLabelLine(plotWidth, columns, desc.Labels), " ")))
		b.WriteByte('\n')
	}
	return b.String()
}

// clampScale keeps normalized values inside the sparkline range.
func clampScale(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = mathutil.Clamp(v, 0, fullScale)
	}
	return out
}
