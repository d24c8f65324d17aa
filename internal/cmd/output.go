package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"

	"github.com/kpumuk/lazychart/internal/chart"
	"github.com/kpumuk/lazychart/internal/preview"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
	tableTimeLayout    = "2006-01-02 15:04"
)

// printer writes chart results in the configured format.
type printer struct {
	w      io.Writer
	format outputFormat
	color  bool
	width  int
}

func newPrinter(w io.Writer, format outputFormat, mode colorMode) printer {
	p := printer{w: w, format: format, width: preview.DefaultWidth}
	f, isFile := w.(*os.File)
	tty := isFile && term.IsTerminal(f.Fd())
	switch mode {
	case colorAlways:
		p.color = true
	case colorAuto:
		p.color = tty
	}
	if tty {
		if width, _, err := term.GetSize(f.Fd()); err == nil && width > 0 {
			p.width = width
		}
	}
	return p
}

func (p printer) printStats(stats *chart.Stats, loc *time.Location) error {
	switch p.format {
	case outputPreview:
		return p.printPreview(stats.Chart)
	case outputTable:
		rows := make([][]string, len(stats.Dates))
		for i, date := range stats.Dates {
			rows[i] = []string{
				date.In(loc).Format(tableTimeLayout),
				formatValue(stats.Adds[i]),
				formatValue(stats.Subs[i]),
				formatValue(stats.Totals[i]),
			}
		}
		return p.printTable([]string{"Date", "Adds", "Subs", "Total"}, rows)
	default:
		return p.printJSON(stats.Chart)
	}
}

func (p printer) printMulti(stats *chart.MultiStats, keys []string, loc *time.Location) error {
	switch p.format {
	case outputPreview:
		return p.printPreview(stats.Chart)
	case outputTable:
		headers := append([]string{"Date"}, keys...)
		rows := make([][]string, len(stats.Dates))
		for i, date := range stats.Dates {
			row := make([]string, 0, len(headers))
			row = append(row, date.In(loc).Format(tableTimeLayout))
			for _, series := range stats.Series {
				row = append(row, formatValue(series.Data[i]))
			}
			rows[i] = row
		}
		return p.printTable(headers, rows)
	default:
		return p.printJSON(stats.Chart)
	}
}

func (p printer) printJSON(desc chart.Descriptor) error {
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	data = append(data, '\n')
	if p.color {
		if err := quick.Highlight(p.w, string(data), "json", highlightFormatter, highlightStyle); err != nil {
			return fmt.Errorf("highlight chart: %w", err)
		}
		return nil
	}
	_, err = p.w.Write(data)
	return err
}

func (p printer) printPreview(desc chart.Descriptor) error {
	out := preview.Render(&desc, preview.Options{Width: p.width})
	if !p.color {
		out = ansi.Strip(out)
	}
	_, err := io.WriteString(p.w, out)
	return err
}

func (p printer) printTable(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	if p.color {
		header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		cell := lipgloss.NewStyle().Padding(0, 1)
		t = t.StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	}
	out := t.String()
	if !p.color {
		out = ansi.Strip(out)
	}
	_, err := io.WriteString(p.w, out+"\n")
	return err
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
