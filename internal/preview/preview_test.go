package preview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/kpumuk/lazychart/internal/chart"
)

func TestRender(t *testing.T) {
	t.Parallel()

	desc := &chart.Descriptor{
		Title:     "Orders",
		HighWater: 30,
		Labels:    []string{"1 Jan", "2 Jan", "3 Jan"},
		Data:      [][]float64{{16.67, 33.33, 0.00001}},
	}

	out := ansi.Strip(Render(desc, Options{Width: 40, Rows: 3}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// title, three sparkline rows, label line
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out)
	}
	if lines[0] != "Orders" {
		t.Errorf("title = %q, want %q", lines[0], "Orders")
	}
	if !strings.HasPrefix(lines[1], "30 ") {
		t.Errorf("top row %q should carry the high watermark label", lines[1])
	}
	if !strings.HasPrefix(lines[3], " 0 ") {
		t.Errorf("bottom row %q should carry the zero label", lines[3])
	}
	if !strings.Contains(lines[4], "1 Jan") {
		t.Errorf("label line %q should contain the first date", lines[4])
	}
}

func TestRender_MultipleSeries(t *testing.T) {
	t.Parallel()

	desc := &chart.Descriptor{
		HighWater: 40,
		Labels:    []string{"0:00", "1:00"},
		Data:      [][]float64{{50, 100}, {25, 0.00001}},
	}

	out := ansi.Strip(Render(desc, Options{Rows: 2}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out)
	}
}

func TestRender_Nil(t *testing.T) {
	t.Parallel()

	if got := Render(nil, Options{}); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}

func TestClampScale(t *testing.T) {
	t.Parallel()

	got := clampScale([]float64{-5, 50, 150})
	want := []float64{0, 50, 100}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("clampScale[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
