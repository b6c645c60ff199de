// ABOUTME: Terminal comparison chart for a rate change
// ABOUTME: Renders array-size and duration bars with lipgloss
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/audiolab/ratechange/pkg/audio/resample"
	"github.com/charmbracelet/lipgloss"
)

// DefaultBarWidth is the number of cells used by the longer bar
const DefaultBarWidth = 40

// Options controls chart rendering
type Options struct {
	BarWidth int // Cells for the longest bar; <= 0 uses DefaultBarWidth
}

func (o Options) barWidth() int {
	if o.BarWidth <= 0 {
		return DefaultBarWidth
	}
	return o.BarWidth
}

type bar struct {
	label string
	value float64
	text  string
	color lipgloss.Color
}

// ratio describes the change as a multiplier of at least 1, so a slow-down
// by 0.25 reads "(x4.0 slower)" rather than "(x0.3)"
func ratio(s resample.Summary, down string) string {
	switch {
	case s.SpedUp():
		return fmt.Sprintf("(x%.1f)", s.Factor)
	case s.Factor > 0 && s.Factor < 1:
		return fmt.Sprintf("(x%.1f %s)", 1/s.Factor, down)
	default:
		return "(x1.0)"
	}
}

// Chart writes the two-panel comparison for s to w.
// Colors are only emitted when w is a terminal that supports them.
func Chart(w io.Writer, s resample.Summary, opts Options) error {
	r := lipgloss.NewRenderer(w)

	sizes := []bar{
		{
			label: "Original array",
			value: float64(s.OriginalFrames),
			text:  FormatCount(s.OriginalFrames) + " samples",
			color: lipgloss.Color("12"),
		},
		{
			label: "Resized array " + ratio(s, "longer"),
			value: float64(s.ResultFrames),
			text:  FormatCount(s.ResultFrames) + " samples",
			color: lipgloss.Color("9"),
		},
	}

	resultLabel := "Slowed-down audio"
	switch {
	case s.SpedUp():
		resultLabel = "Sped-up audio"
	case s.Factor == 1:
		resultLabel = "Unchanged audio"
	}
	durations := []bar{
		{
			label: "Original audio",
			value: s.OriginalDuration().Seconds(),
			text:  FormatDuration(s.OriginalDuration()),
			color: lipgloss.Color("10"),
		},
		{
			label: resultLabel + " " + ratio(s, "slower"),
			value: s.ResultDuration().Seconds(),
			text:  FormatDuration(s.ResultDuration()),
			color: lipgloss.Color("214"),
		},
	}

	width := opts.barWidth()
	out := lipgloss.JoinVertical(lipgloss.Left,
		renderPanel(r, "Array size comparison", sizes, width),
		renderPanel(r, "Audio duration comparison", durations, width),
	)

	_, err := io.WriteString(w, out+"\n")
	return err
}

// Render returns the chart as a string without color
func Render(s resample.Summary, opts Options) string {
	var b strings.Builder
	_ = Chart(&b, s, opts)
	return b.String()
}

func renderPanel(r *lipgloss.Renderer, title string, bars []bar, width int) string {
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	valueStyle := r.NewStyle().Foreground(lipgloss.Color("250"))
	panelStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		MarginBottom(1)

	labelWidth := 0
	for _, b := range bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.label))
	}
	labelStyle := r.NewStyle().Width(labelWidth + 2)

	peak := 0.0
	for _, b := range bars {
		peak = math.Max(peak, b.value)
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title))
	for _, b := range bars {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render(b.label))
		sb.WriteString(r.NewStyle().Foreground(b.color).Render(barCells(b.value, peak, width)))
		sb.WriteString(" ")
		sb.WriteString(valueStyle.Render(b.text))
	}

	return panelStyle.Render(sb.String())
}

// barCells draws value scaled against peak, padded to width
func barCells(value, peak float64, width int) string {
	filled := 0
	if peak > 0 {
		filled = int(math.Round(value / peak * float64(width)))
		if filled == 0 && value > 0 {
			filled = 1
		}
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// FormatDuration renders d as "N min M sec" from one minute up, else "N sec"
func FormatDuration(d time.Duration) string {
	seconds := int(d / time.Second)
	if seconds >= 60 {
		return fmt.Sprintf("%d min %d sec", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%d sec", seconds)
}

// FormatCount renders n with comma thousands separators
func FormatCount(n int) string {
	digits := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
