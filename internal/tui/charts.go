package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/runboard/internal/runview"
	"github.com/jask/runboard/internal/tracking"
)

// chartRenderer draws one metric series. The two implementations are
// interchangeable: same inputs, same box, different drawing style. Which one
// runs is purely the unified-charts flag's decision.
type chartRenderer interface {
	Render(key string, points []tracking.Metric, width, height int) string
}

func rendererFor(variant runview.ChartVariant) chartRenderer {
	if variant == runview.ChartUnified {
		return unifiedRenderer{}
	}
	return legacyRenderer{}
}

// ---------------------------------------------------------------------------
// Legacy renderer — labelled hash bars, one row per sampled point
// ---------------------------------------------------------------------------

type legacyRenderer struct{}

func (legacyRenderer) Render(key string, points []tracking.Metric, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(points) == 0 {
		return "(no data)"
	}

	sampled := samplePoints(points, height-1)
	minV, maxV := seriesRange(points)
	span := maxV - minV
	if span <= 0 {
		span = 1
	}

	barRoom := width - 24
	if barRoom < 8 {
		barRoom = 8
	}
	lines := make([]string, 0, len(sampled)+1)
	for _, p := range sampled {
		w := int((p.Value - minV) / span * float64(barRoom))
		if w < 1 {
			w = 1
		}
		label := fmt.Sprintf("%-8d %10.4g ", p.Step, p.Value)
		lines = append(lines, dimStyle.Render(label)+barStyle.Render(strings.Repeat("#", w)))
	}
	lines = append(lines, scrollStyle.Render(fmt.Sprintf("── %d points, min %.4g max %.4g ──", len(points), minV, maxV)))
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Unified renderer — compact sparkline over the full series
// ---------------------------------------------------------------------------

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

type unifiedRenderer struct{}

func (unifiedRenderer) Render(key string, points []tracking.Metric, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(points) == 0 {
		return "(no data)"
	}

	cells := width - 4
	if cells < 10 {
		cells = 10
	}
	sampled := samplePoints(points, cells)
	minV, maxV := seriesRange(points)
	span := maxV - minV

	var spark strings.Builder
	for _, p := range sampled {
		level := 0
		if span > 0 {
			level = int((p.Value - minV) / span * float64(len(sparkLevels)-1))
		}
		spark.WriteRune(sparkLevels[level])
	}

	last := points[len(points)-1]
	summary := fmt.Sprintf("last %.6g @ step %d   min %.4g   max %.4g   %d points",
		last.Value, last.Step, minV, maxV, len(points))
	return sparkStyle.Render(spark.String()) + "\n" + dimStyle.Render(summary)
}

// samplePoints reduces a series to at most n evenly-spaced points, always
// keeping the final one.
func samplePoints(points []tracking.Metric, n int) []tracking.Metric {
	if n < 1 {
		n = 1
	}
	if len(points) <= n {
		return points
	}
	out := make([]tracking.Metric, 0, n)
	step := float64(len(points)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, points[int(float64(i)*step)])
	}
	out[n-1] = points[len(points)-1]
	return out
}

func seriesRange(points []tracking.Metric) (minV, maxV float64) {
	minV, maxV = points[0].Value, points[0].Value
	for _, p := range points[1:] {
		if p.Value < minV {
			minV = p.Value
		}
		if p.Value > maxV {
			maxV = p.Value
		}
	}
	return minV, maxV
}

// ---------------------------------------------------------------------------
// Charts tab
// ---------------------------------------------------------------------------

func (a *App) renderCharts(plan runview.Plan) string {
	if len(plan.Keys) == 0 {
		if a.filterQuery != "" {
			return a.renderSection("Metrics", dimStyle.Render(fmt.Sprintf("No metric matches %q. Press / to change the filter.", a.filterQuery)))
		}
		return a.renderSection("Metrics", dimStyle.Render("No metrics logged for this run."))
	}

	renderer := rendererFor(plan.Variant)
	chartHeight := 6
	if plan.Variant == runview.ChartUnified {
		chartHeight = 2
	}

	var sections []string
	if a.filterActive {
		sections = append(sections, a.renderSection("Filter", a.filterInput.View()))
	} else if a.filterQuery != "" {
		sections = append(sections, a.renderSection("Filter", dimStyle.Render(fmt.Sprintf("%q — / to edit, esc to clear", a.filterQuery))))
	}

	// render clamps into a local; the stored scroll is only ever moved by
	// key handlers
	keys := plan.Keys
	scroll := a.chartScroll
	if scroll >= len(keys) {
		scroll = len(keys) - 1
	}
	if scroll < 0 {
		scroll = 0
	}
	visible := a.visibleChartCount(chartHeight)
	end := scroll + visible
	if end > len(keys) {
		end = len(keys)
	}

	for _, key := range keys[scroll:end] {
		body := a.chartBody(renderer, key, chartHeight)
		sections = append(sections, a.renderSection(key, body))
	}
	if len(keys) > visible {
		sections = append(sections, scrollStyle.Render(fmt.Sprintf("  charts %d-%d of %d — j/k to scroll", scroll+1, end, len(keys))))
	}
	return strings.Join(sections, "\n")
}

func (a *App) chartBody(renderer chartRenderer, key string, chartHeight int) string {
	if a.historyFailed[key] {
		return dimStyle.Render("history unavailable")
	}
	points, ok := a.histories[key]
	if !ok {
		if a.historyPending[key] {
			return statusStyle.Render("loading…")
		}
		// no fetch in flight for this key; the series cap held it back
		return dimStyle.Render("not loaded (series cap reached)")
	}
	return renderer.Render(key, points, a.contentWidth()-8, chartHeight)
}

func (a *App) visibleChartCount(chartHeight int) int {
	perChart := chartHeight + sectionBoxStyle.GetVerticalFrameSize() + 2
	n := a.bodyHeight() / perChart
	if n < 1 {
		n = 1
	}
	return n
}

func (a *App) handleChartsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down", "j":
		if keys := a.currentPlan().Keys; a.chartScroll < len(keys)-1 {
			a.chartScroll++
		}
		return a, a.tabDataCmd()
	case "up", "k":
		if a.chartScroll > 0 {
			a.chartScroll--
		}
		return a, a.tabDataCmd()
	case "esc":
		if a.filterQuery != "" {
			a.filterQuery = ""
			return a, a.tabDataCmd()
		}
	}
	return a, nil
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.filterActive = false
		a.filterQuery = a.filterInput.Value()
		a.filterInput.Blur()
		a.chartScroll = 0
		return a, a.tabDataCmd()
	case "esc":
		a.filterActive = false
		a.filterInput.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.filterInput, cmd = a.filterInput.Update(msg)
	return a, cmd
}
