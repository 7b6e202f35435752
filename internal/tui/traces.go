package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/runboard/internal/tracking"
)

// renderTraces lists the run's traces and expands the selected one into a
// span waterfall: indentation follows the span tree, bars are offset and
// sized against the whole trace's time window.
func (a *App) renderTraces() string {
	if !a.tracesLoaded {
		return a.renderSection("Traces", statusStyle.Render("Loading traces…"))
	}
	if len(a.traces) == 0 {
		return a.renderSection("Traces", dimStyle.Render("No traces recorded for this run."))
	}

	var lines []string
	for i, tr := range a.traces {
		prefix := "  "
		if i == a.traceCursor {
			prefix = cursorStyle.Render("> ")
		}
		ts := time.UnixMilli(tr.TimestampMS).UTC().Format("15:04:05")
		status := okSpanStyle.Render(tr.Status)
		if tr.Status != "OK" {
			status = failedStyle.Render(tr.Status)
		}
		lines = append(lines, fmt.Sprintf("%s%s  %s  %6dms  %s  %s",
			prefix,
			dimStyle.Render(ts),
			padRight(truncate(tr.TraceID, 24), 24),
			tr.DurationMS,
			status,
			dimStyle.Render(fmt.Sprintf("%d spans", len(tr.Spans)))))
	}
	list := a.renderSection("Traces", strings.Join(lines, "\n"))

	selected := a.traces[a.traceCursor]
	waterfall := a.renderSection("Waterfall — "+truncate(selected.TraceID, 40), renderWaterfall(selected, a.contentWidth()-8))
	return list + "\n" + waterfall
}

func (a *App) handleTracesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down", "j":
		if a.traceCursor < len(a.traces)-1 {
			a.traceCursor++
		}
	case "up", "k":
		if a.traceCursor > 0 {
			a.traceCursor--
		}
	}
	return a, nil
}

// renderWaterfall draws the span tree in start order. Orphaned parents are
// treated as roots so a partial trace still renders.
func renderWaterfall(tr tracking.Trace, width int) string {
	if len(tr.Spans) == 0 {
		return dimStyle.Render("(no spans)")
	}

	depths := spanDepths(tr.Spans)
	start, end := traceWindow(tr.Spans)
	window := end - start
	if window <= 0 {
		window = 1
	}

	nameWidth := 28
	barRoom := width - nameWidth - 14
	if barRoom < 10 {
		barRoom = 10
	}

	lines := make([]string, 0, len(tr.Spans))
	for _, s := range tr.Spans {
		indent := strings.Repeat("  ", depths[s.SpanID])
		name := padRight(truncate(indent+s.Name, nameWidth), nameWidth)

		offset := int(float64(s.StartTimeNS-start) / float64(window) * float64(barRoom))
		barLen := int(float64(s.EndTimeNS-s.StartTimeNS) / float64(window) * float64(barRoom))
		if barLen < 1 {
			barLen = 1
		}
		if offset+barLen > barRoom {
			offset = barRoom - barLen
			if offset < 0 {
				offset = 0
			}
		}
		bar := strings.Repeat(" ", offset) + barStyle.Render(strings.Repeat("█", barLen))

		dur := time.Duration(s.EndTimeNS - s.StartTimeNS).Round(time.Microsecond)
		style := okSpanStyle
		if s.Status != "" && s.Status != "OK" {
			style = failedStyle
		}
		lines = append(lines, style.Render(name)+" "+padRight(bar, barRoom)+" "+dimStyle.Render(dur.String()))
	}
	return strings.Join(lines, "\n")
}

// spanDepths maps each span to its depth in the parent chain, walking at
// most the tree height so a parent cycle cannot hang the render.
func spanDepths(spans []tracking.Span) map[string]int {
	parents := make(map[string]string, len(spans))
	for _, s := range spans {
		parents[s.SpanID] = s.ParentSpanID
	}
	depths := make(map[string]int, len(spans))
	for _, s := range spans {
		depth := 0
		cur := s.ParentSpanID
		for cur != "" && depth < len(spans) {
			next, ok := parents[cur]
			if !ok {
				break
			}
			depth++
			cur = next
		}
		depths[s.SpanID] = depth
	}
	return depths
}

func traceWindow(spans []tracking.Span) (start, end int64) {
	start, end = spans[0].StartTimeNS, spans[0].EndTimeNS
	for _, s := range spans[1:] {
		if s.StartTimeNS < start {
			start = s.StartTimeNS
		}
		if s.EndTimeNS > end {
			end = s.EndTimeNS
		}
	}
	return start, end
}
