package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jask/runboard/internal/runview"
	"github.com/jask/runboard/internal/tracking"
)

// renderOverview is the default tab: run facts, params, tags and the latest
// value of every metric.
func (a *App) renderOverview(plan runview.Plan) string {
	if a.run == nil {
		return ""
	}

	var sections []string
	sections = append(sections, a.renderSection("Details", a.renderRunDetails()))

	if len(a.run.Data.Params) > 0 {
		sections = append(sections, a.renderSection("Parameters", renderKVRows(paramRows(a.run), a.contentWidth()-8)))
	}
	if len(plan.Run.Tags) > 0 {
		sections = append(sections, a.renderSection("Tags", renderKVRows(tagRows(plan.Run.Tags), a.contentWidth()-8)))
	}
	if len(a.run.Data.Metrics) > 0 {
		sections = append(sections, a.renderSection("Latest Metrics", a.renderLatestMetrics()))
	}

	return strings.Join(sections, "\n")
}

func (a *App) renderRunDetails() string {
	info := a.run.Info
	rows := [][2]string{
		{"Run ID", info.RunID},
		{"Status", info.Status},
	}
	if info.StartTime > 0 {
		rows = append(rows, [2]string{"Started", time.UnixMilli(info.StartTime).UTC().Format(time.RFC3339)})
	}
	if info.EndTime > 0 {
		dur := time.Duration(info.EndTime-info.StartTime) * time.Millisecond
		rows = append(rows, [2]string{"Duration", dur.Round(time.Second).String()})
	}
	if info.ArtifactURI != "" {
		rows = append(rows, [2]string{"Artifacts", info.ArtifactURI})
	}
	return renderKVRows(rows, a.contentWidth()-8)
}

func (a *App) renderLatestMetrics() string {
	lines := make([]string, 0, len(a.run.Data.Metrics))
	for _, m := range a.run.Data.Metrics {
		key := padRight(truncate(m.Key, 40), 40)
		lines = append(lines, labelStyle.Render(key)+" "+valueStyle.Render(fmt.Sprintf("%12.6g", m.Value))+dimStyle.Render(fmt.Sprintf("   step %d", m.Step)))
	}
	return strings.Join(lines, "\n")
}

func paramRows(run *tracking.Run) [][2]string {
	rows := make([][2]string, 0, len(run.Data.Params))
	for _, p := range run.Data.Params {
		rows = append(rows, [2]string{p.Key, p.Value})
	}
	return rows
}

func tagRows(tags map[string]string) [][2]string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][2]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, [2]string{k, tags[k]})
	}
	return rows
}

func renderKVRows(rows [][2]string, width int) string {
	if width < 30 {
		width = 30
	}
	valWidth := width - 32
	if valWidth < 10 {
		valWidth = 10
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		key := padRight(truncate(row[0], 30), 30)
		lines = append(lines, labelStyle.Render(key)+" "+valueStyle.Render(truncate(row[1], valWidth)))
	}
	return strings.Join(lines, "\n")
}
