package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/runboard/internal/runview"
)

var tabTitles = []string{"Overview", "Model Metrics", "System Metrics", "Artifacts", "Traces"}

// View derives the whole frame from current state. The display mode is
// recomputed here on every render; it is never stored.
func (a *App) View() string {
	if a.quitting {
		if a.farewell != "" {
			return a.farewell + "\n"
		}
		return ""
	}

	switch a.mode() {
	case runview.InitialLoading:
		return a.renderSkeleton()
	case runview.RunNotFound:
		return a.renderRunNotFound()
	case runview.ExperimentNotFound:
		return a.renderNotFound()
	case runview.GenericError:
		// deliberately blank; the failure detail went to the log when the
		// fetch completed
		return ""
	}
	return a.renderReady()
}

// ---------------------------------------------------------------------------
// Terminal display modes
// ---------------------------------------------------------------------------

func (a *App) renderSkeleton() string {
	msg := fmt.Sprintf("%s Loading run %s…", a.spin.View(), a.id.RunID)
	if a.width == 0 || a.height == 0 {
		return statusStyle.Render(msg)
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, statusStyle.Render(msg))
}

func (a *App) renderRunNotFound() string {
	body := titleStyle.Render("Run not found") + "\n\n" +
		statusStyle.Render(fmt.Sprintf("No run with id %q exists on %s.", a.id.RunID, a.cfg.Server.URL)) + "\n" +
		dimStyle.Render("Press q to quit.")
	return a.centered(body)
}

func (a *App) renderNotFound() string {
	body := titleStyle.Render("Not found") + "\n\n" +
		statusStyle.Render("The requested resource does not exist.") + "\n" +
		dimStyle.Render("Press q to quit.")
	return a.centered(body)
}

func (a *App) centered(body string) string {
	if a.width == 0 || a.height == 0 {
		return body
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
}

// ---------------------------------------------------------------------------
// Ready layout
// ---------------------------------------------------------------------------

func (a *App) renderReady() string {
	header := a.renderHeader()
	body := a.renderActiveTab()
	statusLine := a.renderStatus()
	footer := a.renderFooter()

	main := header + "\n" + body

	if a.renameOpen || a.deleteOpen {
		return a.composeModal(main, statusLine, footer)
	}
	return a.placeWithFooter(main, statusLine, footer)
}

func (a *App) renderActiveTab() string {
	plan := a.currentPlan()
	switch plan.Kind {
	case runview.PlanCharts:
		return a.renderCharts(plan)
	case runview.PlanArtifacts:
		return a.renderArtifacts(plan)
	case runview.PlanTraces:
		return a.renderTraces()
	}
	return a.renderOverview(plan)
}

// renderHeader is the fixed chrome: app name, tab bar, then the run line
// with name, experiment, lifecycle status and times.
func (a *App) renderHeader() string {
	name := headerAppStyle.Render(appName)

	var tabs []string
	for i, title := range tabTitles {
		if runview.Tab(i) == a.effectiveTab() {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	tabBar := tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))

	line1 := headerBarStyle.Render(name + "  " + tabBar)
	if a.width > 0 {
		line1 = headerBarStyle.Width(a.width).Render(name + "  " + tabBar)
	}

	expName := a.id.ExperimentID
	if a.experiment != nil && a.experiment.Name != "" {
		expName = a.experiment.Name
	}
	parts := []string{
		runNameStyle.Render(a.runName()),
		labelStyle.Render("in ") + valueStyle.Render(expName),
	}
	if a.run != nil {
		parts = append(parts, runStatusStyle(a.run.Info.Status).Render(a.run.Info.Status))
		if a.run.Info.StartTime > 0 {
			start := time.UnixMilli(a.run.Info.StartTime).UTC()
			parts = append(parts, dimStyle.Render("started "+start.Format("2006-01-02 15:04")))
		}
	}
	parts = append(parts, dimStyle.Render("r rename · x delete"))
	line2 := "  " + strings.Join(parts, labelStyle.Render("  ·  "))

	return line1 + "\n" + padRight(truncate(line2, a.contentWidth()), a.contentWidth())
}

// effectiveTab is the tab actually rendered, after gating; a disabled or
// unknown request shows as Overview in the tab bar too.
func (a *App) effectiveTab() runview.Tab {
	switch a.currentPlan().Kind {
	case runview.PlanCharts:
		if a.activeTab == runview.TabSystemCharts {
			return runview.TabSystemCharts
		}
		return runview.TabModelCharts
	case runview.PlanArtifacts:
		return runview.TabArtifacts
	case runview.PlanTraces:
		return runview.TabTraces
	}
	return runview.TabOverview
}

func (a *App) renderStatus() string {
	text := a.status
	style := statusBarStyle
	if a.statusErr {
		style = style.Foreground(colorError)
	}
	flat := strings.ReplaceAll(text, "\n", " ")
	if a.width == 0 {
		return style.Render(flat)
	}
	return style.Width(a.width).Render(flat)
}

func (a *App) renderFooter() string {
	bindings := [][2]string{
		{"tab", "switch"},
		{"1-5", "jump"},
		{"R", "refresh"},
	}
	switch a.currentPlan().Kind {
	case runview.PlanCharts:
		bindings = append(bindings, [2]string{"/", "filter"}, [2]string{"j/k", "scroll"})
	case runview.PlanArtifacts:
		bindings = append(bindings, [2]string{"enter", "open"}, [2]string{"backspace", "up"})
	case runview.PlanTraces:
		bindings = append(bindings, [2]string{"j/k", "select"})
	}
	bindings = append(bindings, [2]string{"q", "quit"})

	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, keyStyle.Render(b[0])+space+descStyle.Render(b[1]))
	}
	content := strings.Join(parts, sep)

	if a.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(a.width).Render(content)
}

// wide reports whether the terminal is past the breakpoint for the
// full-height layout.
func (a *App) wide() bool {
	return a.width >= a.cfg.UI.WideBreakpoint
}

func (a *App) contentWidth() int {
	if a.width == 0 {
		return 80
	}
	return a.width
}

// bodyHeight is the room left for tab content under the header and above the
// status and footer bars.
func (a *App) bodyHeight() int {
	h := a.height - 2 - 2 // header lines, status + footer
	if h < 4 {
		h = 4
	}
	return h
}

// placeWithFooter pins the status and footer bars to the last rows. Past the
// breakpoint the body is stretched to full height so the chrome stays fixed
// while content scrolls; narrow terminals get natural height.
func (a *App) placeWithFooter(body, statusLine, footer string) string {
	if a.height == 0 || !a.wide() {
		return body + "\n" + statusLine + "\n" + footer
	}
	contentHeight := a.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(a.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Ensure every line is full-width to prevent ghosting from previous frames
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, a.width)
	}
	main = strings.Join(lines, "\n")
	return main + "\n" + statusLine + "\n" + footer
}

func (a *App) renderSection(title, content string) string {
	w := a.contentWidth() - 4
	if w < 20 {
		w = a.contentWidth()
	}
	inner := w - sectionBoxStyle.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}
	header := padRight(titleStyle.Render(title), inner)
	separator := lipgloss.NewStyle().Foreground(colorSurface2).Render(strings.Repeat("─", inner))
	section := sectionBoxStyle.Width(w).Render(header + "\n" + separator + "\n" + content)
	if a.width == 0 {
		return section
	}
	return lipgloss.Place(a.width, lipgloss.Height(section), lipgloss.Center, lipgloss.Top, section)
}
