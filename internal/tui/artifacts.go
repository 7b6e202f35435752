package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/runboard/internal/runview"
	"github.com/jask/runboard/internal/tracking"
)

// renderArtifacts is a directory browser over the run's artifact store. A
// run without an artifact root is a normal, legible empty state.
func (a *App) renderArtifacts(plan runview.Plan) string {
	if plan.Run.ArtifactURI == "" {
		return a.renderSection("Artifacts", dimStyle.Render("No artifacts were logged for this run."))
	}
	if a.artList == nil {
		return a.renderSection("Artifacts", statusStyle.Render("Loading artifact listing…"))
	}

	title := "Artifacts"
	if a.artPath != "" {
		title = "Artifacts / " + a.artPath
	}

	files := a.artList.Files
	if len(files) == 0 {
		return a.renderSection(title, dimStyle.Render("(empty directory)"))
	}

	width := a.contentWidth() - 8
	nameWidth := width - 14
	if nameWidth < 20 {
		nameWidth = 20
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("  %-*s  %10s", nameWidth, "Path", "Size"))
	lines := []string{header}

	visible := a.bodyHeight() - 6
	if visible < 3 {
		visible = 3
	}
	top := 0
	if a.artCursor >= visible {
		top = a.artCursor - visible + 1
	}
	end := top + visible
	if end > len(files) {
		end = len(files)
	}

	for i := top; i < end; i++ {
		f := files[i]
		prefix := "  "
		if i == a.artCursor {
			prefix = cursorStyle.Render("> ")
		}
		name := baseName(f.Path)
		size := humanSize(f.FileSize)
		if f.IsDir {
			name = dirStyle.Render(padRight(truncate(name+"/", nameWidth), nameWidth))
			size = ""
		} else {
			name = padRight(truncate(name, nameWidth), nameWidth)
		}
		lines = append(lines, fmt.Sprintf("%s%s  %10s", prefix, name, size))
	}

	if len(files) > visible {
		lines = append(lines, scrollStyle.Render(fmt.Sprintf("── showing %d-%d of %d ──", top+1, end, len(files))))
	}
	lines = append(lines, "", dimStyle.Render("root: "+a.artList.RootURI))
	return a.renderSection(title, strings.Join(lines, "\n"))
}

func (a *App) handleArtifactsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	files := a.artFiles()
	switch msg.String() {
	case "down", "j":
		if a.artCursor < len(files)-1 {
			a.artCursor++
		}
	case "up", "k":
		if a.artCursor > 0 {
			a.artCursor--
		}
	case "enter":
		if a.artCursor < len(files) && files[a.artCursor].IsDir {
			a.artPath = files[a.artCursor].Path
			a.artList = nil
			a.artCursor = 0
			a.artLoading = true
			return a, a.fetchArtifacts(a.artPath)
		}
	case "backspace", "esc":
		if a.artPath != "" {
			a.artPath = parentDir(a.artPath)
			a.artList = nil
			a.artCursor = 0
			a.artLoading = true
			return a, a.fetchArtifacts(a.artPath)
		}
	}
	return a, nil
}

func (a *App) artFiles() []tracking.FileInfo {
	if a.artList == nil {
		return nil
	}
	return a.artList.Files
}

func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
