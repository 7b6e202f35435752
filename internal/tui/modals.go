package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Rename and delete modals. Both flags live on the App and nothing outside
// the key handlers and completion messages flips them.
// ---------------------------------------------------------------------------

func (a *App) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.renameOpen = false
		a.renameInput.Blur()
		return a, nil
	case "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	case "enter":
		name := strings.TrimSpace(a.renameInput.Value())
		if name == "" {
			a.setStatus("Name cannot be empty.")
			return a, nil
		}
		a.setStatus("Renaming…")
		return a, a.renameCmd(name)
	}
	var cmd tea.Cmd
	a.renameInput, cmd = a.renameInput.Update(msg)
	return a, cmd
}

func (a *App) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		a.deleteOpen = false
		return a, nil
	case "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	case "y", "enter":
		a.setStatus("Deleting…")
		return a, a.deleteCmd()
	}
	return a, nil
}

func (a *App) modalView() string {
	if a.renameOpen {
		return titleStyle.Render("Rename run") + "\n\n" +
			a.renameInput.View() + "\n\n" +
			dimStyle.Render("enter save · esc cancel")
	}
	return titleStyle.Render("Delete run") + "\n\n" +
		statusStyle.Render("Delete "+a.runName()+"?") + "\n" +
		statusStyle.Render("You will be taken back to the experiment.") + "\n\n" +
		dimStyle.Render("y delete · n cancel")
}

func (a *App) composeModal(base, statusLine, footer string) string {
	baseView := a.placeWithFooter(base, statusLine, footer)
	if a.height == 0 || a.width == 0 {
		return baseView + "\n\n" + a.modalView()
	}
	modalContent := lipgloss.NewStyle().Width(min(60, a.width-10)).Render(a.modalView())
	modal := modalStyle.Render(modalContent)
	lines := splitLines(modal)
	modalWidth := maxLineWidth(lines)
	modalHeight := len(lines)

	targetHeight := a.height - 2
	if targetHeight < 1 {
		targetHeight = 1
	}
	x := (a.width - modalWidth) / 2
	if x < 0 {
		x = 0
	}
	y := (targetHeight - modalHeight) / 2
	if y < 0 {
		y = 0
	}
	return overlayAt(baseView, modal, x, y, a.width, targetHeight)
}
