package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
//
//nolint:gocritic // hugeParam ignored
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.stageList(),
		m.logPane(),
	)
}

//nolint:gocritic // hugeParam ignored
func (m *Model) stageList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("STAGES") + "\n\n")

	start := m.ListOffset
	end := m.ListOffset + m.ListHeight
	if end > len(m.Stages) {
		end = len(m.Stages)
	}
	if start > end {
		start = end
	}

	for i := start; i < end; i++ {
		stage := m.Stages[i]
		s.WriteString(m.renderStageRow(i, stage) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderStageRow(index int, stage *StageNode) string {
	icon := stageIcon(stage)
	style := stageStyle(stage)

	var cursor string
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if stage.Status != StatusDone && stage.Status != StatusError {
			style = selectedStyle
		}
	} else {
		cursor = "  "
	}

	content := fmt.Sprintf("%s %s", icon, stage.Name)
	return cursor + style.Render(content)
}

func stageIcon(stage *StageNode) string {
	switch stage.Status {
	case StatusRunning:
		return "●"
	case StatusDone:
		return "✓"
	case StatusError:
		return "✗"
	default: // Pending
		return "○"
	}
}

func stageStyle(stage *StageNode) lipgloss.Style {
	switch stage.Status {
	case StatusRunning:
		return stageRunningStyle
	case StatusDone:
		return stageDoneStyle
	case StatusError:
		return stageErrorStyle
	default: // Pending
		return stagePendingStyle
	}
}

//nolint:gocritic // hugeParam ignored
func (m *Model) logPane() string {
	var header string
	var content string

	if m.ActiveStageName != "" {
		status := " (Manual)"
		if m.FollowMode {
			status = " (Following)"
		}
		header = titleStyle.Render("LOGS: " + m.ActiveStageName + status)

		if node, ok := m.StageMap[m.ActiveStageName]; ok {
			content = node.Log.View()
		}
	} else {
		header = titleStyle.Render("LOGS (Waiting...)")
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			content,
		),
	)
}
