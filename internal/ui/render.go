package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/utils"
)

const progressWidth = 24

// StatusLabel renders PENDING as "Pending".
func StatusLabel(s dashboard.TaskStatus) string {
	return utils.ToTitle(string(s))
}

// PriorityBadge renders a priority as a colored "[High]" badge.
func PriorityBadge(p dashboard.Priority) string {
	return PriorityStyle(p).Render("[" + utils.ToTitle(string(p)) + "]")
}

// ProgressBar draws percent as a fixed-width bar.
func ProgressBar(percent, width int) string {
	percent = max(0, min(percent, 100))
	filled := percent * width / 100
	return StyleSuccess.Render(strings.Repeat("█", filled)) +
		StyleSubtle.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %d%%", percent)
}

// RenderBoard draws a project's three status columns side by side.
func RenderBoard(project dashboard.Project, board dashboard.Board) string {
	cols := make([]string, 0, len(board.Columns))
	for _, col := range board.Columns {
		var sb strings.Builder
		sb.WriteString(StatusStyle(col.Status).Bold(true).Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))))
		sb.WriteString("\n")
		if len(col.Tasks) == 0 {
			sb.WriteString(StyleSubtle.Render("No tasks"))
		}
		for i, t := range col.Tasks {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(renderCard(t))
		}
		cols = append(cols, StyleColumn.Render(sb.String()))
	}

	header := ProjectStyle(project.Color).Render(project.Name)
	if project.Description != "" {
		header += "  " + StyleSubtle.Render(project.Description)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

func renderCard(t dashboard.Task) string {
	line := StyleText.Render(utils.Truncate(t.Title, 28)) + "\n" + PriorityBadge(t.Priority)
	if t.DueDate != "" {
		line += " " + StyleSubtle.Render("due "+t.DueDate)
	}
	return line
}

// RenderDashboard draws the overview: task counts, completion, open high
// priority work and routine progress.
func RenderDashboard(userName string, projects []dashboard.Project, sum dashboard.Summary, routines dashboard.Progress) string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render("Welcome back, "+userName) + "\n\n")

	counts := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleSubtle).
		Headers("Projects", "Tasks", StatusLabel(dashboard.StatusPending), StatusLabel(dashboard.StatusScheduled), StatusLabel(dashboard.StatusCompleted)).
		Row(
			fmt.Sprint(len(projects)),
			fmt.Sprint(sum.Total),
			fmt.Sprint(sum.ByStatus[dashboard.StatusPending]),
			fmt.Sprint(sum.ByStatus[dashboard.StatusScheduled]),
			fmt.Sprint(sum.ByStatus[dashboard.StatusCompleted]),
		)
	sb.WriteString(counts.String() + "\n\n")

	sb.WriteString(StyleSectionTitle.Render("Completion") + "\n")
	sb.WriteString(ProgressBar(sum.CompletionPercent, progressWidth) + "\n\n")

	sb.WriteString(StyleSectionTitle.Render("High priority") + "\n")
	if len(sum.OpenHighPriority) == 0 {
		sb.WriteString(StyleSubtle.Render("Nothing urgent.") + "\n")
	}
	for _, t := range sum.OpenHighPriority {
		owner := "routine"
		if pid, ok := t.Owner.ProjectID(); ok {
			owner = projectName(projects, pid)
		}
		fmt.Fprintf(&sb, "%s %s %s\n", Icon("!", StyleError), t.Title, StyleSubtle.Render("("+owner+")"))
	}

	sb.WriteString("\n" + StyleSectionTitle.Render("Routines") + "\n")
	fmt.Fprintf(&sb, "%s %s\n", ProgressBar(routines.Percent, progressWidth),
		StyleSubtle.Render(fmt.Sprintf("%d of %d done", routines.Completed, routines.Total)))
	return sb.String()
}

func projectName(projects []dashboard.Project, id string) string {
	for _, p := range projects {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

// RenderRoutines lists routines with their check state and the progress meter.
func RenderRoutines(routines []dashboard.Task, progress dashboard.Progress) string {
	rows := make([][]string, 0, len(routines))
	for _, r := range routines {
		check := "[ ]"
		if r.Status == dashboard.StatusCompleted {
			check = "[x]"
		}
		rows = append(rows, []string{check, r.Title, StatusLabel(r.Status), r.ID})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleSubtle).
		Headers("", "Routine", "Status", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return StylePrimary.Bold(true)
			}
			if col == 2 && row >= 0 && row < len(routines) {
				return StatusStyle(routines[row].Status)
			}
			return StyleText
		})

	return t.String() + "\n" + ProgressBar(progress.Percent, progressWidth) + "\n"
}

// RenderTasks lists tasks produced by an assistant call.
func RenderTasks(title string, tasks []dashboard.Task) string {
	var sb strings.Builder
	sb.WriteString(StyleSectionTitle.Render(title) + "\n")
	if len(tasks) == 0 {
		sb.WriteString(StyleWarning.Render("AI unavailable: nothing was added.") + "\n")
		return sb.String()
	}
	for _, t := range tasks {
		fmt.Fprintf(&sb, "%s %s %s\n", Icon("+", StyleSuccess), t.Title, PriorityBadge(t.Priority))
	}
	return sb.String()
}

// RenderMessage formats one chat line.
func RenderMessage(m dashboard.Message) string {
	sender := StylePrefixUser.Render(m.Sender)
	if m.IsAI {
		sender = StylePrefixAgent.Render(m.Sender)
	}
	stamp := StyleSubtle.Render(m.Timestamp.Format(time.Kitchen))
	return fmt.Sprintf("%s %s\n%s", sender, stamp, StyleText.Render(m.Content))
}
