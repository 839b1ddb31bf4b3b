package chat

import (
	"fmt"
	"strings"

	"salesiq/internal/store"

	"github.com/charmbracelet/lipgloss"
)

// Styles collects the lipgloss styles used by the chat view.
type Styles struct {
	Title     lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Error     lipgloss.Style
	Hint      lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Hint:      lipgloss.NewStyle().Faint(true),
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("salesiq") + m.styles.Hint.Render("  retail sales assistant"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.thinking {
		b.WriteString(m.spinner.View() + " thinking...")
	} else {
		b.WriteString(m.textinput.View())
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Hint.Render("enter: ask • esc: quit"))
	return b.String()
}

// refreshViewport re-renders the history into the viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, msg := range m.history {
		switch msg.Role {
		case "user":
			b.WriteString(m.styles.User.Render("You") + "\n")
			b.WriteString(msg.Content + "\n\n")
		case "error":
			b.WriteString(m.styles.Error.Render("Error") + "\n")
			b.WriteString(msg.Content + "\n\n")
		default:
			b.WriteString(m.styles.Assistant.Render("salesiq") + "\n")
			b.WriteString(m.renderMarkdown(msg.Content))
			b.WriteString("\n")
		}
	}
	m.viewport.SetContent(b.String())
}

func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content + "\n"
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return out
}

// rowsToMarkdown formats a result set as a markdown table so glamour can
// render it alongside narrated answers.
func rowsToMarkdown(rs *store.ResultSet) string {
	if rs == nil || len(rs.Rows) == 0 {
		return "_no rows_"
	}

	var b strings.Builder
	b.WriteString("| " + strings.Join(escapeCells(rs.Columns), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(rs.Columns)) + "\n")
	for _, row := range rs.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = ""
				continue
			}
			cells[i] = fmt.Sprintf("%v", v)
		}
		b.WriteString("| " + strings.Join(escapeCells(cells), " | ") + " |\n")
	}
	return b.String()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", "\\|")
	}
	return out
}
