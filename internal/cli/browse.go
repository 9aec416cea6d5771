package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/devlens/pkg/portfolio"
)

var (
	browseDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	browseCursorStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// RepoBrowserModel is the bubbletea model behind "analyze --browse": a
// scrollable table of ranked repositories with a detail pane for the row
// under the cursor.
type RepoBrowserModel struct {
	Repos  []portfolio.RankedRepo
	Cursor int
	Height int
	Offset int
	Now    time.Time
}

// NewRepoBrowserModel creates a browser over repos in ranked order.
func NewRepoBrowserModel(repos []portfolio.RankedRepo, now time.Time) RepoBrowserModel {
	return RepoBrowserModel{Repos: repos, Height: 12, Now: now}
}

func (m RepoBrowserModel) Init() tea.Cmd {
	return nil
}

func (m RepoBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Repos)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Repos); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		// Room for the title, the detail pane and the table chrome.
		m.Height = max(msg.Height-14, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m RepoBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Ranked Repositories"))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ navigate  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	if len(m.Repos) == 0 {
		b.WriteString(browseDimStyle.Render("No repositories to show."))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Repos))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, repoRow(m.Repos[i])...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Repository", "Importance", "Stars", "Lang", "README", "Pushed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return browseCursorStyle
			}
			if col == 5 || col == 6 {
				return browseDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail(m.Repos[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Repos))))

	return b.String()
}

func (m RepoBrowserModel) detail(r portfolio.RankedRepo) string {
	var parts []string
	parts = append(parts, "forks "+strconv.Itoa(r.Forks), "watchers "+strconv.Itoa(r.Watchers))
	if r.TopicsCount > 0 {
		parts = append(parts, fmt.Sprintf("%d topics", r.TopicsCount))
	}
	if !r.HasDescription {
		parts = append(parts, StyleWarning.Render("no description"))
	}
	if r.IsEmpty {
		parts = append(parts, StyleRisk.Render("empty"))
	}
	if r.PushedAt != nil {
		parts = append(parts, "pushed "+formatRelativeTime(r.PushedAt, m.Now))
	}

	var b strings.Builder
	b.WriteString("  " + StyleLink.Render(r.URL) + "\n")
	if r.Homepage != "" {
		b.WriteString("  " + StyleDim.Render(r.Homepage) + "\n")
	}
	b.WriteString("  " + StyleDim.Render(strings.Join(parts, " · ")))
	return b.String()
}
