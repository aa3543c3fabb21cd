package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"meshbridge/internal/adapters/tui/styles"
	"meshbridge/internal/domain"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "f1"),
		key.WithHelp("esc/q/f1", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToPanelMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Meshbridge Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Panel"))
	b.WriteString("\n")
	b.WriteString(helpLine("tab / shift+tab", "Next / previous field"))
	b.WriteString(helpLine("enter", "Export mesh and write node"))
	b.WriteString(helpLine("ctrl+r", "Rebuild material index"))
	b.WriteString(helpLine("ctrl+y", "Copy last node path"))
	b.WriteString(helpLine("ctrl+o", "Open last node in editor"))
	b.WriteString(helpLine("ctrl+f", "Show destination folder"))
	b.WriteString(helpLine("ctrl+s", "Search materials"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Materials"))
	b.WriteString("\n")
	b.WriteString(helpLine("↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("pgup / pgdn", "Change page"))
	b.WriteString(helpLine("enter", "Copy GUID"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("f1", "Toggle help"))
	b.WriteString(helpLine("esc / Ctrl+C", "Back / quit"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Export"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Each selected object becomes one surface. Its name is looked up"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  in the material index; unknown names get " + domain.DefaultGUID + "."))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("f1"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
