package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"meshbridge/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// Confirmation is a pending yes/no question about overwriting files
type Confirmation struct {
	Question string
	Targets  []string // Paths that would be replaced
	Keys     ConfirmKeyMap
}

// NewConfirmation creates a confirmation with default keys
func NewConfirmation(question string, targets ...string) *Confirmation {
	return &Confirmation{
		Question: question,
		Targets:  targets,
		Keys:     DefaultConfirmKeys,
	}
}

// HandleKeyMsg processes key messages for the prompt.
// Returns (handled, cmd) where handled is true if the key was processed.
func (c *Confirmation) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Msg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, c.Keys.Cancel):
		return true, func() tea.Msg { return onCancel() }
	case key.Matches(msg, c.Keys.Confirm):
		return true, func() tea.Msg { return onConfirm() }
	}
	return false, nil
}

// View renders the targets and the prompt
func (c *Confirmation) View() string {
	var b strings.Builder
	b.WriteString(styles.WarningMsg.Render("Will replace:"))
	b.WriteString("\n")
	for _, t := range c.Targets {
		b.WriteString("  ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	b.WriteString(c.Question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
