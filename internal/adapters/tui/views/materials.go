package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"meshbridge/internal/adapters/tui/styles"
	"meshbridge/internal/application/commands"
	"meshbridge/internal/domain"
)

const materialsPageSize = 12

// MaterialsKeyMap defines key bindings for the material search view
type MaterialsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Copy     key.Binding
	Cancel   key.Binding
}

var MaterialsKeys = MaterialsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "previous page"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "next page"),
	),
	Copy: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "copy GUID"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

// MaterialsModel searches indexed materials and copies GUIDs
type MaterialsModel struct {
	ViewState
	svc     Services
	input   textinput.Model
	results []commands.SearchResult
	pager   *Paginator
}

// NewMaterialsModel creates a new material search view
func NewMaterialsModel(svc Services) *MaterialsModel {
	input := textinput.New()
	input.Placeholder = "Material name or GUID..."
	input.Focus()

	return &MaterialsModel{
		svc:   svc,
		input: input,
		pager: NewPaginator(materialsPageSize),
	}
}

// Init initializes the view
func (m *MaterialsModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results
func (m *MaterialsModel) Reset() {
	m.input.SetValue("")
	m.input.Focus()
	m.results = nil
	m.pager.Reset()
	m.ClearMessage()
}

type materialResultsMsg struct {
	query   string
	results []commands.SearchResult
}

// Update handles messages for the material search view
func (m *MaterialsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case materialResultsMsg:
		// Drop results for a query the user already changed
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.results = msg.results
		m.pager.Reset()
		m.pager.SetTotal(len(m.results))
		return m, nil

	case noticeMsg:
		m.SetMessage(msg.text, false)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, MaterialsKeys.Cancel):
			return m, func() tea.Msg { return SwitchToPanelMsg{} }

		case key.Matches(msg, MaterialsKeys.Up):
			m.pager.CursorUp()
			return m, nil

		case key.Matches(msg, MaterialsKeys.Down):
			m.pager.CursorDown()
			return m, nil

		case key.Matches(msg, MaterialsKeys.PageUp):
			m.pager.PrevPage()
			return m, nil

		case key.Matches(msg, MaterialsKeys.PageDown):
			m.pager.NextPage()
			return m, nil

		case key.Matches(msg, MaterialsKeys.Copy):
			if r, ok := m.selected(); ok {
				return m, copyGUID(r.CatalogEntry)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	prev := m.input.Value()
	m.input, cmd = m.input.Update(msg)

	query := m.input.Value()
	if query == prev {
		return m, cmd
	}
	if len(query) >= 2 {
		return m, tea.Batch(cmd, m.search(query))
	}
	m.results = nil
	m.pager.Reset()
	return m, cmd
}

func (m *MaterialsModel) selected() (commands.SearchResult, bool) {
	i := m.pager.Cursor()
	if i >= 0 && i < len(m.results) {
		return m.results[i], true
	}
	return commands.SearchResult{}, false
}

// search prefers the catalog and falls back to the in-memory mapping
func (m *MaterialsModel) search(query string) tea.Cmd {
	catalog := m.svc.Catalog
	mapping := m.svc.Cache.Get()
	return func() tea.Msg {
		if catalog != nil {
			results, err := commands.NewSearchCommand(catalog, query).Execute(context.Background())
			if err != nil {
				return errMsg{err}
			}
			return materialResultsMsg{query: query, results: results}
		}

		records := mapping.Records()
		entries := make([]domain.CatalogEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, domain.CatalogEntry{Name: r.Name, GUID: r.GUID, SourcePath: r.SourcePath})
		}
		return materialResultsMsg{query: query, results: commands.FuzzySort(entries, query)}
	}
}

func copyGUID(e domain.CatalogEntry) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(e.GUID); err != nil {
			return errMsg{fmt.Errorf("copy failed: %w", err)}
		}
		return noticeMsg{fmt.Sprintf("Copied GUID of %s", e.Name)}
	}
}

// View renders the material search view
func (m *MaterialsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Materials"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d indexed", m.svc.Cache.Get().Len())))
	b.WriteString("\n\n")

	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		if len(m.input.Value()) >= 2 {
			b.WriteString(styles.MutedText.Render("No results found"))
		} else {
			b.WriteString(styles.MutedText.Render("Type at least 2 characters to search"))
		}
	} else {
		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			b.WriteString(m.renderResult(m.results[i], i == m.pager.Cursor()))
			b.WriteString("\n")
		}
		if m.pager.TotalPages() > 1 {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d, %d results",
				m.pager.CurrentPage(), m.pager.TotalPages(), len(m.results))))
		}
	}

	if m.Message != "" {
		b.WriteString("\n\n")
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		styles.HelpKey.Render("↑/↓"),
		styles.HelpDesc.Render("navigate"),
		styles.HelpKey.Render("pgup/pgdn"),
		styles.HelpDesc.Render("page"),
		styles.HelpKey.Render("enter"),
		styles.HelpDesc.Render("copy GUID"),
		styles.HelpKey.Render("esc"),
		styles.HelpDesc.Render("back"),
	))

	return styles.App.Render(b.String())
}

func (m *MaterialsModel) renderResult(r commands.SearchResult, selected bool) string {
	text := fmt.Sprintf("%-32s %s", r.Name, r.GUID)
	if selected {
		return styles.RowSelected.Render(text)
	}
	return fmt.Sprintf("%-32s %s", r.Name, styles.GUID.Render(r.GUID))
}
