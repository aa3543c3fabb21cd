package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"meshbridge/internal/adapters/tui/styles"
	"meshbridge/internal/application/commands"
)

// Panel field indexes
const (
	fieldDestination = iota
	fieldMeshName
	fieldFBX
	fieldSurfaces
)

// PanelKeyMap defines key bindings for the export panel
type PanelKeyMap struct {
	Export    key.Binding
	Rebuild   key.Binding
	Copy      key.Binding
	Edit      key.Binding
	Reveal    key.Binding
	Materials key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var PanelKeys = PanelKeyMap{
	Export: key.NewBinding(
		key.WithKeys("enter", "ctrl+e"),
		key.WithHelp("enter", "export"),
	),
	Rebuild: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "rebuild index"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy node path"),
	),
	Edit: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "open node"),
	),
	Reveal: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("ctrl+f", "reveal folder"),
	),
	Materials: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "materials"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}

// PanelModel is the export panel: destination, mesh name and source fields
// plus the export and index actions
type PanelModel struct {
	ViewState
	svc     Services
	form    *InputForm
	confirm *Confirmation
	busy    string // Running action, empty when idle

	lastExport *commands.ExportResult
}

// NewPanelModel creates the panel with fields prefilled from config
func NewPanelModel(svc Services) *PanelModel {
	dest := NewInputField("Destination folder", "~/project/data/worlds/props", svc.Config.MeshDest)
	dest.Hint = "mesh and node are written here"
	name := NewInputField("Mesh name", "new_mesh", svc.Config.MeshName)
	name.Hint = "base name of the .mesh and .node files"
	fbx := NewInputField("FBX file", "empty: export the Blender selection", "")
	fbx.Hint = "convert an existing FBX instead of running Blender"
	surfaces := NewInputField("Surfaces", "Body, Glass", "")
	surfaces.Hint = "comma separated; overrides the exported object names"

	return &PanelModel{
		svc:  svc,
		form: NewInputForm(dest, name, fbx, surfaces),
	}
}

// Init initializes the panel
func (m *PanelModel) Init() tea.Cmd {
	return m.form.Init()
}

type exportDoneMsg struct {
	result *commands.ExportResult
}

type indexDoneMsg struct {
	result *commands.BuildIndexResult
}

// PanelOwns reports whether msg completes a panel action and must reach the
// panel whichever view is showing
func PanelOwns(msg tea.Msg) bool {
	switch msg.(type) {
	case exportDoneMsg, indexDoneMsg, actionFailedMsg:
		return true
	}
	return false
}

// actionFailedMsg ends a busy panel action with an error
type actionFailedMsg struct {
	err error
}

type noticeMsg struct {
	text string
}

type confirmedExportMsg struct{}

type cancelledMsg struct{}

// Update handles messages for the panel
func (m *PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case exportDoneMsg:
		m.busy = ""
		m.lastExport = msg.result
		m.SetMessage(msg.result.Message, false)
		return m, nil

	case indexDoneMsg:
		m.busy = ""
		m.SetMessage(msg.result.Message, false)
		return m, nil

	case noticeMsg:
		m.SetMessage(msg.text, false)
		return m, nil

	case actionFailedMsg:
		m.busy = ""
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case confirmedExportMsg:
		m.confirm = nil
		return m, m.startExport()

	case cancelledMsg:
		m.confirm = nil
		m.SetMessage("Export cancelled", false)
		return m, nil

	case tea.KeyMsg:
		if m.confirm != nil {
			_, cmd := m.confirm.HandleKeyMsg(msg,
				func() tea.Msg { return confirmedExportMsg{} },
				func() tea.Msg { return cancelledMsg{} },
			)
			return m, cmd
		}

		switch {
		case key.Matches(msg, PanelKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, PanelKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }

		case key.Matches(msg, PanelKeys.Materials):
			return m, func() tea.Msg { return SwitchToMaterialsMsg{} }
		}

		if m.busy != "" {
			return m, nil
		}
		m.ClearMessage()

		switch {
		case key.Matches(msg, PanelKeys.Export):
			return m, m.requestExport()

		case key.Matches(msg, PanelKeys.Rebuild):
			m.busy = "Rebuilding index"
			return m, m.rebuildIndex()

		case key.Matches(msg, PanelKeys.Copy):
			return m, m.copyNodePath()

		case key.Matches(msg, PanelKeys.Edit):
			if m.lastExport == nil {
				m.SetMessage("Nothing exported yet", true)
				return m, nil
			}
			path := m.lastExport.NodePath
			return m, func() tea.Msg { return OpenEditorMsg{Path: path} }

		case key.Matches(msg, PanelKeys.Reveal):
			return m, m.revealDestination()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// requestExport asks for confirmation when the export would replace files
func (m *PanelModel) requestExport() tea.Cmd {
	dest := m.form.Value(fieldDestination)
	name := m.form.Value(fieldMeshName)
	if dest == "" || name == "" {
		m.SetMessage("Destination and mesh name are required", true)
		return nil
	}

	var existing []string
	for _, p := range []string{filepath.Join(dest, name+".mesh"), filepath.Join(dest, name+".node")} {
		if m.svc.Artifacts.Exists(p) {
			existing = append(existing, p)
		}
	}
	if len(existing) > 0 {
		m.confirm = NewConfirmation("Overwrite?", existing...)
		return nil
	}
	return m.startExport()
}

func (m *PanelModel) startExport() tea.Cmd {
	m.busy = "Exporting"
	cfg := m.svc.Config

	deps := commands.ExportDeps{
		Converter: m.svc.Converter,
		Artifacts: m.svc.Artifacts,
		Mapping:   m.svc.Cache.Get(),
		Logger:    m.svc.Logger,
	}
	fbx := m.form.Value(fieldFBX)
	if fbx == "" {
		deps.Exporter = m.svc.Exporter
	}

	cmd := commands.NewExportCommand(deps, cfg.ExportRoot, m.form.Value(fieldDestination), m.form.Value(fieldMeshName))
	cmd.GlobalScale = cfg.GlobalScale
	cmd.NodeOptions = cfg.NodeOptions()
	cmd.SourceFBX = fbx
	cmd.Surfaces = splitList(m.form.Value(fieldSurfaces))

	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return actionFailedMsg{err}
		}
		return exportDoneMsg{result}
	}
}

func (m *PanelModel) rebuildIndex() tea.Cmd {
	cfg := m.svc.Config
	cmd := commands.NewBuildIndexCommand(m.svc.Source, m.svc.Store, m.svc.Catalog, cfg.MaterialsRoot, cfg.MappingPath)
	cache := m.svc.Cache

	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return actionFailedMsg{err}
		}
		cache.Swap(result.Mapping)
		return indexDoneMsg{result}
	}
}

func (m *PanelModel) copyNodePath() tea.Cmd {
	if m.lastExport == nil {
		m.SetMessage("Nothing exported yet", true)
		return nil
	}
	path := m.lastExport.NodePath
	return func() tea.Msg {
		if err := clipboard.WriteAll(path); err != nil {
			return errMsg{fmt.Errorf("copy failed: %w", err)}
		}
		return noticeMsg{"Copied " + path}
	}
}

func (m *PanelModel) revealDestination() tea.Cmd {
	if m.svc.Revealer == nil {
		m.SetMessage("No file manager available", true)
		return nil
	}
	dir := m.form.Value(fieldDestination)
	revealer := m.svc.Revealer
	return func() tea.Msg {
		if err := revealer.Reveal(dir); err != nil {
			return errMsg{err}
		}
		return noticeMsg{"Opened " + dir}
	}
}

// splitList parses a comma separated list, dropping empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// View renders the panel
func (m *PanelModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Meshbridge"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Blender to Unigine mesh export"))
	b.WriteString("\n\n")

	b.WriteString(m.form.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	if m.lastExport != nil {
		b.WriteString("\n")
		b.WriteString(m.renderLastExport())
	}

	b.WriteString("\n")
	switch {
	case m.confirm != nil:
		b.WriteString(m.confirm.View())
	case m.busy != "":
		b.WriteString(styles.WarningMsg.Render(m.busy + "..."))
	case m.Message != "":
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderHelpLine())

	return styles.App.Render(b.String())
}

func (m *PanelModel) renderStatus() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Converter  %s", styles.Availability(m.svc.Converter != nil && m.svc.Converter.IsAvailable())))
	lines = append(lines, fmt.Sprintf("Blender    %s", styles.Availability(m.svc.Exporter != nil && m.svc.Exporter.IsAvailable())))
	lines = append(lines, fmt.Sprintf("Materials  %d indexed", m.svc.Cache.Get().Len()))
	return styles.Section.Render(strings.Join(lines, "\n"))
}

func (m *PanelModel) renderLastExport() string {
	r := m.lastExport
	var lines []string
	lines = append(lines, "Mesh  "+r.MeshPath)
	lines = append(lines, "Node  "+r.NodePath)
	if len(r.Missing) > 0 {
		lines = append(lines, styles.WarningMsg.Render("Default material on: "+strings.Join(r.Missing, ", ")))
	}
	return styles.Section.Render(strings.Join(lines, "\n"))
}

func (m *PanelModel) renderHelpLine() string {
	bindings := []key.Binding{
		PanelKeys.Export, PanelKeys.Rebuild, PanelKeys.Copy, PanelKeys.Edit,
		PanelKeys.Reveal, PanelKeys.Materials, PanelKeys.Help, PanelKeys.Quit,
	}

	var parts []string
	for _, k := range bindings {
		h := k.Help()
		parts = append(parts, fmt.Sprintf("%s %s",
			styles.HelpKey.Render(h.Key),
			styles.HelpDesc.Render(h.Desc),
		))
	}

	return strings.Join(parts, styles.HelpSeparator.String())
}
