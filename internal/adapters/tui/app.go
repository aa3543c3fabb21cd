package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"meshbridge/internal/adapters/tui/views"
)

// ViewState represents the current view
type ViewState int

const (
	ViewPanel ViewState = iota
	ViewMaterials
	ViewHelp
)

// App is the main TUI application model
type App struct {
	svc views.Services

	state     ViewState
	panel     *views.PanelModel
	materials *views.MaterialsModel
	help      *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(svc views.Services) *App {
	return &App{
		svc:       svc,
		state:     ViewPanel,
		panel:     views.NewPanelModel(svc),
		materials: views.NewMaterialsModel(svc),
		help:      views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.panel.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.panel.SetSize(msg.Width, msg.Height)
		a.materials.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToMaterialsMsg:
		a.state = ViewMaterials
		a.materials.Reset()
		return a, a.materials.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToPanelMsg:
		a.state = ViewPanel
		return a, a.panel.Init()

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			a.panel.SetMessage("Editor: "+msg.err.Error(), true)
		}
		return a, nil
	}

	if views.PanelOwns(msg) {
		_, cmd := a.panel.Update(msg)
		return a, cmd
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewPanel:
		_, cmd = a.panel.Update(msg)
	case ViewMaterials:
		_, cmd = a.materials.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.svc.Editor == nil {
		return nil
	}

	cmd, err := a.svc.Editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewMaterials:
		return a.materials.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.panel.View()
	}
}
