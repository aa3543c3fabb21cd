package views

import (
	"log/slog"

	"meshbridge/internal/application"
	"meshbridge/internal/config"
	"meshbridge/internal/ports"
)

// Services are the collaborators the views run commands against.
// Exporter, Catalog, Editor and Revealer may be nil.
type Services struct {
	Config    *config.Config
	Exporter  ports.SceneExporter
	Converter ports.MeshConverter
	Artifacts ports.ArtifactStore
	Source    ports.MaterialSource
	Store     ports.MappingStore
	Catalog   ports.MaterialCatalog
	Editor    ports.EditorOpener
	Revealer  ports.FolderRevealer
	Cache     *application.MappingCache
	Logger    *slog.Logger
}

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Messages for view switching
type SwitchToMaterialsMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToPanelMsg struct{}

// OpenEditorMsg asks the app to suspend and open Path in the editor
type OpenEditorMsg struct {
	Path string
}

type errMsg struct {
	err error
}
