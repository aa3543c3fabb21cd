package views

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"meshbridge/internal/application"
	"meshbridge/internal/config"
	"meshbridge/internal/domain"
)

// existingFiles is an ArtifactStore where only the listed paths exist
type existingFiles map[string]bool

func (e existingFiles) Exists(path string) bool { return e[path] }

func (e existingFiles) LatestMesh(string, time.Time) (string, error) { return "", nil }

func (e existingFiles) StageFile(src, dir string) (string, error) {
	return filepath.Join(dir, filepath.Base(src)), nil
}

func (e existingFiles) MoveMesh(_, destDir, name string) (string, error) {
	return filepath.Join(destDir, name+".mesh"), nil
}

func (e existingFiles) WriteFile(string, []byte) error { return nil }

func testServices(files existingFiles, records ...domain.MaterialRecord) Services {
	cfg := config.Default()
	cfg.MeshDest = "/props"
	cfg.MeshName = "crate"

	return Services{
		Config:    cfg,
		Artifacts: files,
		Cache:     application.NewMappingCache(domain.NewGuidMapping(records)),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Body", []string{"Body"}},
		{" Body , Glass ,,", []string{"Body", "Glass"}},
		{" , ", nil},
	}

	for _, tt := range tests {
		got := splitList(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPanel_ExportAsksBeforeOverwriting(t *testing.T) {
	existing := filepath.Join("/props", "crate.node")
	m := NewPanelModel(testServices(existingFiles{existing: true}))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Fatal("expected no export to start before confirmation")
	}
	if m.confirm == nil {
		t.Fatal("expected an overwrite confirmation")
	}
	if !strings.Contains(m.View(), existing) {
		t.Error("expected the confirmation to list the existing node")
	}

	_, cmd = m.Update(keyRunes("n"))
	if cmd == nil {
		t.Fatal("expected a cancel command")
	}
	m.Update(cmd())

	if m.confirm != nil {
		t.Error("expected confirmation to be dismissed")
	}
	if m.Message != "Export cancelled" {
		t.Errorf("unexpected message %q", m.Message)
	}
	if m.busy != "" {
		t.Errorf("expected idle panel, got %q", m.busy)
	}
}

func TestPanel_ConfirmStartsExport(t *testing.T) {
	existing := filepath.Join("/props", "crate.mesh")
	m := NewPanelModel(testServices(existingFiles{existing: true}))

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := m.Update(keyRunes("y"))
	if cmd == nil {
		t.Fatal("expected a confirm command")
	}

	_, cmd = m.Update(cmd())
	if cmd == nil {
		t.Fatal("expected the export to start")
	}
	if m.busy == "" {
		t.Error("expected panel to be busy while exporting")
	}
}

func TestPanel_ExportRequiresDestinationAndName(t *testing.T) {
	svc := testServices(existingFiles{})
	svc.Config.MeshName = ""
	m := NewPanelModel(svc)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("expected no command")
	}
	if !m.MessageErr || !strings.Contains(m.Message, "required") {
		t.Errorf("expected a required-field error, got %q", m.Message)
	}
}

func TestPanel_FailedActionClearsBusy(t *testing.T) {
	m := NewPanelModel(testServices(existingFiles{}))
	m.busy = "Exporting"

	if !PanelOwns(actionFailedMsg{}) {
		t.Fatal("expected the panel to own action failures")
	}
	m.Update(actionFailedMsg{err: application.ErrExecutableNotFound})

	if m.busy != "" {
		t.Errorf("expected idle panel, got %q", m.busy)
	}
	if !m.MessageErr {
		t.Error("expected an error message")
	}
}

func TestPanel_CopyWithoutExport(t *testing.T) {
	m := NewPanelModel(testServices(existingFiles{}))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})

	if cmd != nil {
		t.Error("expected no clipboard command")
	}
	if m.Message != "Nothing exported yet" {
		t.Errorf("unexpected message %q", m.Message)
	}
}
