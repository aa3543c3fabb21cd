package ports

import "os/exec"

// EditorOpener defines the interface for opening generated files in an external editor
type EditorOpener interface {
	// OpenFile opens the specified file and waits for the editor to exit
	OpenFile(path string) error

	// Command returns an exec.Cmd for opening a file in the editor.
	// The TUI hands it to bubbletea's ExecProcess.
	Command(path string) (*exec.Cmd, error)
}

// FolderRevealer shows a directory in the platform file manager
type FolderRevealer interface {
	Reveal(dir string) error
}
