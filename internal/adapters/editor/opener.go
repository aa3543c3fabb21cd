package editor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/mattn/go-shellwords"
)

// Opener implements ports.EditorOpener
type Opener struct {
	command string // Configured editor command line, may carry flags
}

// NewOpener creates a new editor opener. An empty command falls back to
// $VISUAL, $EDITOR and then common editors on PATH.
func NewOpener(command string) *Opener {
	return &Opener{command: command}
}

// OpenFile opens a file in the user's preferred editor
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	line := o.findEditor()
	if line == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	argv, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("invalid editor command %q: %w", line, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("invalid editor command %q", line)
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor command line to use
func (o *Opener) findEditor() string {
	if o.command != "" {
		return o.command
	}

	// Check $VISUAL first, it is the full-screen editor
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	// Try common editors
	editors := []string{"nvim", "vim", "vi", "nano", "code"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
