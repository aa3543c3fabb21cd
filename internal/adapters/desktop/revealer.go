package desktop

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Revealer implements ports.FolderRevealer with the platform file manager
type Revealer struct {
	goos string
}

// NewRevealer creates a revealer for the running platform
func NewRevealer() *Revealer {
	return &Revealer{goos: runtime.GOOS}
}

// Reveal opens dir in the file manager without waiting for it to close
func (r *Revealer) Reveal(dir string) error {
	cmd, err := r.Command(dir)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command builds the platform command that shows dir
func (r *Revealer) Command(dir string) (*exec.Cmd, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve folder: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot reveal %s: %w", abs, err)
	}
	if !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	switch r.goos {
	case "darwin":
		return exec.Command("open", abs), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", abs), nil
	case "windows":
		return exec.Command("explorer", abs), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", r.goos)
	}
}
