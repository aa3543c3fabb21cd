package meshimport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"

	"meshbridge/internal/application"
	"meshbridge/internal/ports"
)

// Converter implements ports.MeshConverter by running the engine's mesh import tool
type Converter struct {
	exe    string
	args   []string
	logger *slog.Logger
}

// Ensure Converter implements MeshConverter
var _ ports.MeshConverter = (*Converter)(nil)

// Option configures the Converter
type Option func(*Converter)

// WithArgs adds arguments placed before the input path on every run
func WithArgs(args ...string) Option {
	return func(c *Converter) {
		c.args = append(c.args, args...)
	}
}

// WithLogger sets the logger used for tool output
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// NewConverter creates a converter for the executable at exe
func NewConverter(exe string, opts ...Option) *Converter {
	c := &Converter{
		exe:    exe,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SplitArgs parses a shell-quoted argument string from configuration
func SplitArgs(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("invalid converter arguments %q: %w", line, err)
	}
	return args, nil
}

// ToMesh runs `<exe> <fbxPath>` and returns the mesh path the tool writes next to the input
func (c *Converter) ToMesh(ctx context.Context, fbxPath string) (string, error) {
	args := append(append([]string{}, c.args...), fbxPath)
	if err := c.run(ctx, args); err != nil {
		return "", err
	}
	return strings.TrimSuffix(fbxPath, filepath.Ext(fbxPath)) + ".mesh", nil
}

// FromMesh runs `<exe> <meshPath> -o <outputPath>`
func (c *Converter) FromMesh(ctx context.Context, meshPath, outputPath string) error {
	args := append(append([]string{}, c.args...), meshPath, "-o", outputPath)
	return c.run(ctx, args)
}

// IsAvailable checks if the converter executable exists
func (c *Converter) IsAvailable() bool {
	_, err := c.resolve()
	return err == nil
}

// resolve returns the executable path, looking it up on PATH when it is a bare name
func (c *Converter) resolve() (string, error) {
	if c.exe == "" {
		return "", &application.MissingExecutableError{Path: c.exe}
	}
	if strings.ContainsAny(c.exe, `/\`) {
		info, err := os.Stat(c.exe)
		if err != nil || info.IsDir() {
			return "", &application.MissingExecutableError{Path: c.exe}
		}
		return c.exe, nil
	}
	path, err := exec.LookPath(c.exe)
	if err != nil {
		return "", &application.MissingExecutableError{Path: c.exe}
	}
	return path, nil
}

func (c *Converter) run(ctx context.Context, args []string) error {
	exe, err := c.resolve()
	if err != nil {
		return err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Info("running converter", "command", exe, "args", args)
	err = cmd.Run()
	if out := strings.TrimSpace(stdout.String()); out != "" {
		c.logger.Debug("converter output", "stdout", out)
	}
	if err != nil {
		toolErr := &application.ToolError{
			Kind:    application.ErrConversionFailed,
			Command: exe,
			Args:    args,
			Stderr:  stderr.String(),
			Err:     err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return toolErr
	}
	return nil
}
