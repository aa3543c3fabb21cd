package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"meshbridge/internal/adapters/blendercli"
	"meshbridge/internal/adapters/desktop"
	"meshbridge/internal/adapters/editor"
	"meshbridge/internal/adapters/filesystem"
	"meshbridge/internal/adapters/meshimport"
	"meshbridge/internal/adapters/sqlite"
	"meshbridge/internal/adapters/tui"
	"meshbridge/internal/adapters/tui/views"
	"meshbridge/internal/application"
	"meshbridge/internal/application/commands"
	"meshbridge/internal/config"
)

func main() {
	configFlag := flag.String("config", config.ConfigPath(), "path to the config file")
	logFlag := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	if err := run(*configFlag, *logFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logPath string) error {
	// The terminal belongs to the TUI, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, logPath != "")
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	args, err := meshimport.SplitArgs(cfg.ConverterArgs)
	if err != nil {
		return fmt.Errorf("invalid converter_args: %w", err)
	}

	store := filesystem.NewMappingStore(logger)
	mapping, err := commands.NewLoadMappingCommand(store, cfg.MappingPath).Execute(context.Background())
	if err != nil {
		return err
	}

	svc := views.Services{
		Config: cfg,
		Exporter: blendercli.NewExporter(cfg.BlenderPath,
			blendercli.WithBlendFile(cfg.BlendFile),
			blendercli.WithLogger(logger),
		),
		Converter: meshimport.NewConverter(cfg.ConverterPath,
			meshimport.WithArgs(args...),
			meshimport.WithLogger(logger),
		),
		Artifacts: filesystem.NewArtifacts(),
		Source:    filesystem.NewMaterialScanner(cfg.MaterialExt, logger),
		Store:     store,
		Editor:    editor.NewOpener(cfg.Editor),
		Revealer:  desktop.NewRevealer(),
		Cache:     application.NewMappingCache(mapping),
		Logger:    logger,
	}

	// Search still works from the mapping when the catalog can't be opened
	if catalog := sqlite.OpenOptional(cfg.MaterialsRoot, logger); catalog != nil {
		defer catalog.Close()
		svc.Catalog = catalog
	}

	p := tea.NewProgram(tui.NewApp(svc), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
