package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"meshbridge/internal/adapters/blendercli"
	"meshbridge/internal/adapters/filesystem"
	"meshbridge/internal/adapters/meshimport"
	"meshbridge/internal/adapters/sqlite"
	"meshbridge/internal/config"
	"meshbridge/internal/ports"
)

var (
	configPath string
	verbose    bool
	cfg        *config.Config
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "meshbridge-cli",
	Short: "Bridge Blender meshes into Unigine projects",
	Long: `meshbridge-cli exports meshes from Blender, converts them with the
Unigine mesh importer and writes matching scene nodes.

It keeps a name to GUID index of the project's material files so that each
mesh surface is bound to the right material.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		logger = config.NewLogger(os.Stderr, verbose)
		slog.SetDefault(logger)

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger.Debug("config loaded", "path", configPath, "materials", cfg.MaterialsRoot, "mapping", cfg.MappingPath)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.ConfigPath(), "path to the config file (TOML or YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// pick returns flag when set, otherwise fallback
func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func newMappingStore() *filesystem.MappingStore {
	return filesystem.NewMappingStore(logger)
}

func newScanner() *filesystem.MaterialScanner {
	return filesystem.NewMaterialScanner(cfg.MaterialExt, logger)
}

func newConverter() (*meshimport.Converter, error) {
	args, err := meshimport.SplitArgs(cfg.ConverterArgs)
	if err != nil {
		return nil, fmt.Errorf("invalid converter_args: %w", err)
	}
	return meshimport.NewConverter(cfg.ConverterPath,
		meshimport.WithArgs(args...),
		meshimport.WithLogger(logger),
	), nil
}

func newExporter() *blendercli.Exporter {
	return blendercli.NewExporter(cfg.BlenderPath,
		blendercli.WithBlendFile(cfg.BlendFile),
		blendercli.WithLogger(logger),
	)
}

// openCatalog opens the material catalog for root, or returns nil when it is
// unavailable. The returned func closes it.
func openCatalog(root string) (ports.MaterialCatalog, func()) {
	catalog := sqlite.OpenOptional(root, logger)
	if catalog == nil {
		return nil, func() {}
	}
	return catalog, func() { catalog.Close() }
}
