package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"meshbridge/internal/adapters/filesystem"
	"meshbridge/internal/application/commands"
)

var (
	exportDest     string
	exportName     string
	exportFBX      string
	exportScale    float64
	exportSurfaces []string
	exportStrict   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a mesh from Blender into the project",
	Long: `Export the selected Blender objects to FBX, convert the FBX with the mesh
importer, move the mesh into the destination folder and write its scene node.

With --fbx an existing FBX file is converted instead of running Blender.

Examples:
  meshbridge-cli export --name crate --dest ~/proj/data/worlds/props
  meshbridge-cli export --fbx crate.fbx --name crate -s Body -s Glass`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		converter, err := newConverter()
		if err != nil {
			return err
		}
		mapping, err := commands.NewLoadMappingCommand(newMappingStore(), cfg.MappingPath).Execute(ctx)
		if err != nil {
			return err
		}
		if mapping.Len() == 0 {
			logger.Warn("material mapping is empty, run index first", "mapping", cfg.MappingPath)
		}

		deps := commands.ExportDeps{
			Converter: converter,
			Artifacts: filesystem.NewArtifacts(),
			Mapping:   mapping,
			Logger:    logger,
		}
		if exportFBX == "" {
			deps.Exporter = newExporter()
		}

		exportCmd := commands.NewExportCommand(deps, cfg.ExportRoot, pick(exportDest, cfg.MeshDest), pick(exportName, cfg.MeshName))
		exportCmd.GlobalScale = cfg.GlobalScale
		if cmd.Flags().Changed("scale") {
			exportCmd.GlobalScale = exportScale
		}
		exportCmd.NodeOptions = cfg.NodeOptions()
		exportCmd.SourceFBX = exportFBX
		exportCmd.Surfaces = exportSurfaces
		exportCmd.Strict = exportStrict

		result, err := exportCmd.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		fmt.Printf("Node: %s\n", result.NodePath)
		return nil
	},
}

var importOutput string

var importCmd = &cobra.Command{
	Use:   "import <mesh-path>",
	Short: "Convert an engine mesh back to FBX",
	Long: `Run the mesh importer in reverse to turn a .mesh file into FBX.

Examples:
  meshbridge-cli import ~/proj/data/worlds/props/crate.mesh
  meshbridge-cli import crate.mesh -o /tmp/crate.fbx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		converter, err := newConverter()
		if err != nil {
			return err
		}

		importCmd := commands.NewImportCommand(converter, filesystem.NewArtifacts(), args[0], importOutput)
		result, err := importCmd.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDest, "dest", "d", "", "destination folder for the mesh and node (default from config)")
	exportCmd.Flags().StringVarP(&exportName, "name", "n", "", "mesh and node base name (default from config)")
	exportCmd.Flags().StringVar(&exportFBX, "fbx", "", "convert this FBX instead of exporting from Blender")
	exportCmd.Flags().Float64Var(&exportScale, "scale", 0, "FBX global scale (default from config)")
	exportCmd.Flags().StringArrayVarP(&exportSurfaces, "surface", "s", nil, "surface object name, overrides the exported object list (repeatable)")
	exportCmd.Flags().BoolVar(&exportStrict, "strict", false, "fail when a surface has no indexed material")

	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "FBX file to write (default: mesh path with .fbx)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
