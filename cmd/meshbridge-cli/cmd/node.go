package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"meshbridge/internal/adapters/filesystem"
	"meshbridge/internal/application/commands"
)

var (
	nodeSurfaces []string
	nodeOutput   string
	nodeStrict   bool
)

var nodeCmd = &cobra.Command{
	Use:   "node <name> <mesh-path>",
	Short: "Generate a scene node for a mesh",
	Long: `Generate the scene-node document binding each surface of a mesh to its
material GUID. Without --output the document is printed.

Examples:
  meshbridge-cli node crate ~/proj/data/worlds/props/crate.mesh -s Body -s Glass
  meshbridge-cli node crate crate.mesh -s Body -o crate.node --strict`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		mapping, err := commands.NewLoadMappingCommand(newMappingStore(), cfg.MappingPath).Execute(ctx)
		if err != nil {
			return err
		}

		nodeCmd := commands.NewSynthesizeNodeCommand(mapping, filesystem.NewArtifacts(), args[0], args[1], nodeSurfaces, cfg.NodeOptions())
		nodeCmd.OutputPath = nodeOutput
		nodeCmd.Strict = nodeStrict

		result, err := nodeCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, name := range result.Missing {
			logger.Warn("surface has no indexed material", "surface", name)
		}
		if result.OutputPath == "" {
			fmt.Fprint(os.Stdout, result.Document)
			return nil
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	nodeCmd.Flags().StringArrayVarP(&nodeSurfaces, "surface", "s", nil, "surface object name, in mesh order (repeatable)")
	nodeCmd.Flags().StringVarP(&nodeOutput, "output", "o", "", "write the node file here")
	nodeCmd.Flags().BoolVar(&nodeStrict, "strict", false, "fail when a surface has no indexed material")
	rootCmd.AddCommand(nodeCmd)
}
