package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"meshbridge/internal/application/commands"
	"meshbridge/internal/ports"
)

var (
	indexRoot      string
	indexOutput    string
	indexNoCatalog bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the material GUID mapping",
	Long: `Scan the materials tree for material files and write the name to GUID
mapping file. The searchable catalog is refreshed as well.

Examples:
  meshbridge-cli index
  meshbridge-cli index --root ~/proj/data/materials --output guids.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		root := pick(indexRoot, cfg.MaterialsRoot)

		var catalog ports.MaterialCatalog
		if !indexNoCatalog {
			c, closeCatalog := openCatalog(root)
			defer closeCatalog()
			catalog = c
		}

		indexCmd := commands.NewBuildIndexCommand(newScanner(), newMappingStore(), catalog, root, pick(indexOutput, cfg.MappingPath))
		result, err := indexCmd.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <name>...",
	Short: "Resolve material names to GUIDs",
	Long: `Look up material names in the persisted mapping. Names that are not
indexed resolve to the default GUID and are flagged. When the catalog is
available the defining material file is shown too.

Examples:
  meshbridge-cli lookup metal_rough
  meshbridge-cli lookup Body Glass Chrome`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		mapping, err := commands.NewLoadMappingCommand(newMappingStore(), cfg.MappingPath).Execute(ctx)
		if err != nil {
			return err
		}

		catalog, closeCatalog := openCatalog(cfg.MaterialsRoot)
		defer closeCatalog()

		lookup := commands.NewLookupCommand(mapping, args)
		lookup.Catalog = catalog
		results, err := lookup.Execute(ctx)
		if err != nil {
			return err
		}

		for _, r := range results {
			switch {
			case !r.Found:
				fmt.Printf("%s %s (not indexed)\n", r.Name, r.GUID)
			case r.SourcePath != "":
				fmt.Printf("%s %s %s\n", r.Name, r.GUID, r.SourcePath)
			default:
				fmt.Printf("%s %s\n", r.Name, r.GUID)
			}
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVarP(&indexRoot, "root", "r", "", "materials root (default from config)")
	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", "", "mapping file to write (default from config)")
	indexCmd.Flags().BoolVar(&indexNoCatalog, "no-catalog", false, "skip refreshing the search catalog")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(lookupCmd)
}
