package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"meshbridge/internal/application/commands"
	"meshbridge/internal/domain"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed materials",
	Long: `Search the material catalog by name, GUID or source path.

Results are ranked by relevance using fuzzy matching. Run "index" first to
populate the catalog. Without a catalog the mapping file is searched.

Examples:
  meshbridge-cli search metal
  meshbridge-cli search wd_ok`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		ctx := context.Background()

		catalog, closeCatalog := openCatalog(cfg.MaterialsRoot)
		defer closeCatalog()

		var results []commands.SearchResult
		var total int
		if catalog != nil {
			if catalog.NeedsFullRebuild() {
				logger.Warn("catalog is empty or stale, run index first", "root", cfg.MaterialsRoot)
			}
			var err error
			results, err = commands.NewSearchCommand(catalog, query).Execute(ctx)
			if err != nil {
				return err
			}
			if total, err = catalog.Count(); err != nil {
				return err
			}
		} else {
			mapping, err := commands.NewLoadMappingCommand(newMappingStore(), cfg.MappingPath).Execute(ctx)
			if err != nil {
				return err
			}
			records := mapping.Records()
			entries := make([]domain.CatalogEntry, 0, len(records))
			for _, r := range records {
				entries = append(entries, domain.CatalogEntry{Name: r.Name, GUID: r.GUID})
			}
			results = commands.FuzzySort(entries, query)
			total = len(entries)
		}

		if len(results) == 0 {
			fmt.Printf("No results among %d materials\n", total)
			return nil
		}

		if searchLimit > 0 && len(results) > searchLimit {
			results = results[:searchLimit]
		}
		for _, r := range results {
			fmt.Printf("%s %s %s\n", r.Name, r.GUID, r.SourcePath)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results (0 for all)")
	rootCmd.AddCommand(searchCmd)
}
