package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"meshbridge/internal/adapters/watcher"
	"meshbridge/internal/application"
	"meshbridge/internal/application/commands"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the mapping whenever materials change",
	Long: `Index the materials tree, then keep the mapping file and search catalog
up to date as material files are added, edited or removed. Stop with Ctrl-C.

Examples:
  meshbridge-cli watch
  meshbridge-cli watch --debounce 2s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		catalog, closeCatalog := openCatalog(cfg.MaterialsRoot)
		defer closeCatalog()

		rebuild := commands.NewBuildIndexCommand(newScanner(), newMappingStore(), catalog, cfg.MaterialsRoot, cfg.MappingPath)
		watchCmd := commands.NewWatchCommand(rebuild,
			watcher.New(cfg.MaterialExt, watchDebounce, logger),
			application.NewMappingCache(nil),
			logger,
		)
		watchCmd.OnRebuild = func(r *commands.BuildIndexResult) {
			fmt.Println(r.Message)
		}

		return watchCmd.Execute(ctx)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before rebuilding")
	rootCmd.AddCommand(watchCmd)
}
