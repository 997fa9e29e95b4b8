package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mmynk/gymlog/internal/service"
	"github.com/mmynk/gymlog/internal/tui"
)

func newTUICommand(deps commandDeps) *cobra.Command {
	var exportDir string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("tui does not accept positional arguments")
			}
			return runTUIWithExportDir(cmd.Context(), deps, exportDir)
		},
	}

	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "Directory that receives exported files")
	return cmd
}

func runTUI(ctx context.Context, deps commandDeps) error {
	return runTUIWithExportDir(ctx, deps, ".")
}

func runTUIWithExportDir(ctx context.Context, deps commandDeps, exportDir string) error {
	if !deps.isTTY() {
		return usageErrorf("the terminal UI requires a tty; use the gym and equipment subcommands instead")
	}
	return withInventory(ctx, deps, true, func(_ context.Context, inventory *service.InventoryService) error {
		return tui.Run(tui.Options{
			Inventory: inventory,
			ExportDir: exportDir,
			IsTTY:     deps.isTTY,
		})
	})
}
