package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/gymlog/internal/app"
	"github.com/mmynk/gymlog/internal/migration"
)

func newMigrateStorageCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-storage",
		Short: "Copy gyms and equipment from local storage to the file service",
		Long: "Reads every gym and piece of equipment from the local store and writes them\n" +
			"to the file service. Existing files on the service are overwritten.\n" +
			"Nothing happens when the configured storage mode is already file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("migrate-storage does not accept positional arguments")
			}
			cfg, closer, err := loadConfig(deps, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			source, err := app.OpenLocal(cfg.Storage)
			if err != nil {
				return mapCommandError(err)
			}
			defer source.Close()
			destination := app.OpenRemote(cfg.Storage)
			defer destination.Close()

			migrator := &migration.Migrator{
				Mode:        cfg.Storage.Mode,
				Source:      source,
				Destination: destination,
			}
			report, err := migrator.Run(cmd.Context())
			if err != nil {
				return mapCommandError(err)
			}

			if deps.globals.JSON {
				return mapCommandError(printJSON(deps.out, report))
			}
			if report.Skipped {
				_, err = fmt.Fprintln(deps.out, "Already using file storage; nothing to migrate.")
				return mapCommandError(err)
			}
			_, err = fmt.Fprintf(deps.out, "Migrated %d gyms and %d equipment items to %s\n",
				report.Gyms, report.Equipment, cfg.Storage.FileServiceURL)
			return mapCommandError(err)
		},
	}
}
