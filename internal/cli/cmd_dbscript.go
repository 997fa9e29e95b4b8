package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/gymlog/internal/dbscript"
)

// NewMigrateCommand is the root command of the database script generator.
func NewMigrateCommand(out io.Writer, build BuildInfo) *cobra.Command {
	return newMigrateCommand(commandDeps{
		out:     out,
		build:   build,
		globals: &globalOptions{},
		now:     time.Now,
	})
}

func newMigrateCommand(deps commandDeps) *cobra.Command {
	var (
		dataDir string
		dsn     string
	)

	cmd := &cobra.Command{
		Use:   "migrate <database_type> [output_file]",
		Short: "Generate a database migration script from the file service data",
		Long: "Reads gyms.json and equipment.json from the data directory and writes a\n" +
			"script that recreates them in MySQL, PostgreSQL, SQLite or MongoDB.",
		Example: "  migrate postgresql gym_migration.sql\n" +
			"  migrate sqlite --apply gym_equipment.db",
		Version:       deps.build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return printMigrateUsage(deps.out)
			}
			dialect, err := dbscript.ParseDialect(args[0])
			if err != nil {
				return printMigrateUsage(deps.out)
			}
			if dsn != "" && dialect != dbscript.PostgreSQL && dialect != dbscript.SQLite {
				return usageErrorf("--apply: %v", dbscript.ErrApplyUnsupported)
			}
			output := dialect.DefaultOutput()
			if len(args) == 2 {
				output = args[1]
			}

			fmt.Fprintf(deps.out, "Starting migration to %s\n", strings.ToUpper(string(dialect)))

			data := dbscript.ReadDataDir(dataDir)
			if data.Empty() {
				_, err := fmt.Fprintln(deps.out, "No data found to migrate")
				return mapCommandError(err)
			}

			script, err := dbscript.Generate(dialect, data, deps.now())
			if err != nil {
				return mapCommandError(err)
			}
			if err := os.WriteFile(output, []byte(script), 0o644); err != nil {
				return mapCommandError(fmt.Errorf("failed to write script: %w", err))
			}

			fmt.Fprintf(deps.out, "Migration script generated: %s\n", output)
			fmt.Fprintf(deps.out, "Script contains %d gyms and %d equipment items\n", len(data.Gyms), len(data.Equipment))

			if dsn != "" {
				if err := dbscript.Apply(cmd.Context(), dialect, dsn, script); err != nil {
					return mapCommandError(err)
				}
				_, err := fmt.Fprintf(deps.out, "Script applied to %s\n", dialect)
				return mapCommandError(err)
			}

			fmt.Fprintln(deps.out, "\nNext steps:")
			for _, step := range dialect.NextSteps(output) {
				fmt.Fprintln(deps.out, step)
			}
			return nil
		},
	}
	cmd.SetOut(deps.out)
	cmd.SetErr(deps.out)

	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "Directory holding gyms.json and equipment.json")
	cmd.Flags().StringVar(&dsn, "apply", "", "Run the script against this database (postgresql connection string or sqlite file)")
	return cmd
}

// printMigrateUsage reports a bad invocation the way the generator always
// has: usage text on stdout and exit status 1.
func printMigrateUsage(out io.Writer) error {
	types := make([]string, 0, len(dbscript.Dialects()))
	for _, d := range dbscript.Dialects() {
		types = append(types, string(d))
	}
	fmt.Fprintln(out, "Usage: migrate <database_type> [output_file]")
	fmt.Fprintf(out, "Database types: %s\n", strings.Join(types, ", "))
	fmt.Fprintln(out, "Example: migrate postgresql gym_migration.sql")
	return &ExitError{Code: ExitCodeGeneric}
}
