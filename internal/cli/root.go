package cli

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

type globalOptions struct {
	ConfigPath string
	JSON       bool
}

type commandDeps struct {
	out     io.Writer
	build   BuildInfo
	globals *globalOptions
	now     func() time.Time
	isTTY   func() bool
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	return newRootCommand(commandDeps{
		out:     out,
		build:   build,
		globals: &globalOptions{},
		now:     time.Now,
		isTTY:   stdoutIsTTY,
	})
}

func newRootCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gymlog",
		Short: "Track the equipment available at the gyms you train in",
		Long: "gymlog keeps an inventory of gyms and their equipment.\n" +
			"Run without a subcommand to open the terminal UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), deps)
		},
	}
	cmd.SetOut(deps.out)
	cmd.SetErr(deps.out)

	cmd.PersistentFlags().StringVar(&deps.globals.ConfigPath, "config", "", "Path to config.toml")
	cmd.PersistentFlags().BoolVar(&deps.globals.JSON, "json", false, "Print JSON output")

	cmd.AddCommand(
		newTUICommand(deps),
		newGymCommand(deps),
		newEquipmentCommand(deps),
		newCategoriesCommand(deps),
		newExportCommand(deps),
		newMigrateStorageCommand(deps),
		newVersionCommand(deps),
	)
	return cmd
}

func stdoutIsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
