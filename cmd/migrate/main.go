// Command migrate generates MySQL, PostgreSQL, SQLite or MongoDB scripts from
// the JSON files written by the file service.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mmynk/gymlog/internal/cli"
	"github.com/mmynk/gymlog/internal/version"
	"github.com/mmynk/gymlog/pkg/logging"
)

func main() {
	logging.Setup()

	cmd := cli.NewMigrateCommand(os.Stdout, cli.BuildInfo{
		Version:   version.Version,
		Commit:    version.Commit,
		BuildTime: version.BuildTime,
	})
	if err := cmd.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "Error:", msg)
		}
		var withExitCode interface{ ExitCode() int }
		if errors.As(err, &withExitCode) {
			os.Exit(withExitCode.ExitCode())
		}
		os.Exit(1)
	}
}
