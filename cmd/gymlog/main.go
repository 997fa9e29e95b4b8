// Command gymlog is the inventory front end: a terminal UI plus scriptable
// subcommands over the configured storage backend.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mmynk/gymlog/internal/cli"
	"github.com/mmynk/gymlog/internal/version"
)

func main() {
	cmd := cli.NewRootCommand(os.Stdout, cli.BuildInfo{
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
