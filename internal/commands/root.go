// xkcdfetch: A streamlined CLI tool for downloading xkcd comics.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"xkcdfetch/pkg/cli"
	"xkcdfetch/pkg/engine"
	"xkcdfetch/pkg/util"
)

// errRunFailed signals that output was already printed and only the exit code is left
var errRunFailed = fmt.Errorf("one or more comics failed")

// app carries the state shared by all commands of one invocation
type app struct {
	version string
	out     io.Writer
	errOut  io.Writer

	config engine.Config
	engine *engine.Engine
	fmt    *cli.Formatter

	debugMode    bool
	verboseMode  bool
	apiMode      bool
	noColor      bool
	disableStore bool
}

// NewRootCommand builds the command tree writing to out and errOut
func NewRootCommand(version string, out, errOut io.Writer) *cobra.Command {
	a := &app{
		version: version,
		out:     out,
		errOut:  errOut,
		config:  engine.DefaultConfig(),
	}

	rootCmd := &cobra.Command{
		Use:   "xkcdfetch",
		Short: "xkcdfetch downloads xkcd comics.",
		Long: "xkcdfetch downloads xkcd comics by range, list, random sample or latest, " +
			"fetching metadata and images with a bounded pool of concurrent workers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&a.debugMode, "debug", false, "Enable debug logging and detailed error output")
	flags.BoolVar(&a.verboseMode, "verbose", false, "Mirror the log to stderr and show error call chains")
	flags.BoolVar(&a.apiMode, "api", false, "Print machine readable JSON instead of text")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&a.config.LogFile, "log-file", a.config.LogFile, "Log file location")
	flags.StringVar(&a.config.HistoryPath, "history-db", a.config.HistoryPath, "Download history database")
	flags.BoolVar(&a.disableStore, "no-history", false, "Do not record downloads in the history database")
	flags.StringVar(&a.config.Source, "source", a.config.Source, "Metadata source: json or html")
	flags.StringVar(&a.config.BaseURL, "base-url", a.config.BaseURL, "Comic server base URL")
	_ = flags.MarkHidden("base-url")

	rootCmd.AddCommand(
		a.newDownloadCommand(),
		a.newInfoCommand(),
		a.newHistoryCommand(),
		a.newVersionCommand(),
	)
	for _, sub := range rootCmd.Commands() {
		a.closeAfter(sub)
	}

	return rootCmd
}

// setup builds the engine once flags are parsed
func (a *app) setup() error {
	a.fmt = cli.NewFormatterTo(a.out, a.noColor || a.apiMode)
	a.config.NoHistory = a.disableStore

	if a.engine != nil {
		return nil
	}

	eng, err := engine.New(a.config)
	if err != nil {
		return a.fail(err)
	}
	a.engine = eng

	if a.debugMode {
		a.engine.SetDebugMode(true)
	}
	if a.verboseMode {
		a.engine.SetVerboseMode(true)
	}
	return nil
}

// closeAfter shuts the engine down once cmd finished, whether it failed or not
func (a *app) closeAfter(cmd *cobra.Command) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		defer a.shutdown()
		return run(cmd, args)
	}
}

func (a *app) shutdown() {
	if a.engine == nil {
		return
	}
	_ = a.engine.Shutdown()
	a.engine = nil
}

// fail prints err in the active output mode and returns errRunFailed
func (a *app) fail(err error) error {
	if a.apiMode {
		_ = util.WriteJSON(a.out, "error", nil, err)
	} else if a.engine != nil {
		a.fmt.PrintError(a.engine.FormatError(err))
	} else {
		a.fmt.HandleError(err)
	}
	return errRunFailed
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context, version string, args []string) int {
	rootCmd := NewRootCommand(version, os.Stdout, os.Stderr)
	rootCmd.SetArgs(NormalizeArgs(args))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if err != errRunFailed {
			_, _ = fmt.Fprintf(os.Stderr, "Oops. An error while executing xkcdfetch: %s\n", err)
		}
		return 1
	}
	return 0
}
