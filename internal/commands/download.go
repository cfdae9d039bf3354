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
	"github.com/spf13/cobra"

	"xkcdfetch/pkg/engine"
	"xkcdfetch/pkg/engine/progress"
	"xkcdfetch/pkg/engine/resolve"
	"xkcdfetch/pkg/util"
)

type downloadFlags struct {
	output      string
	rng         resolve.Range
	list        []int
	random      int
	latest      bool
	numbered    bool
	concurrency int
	force       bool
	quiet       bool
}

func (a *app) newDownloadCommand() *cobra.Command {
	f := &downloadFlags{}

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download comics",
		Long: `Download xkcd comics into a local directory.

Selectors can be combined; their union is downloaded. Without a selector
comics 1 to 99 are fetched. Comic 404 does not exist and is always skipped.`,
		Example: `  xkcdfetch download --range 1 5
  xkcdfetch download --list 404 10 10 -o comics
  xkcdfetch download --random 3 --latest --numbered`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := engine.Request{
				Options: resolve.Options{
					List:   f.list,
					Latest: f.latest,
				},
				OutputDir: f.output,
				Numbered:  &f.numbered,
			}
			if cmd.Flags().Changed("range") {
				r := f.rng
				req.Options.Range = &r
			}
			if cmd.Flags().Changed("random") {
				req.Options.Random = f.random
			}

			return a.runDownload(cmd, req, f)
		},
	}

	cfg := a.config
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", cfg.OutputDir, "Output directory")
	flags.VarP(&f.rng, "range", "r", "Half-open range of comics, e.g. 1:5 downloads 1 to 4")
	flags.IntSliceVarP(&f.list, "list", "l", nil, "Explicit comic numbers, comma separated or repeated")
	flags.IntVar(&f.random, "random", 0, "Download a random sample of this many comics")
	flags.Lookup("random").NoOptDefVal = "1"
	flags.BoolVar(&f.latest, "latest", false, "Include the newest comic")
	flags.BoolVarP(&f.numbered, "numbered", "n", false, "Prefix file names with the comic number")
	flags.IntVarP(&a.config.Concurrency, "concurrency", "c", cfg.Concurrency, "Maximum number of concurrent downloads")
	flags.DurationVar(&a.config.UnitTimeout, "timeout", cfg.UnitTimeout, "Timeout for each comic")
	flags.IntVar(&a.config.Retries, "retries", cfg.Retries, "Retries for transient network failures")
	flags.BoolVarP(&a.config.Overwrite, "force", "f", false, "Overwrite files that already exist")
	flags.BoolVarP(&f.quiet, "quiet", "q", false, "Do not draw a progress bar")

	return cmd
}

func (a *app) runDownload(cmd *cobra.Command, req engine.Request, f *downloadFlags) error {
	if !a.apiMode {
		a.fmt.PrintRunPlan(a.engine.Config(), req.OutputDir)
	}
	if !a.apiMode && !f.quiet {
		a.engine.Progress = progress.NewBar(cmd.ErrOrStderr())
	}

	report, err := a.engine.Run(cmd.Context(), req)

	if a.apiMode {
		status := "success"
		if err == nil && report.Failed > 0 {
			status = "partial"
		}
		_ = util.WriteJSON(a.out, status, report, err)
		if err != nil || report.Failed > 0 {
			return errRunFailed
		}
		return nil
	}

	if report != nil {
		a.fmt.PrintReport(report)
	}
	if err != nil {
		return a.fail(err)
	}
	if report.Failed > 0 {
		return errRunFailed
	}
	return nil
}
