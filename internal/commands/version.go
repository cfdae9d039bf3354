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
	"runtime"

	"github.com/spf13/cobra"

	"xkcdfetch/pkg/util"
)

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display detailed version information for xkcdfetch, including the log file location.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logFile := a.config.LogFile

			if a.apiMode {
				versionData := map[string]interface{}{
					"version":    a.version,
					"go_version": runtime.Version(),
					"os":         runtime.GOOS,
					"arch":       runtime.GOARCH,
				}
				if logFile != "" {
					versionData["log_file"] = logFile
				} else {
					versionData["log_file"] = "disabled"
				}

				return util.WriteJSON(a.out, "success", versionData, nil)
			}

			a.fmt.PrintVersionInfo(a.version, runtime.Version(), runtime.GOOS, runtime.GOARCH, logFile)
			return nil
		},
	}
}
