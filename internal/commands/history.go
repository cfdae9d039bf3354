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

	"xkcdfetch/pkg/util"
)

func (a *app) newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List downloaded comics",
		Long:  `List the most recent downloads recorded in the history database.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.engine.Recent(cmd.Context(), limit)
			if err != nil {
				return a.fail(err)
			}

			if a.apiMode {
				_ = util.WriteJSON(a.out, "success", entries, nil)
				return nil
			}
			a.fmt.PrintHistory(entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show")
	return cmd
}
