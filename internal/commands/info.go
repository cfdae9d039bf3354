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
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"xkcdfetch/pkg/engine/history"
	"xkcdfetch/pkg/errors"
	"xkcdfetch/pkg/provider/xkcd"
	"xkcdfetch/pkg/util"
)

// ComicInfo is the API shape of the info command
type ComicInfo struct {
	Comic *xkcd.Comic     `json:"comic"`
	Saved []history.Entry `json:"saved,omitempty"`
}

func (a *app) newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <number|latest>",
		Short: "Show metadata of a comic",
		Long:  `Show title, date, image URL, alt text and transcript of a comic, plus where it was saved before.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseComicArg(args[0])
			if err != nil {
				return a.fail(err)
			}

			comic, err := a.engine.Comic(cmd.Context(), id)
			if err != nil {
				return a.fail(err)
			}

			var saved []history.Entry
			if a.engine.History != nil {
				saved, err = a.engine.History.Get(cmd.Context(), comic.Num)
				if err != nil && !errors.IsNotFound(err) {
					a.engine.Logger.Warn("History lookup for comic %d failed: %v", comic.Num, err)
				}
			}

			if a.apiMode {
				_ = util.WriteJSON(a.out, "success", ComicInfo{Comic: comic, Saved: saved}, nil)
				return nil
			}
			a.fmt.PrintComicInfo(comic, saved)
			return nil
		},
	}
}

// parseComicArg maps "latest" to 0 and validates numbers
func parseComicArg(arg string) (int, error) {
	if strings.EqualFold(arg, "latest") {
		return 0, nil
	}

	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Track(fmt.Errorf("%w: %q is neither a comic number nor \"latest\"", errors.ErrInvalidInput, arg)).
			AsValidation().
			Error()
	}
	if id < 1 {
		return 0, errors.Track(&errors.InvalidIdentifierError{ID: id, Reason: "comic numbers start at 1"}).
			AsValidation().
			Error()
	}
	return id, nil
}
