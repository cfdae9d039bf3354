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
	"strconv"
	"strings"
)

// NormalizeArgs rewrites the space separated multi-value forms into single
// flag values pflag understands:
//
//	--range 1 5        -> --range=1:5
//	--list 404 10 10   -> --list=404,10,10
//	--random 3         -> --random=3
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--":
			return append(out, args[i:]...)

		case "-r", "--range":
			if i+2 < len(args) && isInt(args[i+1]) && isInt(args[i+2]) {
				out = append(out, "--range="+args[i+1]+":"+args[i+2])
				i += 2
				continue
			}

		case "-l", "--list":
			var values []string
			j := i + 1
			for ; j < len(args) && isIntList(args[j]); j++ {
				values = append(values, args[j])
			}
			if len(values) > 0 {
				out = append(out, "--list="+strings.Join(values, ","))
				i = j - 1
				continue
			}

		case "--random":
			if i+1 < len(args) && isInt(args[i+1]) {
				out = append(out, "--random="+args[i+1])
				i++
				continue
			}
		}

		out = append(out, arg)
	}

	return out
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil && !strings.HasPrefix(s, "-")
}

func isIntList(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ",") {
		if !isInt(strings.TrimSpace(part)) {
			return false
		}
	}
	return true
}
