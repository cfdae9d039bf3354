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

package engine

import (
	"os"
	"path/filepath"
	"time"

	"xkcdfetch/pkg/engine/network"
	"xkcdfetch/pkg/engine/pool"
	"xkcdfetch/pkg/provider/xkcd"
)

// Config holds everything needed to build an Engine
type Config struct {
	OutputDir   string
	Concurrency int
	UnitTimeout time.Duration
	Retries     int
	Throttle    time.Duration

	BaseURL   string
	UserAgent string
	Source    string

	LogFile     string
	HistoryPath string
	NoHistory   bool

	Overwrite bool
	Numbered  bool
}

// DefaultConfig returns the settings used when no flag overrides them
func DefaultConfig() Config {
	dataDir := DataDir()

	cfg := Config{
		OutputDir:   "xkcd_comics",
		Concurrency: pool.DefaultLimit,
		UnitTimeout: pool.DefaultUnitTimeout,
		Retries:     3,
		BaseURL:     xkcd.DefaultBaseURL,
		UserAgent:   network.DefaultUserAgent,
		Source:      "json",
	}
	if dataDir != "" {
		cfg.LogFile = filepath.Join(dataDir, "logs", "xkcdfetch.log")
		cfg.HistoryPath = filepath.Join(dataDir, "history.db")
	}
	return cfg
}

// DataDir is the per-user state directory, or "" when there is no home
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".xkcdfetch")
}
