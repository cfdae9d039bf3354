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
	"context"

	"xkcdfetch/pkg/engine/download"
	"xkcdfetch/pkg/engine/history"
	"xkcdfetch/pkg/engine/logger"
	"xkcdfetch/pkg/engine/network"
	"xkcdfetch/pkg/engine/progress"
	"xkcdfetch/pkg/errors"
	"xkcdfetch/pkg/provider/xkcd"
)

// Downloader persists images and guards output directories
type Downloader interface {
	Save(ctx context.Context, url, destPath string) (*download.Written, error)
	Lock(dir string) (func() error, error)
}

// Engine is the central component wiring the services together
type Engine struct {
	Network  *network.Client
	Source   xkcd.Source
	Download Downloader
	History  *history.Store
	Progress progress.Reporter
	Logger   logger.Logger

	config Config

	// Error formatting options
	debugMode   bool
	verboseMode bool
}

// New creates an Engine from cfg
func New(cfg Config) (*Engine, error) {
	log := logger.NewService(cfg.LogFile)
	e, err := NewWithLogger(cfg, log)
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	return e, nil
}

// NewWithLogger creates an Engine that logs to log
func NewWithLogger(cfg Config, log logger.Logger) (*Engine, error) {
	if log == nil {
		log = logger.Nop{}
	}

	client := network.NewClient(log, cfg.Retries)
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}
	client.Throttle = cfg.Throttle

	source, err := xkcd.New(cfg.Source, client, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	downloads := download.NewService(client, log)
	downloads.SetOverwrite(cfg.Overwrite)

	e := &Engine{
		Network:  client,
		Source:   source,
		Download: downloads,
		Progress: progress.Nop{},
		Logger:   log,
		config:   cfg,
	}

	if !cfg.NoHistory && cfg.HistoryPath != "" {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			// Downloads proceed without a ledger
			log.Warn("History disabled: %v", err)
		} else {
			e.History = store
		}
	}

	log.Info("Engine initialized (source=%s, concurrency=%d, retries=%d)", source.Name(), cfg.Concurrency, cfg.Retries)
	return e, nil
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() Config {
	return e.config
}

// Comic fetches metadata for id, or for the newest comic when id is 0
func (e *Engine) Comic(ctx context.Context, id int) (*xkcd.Comic, error) {
	if id == 0 {
		return e.Source.Latest(ctx)
	}
	return e.Source.Comic(ctx, id)
}

// Recent lists the download ledger, newest first
func (e *Engine) Recent(ctx context.Context, limit int) ([]history.Entry, error) {
	if e.History == nil {
		return nil, errors.New("download history is disabled").
			AsValidation().
			WithMessage("Download history is disabled (--no-history or no home directory)").
			Error()
	}
	return e.History.List(ctx, limit)
}

// Shutdown releases the ledger and the log file
func (e *Engine) Shutdown() error {
	e.Logger.Info("Shutting down engine...")

	var firstErr error
	if e.History != nil {
		if err := e.History.Close(); err != nil {
			firstErr = err
		}
	}

	if closer, ok := e.Logger.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// SetDebugMode switches the log level to debug
func (e *Engine) SetDebugMode(enabled bool) {
	e.debugMode = enabled
	if enabled {
		e.Logger.SetLevel(logger.LevelDebug)
		e.Logger.Debug("Debug mode enabled")
	} else if !e.verboseMode {
		e.Logger.SetLevel(logger.LevelInfo)
	}
}

// SetVerboseMode switches to debug level and mirrors the log to stderr
func (e *Engine) SetVerboseMode(enabled bool) {
	e.verboseMode = enabled
	if enabled {
		e.Logger.SetLevel(logger.LevelDebug)
		if loggerService, ok := e.Logger.(*logger.Service); ok {
			loggerService.SetConsoleOutput(true)
		}
		e.Logger.Info("Verbose mode enabled")
	} else {
		if !e.debugMode {
			e.Logger.SetLevel(logger.LevelInfo)
		}
		if loggerService, ok := e.Logger.(*logger.Service); ok {
			loggerService.SetConsoleOutput(false)
		}
	}
}

// FormatError formats an error based on the current verbosity settings
func (e *Engine) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if e.verboseMode {
		return errors.FormatCLIDebug(err)
	} else if e.debugMode {
		return errors.FormatCLI(err)
	}
	return errors.FormatCLISimple(err)
}
