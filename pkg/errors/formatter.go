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

package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// CLIFormatter renders errors for terminal output.
type CLIFormatter struct {
	ShowContext       bool
	ShowFunctionChain bool

	HeaderStyle     *color.Color
	ErrorStyle      *color.Color
	NetworkStyle    *color.Color
	ValidationStyle *color.Color
	FileSystemStyle *color.Color
	TimeoutStyle    *color.Color
	NotFoundStyle   *color.Color
	GuidanceStyle   *color.Color
	LabelStyle      *color.Color
	ValueStyle      *color.Color
}

// NewCLIFormatter creates a formatter that prints the message and guidance only
func NewCLIFormatter() *CLIFormatter {
	f := &CLIFormatter{}
	f.initStyles()
	return f
}

// NewDebugCLIFormatter creates a formatter that also prints context and call chain
func NewDebugCLIFormatter() *CLIFormatter {
	f := NewCLIFormatter()
	f.ShowContext = true
	f.ShowFunctionChain = true
	return f
}

func (f *CLIFormatter) initStyles() {
	f.HeaderStyle = color.New(color.Bold, color.FgRed)
	f.ErrorStyle = color.New(color.FgRed)
	f.NetworkStyle = color.New(color.FgYellow)
	f.ValidationStyle = color.New(color.FgMagenta)
	f.FileSystemStyle = color.New(color.FgHiRed)
	f.TimeoutStyle = color.New(color.FgHiYellow)
	f.NotFoundStyle = color.New(color.FgHiBlack)
	f.GuidanceStyle = color.New(color.FgCyan)
	f.LabelStyle = color.New(color.FgHiBlue)
	f.ValueStyle = color.New(color.FgWhite)
}

// Format formats an error for CLI display
func (f *CLIFormatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var trackedErr *TrackedError
	if !errors.As(err, &trackedErr) {
		return f.formatSimpleError(err)
	}

	parts := []string{f.formatMainMessage(trackedErr)}

	if guidance := f.getCategoryGuidance(trackedErr.Category); guidance != "" {
		parts = append(parts, f.GuidanceStyle.Sprint("  "+guidance))
	}

	if f.ShowContext && len(trackedErr.Context) > 0 {
		parts = append(parts, f.formatContextInfo(trackedErr))
	}

	if f.ShowFunctionChain && len(trackedErr.CallChain) > 0 {
		parts = append(parts, f.LabelStyle.Sprint("  Call chain: ")+f.ValueStyle.Sprint(trackedErr.GetFunctionChain()))
		if trackedErr.RootCause != nil && trackedErr.RootCause != trackedErr.Original {
			parts = append(parts, f.LabelStyle.Sprint("  Root cause: ")+f.ValueStyle.Sprint(trackedErr.RootCause.Error()))
		}
	}

	return strings.Join(parts, "\n")
}

// FormatSimple provides a one-line error format for simple display
func (f *CLIFormatter) FormatSimple(err error) string {
	if err == nil {
		return ""
	}

	var trackedErr *TrackedError
	if !errors.As(err, &trackedErr) {
		return f.formatSimpleError(err)
	}
	return f.formatMainMessage(trackedErr)
}

func (f *CLIFormatter) formatMainMessage(trackedErr *TrackedError) string {
	prefix := f.getCategoryPrefix(trackedErr.Category)
	style := f.getCategoryStyle(trackedErr.Category)
	return fmt.Sprintf("%s %s", f.HeaderStyle.Sprint(prefix), style.Sprint(trackedErr.Error()))
}

func (f *CLIFormatter) formatSimpleError(err error) string {
	return fmt.Sprintf("%s %s", f.HeaderStyle.Sprint("[ERROR]"), f.ErrorStyle.Sprint(err.Error()))
}

func (f *CLIFormatter) formatContextInfo(trackedErr *TrackedError) string {
	keys := make([]string, 0, len(trackedErr.Context))
	for k := range trackedErr.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s %s",
			f.LabelStyle.Sprintf("%s:", k),
			f.ValueStyle.Sprintf("%v", trackedErr.Context[k])))
	}
	return strings.Join(lines, "\n")
}

func (f *CLIFormatter) getCategoryGuidance(category ErrorCategory) string {
	switch category {
	case CategoryNetwork:
		return "Check your internet connection, or retry with a higher --retries value."
	case CategoryValidation:
		return "Comic numbers start at 1 and stop at the newest published comic."
	case CategoryFileSystem:
		return "Make sure the output directory is writable and no other run is using it."
	case CategoryTimeout:
		return "The request took too long; try a larger --timeout."
	case CategoryNotFound:
		return "The comic does not exist upstream."
	case CategoryRateLimit:
		return "The server asked us to slow down; lower --concurrency."
	}
	return ""
}

func (f *CLIFormatter) getCategoryPrefix(category ErrorCategory) string {
	switch category {
	case CategoryNetwork:
		return "[NETWORK]"
	case CategoryParser:
		return "[PARSING]"
	case CategoryValidation:
		return "[VALIDATION]"
	case CategoryNotFound:
		return "[NOT FOUND]"
	case CategoryRateLimit:
		return "[RATE LIMIT]"
	case CategoryFileSystem:
		return "[FILESYSTEM]"
	case CategoryDownload:
		return "[DOWNLOAD]"
	case CategoryTimeout:
		return "[TIMEOUT]"
	default:
		return "[ERROR]"
	}
}

func (f *CLIFormatter) getCategoryStyle(category ErrorCategory) *color.Color {
	switch category {
	case CategoryNetwork, CategoryRateLimit, CategoryDownload:
		return f.NetworkStyle
	case CategoryValidation, CategoryParser:
		return f.ValidationStyle
	case CategoryFileSystem:
		return f.FileSystemStyle
	case CategoryTimeout:
		return f.TimeoutStyle
	case CategoryNotFound:
		return f.NotFoundStyle
	default:
		return f.ErrorStyle
	}
}

// Global formatters for easy use
var (
	DefaultCLIFormatter = NewCLIFormatter()
	DebugCLIFormatter   = NewDebugCLIFormatter()
)

// FormatCLISimple formats an error for simple CLI display
func FormatCLISimple(err error) string {
	return DefaultCLIFormatter.FormatSimple(err)
}

// FormatCLI formats an error with category guidance
func FormatCLI(err error) string {
	return DefaultCLIFormatter.Format(err)
}

// FormatCLIDebug formats an error with debug information
func FormatCLIDebug(err error) string {
	return DebugCLIFormatter.Format(err)
}
