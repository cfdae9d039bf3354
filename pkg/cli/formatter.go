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

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"xkcdfetch/pkg/engine"
	"xkcdfetch/pkg/engine/history"
	pkgerrors "xkcdfetch/pkg/errors" // Use alias for package errors
	"xkcdfetch/pkg/provider/xkcd"
	"xkcdfetch/pkg/util"
)

// Formatter handles all CLI output formatting
type Formatter struct {
	// Writer is where the formatted output will be written
	Writer io.Writer

	// DisableColor disables colorized output
	DisableColor bool

	// Styles for different elements
	HeaderStyle      *color.Color
	TitleStyle       *color.Color
	SuccessStyle     *color.Color
	ErrorStyle       *color.Color
	WarningStyle     *color.Color
	InfoStyle        *color.Color
	HighlightStyle   *color.Color
	SecondaryStyle   *color.Color
	DetailLabelStyle *color.Color
	DetailValueStyle *color.Color
	IDStyle          *color.Color
	PathStyle        *color.Color
	NumberStyle      *color.Color
}

// NewFormatter creates a new CLI formatter with default settings
func NewFormatter() *Formatter {
	return NewFormatterTo(os.Stdout, false)
}

// NewFormatterTo creates a formatter writing to w
func NewFormatterTo(w io.Writer, disableColor bool) *Formatter {
	f := &Formatter{
		Writer:       w,
		DisableColor: disableColor,
	}
	f.initStyles()
	return f
}

// initStyles sets up all the color styles
func (f *Formatter) initStyles() {
	if f.DisableColor {
		color.NoColor = true
	}

	f.HeaderStyle = color.New(color.Bold, color.FgCyan)
	f.TitleStyle = color.New(color.Bold, color.FgWhite)
	f.SuccessStyle = color.New(color.FgGreen)
	f.ErrorStyle = color.New(color.FgRed)
	f.WarningStyle = color.New(color.FgYellow)
	f.InfoStyle = color.New(color.FgBlue)
	f.HighlightStyle = color.New(color.FgMagenta)
	f.SecondaryStyle = color.New(color.FgHiBlack)
	f.DetailLabelStyle = color.New(color.FgHiBlue)
	f.DetailValueStyle = color.New(color.FgWhite)
	f.IDStyle = color.New(color.FgHiMagenta)
	f.PathStyle = color.New(color.FgHiGreen)
	f.NumberStyle = color.New(color.FgHiYellow)
}

// PrintHeader prints a header section
func (f *Formatter) PrintHeader(text string) {
	_, _ = f.HeaderStyle.Fprintln(f.Writer, text)
	f.PrintDivider()
}

// PrintTitle prints a title
func (f *Formatter) PrintTitle(text string) {
	_, _ = f.TitleStyle.Fprintln(f.Writer, text)
}

// PrintSuccess prints a success message
func (f *Formatter) PrintSuccess(text string) {
	_, _ = f.SuccessStyle.Fprintln(f.Writer, text)
}

// PrintError prints an error message
func (f *Formatter) PrintError(text string) {
	_, _ = f.ErrorStyle.Fprintln(f.Writer, text)
}

// PrintWarning prints a warning message
func (f *Formatter) PrintWarning(text string) {
	_, _ = f.WarningStyle.Fprintln(f.Writer, text)
}

// PrintDetail prints a labeled detail
func (f *Formatter) PrintDetail(label, value string) {
	_, _ = f.DetailLabelStyle.Fprintf(f.Writer, "%s: ", label)
	_, _ = f.DetailValueStyle.Fprintln(f.Writer, value)
}

// PrintDivider prints a horizontal divider
func (f *Formatter) PrintDivider() {
	_, _ = fmt.Fprintln(f.Writer, strings.Repeat("-", 80))
}

// PrintNewLine prints a blank line
func (f *Formatter) PrintNewLine() {
	_, _ = fmt.Fprintln(f.Writer, "")
}

// FormatID formats a comic number
func (f *Formatter) FormatID(id int) string {
	return f.IDStyle.Sprintf("#%d", id)
}

// FormatPath formats a file path
func (f *Formatter) FormatPath(path string) string {
	return f.PathStyle.Sprint(path)
}

// FormatNumber formats a number with styling
func (f *Formatter) FormatNumber(num interface{}) string {
	return f.NumberStyle.Sprintf("%v", num)
}

// PrintTable prints data in a table format
func (f *Formatter) PrintTable(headers []string, data [][]string) {
	table := tablewriter.NewTable(f.Writer)
	table.Configure(func(tableConfig *tablewriter.Config) {
		tableConfig.Header.Alignment.Global = tw.AlignLeft
		tableConfig.Row.Alignment.Global = tw.AlignLeft
		tableConfig.Header.Padding.Global = tw.Padding{
			Left:  " ",
			Right: " ",
		}
		tableConfig.Row.Padding.Global = tw.Padding{
			Left:  " ",
			Right: " ",
		}
	})

	table.Header(headers)
	if err := table.Bulk(data); err != nil {
		return
	}
	_ = table.Render()
}

// HandleError handles and formats any error, including regular Go errors
// It returns true if an error was handled, false otherwise
func (f *Formatter) HandleError(err error) bool {
	if err == nil {
		return false
	}

	var trackedError *pkgerrors.TrackedError
	if errors.As(err, &trackedError) {
		f.PrintError(pkgerrors.FormatCLI(err))
	} else {
		f.PrintError(fmt.Sprintf("[ERROR] %s", err.Error()))
	}

	return true
}

// PrintRunPlan describes what a download run is about to do
func (f *Formatter) PrintRunPlan(cfg engine.Config, outDir string) {
	f.PrintHeader("xkcd Download")
	f.PrintDetail("Output directory", f.FormatPath(outDir))
	f.PrintDetail("Metadata source", f.InfoStyle.Sprint(cfg.Source))
	f.PrintDetail("Concurrency", f.FormatNumber(cfg.Concurrency))
	f.PrintDetail("Timeout per comic", cfg.UnitTimeout.String())
	if cfg.Overwrite {
		f.PrintDetail("Existing files", f.WarningStyle.Sprint("overwritten"))
	}
	f.PrintNewLine()
}

// PrintReport prints the run summary: failures, counts, size and timing
func (f *Formatter) PrintReport(report *engine.Report) {
	f.PrintNewLine()

	if failures := report.Failures(); len(failures) > 0 {
		f.PrintHeader("Failed Comics")
		data := make([][]string, len(failures))
		for i, res := range failures {
			data[i] = []string{
				strconv.Itoa(res.ID),
				category(res.Err),
				pkgerrors.FormatCLISimple(res.Err),
			}
		}
		f.PrintTable([]string{"NUM", "KIND", "ERROR"}, data)
		f.PrintNewLine()
	}

	f.PrintHeader("Summary")
	f.PrintDetail("Comics requested", f.FormatNumber(len(report.Jobs)))
	f.PrintDetail("Downloaded", f.SuccessStyle.Sprint(report.Succeeded))
	if report.Skipped > 0 {
		f.PrintDetail("Already present", f.SecondaryStyle.Sprint(report.Skipped))
	}
	if report.Failed > 0 {
		f.PrintDetail("Failed", f.ErrorStyle.Sprint(report.Failed))
	}
	f.PrintDetail("Total size", humanize.Bytes(uint64(report.TotalBytes)))
	f.PrintDetail("Saved to", f.FormatPath(report.OutputDir))
	f.PrintNewLine()

	if report.Failed == 0 {
		f.PrintSuccess("All comics are on disk.")
	}

	_, _ = fmt.Fprintf(f.Writer, "Time took: %s\n", util.FormatElapsed(report.Elapsed))
}

// PrintComicInfo prints the metadata of one comic and where it was saved before
func (f *Formatter) PrintComicInfo(comic *xkcd.Comic, saved []history.Entry) {
	title := comic.SafeTitle
	if title == "" {
		title = comic.Title
	}
	f.PrintHeader(fmt.Sprintf("%s %s", f.FormatID(comic.Num), title))

	if date := comic.Date(); date != "" {
		f.PrintDetail("Published", date)
	}
	f.PrintDetail("Image", comic.Img)
	if comic.Alt != "" {
		f.PrintDetail("Alt text", comic.Alt)
	}
	if comic.Link != "" {
		f.PrintDetail("Link", comic.Link)
	}
	if comic.News != "" {
		f.PrintDetail("News", comic.News)
	}
	if comic.Transcript != "" {
		f.PrintNewLine()
		f.PrintTitle("Transcript")
		_, _ = fmt.Fprintln(f.Writer, comic.Transcript)
	}

	for _, e := range saved {
		f.PrintDetail("Saved", fmt.Sprintf("%s (%s, %s)", f.FormatPath(e.FilePath), humanize.Bytes(uint64(e.Bytes)), humanize.Time(e.DownloadedAt)))
	}
}

// PrintHistory prints the download ledger as a table
func (f *Formatter) PrintHistory(entries []history.Entry) {
	f.PrintHeader("Download History")

	if len(entries) == 0 {
		f.PrintWarning("Nothing downloaded yet.")
		return
	}

	data := make([][]string, len(entries))
	for i, e := range entries {
		sum := e.SHA256
		if len(sum) > 12 {
			sum = sum[:12]
		}
		data[i] = []string{
			strconv.Itoa(e.Num),
			e.Title,
			humanize.Bytes(uint64(e.Bytes)),
			humanize.Time(e.DownloadedAt),
			sum,
			e.FilePath,
		}
	}
	f.PrintTable([]string{"NUM", "TITLE", "SIZE", "WHEN", "SHA256", "PATH"}, data)
}

// PrintVersionInfo formats and prints version information
func (f *Formatter) PrintVersionInfo(version, goVersion, os, arch, logFile string) {
	f.PrintHeader("xkcdfetch Version Information")

	f.PrintDetail("Version", version)
	f.PrintDetail("Go version", goVersion)
	f.PrintDetail("OS/Arch", fmt.Sprintf("%s/%s", os, arch))

	if logFile != "" {
		f.PrintDetail("Log file", f.FormatPath(logFile))
	} else {
		f.PrintDetail("Logging to file", "disabled")
	}
}

func category(err error) string {
	var tracked *pkgerrors.TrackedError
	switch {
	case pkgerrors.IsInvalidIdentifier(err):
		return "invalid"
	case pkgerrors.IsWrite(err):
		return "write"
	case pkgerrors.IsFetch(err):
		return "fetch"
	case errors.As(err, &tracked):
		return string(tracked.Category)
	}
	return "error"
}
