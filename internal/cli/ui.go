package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives all status output; tests may redirect it.
var stdout io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	// inspect table
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

// status prefixes
var (
	markSuccess = styleOK.Render("✓")
	markWarning = styleWarning.Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	markArrow   = styleDim.Render("→")
)

func printLine(parts ...string) {
	fmt.Fprintln(stdout, strings.Join(parts, " "))
}

func printSuccess(format string, args ...any) {
	printLine(markSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(markWarning, styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(markInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	printLine(" ", styleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	printLine(" ", markArrow, styleValue.Render(path))
}

func printKeyValue(key, value string) {
	printLine(styleLabel.Render(key), styleValue.Render(value))
}

// printStats summarises a tally on one line and marks whether the layout
// and artifact came from the cache.
func printStats(categories, subcategories, records int, cached bool) {
	source := styleDim.Render("fresh")
	if cached {
		source = styleOK.Render("cached")
	}
	sep := styleDim.Render(" · ")
	line := styleDim.Render(fmt.Sprintf("%d categories", categories)) + sep +
		styleDim.Render(fmt.Sprintf("%d sub-categories", subcategories)) + sep +
		styleDim.Render(fmt.Sprintf("%d records", records)) + sep + source
	printLine(" ", line)
}

func printNextStep(description, cmd string) {
	printLine(styleDim.Render(description+":"), styleCommand.Render(cmd))
}
